package common

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type WorkspaceRoleVerifier struct {
	workspaceRepo repository.WorkspaceRepository
}

func NewWorkspaceRoleVerifier(workspaceRepo repository.WorkspaceRepository) *WorkspaceRoleVerifier {
	return &WorkspaceRoleVerifier{workspaceRepo: workspaceRepo}
}

// Verify checks that the requesting user has one of requiredRoles in the
// workspace. Without requiredRoles, any membership is enough.
func (verifier *WorkspaceRoleVerifier) Verify(
	ctx context.Context,
	workspaceID string,
	requiredRoles ...entity.WorkspaceRole,
) (*entity.WorkspaceMember, error) {
	userID := xcontext.RequestUserID(ctx)
	member, err := verifier.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}

		return nil, err
	}

	if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, member.Role) {
		return nil, errors.New("user role does not have permission")
	}

	return member, nil
}

// SecretEqual compares two shared secrets in constant time.
func SecretEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
