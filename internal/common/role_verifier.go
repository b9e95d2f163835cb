package common

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/enum"
	"gorm.io/gorm"
)

var ErrNotMember = errors.New("user is not a member of the workspace")

type Action string

var (
	AdminReviewAction     = enum.New(Action("admin_review"))
	ManagerReviewAction   = enum.New(Action("manager_review"))
	ViewReviewQueueAction = enum.New(Action("view_review_queue"))
	ResubmitAction        = enum.New(Action("resubmit"))
)

type DenyReason string

const (
	DenyNone        DenyReason = ""
	DenyNotMember   DenyReason = "not_member"
	DenyRole        DenyReason = "role"
	DenyNotAssigned DenyReason = "not_assigned"
	DenySelf        DenyReason = "self"
)

// PermissionContext is what a user may do in a workspace, optionally narrowed
// to one challenge.
type PermissionContext struct {
	UserID      string
	WorkspaceID string
	ChallengeID string
	Role        entity.WorkspaceRole
	IsAssigned  bool
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

type PermissionResolver struct {
	workspaceRepo  repository.WorkspaceRepository
	assignmentRepo repository.ChallengeAssignmentRepository
}

func NewPermissionResolver(
	workspaceRepo repository.WorkspaceRepository,
	assignmentRepo repository.ChallengeAssignmentRepository,
) *PermissionResolver {
	return &PermissionResolver{
		workspaceRepo:  workspaceRepo,
		assignmentRepo: assignmentRepo,
	}
}

// Resolve loads the role of the user in the workspace and, for managers,
// whether they are assigned to the challenge. It returns ErrNotMember if the
// user does not belong to the workspace.
func (r *PermissionResolver) Resolve(
	ctx context.Context, userID, workspaceID, challengeID string,
) (*PermissionContext, error) {
	member, err := r.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}

		return nil, err
	}

	pc := &PermissionContext{
		UserID:      userID,
		WorkspaceID: workspaceID,
		ChallengeID: challengeID,
		Role:        member.Role,
	}

	if member.Role == entity.RoleManager && challengeID != "" {
		pc.IsAssigned, err = r.assignmentRepo.Exists(ctx, workspaceID, challengeID, userID)
		if err != nil {
			return nil, err
		}
	}

	return pc, nil
}

// CanApprove is false whenever the actor owns the submission, whatever the
// role.
func CanApprove(pc *PermissionContext, submissionOwnerID, actingUserID string) bool {
	if pc == nil || submissionOwnerID == actingUserID {
		return false
	}

	return pc.Role == entity.RoleAdmin || (pc.Role == entity.RoleManager && pc.IsAssigned)
}

// Decide tells whether the resolved user may perform action on a submission
// owned by submissionOwnerID.
func Decide(pc *PermissionContext, action Action, submissionOwnerID string) Decision {
	if pc == nil {
		return deny(DenyNotMember)
	}

	switch action {
	case AdminReviewAction:
		switch pc.Role {
		case entity.RoleAdmin:
			if pc.UserID == submissionOwnerID {
				return deny(DenySelf)
			}
			return allow()
		case entity.RoleManager, entity.RoleParticipant:
			return deny(DenyRole)
		}

	case ManagerReviewAction:
		switch pc.Role {
		case entity.RoleAdmin:
			if pc.UserID == submissionOwnerID {
				return deny(DenySelf)
			}
			return allow()
		case entity.RoleManager:
			if !pc.IsAssigned {
				return deny(DenyNotAssigned)
			}
			if pc.UserID == submissionOwnerID {
				return deny(DenySelf)
			}
			return allow()
		case entity.RoleParticipant:
			return deny(DenyRole)
		}

	case ViewReviewQueueAction:
		switch pc.Role {
		case entity.RoleAdmin, entity.RoleManager:
			return allow()
		case entity.RoleParticipant:
			return deny(DenyRole)
		}

	case ResubmitAction:
		switch pc.Role {
		case entity.RoleAdmin, entity.RoleManager, entity.RoleParticipant:
			if pc.UserID != submissionOwnerID {
				return deny(DenyRole)
			}
			return allow()
		}
	}

	return deny(DenyRole)
}
