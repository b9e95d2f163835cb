package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/domain/reviewflow"
	"github.com/questx-lab/challenge/internal/domain/rewardissuer"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
)

// decisionError turns a denied permission decision into an API error.
func decisionError(decision common.Decision) error {
	switch decision.Reason {
	case common.DenySelf:
		return errorx.New(errorx.SelfApprovalForbidden, "Cannot review your own submission")
	case common.DenyNotAssigned:
		return errorx.New(errorx.NotAssignedToChallenge, "You are not assigned to this challenge")
	case common.DenyNotMember:
		return errorx.New(errorx.PermissionDenied, "You are not a member of this workspace")
	default:
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}
}

func reviewflowError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, reviewflow.ErrAlreadyReviewed):
		return errorx.New(errorx.AlreadyReviewed, "Submission has already been reviewed")
	case errors.Is(err, reviewflow.ErrInvalidDecision),
		errors.Is(err, reviewflow.ErrNotesRequired),
		errors.Is(err, reviewflow.ErrManagerApprovalRequired),
		errors.Is(err, reviewflow.ErrNotRevisable):
		return errorx.New(errorx.BadRequest, "%s", err.Error())
	default:
		xcontext.Logger(ctx).Errorf("Unexpected review flow error: %v", err)
		return errorx.Unknown
	}
}

// resolvePermission resolves the permission context of the requesting user.
func resolvePermission(
	ctx context.Context,
	resolver *common.PermissionResolver,
	workspaceID, challengeID string,
) (*common.PermissionContext, error) {
	pc, err := resolver.Resolve(ctx, xcontext.RequestUserID(ctx), workspaceID, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve permission: %v", err)
		return nil, errorx.Unknown
	}

	return pc, nil
}

func verifyRole(
	ctx context.Context,
	verifier *common.WorkspaceRoleVerifier,
	workspaceID string,
	roles ...entity.WorkspaceRole,
) error {
	if _, err := verifier.Verify(ctx, workspaceID, roles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

func checkNotes(ctx context.Context, notes string) error {
	maxLength := xcontext.Configs(ctx).Review.MaxNotesLength
	if maxLength > 0 && len(notes) > maxLength {
		return errorx.New(errorx.BadRequest, "Notes too long (at most %d characters)", maxLength)
	}

	return nil
}

// convertRewardInput validates a reward sent by a client.
func convertRewardInput(input *model.Reward) (*rewardissuer.Reward, error) {
	if input == nil {
		return nil, nil
	}

	rewardType, err := enum.ToEnum[entity.RewardType](input.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reward type %s", input.Type)
	}

	reward := &rewardissuer.Reward{
		Type:     rewardType,
		Amount:   input.Amount,
		Currency: input.Currency,
		SkuID:    input.SkuID,
		Provider: input.Provider,
	}

	if err := rewardissuer.Validate(reward); err != nil {
		return nil, errorx.New(errorx.BadRequest, "%s", err.Error())
	}

	return reward, nil
}

// checkApproval re-checks an approving decision right before the submission
// is mutated. Nobody approves their own submission.
func checkApproval(pc *common.PermissionContext, decision reviewflow.Decision, ownerID string) error {
	if decision != reviewflow.Approve || common.CanApprove(pc, ownerID, pc.UserID) {
		return nil
	}

	if pc.UserID == ownerID {
		return errorx.New(errorx.SelfApprovalForbidden, "Cannot approve your own submission")
	}

	return errorx.New(errorx.NotAssignedToChallenge, "You are not assigned to this challenge")
}
