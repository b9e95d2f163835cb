package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/domain/budget"
	"github.com/questx-lab/challenge/internal/domain/rewardissuer"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/internal/rewardprovider"
	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardIssuanceDomain interface {
	GetList(context.Context, *model.GetListRewardIssuanceRequest) (*model.GetListRewardIssuanceResponse, error)
	GetMine(context.Context, *model.GetMyRewardIssuanceRequest) (*model.GetMyRewardIssuanceResponse, error)
	Grant(context.Context, *model.GrantRewardRequest) (*model.GrantRewardResponse, error)
	Retry(context.Context, *model.RetryRewardIssuanceRequest) (*model.RetryRewardIssuanceResponse, error)
	Cancel(context.Context, *model.CancelRewardIssuanceRequest) (*model.CancelRewardIssuanceResponse, error)
	Callback(context.Context, *model.RewardCallbackRequest) (*model.RewardCallbackResponse, error)
}

type rewardIssuanceDomain struct {
	issuanceRepo  repository.RewardIssuanceRepository
	challengeRepo repository.ChallengeRepository
	workspaceRepo repository.WorkspaceRepository
	roleVerifier  *common.WorkspaceRoleVerifier
	issuer        *rewardissuer.Issuer
}

func NewRewardIssuanceDomain(
	issuanceRepo repository.RewardIssuanceRepository,
	challengeRepo repository.ChallengeRepository,
	workspaceRepo repository.WorkspaceRepository,
	issuer *rewardissuer.Issuer,
) *rewardIssuanceDomain {
	return &rewardIssuanceDomain{
		issuanceRepo:  issuanceRepo,
		challengeRepo: challengeRepo,
		workspaceRepo: workspaceRepo,
		roleVerifier:  common.NewWorkspaceRoleVerifier(workspaceRepo),
		issuer:        issuer,
	}
}

func (d *rewardIssuanceDomain) GetList(
	ctx context.Context, req *model.GetListRewardIssuanceRequest,
) (*model.GetListRewardIssuanceResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	filter := &repository.RewardIssuanceFilter{
		UserID:       req.UserID,
		SubmissionID: req.SubmissionID,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.RewardIssuanceStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
		filter.Status = []entity.RewardIssuanceStatus{status}
	}

	issuances, err := d.getList(ctx, req.WorkspaceID, filter, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetListRewardIssuanceResponse{Issuances: issuances}, nil
}

func (d *rewardIssuanceDomain) GetMine(
	ctx context.Context, req *model.GetMyRewardIssuanceRequest,
) (*model.GetMyRewardIssuanceResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID); err != nil {
		return nil, err
	}

	filter := &repository.RewardIssuanceFilter{UserID: xcontext.RequestUserID(ctx)}
	issuances, err := d.getList(ctx, req.WorkspaceID, filter, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetMyRewardIssuanceResponse{Issuances: issuances}, nil
}

func (d *rewardIssuanceDomain) getList(
	ctx context.Context,
	workspaceID string,
	filter *repository.RewardIssuanceFilter,
	offset, limit int,
) ([]model.RewardIssuance, error) {
	issuances, err := d.issuanceRepo.GetList(ctx, workspaceID, filter, offset, common.Limit(ctx, limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of issuances: %v", err)
		return nil, errorx.Unknown
	}

	data := []model.RewardIssuance{}
	for i := range issuances {
		data = append(data, convertRewardIssuance(&issuances[i]))
	}

	return data, nil
}

// Grant issues a reward which is not tied to any submission.
func (d *rewardIssuanceDomain) Grant(
	ctx context.Context, req *model.GrantRewardRequest,
) (*model.GrantRewardResponse, error) {
	reward, err := convertRewardInput(&req.Reward)
	if err != nil {
		return nil, err
	}

	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := d.workspaceRepo.GetMember(ctx, req.WorkspaceID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user in workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if req.ChallengeID != "" {
		if _, err := d.challengeRepo.GetByIDInWorkspace(ctx, req.WorkspaceID, req.ChallengeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}
	}

	issuance, err := d.issuer.IssueReward(ctx, &rewardissuer.Spec{
		WorkspaceID: req.WorkspaceID,
		UserID:      req.UserID,
		ChallengeID: req.ChallengeID,
		Reward:      *reward,
		CreatedBy:   xcontext.RequestUserID(ctx),
	})
	if err != nil {
		return nil, issuanceError(ctx, err)
	}

	resp := model.GrantRewardResponse(convertRewardIssuance(issuance))
	return &resp, nil
}

// Retry issues again the reward of a FAILED issuance. A submission reward
// keeps its idempotency key, so a reward issued in between is returned as is.
func (d *rewardIssuanceDomain) Retry(
	ctx context.Context, req *model.RetryRewardIssuanceRequest,
) (*model.RetryRewardIssuanceResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	failed, err := d.loadIssuance(ctx, req.WorkspaceID, req.IssuanceID)
	if err != nil {
		return nil, err
	}

	if failed.Status != entity.IssuanceFailed {
		return nil, errorx.New(errorx.BadRequest, "Only failed issuances can be retried")
	}

	issuance, err := d.issuer.IssueReward(ctx, &rewardissuer.Spec{
		WorkspaceID:  failed.WorkspaceID,
		UserID:       failed.UserID,
		ChallengeID:  failed.ChallengeID,
		SubmissionID: failed.SubmissionID.String,
		Reward: rewardissuer.Reward{
			Type:     failed.Type,
			Amount:   failed.Amount,
			Currency: failed.Currency,
			SkuID:    failed.SkuID,
			Provider: failed.Provider,
		},
		CreatedBy: xcontext.RequestUserID(ctx),
	})
	if err != nil {
		return nil, issuanceError(ctx, err)
	}

	resp := model.RetryRewardIssuanceResponse(convertRewardIssuance(issuance))
	return &resp, nil
}

func (d *rewardIssuanceDomain) Cancel(
	ctx context.Context, req *model.CancelRewardIssuanceRequest,
) (*model.CancelRewardIssuanceResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := d.loadIssuance(ctx, req.WorkspaceID, req.IssuanceID); err != nil {
		return nil, err
	}

	issuance, err := d.issuer.Cancel(ctx, req.IssuanceID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, rewardissuer.ErrNotCancellable) {
			return nil, errorx.New(errorx.BadRequest, "Only issued points can be cancelled")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel issuance: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.CancelRewardIssuanceResponse(convertRewardIssuance(issuance))
	return &resp, nil
}

// Callback applies the asynchronous result reported by a provider. The
// caller is authenticated by the webhook secret, not by a user token.
func (d *rewardIssuanceDomain) Callback(
	ctx context.Context, req *model.RewardCallbackRequest,
) (*model.RewardCallbackResponse, error) {
	if req.Provider == "" || req.TransactionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Provider and transaction id are required")
	}

	status, err := enum.ToEnum[rewardprovider.Status](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	issuance, err := d.issuer.HandleCallback(ctx, req.Provider, req.TransactionID, status, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found issuance")
		}

		xcontext.Logger(ctx).Errorf("Cannot handle reward callback: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RewardCallbackResponse{
		IssuanceID: issuance.ID,
		Status:     string(issuance.Status),
	}, nil
}

func (d *rewardIssuanceDomain) loadIssuance(ctx context.Context, workspaceID, id string) (*entity.RewardIssuance, error) {
	issuance, err := d.issuanceRepo.GetByIDInWorkspace(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found issuance")
		}

		xcontext.Logger(ctx).Errorf("Cannot get issuance: %v", err)
		return nil, errorx.Unknown
	}

	return issuance, nil
}

func issuanceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, budget.ErrBudgetExceeded):
		return errorx.New(errorx.BudgetExceeded, "Points budget exceeded")
	case errors.Is(err, budget.ErrNoBudget):
		return errorx.New(errorx.BudgetExceeded, "No points budget configured")
	case errors.Is(err, rewardissuer.ErrInvalidReward):
		return errorx.New(errorx.BadRequest, "%s", err.Error())
	case errors.Is(err, rewardissuer.ErrIssuanceFailed):
		return errorx.New(errorx.IssuanceFailed, "%s", err.Error())
	default:
		xcontext.Logger(ctx).Errorf("Cannot issue reward: %v", err)
		return errorx.Unknown
	}
}
