package domain

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/domain/eventlog"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PointsBudgetDomain interface {
	Get(context.Context, *model.GetBudgetRequest) (*model.GetBudgetResponse, error)
	Set(context.Context, *model.SetBudgetRequest) (*model.SetBudgetResponse, error)
}

type pointsBudgetDomain struct {
	budgetRepo    repository.PointsBudgetRepository
	challengeRepo repository.ChallengeRepository
	roleVerifier  *common.WorkspaceRoleVerifier
	eventLogger   *eventlog.Logger
}

func NewPointsBudgetDomain(
	budgetRepo repository.PointsBudgetRepository,
	challengeRepo repository.ChallengeRepository,
	workspaceRepo repository.WorkspaceRepository,
	eventLogger *eventlog.Logger,
) *pointsBudgetDomain {
	return &pointsBudgetDomain{
		budgetRepo:    budgetRepo,
		challengeRepo: challengeRepo,
		roleVerifier:  common.NewWorkspaceRoleVerifier(workspaceRepo),
		eventLogger:   eventLogger,
	}
}

func (d *pointsBudgetDomain) Get(
	ctx context.Context, req *model.GetBudgetRequest,
) (*model.GetBudgetResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin, entity.RoleManager); err != nil {
		return nil, err
	}

	budget, err := d.budgetRepo.GetByScope(ctx, req.WorkspaceID, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found budget")
		}

		xcontext.Logger(ctx).Errorf("Cannot get budget: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetBudgetResponse(convertPointsBudget(budget))
	return &resp, nil
}

// Set creates the budget of the scope or changes its total. The total can
// never go below what is already allocated.
func (d *pointsBudgetDomain) Set(
	ctx context.Context, req *model.SetBudgetRequest,
) (*model.SetBudgetResponse, error) {
	if req.TotalBudget < 0 {
		return nil, errorx.New(errorx.BadRequest, "Total budget must not be negative")
	}

	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
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

	budget, err := d.budgetRepo.GetByScope(ctx, req.WorkspaceID, req.ChallengeID)
	switch {
	case err == nil:
		if err := d.budgetRepo.UpdateTotal(ctx, budget.ID, req.TotalBudget); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.BadRequest,
					"Total budget must not be lower than the allocated %d points", budget.Allocated)
			}

			xcontext.Logger(ctx).Errorf("Cannot update budget: %v", err)
			return nil, errorx.Unknown
		}

		budget, err = d.budgetRepo.GetByID(ctx, budget.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reload budget: %v", err)
			return nil, errorx.Unknown
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = &entity.PointsBudget{
			Base:        entity.Base{ID: uuid.NewString()},
			WorkspaceID: req.WorkspaceID,
			TotalBudget: req.TotalBudget,
		}

		if req.ChallengeID != "" {
			budget.ChallengeID.Valid = true
			budget.ChallengeID.String = req.ChallengeID
		}

		if err := d.budgetRepo.Create(ctx, budget); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create budget: %v", err)
			return nil, errorx.Unknown
		}

	default:
		xcontext.Logger(ctx).Errorf("Cannot get budget: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.eventLogger.Append(ctx, eventlog.Event{
		WorkspaceID:  req.WorkspaceID,
		EntityType:   entity.BudgetEntity,
		EntityID:     budget.ID,
		Action:       "set_total",
		ActorID:      xcontext.RequestUserID(ctx),
		RewardAmount: decimal.Zero,
		Metadata: map[string]any{
			"challenge_id": req.ChallengeID,
			"total_budget": strconv.FormatInt(budget.TotalBudget, 10),
		},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append event log: %v", err)
	}

	resp := model.SetBudgetResponse(convertPointsBudget(budget))
	return &resp, nil
}
