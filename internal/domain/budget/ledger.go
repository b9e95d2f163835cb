// Package budget keeps the points pools of workspaces and challenges.
package budget

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
)

// Unlimited is the remaining amount reported when no budget applies.
const Unlimited int64 = -1

var (
	ErrBudgetExceeded = errors.New("points budget exceeded")
	ErrNoBudget       = errors.New("no points budget configured")
	ErrInvalidAmount  = errors.New("amount must be positive")
)

type ReserveResult struct {
	OK        bool
	Remaining int64

	// BudgetID is empty when the reservation was not taken from any budget.
	BudgetID string
}

type Ledger struct {
	budgetRepo repository.PointsBudgetRepository
}

func NewLedger(budgetRepo repository.PointsBudgetRepository) *Ledger {
	return &Ledger{budgetRepo: budgetRepo}
}

// Lookup returns the budget a reservation for the challenge would draw from:
// the challenge budget if one exists, otherwise the workspace budget. It
// returns gorm.ErrRecordNotFound when neither exists.
func (l *Ledger) Lookup(ctx context.Context, workspaceID, challengeID string) (*entity.PointsBudget, error) {
	if challengeID != "" {
		b, err := l.budgetRepo.GetByScope(ctx, workspaceID, challengeID)
		if err == nil {
			return b, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return l.budgetRepo.GetByScope(ctx, workspaceID, "")
}

// Reserve allocates amount points in a single conditional statement. Nothing
// is allocated when it fails. Call it inside the caller's transaction so the
// reservation rolls back together with the rest of the work.
func (l *Ledger) Reserve(ctx context.Context, workspaceID, challengeID string, amount int64) (*ReserveResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	b, err := l.Lookup(ctx, workspaceID, challengeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if xcontext.Configs(ctx).Reward.RequireBudget {
			return nil, ErrNoBudget
		}

		return &ReserveResult{OK: true, Remaining: Unlimited}, nil
	}

	if err := l.budgetRepo.Allocate(ctx, b.ID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetExceeded
		}

		return nil, err
	}

	b, err = l.budgetRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return &ReserveResult{OK: true, Remaining: b.Remaining(), BudgetID: b.ID}, nil
}

// Release gives amount points back to the budget.
func (l *Ledger) Release(ctx context.Context, budgetID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := l.budgetRepo.Release(ctx, budgetID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("budget not found or release exceeds allocation")
		}

		return err
	}

	return nil
}
