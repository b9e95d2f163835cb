package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
)

type PointsBudgetRepository interface {
	Create(ctx context.Context, data *entity.PointsBudget) error
	GetByID(ctx context.Context, id string) (*entity.PointsBudget, error)
	GetByScope(ctx context.Context, workspaceID, challengeID string) (*entity.PointsBudget, error)
	Allocate(ctx context.Context, id string, amount int64) error
	Release(ctx context.Context, id string, amount int64) error
	UpdateTotal(ctx context.Context, id string, total int64) error
}

type pointsBudgetRepository struct{}

func NewPointsBudgetRepository() *pointsBudgetRepository {
	return &pointsBudgetRepository{}
}

func (r *pointsBudgetRepository) Create(ctx context.Context, data *entity.PointsBudget) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointsBudgetRepository) GetByID(ctx context.Context, id string) (*entity.PointsBudget, error) {
	var result entity.PointsBudget
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByScope returns the budget of a challenge, or the workspace-level budget
// when challengeID is empty.
func (r *pointsBudgetRepository) GetByScope(
	ctx context.Context, workspaceID, challengeID string,
) (*entity.PointsBudget, error) {
	var result entity.PointsBudget
	tx := xcontext.DB(ctx).Where("workspace_id=?", workspaceID)
	if challengeID == "" {
		tx = tx.Where("challenge_id IS NULL")
	} else {
		tx = tx.Where("challenge_id=?", challengeID)
	}

	if err := tx.Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Allocate increases the allocated amount in a single statement guarded by
// the total budget. It returns gorm.ErrRecordNotFound if the budget cannot
// cover the amount.
func (r *pointsBudgetRepository) Allocate(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PointsBudget{}).
		Where("id=? AND allocated+? <= total_budget", id, amount).
		Update("allocated", gorm.Expr("allocated+?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *pointsBudgetRepository) Release(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PointsBudget{}).
		Where("id=? AND allocated >= ?", id, amount).
		Update("allocated", gorm.Expr("allocated-?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateTotal refuses to shrink the total below what is already allocated.
func (r *pointsBudgetRepository) UpdateTotal(ctx context.Context, id string, total int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PointsBudget{}).
		Where("id=? AND allocated <= ?", id, total).
		Update("total_budget", total)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
