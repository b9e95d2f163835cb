package repository

import (
	"context"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardIssuanceFilter struct {
	UserID       string
	SubmissionID string
	Status       []entity.RewardIssuanceStatus
}

type RewardIssuanceRepository interface {
	Create(ctx context.Context, data *entity.RewardIssuance) error
	GetByID(ctx context.Context, id string) (*entity.RewardIssuance, error)
	GetByIDInWorkspace(ctx context.Context, workspaceID, id string) (*entity.RewardIssuance, error)
	GetActive(ctx context.Context, submissionID string, rewardType entity.RewardType) (*entity.RewardIssuance, error)
	GetByExternalTransactionID(ctx context.Context, provider, transactionID string) (*entity.RewardIssuance, error)
	GetList(ctx context.Context, workspaceID string, filter *RewardIssuanceFilter, offset, limit int) ([]entity.RewardIssuance, error)
	UpdateByStatus(ctx context.Context, id string, status entity.RewardIssuanceStatus, data map[string]any) error
}

type rewardIssuanceRepository struct{}

func NewRewardIssuanceRepository() *rewardIssuanceRepository {
	return &rewardIssuanceRepository{}
}

func (r *rewardIssuanceRepository) Create(ctx context.Context, data *entity.RewardIssuance) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardIssuanceRepository) GetByID(ctx context.Context, id string) (*entity.RewardIssuance, error) {
	var result entity.RewardIssuance
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardIssuanceRepository) GetByIDInWorkspace(
	ctx context.Context, workspaceID, id string,
) (*entity.RewardIssuance, error) {
	var result entity.RewardIssuance
	err := xcontext.DB(ctx).
		Where("id=? AND workspace_id=?", id, workspaceID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetActive returns the latest issuance of the submission for the reward type
// which has not failed.
func (r *rewardIssuanceRepository) GetActive(
	ctx context.Context, submissionID string, rewardType entity.RewardType,
) (*entity.RewardIssuance, error) {
	var result entity.RewardIssuance
	err := xcontext.DB(ctx).
		Where("submission_id=? AND type=? AND status<>?", submissionID, rewardType, entity.IssuanceFailed).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardIssuanceRepository) GetByExternalTransactionID(
	ctx context.Context, provider, transactionID string,
) (*entity.RewardIssuance, error) {
	var result entity.RewardIssuance
	tx := xcontext.DB(ctx).Where("external_transaction_id=?", transactionID)
	if provider != "" {
		tx = tx.Where("provider=?", provider)
	}

	if err := tx.Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardIssuanceRepository) GetList(
	ctx context.Context,
	workspaceID string,
	filter *RewardIssuanceFilter,
	offset, limit int,
) ([]entity.RewardIssuance, error) {
	var result []entity.RewardIssuance
	tx := xcontext.DB(ctx).
		Where("workspace_id=?", workspaceID).
		Offset(offset).
		Limit(limit).
		Order("created_at DESC")

	if filter.UserID != "" {
		tx.Where("user_id=?", filter.UserID)
	}

	if filter.SubmissionID != "" {
		tx.Where("submission_id=?", filter.SubmissionID)
	}

	if len(filter.Status) > 0 {
		tx.Where("status IN (?)", filter.Status)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateByStatus returns gorm.ErrRecordNotFound if the issuance already left
// the given status.
func (r *rewardIssuanceRepository) UpdateByStatus(
	ctx context.Context, id string, status entity.RewardIssuanceStatus, data map[string]any,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status=?", id, status).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
