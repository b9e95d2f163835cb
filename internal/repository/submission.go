package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
)

type SubmissionFilter struct {
	Status       []entity.SubmissionStatus
	ChallengeIDs []string
	UserID       string
}

type SubmissionRepository interface {
	Create(ctx context.Context, data *entity.Submission) error
	GetByIDInWorkspace(ctx context.Context, workspaceID, id string) (*entity.Submission, error)
	GetList(ctx context.Context, workspaceID string, filter *SubmissionFilter, offset, limit int) ([]entity.Submission, error)
	UpdateByStatus(ctx context.Context, id string, status entity.SubmissionStatus, data map[string]any) error
	UpdatePointsAwarded(ctx context.Context, id string, points int64) error
}

type submissionRepository struct{}

func NewSubmissionRepository() *submissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(ctx context.Context, data *entity.Submission) error {
	return xcontext.DB(ctx).Omit("Activity", "User").Create(data).Error
}

// GetByIDInWorkspace only returns the submission if its activity belongs to a
// challenge of the given workspace.
func (r *submissionRepository) GetByIDInWorkspace(
	ctx context.Context, workspaceID, id string,
) (*entity.Submission, error) {
	var result entity.Submission
	err := xcontext.DB(ctx).
		Joins("join activities on activities.id = submissions.activity_id").
		Joins("join challenges on challenges.id = activities.challenge_id").
		Where("submissions.id = ? AND challenges.workspace_id = ?", id, workspaceID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *submissionRepository) GetList(
	ctx context.Context,
	workspaceID string,
	filter *SubmissionFilter,
	offset, limit int,
) ([]entity.Submission, error) {
	var result []entity.Submission
	tx := xcontext.DB(ctx).
		Joins("join activities on activities.id = submissions.activity_id").
		Joins("join challenges on challenges.id = activities.challenge_id").
		Where("challenges.workspace_id = ?", workspaceID).
		Offset(offset).
		Limit(limit).
		Order("submissions.submitted_at ASC")

	if len(filter.Status) > 0 {
		tx.Where("submissions.status IN (?)", filter.Status)
	}

	if filter.ChallengeIDs != nil {
		tx.Where("submissions.challenge_id IN (?)", filter.ChallengeIDs)
	}

	if filter.UserID != "" {
		tx.Where("submissions.user_id = ?", filter.UserID)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateByStatus applies data only while the submission is still in the given
// status. It returns gorm.ErrRecordNotFound when another writer moved the
// submission first.
func (r *submissionRepository) UpdateByStatus(
	ctx context.Context, id string, status entity.SubmissionStatus, data map[string]any,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Submission{}).
		Where("id = ? AND status = ?", id, status).
		Updates(data)

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

func (r *submissionRepository) UpdatePointsAwarded(ctx context.Context, id string, points int64) error {
	return xcontext.DB(ctx).
		Model(&entity.Submission{}).
		Where("id = ?", id).
		Update("points_awarded", points).Error
}
