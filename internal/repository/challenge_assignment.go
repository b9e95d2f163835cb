package repository

import (
	"context"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeAssignmentRepository interface {
	Create(ctx context.Context, data *entity.ChallengeAssignment) error
	Delete(ctx context.Context, workspaceID, challengeID, managerID string) error
	Exists(ctx context.Context, workspaceID, challengeID, managerID string) (bool, error)
	GetListByChallenge(ctx context.Context, workspaceID, challengeID string) ([]entity.ChallengeAssignment, error)
	GetChallengeIDsByManager(ctx context.Context, workspaceID, managerID string) ([]string, error)
}

type challengeAssignmentRepository struct{}

func NewChallengeAssignmentRepository() *challengeAssignmentRepository {
	return &challengeAssignmentRepository{}
}

// Create is a no-op when the manager is already assigned.
func (r *challengeAssignmentRepository) Create(ctx context.Context, data *entity.ChallengeAssignment) error {
	return xcontext.DB(ctx).
		Omit("Manager", "Challenge", "Workspace").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *challengeAssignmentRepository) Delete(ctx context.Context, workspaceID, challengeID, managerID string) error {
	tx := xcontext.DB(ctx).
		Where("workspace_id=? AND challenge_id=? AND manager_id=?", workspaceID, challengeID, managerID).
		Delete(&entity.ChallengeAssignment{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *challengeAssignmentRepository) Exists(
	ctx context.Context, workspaceID, challengeID, managerID string,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.ChallengeAssignment{}).
		Where("workspace_id=? AND challenge_id=? AND manager_id=?", workspaceID, challengeID, managerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *challengeAssignmentRepository) GetListByChallenge(
	ctx context.Context, workspaceID, challengeID string,
) ([]entity.ChallengeAssignment, error) {
	var result []entity.ChallengeAssignment
	err := xcontext.DB(ctx).
		Where("workspace_id=? AND challenge_id=?", workspaceID, challengeID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeAssignmentRepository) GetChallengeIDsByManager(
	ctx context.Context, workspaceID, managerID string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.ChallengeAssignment{}).
		Where("workspace_id=? AND manager_id=?", workspaceID, managerID).
		Pluck("challenge_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
