package repository

import (
	"context"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetByIDInWorkspace(ctx context.Context, workspaceID, id string) (*entity.Challenge, error)
	CreateActivity(ctx context.Context, data *entity.Activity) error
	GetActivityByID(ctx context.Context, id string) (*entity.Activity, error)
	Enroll(ctx context.Context, challengeID, userID string) error
	IsEnrolled(ctx context.Context, challengeID, userID string) (bool, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Omit("Workspace").Create(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetByIDInWorkspace(
	ctx context.Context, workspaceID, id string,
) (*entity.Challenge, error) {
	var result entity.Challenge
	err := xcontext.DB(ctx).
		Where("id=? AND workspace_id=?", id, workspaceID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) CreateActivity(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Omit("Challenge").Create(data).Error
}

func (r *challengeRepository) GetActivityByID(ctx context.Context, id string) (*entity.Activity, error) {
	var result entity.Activity
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) Enroll(ctx context.Context, challengeID, userID string) error {
	return xcontext.DB(ctx).
		Omit("Challenge", "User").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Enrollment{ChallengeID: challengeID, UserID: userID}).Error
}

func (r *challengeRepository) IsEnrolled(ctx context.Context, challengeID, userID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Enrollment{}).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
