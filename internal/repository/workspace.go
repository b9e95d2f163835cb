package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, data *entity.Workspace) error
	GetByID(ctx context.Context, id string) (*entity.Workspace, error)
	UpsertMember(ctx context.Context, data *entity.WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID string) (*entity.WorkspaceMember, error)
	IncreasePoints(ctx context.Context, workspaceID, userID string, points int64) error
}

type workspaceRepository struct{}

func NewWorkspaceRepository() *workspaceRepository {
	return &workspaceRepository{}
}

func (r *workspaceRepository) Create(ctx context.Context, data *entity.Workspace) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*entity.Workspace, error) {
	var result entity.Workspace
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *workspaceRepository) UpsertMember(ctx context.Context, data *entity.WorkspaceMember) error {
	return xcontext.DB(ctx).
		Omit("Workspace", "User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "workspace_id"},
				{Name: "user_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).Create(data).Error
}

func (r *workspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (*entity.WorkspaceMember, error) {
	var result entity.WorkspaceMember
	err := xcontext.DB(ctx).
		Where("workspace_id=? AND user_id=?", workspaceID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *workspaceRepository) IncreasePoints(ctx context.Context, workspaceID, userID string, points int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.WorkspaceMember{}).
		Where("workspace_id=? AND user_id=?", workspaceID, userID).
		Update("points", gorm.Expr("points+?", points))

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
