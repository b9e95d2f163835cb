package domain

import (
	"context"

	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
)

type EventLogDomain interface {
	GetList(context.Context, *model.GetListEventLogRequest) (*model.GetListEventLogResponse, error)
}

type eventLogDomain struct {
	eventLogRepo repository.EventLogRepository
	roleVerifier *common.WorkspaceRoleVerifier
}

func NewEventLogDomain(
	eventLogRepo repository.EventLogRepository,
	workspaceRepo repository.WorkspaceRepository,
) *eventLogDomain {
	return &eventLogDomain{
		eventLogRepo: eventLogRepo,
		roleVerifier: common.NewWorkspaceRoleVerifier(workspaceRepo),
	}
}

func (d *eventLogDomain) GetList(
	ctx context.Context, req *model.GetListEventLogRequest,
) (*model.GetListEventLogResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	filter := &repository.EventLogFilter{EntityID: req.EntityID}
	if req.EntityType != "" {
		entityType, err := enum.ToEnum[entity.EventEntityType](req.EntityType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid entity type %s", req.EntityType)
		}
		filter.EntityType = entityType
	}

	events, err := d.eventLogRepo.GetList(ctx, req.WorkspaceID, filter, req.Offset, common.Limit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of events: %v", err)
		return nil, errorx.Unknown
	}

	data := []model.EventLog{}
	for i := range events {
		data = append(data, convertEventLog(&events[i]))
	}

	return &model.GetListEventLogResponse{Events: data}, nil
}
