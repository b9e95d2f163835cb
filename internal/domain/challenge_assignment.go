package domain

import (
	"context"
	"errors"

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

type ChallengeAssignmentDomain interface {
	Assign(context.Context, *model.AssignManagerRequest) (*model.AssignManagerResponse, error)
	Unassign(context.Context, *model.UnassignManagerRequest) (*model.UnassignManagerResponse, error)
	GetList(context.Context, *model.GetListAssignmentRequest) (*model.GetListAssignmentResponse, error)
}

type challengeAssignmentDomain struct {
	assignmentRepo repository.ChallengeAssignmentRepository
	challengeRepo  repository.ChallengeRepository
	workspaceRepo  repository.WorkspaceRepository
	roleVerifier   *common.WorkspaceRoleVerifier
	eventLogger    *eventlog.Logger
}

func NewChallengeAssignmentDomain(
	assignmentRepo repository.ChallengeAssignmentRepository,
	challengeRepo repository.ChallengeRepository,
	workspaceRepo repository.WorkspaceRepository,
	eventLogger *eventlog.Logger,
) *challengeAssignmentDomain {
	return &challengeAssignmentDomain{
		assignmentRepo: assignmentRepo,
		challengeRepo:  challengeRepo,
		workspaceRepo:  workspaceRepo,
		roleVerifier:   common.NewWorkspaceRoleVerifier(workspaceRepo),
		eventLogger:    eventLogger,
	}
}

func (d *challengeAssignmentDomain) Assign(
	ctx context.Context, req *model.AssignManagerRequest,
) (*model.AssignManagerResponse, error) {
	if req.ManagerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty manager id")
	}

	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	if err := d.checkChallenge(ctx, req.WorkspaceID, req.ChallengeID); err != nil {
		return nil, err
	}

	member, err := d.workspaceRepo.GetMember(ctx, req.WorkspaceID, req.ManagerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found manager")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if member.Role != entity.RoleManager {
		return nil, errorx.New(errorx.BadRequest, "Only managers can be assigned to a challenge")
	}

	assignment := &entity.ChallengeAssignment{
		ManagerID:   req.ManagerID,
		ChallengeID: req.ChallengeID,
		WorkspaceID: req.WorkspaceID,
		CreatedBy:   xcontext.RequestUserID(ctx),
	}

	if err := d.assignmentRepo.Create(ctx, assignment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create assignment: %v", err)
		return nil, errorx.Unknown
	}

	d.logEvent(ctx, req.WorkspaceID, req.ChallengeID, req.ManagerID, "assign")

	resp := model.AssignManagerResponse(convertChallengeAssignment(assignment))
	return &resp, nil
}

func (d *challengeAssignmentDomain) Unassign(
	ctx context.Context, req *model.UnassignManagerRequest,
) (*model.UnassignManagerResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	err := d.assignmentRepo.Delete(ctx, req.WorkspaceID, req.ChallengeID, req.ManagerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found assignment")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete assignment: %v", err)
		return nil, errorx.Unknown
	}

	d.logEvent(ctx, req.WorkspaceID, req.ChallengeID, req.ManagerID, "unassign")

	return &model.UnassignManagerResponse{}, nil
}

func (d *challengeAssignmentDomain) GetList(
	ctx context.Context, req *model.GetListAssignmentRequest,
) (*model.GetListAssignmentResponse, error) {
	if err := verifyRole(ctx, d.roleVerifier, req.WorkspaceID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	if err := d.checkChallenge(ctx, req.WorkspaceID, req.ChallengeID); err != nil {
		return nil, err
	}

	assignments, err := d.assignmentRepo.GetListByChallenge(ctx, req.WorkspaceID, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of assignments: %v", err)
		return nil, errorx.Unknown
	}

	data := []model.ChallengeAssignment{}
	for i := range assignments {
		data = append(data, convertChallengeAssignment(&assignments[i]))
	}

	return &model.GetListAssignmentResponse{Assignments: data}, nil
}

func (d *challengeAssignmentDomain) checkChallenge(ctx context.Context, workspaceID, challengeID string) error {
	if _, err := d.challengeRepo.GetByIDInWorkspace(ctx, workspaceID, challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *challengeAssignmentDomain) logEvent(ctx context.Context, workspaceID, challengeID, managerID, action string) {
	_, err := d.eventLogger.Append(ctx, eventlog.Event{
		WorkspaceID:  workspaceID,
		EntityType:   entity.AssignmentEntity,
		EntityID:     challengeID + ":" + managerID,
		Action:       action,
		ActorID:      xcontext.RequestUserID(ctx),
		RewardAmount: decimal.Zero,
		Metadata: map[string]any{
			"challenge_id": challengeID,
			"manager_id":   managerID,
		},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append event log: %v", err)
	}
}
