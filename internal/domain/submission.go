package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/domain/eventlog"
	"github.com/questx-lab/challenge/internal/domain/reviewflow"
	"github.com/questx-lab/challenge/internal/domain/rewardissuer"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type SubmissionDomain interface {
	Submit(context.Context, *model.SubmitRequest) (*model.SubmitResponse, error)
	Resubmit(context.Context, *model.ResubmitRequest) (*model.ResubmitResponse, error)
	Get(context.Context, *model.GetSubmissionRequest) (*model.GetSubmissionResponse, error)
	GetList(context.Context, *model.GetListSubmissionRequest) (*model.GetListSubmissionResponse, error)
	Review(context.Context, *model.ReviewSubmissionRequest) (*model.ReviewSubmissionResponse, error)
	ManagerReview(context.Context, *model.ManagerReviewSubmissionRequest) (*model.ManagerReviewSubmissionResponse, error)
}

type submissionDomain struct {
	submissionRepo repository.SubmissionRepository
	challengeRepo  repository.ChallengeRepository
	assignmentRepo repository.ChallengeAssignmentRepository
	resolver       *common.PermissionResolver
	issuer         *rewardissuer.Issuer
	eventLogger    *eventlog.Logger
}

func NewSubmissionDomain(
	submissionRepo repository.SubmissionRepository,
	challengeRepo repository.ChallengeRepository,
	workspaceRepo repository.WorkspaceRepository,
	assignmentRepo repository.ChallengeAssignmentRepository,
	issuer *rewardissuer.Issuer,
	eventLogger *eventlog.Logger,
) *submissionDomain {
	return &submissionDomain{
		submissionRepo: submissionRepo,
		challengeRepo:  challengeRepo,
		assignmentRepo: assignmentRepo,
		resolver:       common.NewPermissionResolver(workspaceRepo, assignmentRepo),
		issuer:         issuer,
		eventLogger:    eventLogger,
	}
}

func (d *submissionDomain) Submit(
	ctx context.Context, req *model.SubmitRequest,
) (*model.SubmitResponse, error) {
	if req.TextContent == "" && len(req.FileURLs) == 0 && req.LinkURL == "" {
		return nil, errorx.New(errorx.BadRequest, "Submission must not be empty")
	}

	linkURL := ""
	if req.LinkURL != "" {
		var err error
		linkURL, err = common.ParseLinkURL(req.LinkURL)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid link url: %v", err)
		}
	}

	activity, err := d.challengeRepo.GetActivityByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, errorx.Unknown
	}

	challenge, err := d.challengeRepo.GetByIDInWorkspace(ctx, req.WorkspaceID, activity.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Only allow to submit to active challenges")
	}

	if _, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, ""); err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)
	enrolled, err := d.challengeRepo.IsEnrolled(ctx, challenge.ID, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check enrollment: %v", err)
		return nil, errorx.Unknown
	}

	if !enrolled {
		return nil, errorx.New(errorx.PermissionDenied, "You are not enrolled in this challenge")
	}

	submission := &entity.Submission{
		Base:        entity.Base{ID: uuid.NewString()},
		ActivityID:  activity.ID,
		UserID:      requestUserID,
		ChallengeID: challenge.ID,
		Status:      entity.SubmissionPending,
		TextContent: req.TextContent,
		FileURLs:    req.FileURLs,
		LinkURL:     linkURL,
		SubmittedAt: time.Now(),
	}

	if err := d.submissionRepo.Create(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, errorx.Unknown
	}

	d.logEvent(ctx, req.WorkspaceID, submission, "submit", "", nil, decimal.Zero, false)

	resp := model.SubmitResponse(convertSubmission(submission))
	return &resp, nil
}

func (d *submissionDomain) Resubmit(
	ctx context.Context, req *model.ResubmitRequest,
) (*model.ResubmitResponse, error) {
	if req.TextContent == "" && len(req.FileURLs) == 0 && req.LinkURL == "" {
		return nil, errorx.New(errorx.BadRequest, "Submission must not be empty")
	}

	linkURL := ""
	if req.LinkURL != "" {
		var err error
		linkURL, err = common.ParseLinkURL(req.LinkURL)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid link url: %v", err)
		}
	}

	submission, err := d.loadSubmission(ctx, req.WorkspaceID, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	pc, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, submission.ChallengeID)
	if err != nil {
		return nil, err
	}

	if decision := common.Decide(pc, common.ResubmitAction, submission.UserID); !decision.Allowed {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can resubmit")
	}

	transition, err := reviewflow.Next(submission.Status, reviewflow.OwnerStage, reviewflow.Resubmit, reviewflow.Options{})
	if err != nil {
		return nil, reviewflowError(ctx, err)
	}

	changes := transition.Changes(pc.UserID, "", time.Now())
	changes["text_content"] = req.TextContent
	changes["file_urls"] = entity.Array[string](req.FileURLs)
	changes["link_url"] = linkURL

	if err := d.applyTransition(ctx, submission, transition, changes); err != nil {
		return nil, err
	}

	d.logEvent(ctx, req.WorkspaceID, submission, "resubmit", string(transition.From), transition, decimal.Zero, false)

	updated, err := d.loadSubmission(ctx, req.WorkspaceID, submission.ID)
	if err != nil {
		return nil, err
	}

	resp := model.ResubmitResponse(convertSubmission(updated))
	return &resp, nil
}

func (d *submissionDomain) Get(
	ctx context.Context, req *model.GetSubmissionRequest,
) (*model.GetSubmissionResponse, error) {
	submission, err := d.loadSubmission(ctx, req.WorkspaceID, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	pc, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, submission.ChallengeID)
	if err != nil {
		return nil, err
	}

	if pc.UserID != submission.UserID {
		if decision := common.Decide(pc, common.ViewReviewQueueAction, submission.UserID); !decision.Allowed {
			return nil, decisionError(decision)
		}

		if pc.Role == entity.RoleManager && !pc.IsAssigned {
			return nil, errorx.New(errorx.NotAssignedToChallenge, "You are not assigned to this challenge")
		}
	}

	resp := model.GetSubmissionResponse(convertSubmission(submission))
	return &resp, nil
}

func (d *submissionDomain) GetList(
	ctx context.Context, req *model.GetListSubmissionRequest,
) (*model.GetListSubmissionResponse, error) {
	pc, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, "")
	if err != nil {
		return nil, err
	}

	if decision := common.Decide(pc, common.ViewReviewQueueAction, ""); !decision.Allowed {
		return nil, decisionError(decision)
	}

	filter := &repository.SubmissionFilter{}
	if req.Status != "" {
		status, err := enum.ToEnum[entity.SubmissionStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
		filter.Status = []entity.SubmissionStatus{status}
	}

	if req.ChallengeID != "" {
		filter.ChallengeIDs = []string{req.ChallengeID}
	}

	// Managers only see the challenges they are assigned to.
	if pc.Role == entity.RoleManager {
		assigned, err := d.assignmentRepo.GetChallengeIDsByManager(ctx, req.WorkspaceID, pc.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get assigned challenges: %v", err)
			return nil, errorx.Unknown
		}

		if req.ChallengeID != "" {
			if !slices.Contains(assigned, req.ChallengeID) {
				return nil, errorx.New(errorx.NotAssignedToChallenge, "You are not assigned to this challenge")
			}
		} else {
			filter.ChallengeIDs = append([]string{}, assigned...)
		}
	}

	submissions, err := d.submissionRepo.GetList(ctx, req.WorkspaceID, filter, req.Offset, common.Limit(ctx, req.Limit))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of submissions: %v", err)
		return nil, errorx.Unknown
	}

	data := []model.Submission{}
	for i := range submissions {
		data = append(data, convertSubmission(&submissions[i]))
	}

	return &model.GetListSubmissionResponse{Submissions: data}, nil
}

// Review is the final admin decision on a submission. An approval issues the
// resolved reward, a failed issuance never fails the review.
func (d *submissionDomain) Review(
	ctx context.Context, req *model.ReviewSubmissionRequest,
) (*model.ReviewSubmissionResponse, error) {
	var decision reviewflow.Decision
	switch req.Status {
	case string(entity.SubmissionApproved):
		decision = reviewflow.Approve
	case string(entity.SubmissionRejected):
		decision = reviewflow.Reject
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	if err := checkNotes(ctx, req.ReviewNotes); err != nil {
		return nil, err
	}

	explicitReward, err := convertRewardInput(req.Reward)
	if err != nil {
		return nil, err
	}

	submission, err := d.loadSubmission(ctx, req.WorkspaceID, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	pc, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, submission.ChallengeID)
	if err != nil {
		return nil, err
	}

	if decision := common.Decide(pc, common.AdminReviewAction, submission.UserID); !decision.Allowed {
		return nil, decisionError(decision)
	}

	if err := checkApproval(pc, decision, submission.UserID); err != nil {
		return nil, err
	}

	challenge, err := d.challengeRepo.GetByID(ctx, submission.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	transition, err := reviewflow.Next(submission.Status, reviewflow.AdminStage, decision, reviewflow.Options{
		RequireManagerApproval: challenge.RequireManagerApproval,
		Notes:                  req.ReviewNotes,
	})
	if err != nil {
		return nil, reviewflowError(ctx, err)
	}

	changes := transition.Changes(pc.UserID, req.ReviewNotes, time.Now())
	if err := d.applyTransition(ctx, submission, transition, changes); err != nil {
		return nil, err
	}

	var issuance *entity.RewardIssuance
	if transition.To == entity.SubmissionApproved {
		reward, err := rewardissuer.ResolveReward(explicitReward, req.PointsAwarded, challenge)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot resolve reward of challenge %s: %v", challenge.ID, err)
		} else if reward != nil {
			issuance = d.postApprovalEffect(ctx, &rewardissuer.Spec{
				WorkspaceID:  req.WorkspaceID,
				UserID:       submission.UserID,
				ChallengeID:  submission.ChallengeID,
				SubmissionID: submission.ID,
				Reward:       *reward,
				CreatedBy:    pc.UserID,
			})
		}
	}

	rewardAmount := decimal.Zero
	if issuance != nil && issuance.Status == entity.IssuanceIssued {
		rewardAmount = issuance.Amount
	}

	d.logEvent(ctx, req.WorkspaceID, submission, "review", string(transition.From), transition,
		rewardAmount, transition.AdminOverride)

	updated, err := d.loadSubmission(ctx, req.WorkspaceID, submission.ID)
	if err != nil {
		return nil, err
	}

	resp := &model.ReviewSubmissionResponse{Submission: convertSubmission(updated)}
	if issuance != nil {
		summary := convertRewardIssuance(issuance)
		resp.Issuance = &summary
	}

	return resp, nil
}

// postApprovalEffect issues the reward of an approved submission. It is best
// effort: failures are logged and only visible on the issuance record.
func (d *submissionDomain) postApprovalEffect(ctx context.Context, spec *rewardissuer.Spec) *entity.RewardIssuance {
	issuance, err := d.issuer.IssueReward(ctx, spec)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot issue reward for submission %s: %v", spec.SubmissionID, err)
	}

	return issuance
}

func (d *submissionDomain) ManagerReview(
	ctx context.Context, req *model.ManagerReviewSubmissionRequest,
) (*model.ManagerReviewSubmissionResponse, error) {
	decision, err := enum.ToEnum[reviewflow.Decision](req.Action)
	if err != nil || decision == reviewflow.Resubmit {
		return nil, errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
	}

	if err := checkNotes(ctx, req.Notes); err != nil {
		return nil, err
	}

	submission, err := d.loadSubmission(ctx, req.WorkspaceID, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	pc, err := resolvePermission(ctx, d.resolver, req.WorkspaceID, submission.ChallengeID)
	if err != nil {
		return nil, err
	}

	if decision := common.Decide(pc, common.ManagerReviewAction, submission.UserID); !decision.Allowed {
		return nil, decisionError(decision)
	}

	if err := checkApproval(pc, decision, submission.UserID); err != nil {
		return nil, err
	}

	transition, err := reviewflow.Next(submission.Status, reviewflow.ManagerStage, decision, reviewflow.Options{
		Notes: req.Notes,
	})
	if err != nil {
		return nil, reviewflowError(ctx, err)
	}

	changes := transition.Changes(pc.UserID, req.Notes, time.Now())
	if err := d.applyTransition(ctx, submission, transition, changes); err != nil {
		return nil, err
	}

	d.logEvent(ctx, req.WorkspaceID, submission, "manager_review", string(transition.From), transition,
		decimal.Zero, false)

	updated, err := d.loadSubmission(ctx, req.WorkspaceID, submission.ID)
	if err != nil {
		return nil, err
	}

	resp := model.ManagerReviewSubmissionResponse(convertSubmission(updated))
	return &resp, nil
}

func (d *submissionDomain) loadSubmission(ctx context.Context, workspaceID, id string) (*entity.Submission, error) {
	submission, err := d.submissionRepo.GetByIDInWorkspace(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	return submission, nil
}

// applyTransition writes the transition only if the submission is still in
// the status it was loaded with, so one of concurrent reviewers wins.
func (d *submissionDomain) applyTransition(
	ctx context.Context,
	submission *entity.Submission,
	transition *reviewflow.Transition,
	changes map[string]any,
) error {
	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	err := d.submissionRepo.UpdateByStatus(txCtx, submission.ID, transition.From, changes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyReviewed, "Submission has already been reviewed")
		}

		xcontext.Logger(ctx).Errorf("Cannot update submission: %v", err)
		return errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return errorx.Unknown
	}

	common.PromCounters[common.SubmissionReviewTotal].
		WithLabelValues(string(transition.Stage), string(transition.To)).Inc()

	return nil
}

func (d *submissionDomain) logEvent(
	ctx context.Context,
	workspaceID string,
	submission *entity.Submission,
	action, from string,
	transition *reviewflow.Transition,
	rewardAmount decimal.Decimal,
	adminOverride bool,
) {
	to := string(submission.Status)
	metadata := map[string]any{"challenge_id": submission.ChallengeID}
	if transition != nil {
		to = string(transition.To)
		metadata["stage"] = string(transition.Stage)
		metadata["decision"] = string(transition.Decision)
	}

	_, err := d.eventLogger.Append(ctx, eventlog.Event{
		WorkspaceID:   workspaceID,
		EntityType:    entity.SubmissionEntity,
		EntityID:      submission.ID,
		Action:        action,
		ActorID:       xcontext.RequestUserID(ctx),
		FromStatus:    from,
		ToStatus:      to,
		RewardAmount:  rewardAmount,
		AdminOverride: adminOverride,
		Metadata:      metadata,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append event log: %v", err)
	}
}
