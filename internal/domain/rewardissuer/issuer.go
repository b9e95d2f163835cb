// Package rewardissuer issues the rewards of approved submissions at most once
// per submission and reward type.
package rewardissuer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/questx-lab/challenge/internal/common"
	"github.com/questx-lab/challenge/internal/domain/budget"
	"github.com/questx-lab/challenge/internal/domain/eventlog"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/internal/rewardprovider"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrIssuanceFailed is returned together with the FAILED issuance record.
	ErrIssuanceFailed = errors.New("reward issuance failed")

	ErrNotCancellable = errors.New("only issued points can be cancelled")
)

type Issuer struct {
	issuanceRepo   repository.RewardIssuanceRepository
	workspaceRepo  repository.WorkspaceRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	ledger         *budget.Ledger
	providers      *rewardprovider.Registry
	locker         Locker
	eventLogger    *eventlog.Logger
}

func NewIssuer(
	issuanceRepo repository.RewardIssuanceRepository,
	workspaceRepo repository.WorkspaceRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	ledger *budget.Ledger,
	providers *rewardprovider.Registry,
	locker Locker,
	eventLogger *eventlog.Logger,
) *Issuer {
	return &Issuer{
		issuanceRepo:   issuanceRepo,
		workspaceRepo:  workspaceRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		ledger:         ledger,
		providers:      providers,
		locker:         locker,
		eventLogger:    eventLogger,
	}
}

// IssueReward issues the reward described by spec. When the spec belongs to a
// submission, an issuance of the same type which has not failed is returned
// unchanged instead of issuing again.
//
// A failed attempt is persisted with status FAILED and returned together with
// an error wrapping ErrIssuanceFailed. Any other error means nothing was
// recorded. It must not be called inside a database transaction.
func (i *Issuer) IssueReward(ctx context.Context, spec *Spec) (*entity.RewardIssuance, error) {
	if err := Validate(&spec.Reward); err != nil {
		return nil, err
	}

	if spec.SubmissionID != "" {
		key := common.RedisKeyIssuanceLock(spec.SubmissionID, string(spec.Type))
		unlock, err := i.locker.Lock(ctx, key)
		if err != nil {
			return nil, err
		}
		defer unlock()

		existing, err := i.issuanceRepo.GetActive(ctx, spec.SubmissionID, spec.Type)
		if err == nil {
			return existing, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var issuance *entity.RewardIssuance
	var err error
	switch spec.Type {
	case entity.PointsReward:
		issuance, err = i.issuePoints(ctx, spec)
	default:
		issuance, err = i.issueExternal(ctx, spec)
	}

	if issuance != nil {
		common.PromCounters[common.RewardIssuanceTotal].
			WithLabelValues(string(issuance.Type), string(issuance.Status)).Inc()
		i.logEvent(ctx, issuance, spec.CreatedBy, "", "issue")
	}

	return issuance, err
}

func (i *Issuer) newIssuance(spec *Spec) *entity.RewardIssuance {
	issuance := &entity.RewardIssuance{
		Base:        entity.Base{ID: uuid.NewString()},
		WorkspaceID: spec.WorkspaceID,
		UserID:      spec.UserID,
		ChallengeID: spec.ChallengeID,
		Type:        spec.Type,
		Amount:      spec.Amount,
		Currency:    spec.Currency,
		SkuID:       spec.SkuID,
		Provider:    spec.Provider,
		CreatedBy:   spec.CreatedBy,
	}

	if spec.SubmissionID != "" {
		issuance.SubmissionID.Valid = true
		issuance.SubmissionID.String = spec.SubmissionID
	}

	return issuance
}

// fail persists a FAILED issuance outside of any transaction.
func (i *Issuer) fail(ctx context.Context, issuance *entity.RewardIssuance, cause error) (*entity.RewardIssuance, error) {
	issuance.Status = entity.IssuanceFailed
	issuance.Error = cause.Error()
	issuance.BudgetID.Valid = false
	if err := i.issuanceRepo.Create(ctx, issuance); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record failed issuance: %v", err)
		return nil, err
	}

	return issuance, fmt.Errorf("%w: %w", ErrIssuanceFailed, cause)
}

func (i *Issuer) issuePoints(ctx context.Context, spec *Spec) (*entity.RewardIssuance, error) {
	issuance := i.newIssuance(spec)
	amount := spec.Amount.IntPart()

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	reserved, err := i.ledger.Reserve(txCtx, spec.WorkspaceID, spec.ChallengeID, amount)
	if err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)
		if errors.Is(err, budget.ErrBudgetExceeded) || errors.Is(err, budget.ErrNoBudget) {
			return i.fail(ctx, issuance, err)
		}

		return nil, err
	}

	if reserved.BudgetID != "" {
		issuance.BudgetID.Valid = true
		issuance.BudgetID.String = reserved.BudgetID
	}

	issuance.Status = entity.IssuanceIssued
	issuance.IssuedAt.Valid = true
	issuance.IssuedAt.Time = time.Now()
	if err := i.issuanceRepo.Create(txCtx, issuance); err != nil {
		return nil, err
	}

	if err := i.workspaceRepo.IncreasePoints(txCtx, spec.WorkspaceID, spec.UserID, amount); err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return i.fail(ctx, i.newIssuance(spec), errors.New("user is not a member of the workspace"))
		}

		return nil, err
	}

	if spec.SubmissionID != "" {
		if err := i.submissionRepo.UpdatePointsAwarded(txCtx, spec.SubmissionID, amount); err != nil {
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		return nil, err
	}

	return issuance, nil
}

func (i *Issuer) idempotencyKey(issuance *entity.RewardIssuance) string {
	if issuance.SubmissionID.Valid {
		return issuance.SubmissionID.String + ":" + string(issuance.Type)
	}

	return issuance.ID
}

func (i *Issuer) issueExternal(ctx context.Context, spec *Spec) (*entity.RewardIssuance, error) {
	issuance := i.newIssuance(spec)

	name, provider, err := i.providers.Get(spec.Provider)
	issuance.Provider = name
	if err != nil {
		return i.fail(ctx, issuance, err)
	}

	user, err := i.userRepo.GetByID(ctx, spec.UserID)
	if err != nil {
		return nil, err
	}

	externalUserID := user.ExternalRewardID
	if externalUserID == "" {
		externalUserID = user.ID
	}

	issuance.Status = entity.IssuancePending
	if err := i.issuanceRepo.Create(ctx, issuance); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Reward.ProviderTimeout.Duration)
	result, err := provider.Issue(callCtx, &rewardprovider.Request{
		IdempotencyKey: i.idempotencyKey(issuance),
		ExternalUserID: externalUserID,
		Type:           issuance.Type,
		SkuID:          issuance.SkuID,
		Amount:         issuance.Amount,
		Currency:       issuance.Currency,
	})
	unresolved := callCtx.Err() != nil
	cancel()

	if err != nil {
		// The outcome is unknown, the issuance waits for a callback or a
		// manual reconciliation.
		if unresolved {
			xcontext.Logger(ctx).Warnf("Provider %s did not answer issuance %s in time, left pending", name, issuance.ID)
			return issuance, nil
		}

		return i.resolve(ctx, issuance, entity.IssuanceFailed, "", err.Error())
	}

	switch result.Status {
	case rewardprovider.StatusIssued:
		return i.resolve(ctx, issuance, entity.IssuanceIssued, result.TransactionID, "")
	case rewardprovider.StatusPending:
		return i.resolve(ctx, issuance, entity.IssuancePending, result.TransactionID, "")
	default:
		return i.resolve(ctx, issuance, entity.IssuanceFailed, result.TransactionID, result.Reason)
	}
}

// resolve moves a PENDING issuance to its final status. Staying PENDING only
// records the transaction id the provider will call back with.
func (i *Issuer) resolve(
	ctx context.Context,
	issuance *entity.RewardIssuance,
	status entity.RewardIssuanceStatus,
	transactionID, reason string,
) (*entity.RewardIssuance, error) {
	changes := map[string]any{"status": status}
	if transactionID != "" {
		changes["external_transaction_id"] = transactionID
	}

	switch status {
	case entity.IssuanceIssued:
		changes["issued_at"] = time.Now()
	case entity.IssuanceFailed:
		if reason == "" {
			reason = "rejected by provider"
		}
		changes["error"] = reason
	}

	if err := i.issuanceRepo.UpdateByStatus(ctx, issuance.ID, entity.IssuancePending, changes); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot update issuance %s to %s: %v", issuance.ID, status, err)
			return nil, err
		}

		// A provider callback was faster.
		return i.issuanceRepo.GetByID(ctx, issuance.ID)
	}

	updated, err := i.issuanceRepo.GetByID(ctx, issuance.ID)
	if err != nil {
		return nil, err
	}

	if updated.Status == entity.IssuanceFailed {
		return updated, fmt.Errorf("%w: %s", ErrIssuanceFailed, updated.Error)
	}

	return updated, nil
}

// HandleCallback applies the asynchronous result of a provider. Callbacks for
// issuances which are no longer PENDING are ignored.
func (i *Issuer) HandleCallback(
	ctx context.Context,
	provider, transactionID string,
	status rewardprovider.Status,
	reason string,
) (*entity.RewardIssuance, error) {
	issuance, err := i.issuanceRepo.GetByExternalTransactionID(ctx, provider, transactionID)
	if err != nil {
		return nil, err
	}

	if issuance.Status != entity.IssuancePending || status == rewardprovider.StatusPending {
		return issuance, nil
	}

	to := entity.IssuanceFailed
	if status == rewardprovider.StatusIssued {
		to = entity.IssuanceIssued
	}

	updated, err := i.resolve(ctx, issuance, to, "", reason)
	if updated != nil && updated.Status != entity.IssuancePending {
		common.PromCounters[common.RewardIssuanceTotal].
			WithLabelValues(string(updated.Type), string(updated.Status)).Inc()
		i.logEvent(ctx, updated, "", string(entity.IssuancePending), "callback")
	}

	if errors.Is(err, ErrIssuanceFailed) {
		return updated, nil
	}

	return updated, err
}

// Cancel revokes issued points: the budget gets the amount back and the
// balance of the user is debited.
func (i *Issuer) Cancel(ctx context.Context, issuanceID, actorID string) (*entity.RewardIssuance, error) {
	issuance, err := i.issuanceRepo.GetByID(ctx, issuanceID)
	if err != nil {
		return nil, err
	}

	if issuance.Type != entity.PointsReward || issuance.Status != entity.IssuanceIssued {
		return nil, ErrNotCancellable
	}

	amount := issuance.Amount.IntPart()
	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	err = i.issuanceRepo.UpdateByStatus(txCtx, issuance.ID, entity.IssuanceIssued,
		map[string]any{"status": entity.IssuanceCancelled})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}

	if issuance.BudgetID.Valid {
		if err := i.ledger.Release(txCtx, issuance.BudgetID.String, amount); err != nil {
			return nil, err
		}
	}

	if err := i.workspaceRepo.IncreasePoints(txCtx, issuance.WorkspaceID, issuance.UserID, -amount); err != nil {
		return nil, err
	}

	if issuance.SubmissionID.Valid {
		if err := i.submissionRepo.UpdatePointsAwarded(txCtx, issuance.SubmissionID.String, 0); err != nil {
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		return nil, err
	}

	issuance.Status = entity.IssuanceCancelled
	i.logEvent(ctx, issuance, actorID, string(entity.IssuanceIssued), "cancel")
	return issuance, nil
}

func (i *Issuer) logEvent(ctx context.Context, issuance *entity.RewardIssuance, actorID, from, action string) {
	if i.eventLogger == nil {
		return
	}

	amount := decimal.Zero
	if issuance.Status == entity.IssuanceIssued {
		amount = issuance.Amount
	}

	metadata := structs.Map(struct {
		Type         string `structs:"type"`
		SkuID        string `structs:"sku_id,omitempty"`
		Currency     string `structs:"currency,omitempty"`
		Provider     string `structs:"provider,omitempty"`
		SubmissionID string `structs:"submission_id,omitempty"`
		Error        string `structs:"error,omitempty"`
	}{
		Type:         string(issuance.Type),
		SkuID:        issuance.SkuID,
		Currency:     issuance.Currency,
		Provider:     issuance.Provider,
		SubmissionID: issuance.SubmissionID.String,
		Error:        issuance.Error,
	})

	_, err := i.eventLogger.Append(ctx, eventlog.Event{
		WorkspaceID:  issuance.WorkspaceID,
		EntityType:   entity.RewardIssuanceEntity,
		EntityID:     issuance.ID,
		Action:       action,
		ActorID:      actorID,
		FromStatus:   from,
		ToStatus:     string(issuance.Status),
		RewardAmount: amount,
		Metadata:     metadata,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append event of issuance %s: %v", issuance.ID, err)
	}
}
