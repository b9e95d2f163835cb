package domain

import (
	"context"
	"testing"

	"github.com/questx-lab/challenge/internal/domain/budget"
	"github.com/questx-lab/challenge/internal/domain/eventlog"
	"github.com/questx-lab/challenge/internal/domain/rewardissuer"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/internal/rewardprovider"
	"github.com/questx-lab/challenge/pkg/testutil"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestEventLogger() *eventlog.Logger {
	return eventlog.NewLogger(repository.NewEventLogRepository(), &testutil.MockPublisher{})
}

func newTestIssuer(provider rewardprovider.Provider, eventLogger *eventlog.Logger) *rewardissuer.Issuer {
	return rewardissuer.NewIssuer(
		repository.NewRewardIssuanceRepository(),
		repository.NewWorkspaceRepository(),
		repository.NewSubmissionRepository(),
		repository.NewUserRepository(),
		budget.NewLedger(repository.NewPointsBudgetRepository()),
		testutil.NewMockRegistry(provider),
		rewardissuer.NewLocalLocker(),
		eventLogger,
	)
}

func newTestSubmissionDomain(provider rewardprovider.Provider) *submissionDomain {
	eventLogger := newTestEventLogger()
	return NewSubmissionDomain(
		repository.NewSubmissionRepository(),
		repository.NewChallengeRepository(),
		repository.NewWorkspaceRepository(),
		repository.NewChallengeAssignmentRepository(),
		newTestIssuer(provider, eventLogger),
		eventLogger,
	)
}

func newTestRewardIssuanceDomain(provider rewardprovider.Provider) *rewardIssuanceDomain {
	return NewRewardIssuanceDomain(
		repository.NewRewardIssuanceRepository(),
		repository.NewChallengeRepository(),
		repository.NewWorkspaceRepository(),
		newTestIssuer(provider, newTestEventLogger()),
	)
}

func asUser(ctx context.Context, user *entity.User) context.Context {
	return xcontext.WithRequestUserID(ctx, user.ID)
}

func requireMemberPoints(t *testing.T, ctx context.Context, userID string, points int64) {
	member, err := repository.NewWorkspaceRepository().GetMember(ctx, testutil.Workspace1.ID, userID)
	require.NoError(t, err)
	require.Equal(t, points, member.Points)
}

func submissionEvents(t *testing.T, ctx context.Context, submissionID string) []entity.EventLog {
	events, err := repository.NewEventLogRepository().GetList(ctx, testutil.Workspace1.ID,
		&repository.EventLogFilter{EntityType: entity.SubmissionEntity, EntityID: submissionID}, 0, 100)
	require.NoError(t, err)
	return events
}
