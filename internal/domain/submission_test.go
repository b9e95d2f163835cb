package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/internal/rewardprovider"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_submissionDomain_Submit(t *testing.T) {
	tests := []struct {
		name    string
		user    *entity.User
		req     *model.SubmitRequest
		wantErr error
	}{
		{
			name: "happy case",
			user: testutil.Participant1,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity1.ID,
				TextContent: "done",
				LinkURL:     "https://example.com/proof",
			},
		},
		{
			name: "empty submission",
			user: testutil.Participant1,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity1.ID,
			},
			wantErr: errorx.New(errorx.BadRequest, "Submission must not be empty"),
		},
		{
			name: "invalid link",
			user: testutil.Participant1,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity1.ID,
				LinkURL:     "ftp://example.com",
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid link url"),
		},
		{
			name: "activity of another workspace",
			user: testutil.Participant1,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity4.ID,
				TextContent: "done",
			},
			wantErr: errorx.New(errorx.NotFound, "Not found activity"),
		},
		{
			name: "not a member",
			user: testutil.Outsider,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity1.ID,
				TextContent: "done",
			},
			wantErr: errorx.New(errorx.PermissionDenied, "You are not a member of this workspace"),
		},
		{
			name: "not enrolled",
			user: testutil.Participant2,
			req: &model.SubmitRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ActivityID:  testutil.Activity2.ID,
				TextContent: "done",
			},
			wantErr: errorx.New(errorx.PermissionDenied, "You are not enrolled in this challenge"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

			resp, err := d.Submit(asUser(ctx, tt.user), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, string(entity.SubmissionPending), resp.Status)
			require.Equal(t, tt.user.ID, resp.UserID)
			require.Equal(t, testutil.Challenge1.ID, resp.ChallengeID)

			events := submissionEvents(t, ctx, resp.ID)
			require.Len(t, events, 1)
			require.Equal(t, "submit", events[0].Action)
		})
	}
}

func Test_submissionDomain_Review_Permission(t *testing.T) {
	tests := []struct {
		name         string
		user         *entity.User
		workspaceID  string
		submissionID string
		wantErr      error
	}{
		{
			name:         "admin cannot approve own submission",
			user:         testutil.Admin1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.AdminSubmission.ID,
			wantErr:      errorx.New(errorx.SelfApprovalForbidden, ""),
		},
		{
			name:         "manager cannot use the admin review",
			user:         testutil.Manager1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.PendingSubmission1.ID,
			wantErr:      errorx.New(errorx.PermissionDenied, ""),
		},
		{
			name:         "participant cannot review",
			user:         testutil.Participant2,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.PendingSubmission1.ID,
			wantErr:      errorx.New(errorx.PermissionDenied, ""),
		},
		{
			name:         "submission of another workspace is not found",
			user:         testutil.Admin1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.OtherTenantSubmission.ID,
			wantErr:      errorx.New(errorx.NotFound, ""),
		},
		{
			name:         "admin of another workspace",
			user:         testutil.Admin2,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.PendingSubmission1.ID,
			wantErr:      errorx.New(errorx.PermissionDenied, ""),
		},
		{
			name:         "already approved",
			user:         testutil.Admin1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.ApprovedSubmission.ID,
			wantErr:      errorx.New(errorx.AlreadyReviewed, ""),
		},
		{
			name:         "needs revision cannot be approved",
			user:         testutil.Admin1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.NeedsRevisionSubmission.ID,
			wantErr:      errorx.New(errorx.AlreadyReviewed, ""),
		},
		{
			name:         "challenge requires manager approval",
			user:         testutil.Admin1,
			workspaceID:  testutil.Workspace1.ID,
			submissionID: testutil.SkuPendingSubmission.ID,
			wantErr:      errorx.New(errorx.BadRequest, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

			_, err := d.Review(asUser(ctx, tt.user), &model.ReviewSubmissionRequest{
				WorkspaceID:  tt.workspaceID,
				SubmissionID: tt.submissionID,
				Status:       string(entity.SubmissionApproved),
			})
			require.ErrorIs(t, err, tt.wantErr)

			requireMemberPoints(t, ctx, testutil.Participant1.ID, 0)
		})
	}
}

func Test_submissionDomain_Review_InvalidRequest(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})
	adminCtx := asUser(ctx, testutil.Admin1)

	_, err := d.Review(adminCtx, &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionManagerApproved),
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Review(adminCtx, &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionApproved),
		Reward:       &model.Reward{Type: "monetary", Amount: decimal.NewFromInt(10), Currency: "dollars"},
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Review(adminCtx, &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionApproved),
		Reward:       &model.Reward{Type: "badge"},
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	// Nothing changed.
	submission, err := repository.NewSubmissionRepository().
		GetByIDInWorkspace(ctx, testutil.Workspace1.ID, testutil.PendingSubmission1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SubmissionPending, submission.Status)
}

func Test_submissionDomain_Review_ApproveWithChallengeReward(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionApproved),
		ReviewNotes:  "nice",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionApproved), resp.Submission.Status)
	require.Equal(t, testutil.Admin1.ID, resp.Submission.ReviewedBy)
	require.Equal(t, "nice", resp.Submission.ReviewNotes)
	require.NotEmpty(t, resp.Submission.ReviewedAt)
	require.Equal(t, int64(50), resp.Submission.PointsAwarded)

	require.NotNil(t, resp.Issuance)
	require.Equal(t, string(entity.IssuanceIssued), resp.Issuance.Status)
	require.Equal(t, string(entity.PointsReward), resp.Issuance.Type)
	requireMemberPoints(t, ctx, testutil.Participant1.ID, 50)

	events := submissionEvents(t, ctx, testutil.PendingSubmission1.ID)
	require.Len(t, events, 1)
	require.Equal(t, "review", events[0].Action)
	require.Equal(t, testutil.Admin1.ID, events[0].ActorID)
	require.Equal(t, string(entity.SubmissionPending), events[0].FromStatus)
	require.Equal(t, string(entity.SubmissionApproved), events[0].ToStatus)
	require.Equal(t, "50", events[0].RewardAmount)
	require.False(t, events[0].AdminOverride)
}

func Test_submissionDomain_Review_ExplicitRewardWins(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:   testutil.Workspace1.ID,
		SubmissionID:  testutil.PendingSubmission1.ID,
		Status:        string(entity.SubmissionApproved),
		PointsAwarded: 20,
		Reward:        &model.Reward{Type: "points", Amount: decimal.NewFromInt(30)},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Issuance)
	require.Equal(t, "30", resp.Issuance.Amount)
	requireMemberPoints(t, ctx, testutil.Participant1.ID, 30)

	resp, err = d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:   testutil.Workspace1.ID,
		SubmissionID:  testutil.PendingSubmission2.ID,
		Status:        string(entity.SubmissionApproved),
		PointsAwarded: 20,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Issuance)
	require.Equal(t, "20", resp.Issuance.Amount)
	requireMemberPoints(t, ctx, testutil.Participant2.ID, 20)
}

func Test_submissionDomain_Review_NoReward(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.NoRewardSubmission.ID,
		Status:       string(entity.SubmissionApproved),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionApproved), resp.Submission.Status)
	require.Nil(t, resp.Issuance)

	resp, err = d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionRejected),
		ReviewNotes:  "blurry photo",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionRejected), resp.Submission.Status)
	require.Nil(t, resp.Issuance)
	requireMemberPoints(t, ctx, testutil.Participant1.ID, 0)
}

// Exactly one of many concurrent reviewers changes the submission, and the
// reward is issued once.
func Test_submissionDomain_Review_ConcurrentReviewers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})
	adminCtx := asUser(ctx, testutil.Admin1)

	var succeeded, alreadyReviewed atomic.Int64
	g := errgroup.Group{}
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := d.Review(adminCtx, &model.ReviewSubmissionRequest{
				WorkspaceID:  testutil.Workspace1.ID,
				SubmissionID: testutil.PendingSubmission1.ID,
				Status:       string(entity.SubmissionApproved),
			})

			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, errorx.New(errorx.AlreadyReviewed, "")):
				alreadyReviewed.Add(1)
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, int64(1), succeeded.Load())
	require.Equal(t, int64(9), alreadyReviewed.Load())

	requireMemberPoints(t, ctx, testutil.Participant1.ID, 50)
	issuances, err := repository.NewRewardIssuanceRepository().GetList(ctx, testutil.Workspace1.ID,
		&repository.RewardIssuanceFilter{SubmissionID: testutil.PendingSubmission1.ID}, 0, 100)
	require.NoError(t, err)
	require.Len(t, issuances, 1)
	require.Len(t, submissionEvents(t, ctx, testutil.PendingSubmission1.ID), 1)
}

// An exhausted budget fails the issuance but not the review.
func Test_submissionDomain_Review_BudgetExceeded(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	challengeBudget := testutil.SampleBudget(ctx, testutil.Workspace1.ID, testutil.Challenge1.ID, 10)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Status:       string(entity.SubmissionApproved),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionApproved), resp.Submission.Status)
	require.Equal(t, int64(0), resp.Submission.PointsAwarded)
	require.NotNil(t, resp.Issuance)
	require.Equal(t, string(entity.IssuanceFailed), resp.Issuance.Status)
	require.NotEmpty(t, resp.Issuance.Error)

	requireMemberPoints(t, ctx, testutil.Participant1.ID, 0)
	b, err := repository.NewPointsBudgetRepository().GetByID(ctx, challengeBudget.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), b.Allocated)

	events := submissionEvents(t, ctx, testutil.PendingSubmission1.ID)
	require.Len(t, events, 1)
	require.Equal(t, "0", events[0].RewardAmount)
}

// A manager approval followed by an admin rejection is an admin override.
func Test_submissionDomain_ManagerApprovalThenAdminReject(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	managerResp, err := d.ManagerReview(asUser(ctx, testutil.Manager1), &model.ManagerReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.SkuPendingSubmission.ID,
		Action:       "approve",
		Notes:        "looks good",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionManagerApproved), managerResp.Status)
	require.Equal(t, testutil.Manager1.ID, managerResp.ManagerReviewedBy)
	require.Equal(t, "looks good", managerResp.ManagerNotes)

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.SkuPendingSubmission.ID,
		Status:       string(entity.SubmissionRejected),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionRejected), resp.Submission.Status)
	require.Nil(t, resp.Issuance)

	events := submissionEvents(t, ctx, testutil.SkuPendingSubmission.ID)
	require.Len(t, events, 2)
	// Newest first.
	require.Equal(t, "review", events[0].Action)
	require.True(t, events[0].AdminOverride)
	require.Equal(t, "manager_review", events[1].Action)
	require.False(t, events[1].AdminOverride)
}

func Test_submissionDomain_Review_ManagerApprovedSku(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	provider := &testutil.MockRewardProvider{}
	d := newTestSubmissionDomain(provider)

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.ManagerApprovedSubmission.ID,
		Status:       string(entity.SubmissionApproved),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionApproved), resp.Submission.Status)
	require.NotNil(t, resp.Issuance)
	require.Equal(t, string(entity.IssuanceIssued), resp.Issuance.Status)
	require.Equal(t, "sku-1", resp.Issuance.SkuID)
	require.NotEmpty(t, resp.Issuance.ExternalTransactionID)
	require.Equal(t, 1, provider.Calls())
}

func Test_submissionDomain_Review_ProviderFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	provider := &testutil.MockRewardProvider{
		IssueFunc: func(ctx context.Context, req *rewardprovider.Request) (*rewardprovider.Result, error) {
			return &rewardprovider.Result{Status: rewardprovider.StatusFailed, Reason: "out of stock"}, nil
		},
	}
	d := newTestSubmissionDomain(provider)

	resp, err := d.Review(asUser(ctx, testutil.Admin1), &model.ReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.ManagerApprovedSubmission.ID,
		Status:       string(entity.SubmissionApproved),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionApproved), resp.Submission.Status)
	require.NotNil(t, resp.Issuance)
	require.Equal(t, string(entity.IssuanceFailed), resp.Issuance.Status)
	require.Equal(t, "out of stock", resp.Issuance.Error)
}

func Test_submissionDomain_ManagerReview(t *testing.T) {
	tests := []struct {
		name         string
		user         *entity.User
		submissionID string
		action       string
		notes        string
		wantStatus   entity.SubmissionStatus
		wantErr      error
	}{
		{
			name:         "assigned manager approves",
			user:         testutil.Manager1,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "approve",
			wantStatus:   entity.SubmissionManagerApproved,
		},
		{
			name:         "assigned manager requests a revision",
			user:         testutil.Manager1,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "reject",
			notes:        "add a photo",
			wantStatus:   entity.SubmissionNeedsRevision,
		},
		{
			name:         "revision requires notes",
			user:         testutil.Manager1,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "reject",
			wantErr:      errorx.New(errorx.BadRequest, ""),
		},
		{
			name:         "admin may pre-approve",
			user:         testutil.Admin1,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "approve",
			wantStatus:   entity.SubmissionManagerApproved,
		},
		{
			name:         "unassigned manager",
			user:         testutil.Manager2,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "approve",
			wantErr:      errorx.New(errorx.NotAssignedToChallenge, ""),
		},
		{
			name:         "manager cannot approve own submission",
			user:         testutil.Manager1,
			submissionID: testutil.ManagerSubmission.ID,
			action:       "approve",
			wantErr:      errorx.New(errorx.SelfApprovalForbidden, ""),
		},
		{
			name:         "participant",
			user:         testutil.Participant2,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "approve",
			wantErr:      errorx.New(errorx.PermissionDenied, ""),
		},
		{
			name:         "only pending submissions",
			user:         testutil.Manager1,
			submissionID: testutil.ManagerApprovedSubmission.ID,
			action:       "approve",
			wantErr:      errorx.New(errorx.AlreadyReviewed, ""),
		},
		{
			name:         "unknown action",
			user:         testutil.Manager1,
			submissionID: testutil.PendingSubmission1.ID,
			action:       "resubmit",
			wantErr:      errorx.New(errorx.BadRequest, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

			resp, err := d.ManagerReview(asUser(ctx, tt.user), &model.ManagerReviewSubmissionRequest{
				WorkspaceID:  testutil.Workspace1.ID,
				SubmissionID: tt.submissionID,
				Action:       tt.action,
				Notes:        tt.notes,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, string(tt.wantStatus), resp.Status)
			require.Equal(t, tt.user.ID, resp.ManagerReviewedBy)
			require.Equal(t, tt.notes, resp.ManagerNotes)
			require.Empty(t, resp.ReviewedBy)
		})
	}
}

func Test_submissionDomain_Resubmit(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	req := &model.ResubmitRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.NeedsRevisionSubmission.ID,
		TextContent:  "with a screenshot",
		FileURLs:     []string{"https://example.com/screenshot.png"},
	}

	// Only the owner can resubmit.
	_, err := d.Resubmit(asUser(ctx, testutil.Participant2), req)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	resp, err := d.Resubmit(asUser(ctx, testutil.Participant1), req)
	require.NoError(t, err)
	require.Equal(t, string(entity.SubmissionPending), resp.Status)
	require.Equal(t, "with a screenshot", resp.TextContent)
	require.Equal(t, []string{"https://example.com/screenshot.png"}, resp.FileURLs)
	require.Empty(t, resp.ManagerReviewedBy)
	require.Empty(t, resp.ManagerNotes)

	// It is pending again, so a second resubmission is refused.
	_, err = d.Resubmit(asUser(ctx, testutil.Participant1), req)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	// Pending submissions cannot be resubmitted either.
	req.SubmissionID = testutil.PendingSubmission1.ID
	_, err = d.Resubmit(asUser(ctx, testutil.Participant1), req)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_submissionDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})
	req := &model.GetSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
	}

	for _, user := range []*entity.User{testutil.Participant1, testutil.Admin1, testutil.Manager1} {
		resp, err := d.Get(asUser(ctx, user), req)
		require.NoError(t, err)
		require.Equal(t, testutil.PendingSubmission1.ID, resp.ID)
	}

	_, err := d.Get(asUser(ctx, testutil.Participant2), req)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	_, err = d.Get(asUser(ctx, testutil.Manager2), req)
	require.ErrorIs(t, err, errorx.New(errorx.NotAssignedToChallenge, ""))

	_, err = d.Get(asUser(ctx, testutil.Admin1), &model.GetSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.OtherTenantSubmission.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_submissionDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestSubmissionDomain(&testutil.MockRewardProvider{})

	resp, err := d.GetList(asUser(ctx, testutil.Admin1), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Status:      string(entity.SubmissionPending),
		Limit:       50,
	})
	require.NoError(t, err)
	// pending1, pending2, admin-own, manager-own, sku-pending and no-reward.
	require.Len(t, resp.Submissions, 6)
	for _, s := range resp.Submissions {
		require.Equal(t, string(entity.SubmissionPending), s.Status)
	}

	// Manager1 is not assigned to challenge3.
	resp, err = d.GetList(asUser(ctx, testutil.Manager1), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Limit:       50,
	})
	require.NoError(t, err)
	require.Len(t, resp.Submissions, 8)
	for _, s := range resp.Submissions {
		require.NotEqual(t, testutil.Challenge3.ID, s.ChallengeID)
	}

	resp, err = d.GetList(asUser(ctx, testutil.Manager2), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Submissions)

	_, err = d.GetList(asUser(ctx, testutil.Manager2), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
		ChallengeID: testutil.Challenge1.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotAssignedToChallenge, ""))

	_, err = d.GetList(asUser(ctx, testutil.Participant1), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	_, err = d.GetList(asUser(ctx, testutil.Admin1), &model.GetListSubmissionRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Status:      "DONE",
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}
