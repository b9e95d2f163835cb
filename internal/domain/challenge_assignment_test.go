package domain

import (
	"testing"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/errorx"
	"github.com/questx-lab/challenge/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestChallengeAssignmentDomain() *challengeAssignmentDomain {
	return NewChallengeAssignmentDomain(
		repository.NewChallengeAssignmentRepository(),
		repository.NewChallengeRepository(),
		repository.NewWorkspaceRepository(),
		newTestEventLogger(),
	)
}

func Test_challengeAssignmentDomain_Assign(t *testing.T) {
	tests := []struct {
		name    string
		user    *entity.User
		req     *model.AssignManagerRequest
		wantErr error
	}{
		{
			name: "happy case",
			user: testutil.Admin1,
			req: &model.AssignManagerRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ChallengeID: testutil.Challenge3.ID,
				ManagerID:   testutil.Manager2.ID,
			},
		},
		{
			name: "not an admin",
			user: testutil.Manager1,
			req: &model.AssignManagerRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ChallengeID: testutil.Challenge3.ID,
				ManagerID:   testutil.Manager2.ID,
			},
			wantErr: errorx.New(errorx.PermissionDenied, ""),
		},
		{
			name: "participant cannot be assigned",
			user: testutil.Admin1,
			req: &model.AssignManagerRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ChallengeID: testutil.Challenge3.ID,
				ManagerID:   testutil.Participant1.ID,
			},
			wantErr: errorx.New(errorx.BadRequest, ""),
		},
		{
			name: "challenge of another workspace",
			user: testutil.Admin1,
			req: &model.AssignManagerRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ChallengeID: testutil.Challenge4.ID,
				ManagerID:   testutil.Manager2.ID,
			},
			wantErr: errorx.New(errorx.NotFound, ""),
		},
		{
			name: "manager outside of the workspace",
			user: testutil.Admin1,
			req: &model.AssignManagerRequest{
				WorkspaceID: testutil.Workspace1.ID,
				ChallengeID: testutil.Challenge3.ID,
				ManagerID:   testutil.Outsider.ID,
			},
			wantErr: errorx.New(errorx.NotFound, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			d := newTestChallengeAssignmentDomain()

			resp, err := d.Assign(asUser(ctx, tt.user), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.req.ManagerID, resp.ManagerID)
			require.Equal(t, tt.user.ID, resp.CreatedBy)

			assigned, err := repository.NewChallengeAssignmentRepository().
				Exists(ctx, tt.req.WorkspaceID, tt.req.ChallengeID, tt.req.ManagerID)
			require.NoError(t, err)
			require.True(t, assigned)
		})
	}
}

func Test_challengeAssignmentDomain_UnassignRevokesReview(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestChallengeAssignmentDomain()
	adminCtx := asUser(ctx, testutil.Admin1)

	list, err := d.GetList(adminCtx, &model.GetListAssignmentRequest{
		WorkspaceID: testutil.Workspace1.ID,
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Len(t, list.Assignments, 1)
	require.Equal(t, testutil.Manager1.ID, list.Assignments[0].ManagerID)

	_, err = d.Unassign(adminCtx, &model.UnassignManagerRequest{
		WorkspaceID: testutil.Workspace1.ID,
		ChallengeID: testutil.Challenge1.ID,
		ManagerID:   testutil.Manager1.ID,
	})
	require.NoError(t, err)

	_, err = d.Unassign(adminCtx, &model.UnassignManagerRequest{
		WorkspaceID: testutil.Workspace1.ID,
		ChallengeID: testutil.Challenge1.ID,
		ManagerID:   testutil.Manager1.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	submissionDomain := newTestSubmissionDomain(&testutil.MockRewardProvider{})
	_, err = submissionDomain.ManagerReview(asUser(ctx, testutil.Manager1), &model.ManagerReviewSubmissionRequest{
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: testutil.PendingSubmission1.ID,
		Action:       "approve",
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotAssignedToChallenge, ""))
}
