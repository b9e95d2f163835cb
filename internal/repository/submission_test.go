package repository_test

import (
	"testing"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_submissionRepository_UpdateByStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewSubmissionRepository()
	changes := map[string]any{"status": entity.SubmissionApproved}

	err := repo.UpdateByStatus(ctx, testutil.PendingSubmission1.ID, entity.SubmissionPending, changes)
	require.NoError(t, err)

	// The second writer sees a status which has already moved.
	err = repo.UpdateByStatus(ctx, testutil.PendingSubmission1.ID, entity.SubmissionPending, changes)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	submission, err := repo.GetByIDInWorkspace(ctx, testutil.Workspace1.ID, testutil.PendingSubmission1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SubmissionApproved, submission.Status)
}

func Test_submissionRepository_GetByIDInWorkspace(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewSubmissionRepository()

	_, err := repo.GetByIDInWorkspace(ctx, testutil.Workspace1.ID, testutil.PendingSubmission1.ID)
	require.NoError(t, err)

	_, err = repo.GetByIDInWorkspace(ctx, testutil.Workspace2.ID, testutil.PendingSubmission1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_submissionRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewSubmissionRepository()

	tests := []struct {
		name   string
		filter *repository.SubmissionFilter
		want   int
	}{
		{
			name:   "whole workspace",
			filter: &repository.SubmissionFilter{},
			want:   9,
		},
		{
			name:   "pending only",
			filter: &repository.SubmissionFilter{Status: []entity.SubmissionStatus{entity.SubmissionPending}},
			want:   6,
		},
		{
			name:   "restricted to challenge2",
			filter: &repository.SubmissionFilter{ChallengeIDs: []string{testutil.Challenge2.ID}},
			want:   2,
		},
		{
			name:   "no challenge allowed",
			filter: &repository.SubmissionFilter{ChallengeIDs: []string{}},
			want:   0,
		},
		{
			name:   "by user",
			filter: &repository.SubmissionFilter{UserID: testutil.Participant2.ID},
			want:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetList(ctx, testutil.Workspace1.ID, tt.filter, 0, 50)
			require.NoError(t, err)
			require.Len(t, got, tt.want)
		})
	}
}
