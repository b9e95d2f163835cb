package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/reflectutil"
)

// SampleSubmission creates a pending submission of Participant1 on Activity1.
// The sample can be overwritten by non-zero fields of init.
func SampleSubmission(ctx context.Context, init *entity.Submission) *entity.Submission {
	sample := &entity.Submission{
		Base:        entity.Base{ID: uuid.NewString()},
		ActivityID:  Activity1.ID,
		UserID:      Participant1.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionPending,
		TextContent: uuid.NewString(),
		SubmittedAt: time.Now(),
	}

	if init != nil {
		reflectutil.OverwriteNonZero(sample, *init)
	}

	if err := repository.NewSubmissionRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return sample
}

// SampleBudget creates a budget. An empty challengeID creates the workspace
// budget.
func SampleBudget(ctx context.Context, workspaceID, challengeID string, total int64) *entity.PointsBudget {
	sample := &entity.PointsBudget{
		Base:        entity.Base{ID: uuid.NewString()},
		WorkspaceID: workspaceID,
		TotalBudget: total,
	}

	if challengeID != "" {
		sample.ChallengeID.Valid = true
		sample.ChallengeID.String = challengeID
	}

	if err := repository.NewPointsBudgetRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	return sample
}
