package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"gorm.io/datatypes"
)

var (
	// Users
	Admin1       = &entity.User{Base: entity.Base{ID: "admin1"}, Name: "Admin 1"}
	Manager1     = &entity.User{Base: entity.Base{ID: "manager1"}, Name: "Manager 1"}
	Manager2     = &entity.User{Base: entity.Base{ID: "manager2"}, Name: "Manager 2"}
	Participant1 = &entity.User{Base: entity.Base{ID: "participant1"}, Name: "Participant 1", ExternalRewardID: "ext-participant1"}
	Participant2 = &entity.User{Base: entity.Base{ID: "participant2"}, Name: "Participant 2"}
	Admin2       = &entity.User{Base: entity.Base{ID: "admin2"}, Name: "Admin 2"}
	Outsider     = &entity.User{Base: entity.Base{ID: "outsider"}, Name: "Outsider"}
	Users        = []*entity.User{Admin1, Manager1, Manager2, Participant1, Participant2, Admin2, Outsider}

	// Workspaces
	Workspace1 = &entity.Workspace{Base: entity.Base{ID: "workspace1"}, Name: "Workspace 1", Slug: "workspace-1"}
	Workspace2 = &entity.Workspace{Base: entity.Base{ID: "workspace2"}, Name: "Workspace 2", Slug: "workspace-2"}
	Workspaces = []*entity.Workspace{Workspace1, Workspace2}

	Members = []*entity.WorkspaceMember{
		{WorkspaceID: Workspace1.ID, UserID: Admin1.ID, Role: entity.RoleAdmin},
		{WorkspaceID: Workspace1.ID, UserID: Manager1.ID, Role: entity.RoleManager},
		{WorkspaceID: Workspace1.ID, UserID: Manager2.ID, Role: entity.RoleManager},
		{WorkspaceID: Workspace1.ID, UserID: Participant1.ID, Role: entity.RoleParticipant},
		{WorkspaceID: Workspace1.ID, UserID: Participant2.ID, Role: entity.RoleParticipant},
		{WorkspaceID: Workspace2.ID, UserID: Admin2.ID, Role: entity.RoleAdmin},
	}

	// Challenges

	// Challenge1 rewards 50 points by default.
	Challenge1 = &entity.Challenge{
		Base:         entity.Base{ID: "challenge1"},
		WorkspaceID:  Workspace1.ID,
		Title:        "Walk 10k steps",
		Status:       entity.ChallengeActive,
		RewardType:   entity.PointsReward,
		RewardConfig: datatypes.JSONMap{"amount": 50},
	}

	// Challenge2 rewards a catalog item and requires a manager pre-approval.
	Challenge2 = &entity.Challenge{
		Base:                   entity.Base{ID: "challenge2"},
		WorkspaceID:            Workspace1.ID,
		Title:                  "Read a book",
		Status:                 entity.ChallengeActive,
		RewardType:             entity.SkuReward,
		RewardConfig:           datatypes.JSONMap{"sku_id": "sku-1", "provider": MockProviderName},
		RequireManagerApproval: true,
	}

	// Challenge3 has no default reward.
	Challenge3 = &entity.Challenge{
		Base:        entity.Base{ID: "challenge3"},
		WorkspaceID: Workspace1.ID,
		Title:       "Volunteer",
		Status:      entity.ChallengeActive,
	}

	Challenge4 = &entity.Challenge{
		Base:        entity.Base{ID: "challenge4"},
		WorkspaceID: Workspace2.ID,
		Title:       "Other tenant",
		Status:      entity.ChallengeActive,
	}
	Challenges = []*entity.Challenge{Challenge1, Challenge2, Challenge3, Challenge4}

	Activity1  = &entity.Activity{Base: entity.Base{ID: "activity1"}, ChallengeID: Challenge1.ID, Title: "Day 1", Points: 50}
	Activity2  = &entity.Activity{Base: entity.Base{ID: "activity2"}, ChallengeID: Challenge2.ID, Title: "Chapter 1"}
	Activity3  = &entity.Activity{Base: entity.Base{ID: "activity3"}, ChallengeID: Challenge3.ID, Title: "Shift"}
	Activity4  = &entity.Activity{Base: entity.Base{ID: "activity4"}, ChallengeID: Challenge4.ID, Title: "Other"}
	Activities = []*entity.Activity{Activity1, Activity2, Activity3, Activity4}

	Enrollments = []*entity.Enrollment{
		{ChallengeID: Challenge1.ID, UserID: Participant1.ID},
		{ChallengeID: Challenge1.ID, UserID: Participant2.ID},
		{ChallengeID: Challenge1.ID, UserID: Admin1.ID},
		{ChallengeID: Challenge1.ID, UserID: Manager1.ID},
		{ChallengeID: Challenge2.ID, UserID: Participant1.ID},
		{ChallengeID: Challenge3.ID, UserID: Participant1.ID},
	}

	Assignments = []*entity.ChallengeAssignment{
		{ManagerID: Manager1.ID, ChallengeID: Challenge1.ID, WorkspaceID: Workspace1.ID, CreatedBy: Admin1.ID},
		{ManagerID: Manager1.ID, ChallengeID: Challenge2.ID, WorkspaceID: Workspace1.ID, CreatedBy: Admin1.ID},
	}

	// Submissions
	PendingSubmission1 = &entity.Submission{
		Base:        entity.Base{ID: "pending1"},
		ActivityID:  Activity1.ID,
		UserID:      Participant1.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionPending,
		TextContent: "I walked",
	}
	PendingSubmission2 = &entity.Submission{
		Base:        entity.Base{ID: "pending2"},
		ActivityID:  Activity1.ID,
		UserID:      Participant2.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionPending,
		TextContent: "I walked too",
	}
	AdminSubmission = &entity.Submission{
		Base:        entity.Base{ID: "admin-own"},
		ActivityID:  Activity1.ID,
		UserID:      Admin1.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionPending,
	}
	ManagerSubmission = &entity.Submission{
		Base:        entity.Base{ID: "manager-own"},
		ActivityID:  Activity1.ID,
		UserID:      Manager1.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionPending,
	}
	SkuPendingSubmission = &entity.Submission{
		Base:        entity.Base{ID: "sku-pending"},
		ActivityID:  Activity2.ID,
		UserID:      Participant1.ID,
		ChallengeID: Challenge2.ID,
		Status:      entity.SubmissionPending,
	}
	ManagerApprovedSubmission = &entity.Submission{
		Base:              entity.Base{ID: "manager-approved"},
		ActivityID:        Activity2.ID,
		UserID:            Participant1.ID,
		ChallengeID:       Challenge2.ID,
		Status:            entity.SubmissionManagerApproved,
		ManagerReviewedBy: sql.NullString{Valid: true, String: Manager1.ID},
		ManagerReviewedAt: sql.NullTime{Valid: true, Time: time.Now()},
	}
	NeedsRevisionSubmission = &entity.Submission{
		Base:              entity.Base{ID: "needs-revision"},
		ActivityID:        Activity1.ID,
		UserID:            Participant1.ID,
		ChallengeID:       Challenge1.ID,
		Status:            entity.SubmissionNeedsRevision,
		ManagerReviewedBy: sql.NullString{Valid: true, String: Manager1.ID},
		ManagerNotes:      "add a screenshot",
	}
	ApprovedSubmission = &entity.Submission{
		Base:        entity.Base{ID: "approved"},
		ActivityID:  Activity1.ID,
		UserID:      Participant2.ID,
		ChallengeID: Challenge1.ID,
		Status:      entity.SubmissionApproved,
		ReviewedBy:  sql.NullString{Valid: true, String: Admin1.ID},
	}
	NoRewardSubmission = &entity.Submission{
		Base:        entity.Base{ID: "no-reward"},
		ActivityID:  Activity3.ID,
		UserID:      Participant1.ID,
		ChallengeID: Challenge3.ID,
		Status:      entity.SubmissionPending,
	}
	OtherTenantSubmission = &entity.Submission{
		Base:        entity.Base{ID: "other-tenant"},
		ActivityID:  Activity4.ID,
		UserID:      Admin2.ID,
		ChallengeID: Challenge4.ID,
		Status:      entity.SubmissionPending,
	}
	Submissions = []*entity.Submission{
		PendingSubmission1,
		PendingSubmission2,
		AdminSubmission,
		ManagerSubmission,
		SkuPendingSubmission,
		ManagerApprovedSubmission,
		NeedsRevisionSubmission,
		ApprovedSubmission,
		NoRewardSubmission,
		OtherTenantSubmission,
	}

	// Workspace1Budget is the only budget of the fixture.
	Workspace1Budget = &entity.PointsBudget{
		Base:        entity.Base{ID: "budget1"},
		WorkspaceID: Workspace1.ID,
		TotalBudget: 1000,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertWorkspaces(ctx)
	InsertChallenges(ctx)
	InsertSubmissions(ctx)
	InsertBudgets(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, u := range Users {
		copied := *u
		if err := userRepo.Create(ctx, &copied); err != nil {
			panic(err)
		}
	}
}

func InsertWorkspaces(ctx context.Context) {
	workspaceRepo := repository.NewWorkspaceRepository()
	for _, w := range Workspaces {
		copied := *w
		if err := workspaceRepo.Create(ctx, &copied); err != nil {
			panic(err)
		}
	}

	for _, m := range Members {
		copied := *m
		if err := workspaceRepo.UpsertMember(ctx, &copied); err != nil {
			panic(err)
		}
	}
}

func InsertChallenges(ctx context.Context) {
	challengeRepo := repository.NewChallengeRepository()
	assignmentRepo := repository.NewChallengeAssignmentRepository()

	for _, c := range Challenges {
		copied := *c
		if err := challengeRepo.Create(ctx, &copied); err != nil {
			panic(err)
		}
	}

	for _, a := range Activities {
		copied := *a
		if err := challengeRepo.CreateActivity(ctx, &copied); err != nil {
			panic(err)
		}
	}

	for _, e := range Enrollments {
		if err := challengeRepo.Enroll(ctx, e.ChallengeID, e.UserID); err != nil {
			panic(err)
		}
	}

	for _, a := range Assignments {
		copied := *a
		if err := assignmentRepo.Create(ctx, &copied); err != nil {
			panic(err)
		}
	}
}

func InsertSubmissions(ctx context.Context) {
	submissionRepo := repository.NewSubmissionRepository()
	for i, s := range Submissions {
		copied := *s
		copied.SubmittedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := submissionRepo.Create(ctx, &copied); err != nil {
			panic(err)
		}
	}
}

func InsertBudgets(ctx context.Context) {
	budgetRepo := repository.NewPointsBudgetRepository()
	copied := *Workspace1Budget
	if err := budgetRepo.Create(ctx, &copied); err != nil {
		panic(err)
	}
}
