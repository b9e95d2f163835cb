package domain

import (
	"database/sql"
	"strconv"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/model"
)

func convertNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(model.DefaultTimeLayout)
}

func convertSubmission(submission *entity.Submission) model.Submission {
	if submission == nil {
		return model.Submission{}
	}

	fileURLs := []string(submission.FileURLs)
	if fileURLs == nil {
		fileURLs = []string{}
	}

	return model.Submission{
		ID:                submission.ID,
		ActivityID:        submission.ActivityID,
		ChallengeID:       submission.ChallengeID,
		UserID:            submission.UserID,
		Status:            string(submission.Status),
		TextContent:       submission.TextContent,
		FileURLs:          fileURLs,
		LinkURL:           submission.LinkURL,
		SubmittedAt:       submission.SubmittedAt.Format(model.DefaultTimeLayout),
		ManagerReviewedAt: convertNullTime(submission.ManagerReviewedAt),
		ManagerReviewedBy: submission.ManagerReviewedBy.String,
		ManagerNotes:      submission.ManagerNotes,
		ReviewedAt:        convertNullTime(submission.ReviewedAt),
		ReviewedBy:        submission.ReviewedBy.String,
		ReviewNotes:       submission.ReviewNotes,
		PointsAwarded:     submission.PointsAwarded,
	}
}

func convertRewardIssuance(issuance *entity.RewardIssuance) model.RewardIssuance {
	if issuance == nil {
		return model.RewardIssuance{}
	}

	return model.RewardIssuance{
		ID:                    issuance.ID,
		WorkspaceID:           issuance.WorkspaceID,
		UserID:                issuance.UserID,
		ChallengeID:           issuance.ChallengeID,
		SubmissionID:          issuance.SubmissionID.String,
		Type:                  string(issuance.Type),
		Amount:                issuance.Amount.String(),
		Currency:              issuance.Currency,
		SkuID:                 issuance.SkuID,
		Provider:              issuance.Provider,
		Status:                string(issuance.Status),
		ExternalTransactionID: issuance.ExternalTransactionID.String,
		Error:                 issuance.Error,
		IssuedAt:              convertNullTime(issuance.IssuedAt),
		CreatedAt:             issuance.CreatedAt.Format(model.DefaultTimeLayout),
	}
}

func convertChallengeAssignment(assignment *entity.ChallengeAssignment) model.ChallengeAssignment {
	return model.ChallengeAssignment{
		ManagerID:   assignment.ManagerID,
		ChallengeID: assignment.ChallengeID,
		CreatedBy:   assignment.CreatedBy,
		CreatedAt:   assignment.CreatedAt.Format(model.DefaultTimeLayout),
	}
}

func convertPointsBudget(budget *entity.PointsBudget) model.PointsBudget {
	return model.PointsBudget{
		ID:          budget.ID,
		WorkspaceID: budget.WorkspaceID,
		ChallengeID: budget.ChallengeID.String,
		TotalBudget: budget.TotalBudget,
		Allocated:   budget.Allocated,
		Remaining:   budget.Remaining(),
	}
}

func convertEventLog(event *entity.EventLog) model.EventLog {
	return model.EventLog{
		ID:            strconv.FormatInt(event.ID, 10),
		EntityType:    string(event.EntityType),
		EntityID:      event.EntityID,
		Action:        event.Action,
		ActorID:       event.ActorID,
		FromStatus:    event.FromStatus,
		ToStatus:      event.ToStatus,
		RewardAmount:  event.RewardAmount,
		AdminOverride: event.AdminOverride,
		Metadata:      event.Metadata,
		CreatedAt:     event.CreatedAt.Format(model.DefaultTimeLayout),
	}
}
