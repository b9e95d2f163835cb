package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/challenge/pkg/enum"
)

type SubmissionStatus string

var (
	SubmissionPending         = enum.New(SubmissionStatus("PENDING"))
	SubmissionManagerApproved = enum.New(SubmissionStatus("MANAGER_APPROVED"))
	SubmissionNeedsRevision   = enum.New(SubmissionStatus("NEEDS_REVISION"))
	SubmissionApproved        = enum.New(SubmissionStatus("APPROVED"))
	SubmissionRejected        = enum.New(SubmissionStatus("REJECTED"))
)

type Submission struct {
	Base

	ActivityID string   `gorm:"index"`
	Activity   Activity `gorm:"foreignKey:ActivityID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	// ChallengeID and UserID identify the enrollment of this submission.
	ChallengeID string `gorm:"index"`

	Status SubmissionStatus `gorm:"index"`

	TextContent string
	FileURLs    Array[string]
	LinkURL     string
	SubmittedAt time.Time

	ManagerReviewedAt sql.NullTime
	ManagerReviewedBy sql.NullString
	ManagerNotes      string

	ReviewedAt  sql.NullTime
	ReviewedBy  sql.NullString
	ReviewNotes string

	PointsAwarded int64
}
