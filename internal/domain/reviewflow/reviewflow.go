// Package reviewflow holds the legal status transitions of a submission. It
// has no side effects; callers apply the returned transition to storage.
package reviewflow

import (
	"errors"
	"time"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/enum"
)

var (
	ErrAlreadyReviewed         = errors.New("submission has already been reviewed")
	ErrInvalidDecision         = errors.New("invalid review decision")
	ErrNotesRequired           = errors.New("notes are required when requesting a revision")
	ErrManagerApprovalRequired = errors.New("challenge requires manager approval before final approval")
	ErrNotRevisable            = errors.New("only submissions needing revision can be resubmitted")
)

type Stage string

var (
	ManagerStage = enum.New(Stage("manager"))
	AdminStage   = enum.New(Stage("admin"))
	OwnerStage   = enum.New(Stage("owner"))
)

type Decision string

var (
	Approve  = enum.New(Decision("approve"))
	Reject   = enum.New(Decision("reject"))
	Resubmit = enum.New(Decision("resubmit"))
)

type Transition struct {
	From     entity.SubmissionStatus
	To       entity.SubmissionStatus
	Stage    Stage
	Decision Decision

	// AdminOverride is set when an admin rejects what a manager approved.
	AdminOverride bool
}

type Options struct {
	RequireManagerApproval bool
	Notes                  string
}

func IsTerminal(status entity.SubmissionStatus) bool {
	return status == entity.SubmissionApproved || status == entity.SubmissionRejected
}

// Next returns the transition a decision of the given stage causes on a
// submission currently in status from.
func Next(from entity.SubmissionStatus, stage Stage, decision Decision, opts Options) (*Transition, error) {
	t := &Transition{From: from, Stage: stage, Decision: decision}

	switch stage {
	case ManagerStage:
		if decision != Approve && decision != Reject {
			return nil, ErrInvalidDecision
		}

		if from != entity.SubmissionPending {
			return nil, ErrAlreadyReviewed
		}

		if decision == Approve {
			t.To = entity.SubmissionManagerApproved
		} else {
			if opts.Notes == "" {
				return nil, ErrNotesRequired
			}
			t.To = entity.SubmissionNeedsRevision
		}

	case AdminStage:
		if decision != Approve && decision != Reject {
			return nil, ErrInvalidDecision
		}

		switch from {
		case entity.SubmissionPending:
			if decision == Approve {
				if opts.RequireManagerApproval {
					return nil, ErrManagerApprovalRequired
				}
				t.To = entity.SubmissionApproved
			} else {
				t.To = entity.SubmissionRejected
			}

		case entity.SubmissionManagerApproved:
			if decision == Approve {
				t.To = entity.SubmissionApproved
			} else {
				t.To = entity.SubmissionRejected
				t.AdminOverride = true
			}

		default:
			return nil, ErrAlreadyReviewed
		}

	case OwnerStage:
		if decision != Resubmit {
			return nil, ErrInvalidDecision
		}

		if from != entity.SubmissionNeedsRevision {
			return nil, ErrNotRevisable
		}

		t.To = entity.SubmissionPending

	default:
		return nil, ErrInvalidDecision
	}

	return t, nil
}

// Changes returns the columns written together with the status change.
func (t *Transition) Changes(actorID, notes string, now time.Time) map[string]any {
	changes := map[string]any{"status": t.To}

	switch t.Stage {
	case ManagerStage:
		changes["manager_reviewed_at"] = now
		changes["manager_reviewed_by"] = actorID
		changes["manager_notes"] = notes

	case AdminStage:
		changes["reviewed_at"] = now
		changes["reviewed_by"] = actorID
		changes["review_notes"] = notes

	case OwnerStage:
		changes["submitted_at"] = now
		changes["manager_reviewed_at"] = nil
		changes["manager_reviewed_by"] = nil
		changes["manager_notes"] = ""
		changes["reviewed_at"] = nil
		changes["reviewed_by"] = nil
		changes["review_notes"] = ""
	}

	return changes
}
