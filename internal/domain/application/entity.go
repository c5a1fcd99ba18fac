package application

import (
	"time"

	"pairwork/internal/domain/matching"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft              Status = "draft"
	StatusAwaitingPartner    Status = "awaiting_partner"
	StatusSubmitted          Status = "submitted"
	StatusViewed             Status = "viewed"
	StatusInReview           Status = "in_review"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusOffered            Status = "offered"
	StatusAccepted           Status = "accepted"
	StatusRejected           Status = "rejected"
	StatusWithdrawn          Status = "withdrawn"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

type Actor string

const (
	ActorCandidate Actor = "candidate"
	ActorEmployer  Actor = "employer"
	ActorSystem    Actor = "system"
)

// Application is a single candidate's application to a job. Component scores
// are frozen at submission time; terminal rows are never deleted.
type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	CandidateID uuid.UUID

	Status  Status
	Scores  matching.ComponentScores
	Overall float64

	CoupleApplicationID *uuid.UUID

	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CoupleStatus string

const (
	CoupleAwaitingPartner CoupleStatus = "awaiting_partner"
	CoupleSubmitted       CoupleStatus = "submitted"
	CoupleWithdrawn       CoupleStatus = "withdrawn"
	CoupleBothAccepted    CoupleStatus = "both_accepted"
	CoupleBothRejected    CoupleStatus = "both_rejected"
	// CoupleSplitDecision is a first-class terminal outcome, not an error:
	// the employer accepted one partner and turned down the other.
	CoupleSplitDecision CoupleStatus = "split_decision"
)

func (s CoupleStatus) Terminal() bool {
	switch s {
	case CoupleWithdrawn, CoupleBothAccepted, CoupleBothRejected, CoupleSplitDecision:
		return true
	}
	return false
}

// CoupleApplication is the joint lifecycle of two linked candidates applying
// together. The employer never observes it before both partners confirm.
type CoupleApplication struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	CandidateAID uuid.UUID
	CandidateBID uuid.UUID

	Status       CoupleStatus
	ConfirmedByA bool
	ConfirmedByB bool
	Deadline     time.Time

	CombinedScore float64

	ApplicationAID *uuid.UUID
	ApplicationBID *uuid.UUID

	CreatedAt  time.Time
	ResolvedAt *time.Time
}

func (c CoupleApplication) Participant(candidateID uuid.UUID) bool {
	return candidateID != uuid.Nil && (c.CandidateAID == candidateID || c.CandidateBID == candidateID)
}

func (c CoupleApplication) BothConfirmed() bool {
	return c.ConfirmedByA && c.ConfirmedByB
}
