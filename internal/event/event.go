package event

import (
	"time"

	"pairwork/internal/domain/matching"

	"github.com/google/uuid"
)

type Type string

const (
	TypeApplicationSubmitted      Type = "application_submitted"
	TypeApplicationStatusChanged  Type = "application_status_changed"
	TypeCoupleAwaitingPartner     Type = "couple_awaiting_partner"
	TypeCoupleApplicationResolved Type = "couple_application_resolved"
	TypeMatchComputed             Type = "match_computed"
)

// Event is a fire-and-forget fact handed to downstream notification and
// analytics consumers. The core never waits on delivery.
type Event interface {
	Kind() Type
}

type ApplicationSubmitted struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	JobID         uuid.UUID `json:"job_id"`
	Score         float64   `json:"score"`
}

func (ApplicationSubmitted) Kind() Type { return TypeApplicationSubmitted }

type ApplicationStatusChanged struct {
	ApplicationID uuid.UUID `json:"application_id"`
	FromState     string    `json:"from_state"`
	ToState       string    `json:"to_state"`
	Actor         string    `json:"actor"`
}

func (ApplicationStatusChanged) Kind() Type { return TypeApplicationStatusChanged }

type CoupleAwaitingPartner struct {
	CoupleApplicationID uuid.UUID `json:"couple_application_id"`
	PendingPartnerID    uuid.UUID `json:"pending_partner_id"`
	Deadline            time.Time `json:"deadline"`
}

func (CoupleAwaitingPartner) Kind() Type { return TypeCoupleAwaitingPartner }

type CoupleApplicationResolved struct {
	CoupleApplicationID uuid.UUID `json:"couple_application_id"`
	Outcome             string    `json:"outcome"`
}

func (CoupleApplicationResolved) Kind() Type { return TypeCoupleApplicationResolved }

type MatchComputed struct {
	SubjectID       uuid.UUID                `json:"subject_id"` // candidate or couple application
	JobID           uuid.UUID                `json:"job_id"`
	OverallScore    float64                  `json:"overall_score"`
	ComponentScores matching.ComponentScores `json:"component_scores"`
}

func (MatchComputed) Kind() Type { return TypeMatchComputed }

// Envelope is the wire form broadcast to consumers.
type Envelope struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Event     `json:"payload"`
}
