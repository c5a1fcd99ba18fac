package dto

import (
	"time"

	"github.com/google/uuid"

	"pairwork/internal/domain/application"
	"pairwork/internal/domain/matching"
)

type ApplicationResponse struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Status      string    `json:"status"`

	Overall    float64                  `json:"overall"`
	Components matching.ComponentScores `json:"components"`

	CoupleApplicationID *uuid.UUID `json:"couple_application_id,omitempty"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromApplication(a *application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                  a.ID,
		JobID:               a.JobID,
		CandidateID:         a.CandidateID,
		Status:              string(a.Status),
		Overall:             a.Overall,
		Components:          a.Scores,
		CoupleApplicationID: a.CoupleApplicationID,
		SubmittedAt:         a.SubmittedAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

type SubmitApplicationRequest struct {
	JobID uuid.UUID `json:"job_id"`
}

type TransitionRequest struct {
	To string `json:"to"`
}

type CoupleApplicationResponse struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	CandidateAID uuid.UUID `json:"candidate_a_id"`
	CandidateBID uuid.UUID `json:"candidate_b_id"`
	Status       string    `json:"status"`

	ConfirmedByA bool      `json:"confirmed_by_a"`
	ConfirmedByB bool      `json:"confirmed_by_b"`
	Deadline     time.Time `json:"deadline"`

	CombinedScore float64 `json:"combined_score"`

	ApplicationAID *uuid.UUID `json:"application_a_id,omitempty"`
	ApplicationBID *uuid.UUID `json:"application_b_id,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func FromCoupleApplication(c *application.CoupleApplication) CoupleApplicationResponse {
	return CoupleApplicationResponse{
		ID:             c.ID,
		JobID:          c.JobID,
		CandidateAID:   c.CandidateAID,
		CandidateBID:   c.CandidateBID,
		Status:         string(c.Status),
		ConfirmedByA:   c.ConfirmedByA,
		ConfirmedByB:   c.ConfirmedByB,
		Deadline:       c.Deadline,
		CombinedScore:  c.CombinedScore,
		ApplicationAID: c.ApplicationAID,
		ApplicationBID: c.ApplicationBID,
		CreatedAt:      c.CreatedAt,
		ResolvedAt:     c.ResolvedAt,
	}
}

type InitiateCoupleRequest struct {
	JobID uuid.UUID `json:"job_id"`
}
