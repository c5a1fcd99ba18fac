package dto

import (
	"github.com/google/uuid"

	"pairwork/internal/domain/matching"
)

type MatchResponse struct {
	CandidateID uuid.UUID                `json:"candidate_id"`
	JobID       uuid.UUID                `json:"job_id"`
	Overall     float64                  `json:"overall"`
	Components  matching.ComponentScores `json:"components"`
}

type CoupleMatchResponse struct {
	CandidateAID uuid.UUID      `json:"candidate_a_id"`
	CandidateBID uuid.UUID      `json:"candidate_b_id"`
	JobID        uuid.UUID      `json:"job_id"`
	Combined     float64        `json:"combined"`
	PartnerA     MatchBreakdown `json:"partner_a"`
	PartnerB     MatchBreakdown `json:"partner_b"`
}

type MatchBreakdown struct {
	Overall    float64                  `json:"overall"`
	Components matching.ComponentScores `json:"components"`
}
