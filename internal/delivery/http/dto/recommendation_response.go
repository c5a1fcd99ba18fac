package dto

import (
	"github.com/google/uuid"

	"pairwork/internal/usecase"
)

type JobRecommendationResponse struct {
	Items []usecase.JobRecommendation `json:"items"`
	Count int                         `json:"count"`
}

type RankCandidatesRequest struct {
	CandidateIDs []uuid.UUID `json:"candidate_ids"`
	Limit        int         `json:"limit"`
	MinScore     float64     `json:"min_score"`
}

type CandidateRankingResponse struct {
	Items []usecase.CandidateRanking `json:"items"`
	Count int                        `json:"count"`
}
