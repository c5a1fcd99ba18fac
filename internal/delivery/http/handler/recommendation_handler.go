package handler

import (
	"strconv"

	"pairwork/internal/delivery/http/dto"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/pkg/response"
	"pairwork/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RecommendJobs(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	opts := usecase.RecommendOptions{
		Limit:    queryInt(c, "limit", 0),
		MinScore: queryFloat(c, "min_score", 0),
	}

	items, err := h.uc.RecommendJobs(c.Context(), userID, opts)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobRecommendationResponse{
		Items: items,
		Count: len(items),
	})
}

func (h *RecommendationHandler) RankCandidates(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.RankCandidatesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.RankCandidates(c.Context(), jobID, req.CandidateIDs, usecase.RecommendOptions{
		Limit:    req.Limit,
		MinScore: req.MinScore,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CandidateRankingResponse{
		Items: items,
		Count: len(items),
	})
}

func queryInt(c fiber.Ctx, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(c fiber.Ctx, key string, fallback float64) float64 {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
