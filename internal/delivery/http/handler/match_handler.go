package handler

import (
	"pairwork/internal/delivery/http/dto"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/pkg/response"
	"pairwork/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/:job_id/match", h.GetMatch)
	grp.Get("/:job_id/couple-match", h.GetCoupleMatch)
}

// GetMatch scores the authenticated candidate against one job.
func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.ScoreCandidate(c.Context(), userID, jobID)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchResponse{
		CandidateID: userID,
		JobID:       jobID,
		Overall:     res.Overall,
		Components:  res.Components,
	})
}

// GetCoupleMatch scores the authenticated candidate together with the partner
// given in the query.
func (h *MatchHandler) GetCoupleMatch(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	partnerID, err := uuid.Parse(c.Query("partner_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "partner_id required", nil, err)
	}

	res, err := h.uc.ScoreCouple(c.Context(), userID, partnerID, jobID)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CoupleMatchResponse{
		CandidateAID: userID,
		CandidateBID: partnerID,
		JobID:        jobID,
		Combined:     res.Combined,
		PartnerA:     dto.MatchBreakdown{Overall: res.A.Overall, Components: res.A.Components},
		PartnerB:     dto.MatchBreakdown{Overall: res.B.Overall, Components: res.B.Components},
	})
}
