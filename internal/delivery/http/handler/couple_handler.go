package handler

import (
	"pairwork/internal/delivery/http/dto"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/pkg/response"
	"pairwork/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CoupleHandler struct {
	uc usecase.CoupleUsecase
}

func NewCoupleHandler(uc usecase.CoupleUsecase) *CoupleHandler {
	return &CoupleHandler{uc: uc}
}

func (h *CoupleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/couple-applications")
	grp.Post("/", h.Initiate)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/confirm", h.Confirm)
	grp.Post("/:id/cancel", h.Cancel)
}

func (h *CoupleHandler) Initiate(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.InitiateCoupleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cp, err := h.uc.Initiate(c.Context(), userID, req.JobID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromCoupleApplication(cp))
}

func (h *CoupleHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cp, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if !cp.Participant(userID) {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromCoupleApplication(cp))
}

func (h *CoupleHandler) Confirm(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cp, err := h.uc.Confirm(c.Context(), id, userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromCoupleApplication(cp))
}

func (h *CoupleHandler) Cancel(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Cancel(c.Context(), id, userID); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
