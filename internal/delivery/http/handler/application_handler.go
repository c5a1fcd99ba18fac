package handler

import (
	"pairwork/internal/delivery/http/dto"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/domain/application"
	"pairwork/internal/pkg/response"
	"pairwork/internal/pkg/token"
	"pairwork/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/applications")
	grp.Post("/", h.Submit)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/transition", h.Transition)
	grp.Post("/:id/withdraw", h.Withdraw)
}

func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.SubmitApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Submit(c.Context(), userID, req.JobID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromApplication(a))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}

	// Candidates only see their own applications; employers see all.
	userID, _ := middleware.UserID(c)
	role, _ := c.Locals(middleware.CtxRoleKey).(string)
	if role == token.RoleCandidate && a.CandidateID != userID {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromApplication(a))
}

// Transition maps the caller's role onto the state machine actor: the route
// is authenticated, the table decides what the actor may do.
func (h *ApplicationHandler) Transition(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.TransitionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	to := application.Status(req.To)
	if !to.Valid() {
		return middleware.NewAppError(fiber.StatusBadRequest, "unknown target state", nil, nil)
	}

	actor := application.ActorCandidate
	if role, _ := c.Locals(middleware.CtxRoleKey).(string); role == token.RoleEmployer {
		actor = application.ActorEmployer
	}

	a, err := h.uc.Transition(c.Context(), id, to, actor, userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromApplication(a))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Withdraw(c.Context(), id, userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromApplication(a))
}
