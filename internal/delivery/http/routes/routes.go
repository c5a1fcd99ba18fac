package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pairwork/internal/delivery/http/handler"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/pkg/token"
	"pairwork/internal/ws"
)

type Registry struct {
	Health         *handler.HealthHandler
	Match          *handler.MatchHandler
	Recommendation *handler.RecommendationHandler
	Application    *handler.ApplicationHandler
	Couple         *handler.CoupleHandler
	Events         *ws.Handler

	Auth *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if r.Events != nil {
		app.Get("/ws/events", r.Events.HandleEvents)
	}

	api := app.Group("/api")
	v1 := api.Group("/v1", r.Auth.Middleware())

	r.Match.RegisterRoutes(v1)
	r.Application.RegisterRoutes(v1)
	r.Couple.RegisterRoutes(v1)

	// Candidate-facing recommendations and the employer-facing ranking hang
	// off the same handler; the ranking route is employer-only.
	v1.Get("/recommendations/jobs", r.Recommendation.RecommendJobs)
	v1.Post("/jobs/:job_id/rank-candidates", r.Recommendation.RankCandidates, middleware.RequireRole(token.RoleEmployer))
}
