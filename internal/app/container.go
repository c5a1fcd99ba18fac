package app

import (
	"context"
	"log"
	"time"

	"pairwork/internal/config"
	"pairwork/internal/database"
	"pairwork/internal/database/migration"
	dbpostgres "pairwork/internal/database/postgres"
	"pairwork/internal/delivery/http/handler"
	"pairwork/internal/delivery/http/middleware"
	"pairwork/internal/delivery/http/routes"
	"pairwork/internal/domain/matching"
	"pairwork/internal/event"
	"pairwork/internal/infrastructure/cache"
	"pairwork/internal/infrastructure/snapshot"
	"pairwork/internal/pkg/token"
	"pairwork/internal/repository"
	"pairwork/internal/usecase"
	"pairwork/internal/usecase/couple"
	"pairwork/internal/ws"
	"pairwork/migrations"
)

// Container wires the whole dependency graph. Everything downstream of the
// database is constructed here exactly once.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis

	Hub   *ws.Hub
	Sweep *couple.SweepService

	Registry *routes.Registry

	Couples *usecase.Couples
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{FS: migrations.FS}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	hub := ws.NewHub(logger)
	emitter := event.Multi{
		event.NewLogEmitter(logger),
		event.NewHubEmitter(hub, logger),
	}

	scorer, err := matching.NewScorer(cfg.Matching.Weights, cfg.Matching.PrimaryLanguage)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	snapshots := snapshot.NewHTTPSource(cfg.Snapshot, logger)

	appRepo := repository.NewPostgresApplicationRepository(db)
	coupleRepo := repository.NewPostgresCoupleApplicationRepository(db)
	resultRepo := repository.NewPostgresMatchResultRepository(db)

	matchUC := usecase.NewMatchUsecase(snapshots, redisCache, resultRepo, scorer, emitter, logger, cfg.Matching.ConfigVersion)
	recommendUC := usecase.NewRecommendationUsecase(snapshots, matchUC, logger, cfg.Recommend.Workers)
	coupleUC := usecase.NewCoupleUsecase(coupleRepo, appRepo, snapshots, matchUC, emitter, logger, cfg.Couple.ConfirmWindow)
	applicationUC := usecase.NewApplicationUsecase(appRepo, snapshots, matchUC, emitter, logger)
	applicationUC.SetCoupleProjector(coupleUC)

	verifier := token.NewHMACVerifier(cfg.Auth.AccessSecret)

	registry := &routes.Registry{
		Health:         handler.NewHealthHandler(db, redisCache),
		Match:          handler.NewMatchHandler(matchUC),
		Recommendation: handler.NewRecommendationHandler(recommendUC),
		Application:    handler.NewApplicationHandler(applicationUC),
		Couple:         handler.NewCoupleHandler(coupleUC),
		Events:         ws.NewHandler(hub, logger),
		Auth:           middleware.NewAuthMiddleware(verifier),
	}

	sweep := couple.NewSweepService(coupleUC, redisCache, logger, cfg.Couple.SweepInterval)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Cache:    redisCache,
		Hub:      hub,
		Sweep:    sweep,
		Registry: registry,
		Couples:  coupleUC,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
