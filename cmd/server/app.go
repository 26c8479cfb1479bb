package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelow/recite-api/internal/config"
	"github.com/avelow/recite-api/internal/domain/srs"
	"github.com/avelow/recite-api/internal/grading"
	"github.com/avelow/recite-api/internal/platform/gemini"
	"github.com/avelow/recite-api/internal/platform/postgres"
	"github.com/avelow/recite-api/internal/service"
	"github.com/avelow/recite-api/internal/service/auth"
	"github.com/avelow/recite-api/internal/store"
)

// application holds the shared dependencies so wiring and shutdown live in
// one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	exerciseStore store.ExerciseStore
	cardStore     store.CardStore
	sessionStore  store.SessionStore
	progressStore store.ProgressStore

	jwtService auth.JWTService
	scheduler  srs.Service
	pipeline   *grading.Pipeline

	userService     *service.UserService
	reviewService   *service.ReviewService
	sessionService  *service.SessionService
	progressService *service.ProgressService
}

// newApplication wires every dependency. It fails fast on misconfiguration
// with one exception: a missing judge API key produces a nil judge, and the
// grading pipeline serves its fallback outcome instead.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher(0)

	app.userStore = postgres.NewUserStore(db, logger)
	app.exerciseStore = postgres.NewExerciseStore(db, logger)
	app.cardStore = postgres.NewCardStore(db, logger)
	app.sessionStore = postgres.NewSessionStore(db, logger)
	app.progressStore = postgres.NewProgressStore(db, logger)

	app.scheduler, err = setupScheduler(cfg.Review)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	var judge grading.Judge
	if cfg.Judge.GeminiAPIKey != "" {
		geminiJudge, err := gemini.NewJudge(ctx, logger, cfg.Judge)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize judge: %w", err)
		}
		judge = geminiJudge
		logger.Info("judgment service initialized", slog.String("model", cfg.Judge.ModelName))
	} else {
		logger.Warn("no judge API key configured, grading degrades to fallback outcomes")
	}

	breaker := grading.NewCircuitBreaker(
		cfg.Judge.BreakerThreshold,
		time.Duration(cfg.Judge.BreakerCooldownSecs)*time.Second,
		nil,
	)
	app.pipeline = grading.NewPipeline(judge, breaker, logger, grading.Config{
		MaxAttempts:    cfg.Judge.MaxAttempts,
		AttemptTimeout: time.Duration(cfg.Judge.AttemptTimeoutSeconds) * time.Second,
	})

	app.userService = service.NewUserService(app.userStore, hasher, hasher, app.jwtService, logger)
	app.reviewService = service.NewReviewService(app.cardStore, app.exerciseStore, app.scheduler, logger, cfg.Review)
	app.sessionService = service.NewSessionService(
		store.NewTxRunner(db),
		app.sessionStore,
		app.cardStore,
		app.exerciseStore,
		app.progressStore,
		app.pipeline,
		app.scheduler,
		logger,
	)
	app.progressService = service.NewProgressService(app.progressStore, logger)

	logger.Info("application initialized")
	return app, nil
}

// setupScheduler builds the spaced-repetition service with the configured
// retention target on top of the default weights.
func setupScheduler(cfg config.ReviewConfig) (srs.Service, error) {
	params := srs.NewDefaultParams()
	if cfg.DesiredRetention > 0 {
		params.DesiredRetention = cfg.DesiredRetention
	}
	return srs.NewServiceWithParams(params)
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
