package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avelow/recite-api/internal/api"
	apimiddleware "github.com/avelow/recite-api/internal/api/middleware"
)

// setupRouter builds the HTTP routing table from the application's services.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userService)
	sessionHandler := api.NewSessionHandler(app.sessionService)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	exerciseHandler := api.NewExerciseHandler(app.reviewService)
	progressHandler := api.NewProgressHandler(app.progressService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sessions", sessionHandler.Start)
			r.Get("/sessions/{id}", sessionHandler.Get)
			r.Post("/sessions/{id}/answer", sessionHandler.SubmitAnswer)
			r.Post("/sessions/{id}/advance", sessionHandler.Advance)

			r.Get("/exercises/{id}", exerciseHandler.Get)

			r.Get("/reviews/due", reviewHandler.Due)
			r.Get("/reviews/stats", reviewHandler.Stats)

			r.Get("/progress/streak", progressHandler.Streak)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
