package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/fiszki/internal/api"
	apiMiddleware "github.com/phrazzld/fiszki/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	setHandler := api.NewSetHandler(app.setService, app.dashboardService)
	studyHandler := api.NewStudyHandler(app.studyService, app.quizService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/dashboard", setHandler.Dashboard)
			r.Get("/profile", setHandler.Profile)

			r.Get("/sets", setHandler.List)
			r.Post("/sets", setHandler.Create)
			r.Route("/sets/{id}", func(r chi.Router) {
				r.Get("/", setHandler.Get)
				r.Put("/", setHandler.Update)
				r.Delete("/", setHandler.Delete)

				r.Post("/runs", studyHandler.StartRun)
				r.Post("/runs/answers", studyHandler.SubmitAnswer)
				r.Post("/runs/complete", studyHandler.CompleteRun)

				r.Post("/tests", studyHandler.StartTest)
				r.Post("/tests/complete", studyHandler.FinishTest)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
