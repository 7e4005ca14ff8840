package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	shared "github.com/versionsup/server/pkg"
)

// NewRouter wires the API routes. Everything under /api/v1 except the root
// banner and the auth URL requires a verified bearer credential.
func NewRouter(h *Handler, verifier shared.TokenVerifier, allowedOrigins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(CORS(allowedOrigins))

	r.Get("/healthz", Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Get("/strava/auth_url", h.StravaAuthURL)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(verifier, logger))

			r.Get("/strava/exchange_token", h.ExchangeToken)
			r.Get("/strava/status", h.StravaStatus)
			r.Get("/strava/activities", h.ListActivities)

			r.Put("/user/profile", h.UpdateProfile)
			r.Get("/user/profile", h.GetProfile)

			r.Post("/ai/suggest_workout", h.SuggestWorkout)
			r.Post("/save_workout", h.SaveWorkout)
			r.Get("/get_workouts", h.GetWorkouts)
			r.Get("/get_latest_workout", h.GetLatestWorkout)
		})
	})

	return r
}
