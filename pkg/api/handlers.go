// Package api exposes the HTTP surface of the workout coach service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/domain/workout"
	"github.com/versionsup/server/pkg/integrations/strava"
	"github.com/versionsup/server/pkg/types"
)

// Handler coordinates HTTP requests with the workout service.
type Handler struct {
	svc    *workout.Service
	db     shared.Database
	logger *slog.Logger
}

func NewHandler(svc *workout.Service, db shared.Database, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, db: db, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits the FastAPI-style {"detail": ...} error body the web
// client already understands.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeDomainError maps domain sentinels onto HTTP status codes. The
// sentinel text is the complete caller-facing message.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workout.ErrNotConnected), errors.Is(err, workout.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, workout.ErrBadExchange):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "VersionsUp API v1"})
}

// StravaAuthURL returns the OAuth redirect URL. No auth required; the URL
// contains nothing user-specific.
func (h *Handler) StravaAuthURL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"authorization_url": h.svc.AuthorizationURL(),
	})
}

func (h *Handler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'code' is required.")
		return
	}

	if err := h.svc.ExchangeCode(r.Context(), uid, code); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Token exchanged successfully."})
}

func (h *Handler) StravaStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	connected, err := h.svc.ConnectionStatus(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	activities, err := h.svc.Activities(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if activities == nil {
		activities = []strava.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) SuggestWorkout(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())

	var req workout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestion, err := h.svc.Suggest(r.Context(), uid, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}

type saveWorkoutRequest struct {
	Suggestion string `json:"suggestion"`
}

func (h *Handler) SaveWorkout(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())

	var req saveWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body.")
		return
	}
	if req.Suggestion == "" {
		writeError(w, http.StatusBadRequest, "Field 'suggestion' is required.")
		return
	}

	id, err := h.svc.SaveWorkout(r.Context(), uid, req.Suggestion)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Workout saved successfully.",
		"workout_id": id,
	})
}

func (h *Handler) GetWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	records, err := h.svc.Workouts(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []*types.WorkoutRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) GetLatestWorkout(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	records, err := h.svc.LatestWorkout(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []*types.WorkoutRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())

	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Unable to parse request body.")
		return
	}
	if profile.Height == nil && profile.Weight == nil && profile.Gender == nil && profile.WorkoutLevel == nil {
		writeError(w, http.StatusBadRequest, "No profile data provided.")
		return
	}

	// Only the provided fields are written; the token record and any other
	// sibling keys on the user document are untouched.
	data := map[string]interface{}{}
	if profile.Height != nil {
		data["height"] = *profile.Height
	}
	if profile.Weight != nil {
		data["weight"] = *profile.Weight
	}
	if profile.Gender != nil {
		data["gender"] = *profile.Gender
	}
	if profile.WorkoutLevel != nil {
		data["workout_level"] = *profile.WorkoutLevel
	}

	if err := h.db.UpdateUser(r.Context(), uid, map[string]interface{}{shared.FieldProfile: data}); err != nil {
		h.logger.Error("Failed to update profile", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully."})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())

	user, err := h.db.GetUser(r.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to fetch profile", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile.")
		return
	}
	if user.Profile == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, user.Profile)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
