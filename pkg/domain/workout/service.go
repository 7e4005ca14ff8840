// Package workout composes stored token state, provider activity data and
// the generative call into workout suggestions, and manages saved ones.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/integrations/strava"
	"github.com/versionsup/server/pkg/types"
)

// ActivityProvider is the slice of the Strava client the service needs.
type ActivityProvider interface {
	AuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) (*strava.TokenPair, error)
	FetchActivities(ctx context.Context, accessToken string, perPage int) ([]strava.Activity, error)
}

// Request is the ephemeral input for one suggestion. It is never persisted.
type Request struct {
	Goal         string `json:"goal"`
	Time         int    `json:"time"`
	Equipment    string `json:"equipment"`
	Requirements string `json:"requirements"`
}

// Validate enforces the request contract: goal non-empty, time positive.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Goal) == "" {
		return fmt.Errorf("goal is required")
	}
	if r.Time <= 0 {
		return fmt.Errorf("time must be a positive number of minutes")
	}
	return nil
}

type Service struct {
	db        shared.Database
	provider  ActivityProvider
	generator shared.TextGenerator
	pageSize  int
	logger    *slog.Logger
}

func NewService(db shared.Database, provider ActivityProvider, generator shared.TextGenerator, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = shared.DefaultActivityPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:        db,
		provider:  provider,
		generator: generator,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// AuthorizationURL returns the provider OAuth redirect URL.
func (s *Service) AuthorizationURL() string {
	return s.provider.AuthorizationURL()
}

// ExchangeCode trades an authorization code for tokens and merge-writes
// them under the user document. Sibling fields (profile data) survive the
// write; a second exchange simply overwrites the pair, last write wins.
func (s *Service) ExchangeCode(ctx context.Context, userID, code string) error {
	pair, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error("Token exchange failed", "user_id", userID, "error", err)
		return ErrBadExchange
	}

	err = s.db.UpdateUser(ctx, userID, map[string]interface{}{
		shared.FieldStravaTokens: map[string]interface{}{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"expires_at":    pair.ExpiresAt,
		},
	})
	if err != nil {
		s.logger.Error("Failed to persist tokens", "user_id", userID, "error", err)
		return ErrPersistence
	}
	return nil
}

// ConnectionStatus reports whether a usable access token is on record.
func (s *Service) ConnectionStatus(ctx context.Context, userID string) (bool, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read user record", "user_id", userID, "error", err)
		return false, ErrPersistence
	}
	return isConnected(user), nil
}

func isConnected(user *types.UserRecord) bool {
	return user.StravaTokens != nil && user.StravaTokens.AccessToken != ""
}

// Activities loads the stored token and fetches the first page of recent
// activities. Unlike the suggestion flow, a provider failure here surfaces
// to the caller.
func (s *Service) Activities(ctx context.Context, userID string) ([]strava.Activity, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read user record", "user_id", userID, "error", err)
		return nil, ErrPersistence
	}
	if user.StravaTokens == nil {
		return nil, ErrNotConnected
	}
	if user.StravaTokens.AccessToken == "" {
		return nil, ErrInvalidToken
	}

	activities, err := s.provider.FetchActivities(ctx, user.StravaTokens.AccessToken, s.pageSize)
	if err != nil {
		s.logger.Error("Activity fetch failed", "user_id", userID, "error", err)
		return nil, ErrUpstream
	}
	return activities, nil
}

// Suggest runs the orchestration: resolve connection, best-effort fetch,
// render the prompt, generate. The result is returned, not saved; saving
// is a separate explicit call so clients can preview first.
func (s *Service) Suggest(ctx context.Context, userID string, req Request) (string, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read user record", "user_id", userID, "error", err)
		return "", ErrPersistence
	}

	connected := isConnected(user)

	var activities []strava.Activity
	if connected {
		// Soft-failure path: a provider outage must never block
		// generation. The suggestion degrades to a context-free one.
		fetched, err := s.provider.FetchActivities(ctx, user.StravaTokens.AccessToken, s.pageSize)
		if err != nil {
			s.logger.Warn("Activity fetch failed, continuing without context", "user_id", userID, "error", err)
		} else {
			activities = fetched
		}
	}

	prompt := renderPrompt(req, connected, activities)

	suggestion, err := s.generator.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		s.logger.Error("Generation failed", "user_id", userID, "error", err)
		return "", ErrGeneration
	}
	return suggestion, nil
}

// SaveWorkout persists a suggestion text under the user's workouts
// sub-collection and returns the assigned id.
func (s *Service) SaveWorkout(ctx context.Context, userID, suggestion string) (string, error) {
	id, err := s.db.SaveWorkout(ctx, userID, &types.WorkoutRecord{Suggestion: suggestion})
	if err != nil {
		s.logger.Error("Failed to save workout", "user_id", userID, "error", err)
		return "", ErrPersistence
	}
	return id, nil
}

// Workouts returns every saved suggestion, newest first. The store scan is
// unordered; the sort happens here on created_at.
func (s *Service) Workouts(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	records, err := s.db.ListWorkouts(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list workouts", "user_id", userID, "error", err)
		return nil, ErrPersistence
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// LatestWorkout returns the single most recent saved suggestion via a
// store-side ordered query, or an empty slice when none exists.
func (s *Service) LatestWorkout(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	records, err := s.db.LatestWorkout(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read latest workout", "user_id", userID, "error", err)
		return nil, ErrPersistence
	}
	return records, nil
}
