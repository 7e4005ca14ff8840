package shared

import (
	"context"

	"github.com/versionsup/server/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	// GetUser returns the user document. A user that has never been written
	// yields an empty record, not an error.
	GetUser(ctx context.Context, id string) (*types.UserRecord, error)
	// UpdateUser merge-writes the given fields into users/{id}. Sibling
	// fields on the document are preserved.
	UpdateUser(ctx context.Context, id string, data map[string]interface{}) error

	// Workouts (sub-collection users/{id}/workouts)
	SaveWorkout(ctx context.Context, userID string, record *types.WorkoutRecord) (string, error)
	ListWorkouts(ctx context.Context, userID string) ([]*types.WorkoutRecord, error)
	LatestWorkout(ctx context.Context, userID string) ([]*types.WorkoutRecord, error)
}

// --- Generative Text Interfaces ---

type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// --- Identity Interfaces ---

type TokenVerifier interface {
	// Verify validates a bearer credential and returns the stable user id.
	Verify(ctx context.Context, idToken string) (string, error)
}
