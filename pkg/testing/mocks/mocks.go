package mocks

import (
	"context"
	"fmt"

	"github.com/versionsup/server/pkg/integrations/strava"
	"github.com/versionsup/server/pkg/types"
)

// --- Mock Database ---

type MockDatabase struct {
	GetUserFunc       func(ctx context.Context, id string) (*types.UserRecord, error)
	UpdateUserFunc    func(ctx context.Context, id string, data map[string]interface{}) error
	SaveWorkoutFunc   func(ctx context.Context, userID string, record *types.WorkoutRecord) (string, error)
	ListWorkoutsFunc  func(ctx context.Context, userID string) ([]*types.WorkoutRecord, error)
	LatestWorkoutFunc func(ctx context.Context, userID string) ([]*types.WorkoutRecord, error)
}

func (m *MockDatabase) GetUser(ctx context.Context, id string) (*types.UserRecord, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return &types.UserRecord{UserID: id}, nil
}

func (m *MockDatabase) UpdateUser(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, data)
	}
	return nil
}

func (m *MockDatabase) SaveWorkout(ctx context.Context, userID string, record *types.WorkoutRecord) (string, error) {
	if m.SaveWorkoutFunc != nil {
		return m.SaveWorkoutFunc(ctx, userID, record)
	}
	return "workout-id", nil
}

func (m *MockDatabase) ListWorkouts(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	if m.ListWorkoutsFunc != nil {
		return m.ListWorkoutsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockDatabase) LatestWorkout(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	if m.LatestWorkoutFunc != nil {
		return m.LatestWorkoutFunc(ctx, userID)
	}
	return nil, nil
}

// --- Mock Activity Provider ---

type MockProvider struct {
	AuthorizationURLFunc func() string
	ExchangeCodeFunc     func(ctx context.Context, code string) (*strava.TokenPair, error)
	FetchActivitiesFunc  func(ctx context.Context, accessToken string, perPage int) ([]strava.Activity, error)
}

func (m *MockProvider) AuthorizationURL() string {
	if m.AuthorizationURLFunc != nil {
		return m.AuthorizationURLFunc()
	}
	return "https://www.strava.com/oauth/authorize?client_id=test"
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*strava.TokenPair, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return &strava.TokenPair{AccessToken: "mock-access", RefreshToken: "mock-refresh"}, nil
}

func (m *MockProvider) FetchActivities(ctx context.Context, accessToken string, perPage int) ([]strava.Activity, error) {
	if m.FetchActivitiesFunc != nil {
		return m.FetchActivitiesFunc(ctx, accessToken, perPage)
	}
	return nil, nil
}

// --- Mock Text Generator ---

type MockGenerator struct {
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)
}

func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}
	return "mock suggestion", nil
}

// --- Mock Token Verifier ---

type MockVerifier struct {
	VerifyFunc func(ctx context.Context, idToken string) (string, error)
}

func (m *MockVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, idToken)
	}
	return "", fmt.Errorf("invalid token")
}
