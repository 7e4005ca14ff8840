package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versionsup/server/pkg/domain/workout"
	"github.com/versionsup/server/pkg/integrations/strava"
	"github.com/versionsup/server/pkg/testing/mocks"
	"github.com/versionsup/server/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// okVerifier accepts the literal token "good-token" as user u1.
func okVerifier() *mocks.MockVerifier {
	return &mocks.MockVerifier{
		VerifyFunc: func(ctx context.Context, idToken string) (string, error) {
			if idToken == "good-token" {
				return "u1", nil
			}
			return "", fmt.Errorf("token rejected")
		},
	}
}

func newTestServer(t *testing.T, db *mocks.MockDatabase, provider *mocks.MockProvider, gen *mocks.MockGenerator) *httptest.Server {
	t.Helper()
	logger := discardLogger()
	svc := workout.NewService(db, provider, gen, 5, logger)
	h := NewHandler(svc, db, logger)
	srv := httptest.NewServer(NewRouter(h, okVerifier(), []string{"https://app.example.com"}, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRootIsPublic(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "VersionsUp API v1", body["message"])
}

func TestAuthURLIsPublic(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/auth_url", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["authorization_url"], "strava.com/oauth/authorize")
}

func TestProtectedRoutesReject(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	tests := []struct {
		name  string
		token string
	}{
		{"no credential", ""},
		{"bad credential", "forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/status", tt.token, "")
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string]string
			decodeBody(t, resp, &body)
			assert.Equal(t, "Could not validate credentials.", body["detail"])
		})
	}
}

func TestStravaStatus(t *testing.T) {
	db := &mocks.MockDatabase{
		GetUserFunc: func(ctx context.Context, id string) (*types.UserRecord, error) {
			return &types.UserRecord{
				UserID:       id,
				StravaTokens: &types.StravaTokens{AccessToken: "a"},
			}, nil
		},
	}
	srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/status", "good-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeBody(t, resp, &body)
	assert.True(t, body["connected"])
}

func TestExchangeToken(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/exchange_token", "good-token", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		var persisted map[string]interface{}
		db := &mocks.MockDatabase{
			UpdateUserFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
				persisted = data
				return nil
			},
		}
		srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/exchange_token?code=abc", "good-token", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Token exchanged successfully.", body["message"])
		assert.Contains(t, persisted, "strava_tokens")
	})

	t.Run("provider rejection maps to 400", func(t *testing.T) {
		provider := &mocks.MockProvider{
			ExchangeCodeFunc: func(ctx context.Context, code string) (*strava.TokenPair, error) {
				return nil, fmt.Errorf("invalid code")
			},
		}
		srv := newTestServer(t, &mocks.MockDatabase{}, provider, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/exchange_token?code=bad", "good-token", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Failed to exchange token with Strava.", body["detail"])
	})
}

func TestListActivities(t *testing.T) {
	t.Run("not connected maps to 401", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/activities", "good-token", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Strava account not connected.", body["detail"])
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		db := &mocks.MockDatabase{
			GetUserFunc: func(ctx context.Context, id string) (*types.UserRecord, error) {
				return &types.UserRecord{UserID: id, StravaTokens: &types.StravaTokens{AccessToken: "a"}}, nil
			},
		}
		srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/strava/activities", "good-token", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
	})
}

func TestSuggestWorkout(t *testing.T) {
	t.Run("validation failure", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/ai/suggest_workout", "good-token", `{"time": 30}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			GenerateFunc: func(ctx context.Context, system, prompt string) (string, error) {
				return "Day 1 - Upper Body...", nil
			},
		}
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, gen)

		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/ai/suggest_workout", "good-token",
			`{"goal": "Build Endurance", "time": 60, "equipment": "Dumbbells"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Day 1 - Upper Body...", body["suggestion"])
	})

	t.Run("generation failure maps to 500", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			GenerateFunc: func(ctx context.Context, system, prompt string) (string, error) {
				return "", fmt.Errorf("model overloaded")
			},
		}
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, gen)

		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/ai/suggest_workout", "good-token",
			`{"goal": "Build Endurance", "time": 60}`)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Failed to generate workout suggestion.", body["detail"])
	})
}

func TestSaveWorkout(t *testing.T) {
	t.Run("missing suggestion", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/save_workout", "good-token", `{}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		db := &mocks.MockDatabase{
			SaveWorkoutFunc: func(ctx context.Context, userID string, record *types.WorkoutRecord) (string, error) {
				assert.Equal(t, "u1", userID)
				return "w-42", nil
			},
		}
		srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/save_workout", "good-token", `{"suggestion": "3x10 squats"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Workout saved successfully.", body["message"])
		assert.Equal(t, "w-42", body["workout_id"])
	})
}

func TestGetWorkouts(t *testing.T) {
	t1 := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	db := &mocks.MockDatabase{
		ListWorkoutsFunc: func(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
			return []*types.WorkoutRecord{
				{ID: "w1", Suggestion: "older", CreatedAt: t1},
				{ID: "w2", Suggestion: "newer", CreatedAt: t1.Add(time.Hour)},
			}, nil
		},
	}
	srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/get_workouts", "good-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []types.WorkoutRecord
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "w2", body[0].ID)
	assert.Equal(t, "w1", body[1].ID)
}

func TestGetLatestWorkout_Empty(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/get_latest_workout", "good-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestProfile(t *testing.T) {
	t.Run("update rejects empty body", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodPut, srv.URL+"/api/v1/user/profile", "good-token", `{}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "No profile data provided.", body["detail"])
	})

	t.Run("partial update writes only provided fields", func(t *testing.T) {
		var persisted map[string]interface{}
		db := &mocks.MockDatabase{
			UpdateUserFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
				persisted = data
				return nil
			},
		}
		srv := newTestServer(t, db, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodPut, srv.URL+"/api/v1/user/profile", "good-token", `{"weight": 72.5}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		profile, ok := persisted["profile"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 72.5, profile["weight"])
		assert.NotContains(t, profile, "height")
	})

	t.Run("get with no profile returns empty object", func(t *testing.T) {
		srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/user/profile", "good-token", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "{}", strings.TrimSpace(string(raw)))
	})
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/strava/status", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &mocks.MockDatabase{}, &mocks.MockProvider{}, &mocks.MockGenerator{})

	resp := doRequest(t, http.MethodGet, srv.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
