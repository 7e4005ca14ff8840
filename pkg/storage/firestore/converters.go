package firestore

import (
	"time"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/types"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get an integer from map. Firestore hands back int64 for
// numbers written from Go and float64 for numbers written via JSON clients.
func getInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func getFloat(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

func getMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	if v, ok := m[key]; ok {
		if sub, ok := v.(map[string]interface{}); ok {
			return sub, true
		}
	}
	return nil, false
}

// --- UserRecord ---

func UserToFirestore(u *types.UserRecord) map[string]interface{} {
	m := map[string]interface{}{}
	if u.StravaTokens != nil {
		m[shared.FieldStravaTokens] = StravaTokensToFirestore(u.StravaTokens)
	}
	if u.Profile != nil {
		m[shared.FieldProfile] = ProfileToFirestore(u.Profile)
	}
	return m
}

func FirestoreToUser(m map[string]interface{}) *types.UserRecord {
	u := &types.UserRecord{}
	// The key being present at all is meaningful: it distinguishes "never
	// connected" from "connected but the stored tokens are broken".
	if sub, ok := getMap(m, shared.FieldStravaTokens); ok {
		u.StravaTokens = &types.StravaTokens{
			AccessToken:  getString(sub, "access_token"),
			RefreshToken: getString(sub, "refresh_token"),
			ExpiresAt:    getInt64(sub, "expires_at"),
		}
	}
	if sub, ok := getMap(m, shared.FieldProfile); ok {
		p := &types.Profile{}
		if v, ok := getFloat(sub, "height"); ok {
			p.Height = &v
		}
		if v, ok := getFloat(sub, "weight"); ok {
			p.Weight = &v
		}
		if s := getString(sub, "gender"); s != "" {
			p.Gender = &s
		}
		if s := getString(sub, "workout_level"); s != "" {
			p.WorkoutLevel = &s
		}
		u.Profile = p
	}
	return u
}

func StravaTokensToFirestore(t *types.StravaTokens) map[string]interface{} {
	return map[string]interface{}{
		"access_token":  t.AccessToken,
		"refresh_token": t.RefreshToken,
		"expires_at":    t.ExpiresAt,
	}
}

func ProfileToFirestore(p *types.Profile) map[string]interface{} {
	m := map[string]interface{}{}
	if p.Height != nil {
		m["height"] = *p.Height
	}
	if p.Weight != nil {
		m["weight"] = *p.Weight
	}
	if p.Gender != nil {
		m["gender"] = *p.Gender
	}
	if p.WorkoutLevel != nil {
		m["workout_level"] = *p.WorkoutLevel
	}
	return m
}

// --- WorkoutRecord ---

func WorkoutToFirestore(w *types.WorkoutRecord) map[string]interface{} {
	return map[string]interface{}{
		"suggestion":          w.Suggestion,
		shared.FieldCreatedAt: w.CreatedAt,
	}
}

func FirestoreToWorkout(m map[string]interface{}) *types.WorkoutRecord {
	return &types.WorkoutRecord{
		Suggestion: getString(m, "suggestion"),
		CreatedAt:  getTime(m, shared.FieldCreatedAt),
	}
}
