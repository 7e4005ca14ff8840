// Package types holds the records persisted on and under the user document.
package types

import "time"

// StravaTokens is the token pair stored under the strava_tokens key of a
// user document. A nil record means the account was never connected; a
// record with an empty AccessToken means the stored tokens are unusable.
type StravaTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // epoch seconds, as returned by Strava
}

// Profile carries the optional profile fields stored alongside the tokens.
// Pointer fields distinguish "not provided" from zero values so partial
// updates only touch what the client sent.
type Profile struct {
	Height       *float64 `json:"height,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Gender       *string  `json:"gender,omitempty"`
	WorkoutLevel *string  `json:"workout_level,omitempty"`
}

// UserRecord is the users/{uid} document.
type UserRecord struct {
	UserID       string
	Profile      *Profile
	StravaTokens *StravaTokens
}

// WorkoutRecord is one saved suggestion in users/{uid}/workouts. Records
// are immutable once created.
type WorkoutRecord struct {
	ID         string    `json:"id"`
	Suggestion string    `json:"suggestion"`
	CreatedAt  time.Time `json:"created_at"`
}
