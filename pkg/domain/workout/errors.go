package workout

import "errors"

// Caller-facing failures. The wrapped causes are logged where they happen;
// only these fixed messages ever leave the service.
var (
	// ErrNotConnected: no Strava token record exists for the user.
	ErrNotConnected = errors.New("Strava account not connected.")
	// ErrInvalidToken: a token record exists but holds no access token.
	ErrInvalidToken = errors.New("Stored Strava token is invalid.")
	// ErrBadExchange: Strava rejected the authorization code.
	ErrBadExchange = errors.New("Failed to exchange token with Strava.")
	// ErrUpstream: the direct activity fetch failed at the provider.
	ErrUpstream = errors.New("Failed to fetch activities from Strava.")
	// ErrGeneration: the generative service failed; no fallback text.
	ErrGeneration = errors.New("Failed to generate workout suggestion.")
	// ErrPersistence: the document store could not be read or written.
	ErrPersistence = errors.New("Failed to access workout data.")
)
