package shared

const (
	ProjectID = "versionsup-project" // Can be overridden by env var in main if needed

	CollectionUsers    = "users"
	CollectionWorkouts = "workouts"

	FieldStravaTokens = "strava_tokens"
	FieldProfile      = "profile"
	FieldCreatedAt    = "created_at"

	// DefaultActivityPageSize is how many recent provider activities are
	// requested. Only the first page is ever fetched, so longer histories
	// are truncated.
	DefaultActivityPageSize = 5
)
