package database

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	shared "github.com/versionsup/server/pkg"
	storage "github.com/versionsup/server/pkg/storage/firestore"
	"github.com/versionsup/server/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore.
// It wraps our typed storage client.
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client // internal typed wrapper
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client),
	}
}

// GetUser returns the user document. A document that does not exist yet is
// not an error; it comes back as an empty record so callers only have to
// reason about "tokens present or not".
func (a *FirestoreAdapter) GetUser(ctx context.Context, id string) (*types.UserRecord, error) {
	user, err := a.storage.Users().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return &types.UserRecord{UserID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	user.UserID = id
	return user, nil
}

func (a *FirestoreAdapter) UpdateUser(ctx context.Context, id string, data map[string]interface{}) error {
	return a.storage.Users().Doc(id).Update(ctx, data)
}

// SaveWorkout creates a new document in users/{uid}/workouts and returns
// the store-assigned id. The creation timestamp is stamped here, at write
// time, unless the caller already set one.
func (a *FirestoreAdapter) SaveWorkout(ctx context.Context, userID string, record *types.WorkoutRecord) (string, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	doc := a.storage.Workouts(userID).NewDoc()
	if err := doc.Set(ctx, record); err != nil {
		return "", err
	}
	return doc.ID(), nil
}

// ListWorkouts reads the whole sub-collection unordered. Ordering is the
// caller's job; see the workout service.
func (a *FirestoreAdapter) ListWorkouts(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	records, ids, err := a.storage.Workouts(userID).All(ctx)
	if err != nil {
		return nil, err
	}
	return attachIDs(records, ids), nil
}

// LatestWorkout runs the store-side ordered query: created_at descending,
// limit one. Zero results is a valid outcome, not an error.
func (a *FirestoreAdapter) LatestWorkout(ctx context.Context, userID string) ([]*types.WorkoutRecord, error) {
	records, ids, err := a.storage.Workouts(userID).Newest(ctx, shared.FieldCreatedAt, 1)
	if err != nil {
		return nil, err
	}
	return attachIDs(records, ids), nil
}

func attachIDs(records []*types.WorkoutRecord, ids []string) []*types.WorkoutRecord {
	for i := range records {
		records[i].ID = ids[i]
	}
	return records
}
