package firestore

import (
	"cloud.google.com/go/firestore"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/types"
)

type Client struct {
	fs *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{fs: client}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

func (c *Client) Users() *Collection[types.UserRecord] {
	return &Collection[types.UserRecord]{
		Ref:           c.fs.Collection(shared.CollectionUsers),
		ToFirestore:   UserToFirestore,
		FromFirestore: FirestoreToUser,
	}
}

// Workouts are sub-collections of Users: users/{uid}/workouts/{id}
func (c *Client) Workouts(userId string) *Collection[types.WorkoutRecord] {
	return &Collection[types.WorkoutRecord]{
		Ref:           c.fs.Collection(shared.CollectionUsers).Doc(userId).Collection(shared.CollectionWorkouts),
		ToFirestore:   WorkoutToFirestore,
		FromFirestore: FirestoreToWorkout,
	}
}
