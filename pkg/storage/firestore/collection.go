package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type ToFirestoreFunc[T any] func(*T) map[string]interface{}
type FromFirestoreFunc[T any] func(map[string]interface{}) *T

type Collection[T any] struct {
	Ref           *firestore.CollectionRef
	ToFirestore   ToFirestoreFunc[T]
	FromFirestore FromFirestoreFunc[T]
}

func (c *Collection[T]) Doc(id string) *DocumentRef[T] {
	return &DocumentRef[T]{
		Ref:           c.Ref.Doc(id),
		ToFirestore:   c.ToFirestore,
		FromFirestore: c.FromFirestore,
	}
}

func (c *Collection[T]) NewDoc() *DocumentRef[T] {
	return &DocumentRef[T]{
		Ref:           c.Ref.NewDoc(),
		ToFirestore:   c.ToFirestore,
		FromFirestore: c.FromFirestore,
	}
}

// All reads every document in the collection in store order (unordered as
// far as callers are concerned). Returns the decoded records alongside a
// parallel slice of document ids.
func (c *Collection[T]) All(ctx context.Context) ([]*T, []string, error) {
	return c.drain(ctx, c.Ref.Documents(ctx))
}

// Newest runs a store-side ordered query: descending on field, at most
// limit documents.
func (c *Collection[T]) Newest(ctx context.Context, field string, limit int) ([]*T, []string, error) {
	q := c.Ref.OrderBy(field, firestore.Desc).Limit(limit)
	return c.drain(ctx, q.Documents(ctx))
}

func (c *Collection[T]) drain(ctx context.Context, iter *firestore.DocumentIterator) ([]*T, []string, error) {
	defer iter.Stop()

	var out []*T
	var ids []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c.FromFirestore(snap.Data()))
		ids = append(ids, snap.Ref.ID)
	}
	return out, ids, nil
}

type DocumentRef[T any] struct {
	Ref           *firestore.DocumentRef
	ToFirestore   ToFirestoreFunc[T]
	FromFirestore FromFirestoreFunc[T]
}

func (d *DocumentRef[T]) ID() string {
	return d.Ref.ID
}

func (d *DocumentRef[T]) Get(ctx context.Context) (*T, error) {
	snap, err := d.Ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d.FromFirestore(snap.Data()), nil
}

func (d *DocumentRef[T]) Set(ctx context.Context, data *T) error {
	m := d.ToFirestore(data)
	_, err := d.Ref.Set(ctx, m, firestore.MergeAll)
	return err
}

// Update merge-writes a partial map. Keys must match the Firestore
// snake_case field names; no converter runs here because partials rarely
// line up with a full record.
func (d *DocumentRef[T]) Update(ctx context.Context, updates map[string]interface{}) error {
	_, err := d.Ref.Set(ctx, updates, firestore.MergeAll)
	return err
}
