// Package repository provides typed access to the job tracker collections on
// top of a db.Store. Documents are checked against their JSON schema before
// full writes.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/schemas"
)

// ErrNotFound is returned by updates that target a missing document.
var ErrNotFound = db.ErrNotFound

// Repository wraps a document store.
type Repository struct {
	store   db.Store
	schemas *schemas.Registry
}

// New creates a repository. A nil registry disables schema checks.
func New(store db.Store, registry *schemas.Registry) *Repository {
	return &Repository{store: store, schemas: registry}
}

// Store exposes the underlying document store.
func (r *Repository) Store() db.Store {
	return r.store
}

// put validates and writes a full document.
func (r *Repository) put(ctx context.Context, collection, id string, v any) error {
	data, err := db.Encode(v)
	if err != nil {
		return err
	}
	if err := r.schemas.ValidateDocument(collection, data); err != nil {
		return err
	}
	return r.store.Set(ctx, collection, id, data, false)
}

// get loads one document into dst and reports whether it existed.
func (r *Repository) get(ctx context.Context, collection, id string, dst any) (bool, error) {
	doc, err := r.store.Get(ctx, collection, id)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}
	if err := doc.Decode(dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := r.store.Update(ctx, collection, id, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%s %s: %w", collection, id, ErrNotFound)
		}
		return err
	}
	return nil
}

// decodeAll converts documents to typed values, assigning ids via setID.
func decodeAll[T any](docs []db.Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for i := range docs {
		var v T
		if err := docs[i].Decode(&v); err != nil {
			return nil, err
		}
		setID(&v, docs[i].ID)
		out = append(out, v)
	}
	return out, nil
}
