package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by field-level updates on a missing document.
var ErrNotFound = errors.New("document not found")

// Document is one JSON object stored under (collection, id).
type Document struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Decode unmarshals the document payload into v.
func (d *Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	return nil
}

// Encode converts a struct into a document payload. The "id" key is dropped
// because ids live outside the payload.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	delete(data, "id")
	return data, nil
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Query describes a filtered, optionally ordered and limited read.
type Query struct {
	Where   []Filter
	OrderBy string
	Desc    bool
	Limit   int // 0 means no limit
}

// Store is the document database the application talks to.
//
// Get returns nil, nil when the document does not exist. Set with merge
// overlays top-level fields onto an existing document (creating it if
// needed); without merge it replaces the document. Update fails with
// ErrNotFound when the document is missing. Delete of a missing document is
// not an error. Watch emits the full collection once immediately and again
// after every change, until ctx is cancelled.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Count(ctx context.Context, collection string, where ...Filter) (int, error)
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Watch(ctx context.Context, collection string) (<-chan []Document, error)
	Close()
}
