// Package db provides the document store used for every collection: a
// PostgreSQL implementation backed by a single JSONB table and an in-memory
// implementation for tests and local runs.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notifyChannel is the LISTEN/NOTIFY channel fed by the documents trigger.
const notifyChannel = "documents_changed"

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Get retrieves one document
func (db *DB) Get(ctx context.Context, collection, id string) (*Document, error) {
	var doc Document
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, data, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&doc.ID, &raw, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("failed to parse %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

// buildWhere renders equality filters as JSONB containment checks so that
// numbers and booleans compare by value, not by text.
func buildWhere(collection string, where []Filter) (string, []any, error) {
	query := ` WHERE collection = $1`
	args := []any{collection}
	for _, f := range where {
		probe, err := json.Marshal(map[string]any{f.Field: f.Value})
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode filter on %s: %w", f.Field, err)
		}
		args = append(args, probe)
		query += fmt.Sprintf(" AND data @> $%d::jsonb", len(args))
	}
	return query, args, nil
}

// Find runs a filtered query
func (db *DB) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	where, args, err := buildWhere(collection, q.Where)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, data, updated_at FROM documents` + where
	if q.OrderBy != "" {
		args = append(args, q.OrderBy)
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		query += fmt.Sprintf(` ORDER BY (data->>$%d) COLLATE "C" %s NULLS LAST, id`, len(args), dir)
	} else {
		query += ` ORDER BY id`
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var raw []byte
		if err := rows.Scan(&doc.ID, &raw, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to parse %s/%s: %w", collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return docs, nil
}

// Count returns the number of matching documents, computed by the server
func (db *DB) Count(ctx context.Context, collection string, where ...Filter) (int, error) {
	clause, args, err := buildWhere(collection, where)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT count(*) FROM documents`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Set writes a document, merging top-level fields when merge is true
func (db *DB) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", collection, id, err)
	}

	conflict := `data = EXCLUDED.data`
	if merge {
		conflict = `data = documents.data || EXCLUDED.data`
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET `+conflict+`, updated_at = NOW()`,
		collection, id, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

// Add creates a document under a generated id
func (db *DB) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := db.Set(ctx, collection, id, data, false); err != nil {
		return "", err
	}
	return id, nil
}

// Update overlays fields on an existing document
func (db *DB) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	jsonBytes, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update for %s/%s: %w", collection, id, err)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE documents SET data = data || $3, updated_at = NOW()
		 WHERE collection = $1 AND id = $2`,
		collection, id, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Delete removes a document
func (db *DB) Delete(ctx context.Context, collection, id string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Watch streams collection snapshots using LISTEN/NOTIFY. One pooled
// connection is held for the lifetime of the subscription.
func (db *DB) Watch(ctx context.Context, collection string) (<-chan []Document, error) {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen for changes: %w", err)
	}

	out := make(chan []Document, 1)
	go func() {
		defer close(out)
		defer func() {
			_, _ = conn.Exec(context.Background(), "UNLISTEN "+notifyChannel)
			conn.Release()
		}()

		send := func() bool {
			docs, err := db.Find(ctx, collection, Query{})
			if err != nil {
				return false
			}
			select {
			case out <- docs:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return
			}
			if n.Payload == collection && !send() {
				return
			}
		}
	}()
	return out, nil
}
