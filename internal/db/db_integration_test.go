//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = "integration_test_docs"

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, _ = db.pool.Exec(ctx, "DELETE FROM documents WHERE collection = $1", testCollection)
	return db
}

func TestIntegration_Documents_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	doc, err := db.Get(ctx, testCollection, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, db.Set(ctx, testCollection, "j1", map[string]any{
		"title": "Go Dev", "openings": 3, "status": "active", "createdAt": "2024-03-01T00:00:00.000Z",
	}, false))
	require.NoError(t, db.Set(ctx, testCollection, "j1", map[string]any{"status": "closed", "openings": 0}, true))

	doc, err = db.Get(ctx, testCollection, "j1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Go Dev", doc.Data["title"])
	assert.Equal(t, "closed", doc.Data["status"])
	assert.Equal(t, float64(0), doc.Data["openings"])

	id, err := db.Add(ctx, testCollection, map[string]any{"status": "active", "createdAt": "2024-03-02T00:00:00.000Z"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	n, err := db.Count(ctx, testCollection, Eq("status", "active"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	docs, err := db.Find(ctx, testCollection, Query{OrderBy: "createdAt", Desc: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)

	err = db.Update(ctx, testCollection, "nope", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Delete(ctx, testCollection, "j1"))
	doc, err = db.Get(ctx, testCollection, "j1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestIntegration_Documents_Watch(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch, err := db.Watch(ctx, testCollection)
	require.NoError(t, err)

	first := <-ch
	assert.Empty(t, first)

	require.NoError(t, db.Set(ctx, testCollection, "w1", map[string]any{"title": "x"}, false))

	select {
	case docs := <-ch:
		assert.Len(t, docs, 1)
	case <-ctx.Done():
		t.Fatal("no snapshot after write")
	}
}
