package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingReturnsNil(t *testing.T) {
	m := NewMemory()
	doc, err := m.Get(context.Background(), "jobs", "nope")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMemory_SetReplaceAndMerge(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "jobs", "j1", map[string]any{"title": "Go Dev", "openings": 3}, false))

	doc, err := m.Get(ctx, "jobs", "j1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Go Dev", doc.Data["title"])
	assert.Equal(t, float64(3), doc.Data["openings"])

	require.NoError(t, m.Set(ctx, "jobs", "j1", map[string]any{"status": "closed", "openings": 0}, true))
	doc, _ = m.Get(ctx, "jobs", "j1")
	assert.Equal(t, "Go Dev", doc.Data["title"])
	assert.Equal(t, "closed", doc.Data["status"])
	assert.Equal(t, float64(0), doc.Data["openings"])

	require.NoError(t, m.Set(ctx, "jobs", "j1", map[string]any{"title": "Replaced"}, false))
	doc, _ = m.Get(ctx, "jobs", "j1")
	assert.Equal(t, map[string]any{"title": "Replaced"}, doc.Data)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "jobs", "j1", map[string]any{"title": "a"}, false))

	doc, _ := m.Get(ctx, "jobs", "j1")
	doc.Data["title"] = "mutated"

	again, _ := m.Get(ctx, "jobs", "j1")
	assert.Equal(t, "a", again.Data["title"])
}

func TestMemory_UpdateMissing(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), "applications", "x", map[string]any{"status": "rejected"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "savedJobs", "u_j", map[string]any{"userId": "u"}, false))
	require.NoError(t, m.Delete(ctx, "savedJobs", "u_j"))
	require.NoError(t, m.Delete(ctx, "savedJobs", "u_j"))

	doc, err := m.Get(ctx, "savedJobs", "u_j")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMemory_FindFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed := []struct {
		id      string
		userID  string
		applied string
		count   int
	}{
		{"a", "u1", "2024-03-01T10:00:00.000Z", 1},
		{"b", "u1", "2024-03-03T10:00:00.000Z", 2},
		{"c", "u2", "2024-03-02T10:00:00.000Z", 3},
		{"d", "u1", "2024-03-02T10:00:00.000Z", 4},
	}
	for _, s := range seed {
		require.NoError(t, m.Set(ctx, "applications", s.id, map[string]any{
			"userId": s.userID, "appliedAt": s.applied, "count": s.count,
		}, false))
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"no filter orders by id", Query{}, []string{"a", "b", "c", "d"}},
		{"filter", Query{Where: []Filter{Eq("userId", "u1")}}, []string{"a", "b", "d"}},
		{"order asc", Query{OrderBy: "appliedAt"}, []string{"a", "c", "d", "b"}},
		{"order desc limit", Query{Where: []Filter{Eq("userId", "u1")}, OrderBy: "appliedAt", Desc: true, Limit: 2}, []string{"b", "d"}},
		{"numeric filter", Query{Where: []Filter{Eq("count", 3)}}, []string{"c"}},
		{"no match", Query{Where: []Filter{Eq("userId", "nobody")}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := m.Find(ctx, "applications", tt.query)
			require.NoError(t, err)
			var ids []string
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMemory_Count(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i, status := range []string{"applied", "rejected", "applied"} {
		_, err := m.Add(ctx, "applications", map[string]any{"status": status, "n": i})
		require.NoError(t, err)
	}

	n, err := m.Count(ctx, "applications", Eq("status", "applied"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Count(ctx, "applications")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemory_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "jobs", "j1", map[string]any{"title": "a"}, false))

	ch, err := m.Watch(ctx, "jobs")
	require.NoError(t, err)

	first := receive(t, ch)
	assert.Len(t, first, 1)

	require.NoError(t, m.Set(ctx, "jobs", "j2", map[string]any{"title": "b"}, false))
	second := receive(t, ch)
	assert.Len(t, second, 2)

	// writes to other collections are not delivered
	require.NoError(t, m.Set(ctx, "applications", "x", map[string]any{}, false))

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// a pending snapshot may still be buffered; the channel must close after it
			_, ok = <-ch
		}
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel was not closed after cancel")
	}
}

func TestMemory_WatchKeepsLatestSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory()

	ch, err := m.Watch(ctx, "jobs")
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Set(ctx, "jobs", id, map[string]any{}, false))
	}
	assert.Len(t, receive(t, ch), 3)
}

func TestDocument_DecodeAndEncode(t *testing.T) {
	type job struct {
		ID       string `json:"id,omitempty"`
		Title    string `json:"title"`
		Openings int    `json:"openings"`
	}

	data, err := Encode(job{ID: "ignored", Title: "Go Dev", Openings: 2})
	require.NoError(t, err)
	_, hasID := data["id"]
	assert.False(t, hasID)

	doc := Document{ID: "j1", Data: data}
	var out job
	require.NoError(t, doc.Decode(&out))
	assert.Equal(t, "Go Dev", out.Title)
	assert.Equal(t, 2, out.Openings)
}

func receive(t *testing.T, ch <-chan []Document) []Document {
	t.Helper()
	select {
	case docs := <-ch:
		return docs
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
