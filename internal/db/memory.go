package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Payloads are normalized through JSON on the
// way in so reads observe the same shapes the Postgres store returns.
type Memory struct {
	mu       sync.RWMutex
	docs     map[string]map[string]Document
	watchers map[string][]*watcher
	now      func() time.Time
}

type watcher struct {
	ch chan []Document
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:     make(map[string]map[string]Document),
		watchers: make(map[string][]*watcher),
		now:      time.Now,
	}
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func cloneDoc(d Document) Document {
	data := make(map[string]any, len(d.Data))
	for k, v := range d.Data {
		data[k] = v
	}
	return Document{ID: d.ID, Data: data, UpdatedAt: d.UpdatedAt}
}

// Get returns a copy of the document, or nil, nil if absent.
func (m *Memory) Get(_ context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, nil
	}
	c := cloneDoc(doc)
	return &c, nil
}

func matches(doc Document, where []Filter) bool {
	for _, f := range where {
		got, ok := doc.Data[f.Field]
		if !ok {
			return false
		}
		want := normalizeValue(f.Value)
		if fmt.Sprintf("%T:%v", got, got) != fmt.Sprintf("%T:%v", want, want) {
			return false
		}
	}
	return true
}

// compareValues orders missing values last, numbers numerically and
// everything else by its string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func (m *Memory) findLocked(collection string, q Query) []Document {
	var docs []Document
	for _, doc := range m.docs[collection] {
		if matches(doc, q.Where) {
			docs = append(docs, cloneDoc(doc))
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			a, b := docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy]
			c := compareValues(a, b)
			if c != 0 {
				if q.Desc && a != nil && b != nil {
					return c > 0
				}
				return c < 0
			}
		}
		return docs[i].ID < docs[j].ID
	})
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

// Find returns matching documents.
func (m *Memory) Find(_ context.Context, collection string, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(collection, q), nil
}

// Count returns the number of matching documents.
func (m *Memory) Count(_ context.Context, collection string, where ...Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, doc := range m.docs[collection] {
		if matches(doc, where) {
			n++
		}
	}
	return n, nil
}

// Set writes a document, merging top-level fields when merge is true.
func (m *Memory) Set(_ context.Context, collection, id string, data map[string]any, merge bool) error {
	norm, err := normalize(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", collection, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.docs[collection]
	if coll == nil {
		coll = make(map[string]Document)
		m.docs[collection] = coll
	}
	if existing, ok := coll[id]; ok && merge {
		for k, v := range norm {
			existing.Data[k] = v
		}
		existing.UpdatedAt = m.now()
		coll[id] = existing
	} else {
		coll[id] = Document{ID: id, Data: norm, UpdatedAt: m.now()}
	}
	m.notifyLocked(collection)
	return nil
}

// Add creates a document under a generated id.
func (m *Memory) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, data, false); err != nil {
		return "", err
	}
	return id, nil
}

// Update overlays fields on an existing document.
func (m *Memory) Update(_ context.Context, collection, id string, fields map[string]any) error {
	norm, err := normalize(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update for %s/%s: %w", collection, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range norm {
		existing.Data[k] = v
	}
	existing.UpdatedAt = m.now()
	m.docs[collection][id] = existing
	m.notifyLocked(collection)
	return nil
}

// Delete removes a document.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[collection][id]; !ok {
		return nil
	}
	delete(m.docs[collection], id)
	m.notifyLocked(collection)
	return nil
}

// Watch emits the collection now and after each write, keeping only the
// latest snapshot for a slow reader.
func (m *Memory) Watch(ctx context.Context, collection string) (<-chan []Document, error) {
	w := &watcher{ch: make(chan []Document, 1)}

	m.mu.Lock()
	w.ch <- m.findLocked(collection, Query{})
	m.watchers[collection] = append(m.watchers[collection], w)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		ws := m.watchers[collection]
		for i, other := range ws {
			if other == w {
				m.watchers[collection] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
		close(w.ch)
	}()
	return w.ch, nil
}

func (m *Memory) notifyLocked(collection string) {
	ws := m.watchers[collection]
	if len(ws) == 0 {
		return
	}
	snap := m.findLocked(collection, Query{})
	for _, w := range ws {
		select {
		case <-w.ch:
		default:
		}
		w.ch <- snap
	}
}

// Close is a no-op.
func (m *Memory) Close() {}
