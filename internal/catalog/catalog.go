// Package catalog provides the orthopedic test catalog: the external lookup
// that enriches test nodes with descriptive records (name, what the test
// assesses, sensitivity/specificity, demonstration video). The engine only
// sees the Catalog interface; the SQLite-backed implementation lives in
// internal/store.
package catalog

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a test id has no catalog record.
var ErrNotFound = errors.New("catalog: test not found")

// Test is one catalog record. Sensitivity and Specificity are in [0,1] and
// negative when the literature reports no figure.
type Test struct {
	ID          string
	Name        string
	Description string
	Sensitivity float64
	Specificity float64
	VideoURL    string
}

// Catalog is the read-only lookup the traversal engine consults when it
// enters a test node.
type Catalog interface {
	GetTest(ctx context.Context, id string) (*Test, error)
}

// Cache is a read-through wrapper around a Catalog. Within a traversal the
// same test can be entered repeatedly (back navigation, restarts); the
// cache keeps each resolved record so only the first entry pays the lookup.
// Failures are not cached: a flaky backend gets retried on the next entry.
type Cache struct {
	src Catalog

	mu    sync.Mutex
	tests map[string]*Test
}

// NewCache wraps a catalog with a read-through cache.
func NewCache(src Catalog) *Cache {
	return &Cache{src: src, tests: make(map[string]*Test)}
}

// GetTest returns the cached record or resolves it through the source.
func (c *Cache) GetTest(ctx context.Context, id string) (*Test, error) {
	c.mu.Lock()
	if t, ok := c.tests[id]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	t, err := c.src.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tests[id] = t
	c.mu.Unlock()
	return t, nil
}

// Static is an in-memory catalog, used for the bundled seed set and in
// tests.
type Static struct {
	byID map[string]*Test
}

// NewStatic builds an in-memory catalog from a slice of records.
func NewStatic(tests []Test) *Static {
	s := &Static{byID: make(map[string]*Test, len(tests))}
	for i := range tests {
		s.byID[tests[i].ID] = &tests[i]
	}
	return s
}

// GetTest returns a record by id.
func (s *Static) GetTest(_ context.Context, id string) (*Test, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// All returns every record, in unspecified order.
func (s *Static) All() []Test {
	result := make([]Test, 0, len(s.byID))
	for _, t := range s.byID {
		result = append(result, *t)
	}
	return result
}
