package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestStaticGetTest(t *testing.T) {
	c := Seed()
	ctx := context.Background()

	test, err := c.GetTest(ctx, "test-spurling")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if test.Name != "Test de Spurling" {
		t.Errorf("name = %q", test.Name)
	}
	if test.Specificity <= 0 {
		t.Errorf("specificity = %v", test.Specificity)
	}

	_, err = c.GetTest(ctx, "test-inconnu")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// countingCatalog records how many lookups reach the backing source.
type countingCatalog struct {
	inner Catalog
	calls map[string]int
	fail  bool
}

func (c *countingCatalog) GetTest(ctx context.Context, id string) (*Test, error) {
	c.calls[id]++
	if c.fail {
		return nil, errors.New("backend down")
	}
	return c.inner.GetTest(ctx, id)
}

func TestCacheReadsThroughOnce(t *testing.T) {
	src := &countingCatalog{inner: Seed(), calls: make(map[string]int)}
	cache := NewCache(src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		test, err := cache.GetTest(ctx, "test-lachman")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if test.Name != "Test de Lachman" {
			t.Errorf("name = %q", test.Name)
		}
	}
	if src.calls["test-lachman"] != 1 {
		t.Errorf("source calls = %d, want 1", src.calls["test-lachman"])
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	src := &countingCatalog{inner: Seed(), calls: make(map[string]int), fail: true}
	cache := NewCache(src)
	ctx := context.Background()

	if _, err := cache.GetTest(ctx, "test-neer"); err == nil {
		t.Fatal("expected error from failing backend")
	}

	// Backend recovers; the next lookup must reach it.
	src.fail = false
	test, err := cache.GetTest(ctx, "test-neer")
	if err != nil {
		t.Fatalf("get after recovery: %v", err)
	}
	if test == nil || src.calls["test-neer"] != 2 {
		t.Errorf("calls = %d, want 2", src.calls["test-neer"])
	}
}
