package store

import (
	"context"
	"errors"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
)

// ErrTreeNotFound is returned when a tree id has no stored record.
var ErrTreeNotFound = errors.New("store: tree not found")

// TreeRepo persists trees as flat row sets.
type TreeRepo interface {
	// Save replaces the tree's entire stored state in one transaction:
	// the metadata record is upserted, every existing node row deleted
	// and the given set inserted. A failure leaves the previous state
	// intact; the tree is never left without nodes.
	Save(ctx context.Context, rec decisiontree.TreeRecord, rows []decisiontree.NodeRow) error

	// Load returns the tree record and its unordered node rows.
	Load(ctx context.Context, treeID string) (decisiontree.TreeRecord, []decisiontree.NodeRow, error)

	// List returns all tree records, ordered by name.
	List(ctx context.Context) ([]decisiontree.TreeRecord, error)

	// Delete removes a tree and its node rows.
	Delete(ctx context.Context, treeID string) error
}

// CatalogRepo is the store-backed test catalog. It serves reads through the
// catalog.Catalog interface and accepts bulk loads of records.
type CatalogRepo interface {
	catalog.Catalog

	// Put inserts or replaces catalog records.
	Put(ctx context.Context, tests []catalog.Test) error
}
