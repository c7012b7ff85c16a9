package runner

import (
	"github.com/orthodx/arbor/internal/catalog"
)

// testResolvedMsg is sent when the current node's catalog test has been
// looked up. NodeID guards against a stale resolution arriving after the
// traversal moved on.
type testResolvedMsg struct {
	NodeID string
	Test   *catalog.Test
	Err    error
}
