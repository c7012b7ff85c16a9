// Package traversal walks a built decision tree at runtime: it owns the
// current position, the answer history with back-navigation, restart
// semantics and the per-session record of completed tests. Sessions are
// ephemeral and single-owner; nothing here is persisted.
package traversal

import (
	"time"

	"github.com/google/uuid"

	"github.com/orthodx/arbor/internal/decisiontree"
)

// PatientInfo carries the free-text patient fields entered at intake. The
// engine never interprets them; they flow through to the report.
type PatientInfo struct {
	Name      string
	Age       string
	Complaint string
}

// HistoryEntry records one advancing step: the node the practitioner was on
// and the answer taken from it. Storing the pre-transition node makes undo a
// direct restore rather than a recompute from the remaining history.
type HistoryEntry struct {
	Node        *decisiontree.Node
	AnswerTaken *decisiontree.Answer
}

// Session is the runtime state of one traversal.
type Session struct {
	ID        string
	Patient   PatientInfo
	StartedAt time.Time
	History   []HistoryEntry

	// CompletedTests is the set of catalog test ids performed during the
	// session. It only grows; Restart is the sole reset.
	CompletedTests map[string]bool

	Notes   string
	Current *decisiontree.Node
}

// newSession creates a session positioned at the tree root.
func newSession(root *decisiontree.Node) *Session {
	return &Session{
		ID:             uuid.NewString(),
		StartedAt:      time.Now(),
		CompletedTests: make(map[string]bool),
		Current:        root,
	}
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}

// Depth returns the number of steps taken so far.
func (s *Session) Depth() int {
	return len(s.History)
}
