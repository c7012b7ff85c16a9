package traversal

import (
	"context"
	"errors"
	"fmt"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
)

var (
	// ErrInvalidTransition is returned when Answer is called at a
	// diagnosis, or with an answer that does not belong to the current
	// node.
	ErrInvalidTransition = errors.New("traversal: invalid transition")

	// ErrDanglingEdge is returned when the chosen answer has no target.
	// The engine stays put and the session is untouched; the click never
	// happened.
	ErrDanglingEdge = errors.New("traversal: answer has no target node")

	// ErrNoHistory is returned by GoBack on an empty history.
	ErrNoHistory = errors.New("traversal: no history to go back to")
)

// State is the engine's position kind, mapped 1:1 from the current node.
type State int

const (
	AtQuestion State = iota
	AtTest
	AtDiagnosis
)

// DisplayName returns a human-readable state label.
func (s State) DisplayName() string {
	switch s {
	case AtQuestion:
		return "Question"
	case AtTest:
		return "Test clinique"
	case AtDiagnosis:
		return "Diagnostic"
	default:
		return "?"
	}
}

// Engine is the traversal state machine over one tree and one session.
// It is not safe for concurrent use; each session is owned by the caller
// that created it.
type Engine struct {
	tree    *decisiontree.Tree
	session *Session
	tests   *catalog.Cache
}

// New starts a traversal of the given tree at its root. The catalog may be
// nil when test enrichment is not wanted (headless validation runs).
func New(tree *decisiontree.Tree, cat catalog.Catalog) *Engine {
	e := &Engine{
		tree:    tree,
		session: newSession(tree.Root),
	}
	if cat != nil {
		e.tests = catalog.NewCache(cat)
	}
	return e
}

// Session exposes the engine's session for reporting.
func (e *Engine) Session() *Session {
	return e.session
}

// Current returns the node the traversal is on.
func (e *Engine) Current() *decisiontree.Node {
	return e.session.Current
}

// State returns the machine state for the current node.
func (e *Engine) State() State {
	switch e.session.Current.Kind {
	case decisiontree.KindTest:
		return AtTest
	case decisiontree.KindDiagnosis:
		return AtDiagnosis
	default:
		return AtQuestion
	}
}

// Done reports whether the traversal reached a terminal diagnosis.
func (e *Engine) Done() bool {
	return e.State() == AtDiagnosis
}

// Answer advances the traversal along the answer with the given id.
//
// Valid only at a question or test node and only for an answer belonging to
// the current node. The step is recorded in history and, when leaving a test
// node with an assigned catalog test, the test is marked completed. A
// dangling answer is a full no-op reported as ErrDanglingEdge.
func (e *Engine) Answer(answerID string) error {
	cur := e.session.Current
	if cur.IsTerminal() {
		return fmt.Errorf("%w: already at diagnosis %q", ErrInvalidTransition, cur.Content)
	}
	chosen := cur.AnswerByID(answerID)
	if chosen == nil {
		return fmt.Errorf("%w: answer %s does not belong to node %s", ErrInvalidTransition, answerID, cur.ID)
	}
	if chosen.Target == nil {
		return fmt.Errorf("%w: answer %q", ErrDanglingEdge, chosen.Label)
	}

	e.session.History = append(e.session.History, HistoryEntry{Node: cur, AnswerTaken: chosen})
	if cur.Kind == decisiontree.KindTest && cur.TestID != "" {
		e.session.CompletedTests[cur.TestID] = true
	}
	e.session.Current = chosen.Target
	return nil
}

// GoBack undoes the last step: the most recent history entry is popped and
// the traversal returns to the node stored in it. With a single entry that
// node is the root, so undoing the first step is a full reset of position
// (completed tests and notes are kept; only Restart clears those).
func (e *Engine) GoBack() error {
	n := len(e.session.History)
	if n == 0 {
		return ErrNoHistory
	}
	last := e.session.History[n-1]
	e.session.History = e.session.History[:n-1]
	e.session.Current = last.Node
	return nil
}

// Restart resets the session in place: history, completed tests, notes and
// patient info are cleared and the traversal returns to the root. The
// session keeps its id and start time.
func (e *Engine) Restart() {
	s := e.session
	s.History = nil
	s.CompletedTests = make(map[string]bool)
	s.Notes = ""
	s.Patient = PatientInfo{}
	s.Current = e.tree.Root
}

// SetPatient records the intake fields.
func (e *Engine) SetPatient(p PatientInfo) {
	e.session.Patient = p
}

// SetNotes replaces the session notes.
func (e *Engine) SetNotes(notes string) {
	e.session.Notes = notes
}

// CurrentTest resolves the current test node's catalog record through the
// read-through cache. It returns (nil, nil) when the current node is not a
// test or has no assigned catalog test. A lookup failure is recoverable:
// the session is untouched and the next call retries.
func (e *Engine) CurrentTest(ctx context.Context) (*catalog.Test, error) {
	cur := e.session.Current
	if cur.Kind != decisiontree.KindTest || cur.TestID == "" || e.tests == nil {
		return nil, nil
	}
	t, err := e.tests.GetTest(ctx, cur.TestID)
	if err != nil {
		return nil, fmt.Errorf("resolve test %s: %w", cur.TestID, err)
	}
	return t, nil
}
