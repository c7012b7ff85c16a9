// Package decisiontree implements the clinical decision tree: a branching
// structure of questions, orthopedic tests and terminal diagnoses. It covers
// reconstruction from flat storage rows, structural editing and flattening
// back to rows. Runtime traversal lives in internal/traversal.
package decisiontree

import "github.com/google/uuid"

// NodeKind discriminates the three node variants.
type NodeKind string

const (
	KindQuestion  NodeKind = "question"
	KindTest      NodeKind = "test"
	KindDiagnosis NodeKind = "diagnosis"
)

// Valid reports whether k is one of the known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindQuestion, KindTest, KindDiagnosis:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for a node kind.
func (k NodeKind) DisplayName() string {
	switch k {
	case KindQuestion:
		return "Question"
	case KindTest:
		return "Test clinique"
	case KindDiagnosis:
		return "Diagnostic"
	default:
		return string(k)
	}
}

// DefaultContent returns the placeholder content a freshly attached node of
// this kind starts with.
func (k NodeKind) DefaultContent() string {
	switch k {
	case KindQuestion:
		return "Nouvelle question"
	case KindTest:
		return "Sélectionner un test"
	case KindDiagnosis:
		return "Diagnostic"
	default:
		return ""
	}
}

// DiagnosisKind classifies a terminal diagnosis.
type DiagnosisKind string

const (
	DiagnosisRedFlag DiagnosisKind = "red-flag"
	DiagnosisNormal  DiagnosisKind = "normal"
	DiagnosisCaution DiagnosisKind = "caution"
)

// Urgency grades how quickly a diagnosed patient should be seen.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyRoutine   Urgency = "routine"
)

// DiagnosisInfo holds the metadata carried only by diagnosis nodes.
type DiagnosisInfo struct {
	Kind            DiagnosisKind `json:"kind,omitempty"`
	Urgency         Urgency       `json:"urgency,omitempty"`
	Recommendations string        `json:"recommendations,omitempty"`
	Referral        string        `json:"referral,omitempty"`
}

// Answer is a labeled outgoing edge of a question or test node. Target may be
// nil: a dangling answer is legal while editing and a dead end at runtime.
type Answer struct {
	ID     string
	Label  string
	Target *Node
}

// Node is one vertex of the decision tree. Question and test nodes carry
// ordered answers; test nodes reference the external test catalog through
// TestID; diagnosis nodes are terminal and carry Diagnosis metadata instead.
type Node struct {
	ID      string
	Kind    NodeKind
	Content string

	// TestID references the test catalog. Empty while unassigned.
	// Meaningful only on test nodes.
	TestID string

	Answers []*Answer

	// Diagnosis is set on diagnosis nodes (may be nil while under
	// construction). Always nil on other kinds.
	Diagnosis *DiagnosisInfo

	// Expanded is an editor display flag. Never persisted.
	Expanded bool
}

// IsTerminal reports whether the node ends a traversal.
func (n *Node) IsTerminal() bool {
	return n.Kind == KindDiagnosis
}

// AnswerByID returns the node's own answer with the given id, or nil.
func (n *Node) AnswerByID(id string) *Answer {
	for _, a := range n.Answers {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// answerSlot locates an answer inside its owning node.
type answerSlot struct {
	owner *Node
	index int
}

// Tree is a fully linked decision tree plus the id indexes that make edits
// cheap: every node and answer is reachable in one map lookup, so mutations
// never walk the whole structure.
type Tree struct {
	ID          string
	Name        string
	Description string
	Category    string
	Free        bool

	Root *Node

	nodes    map[string]*Node
	answers  map[string]answerSlot
	parentOf map[string]string // node id -> parent answer id
}

// New creates an empty tree with a default question root, the state a fresh
// editing session starts from.
func New(name string) *Tree {
	t := &Tree{
		ID:   uuid.NewString(),
		Name: name,
	}
	root := &Node{
		ID:      uuid.NewString(),
		Kind:    KindQuestion,
		Content: KindQuestion.DefaultContent(),
	}
	t.Root = root
	t.reindex()
	return t
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.nodes[id]
}

// Answer returns the answer with the given id and its owning node, or nils.
func (t *Tree) Answer(id string) (*Answer, *Node) {
	slot, ok := t.answers[id]
	if !ok {
		return nil, nil
	}
	return slot.owner.Answers[slot.index], slot.owner
}

// ParentAnswer returns the answer whose target is the given node, or nil for
// the root and unknown ids.
func (t *Tree) ParentAnswer(nodeID string) *Answer {
	aid, ok := t.parentOf[nodeID]
	if !ok {
		return nil
	}
	a, _ := t.Answer(aid)
	return a
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node in pre-order, following answers in slot order.
// Dangling answers are skipped.
func (t *Tree) Walk(fn func(n *Node)) {
	walkNode(t.Root, fn)
}

func walkNode(n *Node, fn func(n *Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, a := range n.Answers {
		if a.Target != nil {
			walkNode(a.Target, fn)
		}
	}
}

// reindex rebuilds the id indexes from the linked structure. Called after
// bulk operations (build); incremental edits maintain the maps directly.
func (t *Tree) reindex() {
	t.nodes = make(map[string]*Node)
	t.answers = make(map[string]answerSlot)
	t.parentOf = make(map[string]string)
	t.Walk(func(n *Node) {
		t.nodes[n.ID] = n
		for i, a := range n.Answers {
			t.answers[a.ID] = answerSlot{owner: n, index: i}
			if a.Target != nil {
				t.parentOf[a.Target.ID] = a.ID
			}
		}
	})
}

// indexSubtree adds a newly attached subtree to the id indexes.
func (t *Tree) indexSubtree(n *Node) {
	walkNode(n, func(m *Node) {
		t.nodes[m.ID] = m
		for i, a := range m.Answers {
			t.answers[a.ID] = answerSlot{owner: m, index: i}
			if a.Target != nil {
				t.parentOf[a.Target.ID] = a.ID
			}
		}
	})
}

// deindexSubtree removes a detached subtree from the id indexes.
func (t *Tree) deindexSubtree(n *Node) {
	walkNode(n, func(m *Node) {
		delete(t.nodes, m.ID)
		delete(t.parentOf, m.ID)
		for _, a := range m.Answers {
			delete(t.answers, a.ID)
		}
	})
}
