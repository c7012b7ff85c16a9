package decisiontree

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by edit operations targeting an unknown node or
// answer id. Edits never crash on a stale id; the tree is left untouched.
var ErrNotFound = errors.New("decisiontree: not found")

// ErrRootDelete is returned when an edit would remove the tree root.
var ErrRootDelete = errors.New("decisiontree: cannot delete root node")

// NodePatch is a partial node update. Nil fields are left unchanged.
// Diagnosis fields apply only to diagnosis nodes and TestID only to test
// nodes; on other kinds they are ignored.
type NodePatch struct {
	Content         *string
	TestID          *string
	DiagnosisKind   *DiagnosisKind
	Urgency         *Urgency
	Recommendations *string
	Referral        *string
}

// AddAnswer appends a new unlabeled, dangling answer to the node.
func (t *Tree) AddAnswer(nodeID string) (*Answer, error) {
	n := t.Node(nodeID)
	if n == nil {
		return nil, ErrNotFound
	}
	a := &Answer{ID: uuid.NewString()}
	n.Answers = append(n.Answers, a)
	t.answers[a.ID] = answerSlot{owner: n, index: len(n.Answers) - 1}
	return a, nil
}

// UpdateAnswerLabel sets the label of an existing answer.
func (t *Tree) UpdateAnswerLabel(answerID, label string) error {
	a, _ := t.Answer(answerID)
	if a == nil {
		return ErrNotFound
	}
	a.Label = label
	return nil
}

// DeleteAnswer removes an answer and its entire target subtree. A child
// cannot be detached without being deleted; the recursive removal is the
// point of the operation.
func (t *Tree) DeleteAnswer(answerID string) error {
	slot, ok := t.answers[answerID]
	if !ok {
		return ErrNotFound
	}
	n := slot.owner
	a := n.Answers[slot.index]
	if a.Target != nil {
		t.deindexSubtree(a.Target)
	}
	n.Answers = append(n.Answers[:slot.index], n.Answers[slot.index+1:]...)
	delete(t.answers, answerID)
	// Later siblings shifted down one slot.
	for i := slot.index; i < len(n.Answers); i++ {
		t.answers[n.Answers[i].ID] = answerSlot{owner: n, index: i}
	}
	return nil
}

// AttachNode creates a bare node of the given kind and sets it as the
// answer's target. An existing target subtree is replaced (and removed from
// the tree); attaching is how a dangling answer gets its child.
func (t *Tree) AttachNode(answerID string, kind NodeKind) (*Node, error) {
	a, _ := t.Answer(answerID)
	if a == nil {
		return nil, ErrNotFound
	}
	if a.Target != nil {
		t.deindexSubtree(a.Target)
	}
	n := &Node{
		ID:      uuid.NewString(),
		Kind:    kind,
		Content: kind.DefaultContent(),
	}
	a.Target = n
	t.nodes[n.ID] = n
	t.parentOf[n.ID] = a.ID
	return n, nil
}

// UpdateNode merges a partial update into the node with the given id.
func (t *Tree) UpdateNode(nodeID string, patch NodePatch) error {
	n := t.Node(nodeID)
	if n == nil {
		return ErrNotFound
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.TestID != nil && n.Kind == KindTest {
		n.TestID = *patch.TestID
	}
	if n.Kind == KindDiagnosis {
		if patch.DiagnosisKind != nil || patch.Urgency != nil || patch.Recommendations != nil || patch.Referral != nil {
			if n.Diagnosis == nil {
				n.Diagnosis = &DiagnosisInfo{}
			}
			if patch.DiagnosisKind != nil {
				n.Diagnosis.Kind = *patch.DiagnosisKind
			}
			if patch.Urgency != nil {
				n.Diagnosis.Urgency = *patch.Urgency
			}
			if patch.Recommendations != nil {
				n.Diagnosis.Recommendations = *patch.Recommendations
			}
			if patch.Referral != nil {
				n.Diagnosis.Referral = *patch.Referral
			}
		}
	}
	return nil
}

// DeleteNode removes a node and its subtree wherever it hangs. The parent
// answer survives, dangling. The root cannot be deleted.
func (t *Tree) DeleteNode(nodeID string) error {
	n := t.Node(nodeID)
	if n == nil {
		return ErrNotFound
	}
	if n == t.Root {
		return ErrRootDelete
	}
	parent := t.ParentAnswer(nodeID)
	if parent != nil {
		parent.Target = nil
	}
	t.deindexSubtree(n)
	return nil
}

// ToggleExpanded flips the editor display flag on a node.
func (t *Tree) ToggleExpanded(nodeID string) error {
	n := t.Node(nodeID)
	if n == nil {
		return ErrNotFound
	}
	n.Expanded = !n.Expanded
	return nil
}
