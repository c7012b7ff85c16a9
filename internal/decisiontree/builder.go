package decisiontree

import (
	"fmt"
)

// TreeRecord is the stored tree metadata, separate from its node rows.
type TreeRecord struct {
	ID          string
	Name        string
	Description string
	Category    string
	Free        bool
}

// BuildError reports a failure to reconstruct a tree from its rows. RowID
// names the offending row when one can be singled out.
type BuildError struct {
	RowID  string
	Reason string
}

func (e *BuildError) Error() string {
	if e.RowID == "" {
		return "build tree: " + e.Reason
	}
	return fmt.Sprintf("build tree: row %s: %s", e.RowID, e.Reason)
}

// Build reconstructs a fully linked tree from an unordered row set.
//
// Each row becomes a bare node first; a second pass links children into
// their parent's answer slots, by ParentAnswerID when present and by the
// positional OrderIndex otherwise. An empty row set yields a fresh tree
// with a default question root. Any structural problem (malformed
// answersJson, zero or multiple roots, a link that resolves to no slot, an
// occupied slot, rows unreachable from the root) fails the build; a
// partially linked tree is never returned.
func Build(rec TreeRecord, rows []NodeRow) (*Tree, error) {
	t := &Tree{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Category:    rec.Category,
		Free:        rec.Free,
	}

	if len(rows) == 0 {
		t.Root = &Node{
			ID:      t.ID + "-root",
			Kind:    KindQuestion,
			Content: KindQuestion.DefaultContent(),
		}
		t.reindex()
		return t, nil
	}

	// Pass 1: decode rows into bare nodes.
	byID := make(map[string]*Node, len(rows))
	for _, row := range rows {
		if !row.Kind.Valid() {
			return nil, &BuildError{RowID: row.ID, Reason: fmt.Sprintf("unknown node type %q", row.Kind)}
		}
		if _, dup := byID[row.ID]; dup {
			return nil, &BuildError{RowID: row.ID, Reason: "duplicate node id"}
		}
		n := &Node{ID: row.ID, Kind: row.Kind, TestID: row.TestID}
		if err := decodeContent(n, row.Content); err != nil {
			return nil, &BuildError{RowID: row.ID, Reason: err.Error()}
		}
		stubs, err := DecodeAnswers(row.AnswersJSON)
		if err != nil {
			return nil, &BuildError{RowID: row.ID, Reason: err.Error()}
		}
		if n.Kind == KindDiagnosis && len(stubs) > 0 {
			return nil, &BuildError{RowID: row.ID, Reason: "diagnosis node has outgoing answers"}
		}
		for _, s := range stubs {
			n.Answers = append(n.Answers, &Answer{ID: s.ID, Label: s.Label})
		}
		byID[row.ID] = n
	}

	// Pass 2: link children into parent answer slots.
	var root *Node
	for _, row := range rows {
		if row.ParentID == "" {
			if root != nil {
				return nil, &BuildError{RowID: row.ID, Reason: "multiple root rows"}
			}
			root = byID[row.ID]
			continue
		}
		parent := byID[row.ParentID]
		if parent == nil {
			return nil, &BuildError{RowID: row.ID, Reason: fmt.Sprintf("parent %s not in row set", row.ParentID)}
		}
		slot, err := resolveSlot(parent, row)
		if err != nil {
			return nil, err
		}
		if slot.Target != nil {
			return nil, &BuildError{RowID: row.ID, Reason: fmt.Sprintf("answer %s already has a child", slot.ID)}
		}
		slot.Target = byID[row.ID]
	}
	if root == nil {
		return nil, &BuildError{Reason: "no root row (every row has a parent)"}
	}

	t.Root = root
	t.reindex()

	// Rows not reachable from the root indicate a broken parent chain
	// (orphan cluster or cycle among parent references).
	if len(t.nodes) != len(rows) {
		for id := range byID {
			if t.nodes[id] == nil {
				return nil, &BuildError{RowID: id, Reason: "row not reachable from root"}
			}
		}
	}

	if err := ValidateTree(t); err != nil {
		return nil, err
	}
	return t, nil
}

// resolveSlot finds the parent answer a child row attaches to.
func resolveSlot(parent *Node, row NodeRow) (*Answer, error) {
	if row.ParentAnswerID != "" {
		a := parent.AnswerByID(row.ParentAnswerID)
		if a == nil {
			return nil, &BuildError{RowID: row.ID, Reason: fmt.Sprintf("parent %s has no answer %s", parent.ID, row.ParentAnswerID)}
		}
		return a, nil
	}
	if row.OrderIndex < 0 || row.OrderIndex >= len(parent.Answers) {
		return nil, &BuildError{RowID: row.ID, Reason: fmt.Sprintf("order index %d out of range for parent %s (%d answers)", row.OrderIndex, parent.ID, len(parent.Answers))}
	}
	return parent.Answers[row.OrderIndex], nil
}
