package decisiontree

import (
	"fmt"
	"strings"
)

// ValidateTree performs structural checks on a linked tree. It returns a
// combined error describing all problems found, or nil if the tree is valid.
//
// The linked representation cannot express a node with two parents (a row
// set that tries is rejected by Build), so the checks here guard the
// invariants edits and imports could still break: terminal diagnoses,
// unique ids, known kinds.
func ValidateTree(t *Tree) error {
	var errs []string

	if t.Root == nil {
		return fmt.Errorf("tree validation failed:\n  tree has no root")
	}

	nodeIDs := make(map[string]bool)
	answerIDs := make(map[string]bool)

	t.Walk(func(n *Node) {
		if nodeIDs[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %q", n.ID))
		}
		nodeIDs[n.ID] = true

		if !n.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("node %q has unknown kind %q", n.ID, n.Kind))
		}
		if n.Kind == KindDiagnosis && len(n.Answers) > 0 {
			errs = append(errs, fmt.Sprintf("diagnosis node %q has %d outgoing answers", n.ID, len(n.Answers)))
		}
		if n.Kind != KindDiagnosis && n.Diagnosis != nil {
			errs = append(errs, fmt.Sprintf("node %q carries diagnosis metadata but is a %s", n.ID, n.Kind))
		}

		for _, a := range n.Answers {
			if a.ID == "" {
				errs = append(errs, fmt.Sprintf("node %q has an answer with empty id", n.ID))
				continue
			}
			if answerIDs[a.ID] {
				errs = append(errs, fmt.Sprintf("duplicate answer id: %q", a.ID))
			}
			answerIDs[a.ID] = true
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("tree validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
