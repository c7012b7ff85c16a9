package decisiontree

// Record returns the tree's stored metadata.
func (t *Tree) Record() TreeRecord {
	return TreeRecord{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Free:        t.Free,
	}
}

// Flatten serializes the tree into its row set, the inverse of Build. Rows
// come out in pre-order; each child row records its parent answer's id and
// slot index. The caller persists the whole set atomically; the store
// replaces a tree's rows wholesale rather than diffing them.
func (t *Tree) Flatten() ([]NodeRow, error) {
	var rows []NodeRow
	var walk func(n *Node, parentID, parentAnswerID string, orderIndex int) error
	walk = func(n *Node, parentID, parentAnswerID string, orderIndex int) error {
		content, err := encodeContent(n)
		if err != nil {
			return err
		}
		answersJSON, err := EncodeAnswers(n.Answers)
		if err != nil {
			return err
		}
		rows = append(rows, NodeRow{
			ID:             n.ID,
			TreeID:         t.ID,
			ParentID:       parentID,
			ParentAnswerID: parentAnswerID,
			Kind:           n.Kind,
			Content:        content,
			TestID:         n.TestID,
			OrderIndex:     orderIndex,
			AnswersJSON:    answersJSON,
		})
		for i, a := range n.Answers {
			if a.Target == nil {
				continue
			}
			if err := walk(a.Target, n.ID, a.ID, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.Root, "", "", 0); err != nil {
		return nil, err
	}
	return rows, nil
}
