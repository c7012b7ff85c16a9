package decisiontree

import (
	"errors"
	"testing"
)

func TestAddAnswer(t *testing.T) {
	tr := buildCervical(t)

	a, err := tr.AddAnswer("n-root")
	if err != nil {
		t.Fatalf("add answer: %v", err)
	}
	if a.ID == "" {
		t.Error("new answer has empty id")
	}
	if a.Label != "" || a.Target != nil {
		t.Errorf("new answer = %+v, want unlabeled and dangling", a)
	}
	if len(tr.Root.Answers) != 3 {
		t.Errorf("root answers = %d, want 3", len(tr.Root.Answers))
	}

	// The new answer must be addressable by id immediately.
	got, owner := tr.Answer(a.ID)
	if got != a || owner != tr.Root {
		t.Errorf("Answer(%q) = %v on %v", a.ID, got, owner)
	}
}

func TestUpdateAnswerLabel(t *testing.T) {
	tr := buildCervical(t)

	if err := tr.UpdateAnswerLabel("a-neg", "Négatif ou douteux"); err != nil {
		t.Fatalf("update label: %v", err)
	}
	a, _ := tr.Answer("a-neg")
	if a.Label != "Négatif ou douteux" {
		t.Errorf("label = %q", a.Label)
	}
}

func TestDeleteAnswerRemovesSubtree(t *testing.T) {
	tr := buildCervical(t)

	// Deleting "Oui" removes the Spurling test and its diagnosis child:
	// three ids must vanish from every lookup.
	if err := tr.DeleteAnswer("a-oui"); err != nil {
		t.Fatalf("delete answer: %v", err)
	}

	if len(tr.Root.Answers) != 1 {
		t.Fatalf("root answers = %d, want 1", len(tr.Root.Answers))
	}
	for _, id := range []string{"n-spurling", "n-radic"} {
		if tr.Node(id) != nil {
			t.Errorf("node %s still findable after subtree delete", id)
		}
	}
	for _, id := range []string{"a-oui", "a-pos", "a-neg"} {
		if a, _ := tr.Answer(id); a != nil {
			t.Errorf("answer %s still findable after subtree delete", id)
		}
	}

	// The surviving sibling keeps working through the index.
	if err := tr.UpdateAnswerLabel("a-non", "Non / autre"); err != nil {
		t.Errorf("sibling answer broken after delete: %v", err)
	}
	if tr.Len() != 2 {
		t.Errorf("node count = %d, want 2", tr.Len())
	}
}

func TestAttachNodeDefaults(t *testing.T) {
	tr := buildCervical(t)

	tests := []struct {
		kind        NodeKind
		wantContent string
	}{
		{KindQuestion, "Nouvelle question"},
		{KindTest, "Sélectionner un test"},
		{KindDiagnosis, "Diagnostic"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n, err := tr.AttachNode("a-neg", tt.kind)
			if err != nil {
				t.Fatalf("attach: %v", err)
			}
			if n.Content != tt.wantContent {
				t.Errorf("content = %q, want %q", n.Content, tt.wantContent)
			}
			a, _ := tr.Answer("a-neg")
			if a.Target != n {
				t.Error("answer target not set")
			}
			if tr.Node(n.ID) != n {
				t.Error("attached node not indexed")
			}
			if tr.ParentAnswer(n.ID) != a {
				t.Error("parent answer not recorded")
			}
		})
	}
}

func TestAttachNodeReplacesExistingSubtree(t *testing.T) {
	tr := buildCervical(t)

	n, err := tr.AttachNode("a-oui", KindDiagnosis)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if tr.Node("n-spurling") != nil || tr.Node("n-radic") != nil {
		t.Error("replaced subtree still indexed")
	}
	a, _ := tr.Answer("a-oui")
	if a.Target != n {
		t.Error("answer target not replaced")
	}
}

func TestUpdateNodePatch(t *testing.T) {
	tr := buildCervical(t)

	content := "Test de Spurling"
	testID := "test-spurling-v2"
	if err := tr.UpdateNode("n-spurling", NodePatch{Content: &content, TestID: &testID}); err != nil {
		t.Fatalf("update node: %v", err)
	}
	n := tr.Node("n-spurling")
	if n.Content != content || n.TestID != testID {
		t.Errorf("node = %+v", n)
	}

	kind := DiagnosisRedFlag
	urgency := UrgencyImmediate
	reco := "Urgences immédiates"
	if err := tr.UpdateNode("n-radic", NodePatch{DiagnosisKind: &kind, Urgency: &urgency, Recommendations: &reco}); err != nil {
		t.Fatalf("update diagnosis: %v", err)
	}
	d := tr.Node("n-radic").Diagnosis
	if d.Kind != DiagnosisRedFlag || d.Urgency != UrgencyImmediate || d.Recommendations != reco {
		t.Errorf("diagnosis = %+v", d)
	}
	// Referral untouched by the partial patch.
	if d.Referral != "Neurologie" {
		t.Errorf("referral = %q, want Neurologie", d.Referral)
	}
}

func TestUpdateNodeIgnoresMismatchedFields(t *testing.T) {
	tr := buildCervical(t)

	testID := "test-x"
	kind := DiagnosisRedFlag
	if err := tr.UpdateNode("n-root", NodePatch{TestID: &testID, DiagnosisKind: &kind}); err != nil {
		t.Fatalf("update: %v", err)
	}
	n := tr.Node("n-root")
	if n.TestID != "" {
		t.Errorf("question node gained a test id: %q", n.TestID)
	}
	if n.Diagnosis != nil {
		t.Errorf("question node gained diagnosis metadata: %+v", n.Diagnosis)
	}
}

func TestDeleteNodeLeavesAnswerDangling(t *testing.T) {
	tr := buildCervical(t)

	if err := tr.DeleteNode("n-spurling"); err != nil {
		t.Fatalf("delete node: %v", err)
	}

	a, _ := tr.Answer("a-oui")
	if a == nil {
		t.Fatal("parent answer deleted along with node")
	}
	if a.Target != nil {
		t.Errorf("answer target = %v, want nil (dangling)", a.Target)
	}
	if tr.Node("n-radic") != nil {
		t.Error("descendant survived node delete")
	}
}

func TestDeleteNodeRootProtected(t *testing.T) {
	tr := buildCervical(t)

	err := tr.DeleteNode("n-root")
	if !errors.Is(err, ErrRootDelete) {
		t.Fatalf("err = %v, want ErrRootDelete", err)
	}
	if tr.Root == nil || tr.Len() != 4 {
		t.Error("tree mutated by rejected root delete")
	}
}

func TestToggleExpanded(t *testing.T) {
	tr := buildCervical(t)

	if err := tr.ToggleExpanded("n-root"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !tr.Root.Expanded {
		t.Error("expected expanded after first toggle")
	}
	if err := tr.ToggleExpanded("n-root"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if tr.Root.Expanded {
		t.Error("expected collapsed after second toggle")
	}
}

func TestEditUnknownIDsReturnNotFound(t *testing.T) {
	tr := buildCervical(t)

	if _, err := tr.AddAnswer("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddAnswer err = %v", err)
	}
	if err := tr.UpdateAnswerLabel("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAnswerLabel err = %v", err)
	}
	if err := tr.DeleteAnswer("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteAnswer err = %v", err)
	}
	if _, err := tr.AttachNode("nope", KindTest); !errors.Is(err, ErrNotFound) {
		t.Errorf("AttachNode err = %v", err)
	}
	if err := tr.UpdateNode("nope", NodePatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateNode err = %v", err)
	}
	if err := tr.DeleteNode("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteNode err = %v", err)
	}
	if err := tr.ToggleExpanded("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleExpanded err = %v", err)
	}
	if tr.Len() != 4 {
		t.Errorf("tree mutated by not-found edits: %d nodes", tr.Len())
	}
}
