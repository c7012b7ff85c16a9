package traversal

import (
	"context"
	"errors"
	"testing"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
)

// newCervicalTree builds the canonical test tree:
//
//	Question "Douleur cervicale ?"
//	├─ Oui → Test "Spurling" (test-spurling)
//	│        ├─ Positif → Diagnosis "Radiculopathie cervicale"
//	│        └─ Négatif → (dangling)
//	└─ Non → Diagnosis "Non pertinent"
func newCervicalTree(t *testing.T) *decisiontree.Tree {
	t.Helper()
	rows := []decisiontree.NodeRow{
		{
			ID:          "n-root",
			TreeID:      "t1",
			Kind:        decisiontree.KindQuestion,
			Content:     "Douleur cervicale ?",
			AnswersJSON: `[{"id":"a-oui","label":"Oui"},{"id":"a-non","label":"Non"}]`,
		},
		{
			ID:             "n-spurling",
			TreeID:         "t1",
			ParentID:       "n-root",
			ParentAnswerID: "a-oui",
			Kind:           decisiontree.KindTest,
			Content:        "Spurling",
			TestID:         "test-spurling",
			AnswersJSON:    `[{"id":"a-pos","label":"Positif"},{"id":"a-neg","label":"Négatif"}]`,
		},
		{
			ID:             "n-radic",
			TreeID:         "t1",
			ParentID:       "n-spurling",
			ParentAnswerID: "a-pos",
			Kind:           decisiontree.KindDiagnosis,
			Content:        `{"label":"Radiculopathie cervicale","kind":"caution","urgency":"urgent"}`,
			AnswersJSON:    `[]`,
		},
		{
			ID:             "n-nonpert",
			TreeID:         "t1",
			ParentID:       "n-root",
			ParentAnswerID: "a-non",
			Kind:           decisiontree.KindDiagnosis,
			Content:        `{"label":"Non pertinent","kind":"normal","urgency":"routine"}`,
			OrderIndex:     1,
			AnswersJSON:    `[]`,
		},
	}
	tr, err := decisiontree.Build(decisiontree.TreeRecord{ID: "t1", Name: "Cervicalgie"}, rows)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return tr
}

func TestFullTraversal(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, catalog.Seed())

	if e.State() != AtQuestion {
		t.Fatalf("initial state = %v, want AtQuestion", e.State())
	}

	if err := e.Answer("a-oui"); err != nil {
		t.Fatalf("answer Oui: %v", err)
	}
	if e.State() != AtTest || e.Current().ID != "n-spurling" {
		t.Fatalf("after Oui: state=%v node=%s", e.State(), e.Current().ID)
	}

	if err := e.Answer("a-pos"); err != nil {
		t.Fatalf("answer Positif: %v", err)
	}
	if e.State() != AtDiagnosis || !e.Done() {
		t.Fatalf("after Positif: state=%v", e.State())
	}

	s := e.Session()
	if len(s.History) != 2 {
		t.Errorf("history length = %d, want 2", len(s.History))
	}
	if !s.CompletedTests["test-spurling"] {
		t.Error("spurling not marked completed")
	}
}

func TestAnswerNotOnCurrentNode(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	// a-pos belongs to the Spurling node, not the root.
	err := e.Answer("a-pos")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if e.Current().ID != "n-root" || len(e.Session().History) != 0 {
		t.Error("session mutated by rejected answer")
	}
}

func TestAnswerAtDiagnosisRejected(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	mustAnswer(t, e, "a-non")
	err := e.Answer("a-non")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestDanglingEdgeIsNoOp(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	mustAnswer(t, e, "a-oui")
	err := e.Answer("a-neg")
	if !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("err = %v, want ErrDanglingEdge", err)
	}
	// Full no-op: no history entry, no completed test, no move.
	if e.Current().ID != "n-spurling" {
		t.Errorf("current = %s, want n-spurling", e.Current().ID)
	}
	if len(e.Session().History) != 1 {
		t.Errorf("history length = %d, want 1", len(e.Session().History))
	}
	if e.Session().CompletedTests["test-spurling"] {
		t.Error("dead click marked the test completed")
	}
}

func TestGoBackRestoresPriorNode(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	mustAnswer(t, e, "a-oui")
	mustAnswer(t, e, "a-pos")

	if err := e.GoBack(); err != nil {
		t.Fatalf("go back: %v", err)
	}
	// Depth ≥ 2: back lands on the node reached by the first answer.
	if e.Current().ID != "n-spurling" {
		t.Errorf("current = %s, want n-spurling", e.Current().ID)
	}
	if len(e.Session().History) != 1 {
		t.Errorf("history length = %d, want 1", len(e.Session().History))
	}
}

func TestGoBackAtDepthOneResetsToRoot(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	mustAnswer(t, e, "a-oui")
	if err := e.GoBack(); err != nil {
		t.Fatalf("go back: %v", err)
	}
	if e.Current() != tr.Root {
		t.Errorf("current = %s, want root", e.Current().ID)
	}
	if len(e.Session().History) != 0 {
		t.Errorf("history length = %d, want 0", len(e.Session().History))
	}
}

func TestGoBackEmptyHistory(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	if err := e.GoBack(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
}

func TestGoBackKeepsCompletedTests(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)

	mustAnswer(t, e, "a-oui")
	mustAnswer(t, e, "a-pos")
	if err := e.GoBack(); err != nil {
		t.Fatalf("go back: %v", err)
	}
	// Completed tests only grow during a session; undo does not unperform
	// a physical exam.
	if !e.Session().CompletedTests["test-spurling"] {
		t.Error("completed test lost on go back")
	}
}

func TestRestartIdempotent(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, nil)
	e.SetPatient(PatientInfo{Name: "M. Dupont", Age: "54", Complaint: "cervicalgie"})
	e.SetNotes("irradiation C6")

	mustAnswer(t, e, "a-oui")
	mustAnswer(t, e, "a-pos")

	for i := 0; i < 2; i++ {
		e.Restart()
		s := e.Session()
		if len(s.History) != 0 {
			t.Errorf("restart %d: history = %d entries", i, len(s.History))
		}
		if s.Current != tr.Root {
			t.Errorf("restart %d: current = %s", i, s.Current.ID)
		}
		if len(s.CompletedTests) != 0 {
			t.Errorf("restart %d: completed tests = %v", i, s.CompletedTests)
		}
		if s.Notes != "" || s.Patient != (PatientInfo{}) {
			t.Errorf("restart %d: notes/patient not cleared", i)
		}
	}
}

func TestCurrentTestResolution(t *testing.T) {
	tr := newCervicalTree(t)
	e := New(tr, catalog.Seed())
	ctx := context.Background()

	// Not at a test node yet.
	rec, err := e.CurrentTest(ctx)
	if err != nil || rec != nil {
		t.Fatalf("at question: rec=%v err=%v", rec, err)
	}

	mustAnswer(t, e, "a-oui")
	rec, err = e.CurrentTest(ctx)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec == nil || rec.Name != "Test de Spurling" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestCurrentTestUnknownIDPropagates(t *testing.T) {
	tr := newCervicalTree(t)
	if err := tr.UpdateNode("n-spurling", decisiontree.NodePatch{TestID: strPtr("test-fantome")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	e := New(tr, catalog.Seed())
	mustAnswer(t, e, "a-oui")

	_, err := e.CurrentTest(context.Background())
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
	// The failed lookup must not disturb the traversal.
	if e.Current().ID != "n-spurling" || len(e.Session().History) != 1 {
		t.Error("session mutated by failed catalog lookup")
	}
}

func mustAnswer(t *testing.T, e *Engine, answerID string) {
	t.Helper()
	if err := e.Answer(answerID); err != nil {
		t.Fatalf("answer %s: %v", answerID, err)
	}
}

func strPtr(s string) *string { return &s }
