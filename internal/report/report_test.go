package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/traversal"
)

func newEngine(t *testing.T) *traversal.Engine {
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
			AnswersJSON:    `[{"id":"a-pos","label":"Positif"}]`,
		},
		{
			ID:             "n-radic",
			TreeID:         "t1",
			ParentID:       "n-spurling",
			ParentAnswerID: "a-pos",
			Kind:           decisiontree.KindDiagnosis,
			Content:        `{"label":"Radiculopathie cervicale","kind":"caution","urgency":"urgent","recommendations":"IRM cervicale","referral":"Neurologie"}`,
			AnswersJSON:    `[]`,
		},
		{
			ID:             "n-nonpert",
			TreeID:         "t1",
			ParentID:       "n-root",
			ParentAnswerID: "a-non",
			Kind:           decisiontree.KindDiagnosis,
			Content:        `{"label":"Non pertinent"}`,
			OrderIndex:     1,
			AnswersJSON:    `[]`,
		},
	}
	tr, err := decisiontree.Build(decisiontree.TreeRecord{ID: "t1", Name: "Cervicalgie"}, rows)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return traversal.New(tr, catalog.Seed())
}

func TestCompleteReport(t *testing.T) {
	e := newEngine(t)
	e.SetPatient(traversal.PatientInfo{Name: "M. Dupont", Age: "54", Complaint: "cervicalgie"})
	e.SetNotes("irradiation C6, pas de trouble moteur")

	for _, a := range []string{"a-oui", "a-pos"} {
		if err := e.Answer(a); err != nil {
			t.Fatalf("answer %s: %v", a, err)
		}
	}

	s := e.Session()
	orig := now
	now = func() time.Time { return s.StartedAt.Add(95 * time.Second) }
	defer func() { now = orig }()

	r := Build(s)

	if r.DurationSeconds != 95 {
		t.Errorf("duration = %d, want 95", r.DurationSeconds)
	}
	if r.TestsCompletedCount != 1 {
		t.Errorf("tests completed = %d, want 1", r.TestsCompletedCount)
	}
	if len(r.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(r.Steps))
	}
	if r.Steps[0].Content != "Douleur cervicale ?" || r.Steps[0].AnswerLabel != "Oui" {
		t.Errorf("step 0 = %+v", r.Steps[0])
	}
	if r.Steps[1].Content != "Spurling" || r.Steps[1].AnswerLabel != "Positif" {
		t.Errorf("step 1 = %+v", r.Steps[1])
	}
	if r.FinalDiagnosis == nil {
		t.Fatal("final diagnosis missing")
	}
	if r.FinalDiagnosis.Content != "Radiculopathie cervicale" {
		t.Errorf("diagnosis content = %q", r.FinalDiagnosis.Content)
	}
	if r.FinalDiagnosis.Urgency != decisiontree.UrgencyUrgent || r.FinalDiagnosis.Referral != "Neurologie" {
		t.Errorf("diagnosis metadata = %+v", r.FinalDiagnosis)
	}
	if r.Notes == "" || r.PatientName != "M. Dupont" {
		t.Errorf("patient fields = %+v", r)
	}
}

func TestPartialReportMidTraversal(t *testing.T) {
	e := newEngine(t)
	if err := e.Answer("a-oui"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	r := Build(e.Session())

	if r.FinalDiagnosis != nil {
		t.Errorf("partial report has a final diagnosis: %+v", r.FinalDiagnosis)
	}
	if len(r.Steps) != 1 {
		t.Errorf("steps = %d, want 1", len(r.Steps))
	}
	if r.DurationSeconds < 0 {
		t.Errorf("duration = %d", r.DurationSeconds)
	}
}

func TestBuildDoesNotMutateSession(t *testing.T) {
	e := newEngine(t)
	if err := e.Answer("a-non"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	s := e.Session()

	before := len(s.History)
	_ = Build(s)
	_ = Build(s)
	if len(s.History) != before || s.Current.ID != "n-nonpert" {
		t.Error("report building mutated the session")
	}
}

func TestReportSerializesCleanly(t *testing.T) {
	e := newEngine(t)
	if err := e.Answer("a-non"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	b, err := json.Marshal(Build(e.Session()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(b, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := round["finalDiagnosis"]; !ok {
		t.Error("finalDiagnosis missing from JSON")
	}
	if _, ok := round["steps"]; !ok {
		t.Error("steps missing from JSON")
	}
}
