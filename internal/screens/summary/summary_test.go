package summary

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/report"
	"github.com/orthodx/arbor/internal/traversal"
)

func finishedSession(t *testing.T) *traversal.Session {
	t.Helper()
	rec := decisiontree.TreeRecord{ID: "t1", Name: "Cervicalgie"}
	rows := []decisiontree.NodeRow{
		{
			ID: "n-root", TreeID: "t1", Kind: decisiontree.KindQuestion,
			Content:     "Douleur cervicale ?",
			AnswersJSON: `[{"id":"a-oui","label":"Oui"}]`,
		},
		{
			ID: "n-radic", TreeID: "t1", ParentID: "n-root", ParentAnswerID: "a-oui",
			Kind:    decisiontree.KindDiagnosis,
			Content: `{"label":"Radiculopathie cervicale","kind":"caution","urgency":"urgent","referral":"Neurologie"}`,
		},
	}
	tr, err := decisiontree.Build(rec, rows)
	if err != nil {
		t.Fatalf("build fixture tree: %v", err)
	}

	engine := traversal.New(tr, nil)
	engine.SetPatient(traversal.PatientInfo{Name: "M. Martin", Age: "54", Complaint: "Cervicalgie droite"})
	if err := engine.Answer("a-oui"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	engine.SetNotes("Amélioration en décubitus")
	return engine.Session()
}

func TestSummaryViewShowsReport(t *testing.T) {
	s := New("Cervicalgie", finishedSession(t))

	view := s.View(100, 40)
	for _, want := range []string{
		"Rapport de consultation",
		"M. Martin",
		"Radiculopathie cervicale",
		"Neurologie",
		"Amélioration en décubitus",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestSummaryWithoutDiagnosisShowsInterrupted(t *testing.T) {
	sess := finishedSession(t)
	sess.Current = sess.History[0].Node // still on the question
	sess.History = nil

	s := New("Cervicalgie", sess)
	view := s.View(100, 40)
	if !strings.Contains(view, "interrompue") {
		t.Error("expected the interrupted notice for a partial session")
	}
}

func TestExportWritesReportFile(t *testing.T) {
	t.Chdir(t.TempDir())

	s := New("Cervicalgie", finishedSession(t))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if cmd == nil {
		t.Fatal("expected an export command")
	}

	msg, ok := cmd().(exportedMsg)
	if !ok {
		t.Fatalf("expected exportedMsg, got %T", cmd())
	}
	if msg.Err != nil {
		t.Fatalf("export failed: %v", msg.Err)
	}

	data, err := os.ReadFile(msg.Path)
	if err != nil {
		t.Fatalf("read exported report: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("exported report is not valid JSON: %v", err)
	}
	if rep.FinalDiagnosis == nil || rep.FinalDiagnosis.Content != "Radiculopathie cervicale" {
		t.Error("exported report lost the final diagnosis")
	}

	s.Update(msg)
	if !strings.Contains(s.View(100, 40), msg.Path) {
		t.Error("expected the export path in the status line")
	}
}
