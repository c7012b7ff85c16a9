// Package report turns a traversal session into an exportable summary.
// Building a report is pure: it reads the session and never mutates it, so
// it is safe to call mid-traversal for a partial report or at a terminal
// diagnosis for the complete one. Downstream rendering (PDF, HTML) is a
// plain serialization of the Report struct.
package report

import (
	"time"

	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/traversal"
)

// now is stubbed in tests.
var now = time.Now

// Step is one advancing move of the traversal: the question or test content
// shown and the answer the practitioner took.
type Step struct {
	Content     string `json:"content"`
	AnswerLabel string `json:"answer"`
}

// FinalDiagnosis is the terminal node's content and metadata, present only
// when the traversal reached a diagnosis.
type FinalDiagnosis struct {
	Content         string                     `json:"content"`
	Kind            decisiontree.DiagnosisKind `json:"kind,omitempty"`
	Urgency         decisiontree.Urgency       `json:"urgency,omitempty"`
	Recommendations string                     `json:"recommendations,omitempty"`
	Referral        string                     `json:"referral,omitempty"`
}

// Report is the exportable session summary.
type Report struct {
	PatientName         string          `json:"patientName,omitempty"`
	PatientAge          string          `json:"patientAge,omitempty"`
	Complaint           string          `json:"complaint,omitempty"`
	StartedAt           time.Time       `json:"startedAt"`
	DurationSeconds     int             `json:"durationSeconds"`
	TestsCompletedCount int             `json:"testsCompletedCount"`
	Steps               []Step          `json:"steps"`
	Notes               string          `json:"notes,omitempty"`
	FinalDiagnosis      *FinalDiagnosis `json:"finalDiagnosis,omitempty"`
}

// Build creates a report from the session's current state.
func Build(s *traversal.Session) *Report {
	r := &Report{
		PatientName:         s.Patient.Name,
		PatientAge:          s.Patient.Age,
		Complaint:           s.Patient.Complaint,
		StartedAt:           s.StartedAt,
		DurationSeconds:     int(now().Sub(s.StartedAt).Seconds()),
		TestsCompletedCount: len(s.CompletedTests),
		Steps:               make([]Step, 0, len(s.History)),
		Notes:               s.Notes,
	}

	for _, h := range s.History {
		r.Steps = append(r.Steps, Step{
			Content:     h.Node.Content,
			AnswerLabel: h.AnswerTaken.Label,
		})
	}

	if cur := s.Current; cur != nil && cur.IsTerminal() {
		fd := &FinalDiagnosis{Content: cur.Content}
		if cur.Diagnosis != nil {
			fd.Kind = cur.Diagnosis.Kind
			fd.Urgency = cur.Diagnosis.Urgency
			fd.Recommendations = cur.Diagnosis.Recommendations
			fd.Referral = cur.Diagnosis.Referral
		}
		r.FinalDiagnosis = fd
	}

	return r
}
