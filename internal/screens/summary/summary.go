// Package summary renders the end-of-consultation report and exports it
// as JSON.
package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/report"
	"github.com/orthodx/arbor/internal/screen"
	"github.com/orthodx/arbor/internal/traversal"
	"github.com/orthodx/arbor/internal/ui/layout"
	"github.com/orthodx/arbor/internal/ui/theme"
)

// exportedMsg reports the outcome of a JSON export.
type exportedMsg struct {
	Path string
	Err  error
}

// SummaryScreen shows the session report.
type SummaryScreen struct {
	treeName string
	session  *traversal.Session
	rep      *report.Report

	status string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New builds the report for a finished (or abandoned) session.
func New(treeName string, sess *traversal.Session) *SummaryScreen {
	return &SummaryScreen{
		treeName: treeName,
		session:  sess,
		rep:      report.Build(sess),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		if msg.Err != nil {
			s.status = "Export impossible : " + msg.Err.Error()
		} else {
			s.status = "Rapport exporté : " + msg.Path
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "e" {
			return s, s.export()
		}
	}
	return s, nil
}

// export writes the report to the working directory.
func (s *SummaryScreen) export() tea.Cmd {
	rep := s.rep
	id := s.session.ID
	return func() tea.Msg {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return exportedMsg{Err: err}
		}
		path := fmt.Sprintf("arbor-rapport-%s.json", shortID(id))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportedMsg{Err: err}
		}
		return exportedMsg{Path: path}
	}
}

// shortID keeps file names readable.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *SummaryScreen) View(width, height int) string {
	cw := min(width-4, 80)
	var b strings.Builder

	b.WriteString(theme.Title.Render("Rapport de consultation") + "\n")
	b.WriteString(theme.Subtitle.Render(s.treeName) + "\n\n")

	if s.rep.PatientName != "" || s.rep.PatientAge != "" {
		patient := s.rep.PatientName
		if s.rep.PatientAge != "" {
			patient = fmt.Sprintf("%s, %s ans", patient, s.rep.PatientAge)
		}
		b.WriteString(theme.Body.Render("Patient : "+strings.TrimPrefix(patient, ", ")) + "\n")
	}
	if s.rep.Complaint != "" {
		b.WriteString(theme.Body.Render("Motif : "+s.rep.Complaint) + "\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"Durée %ds · %d test(s) réalisé(s) · %d étape(s)",
		s.rep.DurationSeconds, s.rep.TestsCompletedCount, len(s.rep.Steps))) + "\n\n")

	b.WriteString(theme.Selected.Render("Parcours") + "\n")
	if len(s.rep.Steps) == 0 {
		b.WriteString(theme.Hint.Render("Aucune étape enregistrée.") + "\n")
	}
	for i, step := range s.rep.Steps {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d. %s", i+1, step.Content)) + "\n")
		b.WriteString(theme.Hint.Render("   → "+step.AnswerLabel) + "\n")
	}

	if fd := s.rep.FinalDiagnosis; fd != nil {
		b.WriteString("\n" + theme.Selected.Render("Conclusion") + "\n")
		b.WriteString(theme.SeverityStyle(string(fd.Kind)).Render(fd.Content) + "\n")
		if fd.Urgency != "" {
			b.WriteString(theme.Body.Render("Urgence : "+string(fd.Urgency)) + "\n")
		}
		if fd.Recommendations != "" {
			b.WriteString(theme.Body.Render("Conduite à tenir : "+fd.Recommendations) + "\n")
		}
		if fd.Referral != "" {
			b.WriteString(theme.Body.Render("Orientation : "+fd.Referral) + "\n")
		}
	} else {
		b.WriteString("\n" + theme.Hint.Render("Consultation interrompue avant le diagnostic.") + "\n")
	}

	if s.rep.Notes != "" {
		b.WriteString("\n" + theme.Body.Render("Notes : "+s.rep.Notes) + "\n")
	}
	if s.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render(s.status))
	}

	card := theme.Card.Width(cw).Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func (s *SummaryScreen) Title() string {
	return "Rapport"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "e", Description: "Exporter en JSON"},
		{Key: "Esc", Description: "Bibliothèque"},
	}
}
