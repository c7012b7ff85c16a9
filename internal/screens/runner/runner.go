// Package runner drives a consultation: it walks the decision tree step
// by step, shows catalog details at test nodes and hands over to the
// summary once a diagnosis is reached.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/router"
	"github.com/orthodx/arbor/internal/screen"
	"github.com/orthodx/arbor/internal/screens/summary"
	"github.com/orthodx/arbor/internal/traversal"
	"github.com/orthodx/arbor/internal/ui/components"
	"github.com/orthodx/arbor/internal/ui/layout"
	"github.com/orthodx/arbor/internal/ui/theme"
)

// RunnerScreen hosts one traversal engine.
type RunnerScreen struct {
	tree   *decisiontree.Tree
	engine *traversal.Engine

	answers components.AnswerList
	test    *catalog.Test

	notes        components.TextInput
	editingNotes bool

	flash string
}

var _ screen.Screen = (*RunnerScreen)(nil)
var _ screen.KeyHintProvider = (*RunnerScreen)(nil)
var _ screen.HeaderInfoProvider = (*RunnerScreen)(nil)

// New creates a runner over an engine positioned anywhere in the tree.
func New(tree *decisiontree.Tree, engine *traversal.Engine) *RunnerScreen {
	r := &RunnerScreen{
		tree:   tree,
		engine: engine,
		notes:  components.NewTextInput("Notes de consultation", false, 200),
	}
	r.syncNode()
	return r
}

func (r *RunnerScreen) Init() tea.Cmd {
	return r.resolveTest()
}

// syncNode rebuilds the answer selector for the current node.
func (r *RunnerScreen) syncNode() {
	cur := r.engine.Current()
	r.test = nil

	opts := make([]components.AnswerOption, 0, len(cur.Answers))
	for _, a := range cur.Answers {
		opts = append(opts, components.AnswerOption{
			ID:       a.ID,
			Label:    a.Label,
			Dangling: a.Target == nil,
		})
	}
	r.answers = components.NewAnswerList(cur.Content, opts)
}

// resolveTest looks up the current test node's catalog record.
func (r *RunnerScreen) resolveTest() tea.Cmd {
	cur := r.engine.Current()
	if cur.Kind != decisiontree.KindTest || cur.TestID == "" {
		return nil
	}
	nodeID := cur.ID
	return func() tea.Msg {
		t, err := r.engine.CurrentTest(context.Background())
		return testResolvedMsg{NodeID: nodeID, Test: t, Err: err}
	}
}

func (r *RunnerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case testResolvedMsg:
		if msg.NodeID != r.engine.Current().ID {
			return r, nil
		}
		if msg.Err != nil {
			r.flash = "Fiche du test indisponible : " + msg.Err.Error()
			return r, nil
		}
		r.test = msg.Test
		return r, nil

	case tea.KeyMsg:
		if r.editingNotes {
			return r.updateNotes(msg)
		}
		return r.handleKey(msg)
	}

	return r, nil
}

func (r *RunnerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	r.flash = ""

	switch msg.String() {
	case "enter":
		if r.engine.Done() {
			return r, r.finish()
		}
		chosen, ok := r.answers.Chosen()
		if !ok {
			return r, nil
		}
		if err := r.engine.Answer(chosen.ID); err != nil {
			switch {
			case errors.Is(err, traversal.ErrDanglingEdge):
				r.flash = "Cette branche n'a pas encore de suite."
			default:
				r.flash = err.Error()
			}
			return r, nil
		}
		r.syncNode()
		return r, r.resolveTest()

	case "backspace", "b":
		if err := r.engine.GoBack(); err != nil {
			r.flash = "Déjà au point de départ."
			return r, nil
		}
		r.syncNode()
		return r, r.resolveTest()

	case "ctrl+r":
		r.engine.Restart()
		r.syncNode()
		return r, r.resolveTest()

	case "n":
		r.editingNotes = true
		r.notes.Model.SetValue(r.engine.Session().Notes)
		return r, r.notes.Focus()
	}

	var cmd tea.Cmd
	r.answers, cmd = r.answers.Update(msg)
	return r, cmd
}

func (r *RunnerScreen) updateNotes(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		r.engine.SetNotes(strings.TrimSpace(r.notes.Value()))
		r.editingNotes = false
		r.notes.Blur()
		return r, nil
	case "esc":
		r.editingNotes = false
		r.notes.Blur()
		return r, nil
	}

	var cmd tea.Cmd
	r.notes, cmd = r.notes.Update(msg)
	return r, cmd
}

// finish swaps the runner for the summary.
func (r *RunnerScreen) finish() tea.Cmd {
	sess := r.engine.Session()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(r.tree.Name, sess)}
	}
}

func (r *RunnerScreen) View(width, height int) string {
	cur := r.engine.Current()
	cw := min(width-4, 80)

	var sections []string

	badge := theme.Subtitle.Render(r.engine.State().DisplayName())
	sections = append(sections, badge)

	if r.engine.Done() {
		sections = append(sections, r.renderDiagnosis(cur, cw))
	} else {
		if r.test != nil {
			sections = append(sections, renderTestCard(r.test, cw))
		}
		sections = append(sections, r.answers.View())
	}

	if notes := r.engine.Session().Notes; notes != "" && !r.editingNotes {
		sections = append(sections, theme.Hint.Render("Notes : "+notes))
	}
	if r.editingNotes {
		sections = append(sections, theme.Body.Render("Notes")+"\n"+r.notes.View())
	}
	if r.flash != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Warning).Render(r.flash))
	}

	card := theme.Card.Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

// renderDiagnosis shows the terminal node with its severity and advice.
func (r *RunnerScreen) renderDiagnosis(cur *decisiontree.Node, width int) string {
	var b strings.Builder

	kind := ""
	if cur.Diagnosis != nil {
		kind = string(cur.Diagnosis.Kind)
	}
	b.WriteString(theme.SeverityStyle(kind).Render(cur.Content))

	if d := cur.Diagnosis; d != nil {
		if d.Urgency != "" {
			b.WriteString("\n" + theme.Body.Render("Urgence : "+string(d.Urgency)))
		}
		if d.Recommendations != "" {
			b.WriteString("\n" + theme.Body.Render("Conduite à tenir : "+d.Recommendations))
		}
		if d.Referral != "" {
			b.WriteString("\n" + theme.Body.Render("Orientation : "+d.Referral))
		}
	}

	b.WriteString("\n\n" + theme.Hint.Render("Entrée pour le rapport de consultation"))
	return b.String()
}

// renderTestCard shows the catalog record of the current test.
func renderTestCard(t *catalog.Test, width int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render(t.Name) + "\n")
	if t.Description != "" {
		b.WriteString(theme.Body.Render(t.Description) + "\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"Sensibilité %.0f%% · Spécificité %.0f%%", t.Sensitivity*100, t.Specificity*100)))
	if t.VideoURL != "" {
		b.WriteString("\n" + theme.Hint.Render("Démonstration : "+t.VideoURL))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Secondary).
		PaddingLeft(1).
		Width(width - 4).
		Render(b.String())
}

// ConsumesEsc keeps Esc local while the note editor is open.
func (r *RunnerScreen) ConsumesEsc() bool {
	return r.editingNotes
}

func (r *RunnerScreen) Title() string {
	return r.tree.Name
}

func (r *RunnerScreen) HeaderInfo() string {
	sess := r.engine.Session()
	name := sess.Patient.Name
	if name == "" {
		name = "Patient"
	}
	return fmt.Sprintf("%s · étape %d", name, sess.Depth())
}

func (r *RunnerScreen) KeyHints() []layout.KeyHint {
	if r.editingNotes {
		return []layout.KeyHint{
			{Key: "Entrée", Description: "Enregistrer la note"},
			{Key: "Esc", Description: "Annuler"},
		}
	}
	if r.engine.Done() {
		return []layout.KeyHint{
			{Key: "Entrée", Description: "Rapport"},
			{Key: "b", Description: "Revenir"},
			{Key: "Ctrl+R", Description: "Recommencer"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choisir"},
		{Key: "Entrée", Description: "Répondre"},
		{Key: "b", Description: "Revenir"},
		{Key: "n", Description: "Notes"},
		{Key: "Ctrl+R", Description: "Recommencer"},
	}
}
