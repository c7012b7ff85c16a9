// Package intake collects the patient fields before a consultation
// starts. Every field is optional free text; age only accepts digits.
package intake

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/router"
	"github.com/orthodx/arbor/internal/screen"
	"github.com/orthodx/arbor/internal/screens/runner"
	"github.com/orthodx/arbor/internal/traversal"
	"github.com/orthodx/arbor/internal/ui/components"
	"github.com/orthodx/arbor/internal/ui/layout"
	"github.com/orthodx/arbor/internal/ui/theme"
)

const (
	fieldName = iota
	fieldAge
	fieldComplaint
	fieldCount
)

// IntakeScreen is the patient form shown before the traversal.
type IntakeScreen struct {
	tree  *decisiontree.Tree
	tests catalog.Catalog

	inputs  [fieldCount]components.TextInput
	focused int
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)

// New creates the intake form for the given tree.
func New(tree *decisiontree.Tree, tests catalog.Catalog) *IntakeScreen {
	s := &IntakeScreen{tree: tree, tests: tests}
	s.inputs[fieldName] = components.NewTextInput("Nom du patient", false, 60)
	s.inputs[fieldAge] = components.NewTextInput("Âge", true, 3)
	s.inputs[fieldComplaint] = components.NewTextInput("Motif de consultation", false, 120)
	return s
}

func (s *IntakeScreen) Init() tea.Cmd {
	return s.inputs[s.focused].Focus()
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.focus((s.focused + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.focus((s.focused + fieldCount - 1) % fieldCount)
		case "enter":
			if s.focused < fieldCount-1 {
				return s, s.focus(s.focused + 1)
			}
			return s, s.start()
		case "ctrl+s":
			// Start immediately, fields filled or not.
			return s, s.start()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focused], cmd = s.inputs[s.focused].Update(msg)
	return s, cmd
}

// focus moves the cursor to another field.
func (s *IntakeScreen) focus(i int) tea.Cmd {
	s.inputs[s.focused].Blur()
	s.focused = i
	return s.inputs[s.focused].Focus()
}

// start builds the engine and replaces this form with the runner, so Esc
// from the consultation returns to the library rather than the form.
func (s *IntakeScreen) start() tea.Cmd {
	engine := traversal.New(s.tree, s.tests)
	engine.SetPatient(traversal.PatientInfo{
		Name:      strings.TrimSpace(s.inputs[fieldName].Value()),
		Age:       strings.TrimSpace(s.inputs[fieldAge].Value()),
		Complaint: strings.TrimSpace(s.inputs[fieldComplaint].Value()),
	})
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: runner.New(s.tree, engine)}
	}
}

func (s *IntakeScreen) View(width, height int) string {
	labels := [fieldCount]string{"Patient", "Âge", "Motif"}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.tree.Name) + "\n\n")

	for i := range s.inputs {
		label := labels[i]
		style := theme.Body
		if i == s.focused {
			style = theme.Selected
		}
		b.WriteString(style.Render(label) + "\n")
		b.WriteString(s.inputs[i].View() + "\n\n")
	}

	b.WriteString(theme.Hint.Render("Champs facultatifs. Entrée sur le dernier champ démarre la consultation."))

	card := theme.Card.Width(min(width-4, 70)).Render(b.String())
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}

func (s *IntakeScreen) Title() string {
	return "Nouvelle consultation"
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Champ suivant"},
		{Key: "Entrée", Description: "Valider"},
		{Key: "Ctrl+S", Description: "Démarrer"},
		{Key: "Esc", Description: "Retour"},
	}
}
