package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/ui/theme"
)

// AnswerOption is one selectable branch of the current node.
type AnswerOption struct {
	ID    string
	Label string
	// Dangling marks options whose branch has no node attached yet.
	Dangling bool
}

// AnswerList is the answer selector shown under a question or test.
type AnswerList struct {
	Prompt   string
	Options  []AnswerOption
	Selected int
}

// NewAnswerList creates an answer selector.
func NewAnswerList(prompt string, options []AnswerOption) AnswerList {
	return AnswerList{
		Prompt:  prompt,
		Options: options,
	}
}

// Init returns nil.
func (a AnswerList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Enter emits nothing here; the
// hosting screen reads Chosen on the enter key itself.
func (a AnswerList) Update(msg tea.Msg) (AnswerList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if a.Selected > 0 {
			a.Selected--
		}
	case "down", "j":
		if a.Selected < len(a.Options)-1 {
			a.Selected++
		}
	}

	return a, nil
}

// Chosen returns the currently highlighted option.
func (a AnswerList) Chosen() (AnswerOption, bool) {
	if a.Selected < 0 || a.Selected >= len(a.Options) {
		return AnswerOption{}, false
	}
	return a.Options[a.Selected], true
}

// View renders the prompt and its options.
func (a AnswerList) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := promptStyle.Render(a.Prompt) + "\n\n"

	for i, opt := range a.Options {
		label := opt.Label
		if opt.Dangling {
			label += " (branche vide)"
		}

		prefix := "  "
		if i == a.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s", prefix, label)

		switch {
		case opt.Dangling:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == a.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
