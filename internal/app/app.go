// Package app hosts the root Bubble Tea model: window sizing, global
// keys and the screen router.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/router"
	"github.com/orthodx/arbor/internal/screen"
	"github.com/orthodx/arbor/internal/screens/home"
	"github.com/orthodx/arbor/internal/store"
	"github.com/orthodx/arbor/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the tree library as its base
// screen.
func newAppModel(trees store.TreeRepo, tests catalog.Catalog) AppModel {
	return AppModel{
		router: router.New(home.New(trees, tests)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				// Screens that consume Esc themselves (note editing)
				// get the message first.
				if eater, ok := m.router.Active().(escConsumer); ok && eater.ConsumesEsc() {
					break
				}
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// escConsumer lets a screen keep the Esc key for its own use.
type escConsumer interface {
	ConsumesEsc() bool
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	right := ""
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.HeaderInfoProvider); ok {
			right = p.HeaderInfo()
		}
	}

	header := layout.RenderHeader(title, right, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Retour"},
			{Key: "Ctrl+C", Description: "Quitter"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Naviguer"},
			{Key: "Entrée", Description: "Sélectionner"},
			{Key: "Ctrl+C", Description: "Quitter"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(trees store.TreeRepo, tests catalog.Catalog) error {
	p := tea.NewProgram(newAppModel(trees, tests))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
