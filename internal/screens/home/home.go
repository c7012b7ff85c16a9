// Package home shows the library of decision trees and opens a
// consultation on the selected one.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orthodx/arbor/internal/catalog"
	"github.com/orthodx/arbor/internal/decisiontree"
	"github.com/orthodx/arbor/internal/router"
	"github.com/orthodx/arbor/internal/screen"
	"github.com/orthodx/arbor/internal/screens/intake"
	"github.com/orthodx/arbor/internal/store"
	"github.com/orthodx/arbor/internal/ui/components"
	"github.com/orthodx/arbor/internal/ui/layout"
	"github.com/orthodx/arbor/internal/ui/theme"
)

// treeOpenedMsg carries a freshly built tree, or the load failure.
type treeOpenedMsg struct {
	Tree *decisiontree.Tree
	Err  error
}

// HomeScreen lists the stored trees.
type HomeScreen struct {
	trees store.TreeRepo
	tests catalog.Catalog

	menu    components.Menu
	records []decisiontree.TreeRecord
	loadErr error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen and loads the tree list.
func New(trees store.TreeRepo, tests catalog.Catalog) *HomeScreen {
	h := &HomeScreen{trees: trees, tests: tests}
	h.reload()
	return h
}

// reload refreshes the tree list from the store.
func (h *HomeScreen) reload() {
	h.records = nil
	h.loadErr = nil

	if h.trees != nil {
		recs, err := h.trees.List(context.Background())
		if err != nil {
			h.loadErr = err
		} else {
			h.records = recs
		}
	}

	items := make([]components.MenuItem, 0, len(h.records)+1)
	for _, rec := range h.records {
		rec := rec
		detail := rec.Description
		if rec.Category != "" {
			detail = fmt.Sprintf("[%s] %s", rec.Category, rec.Description)
		}
		items = append(items, components.MenuItem{
			Label:  rec.Name,
			Detail: strings.TrimSpace(detail),
			Action: func() tea.Cmd { return h.openTree(rec.ID) },
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quitter",
		Action: func() tea.Cmd { return tea.Quit },
	})

	h.menu = components.NewMenu(items)
}

// openTree loads and builds a tree off the UI loop.
func (h *HomeScreen) openTree(treeID string) tea.Cmd {
	return func() tea.Msg {
		rec, rows, err := h.trees.Load(context.Background(), treeID)
		if err != nil {
			return treeOpenedMsg{Err: fmt.Errorf("charger l'arbre: %w", err)}
		}
		tr, err := decisiontree.Build(rec, rows)
		if err != nil {
			return treeOpenedMsg{Err: fmt.Errorf("arbre invalide: %w", err)}
		}
		return treeOpenedMsg{Tree: tr}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case treeOpenedMsg:
		if msg.Err != nil {
			h.loadErr = msg.Err
			return h, nil
		}
		return h, func() tea.Msg {
			return router.PushScreenMsg{Screen: intake.New(msg.Tree, h.tests)}
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			h.reload()
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("Arbres décisionnels"))
	sections = append(sections, theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d arbre(s) disponible(s)", len(h.records))))

	if h.loadErr != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Width(width).
			Align(lipgloss.Center).
			Render(h.loadErr.Error()))
	}

	if len(h.records) == 0 && h.loadErr == nil {
		sections = append(sections, theme.Hint.Width(width).Align(lipgloss.Center).Render(
			"Aucun arbre enregistré. Lancez `arbor seed` pour installer les arbres d'exemple."))
	}

	menu := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(h.menu.View())
	sections = append(sections, menu)

	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Bibliothèque"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Naviguer"},
		{Key: "Entrée", Description: "Ouvrir"},
		{Key: "r", Description: "Rafraîchir"},
		{Key: "Ctrl+C", Description: "Quitter"},
	}
}
