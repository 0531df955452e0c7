// Package explore is an interactive terminal browser over a built
// hierarchy: one row per phonon manifold, with the manifold's equations
// shown in a scrollable panel.
package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/ggce/internal/hierarchy"
)

const (
	listWidth     = 26
	defaultWidth  = 100
	defaultHeight = 30
	chromeHeight  = 5 // status bar, footer and panel borders
)

// Model is the bubbletea model of the browser.
type Model struct {
	sys         *hierarchy.System
	counts      []int
	generalized map[int]int
	specific    map[int]int

	keys        KeyMap
	cursor      int
	showGeneral bool
	full        bool

	width, height int
	viewport      viewport.Model
}

// New creates a browser over sys, positioned on the Green's function
// manifold and showing specific equations.
func New(sys *hierarchy.System) Model {
	m := Model{
		sys:         sys,
		counts:      sys.PhononCounts(),
		generalized: make(map[int]int),
		specific:    make(map[int]int),
		keys:        DefaultKeyMap(),
	}
	for nb, eqs := range sys.Generalized() {
		m.generalized[nb] = len(eqs)
	}
	for nb, eqs := range sys.Equations() {
		m.specific[nb] = len(eqs)
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the browser full-screen and blocks until the user quits.
func Run(sys *hierarchy.System) error {
	_, err := tea.NewProgram(New(sys), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.counts)-1 {
				m.cursor++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.showGeneral = !m.showGeneral
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Full):
			m.full = !m.full
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	r := m.sys.Report()
	mode := "specific"
	if m.showGeneral {
		mode = "generalized"
	}
	status := styleStatusBar.Width(m.width).Render(fmt.Sprintf(
		"%s  %d generalized  %d equations  [%s]", r.RunID, r.Generalized, r.Equations, mode))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		styleList.Height(m.viewport.Height).Render(m.listView()),
		stylePanel.Render(m.viewport.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, status, body, m.footerView())
}

// Selected returns the phonon count of the highlighted manifold.
func (m Model) Selected() int {
	if len(m.counts) == 0 {
		return 0
	}
	return m.counts[m.cursor]
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	w := max(width-listWidth-6, 10)
	h := max(height-chromeHeight, 3)
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width, m.viewport.Height = w, h
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

// content renders the equations of the selected manifold.
func (m Model) content() string {
	nb := m.Selected()
	var b strings.Builder
	if m.showGeneral {
		for _, eq := range m.sys.Generalized()[nb] {
			_ = eq.Visualize(&b, m.full)
		}
	} else {
		for _, eq := range m.sys.Equations()[nb] {
			_ = eq.Visualize(&b, m.full)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) listView() string {
	var b strings.Builder
	for i, nb := range m.counts {
		label := "G"
		if nb > 0 {
			label = fmt.Sprintf("N=%d", nb)
		}
		row := fmt.Sprintf("%-5s %4d gen %5d eq", label, m.generalized[nb], m.specific[nb])
		if i == m.cursor {
			b.WriteString(styleRowSelected.Render(selectionIndicator + row))
		} else {
			b.WriteString(styleRowNormal.Render(" " + row))
		}
		if i < len(m.counts)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) footerView() string {
	parts := make([]string, 0, len(m.keys.bindings()))
	for _, kb := range m.keys.bindings() {
		h := kb.Help()
		parts = append(parts, styleFooterKey.Render(h.Key)+" "+styleFooter.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
