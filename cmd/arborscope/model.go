package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/arbor"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	hiddenStyle   = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// model is the inspector state: a window, the selected dump row and the
// last status message.
type model struct {
	w        *arbor.Window
	selected int
	status   string
	width    int
}

func newModel(w *arbor.Window) model {
	w.SetActive(true)
	return model{w: w}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) lines() []arbor.DumpLine { return arbor.DumpLines(m.w.ContentItem()) }

func (m model) selectedItem() *arbor.Item {
	lines := m.lines()
	if m.selected < 0 || m.selected >= len(lines) {
		return nil
	}
	return lines[m.selected].Item
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.lines())-1 {
				m.selected++
			}
		case "tab":
			m.key(arbor.KeyTab, 0)
		case "shift+tab":
			m.key(arbor.KeyBacktab, arbor.ModShift)
		case "v":
			if it := m.selectedItem(); it != nil {
				it.SetVisible(!it.ExplicitVisible())
				m.status = fmt.Sprintf("%s visible=%v", it.Name, it.ExplicitVisible())
			}
		case "e":
			if it := m.selectedItem(); it != nil {
				it.SetEnabled(!it.ExplicitEnabled())
				m.status = fmt.Sprintf("%s enabled=%v", it.Name, it.ExplicitEnabled())
			}
		case "f":
			if it := m.selectedItem(); it != nil {
				it.ForceActiveFocus()
				m.status = "focus forced on " + it.Name
			}
		case "m":
			if it := m.selectedItem(); it != nil {
				it.SetLayoutMirror(!it.EffectiveLayoutMirror())
				m.status = fmt.Sprintf("%s mirror=%v", it.Name, it.EffectiveLayoutMirror())
			}
		}
	}
	m.w.Update()
	return m, nil
}

func (m *model) key(k arbor.Key, mods arbor.KeyModifiers) {
	accepted := m.w.DeliverKey(&arbor.KeyEvent{Type: arbor.KeyPress, Key: k, Modifiers: mods})
	m.w.DeliverKey(&arbor.KeyEvent{Type: arbor.KeyRelease, Key: k, Modifiers: mods})
	if !accepted {
		m.status = k.String() + " not accepted"
		return
	}
	m.status = fmt.Sprintf("%s moved focus (%v)", k, m.w.LastFocusReason())
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("arborscope"))
	b.WriteString("\n\n")

	lines := m.lines()
	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.Label))
	}
	for i, l := range lines {
		row := arbor.PadCells(l.Label, width) + "  " + l.State
		switch {
		case i == m.selected:
			row = selectedStyle.Render(row)
		case l.Item.HasActiveFocus():
			row = focusStyle.Render(row)
		case !l.Item.IsVisible():
			row = hiddenStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}

	b.WriteString("\nfocus: ")
	b.WriteString(focusPath(m.w.ActiveFocusItem()))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select · tab/shift+tab focus · v visible · e enabled · f focus · m mirror · q quit"))
	return b.String()
}

// focusPath renders the ancestors of it from the root down.
func focusPath(it *arbor.Item) string {
	if it == nil {
		return "(none)"
	}
	var names []string
	for ; it != nil; it = it.Parent() {
		names = append(names, it.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " › ")
}
