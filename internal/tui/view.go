package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"twc/internal/fsys"
	"twc/internal/panel"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.quitting {
		return ""
	}

	if m.dlg != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dlg.view())
	}

	panelWidth := m.width/2 - 2
	panelHeight := m.height - 4

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPanel(m.leftPanel, m.active == leftSide, panelWidth, panelHeight),
		m.renderPanel(m.rightPanel, m.active == rightSide, panelWidth, panelHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels, m.renderBottomMenu())
}

func (m *Model) renderPanel(p *panel.Model, active bool, width, height int) string {
	frame := panelStyle
	if active {
		frame = activePanelStyle
	}

	rows := make([]string, 0, height)
	rows = append(rows, headerStyle.Width(width).Render(truncate(p.Pwd(), width)))

	visible := height - 1
	entries := p.Entries()
	first := visibleWindow(p.Selection(), len(entries), visible)
	for i := first; i < len(entries) && i < first+visible; i++ {
		rows = append(rows, m.renderRow(entries[i], i == p.Selection() && active, width))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return frame.Width(width).Height(height + 1).Render(body)
}

func (m *Model) renderRow(entry fsys.Entry, selected bool, width int) string {
	name := entry.Name
	if entry.IsDir {
		name = "/" + name
	}

	size := entry.DisplaySize()
	if entry.IsDir && !entry.IsParent() {
		size = "<DIR>"
	}

	meta := fmt.Sprintf("%10s  %s", size, entry.Modified)
	nameWidth := width - lipgloss.Width(meta) - 1
	if nameWidth < 1 {
		nameWidth = 1
	}
	row := fmt.Sprintf("%-*s %s", nameWidth, truncate(name, nameWidth), meta)

	switch {
	case selected:
		return selectedStyle.Render(row)
	case entry.IsDir:
		return directoryStyle.Render(row)
	default:
		return fileStyle.Render(row)
	}
}

func (m *Model) renderBottomMenu() string {
	items := []struct{ key, label string }{
		{"F1", "Help"},
		{"F5", "Copy"},
		{"F6", "Move"},
		{"F7", "MkDir"},
		{"F8", "Delete"},
		{"F9", "Sort"},
		{"F10", "Quit"},
	}

	parts := make([]string, 0, len(items)+1)
	for _, item := range items {
		parts = append(parts, menuKeyStyle.Render(item.key)+menuLabelStyle.Render(item.label))
	}

	key := m.activeModel().SortKey()
	parts = append(parts, statusStyle.Render(
		fmt.Sprintf("  sort: %s/%s", key.Predicate, key.Direction)))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// visibleWindow returns the first index of the slice of entries that keeps
// the selection on screen.
func visibleWindow(selection, count, visible int) int {
	if visible <= 0 || count <= visible {
		return 0
	}
	first := selection - visible/2
	if first < 0 {
		first = 0
	}
	if first > count-visible {
		first = count - visible
	}
	return first
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
