package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// mapSize is the map viewport in cells; View and mouse handling must agree on it.
func (m *Model) mapSize() (int, int) {
	w := max(10, m.width-panelWidth-1)
	h := max(4, m.height-headerHeight-footerHeight)
	return w, h
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	mapW, mapH := m.mapSize()

	header := titleStyle.Render(" bikeheat ─ bicycle theft heatmap ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var left string
	if m.showYears {
		box := boxStyle.Render(m.tbl.View())
		left = lipgloss.Place(mapW, mapH, lipgloss.Center, lipgloss.Center, box)
	} else {
		left = lipgloss.NewStyle().Width(mapW).Height(mapH).Render(m.mv.render(mapW, mapH))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.renderPanel())
	body = lipgloss.NewStyle().MaxHeight(mapH).Render(body)

	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(contentWidth).Render(status),
		m.help.View(m.keys),
	)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}
