package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	hoverFg   = lipgloss.Color("#FFA500")
	borderCol = lipgloss.Color("#243141")

	appStyle     = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(baseDimFg)
	labelStyle   = lipgloss.NewStyle().Foreground(baseFg).Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	tooltipStyle = boxStyle.BorderForeground(hoverFg)
	outlineStyle = lipgloss.NewStyle().Foreground(hoverFg)
	hoverStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(hoverFg)
)
