package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"bikeheat/internal/scene"
	"bikeheat/internal/state"
)

const panelWidth = 34

// slider order in the panel
const (
	sliderRadius = iota
	sliderYear
	sliderMinValue
)

// slider binds one range input to a Filter setter.
type slider struct {
	label string
	rng   state.Range
	value func(state.Params) int
	set   func(*state.Filter, int)
	bar   progress.Model
}

func newSliders() []slider {
	bar := func() progress.Model {
		return progress.New(
			progress.WithGradient(scene.ColorRange[0].Hex(), scene.ColorRange[len(scene.ColorRange)-1].Hex()),
			progress.WithoutPercentage(),
			progress.WithWidth(panelWidth-8),
		)
	}
	return []slider{
		{
			label: "Radius",
			rng:   state.RadiusRange,
			value: func(p state.Params) int { return p.Radius },
			set:   (*state.Filter).SetRadius,
			bar:   bar(),
		},
		{
			label: "Year",
			rng:   state.YearRange,
			value: func(p state.Params) int { return p.Year },
			set:   (*state.Filter).SetYear,
			bar:   bar(),
		},
		{
			label: "Minimum Value",
			rng:   state.MinValueRange,
			value: func(p state.Params) int { return p.MinValue },
			set:   (*state.Filter).SetMinValue,
			bar:   bar(),
		},
	}
}

// stepSlider moves the focused slider n steps; every change goes straight to the filter.
func (m *Model) stepSlider(n int) {
	s := m.sliders[m.focus]
	s.set(m.filter, s.rng.Advance(s.value(m.filter.Params()), n))
}

func (m *Model) renderPanel() string {
	p := m.filter.Params()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vancouver Bike Thefts"))
	b.WriteString("\n")
	for i, s := range m.sliders {
		marker := "  "
		if i == m.focus {
			marker = focusStyle.Render("› ")
		}
		v := s.value(p)
		b.WriteString("\n" + marker + labelStyle.Render(fmt.Sprintf("%s: %d", s.label, v)) + "\n")
		b.WriteString("  " + s.bar.ViewAs(s.rng.Fraction(v)) + "\n")
	}
	b.WriteString("\n" + m.renderLegend(p) + "\n\n")
	b.WriteString(dimStyle.Render("(Hold shift and drag to rotate the view)"))

	parts := []string{boxStyle.Width(panelWidth - 2).Render(b.String())}
	if m.tooltip != "" {
		parts = append(parts, tooltipStyle.Width(panelWidth-2).Render(m.tooltip))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderLegend shows the color ramp over the current domain.
func (m *Model) renderLegend(p state.Params) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d ", p.MinValue)))
	for _, c := range scene.ColorRange {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %d+", scene.DomainMax)))
	return b.String()
}
