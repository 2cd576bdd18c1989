package tui

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bikeheat/internal/geom"
)

const (
	panStep    = 4.0
	zoomStep   = 0.5
	rotateStep = 15.0
	tiltStep   = 5.0

	dragRotate = 3.0 // degrees of bearing per cell dragged
	dragTilt   = 2.0 // degrees of pitch per row dragged
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case datasetMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("dataset: %v", msg.err)
			m.status = "load error: " + msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		log.Printf("dataset: %d rows, %d kept, %d dropped", msg.stats.Rows, msg.stats.Kept(), msg.stats.Dropped)
		m.filter.SetData(msg.points)
		m.status = fmt.Sprintf("loaded %d incidents (%d rows dropped)", msg.stats.Kept(), msg.stats.Dropped)
	case frameMsg:
		m.ticking = false
	case tea.KeyMsg:
		if m.showYears {
			return m, m.updateYears(msg)
		}
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.animate()
}

// animate keeps one frame tick in flight while columns are growing.
func (m *Model) animate() tea.Cmd {
	if m.ticking || !m.mv.animating() {
		return nil
	}
	m.ticking = true
	return nextFrame()
}

func (m *Model) updateYears(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Years), msg.String() == "esc":
		m.showYears = false
		return nil
	case key.Matches(msg, m.keys.Select):
		m.selectYear()
		return m.animate()
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextSlider):
		m.focus = (m.focus + 1) % len(m.sliders)
	case key.Matches(msg, m.keys.PrevSlider):
		m.focus = (m.focus + len(m.sliders) - 1) % len(m.sliders)
	case key.Matches(msg, m.keys.Increase):
		m.stepSlider(1)
	case key.Matches(msg, m.keys.Decrease):
		m.stepSlider(-1)
	case key.Matches(msg, m.keys.Up):
		m.mv.panCells(0, -panStep)
	case key.Matches(msg, m.keys.Down):
		m.mv.panCells(0, panStep)
	case key.Matches(msg, m.keys.Left):
		m.mv.panCells(-2*panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.mv.panCells(2*panStep, 0)
	case key.Matches(msg, m.keys.RotateLeft):
		m.mv.rotate(-rotateStep, 0)
	case key.Matches(msg, m.keys.RotateRight):
		m.mv.rotate(rotateStep, 0)
	case key.Matches(msg, m.keys.TiltUp):
		m.mv.rotate(0, tiltStep)
	case key.Matches(msg, m.keys.TiltDown):
		m.mv.rotate(0, -tiltStep)
	case key.Matches(msg, m.keys.ZoomIn):
		m.mv.zoomBy(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.mv.zoomBy(-zoomStep)
	case key.Matches(msg, m.keys.Reset):
		m.mv.resetView()
	case key.Matches(msg, m.keys.Fit):
		m.fitData()
	case key.Matches(msg, m.keys.Years):
		m.showYears = m.refreshYears()
	}
	return nil
}

// fitData frames the selected year, or the whole dataset when that year is empty.
func (m *Model) fitData() {
	s := m.filter.Snapshot()
	w, h := m.mapSize()
	if m.mv.fit(geom.Bounds(s.Filtered), w, h) || m.mv.fit(geom.Bounds(s.Data), w, h) {
		return
	}
	m.status = "nothing to fit"
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	w, h := m.mapSize()
	x, y := msg.X, msg.Y-headerHeight
	inBody := y >= 0 && y < h
	inMap := inBody && x >= 0 && x < w && !m.showYears
	inPanel := inBody && x > w
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		n := 1
		if msg.Button == tea.MouseButtonWheelDown {
			n = -1
		}
		if inMap {
			m.mv.zoomBy(float64(n) * zoomStep)
		} else if inPanel {
			m.stepSlider(n)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = inMap
		m.lastX, m.lastY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		m.lastX, m.lastY = msg.X, msg.Y
		if msg.Shift {
			m.mv.rotate(float64(dx)*dragRotate, float64(-dy)*dragTilt)
		} else {
			m.mv.panCells(float64(-dx), float64(-dy))
		}
	case msg.Action == tea.MouseActionMotion:
		if inMap {
			m.mv.setHovered(m.mv.pick(x, y, w, h))
		} else {
			m.mv.setHovered(nil)
		}
	}
}
