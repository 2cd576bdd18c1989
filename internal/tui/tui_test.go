package tui

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bikeheat/internal/geom"
	"bikeheat/internal/scene"
	"bikeheat/internal/state"
)

var center = geom.DataPoint{Lon: scene.InitialViewState.Longitude, Lat: scene.InitialViewState.Latitude, Year: 2003}

func loaded(t *testing.T) *Model {
	t.Helper()
	m := New(Options{Source: "unused.csv", Params: state.DefaultParams()})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	points := []geom.DataPoint{center, center, center, {Lon: -123.0, Lat: 49.2, Year: 2004}}
	m.Update(datasetMsg{points: points, stats: geom.Stats{Rows: 5, Dropped: 1}})
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestTwoPassesPerLoad(t *testing.T) {
	m := New(Options{Params: state.DefaultParams()})
	if m.Passes() != 1 {
		t.Fatalf("passes before load = %d, want 1", m.Passes())
	}
	_, cmd := m.Update(datasetMsg{points: []geom.DataPoint{center}, stats: geom.Stats{Rows: 1}})
	if m.Passes() != 2 {
		t.Errorf("passes after load = %d, want 2", m.Passes())
	}
	if cmd == nil {
		t.Error("expected a frame tick while columns grow")
	}
	if !strings.Contains(m.status, "loaded 1 incidents") {
		t.Errorf("status = %q", m.status)
	}
}

func TestLoadErrorKeepsEmptyScene(t *testing.T) {
	m := New(Options{Params: state.DefaultParams()})
	m.Update(datasetMsg{err: errors.New("boom")})
	if m.Passes() != 1 {
		t.Errorf("passes = %d, want 1", m.Passes())
	}
	if !strings.Contains(m.status, "load error: boom") {
		t.Errorf("status = %q", m.status)
	}
	if len(m.binding.Scene().Layers) != 0 {
		t.Error("layer rendered after failed load")
	}
}

func TestInitLoadsDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thefts.csv")
	csv := "longitude,latitude,date_year\n-123.1,49.2,2003\n,49.2,2003\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(Options{Source: path, FetchTimeout: time.Second, Params: state.DefaultParams()})
	msg, ok := m.Init()().(datasetMsg)
	if !ok {
		t.Fatalf("Init produced %T", msg)
	}
	if msg.err != nil || len(msg.points) != 1 || msg.stats.Dropped != 1 {
		t.Errorf("datasetMsg = %+v", msg)
	}
}

func TestSliderKeys(t *testing.T) {
	m := loaded(t)
	passes := m.Passes()

	m.Update(runes("]"))
	if p := m.filter.Params(); p.Radius != 60 {
		t.Errorf("radius = %d, want 60", p.Radius)
	}
	if m.Passes() != passes+1 {
		t.Errorf("radius change rendered %d times", m.Passes()-passes)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != sliderYear {
		t.Fatalf("focus = %d, want year", m.focus)
	}
	m.Update(runes("]"))
	s := m.filter.Snapshot()
	if s.Year != 2004 || len(s.Filtered) != 1 {
		t.Errorf("year = %d filtered = %d, want 2004 and 1", s.Year, len(s.Filtered))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != sliderMinValue {
		t.Fatalf("focus = %d, want minimum value", m.focus)
	}
	for i := 0; i < 10; i++ {
		m.Update(runes("]"))
	}
	if p := m.filter.Params(); p.MinValue != 5 {
		t.Errorf("min value = %d, want clamped to 5", p.MinValue)
	}
	if l := m.binding.Scene().Layers[0]; l.ColorDomain != [2]float64{5, scene.DomainMax} {
		t.Errorf("color domain = %v", l.ColorDomain)
	}
}

func TestZoomClampAndReset(t *testing.T) {
	m := loaded(t)
	for i := 0; i < 100; i++ {
		m.Update(runes("+"))
	}
	if m.mv.view.Zoom != scene.InitialViewState.MaxZoom {
		t.Errorf("zoom = %v, want %v", m.mv.view.Zoom, scene.InitialViewState.MaxZoom)
	}
	if !strings.Contains(m.status, "zoom=30.0") {
		t.Errorf("status = %q", m.status)
	}
	m.Update(runes("0"))
	if m.mv.view != scene.InitialViewState {
		t.Errorf("view after reset = %+v", m.mv.view)
	}
}

func TestShiftDragRotates(t *testing.T) {
	m := loaded(t)
	m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 15, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, Shift: true})
	if m.mv.view.Bearing != 5*dragRotate {
		t.Errorf("bearing = %v, want %v", m.mv.view.Bearing, 5*dragRotate)
	}
	if m.mv.view.Pitch != scene.InitialViewState.Pitch {
		t.Errorf("pitch changed to %v", m.mv.view.Pitch)
	}

	lon := m.mv.view.Longitude
	m.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if m.mv.view.Longitude == lon {
		t.Error("plain drag did not pan")
	}
	m.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.dragging {
		t.Error("still dragging after release")
	}
}

func TestHoverShowsTooltip(t *testing.T) {
	m := loaded(t)
	w, h := m.mapSize()
	cx, cy, found := 0, 0, false
	for _, b := range m.mv.bins {
		if b.Count == 3 {
			x, y := m.mv.project(b.Lon(), b.Lat(), w, h)
			cx, cy, found = int(math.Floor(x)), int(math.Floor(y)), true
		}
	}
	if !found {
		t.Fatal("no bin with three incidents")
	}
	m.Update(tea.MouseMsg{X: cx, Y: cy + headerHeight, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if m.hovered == nil || m.hovered.Count != 3 {
		t.Fatalf("hovered = %+v", m.hovered)
	}
	if !strings.Contains(m.tooltip, "3 Bicycle Thefts") || !strings.HasPrefix(m.tooltip, "latitude: ") {
		t.Errorf("tooltip = %q", m.tooltip)
	}
	if !strings.Contains(m.View(), "3 Bicycle Thefts") {
		t.Error("tooltip not drawn")
	}

	// moving onto the panel clears it
	m.Update(tea.MouseMsg{X: w + 5, Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if m.hovered != nil || m.tooltip != "" {
		t.Errorf("hover not cleared: %+v %q", m.hovered, m.tooltip)
	}
}

func TestSceneChangeClearsHover(t *testing.T) {
	m := loaded(t)
	b := m.mv.bins[0]
	m.mv.setHovered(&b)
	if m.tooltip == "" {
		t.Fatal("tooltip not set")
	}
	m.Update(runes("]"))
	if m.hovered != nil || m.tooltip != "" {
		t.Error("hover survived a new scene")
	}
}

func TestViewLayout(t *testing.T) {
	m := loaded(t)
	out := m.View()
	for _, want := range []string{"Vancouver Bike Thefts", "Radius: 50", "Year: 2003", "Minimum Value: 2", "Hold shift and drag", "loaded 4 incidents"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if n := strings.Count(out, "\n") + 1; n > 40 {
		t.Errorf("view is %d lines, window is 40", n)
	}
	if New(Options{}).View() != "" {
		t.Error("view rendered before the first window size")
	}
}

func TestYearTable(t *testing.T) {
	m := loaded(t)
	m.Update(runes("y"))
	if !m.showYears {
		t.Fatal("year table not shown")
	}
	if !strings.Contains(m.View(), "Incidents") {
		t.Error("year table not drawn")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.showYears {
		t.Error("table still shown after selection")
	}
	if y := m.filter.Params().Year; y != 2004 {
		t.Errorf("year = %d, want 2004", y)
	}
	if m.focus != sliderYear {
		t.Errorf("focus = %d, want year", m.focus)
	}
}

func TestSummarizeYears(t *testing.T) {
	m := loaded(t)
	rows := summarizeYears(m.filter.Snapshot())
	if len(rows) != state.YearRange.Max-state.YearRange.Min+1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if r := rows[0]; r.year != 2003 || r.count != 3 || r.hexagons != 1 || r.densest != 3 {
		t.Errorf("2003 = %+v", r)
	}
	if r := rows[len(rows)-1]; r.count != 0 || r.hexagons != 0 {
		t.Errorf("2024 = %+v", r)
	}
}

func TestAnimationProgress(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	m := New(Options{Params: state.DefaultParams()})
	m.mv.now = func() time.Time { return now }
	m.Update(datasetMsg{points: []geom.DataPoint{center}})
	if !m.mv.animating() || m.mv.progress() != 0 {
		t.Fatalf("progress = %v", m.mv.progress())
	}
	now = t0.Add(scene.ElevationTransition / 2)
	if p := m.mv.progress(); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("progress at half time = %v", p)
	}
	now = t0.Add(scene.ElevationTransition)
	if m.mv.animating() {
		t.Error("still animating after the transition")
	}
	if _, cmd := m.Update(frameMsg(now)); cmd != nil {
		t.Error("frame scheduled after the transition ended")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	v := newMapView()
	v.view = scene.InitialViewState
	v.view.Bearing = 30
	v.view.Pitch = 60
	x, y := v.project(-123.05, 49.3, 80, 30)
	lon, lat := v.unproject(x, y, 80, 30)
	if math.Abs(lon+123.05) > 1e-9 || math.Abs(lat-49.3) > 1e-9 {
		t.Errorf("round trip = %v, %v", lon, lat)
	}
	cx, cy := v.project(v.view.Longitude, v.view.Latitude, 80, 30)
	if cx != 40 || cy != 15 {
		t.Errorf("centre projects to %v, %v", cx, cy)
	}
}

func TestFitFramesData(t *testing.T) {
	v := newMapView()
	v.view = scene.InitialViewState
	b := geom.BBox{MinX: -123.2, MinY: 49.2, MaxX: -123.0, MaxY: 49.3}
	if !v.fit(b, 80, 30) {
		t.Fatal("fit rejected a valid box")
	}
	for _, p := range [][2]float64{{b.MinX, b.MinY}, {b.MaxX, b.MaxY}} {
		x, y := v.project(p[0], p[1], 80, 30)
		if x < -1e-6 || x > 80+1e-6 || y < -1e-6 || y > 30+1e-6 {
			t.Errorf("corner %v projects outside: %v, %v", p, x, y)
		}
	}
	if v.fit(geom.BBox{MinX: 1, MaxX: 0}, 80, 30) {
		t.Error("fit accepted an invalid box")
	}
}

func TestBrailleLine(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.drawLineMicro(0, 0, 3, 0)
	if b.at(0, 0) != rune(0x2800+0x01+0x08) || b.at(1, 0) != rune(0x2800+0x01+0x08) {
		t.Errorf("cells = %q %q", b.at(0, 0), b.at(1, 0))
	}
	if b.at(5, 5) != 0 {
		t.Error("out of range cell not empty")
	}
}

func TestMouseWheel(t *testing.T) {
	tests := []struct {
		name       string
		x, y       int
		button     tea.MouseButton
		startZoom  float64
		wantRadius int
		wantZoom   float64
		wantPasses int // extra render passes
	}{
		{"panel up steps slider", 100, 5, tea.MouseButtonWheelUp, 11.7, 60, 11.7, 1},
		{"panel down steps slider", 100, 5, tea.MouseButtonWheelDown, 11.7, 40, 11.7, 1},
		{"map up zooms", 20, 10, tea.MouseButtonWheelUp, 11.7, 50, 11.7 + zoomStep, 0},
		{"map down zooms", 20, 10, tea.MouseButtonWheelDown, 11.7, 50, 11.7 - zoomStep, 0},
		{"map zoom held at max", 20, 10, tea.MouseButtonWheelUp, 30, 50, 30, 0},
		{"map zoom held at min", 20, 10, tea.MouseButtonWheelDown, 5, 50, 5, 0},
		{"header row ignored", 5, 0, tea.MouseButtonWheelUp, 11.7, 50, 11.7, 0},
		{"footer row ignored", 100, 39, tea.MouseButtonWheelUp, 11.7, 50, 11.7, 0},
		{"gutter ignored", 85, 5, tea.MouseButtonWheelUp, 11.7, 50, 11.7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t)
			if w, _ := m.mapSize(); w != 85 {
				t.Fatalf("map width = %d, want 85", w)
			}
			vs := m.mv.view
			vs.Zoom = tt.startZoom
			m.mv.setView(vs)
			passes := m.Passes()

			m.Update(tea.MouseMsg{X: tt.x, Y: tt.y, Action: tea.MouseActionPress, Button: tt.button})
			if got := m.filter.Params().Radius; got != tt.wantRadius {
				t.Errorf("radius = %d, want %d", got, tt.wantRadius)
			}
			if got := m.mv.view.Zoom; math.Abs(got-tt.wantZoom) > 1e-9 {
				t.Errorf("zoom = %v, want %v", got, tt.wantZoom)
			}
			if got := m.Passes() - passes; got != tt.wantPasses {
				t.Errorf("render passes = %d, want %d", got, tt.wantPasses)
			}
		})
	}
}

func TestYearTableBlocksHover(t *testing.T) {
	m := loaded(t)
	w, h := m.mapSize()
	b := m.mv.bins[0]
	x, y := m.mv.project(b.Lon(), b.Lat(), w, h)
	move := tea.MouseMsg{X: int(math.Floor(x)), Y: int(math.Floor(y)) + headerHeight, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}

	m.Update(runes("y"))
	m.Update(move)
	if m.hovered != nil || m.tooltip != "" {
		t.Errorf("hover picked through the year table: %q", m.tooltip)
	}
	m.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.mv.view.Zoom != scene.InitialViewState.Zoom {
		t.Errorf("wheel zoomed behind the year table: %v", m.mv.view.Zoom)
	}

	m.Update(runes("y"))
	m.Update(move)
	if m.hovered == nil {
		t.Error("hover not picked once the table closed")
	}
}
