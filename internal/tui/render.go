package tui

import (
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/s2"
	"github.com/lucasb-eyer/go-colorful"

	"bikeheat/internal/geom"
	"bikeheat/internal/hexbin"
	"bikeheat/internal/scene"
)

// A terminal cell stands in for a cellPxW x cellPxH block of map pixels.
const (
	cellPxW = 8.0
	cellPxH = 16.0

	metersPerDegLat = 111320.0
	earthRadiusM    = 6371008.8

	// beyond this many micro-pixels an outline segment is not drawn
	maxMicro = 1 << 16
)

var columnGlyphs = []rune("▁▂▃▄▅▆▇█")

func metersPerDegLon(lat float64) float64 {
	return metersPerDegLat * math.Cos(lat*math.Pi/180)
}

// mapView is the terminal scene.Renderer. It owns the camera once the first
// scene has set the initial view.
type mapView struct {
	scene    scene.Scene
	layer    *scene.HexagonLayer
	bins     []hexbin.Bin
	skipped  int
	aggErr   error
	hovered  *hexbin.Bin
	view     scene.ViewState
	viewSet  bool
	onHover  func(*hexbin.Bin)
	onView   func(scene.ViewState)
	styles   map[string]lipgloss.Style
	now      func() time.Time
	animFrom time.Time
}

func newMapView() *mapView {
	return &mapView{
		styles: make(map[string]lipgloss.Style),
		now:    time.Now,
	}
}

func (v *mapView) SetScene(s scene.Scene) {
	if !v.viewSet {
		v.view = s.InitialViewState.Clamp()
		v.viewSet = true
	}
	v.scene = s
	v.layer, v.bins, v.skipped, v.aggErr = nil, nil, 0, nil
	if len(s.Layers) > 0 {
		l := s.Layers[0]
		v.layer = &l
		v.bins, v.skipped, v.aggErr = hexbin.Aggregate(l.Data, float64(l.Radius))
		if v.aggErr != nil {
			log.Printf("aggregate: %v", v.aggErr)
		}
		if v.skipped > 0 {
			log.Printf("aggregate: skipped %d points outside the grid", v.skipped)
		}
		v.animFrom = v.now()
	}
	v.setHovered(nil)
}

func (v *mapView) OnHover(fn func(*hexbin.Bin)) { v.onHover = fn }

func (v *mapView) OnViewStateChange(fn func(scene.ViewState)) { v.onView = fn }

func (v *mapView) setHovered(b *hexbin.Bin) {
	if v.hovered == nil && b == nil {
		return
	}
	if v.hovered != nil && b != nil && v.hovered.Cell == b.Cell {
		return
	}
	v.hovered = b
	if v.onHover != nil {
		v.onHover(b)
	}
}

func (v *mapView) setView(vs scene.ViewState) {
	vs = vs.Clamp()
	if vs == v.view {
		return
	}
	v.view = vs
	if v.onView != nil {
		v.onView(vs)
	}
}

func (v *mapView) resetView() { v.setView(v.scene.InitialViewState) }

func (v *mapView) zoomBy(dz float64) {
	vs := v.view
	vs.Zoom += dz
	v.setView(vs)
}

func (v *mapView) rotate(dBearing, dPitch float64) {
	vs := v.view
	vs.Bearing += dBearing
	vs.Pitch += dPitch
	v.setView(vs)
}

// panCells moves the camera dx cells right and dy cells down on screen.
func (v *mapView) panCells(dx, dy float64) {
	mpp := v.view.MetersPerPixel()
	east, north := v.unturn(dx*cellPxW*mpp, -dy*cellPxH*mpp/v.pitchScale())
	vs := v.view
	vs.Longitude += east / metersPerDegLon(vs.Latitude)
	vs.Latitude += north / metersPerDegLat
	v.setView(vs)
}

// fit centres b in a w x h viewport with north up.
func (v *mapView) fit(b geom.BBox, w, h int) bool {
	if !b.Valid() || w <= 0 || h <= 0 {
		return false
	}
	lon, lat := b.Center()
	mpp := math.Max(
		(b.MaxX-b.MinX)*metersPerDegLon(lat)/(float64(w)*cellPxW),
		(b.MaxY-b.MinY)*metersPerDegLat/(float64(h)*cellPxH),
	)
	vs := v.view
	vs.Longitude, vs.Latitude, vs.Bearing = lon, lat, 0
	vs.Zoom = scene.ZoomFor(mpp, lat)
	v.setView(vs)
	return true
}

// pitchScale is the vertical foreshortening of a tilted camera.
func (v *mapView) pitchScale() float64 {
	return math.Max(0.2, math.Cos(v.view.Pitch*math.Pi/180))
}

func (v *mapView) turn(east, north float64) (float64, float64) {
	s, c := math.Sincos(v.view.Bearing * math.Pi / 180)
	return east*c - north*s, east*s + north*c
}

func (v *mapView) unturn(rx, ry float64) (float64, float64) {
	s, c := math.Sincos(v.view.Bearing * math.Pi / 180)
	return rx*c + ry*s, -rx*s + ry*c
}

// project maps lon/lat to fractional cell coordinates of a w x h viewport.
func (v *mapView) project(lon, lat float64, w, h int) (float64, float64) {
	east := (lon - v.view.Longitude) * metersPerDegLon(v.view.Latitude)
	north := (lat - v.view.Latitude) * metersPerDegLat
	rx, ry := v.turn(east, north)
	mpp := v.view.MetersPerPixel()
	return float64(w)/2 + rx/(mpp*cellPxW), float64(h)/2 - ry*v.pitchScale()/(mpp*cellPxH)
}

func (v *mapView) unproject(x, y float64, w, h int) (float64, float64) {
	mpp := v.view.MetersPerPixel()
	rx := (x - float64(w)/2) * mpp * cellPxW
	ry := -(y - float64(h)/2) * mpp * cellPxH / v.pitchScale()
	east, north := v.unturn(rx, ry)
	return v.view.Longitude + east/metersPerDegLon(v.view.Latitude), v.view.Latitude + north/metersPerDegLat
}

// cellIndex assigns each visible cell the index of its densest bin.
func (v *mapView) cellIndex(w, h int) map[[2]int]int {
	idx := make(map[[2]int]int)
	for i, b := range v.bins {
		x, y := v.project(b.Lon(), b.Lat(), w, h)
		cx, cy := int(math.Floor(x)), int(math.Floor(y))
		if cx < 0 || cy < 0 || cx >= w || cy >= h {
			continue
		}
		k := [2]int{cx, cy}
		if j, ok := idx[k]; !ok || b.Count > v.bins[j].Count {
			idx[k] = i
		}
	}
	return idx
}

// pick returns the bin drawn in cell (cx, cy), else the nearest bin centre
// within one cell of it.
func (v *mapView) pick(cx, cy, w, h int) *hexbin.Bin {
	if len(v.bins) == 0 {
		return nil
	}
	if i, ok := v.cellIndex(w, h)[[2]int{cx, cy}]; ok {
		b := v.bins[i]
		return &b
	}
	lon, lat := v.unproject(float64(cx)+0.5, float64(cy)+0.5, w, h)
	at := s2.LatLngFromDegrees(lat, lon)
	limit := math.Max(cellPxW, cellPxH/v.pitchScale()) * v.view.MetersPerPixel()
	best, bestD := -1, math.Inf(1)
	for i, b := range v.bins {
		d := at.Distance(s2.LatLngFromDegrees(b.Lat(), b.Lon())).Radians() * earthRadiusM
		if d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 || bestD > limit {
		return nil
	}
	b := v.bins[best]
	return &b
}

func (v *mapView) progress() float64 {
	if v.layer == nil {
		return 1
	}
	d := v.layer.Transitions.ElevationDuration()
	if d <= 0 {
		return 1
	}
	p := float64(v.now().Sub(v.animFrom)) / float64(d)
	return math.Max(0, math.Min(1, p))
}

func (v *mapView) animating() bool { return v.layer != nil && len(v.bins) > 0 && v.progress() < 1 }

func (v *mapView) style(hex string) lipgloss.Style {
	st, ok := v.styles[hex]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		v.styles[hex] = st
	}
	return st
}

// render draws every visible bin as a column glyph whose height follows the
// layer's elevation scale and whose color follows its color scale.
func (v *mapView) render(w, h int) string {
	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	if v.layer != nil {
		p := v.progress()
		top := len(columnGlyphs) - 1
		for k, i := range v.cellIndex(w, h) {
			b := v.bins[i]
			elev := v.layer.ElevationFor(b.Count) * p
			level := clamp(int(math.Round(elev/scene.ElevationMax*float64(top))), 0, top)
			glyph := string(columnGlyphs[level])
			if v.hovered != nil && v.hovered.Cell == b.Cell {
				grid[k[1]][k[0]] = hoverStyle.Render(glyph)
				continue
			}
			grid[k[1]][k[0]] = v.style(v.shade(b, elev)).Render(glyph)
		}
	}
	if v.hovered != nil {
		v.drawOutline(grid, w, h)
	}
	lines := make([]string, h)
	for y := range grid {
		lines[y] = strings.Join(grid[y], "")
	}
	return strings.Join(lines, "\n")
}

// shade applies the scene lighting to the bin's ramp color.
func (v *mapView) shade(b hexbin.Bin, elev float64) string {
	c := v.layer.ColorFor(b.Count).Colorful()
	if len(v.scene.Effects) == 0 {
		return c.Hex()
	}
	k := v.scene.Effects[0].Shade(v.layer.Material, b.Lon(), b.Lat(), elev)
	return c.BlendRgb(colorful.Color{}, 1-k).Clamped().Hex()
}

// drawOutline traces the hovered hexagon on the braille microgrid, in the
// empty cells only.
func (v *mapView) drawOutline(grid [][]string, w, h int) {
	ring, err := hexbin.Boundary(*v.hovered)
	if err != nil || len(ring) < 3 {
		return
	}
	br := newBrailleBuf(w, h)
	micro := func(p [2]float64) (int, int) {
		x, y := v.project(p[0], p[1], w, h)
		return int(math.Floor(x * 2)), int(math.Floor(y * 4))
	}
	for i := range ring {
		ax, ay := micro(ring[i])
		bx, by := micro(ring[(i+1)%len(ring)])
		if abs(ax) > maxMicro || abs(ay) > maxMicro || abs(bx) > maxMicro || abs(by) > maxMicro {
			continue
		}
		br.drawLineMicro(ax, ay, bx, by)
	}
	for y := range grid {
		for x := range grid[y] {
			if r := br.at(x, y); r != 0 && grid[y][x] == " " {
				grid[y][x] = outlineStyle.Render(string(r))
			}
		}
	}
}
