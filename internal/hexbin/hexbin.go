// Package hexbin groups points into hexagons of a given radius in meters.
//
// The lattice is pointy-top and laid over Web Mercator, centred on the middle
// of the data's bounding box. Its circumradius is scaled by the Mercator
// stretch at that centre, so hexagons measure radius meters on the ground
// there.
package hexbin

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"bikeheat/internal/geom"
)

// maxLat is the Web Mercator latitude limit.
const maxLat = 85.051129

var (
	ErrRadius     = errors.New("hexbin: radius must be positive and finite")
	ErrNoGeometry = errors.New("hexbin: bin has no geometry")
)

// Cell addresses a hexagon within one Aggregate result: column I of row J.
type Cell struct {
	I int
	J int
}

// Bin is one aggregated hexagon.
type Bin struct {
	Cell     Cell
	Position [2]float64 // lon, lat of the hexagon centre
	Count    int

	center orb.Point // Web Mercator
	size   float64   // circumradius in Mercator units
}

func (b Bin) Lon() float64 { return b.Position[0] }
func (b Bin) Lat() float64 { return b.Position[1] }

type grid struct {
	origin orb.Point
	size   float64
	dx, dy float64
}

func newGrid(center orb.Point, radius float64) grid {
	size := radius / math.Cos(center.Lat()*math.Pi/180)
	return grid{
		origin: project.WGS84.ToMercator(center),
		size:   size,
		dx:     size * math.Sqrt(3),
		dy:     size * 1.5,
	}
}

// locate finds the hexagon holding m. Rows are dy apart and odd rows shift
// half a column. Points in the band between two rows go to the nearer of the
// two candidate centres, measured in Mercator units.
func (g grid) locate(m orb.Point) Cell {
	py := (m.Y() - g.origin.Y()) / g.dy
	pj := round(py)
	px := (m.X()-g.origin.X())/g.dx - odd(pj)/2
	pi := round(px)
	if py1 := py - pj; math.Abs(py1)*3 > 1 {
		px1 := px - pi
		pi2 := pi + sign(px-pi)/2
		pj2 := pj + sign(py-pj)
		px2, py2 := px-pi2, py-pj2
		if math.Hypot(px1*g.dx, py1*g.dy) > math.Hypot(px2*g.dx, py2*g.dy) {
			pi = pi2 + (2*odd(pj)-1)/2
			pj = pj2
		}
	}
	return Cell{I: int(pi), J: int(pj)}
}

func (g grid) center(c Cell) orb.Point {
	j := float64(c.J)
	return orb.Point{
		g.origin.X() + (float64(c.I)+odd(j)/2)*g.dx,
		g.origin.Y() + j*g.dy,
	}
}

func round(v float64) float64 { return math.Floor(v + 0.5) }

func odd(v float64) float64 {
	if int(v)&1 != 0 {
		return 1
	}
	return 0
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func usable(p geom.DataPoint) bool {
	return !math.IsNaN(p.Lon) && !math.IsNaN(p.Lat) &&
		math.Abs(p.Lon) <= 180 && math.Abs(p.Lat) <= maxLat
}

// Aggregate counts points per hexagon of the given radius. Bins come out in
// order of first appearance. Points off the Mercator plane are skipped and
// counted in skipped.
func Aggregate(points []geom.DataPoint, radius float64) (bins []Bin, skipped int, err error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, 0, fmt.Errorf("%w: %v", ErrRadius, radius)
	}
	valid := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		if usable(p) {
			valid = append(valid, p.Point())
		}
	}
	skipped = len(points) - len(valid)
	if len(valid) == 0 {
		return nil, skipped, nil
	}

	g := newGrid(valid.Bound().Center(), radius)
	index := make(map[Cell]int)
	for _, p := range valid {
		cell := g.locate(project.WGS84.ToMercator(p))
		if i, ok := index[cell]; ok {
			bins[i].Count++
			continue
		}
		index[cell] = len(bins)
		bins = append(bins, Bin{Cell: cell, Count: 1})
	}
	for i := range bins {
		c := g.center(bins[i].Cell)
		ll := project.Mercator.ToWGS84(c)
		bins[i].Position = [2]float64{ll.Lon(), ll.Lat()}
		bins[i].center = c
		bins[i].size = g.size
	}
	return bins, skipped, nil
}

// Boundary returns the six vertices of b as lon/lat pairs, starting at the
// northern tip and going clockwise.
func Boundary(b Bin) ([][2]float64, error) {
	if b.size <= 0 {
		return nil, ErrNoGeometry
	}
	out := make([][2]float64, 6)
	for k := range out {
		s, c := math.Sincos(float64(k) * math.Pi / 3)
		ll := project.Mercator.ToWGS84(orb.Point{b.center.X() + b.size*s, b.center.Y() + b.size*c})
		out[k] = [2]float64{ll.Lon(), ll.Lat()}
	}
	return out, nil
}

// MaxCount returns the largest count among bins.
func MaxCount(bins []Bin) int {
	m := 0
	for _, b := range bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
