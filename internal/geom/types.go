package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-zero extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

func (b BBox) Center() (lon, lat float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// DataPoint is one validated incident: where it happened and the year it was reported.
type DataPoint struct {
	Lon  float64
	Lat  float64
	Year int
}

func (p DataPoint) Point() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Bounds returns the bounding box of points, or the zero BBox when empty.
func Bounds(points []DataPoint) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Point()
	}
	b := mp.Bound()
	return BBox{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}
