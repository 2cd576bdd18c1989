// Package scene builds the declarative description handed to a renderer: one
// hexagon aggregation layer, the lighting, the camera and the basemap style.
package scene

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"bikeheat/internal/geom"
)

const (
	LayerID = "heatmap"

	// DomainMax is the upper end of both the color and elevation domains.
	DomainMax = 65

	ElevationMax = 7000

	ElevationTransition = 3000 * time.Millisecond

	MapStyle = "https://basemaps.cartocdn.com/gl/dark-matter-gl-style/style.json"
)

type RGB [3]uint8

func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

func (c RGB) Hex() string { return c.Colorful().Hex() }

// ColorRange runs from teal (sparse) to deep red (dense).
var ColorRange = []RGB{
	{1, 152, 189},
	{73, 227, 206},
	{216, 254, 181},
	{254, 237, 177},
	{254, 173, 84},
	{209, 55, 78},
	{196, 45, 69},
	{183, 35, 61},
	{170, 25, 52},
	{157, 15, 43},
	{144, 5, 35},
	{131, 0, 30},
	{118, 0, 25},
}

type Material struct {
	Ambient       float64 `json:"ambient"`
	Diffuse       float64 `json:"diffuse"`
	Shininess     float64 `json:"shininess"`
	SpecularColor RGB     `json:"specularColor"`
}

var DefaultMaterial = Material{
	Ambient:       0.64,
	Diffuse:       0.6,
	Shininess:     32,
	SpecularColor: RGB{51, 51, 51},
}

// Transitions holds animation durations in milliseconds.
type Transitions struct {
	ElevationScale int `json:"elevationScale"`
}

func (t Transitions) ElevationDuration() time.Duration {
	return time.Duration(t.ElevationScale) * time.Millisecond
}

// HexagonLayer is the configuration of the aggregation layer. It is rebuilt,
// never edited, whenever its inputs change.
type HexagonLayer struct {
	ID              string           `json:"id"`
	Data            []geom.DataPoint `json:"-"`
	Radius          int              `json:"radius"`
	ColorDomain     [2]float64       `json:"colorDomain"`
	ColorRange      []RGB            `json:"colorRange"`
	Coverage        float64          `json:"coverage"`
	ElevationDomain [2]float64       `json:"elevationDomain"`
	ElevationRange  [2]float64       `json:"elevationRange"`
	Extruded        bool             `json:"extruded"`
	Pickable        bool             `json:"pickable"`
	Material        Material         `json:"material"`
	Transitions     Transitions      `json:"transitions"`
}

func NewHexagonLayer(data []geom.DataPoint, radius, minValue int) HexagonLayer {
	domain := [2]float64{float64(minValue), DomainMax}
	return HexagonLayer{
		ID:              LayerID,
		Data:            data,
		Radius:          radius,
		ColorDomain:     domain,
		ColorRange:      ColorRange,
		Coverage:        1,
		ElevationDomain: domain,
		ElevationRange:  [2]float64{0, ElevationMax},
		Extruded:        true,
		Pickable:        true,
		Material:        DefaultMaterial,
		Transitions:     Transitions{ElevationScale: int(ElevationTransition / time.Millisecond)},
	}
}

// ColorIndex quantizes count over ColorDomain into one of len(ColorRange)
// equal bands. Counts outside the domain clamp to the first or last band.
func (l HexagonLayer) ColorIndex(count int) int {
	n := len(l.ColorRange)
	if n == 0 {
		return -1
	}
	t := normalize(float64(count), l.ColorDomain)
	i := int(math.Floor(t * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

func (l HexagonLayer) ColorFor(count int) RGB {
	i := l.ColorIndex(count)
	if i < 0 {
		return RGB{}
	}
	return l.ColorRange[i]
}

// ElevationFor maps count linearly from ElevationDomain onto ElevationRange, clamped.
func (l HexagonLayer) ElevationFor(count int) float64 {
	t := normalize(float64(count), l.ElevationDomain)
	return l.ElevationRange[0] + t*(l.ElevationRange[1]-l.ElevationRange[0])
}

func normalize(v float64, domain [2]float64) float64 {
	lo, hi := domain[0], domain[1]
	if hi <= lo {
		if v >= hi {
			return 1
		}
		return 0
	}
	t := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, t))
}
