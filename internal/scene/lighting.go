package scene

import "math"

const (
	metersPerDegLat = 111320.0
)

type AmbientLight struct {
	Color     RGB     `json:"color"`
	Intensity float64 `json:"intensity"`
}

// PointLight is positioned at lon, lat and height in meters.
type PointLight struct {
	Color     RGB        `json:"color"`
	Intensity float64    `json:"intensity"`
	Position  [3]float64 `json:"position"`
}

type LightingEffect struct {
	AmbientLight AmbientLight `json:"ambientLight"`
	PointLights  []PointLight `json:"pointLights"`
}

var white = RGB{255, 255, 255}

func DefaultLighting() LightingEffect {
	return LightingEffect{
		AmbientLight: AmbientLight{Color: white, Intensity: 1},
		PointLights: []PointLight{
			{Color: white, Intensity: 1, Position: [3]float64{-123.12103, 49.27869, 80000}},
			{Color: white, Intensity: 1, Position: [3]float64{-116.89301, 49.1192680000, 0}},
		},
	}
}

// Shade returns the brightness in [0,1] of the top face of a column standing
// at lon, lat with the given height: ambient term plus Lambert diffuse from
// each point light.
func (e LightingEffect) Shade(m Material, lon, lat, height float64) float64 {
	b := m.Ambient * e.AmbientLight.Intensity
	mLon := metersPerDegLat * math.Cos(lat*math.Pi/180)
	for _, pl := range e.PointLights {
		dx := (pl.Position[0] - lon) * mLon
		dy := (pl.Position[1] - lat) * metersPerDegLat
		dz := pl.Position[2] - height
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if d == 0 {
			continue
		}
		// top face normal is straight up
		if lambert := dz / d; lambert > 0 {
			b += m.Diffuse * pl.Intensity * lambert
		}
	}
	return math.Max(0, math.Min(1, b))
}
