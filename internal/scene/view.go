package scene

import "math"

// Web Mercator ground resolution at zoom 0 on the equator, meters per 256px-tile pixel.
const equatorMetersPerPixel = 156543.03392

const maxPitch = 85

type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
	MinZoom   float64 `json:"minZoom"`
	MaxZoom   float64 `json:"maxZoom"`
}

var InitialViewState = ViewState{
	Longitude: -123.12103,
	Latitude:  49.27869,
	Zoom:      11.7,
	Pitch:     40.5,
	Bearing:   0,
	MinZoom:   5,
	MaxZoom:   30,
}

// Clamp keeps zoom within its bounds, pitch within [0,85] and bearing within (-180,180].
func (v ViewState) Clamp() ViewState {
	if v.MaxZoom > v.MinZoom {
		v.Zoom = math.Max(v.MinZoom, math.Min(v.MaxZoom, v.Zoom))
	}
	v.Pitch = math.Max(0, math.Min(maxPitch, v.Pitch))
	v.Bearing = math.Mod(v.Bearing, 360)
	if v.Bearing > 180 {
		v.Bearing -= 360
	} else if v.Bearing <= -180 {
		v.Bearing += 360
	}
	v.Latitude = math.Max(-85, math.Min(85, v.Latitude))
	return v
}

// MetersPerPixel is the ground resolution at the view centre.
func (v ViewState) MetersPerPixel() float64 {
	return equatorMetersPerPixel * math.Cos(v.Latitude*math.Pi/180) / math.Pow(2, v.Zoom)
}

// ZoomFor returns the zoom giving mpp meters per pixel at latitude lat.
func ZoomFor(mpp, lat float64) float64 {
	if mpp <= 0 {
		return 0
	}
	return math.Log2(equatorMetersPerPixel * math.Cos(lat*math.Pi/180) / mpp)
}
