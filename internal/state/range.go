package state

import "math"

// Range is the min/max/step contract of one slider.
type Range struct {
	Min  int
	Max  int
	Step int
}

var (
	RadiusRange   = Range{Min: 10, Max: 120, Step: 10}
	YearRange     = Range{Min: 2003, Max: 2024, Step: 1}
	MinValueRange = Range{Min: 1, Max: 5, Step: 1}
)

// Clamp bounds v to the range and snaps it to the nearest step.
func (r Range) Clamp(v int) int {
	if v <= r.Min {
		return r.Min
	}
	if v >= r.Max {
		return r.Max
	}
	if r.Step > 1 {
		n := math.Round(float64(v-r.Min) / float64(r.Step))
		v = r.Min + int(n)*r.Step
		if v > r.Max {
			v = r.Max
		}
	}
	return v
}

// Advance moves v by n steps and clamps the result.
func (r Range) Advance(v, n int) int {
	step := r.Step
	if step < 1 {
		step = 1
	}
	return r.Clamp(v + n*step)
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Fraction places v on [0,1] for drawing a slider bar.
func (r Range) Fraction(v int) float64 {
	if r.Max <= r.Min {
		return 0
	}
	f := float64(r.Clamp(v)-r.Min) / float64(r.Max-r.Min)
	return math.Max(0, math.Min(1, f))
}
