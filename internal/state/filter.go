// Package state holds the slider parameters and the loaded dataset, and keeps
// the year-filtered subset current.
//
// A Filter is owned by the UI loop and is not safe for concurrent use.
package state

import "bikeheat/internal/geom"

type Params struct {
	Radius   int
	Year     int
	MinValue int
}

func DefaultParams() Params {
	return Params{Radius: 50, Year: 2003, MinValue: 2}
}

// Clamp bounds every parameter to its slider range.
func (p Params) Clamp() Params {
	return Params{
		Radius:   RadiusRange.Clamp(p.Radius),
		Year:     YearRange.Clamp(p.Year),
		MinValue: MinValueRange.Clamp(p.MinValue),
	}
}

// Snapshot is a read-only view handed to listeners. Data and Filtered must not
// be modified; Filtered is replaced, never edited, when it changes.
type Snapshot struct {
	Params
	Loaded   bool
	Data     []geom.DataPoint
	Filtered []geom.DataPoint
}

type Filter struct {
	params    Params
	loaded    bool
	data      []geom.DataPoint
	filtered  []geom.DataPoint
	listeners []func(Snapshot)
}

func New(p Params) *Filter {
	return &Filter{params: p.Clamp()}
}

func (f *Filter) Params() Params { return f.params }

func (f *Filter) Snapshot() Snapshot {
	return Snapshot{
		Params:   f.params,
		Loaded:   f.loaded,
		Data:     f.data,
		Filtered: f.filtered,
	}
}

// Subscribe registers fn to run after every change.
func (f *Filter) Subscribe(fn func(Snapshot)) {
	f.listeners = append(f.listeners, fn)
}

func (f *Filter) SetRadius(v int) {
	v = RadiusRange.Clamp(v)
	if v == f.params.Radius {
		return
	}
	f.params.Radius = v
	f.notify()
}

func (f *Filter) SetYear(v int) {
	v = YearRange.Clamp(v)
	if v == f.params.Year {
		return
	}
	f.params.Year = v
	f.refilter()
	f.notify()
}

func (f *Filter) SetMinValue(v int) {
	v = MinValueRange.Clamp(v)
	if v == f.params.MinValue {
		return
	}
	f.params.MinValue = v
	f.notify()
}

// SetData installs the loaded dataset. An empty slice still counts as loaded.
func (f *Filter) SetData(points []geom.DataPoint) {
	f.data = points
	f.loaded = true
	f.refilter()
	f.notify()
}

func (f *Filter) refilter() {
	if !f.loaded {
		f.filtered = nil
		return
	}
	f.filtered = ByYear(f.data, f.params.Year)
}

func (f *Filter) notify() {
	s := f.Snapshot()
	for _, fn := range f.listeners {
		fn(s)
	}
}

// ByYear returns the points reported in year, in input order. The result is a
// new slice and is never nil.
func ByYear(points []geom.DataPoint, year int) []geom.DataPoint {
	out := make([]geom.DataPoint, 0)
	for _, p := range points {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}
