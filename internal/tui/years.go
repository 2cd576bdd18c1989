package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"bikeheat/internal/hexbin"
	"bikeheat/internal/state"
)

// yearSummary is one row of the per-year table.
type yearSummary struct {
	year     int
	count    int
	hexagons int
	densest  int
}

// summarizeYears counts incidents per slider year and how they bin at radius.
func summarizeYears(s state.Snapshot) []yearSummary {
	var out []yearSummary
	for y := state.YearRange.Min; y <= state.YearRange.Max; y++ {
		pts := state.ByYear(s.Data, y)
		row := yearSummary{year: y, count: len(pts)}
		if len(pts) > 0 {
			bins, _, err := hexbin.Aggregate(pts, float64(s.Radius))
			if err == nil {
				row.hexagons = len(bins)
				row.densest = hexbin.MaxCount(bins)
			}
		}
		out = append(out, row)
	}
	return out
}

// refreshYears rebuilds the table from the loaded dataset.
func (m *Model) refreshYears() bool {
	s := m.filter.Snapshot()
	if !s.Loaded || len(s.Data) == 0 {
		m.showYears = false
		m.status = "no data loaded"
		return false
	}
	cols := []table.Column{
		{Title: "Year", Width: 6},
		{Title: "Incidents", Width: 10},
		{Title: "Hexagons", Width: 9},
		{Title: "Densest", Width: 8},
	}
	var rows []table.Row
	cursor := 0
	for i, r := range summarizeYears(s) {
		rows = append(rows, table.Row{
			strconv.Itoa(r.year),
			strconv.Itoa(r.count),
			strconv.Itoa(r.hexagons),
			strconv.Itoa(r.densest),
		})
		if r.year == s.Year {
			cursor = i
		}
	}
	// clear rows before swapping columns so the table never sees a mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.SetCursor(cursor)
	m.status = fmt.Sprintf("years at radius %d m", s.Radius)
	return true
}

// selectYear moves the year slider to the highlighted row.
func (m *Model) selectYear() {
	row := m.tbl.SelectedRow()
	if len(row) == 0 {
		return
	}
	y, err := strconv.Atoi(row[0])
	if err != nil {
		return
	}
	m.filter.SetYear(y)
	m.focus = sliderYear
	m.showYears = false
}
