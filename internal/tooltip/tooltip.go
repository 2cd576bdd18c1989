// Package tooltip formats the hover text for an aggregated bin.
package tooltip

import (
	"fmt"
	"math"
	"strconv"

	"bikeheat/internal/hexbin"
)

// Format returns the tooltip for bin, or false when nothing is hovered.
func Format(bin *hexbin.Bin) (string, bool) {
	if bin == nil {
		return "", false
	}
	return fmt.Sprintf("latitude: %s\nlongitude: %s\n%d %s",
		coord(bin.Lat()), coord(bin.Lon()), bin.Count, noun(bin.Count)), true
}

func noun(count int) string {
	if count == 1 {
		return "Bicycle Theft"
	}
	return "Bicycle Thefts"
}

// coord prints six decimals, or nothing for NaN and infinities.
func coord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
