package geom

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
)

// DefaultSource is where the cleaned incident export lives relative to the working directory.
const DefaultSource = "data/cleaned/vancouver_bicycle_thefts_cleaned.csv"

var (
	ErrEmptyCSV      = errors.New("csv: empty input")
	ErrMissingColumn = errors.New("csv: required column missing")
)

var requiredColumns = []string{"longitude", "latitude", "date_year"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// incidentRow is a raw row. Fields stay textual so a bad value drops the row
// instead of aborting the decode.
type incidentRow struct {
	Longitude string `csv:"longitude"`
	Latitude  string `csv:"latitude"`
	Year      string `csv:"date_year"`
}

// Stats counts what the decoder saw.
type Stats struct {
	Rows    int
	Dropped int
}

func (s Stats) Kept() int { return s.Rows - s.Dropped }

// DecodeIncidents reads incident rows in file order. Rows with a non-finite
// longitude or latitude, or a year that is not an integer, are dropped.
func DecodeIncidents(r io.Reader) ([]DataPoint, Stats, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, ErrEmptyCSV
		}
		return nil, Stats{}, err
	}
	if err := checkHeader(dec.Header()); err != nil {
		return nil, Stats{}, err
	}

	var (
		points []DataPoint
		st     Stats
	)
	for {
		var row incidentRow
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if errors.Is(err, csvutil.ErrFieldCount) {
			st.Rows++
			st.Dropped++
			continue
		}
		if err != nil {
			return nil, st, fmt.Errorf("csv: record %d: %w", st.Rows+1, err)
		}
		st.Rows++
		p, ok := row.point()
		if !ok {
			st.Dropped++
			continue
		}
		points = append(points, p)
	}
	return points, st, nil
}

func checkHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func (r incidentRow) point() (DataPoint, bool) {
	lon, ok := parseCoord(r.Longitude)
	if !ok {
		return DataPoint{}, false
	}
	lat, ok := parseCoord(r.Latitude)
	if !ok {
		return DataPoint{}, false
	}
	year, ok := parseYear(r.Year)
	if !ok {
		return DataPoint{}, false
	}
	return DataPoint{Lon: lon, Lat: lat, Year: year}, true
}

func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYear accepts "2019" and float spellings with no fraction such as "2019.0".
// Years outside the int32 range are rejected.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(y), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
