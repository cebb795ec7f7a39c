package coverage

import (
	"sort"
)

// Point is one (year, value) sample. A nil Value is a gap: the cell was
// absent or not numeric. Gaps are never stored as zero.
type Point struct {
	Year  string   `json:"year"`
	Value *float64 `json:"value"`
}

// Gap reports whether the point has no value.
func (p Point) Gap() bool { return p.Value == nil }

// Or returns the value, or def for a gap. Bar charts plot gaps as zero.
func (p Point) Or(def float64) float64 {
	if p.Value == nil {
		return def
	}
	return *p.Value
}

// Years returns the sorted distinct years of rows. Years are four-digit
// strings, so lexical order is chronological. A row without a year (no
// Année column, or a blank cell) contributes the label "", which sorts
// first: a yearless slice still charts as one point.
func Years(rows []Row) []string {
	seen := make(map[string]bool)
	years := []string{}
	for _, r := range rows {
		y := r.Year()
		if seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// BuildTimeSeries returns, for each indicator, one point per year of rows.
// When several rows share a year the first one wins.
func BuildTimeSeries(rows []Row, indicators []string) map[string][]Point {
	years := Years(rows)
	byYear := make(map[string]Row, len(years))
	for _, r := range rows {
		y := r.Year()
		if _, ok := byYear[y]; !ok {
			byYear[y] = r
		}
	}

	out := make(map[string][]Point, len(indicators))
	for _, ind := range indicators {
		points := make([]Point, len(years))
		for i, y := range years {
			points[i] = Point{Year: y}
			if v, ok := byYear[y].Value(ind); ok {
				points[i].Value = &v
			}
		}
		out[ind] = points
	}
	return out
}

// BuildAverages returns the mean of the numeric cells of each indicator
// across rows. Gaps are skipped; an indicator with no numeric cell averages
// to 0.
func BuildAverages(rows []Row, indicators []string) map[string]float64 {
	out := make(map[string]float64, len(indicators))
	for _, ind := range indicators {
		var sum float64
		var n int
		for _, r := range rows {
			if v, ok := r.Value(ind); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			out[ind] = sum / float64(n)
		} else {
			out[ind] = 0
		}
	}
	return out
}

// MeaningfulColumns returns the indicators of rows that have at least one
// value > 0, in header order.
func MeaningfulColumns(rows []Row) []string {
	out := []string{}
	for _, ind := range Indicators(rows) {
		for _, r := range rows {
			if v, ok := r.Value(ind); ok && v > 0 {
				out = append(out, ind)
				break
			}
		}
	}
	return out
}

// NonZero lists, sorted, the indicators whose average is above zero. Pie
// charts draw only these slices.
func NonZero(averages map[string]float64) []string {
	out := []string{}
	for ind, v := range averages {
		if v > 0 {
			out = append(out, ind)
		}
	}
	sort.Strings(out)
	return out
}
