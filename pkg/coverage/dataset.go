// Package coverage holds parsed vaccination-coverage tables and derives the
// per-entity rows, time series and averages the dashboard charts consume.
package coverage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Granularity is the geographic level a dataset is reported at.
type Granularity int

const (
	Nation Granularity = iota
	Region
	Department
)

func (g Granularity) String() string {
	switch g {
	case Nation:
		return "nation"
	case Region:
		return "region"
	case Department:
		return "department"
	default:
		return "unknown"
	}
}

// ParseGranularity accepts the English names and their French forms.
func ParseGranularity(s string) (Granularity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nation", "national", "france":
		return Nation, true
	case "region", "région", "regional":
		return Region, true
	case "department", "departement", "département", "departmental":
		return Department, true
	default:
		return Nation, false
	}
}

func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Granularity) UnmarshalText(b []byte) error {
	v, ok := ParseGranularity(string(b))
	if !ok {
		return fmt.Errorf("unknown granularity %q", b)
	}
	*g = v
	return nil
}

// Key columns shared by the Santé publique France exports.
const (
	ColYear           = "Année"
	ColRegion         = "Région"
	ColRegionCode     = "Région Code"
	ColDepartment     = "Département"
	ColDepartmentCode = "Département Code"
	ColTerritory      = "Territoire"
)

var keyColumns = map[string]bool{
	ColYear:           true,
	ColRegion:         true,
	ColRegionCode:     true,
	ColDepartment:     true,
	ColDepartmentCode: true,
	ColTerritory:      true,
}

// IsKeyColumn reports whether a header names a year or geographic key rather
// than an indicator. Blank headers count as keys so they never surface as
// indicators.
func IsKeyColumn(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || keyColumns[name]
}

type header struct {
	names []string
	index map[string]int
}

func newHeader(names []string) *header {
	h := &header{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, dup := h.index[n]; !dup {
			h.index[n] = i
		}
	}
	return h
}

// Row is one record of a dataset. Cells are kept as raw text and parsed on
// demand, so an indicator set unknown until load time needs no schema.
type Row struct {
	h      *header
	values []string
}

// NewRow builds a standalone row. Rows of a Dataset share one header.
func NewRow(columns, record []string) Row {
	return Row{h: newHeader(columns), values: trimAll(record)}
}

// Columns returns the header the row was read with.
func (r Row) Columns() []string {
	if r.h == nil {
		return nil
	}
	return r.h.names
}

// Get returns the trimmed cell for col. ok is false when the column is not in
// the header or the record was short.
func (r Row) Get(col string) (string, bool) {
	if r.h == nil {
		return "", false
	}
	i, ok := r.h.index[col]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Year returns the year cell, or "" when absent.
func (r Row) Year() string {
	y, _ := r.Get(ColYear)
	return y
}

// Value parses col as a number. Empty, non-numeric, NaN and infinite cells
// are gaps (ok == false), never zero.
func (r Row) Value(col string) (float64, bool) {
	s, ok := r.Get(col)
	if !ok {
		return 0, false
	}
	return parseCell(s)
}

// digitGroups drops the thousands separators French exports use: plain,
// no-break and narrow no-break spaces.
var digitGroups = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	s = digitGroups.Replace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MarshalJSON writes the row as an object in header order. Indicator cells
// that parse as numbers are emitted as numbers, and so is an integer year.
// Other key columns stay strings.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, col := range r.Columns() {
		s, ok := r.Get(col)
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		if col == ColYear {
			if y, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				buf.WriteString(strconv.Itoa(y))
				continue
			}
		}
		if v, num := parseCell(s); num && !IsKeyColumn(col) {
			buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			continue
		}
		if !IsKeyColumn(col) && s == "" {
			buf.WriteString("null")
			continue
		}
		sv, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(sv)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is one fully parsed coverage table. It is built once and never
// mutated afterwards.
type Dataset struct {
	Granularity Granularity
	Source      string
	Columns     []string
	Rows        []Row
}

// NewDataset builds a dataset from a header and raw records. Records with
// no non-blank cell are dropped.
func NewDataset(g Granularity, source string, columns []string, records [][]string) *Dataset {
	cols := trimAll(columns)
	h := newHeader(cols)
	d := &Dataset{Granularity: g, Source: source, Columns: cols, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		d.Rows = append(d.Rows, Row{h: h, values: trimAll(rec)})
	}
	return d
}

// Len is nil-safe; a nil dataset is one that has not loaded yet.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether the dataset header contains col.
func (d *Dataset) HasColumn(col string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// MapColumn returns a copy of d with fn applied to every cell of col.
// d is returned unchanged when it has no such column.
func (d *Dataset) MapColumn(col string, fn func(string) string) *Dataset {
	if !d.HasColumn(col) {
		return d
	}
	records := make([][]string, len(d.Rows))
	for i, r := range d.Rows {
		rec := append([]string(nil), r.values...)
		if j := r.h.index[col]; j < len(rec) {
			rec[j] = fn(rec[j])
		}
		records[i] = rec
	}
	return NewDataset(d.Granularity, d.Source, d.Columns, records)
}

// Indicators returns the dataset's indicator columns.
func (d *Dataset) Indicators() []string {
	if d == nil {
		return []string{}
	}
	return Indicators(d.Rows)
}

// Indicators derives the indicator set from the header of the first row,
// excluding key columns.
func Indicators(rows []Row) []string {
	out := []string{}
	if len(rows) == 0 {
		return out
	}
	for _, c := range rows[0].Columns() {
		if !IsKeyColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func blank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
