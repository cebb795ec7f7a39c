// Package export writes the derived series and averages of a Stats result
// as a spreadsheet (xlsx) or a semicolon-delimited CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
)

const (
	seriesSheet   = "Évolution"
	averagesSheet = "Moyennes"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want xlsx or csv)", s)
	}
}

// Write dispatches on format.
func Write(w io.Writer, s *atlas.Stats, format Format) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV writes one line per year with a column per indicator, followed by
// an average line. Gaps are left empty.
func WriteCSV(w io.Writer, s *atlas.Stats) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(append([]string{coverage.ColYear}, s.Indicators...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, year := range s.Years {
		rec := make([]string, 0, len(s.Indicators)+1)
		rec = append(rec, year)
		for _, ind := range s.Indicators {
			rec = append(rec, formatPoint(pointAt(s.Series[ind], i)))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", year, err)
		}
	}
	if len(s.Years) > 0 {
		rec := []string{"Moyenne"}
		for _, ind := range s.Indicators {
			rec = append(rec, strconv.FormatFloat(s.Averages[ind], 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv averages: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a series sheet (years by indicators) and
// an averages sheet (indicator, average).
func WriteXLSX(w io.Writer, s *atlas.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", seriesSheet)
	if _, err := f.NewSheet(averagesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header := append([]string{coverage.ColYear}, s.Indicators...)
	for i, h := range header {
		if err := setCell(f, seriesSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	f.SetColWidth(seriesSheet, "A", "A", 10)
	if len(header) > 1 {
		last, _ := excelize.ColumnNumberToName(len(header))
		f.SetColWidth(seriesSheet, "B", last, 18)
	}

	for r, year := range s.Years {
		if err := setCell(f, seriesSheet, 1, r+2, year); err != nil {
			return err
		}
		for c, ind := range s.Indicators {
			p := pointAt(s.Series[ind], r)
			if p.Gap() {
				continue
			}
			if err := setCell(f, seriesSheet, c+2, r+2, *p.Value); err != nil {
				return err
			}
		}
	}

	if err := setCell(f, averagesSheet, 1, 1, "Indicateur"); err != nil {
		return err
	}
	if err := setCell(f, averagesSheet, 2, 1, "Moyenne"); err != nil {
		return err
	}
	f.SetColWidth(averagesSheet, "A", "A", 40)
	for i, ind := range s.Indicators {
		if err := setCell(f, averagesSheet, 1, i+2, ind); err != nil {
			return err
		}
		if err := setCell(f, averagesSheet, 2, i+2, s.Averages[ind]); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// pointAt tolerates series shorter than the year list.
func pointAt(points []coverage.Point, i int) coverage.Point {
	if i < len(points) {
		return points[i]
	}
	return coverage.Point{}
}

func formatPoint(p coverage.Point) string {
	if p.Gap() {
		return ""
	}
	return strconv.FormatFloat(*p.Value, 'f', -1, 64)
}
