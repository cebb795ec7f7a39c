package coverage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRowValue(t *testing.T) {
	row := NewRow(
		[]string{"Année", "Région", "BCG", "ROR", "HPV", "Grippe", "Comma", "Pct", "Space", "Nbsp", "Narrow"},
		[]string{"2021", "Bretagne", " 92.3 ", "", "n/a", "NaN", "85,5", "70%", "1 234,5", "12\u00a0345", "2\u202f000,25"},
	)

	tests := []struct {
		col  string
		want float64
		ok   bool
	}{
		{"BCG", 92.3, true},
		{"ROR", 0, false},
		{"HPV", 0, false},
		{"Grippe", 0, false},
		{"Comma", 85.5, true},
		{"Pct", 70, true},
		{"Space", 1234.5, true},
		{"Nbsp", 12345, true},
		{"Narrow", 2000.25, true},
		{"Missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := row.Value(tt.col)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Value(%q) = %v, %v; want %v, %v", tt.col, got, ok, tt.want, tt.ok)
		}
	}
	if row.Year() != "2021" {
		t.Errorf("Year() = %q, want 2021", row.Year())
	}
}

func TestRowShortRecord(t *testing.T) {
	row := NewRow([]string{"Année", "BCG", "ROR"}, []string{"2020", "90"})
	if _, ok := row.Get("ROR"); ok {
		t.Error("cell past the end of a short record should be absent")
	}
	if _, ok := (Row{}).Get("BCG"); ok {
		t.Error("zero row should have no cells")
	}
}

func TestRowMarshalJSON(t *testing.T) {
	row := NewRow(
		[]string{"Année", "Département Code", "Département", "BCG", "ROR"},
		[]string{"2021", "01", "Ain", "92.3", ""},
	)
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"Année":2021,"Département Code":"01","Département":"Ain","BCG":92.3,"ROR":null}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant      %s", data, want)
	}

	for year, want := range map[string]string{
		"02021":     `{"Année":2021}`,
		"2021-2022": `{"Année":"2021-2022"}`,
	} {
		data, err := json.Marshal(NewRow([]string{"Année"}, []string{year}))
		if err != nil {
			t.Fatalf("Marshal(%q): %v", year, err)
		}
		if string(data) != want {
			t.Errorf("Marshal(%q) = %s, want %s", year, data, want)
		}
	}
}

func TestIndicators(t *testing.T) {
	d := NewDataset(Region, "test",
		[]string{"Année", "Région Code", "Région", "", "BCG", "ROR", "Territoire"},
		[][]string{{"2021", "53", "Bretagne", "", "92.3", "80", "x"}},
	)
	if diff := cmp.Diff([]string{"BCG", "ROR"}, d.Indicators()); diff != "" {
		t.Errorf("Indicators mismatch (-want +got):\n%s", diff)
	}

	var empty *Dataset
	if got := empty.Indicators(); len(got) != 0 {
		t.Errorf("nil dataset indicators = %v", got)
	}
	if empty.Len() != 0 {
		t.Error("nil dataset should have no rows")
	}
}

func TestNewDatasetDropsBlankRecords(t *testing.T) {
	d := NewDataset(Nation, "test", []string{"Année", "BCG"}, [][]string{
		{"2020", "90"},
		{"", " "},
		{},
		{"2021", "91"},
	})
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestIsKeyColumn(t *testing.T) {
	for _, col := range []string{"Année", "Région", "Région Code", "Département", "Département Code", "Territoire", "", "  "} {
		if !IsKeyColumn(col) {
			t.Errorf("IsKeyColumn(%q) = false", col)
		}
	}
	if IsKeyColumn("BCG") {
		t.Error("IsKeyColumn(BCG) = true")
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input string
		want  Granularity
		ok    bool
	}{
		{"region", Region, true},
		{"Département", Department, true},
		{"national", Nation, true},
		{"commune", Nation, false},
	}
	for _, tt := range tests {
		got, ok := ParseGranularity(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseGranularity(%q) = %v, %v", tt.input, got, ok)
		}
	}
	if s := strings.ToUpper(Department.String()); s != "DEPARTMENT" {
		t.Errorf("String = %q", s)
	}
}

func TestMapColumn(t *testing.T) {
	cols := []string{ColYear, ColDepartmentCode, "Grippe 65 ans et plus"}
	d := NewDataset(Department, "dep", cols, [][]string{
		{"2020", "1", "55"},
		{"2020", "2a", "48"},
		{"2021"},
	})

	padded := d.MapColumn(ColDepartmentCode, strings.ToUpper)
	var got []string
	for _, r := range padded.Rows {
		c, _ := r.Get(ColDepartmentCode)
		got = append(got, c)
	}
	if diff := cmp.Diff([]string{"1", "2A", ""}, got); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
	if c, _ := d.Rows[1].Get(ColDepartmentCode); c != "2a" {
		t.Errorf("original mutated: %q", c)
	}
	if same := d.MapColumn("absent", strings.ToUpper); same != d {
		t.Error("missing column should return the dataset itself")
	}
}
