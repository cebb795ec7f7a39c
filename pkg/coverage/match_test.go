package coverage

import (
	"testing"
)

func departmentDataset() *Dataset {
	return NewDataset(Department, "dep",
		[]string{"Année", "Département Code", "Département", "BCG"},
		[][]string{
			{"2020", "75", "Paris", "90"},
			{"2021", " 75 ", "PARIS (ville)", "91"},
			{"2021", "750", "Paris", "10"},
			{"2021", "21", "Côte-d'Or", "88"},
			{"2021", "29", "Finistère", "93"},
		},
	)
}

func TestMatchDepartmentByCode(t *testing.T) {
	rows := Match(departmentDataset(), DepartmentTarget("75", "Côte-d'Or"))
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if code, _ := r.Get(ColDepartmentCode); code != "75" {
			t.Errorf("matched code %q, want 75", code)
		}
	}
}

func TestMatchDepartmentNameFallback(t *testing.T) {
	d := departmentDataset()

	rows := Match(d, DepartmentTarget("", "cote d or"))
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if name, _ := rows[0].Get(ColDepartment); name != "Côte-d'Or" {
		t.Errorf("matched %q", name)
	}

	// Code miss falls through to the name.
	rows = Match(d, DepartmentTarget("99", "Finistere"))
	if len(rows) != 1 {
		t.Errorf("code miss + name: rows = %d, want 1", len(rows))
	}

	// Code miss with no name never guesses.
	if rows := Match(d, DepartmentTarget("99", "")); len(rows) != 0 {
		t.Errorf("code miss without name: rows = %d, want 0", len(rows))
	}
}

func TestMatchDepartmentNameWithoutYear(t *testing.T) {
	d := NewDataset(Department, "dep",
		[]string{"Département", "BCG"},
		[][]string{
			{"Côte-d'Or", "88"},
			{"COTE D OR", "87"},
		},
	)
	rows := Match(d, DepartmentTarget("21", "Côte-d'Or"))
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want first row only", len(rows))
	}
	if v, _ := rows[0].Value("BCG"); v != 88 {
		t.Errorf("BCG = %v, want first row", v)
	}

	withYear := NewDataset(Department, "dep",
		[]string{"Année", "Département", "BCG"},
		[][]string{
			{"2020", "Côte-d'Or", "88"},
			{"2021", "COTE D OR", "87"},
		},
	)
	if rows := Match(withYear, DepartmentTarget("", "Côte-d'Or")); len(rows) != 2 {
		t.Errorf("multi-year rows = %d, want 2", len(rows))
	}
}

func TestMatchRegion(t *testing.T) {
	d := NewDataset(Region, "reg",
		[]string{"Année", "Région Code", "Région", "BCG"},
		[][]string{
			{"2020", "11", "Île-de-France", "80"},
			{"2021", "11", "ILE DE FRANCE", "81"},
			{"2021", "53", "Bretagne", "92"},
		},
	)
	tests := []struct {
		target Target
		want   int
	}{
		{RegionTarget("ile de france"), 2},
		{RegionTarget("Île-de-France"), 2},
		{RegionTarget("bretagne"), 1},
		{RegionTarget("Normandie"), 0},
		{RegionTarget(""), 0},
		{Target{Kind: TargetRegion, Code: "53", Name: "Île-de-France"}, 1},
		{NationTarget(), 3},
	}
	for _, tt := range tests {
		if got := Match(d, tt.target); len(got) != tt.want {
			t.Errorf("Match(%+v) = %d rows, want %d", tt.target, len(got), tt.want)
		}
	}
}

func TestMatchNotLoaded(t *testing.T) {
	rows := Match(nil, RegionTarget("Bretagne"))
	if rows == nil || len(rows) != 0 {
		t.Errorf("nil dataset: got %v, want empty non-nil slice", rows)
	}
	empty := NewDataset(Region, "reg", []string{"Année", "Région"}, nil)
	if rows := Match(empty, RegionTarget("Bretagne")); len(rows) != 0 {
		t.Errorf("empty dataset: got %d rows", len(rows))
	}
}

func TestMatchMissingKeyColumn(t *testing.T) {
	d := NewDataset(Nation, "fr", []string{"Année", "BCG"}, [][]string{{"2021", "90"}})
	if rows := Match(d, DepartmentTarget("75", "Paris")); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
