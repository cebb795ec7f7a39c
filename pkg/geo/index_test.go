package geo

import (
	"strings"
	"testing"
)

const testDepartments = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"code": "29", "nom": "Finistère"}, "geometry": {"type": "Polygon", "coordinates": []}},
    {"type": "Feature", "properties": {"code": "35", "nom": "Ille-et-Vilaine"}, "geometry": null},
    {"type": "Feature", "properties": {"code": 1, "nom": "Ain"}},
    {"type": "Feature", "properties": {"code": "75", "nom": "Paris"}},
    {"type": "Feature", "properties": {"code": "2a", "nom": "Corse-du-Sud"}},
    {"type": "Feature", "properties": {"code": "99", "nom": "Nulle Part"}}
  ]
}`

const testRegions = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"code": "53", "nom": "Bretagne"}},
    {"type": "Feature", "properties": {"code": "11", "nom": "Île-de-France"}}
  ]
}`

func testIndex(t *testing.T) *Index {
	t.Helper()
	depts, err := DecodeFeatureCollection(strings.NewReader(testDepartments))
	if err != nil {
		t.Fatalf("decode departments: %v", err)
	}
	regions, err := DecodeFeatureCollection(strings.NewReader(testRegions))
	if err != nil {
		t.Fatalf("decode regions: %v", err)
	}
	return NewIndex(regions, depts)
}

func TestTablesAreTotal(t *testing.T) {
	if len(departmentNames) != 101 {
		t.Errorf("departmentNames = %d entries, want 101", len(departmentNames))
	}
	if len(departmentRegion) != 101 {
		t.Errorf("departmentRegion = %d entries, want 101", len(departmentRegion))
	}
	for code := range departmentNames {
		if _, ok := departmentRegion[code]; !ok {
			t.Errorf("code %s has a name but no region", code)
		}
	}
}

func TestRegionOf(t *testing.T) {
	tests := []struct {
		code, want string
		ok         bool
	}{
		{"29", "Bretagne", true},
		{"2A", "Corse", true},
		{"2b", "Corse", true},
		{"1", "Auvergne-Rhône-Alpes", true},
		{"974", "La Réunion", true},
		{"975", "", false},
	}
	for _, tt := range tests {
		got, ok := RegionOf(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RegionOf(%q) = %q, %v; want %q, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("21"); got != "Côte-d'Or" {
		t.Errorf("DisplayName(21) = %q", got)
	}
	if got := DisplayName("00"); got != UnknownDepartment {
		t.Errorf("DisplayName(00) = %q, want %q", got, UnknownDepartment)
	}
}

func TestDepartmentsOf(t *testing.T) {
	ix := testIndex(t)

	tests := []struct {
		region string
		codes  []string
	}{
		{"Bretagne", []string{"29", "35"}},
		{"bretagne", []string{"29", "35"}},
		{"ILE DE FRANCE", []string{"75"}},
		{"Auvergne et Rhône-Alpes", []string{"01"}},
		{"Corse", []string{"2A"}},
		{"Normandie", nil},
		{"", nil},
	}
	for _, tt := range tests {
		fc := ix.DepartmentsOf(tt.region)
		if fc.Len() != len(tt.codes) {
			t.Errorf("DepartmentsOf(%q) = %d features, want %d", tt.region, fc.Len(), len(tt.codes))
			continue
		}
		for i, f := range fc.Features {
			if f.Code() != tt.codes[i] {
				t.Errorf("DepartmentsOf(%q)[%d] = %s, want %s", tt.region, i, f.Code(), tt.codes[i])
			}
		}
	}

	// Cached result is the same collection.
	if ix.DepartmentsOf("Bretagne") != ix.DepartmentsOf("bretagne") {
		t.Error("expected cached collection for equal normalized keys")
	}
}

func TestIndexUnmapped(t *testing.T) {
	ix := testIndex(t)
	got := ix.Unmapped()
	if len(got) != 1 || got[0] != "99" {
		t.Errorf("Unmapped = %v, want [99]", got)
	}
}

func TestIndexLookups(t *testing.T) {
	ix := testIndex(t)

	if f, ok := ix.Department("1"); !ok || f.Name() != "Ain" {
		t.Errorf("Department(1) = %v, %v", f.Name(), ok)
	}
	if _, ok := ix.Region("ile de france"); !ok {
		t.Error("Region(ile de france) not found")
	}
	if got := ix.PolygonName("99"); got != "Nulle Part" {
		t.Errorf("PolygonName(99) = %q, want polygon name", got)
	}
	if got := ix.PolygonName("56"); got != "Morbihan" {
		t.Errorf("PolygonName(56) = %q, want table name", got)
	}
	if got := ix.PolygonName("00"); got != UnknownDepartment {
		t.Errorf("PolygonName(00) = %q, want %q", got, UnknownDepartment)
	}
}

func TestEmptyIndex(t *testing.T) {
	ix := NewIndex(nil, nil)
	if ix.DepartmentsOf("Bretagne").Len() != 0 {
		t.Error("expected no departments before polygons load")
	}
	if ix.RegionFeatures().Len() != 0 {
		t.Error("expected no regions before polygons load")
	}
	if _, ok := ix.Department("29"); ok {
		t.Error("expected no department before polygons load")
	}
}
