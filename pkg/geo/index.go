package geo

import (
	"sort"
	"sync"
)

// RegionOf returns the region display name of a department code.
func RegionOf(code string) (string, bool) {
	r, ok := departmentRegion[PadCode(code)]
	return r, ok
}

// NameOf returns the department display name of a code.
func NameOf(code string) (string, bool) {
	n, ok := departmentNames[PadCode(code)]
	return n, ok
}

// DisplayName is NameOf with the UnknownDepartment fallback.
func DisplayName(code string) string {
	if n, ok := NameOf(code); ok {
		return n
	}
	return UnknownDepartment
}

// Regions returns the display names of all regions.
func Regions() []string {
	out := make([]string, len(regionNames))
	copy(out, regionNames)
	return out
}

// DepartmentCodes returns every known department code, sorted.
func DepartmentCodes() []string {
	codes := make([]string, 0, len(departmentNames))
	for c := range departmentNames {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// CanonicalRegion maps any spelling of a region to its display name.
func CanonicalRegion(name string) (string, bool) {
	key := Normalize(name, KindRegion)
	if key == "" {
		return "", false
	}
	for _, r := range regionNames {
		if Normalize(r, KindRegion) == key {
			return r, true
		}
	}
	return "", false
}

// Index holds the boundary polygons for a session and answers
// region/department lookups against them.
type Index struct {
	regions     *FeatureCollection
	departments *FeatureCollection

	mu       sync.RWMutex
	byRegion map[string]*FeatureCollection
	unmapped []string
}

// NewIndex builds an index over the given collections. Either may be nil
// (not loaded yet); lookups against a missing collection return nothing.
func NewIndex(regions, departments *FeatureCollection) *Index {
	ix := &Index{
		regions:     regions,
		departments: departments,
		byRegion:    make(map[string]*FeatureCollection),
	}
	if departments != nil {
		for _, f := range departments.Features {
			if _, ok := RegionOf(f.Code()); !ok {
				ix.unmapped = append(ix.unmapped, f.Code())
			}
		}
	}
	return ix
}

// Unmapped lists department polygon codes with no region in the static table.
func (ix *Index) Unmapped() []string {
	return ix.unmapped
}

// RegionFeatures returns the region polygons, or an empty collection.
func (ix *Index) RegionFeatures() *FeatureCollection {
	if ix.regions == nil {
		return subset(nil)
	}
	return ix.regions
}

// DepartmentsOf returns the department polygons whose code maps to region.
// The region name is compared by normalized key; results are cached.
func (ix *Index) DepartmentsOf(region string) *FeatureCollection {
	key := Normalize(region, KindRegion)
	if key == "" || ix.departments == nil {
		return subset(nil)
	}

	ix.mu.RLock()
	fc, ok := ix.byRegion[key]
	ix.mu.RUnlock()
	if ok {
		return fc
	}

	var features []Feature
	for _, f := range ix.departments.Features {
		r, ok := RegionOf(f.Code())
		if ok && Normalize(r, KindRegion) == key {
			features = append(features, f)
		}
	}
	fc = subset(features)

	ix.mu.Lock()
	ix.byRegion[key] = fc
	ix.mu.Unlock()
	return fc
}

// Department returns the polygon for a department code.
func (ix *Index) Department(code string) (Feature, bool) {
	if ix.departments == nil {
		return Feature{}, false
	}
	code = PadCode(code)
	for _, f := range ix.departments.Features {
		if f.Code() == code {
			return f, true
		}
	}
	return Feature{}, false
}

// Region returns the polygon whose name normalizes like name.
func (ix *Index) Region(name string) (Feature, bool) {
	if ix.regions == nil {
		return Feature{}, false
	}
	for _, f := range ix.regions.Features {
		if SameName(f.Name(), name, KindRegion) {
			return f, true
		}
	}
	return Feature{}, false
}

// PolygonName resolves the administrative name of a department polygon:
// the polygon's own name when present, else the static table.
func (ix *Index) PolygonName(code string) string {
	if f, ok := ix.Department(code); ok && f.Name() != "" {
		return f.Name()
	}
	return DisplayName(code)
}
