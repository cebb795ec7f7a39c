package coverage

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/vaxatlas/pkg/geo"
)

// TargetKind selects how Match resolves a Target.
type TargetKind int

const (
	TargetNation TargetKind = iota
	TargetRegion
	TargetDepartment
)

func (k TargetKind) String() string {
	switch k {
	case TargetNation:
		return "nation"
	case TargetRegion:
		return "region"
	case TargetDepartment:
		return "department"
	default:
		return "unknown"
	}
}

func (k TargetKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *TargetKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "nation":
		*k = TargetNation
	case "region":
		*k = TargetRegion
	case "department":
		*k = TargetDepartment
	default:
		return fmt.Errorf("coverage: unknown target kind %q", b)
	}
	return nil
}

// Target is the geographic entity a caller wants rows for. Departments
// carry a code and, when known, a name for the fallback match.
type Target struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name,omitempty"`
	Code string     `json:"code,omitempty"`
}

// NationTarget selects every row of a dataset.
func NationTarget() Target { return Target{Kind: TargetNation} }

// RegionTarget selects rows by region name.
func RegionTarget(name string) Target { return Target{Kind: TargetRegion, Name: name} }

// DepartmentTarget selects rows by code, falling back to name.
func DepartmentTarget(code, name string) Target {
	return Target{Kind: TargetDepartment, Code: code, Name: name}
}

// Match returns the rows of d describing t. It never fails: a nil dataset,
// a missing key column and an unknown name all yield an empty slice.
func Match(d *Dataset, t Target) []Row {
	out := []Row{}
	if d.Len() == 0 {
		return out
	}

	switch t.Kind {
	case TargetNation:
		return append(out, d.Rows...)

	case TargetRegion:
		if code := strings.TrimSpace(t.Code); code != "" {
			out = matchExact(d, ColRegionCode, code)
			if len(out) > 0 {
				return out
			}
		}
		return matchName(d, ColRegion, t.Name, geo.KindRegion, false)

	case TargetDepartment:
		if code := strings.TrimSpace(t.Code); code != "" {
			out = matchExact(d, ColDepartmentCode, code)
			if len(out) > 0 {
				return out
			}
		}
		// Without a year column the export has one row per department.
		firstOnly := !d.HasColumn(ColYear)
		return matchName(d, ColDepartment, t.Name, geo.KindDepartment, firstOnly)
	}
	return out
}

func matchExact(d *Dataset, col, value string) []Row {
	out := []Row{}
	for _, r := range d.Rows {
		if v, ok := r.Get(col); ok && v == value {
			out = append(out, r)
		}
	}
	return out
}

func matchName(d *Dataset, col, name string, kind geo.Kind, firstOnly bool) []Row {
	out := []Row{}
	key := geo.Normalize(name, kind)
	if key == "" {
		return out
	}
	for _, r := range d.Rows {
		v, ok := r.Get(col)
		if !ok || geo.Normalize(v, kind) != key {
			continue
		}
		out = append(out, r)
		if firstOnly {
			break
		}
	}
	return out
}
