package atlas

import (
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
	"github.com/hazyhaar/vaxatlas/pkg/selection"
)

// DepartmentRef names one department polygon of the selected region.
type DepartmentRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// View is what a front-end renders for a session: the selection, the
// focused entity's stats and, below nation level, the departments of the
// selected region.
type View struct {
	Selection   selection.Snapshot `json:"selection"`
	Stats       *Stats             `json:"stats"`
	Departments []DepartmentRef    `json:"departments,omitempty"`
}

// TargetOf maps a selection to the entity it focuses.
func TargetOf(s selection.Snapshot) coverage.Target {
	switch s.Level {
	case selection.LevelDepartment:
		return coverage.DepartmentTarget(s.DepartmentCode, s.DepartmentName)
	case selection.LevelRegion:
		return coverage.RegionTarget(s.Region)
	default:
		return coverage.NationTarget()
	}
}

// View derives the render state of a session snapshot using the default
// indicator selection.
func (a *Atlas) View(s selection.Snapshot) *View {
	v := &View{Selection: s, Stats: a.Stats(TargetOf(s), nil)}
	if s.Region != "" {
		idx := a.Index()
		for _, f := range idx.DepartmentsOf(s.Region).Features {
			v.Departments = append(v.Departments, DepartmentRef{Code: f.Code(), Name: idx.PolygonName(f.Code())})
		}
	}
	return v
}

// RegionDepartments returns the department polygons of region.
func (a *Atlas) RegionDepartments(region string) *geo.FeatureCollection {
	return a.Index().DepartmentsOf(region)
}
