package geo

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how different a suggestion may be, as a share
// of the longer key.
const maxSuggestDistance = 0.4

// Suggest returns up to n known names closest to raw, for "did you mean"
// hints when a lookup matched nothing. It never feeds back into matching.
func Suggest(raw string, kind Kind, n int) []string {
	key := Normalize(raw, kind)
	if key == "" || n <= 0 {
		return nil
	}

	var candidates []string
	if kind == KindDepartment {
		for _, c := range DepartmentCodes() {
			candidates = append(candidates, departmentNames[c])
		}
	} else {
		candidates = regionNames
	}

	type scored struct {
		name string
		dist float64
	}
	var hits []scored
	for _, name := range candidates {
		ck := Normalize(name, kind)
		if ck == key {
			continue
		}
		longest := max(len(ck), len(key))
		d := float64(levenshtein.ComputeDistance(key, ck)) / float64(longest)
		if d <= maxSuggestDistance {
			hits = append(hits, scored{name, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]string, 0, n)
	for _, h := range hits {
		if len(out) == n {
			break
		}
		out = append(out, h.name)
	}
	return out
}
