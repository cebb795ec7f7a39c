package atlas

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/vaxatlas/pkg/cache"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

const maxSuggestions = 3

// Stats is everything a chart needs for one geographic entity.
type Stats struct {
	Level       string                      `json:"level"`
	Target      coverage.Target             `json:"target"`
	DisplayName string                      `json:"display_name,omitempty"`
	Region      string                      `json:"region,omitempty"`
	Loaded      bool                        `json:"loaded"`
	NoData      bool                        `json:"no_data"`
	Rows        []coverage.Row              `json:"rows"`
	Available   []string                    `json:"available"`
	Indicators  []string                    `json:"indicators"`
	Years       []string                    `json:"years"`
	Series      map[string][]coverage.Point `json:"series"`
	Averages    map[string]float64          `json:"averages"`
	PieSlices   []string                    `json:"pie_slices"`
	Suggestions []string                    `json:"suggestions,omitempty"`
}

func granularityOf(k coverage.TargetKind) coverage.Granularity {
	switch k {
	case coverage.TargetRegion:
		return coverage.Region
	case coverage.TargetDepartment:
		return coverage.Department
	default:
		return coverage.Nation
	}
}

// resolve fills in display data and, for departments without a name, the
// administrative name used by the fallback match.
func (a *Atlas) resolve(t coverage.Target) (coverage.Target, string, string) {
	switch t.Kind {
	case coverage.TargetRegion:
		if name, ok := geo.CanonicalRegion(t.Name); ok {
			return t, name, ""
		}
		return t, t.Name, ""
	case coverage.TargetDepartment:
		if t.Code != "" {
			t.Code = geo.PadCode(t.Code)
		}
		if t.Name == "" && t.Code != "" {
			if f, ok := a.Index().Department(t.Code); ok && f.Name() != "" {
				t.Name = f.Name()
			} else if n, ok := geo.NameOf(t.Code); ok {
				t.Name = n
			}
		}
		display := t.Name
		if display == "" {
			display = geo.DisplayName(t.Code)
		}
		region, _ := geo.RegionOf(t.Code)
		return t, display, region
	default:
		return t, "France", ""
	}
}

// Stats matches t against its dataset and derives series and averages for
// indicators. An empty indicator list selects every meaningful indicator of
// the matched rows. A dataset that has not loaded yet answers like one with
// no matching rows.
func (a *Atlas) Stats(t coverage.Target, indicators []string) *Stats {
	t, display, region := a.resolve(t)
	d := a.Dataset(granularityOf(t.Kind))
	rows := coverage.Match(d, t)

	s := &Stats{
		Level:       t.Kind.String(),
		Target:      t,
		DisplayName: display,
		Region:      region,
		Loaded:      d != nil,
		NoData:      len(rows) == 0,
		Rows:        rows,
		Available:   coverage.MeaningfulColumns(rows),
		Years:       coverage.Years(rows),
	}
	if len(indicators) == 0 {
		indicators = s.Available
	}
	s.Indicators = append([]string{}, indicators...)
	s.Series = coverage.BuildTimeSeries(rows, s.Indicators)
	s.Averages = coverage.BuildAverages(rows, s.Indicators)
	s.PieSlices = coverage.NonZero(s.Averages)

	if s.NoData {
		metrics.EmptyMatchesTotal.WithLabelValues(s.Level).Inc()
		switch t.Kind {
		case coverage.TargetRegion:
			s.Suggestions = geo.Suggest(t.Name, geo.KindRegion, maxSuggestions)
		case coverage.TargetDepartment:
			s.Suggestions = geo.Suggest(t.Name, geo.KindDepartment, maxSuggestions)
		}
	}
	return s
}

// StatsJSON is Stats encoded as JSON, served from the cache when one is
// configured.
func (a *Atlas) StatsJSON(ctx context.Context, t coverage.Target, indicators []string) ([]byte, error) {
	var key string
	if a.cache != nil {
		key = cache.Key(t.Kind.String(), a.generation()+"|"+targetKey(t), indicators)
		if b, ok := a.cache.Get(ctx, key); ok {
			return b, nil
		}
	}
	b, err := json.Marshal(a.Stats(t, indicators))
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	if a.cache != nil {
		a.cache.Set(ctx, key, b)
	}
	return b, nil
}

func targetKey(t coverage.Target) string {
	switch t.Kind {
	case coverage.TargetRegion:
		return t.Code + "/" + geo.Normalize(t.Name, geo.KindRegion)
	case coverage.TargetDepartment:
		return geo.PadCode(t.Code) + "/" + geo.Normalize(t.Name, geo.KindDepartment)
	default:
		return ""
	}
}
