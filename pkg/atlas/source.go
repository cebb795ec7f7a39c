package atlas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
)

// Source kinds.
const (
	KindCoverage    = "coverage"
	KindRegions     = "regions"
	KindDepartments = "departments"
)

// Source is one input fetched once per process: a coverage table or a
// boundary polygon collection.
type Source struct {
	ID          string          `yaml:"id" json:"id"`
	Kind        string          `yaml:"kind" json:"kind"`
	Granularity string          `yaml:"granularity,omitempty" json:"granularity,omitempty"`
	Location    string          `yaml:"location" json:"location"`
	Format      coverage.Format `yaml:"format,omitempty" json:"-"`
}

// Validate checks the fields Load depends on.
func (s Source) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("source: missing id")
	}
	if s.Location == "" {
		return fmt.Errorf("source %s: missing location", s.ID)
	}
	switch s.Kind {
	case KindCoverage:
		if _, ok := coverage.ParseGranularity(s.Granularity); !ok {
			return fmt.Errorf("source %s: unknown granularity %q", s.ID, s.Granularity)
		}
	case KindRegions, KindDepartments:
	default:
		return fmt.Errorf("source %s: unknown kind %q", s.ID, s.Kind)
	}
	return nil
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// open returns a reader over a URL or a local file. URLs are fetched with a
// single GET.
func open(ctx context.Context, client *http.Client, loc string) (io.ReadCloser, error) {
	if !isURL(loc) {
		f, err := os.Open(loc)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", loc, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, loc)
	}
	return resp.Body, nil
}

// fetchDataset reads a coverage source. Local directories are imported
// dataset directories (manifest.yaml), .gob files are snapshots, anything
// else is a delimited export.
func fetchDataset(ctx context.Context, client *http.Client, s Source) (*coverage.Dataset, error) {
	g, _ := coverage.ParseGranularity(s.Granularity)

	var d *coverage.Dataset
	if !isURL(s.Location) {
		if fi, err := os.Stat(s.Location); err == nil && fi.IsDir() {
			d, _, err = coverage.LoadDir(s.Location)
			if err != nil {
				return nil, err
			}
		}
	}
	if d == nil {
		rc, err := open(ctx, client, s.Location)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		if strings.EqualFold(filepath.Ext(s.Location), ".gob") {
			d, err = coverage.DecodeGob(rc)
		} else {
			d, err = coverage.ParseCSV(rc, g, s.Format)
		}
		if err != nil {
			return nil, err
		}
	}
	if d.Granularity != g {
		return nil, fmt.Errorf("dataset granularity %s, source declares %s", d.Granularity, g)
	}
	if g == coverage.Department {
		d = d.MapColumn(coverage.ColDepartmentCode, geo.PadCode)
	}
	d.Source = s.ID
	return d, nil
}

func fetchPolygons(ctx context.Context, client *http.Client, s Source) (*geo.FeatureCollection, error) {
	rc, err := open(ctx, client, s.Location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return geo.DecodeFeatureCollection(rc)
}
