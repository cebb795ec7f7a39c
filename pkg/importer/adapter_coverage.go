package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
)

const (
	spfLicense = "Licence Ouverte v2.0"
	spfExport  = "https://odisse.santepubliquefrance.fr/api/explore/v2.1/catalog/datasets/%s/exports/csv?delimiter=%%3B"
)

func init() {
	Register(&coverageAdapter{
		id:          "spf-couverture-regions",
		datasetID:   "couverture-regions",
		description: "Santé publique France, couvertures vaccinales adolescents et adultes par région",
		dataset:     "couvertures-vaccinales-des-adolescents-et-adultes-depuis-2011-region",
		granularity: coverage.Region,
	})
	Register(&coverageAdapter{
		id:          "spf-couverture-departements",
		datasetID:   "couverture-departements",
		description: "Santé publique France, couvertures vaccinales adolescents et adultes par département",
		dataset:     "couvertures-vaccinales-des-adolescents-et-adultes-depuis-2011-departement",
		granularity: coverage.Department,
	})
	Register(&coverageAdapter{
		id:          "spf-couverture-france",
		datasetID:   "couverture-france",
		description: "Santé publique France, couvertures vaccinales adolescents et adultes, France entière",
		dataset:     "couvertures-vaccinales-des-adolescents-et-adultes-depuis-2011-france",
		granularity: coverage.Nation,
	})
}

// coverageAdapter imports one coverage CSV export into a gob snapshot plus
// manifest.yaml.
type coverageAdapter struct {
	id          string
	datasetID   string
	description string
	dataset     string
	granularity coverage.Granularity
}

func (a *coverageAdapter) ID() string          { return a.id }
func (a *coverageAdapter) DatasetID() string   { return a.datasetID }
func (a *coverageAdapter) Description() string { return a.description }
func (a *coverageAdapter) DefaultURL() string  { return fmt.Sprintf(spfExport, a.dataset) }
func (a *coverageAdapter) License() string     { return spfLicense }

func (a *coverageAdapter) Import(ctx context.Context, sourceURL, outputDir string) (Summary, error) {
	dlDir := filepath.Join(outputDir, "_download", a.id)
	if err := os.MkdirAll(dlDir, 0o755); err != nil {
		return Summary{}, err
	}
	defer os.RemoveAll(dlDir)

	csvPath := filepath.Join(dlDir, "data.csv")
	slog.InfoContext(ctx, "downloading", "source", a.id, "url", sourceURL)
	if err := downloadFile(ctx, sourceURL, csvPath); err != nil {
		return Summary{}, fmt.Errorf("download: %w", err)
	}

	d, err := parseCoverage(csvPath, a.granularity, a.datasetID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse: %w", err)
	}

	dir := filepath.Join(outputDir, a.datasetID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, err
	}
	if err := coverage.SaveGob(d, filepath.Join(dir, "data.gob")); err != nil {
		return Summary{}, fmt.Errorf("save gob: %w", err)
	}

	m := &coverage.Manifest{
		ID:          a.datasetID,
		Version:     time.Now().Format("2006-01"),
		Granularity: a.granularity.String(),
		Source:      "Santé publique France (Odissé)",
		SourceURL:   sourceURL,
		License:     spfLicense,
		DataFile:    "data.gob",
		Rows:        d.Len(),
		Indicators:  d.Indicators(),
	}
	if err := coverage.WriteManifest(dir, m); err != nil {
		return Summary{}, err
	}
	slog.InfoContext(ctx, "dataset written", "source", a.id, "dir", dir, "rows", m.Rows)
	return Summary{Version: m.Version, Rows: m.Rows, Indicators: m.Indicators}, nil
}

// parseCoverage reads an export and zero-pads department codes so they join
// with the boundary polygons.
func parseCoverage(path string, g coverage.Granularity, id string) (*coverage.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := coverage.ParseCSV(f, g, coverage.Format{})
	if err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("%s: no rows", path)
	}
	d.Source = id
	return d.MapColumn(coverage.ColDepartmentCode, geo.PadCode), nil
}
