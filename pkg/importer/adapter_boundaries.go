package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/vaxatlas/pkg/geo"
)

const franceGeoJSON = "https://raw.githubusercontent.com/gregoiredavid/france-geojson/master/"

// BoundariesDir is the data subdirectory holding the boundary collections.
const BoundariesDir = "geo"

func init() {
	Register(&boundaryAdapter{
		id:          "geojson-regions",
		file:        "regions.geojson",
		description: "Contours des régions françaises (france-geojson)",
	})
	Register(&boundaryAdapter{
		id:          "geojson-departements",
		file:        "departements.geojson",
		description: "Contours des départements français (france-geojson)",
	})
}

// boundaryAdapter validates a GeoJSON feature collection, normalizes its
// department codes and writes it to geo/<file>.
type boundaryAdapter struct {
	id          string
	file        string
	description string
}

func (a *boundaryAdapter) ID() string          { return a.id }
func (a *boundaryAdapter) DatasetID() string   { return BoundariesDir + "/" + a.file }
func (a *boundaryAdapter) Description() string { return a.description }
func (a *boundaryAdapter) DefaultURL() string  { return franceGeoJSON + a.file }
func (a *boundaryAdapter) License() string     { return "Licence Ouverte v2.0" }

func (a *boundaryAdapter) Import(ctx context.Context, sourceURL, outputDir string) (Summary, error) {
	dlDir := filepath.Join(outputDir, "_download", a.id)
	if err := os.MkdirAll(dlDir, 0o755); err != nil {
		return Summary{}, err
	}
	defer os.RemoveAll(dlDir)

	raw := filepath.Join(dlDir, a.file)
	slog.InfoContext(ctx, "downloading", "source", a.id, "url", sourceURL)
	if err := downloadFile(ctx, sourceURL, raw); err != nil {
		return Summary{}, fmt.Errorf("download: %w", err)
	}

	fc, err := readFeatures(raw)
	if err != nil {
		return Summary{}, fmt.Errorf("parse: %w", err)
	}

	dir := filepath.Join(outputDir, BoundariesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, err
	}
	dest := filepath.Join(dir, a.file)
	if err := writeJSON(dest, fc); err != nil {
		return Summary{}, err
	}
	slog.InfoContext(ctx, "boundaries written", "source", a.id, "path", dest, "features", fc.Len())
	return Summary{Version: time.Now().Format("2006-01"), Rows: fc.Len()}, nil
}

func readFeatures(path string) (*geo.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fc, err := geo.DecodeFeatureCollection(f)
	if err != nil {
		return nil, err
	}
	if fc.Len() == 0 {
		return nil, fmt.Errorf("%s: no features", path)
	}
	return fc, nil
}

// writeJSON writes v to a temp file and renames it over path.
func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
