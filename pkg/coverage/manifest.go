package coverage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes an imported dataset directory: where the data came
// from and how to read it.
type Manifest struct {
	ID          string   `yaml:"id" json:"id"`
	Version     string   `yaml:"version" json:"version"`
	Granularity string   `yaml:"granularity" json:"granularity"`
	Source      string   `yaml:"source" json:"source"`
	SourceURL   string   `yaml:"source_url" json:"source_url,omitempty"`
	License     string   `yaml:"license" json:"license"`
	DataFile    string   `yaml:"data_file" json:"data_file"`
	Format      Format   `yaml:"format" json:"-"`
	Rows        int      `yaml:"rows" json:"rows"`
	Indicators  []string `yaml:"indicators,omitempty" json:"indicators,omitempty"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if _, ok := ParseGranularity(m.Granularity); !ok {
		return nil, fmt.Errorf("manifest %s: unknown granularity %q", path, m.Granularity)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	return &m, nil
}

// WriteManifest writes m as YAML to dir/manifest.yaml.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}

// LoadDir reads an imported dataset directory. data.gob takes priority over
// the manifest's CSV data file.
func LoadDir(dir string) (*Dataset, *Manifest, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, nil, err
	}
	g, _ := ParseGranularity(m.Granularity)

	var d *Dataset
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		d, err = LoadGob(gobPath)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", m.ID, err)
		}
	} else {
		f, err := os.Open(filepath.Join(dir, m.DataFile))
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", m.ID, err)
		}
		defer f.Close()
		d, err = ParseCSV(f, g, m.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: %w", m.ID, err)
		}
	}
	if d.Granularity != g {
		return nil, nil, fmt.Errorf("dataset %s: snapshot granularity %s, manifest says %s", m.ID, d.Granularity, g)
	}
	if d.Source == "" {
		d.Source = m.ID
	}
	return d, m, nil
}
