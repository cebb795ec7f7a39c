package coverage

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// snapshot is the on-disk form of a Dataset written by the importer.
type snapshot struct {
	Granularity Granularity
	Source      string
	Columns     []string
	Records     [][]string
}

// SaveGob serializes d to a gob-encoded file at path.
func SaveGob(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	snap := snapshot{
		Granularity: d.Granularity,
		Source:      d.Source,
		Columns:     d.Columns,
		Records:     make([][]string, len(d.Rows)),
	}
	for i, r := range d.Rows {
		snap.Records[i] = r.values
	}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return f.Close()
}

// LoadGob reads a snapshot written by SaveGob.
func LoadGob(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()
	return DecodeGob(f)
}

// DecodeGob reads a snapshot from r.
func DecodeGob(r io.Reader) (*Dataset, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	return NewDataset(snap.Granularity, snap.Source, snap.Columns, snap.Records), nil
}
