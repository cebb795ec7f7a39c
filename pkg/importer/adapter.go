// Package importer downloads the public vaccination-coverage and boundary
// sources and writes them as ready-to-serve datasets under a data directory.
package importer

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Adapter defines a data source importer that downloads, transforms, and
// writes one dataset.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "spf-couverture-regions").
	ID() string
	// DatasetID returns the output name under the data directory.
	DatasetID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL used for seeding the database.
	DefaultURL() string
	// License returns the license identifier for this source (e.g. "Licence Ouverte v2.0").
	License() string
	// Import downloads the source from sourceURL, transforms it, writes
	// the result into outputDir and reports what it wrote.
	Import(ctx context.Context, sourceURL, outputDir string) (Summary, error)
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Run imports one adapter from the URL recorded in the ledger and records
// the result. A non-empty override is persisted first, so later imports and
// the checker use it too.
func Run(ctx context.Context, l *Ledger, a Adapter, override, outputDir string) (Summary, error) {
	if override != "" {
		if err := l.Override(a.ID(), override); err != nil {
			return Summary{}, err
		}
	}
	url, err := l.URL(a.ID())
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, err
	}
	sum, err := a.Import(ctx, url, outputDir)
	if err != nil {
		return Summary{}, err
	}
	if err := l.RecordImport(a.ID(), sum); err != nil {
		return sum, fmt.Errorf("record import: %w", err)
	}
	return sum, nil
}
