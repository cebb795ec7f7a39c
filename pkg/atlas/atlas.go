// Package atlas owns the session's datasets and boundary polygons, loads
// each source once in the background and answers selection queries against
// whatever has arrived so far.
package atlas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/vaxatlas/pkg/cache"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

// Options tunes an Atlas. Zero values are usable.
type Options struct {
	Client *http.Client
	Cache  cache.Cache
	// MaxParallel bounds concurrent source fetches; 0 means no limit.
	MaxParallel int
}

// Atlas is safe for concurrent use.
type Atlas struct {
	logger *slog.Logger
	client *http.Client
	cache  cache.Cache
	limit  int

	datasets    [3]Slot[coverage.Dataset]
	regions     Slot[geo.FeatureCollection]
	departments Slot[geo.FeatureCollection]
	index       atomic.Pointer[geo.Index]
	indexMu     sync.Mutex

	mu      sync.Mutex
	sources []Source
}

// New returns an Atlas with nothing loaded.
func New(logger *slog.Logger, opts Options) *Atlas {
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	a := &Atlas{logger: logger, client: client, cache: opts.Cache, limit: opts.MaxParallel}
	a.index.Store(geo.NewIndex(nil, nil))
	return a
}

// Load fetches every source concurrently. Each slot is fetched at most once
// per Atlas: there are no retries, and a fetch that has started runs to
// completion even if ctx is cancelled. Sources not yet started when ctx is
// done are skipped. Failures are logged and joined into the returned error;
// their slots stay empty.
func (a *Atlas) Load(ctx context.Context, sources []Source) error {
	for _, s := range sources {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	a.mu.Lock()
	a.sources = append(a.sources, sources...)
	a.mu.Unlock()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	fetchCtx := context.WithoutCancel(ctx)
	for _, s := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := a.loadOne(fetchCtx, s); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("source %s: %w", s.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (a *Atlas) loadOne(ctx context.Context, s Source) error {
	start := time.Now()
	var (
		ran  bool
		err  error
		size int
	)

	switch s.Kind {
	case KindCoverage:
		g, _ := coverage.ParseGranularity(s.Granularity)
		ran, err = a.datasets[g].Fill(func() (*coverage.Dataset, error) {
			d, err := fetchDataset(ctx, a.client, s)
			if err == nil {
				size = d.Len()
			}
			return d, err
		})
	case KindRegions, KindDepartments:
		slot := &a.regions
		if s.Kind == KindDepartments {
			slot = &a.departments
		}
		ran, err = slot.Fill(func() (*geo.FeatureCollection, error) {
			fc, err := fetchPolygons(ctx, a.client, s)
			if err == nil {
				size = fc.Len()
			}
			return fc, err
		})
		if ran && err == nil {
			a.rebuildIndex()
		}
	}

	if !ran {
		a.logger.Debug("source slot already fetched", "source", s.ID, "kind", s.Kind)
		return nil
	}
	metrics.SourceLoadDurationMs.WithLabelValues(s.ID).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues(s.ID, "error").Inc()
		a.logger.Warn("source fetch failed", "source", s.ID, "location", s.Location, "error", err)
		return err
	}
	metrics.SourceLoadsTotal.WithLabelValues(s.ID, "ok").Inc()
	metrics.SourceRows.WithLabelValues(s.ID).Set(float64(size))
	a.logger.Info("source loaded", "source", s.ID, "kind", s.Kind, "size", size,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (a *Atlas) rebuildIndex() {
	a.indexMu.Lock()
	defer a.indexMu.Unlock()
	regions, _ := a.regions.Get()
	departments, _ := a.departments.Get()
	idx := geo.NewIndex(regions, departments)
	if u := idx.Unmapped(); len(u) > 0 {
		a.logger.Warn("department polygons without region", "codes", u)
	}
	a.index.Store(idx)
}

// Dataset returns the dataset at g, or nil while it is not loaded.
func (a *Atlas) Dataset(g coverage.Granularity) *coverage.Dataset {
	if g < coverage.Nation || g > coverage.Department {
		return nil
	}
	d, _ := a.datasets[g].Get()
	return d
}

// Index returns the current polygon index. It is never nil.
func (a *Atlas) Index() *geo.Index {
	return a.index.Load()
}

// generation changes each time a slot fills, so cached answers never
// outlive the data they were computed from.
func (a *Atlas) generation() string {
	var n int
	for i := range a.datasets {
		if _, ok := a.datasets[i].Get(); ok {
			n |= 1 << i
		}
	}
	if _, ok := a.regions.Get(); ok {
		n |= 1 << 3
	}
	if _, ok := a.departments.Get(); ok {
		n |= 1 << 4
	}
	return strconv.Itoa(n)
}

// SourceStatus is the load state of one configured source.
type SourceStatus struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Granularity string   `json:"granularity,omitempty"`
	State       string   `json:"state"`
	Size        int      `json:"size"`
	Indicators  []string `json:"indicators,omitempty"`
}

// Status reports every source passed to Load, in order.
func (a *Atlas) Status() []SourceStatus {
	a.mu.Lock()
	sources := append([]Source(nil), a.sources...)
	a.mu.Unlock()

	out := make([]SourceStatus, 0, len(sources))
	for _, s := range sources {
		st := SourceStatus{ID: s.ID, Kind: s.Kind, Granularity: s.Granularity, State: "not_loaded"}
		switch s.Kind {
		case KindCoverage:
			g, _ := coverage.ParseGranularity(s.Granularity)
			if d := a.Dataset(g); d != nil && d.Source == s.ID {
				st.State, st.Size, st.Indicators = "loaded", d.Len(), d.Indicators()
			}
		case KindRegions:
			if fc, ok := a.regions.Get(); ok {
				st.State, st.Size = "loaded", fc.Len()
			}
		case KindDepartments:
			if fc, ok := a.departments.Get(); ok {
				st.State, st.Size = "loaded", fc.Len()
			}
		}
		out = append(out, st)
	}
	return out
}

// Ready reports whether every configured source has loaded.
func (a *Atlas) Ready() bool {
	for _, st := range a.Status() {
		if st.State != "loaded" {
			return false
		}
	}
	return true
}
