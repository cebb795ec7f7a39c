package importer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

func statusServer(t *testing.T, code int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if code == http.StatusMovedPermanently {
			w.Header().Set("Location", "https://example.com/moved.csv")
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		id     string
		url    string
		status int
		up     float64
		hasErr bool
	}{
		{"chk-ok", statusServer(t, http.StatusOK), 200, 1, false},
		{"chk-moved", statusServer(t, http.StatusMovedPermanently), 301, 1, false},
		{"chk-missing", statusServer(t, http.StatusNotFound), 404, 0, false},
		{"chk-broken", statusServer(t, http.StatusInternalServerError), 500, 0, false},
		{"chk-dead", "http://127.0.0.1:1", 0, 0, true},
	}

	l := tempLedger(t)
	var adapters []Adapter
	for _, tt := range tests {
		adapters = append(adapters, &fakeAdapter{id: tt.id, datasetID: tt.id, url: tt.url})
	}
	if err := l.Seed(adapters); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	NewChecker(l, quietLogger(), time.Hour).CheckAll(context.Background())

	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	byID := make(map[string]Entry)
	for _, e := range entries {
		byID[e.Adapter] = e
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c := byID[tt.id].Check
			if c == nil || c.Status != tt.status {
				t.Fatalf("check = %+v, want status %d", c, tt.status)
			}
			if got := c.Error != ""; got != tt.hasErr {
				t.Errorf("error set = %v, want %v", got, tt.hasErr)
			}
			if got := testutil.ToFloat64(metrics.UpstreamUp.WithLabelValues(tt.id)); got != tt.up {
				t.Errorf("upstream_up = %v, want %v", got, tt.up)
			}
		})
	}
}

func TestCheckAllEmpty(t *testing.T) {
	NewChecker(tempLedger(t), quietLogger(), time.Hour).CheckAll(context.Background())
}

func TestCheckerStartStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewChecker(tempLedger(t), quietLogger(), time.Millisecond).Start(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
