package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

// Checker periodically sends HEAD requests to every recorded source URL,
// persists the answer and exports it as vaxatlas_upstream_up. It never
// touches the datasets being served.
type Checker struct {
	ledger   *Ledger
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(ledger *Ledger, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		ledger:   ledger,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll checks every source once, sequentially.
func (c *Checker) CheckAll(ctx context.Context) {
	entries, err := c.ledger.Entries()
	if err != nil {
		c.logger.Error("source check: list sources", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	var ok, failed int
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}

		status, checkErr := c.checkOne(ctx, e.URL)
		if err := c.ledger.RecordCheck(e.Adapter, status, checkErr); err != nil {
			c.logger.Error("source check: record result", "source", e.Adapter, "error", err)
		}

		if reachable(status) {
			ok++
			metrics.UpstreamUp.WithLabelValues(e.Adapter).Set(1)
			continue
		}
		failed++
		metrics.UpstreamUp.WithLabelValues(e.Adapter).Set(0)
		c.logger.Warn("source unreachable",
			"source", e.Adapter,
			"url", e.URL,
			"status", status,
			"error", checkErr,
		)
	}

	c.logger.Info("source check complete", "total", ok+failed, "ok", ok, "failed", failed)
}

func reachable(status int) bool { return status >= 200 && status < 400 }

// checkOne returns the HTTP status of a HEAD request, or 0 on network error.
func (c *Checker) checkOne(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
