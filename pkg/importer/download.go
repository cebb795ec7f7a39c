package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const downloadAttempts = 3

var (
	downloadClient = &http.Client{Timeout: 10 * time.Minute}
	// retryDelay is the wait before attempt n (n >= 1).
	retryDelay     = func(n int) time.Duration { return time.Duration(1<<n) * time.Second }
)

// permanentError marks a download failure that a retry cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// downloadFile fetches url into dest. Network errors, 5xx and 429 are
// retried; other statuses fail at once. dest is only replaced by a complete,
// non-empty body.
func downloadFile(ctx context.Context, url, dest string) error {
	var lastErr error
	for n := 0; n < downloadAttempts; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(n)):
			}
		}
		lastErr = fetchOnce(ctx, url, dest)
		if lastErr == nil {
			return nil
		}
		var perm permanentError
		if errors.As(lastErr, &perm) || ctx.Err() != nil {
			return lastErr
		}
	}
	return fmt.Errorf("download %s: %d attempts: %w", url, downloadAttempts, lastErr)
}

func fetchOnce(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return permanentError{fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", "vaxatlas-import")

	resp, err := downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	default:
		return permanentError{fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)}
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return permanentError{err}
	}
	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		os.Remove(part)
		return fmt.Errorf("read body: %w", copyErr)
	case closeErr != nil:
		os.Remove(part)
		return permanentError{closeErr}
	case n == 0:
		os.Remove(part)
		return permanentError{fmt.Errorf("GET %s: empty body", url)}
	}
	return os.Rename(part, dest)
}
