package fetcher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
)

// flakyFetcher fails the first failures calls and succeeds afterwards.
type flakyFetcher struct {
	failures int32
	calls    atomic.Int32
	err      error
}

// Fetch implements Fetcher.
func (f *flakyFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, f.err
	}
	return []byte("body of " + rawURL), nil
}

// TestFetchWithRetry tests the fixed-count retry policy.
func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	errTransport := &StatusError{URL: "https://example.com", StatusCode: 500}

	t.Run("two failures then success with retry 2", func(t *testing.T) {
		t.Parallel()

		f := &flakyFetcher{failures: 2, err: errTransport}
		var retries []int

		body, err := FetchWithRetry(context.Background(), f, "https://example.com", 2,
			WithOnRetry(func(retry int, _ error) { retries = append(retries, retry) }),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "body of https://example.com" {
			t.Errorf("unexpected body %q", body)
		}
		if len(retries) != 2 {
			t.Errorf("expected 2 retries, got %d", len(retries))
		}
		if f.calls.Load() != 3 {
			t.Errorf("expected 3 attempts, got %d", f.calls.Load())
		}
	})

	t.Run("two failures with retry 1 propagates the error", func(t *testing.T) {
		t.Parallel()

		f := &flakyFetcher{failures: 2, err: errTransport}

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", 1)
		if !errors.Is(err, errTransport) {
			t.Fatalf("expected the transport error unchanged, got %v", err)
		}
		if f.calls.Load() != 2 {
			t.Errorf("expected 2 attempts, got %d", f.calls.Load())
		}
	})

	t.Run("retry 0 makes a single attempt", func(t *testing.T) {
		t.Parallel()

		f := &flakyFetcher{failures: 1, err: errTransport}

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", 0)
		if err == nil {
			t.Fatal("expected error")
		}
		if f.calls.Load() != 1 {
			t.Errorf("expected 1 attempt, got %d", f.calls.Load())
		}
	})

	t.Run("negative retry behaves like zero", func(t *testing.T) {
		t.Parallel()

		f := &flakyFetcher{failures: 1, err: errTransport}

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", -3)
		if err == nil {
			t.Fatal("expected error")
		}
		if f.calls.Load() != 1 {
			t.Errorf("expected 1 attempt, got %d", f.calls.Load())
		}
	})

	t.Run("success on first attempt does not retry", func(t *testing.T) {
		t.Parallel()

		f := &flakyFetcher{}
		retried := false

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", 5,
			WithOnRetry(func(int, error) { retried = true }),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if retried {
			t.Error("expected no retry")
		}
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		f := FetcherFunc(func(context.Context, string) ([]byte, error) {
			cancel()
			return nil, errTransport
		})

		_, err := FetchWithRetry(ctx, f, "https://example.com", 10)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("verbose logs each retry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		f := &flakyFetcher{failures: 2, err: errTransport}

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", 2,
			WithVerbose(true), WithRetryLogger(logger),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.Count(buf.String(), "retrying fetch"); got != 2 {
			t.Errorf("expected 2 retry log lines, got %d: %s", got, buf.String())
		}
	})

	t.Run("quiet mode logs nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		f := &flakyFetcher{failures: 1, err: errTransport}

		_, err := FetchWithRetry(context.Background(), f, "https://example.com", 1,
			WithVerbose(false), WithRetryLogger(logger),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no log output, got %q", buf.String())
		}
	})
}
