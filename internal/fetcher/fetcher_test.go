package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient creates a Client or fails the test.
func newTestClient(t *testing.T, opts ...ClientOption) *Client {
	t.Helper()

	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// TestClientFetch tests the HTTP transport.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body on 200", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		body, err := newTestClient(t).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "<html>ok</html>" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("non-200 status returns StatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := newTestClient(t).Fetch(context.Background(), server.URL)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", statusErr.StatusCode)
		}
		if !IsTransportError(err) {
			t.Error("expected status error to count as transport error")
		}
	})

	t.Run("redirect to 200 is success", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		body, err := newTestClient(t).Fetch(context.Background(), server.URL+"/old")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "moved" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("network failure returns FetchError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		addr := server.URL
		server.Close()

		_, err := newTestClient(t).Fetch(context.Background(), addr)

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fetchErr.URL != addr {
			t.Errorf("expected url %q, got %q", addr, fetchErr.URL)
		}
	})

	t.Run("sends user agent, headers and cookie", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotHeader, gotCookie string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotHeader = r.Header.Get("X-Test")
			gotCookie = r.Header.Get("Cookie")
		}))
		defer server.Close()

		client := newTestClient(t,
			WithUserAgent("test-agent/1.0"),
			WithHeaders(map[string]string{"X-Test": "yes"}),
			WithCookie("session=abc"),
		)
		if _, err := client.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != "test-agent/1.0" {
			t.Errorf("expected user agent 'test-agent/1.0', got %q", gotUA)
		}
		if gotHeader != "yes" {
			t.Errorf("expected X-Test 'yes', got %q", gotHeader)
		}
		if gotCookie != "session=abc" {
			t.Errorf("expected cookie 'session=abc', got %q", gotCookie)
		}
	})

	t.Run("default user agent is set", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		if _, err := newTestClient(t).Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", gotUA)
		}
	})

	t.Run("body over max size is an error", func(t *testing.T) {
		t.Parallel()

		// The pager link sits past the limit, as on a long listing page.
		page := "<html><body>" + strings.Repeat("<p>post</p>", 100) +
			`<a class="blog-pager-older-link" href="/search?max-results=20">older</a></body></html>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		body, err := newTestClient(t, WithMaxBodySize(int64(len(page)-20))).Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Fatalf("expected ErrBodyTooLarge, got %v", err)
		}
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) || !IsTransportError(err) {
			t.Errorf("expected a *FetchError, got %T", err)
		}
		if body != nil {
			t.Errorf("expected no body, got %d bytes", len(body))
		}
	})

	t.Run("body of exactly max size is accepted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 10)))
		}))
		defer server.Close()

		body, err := newTestClient(t, WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(body))
		}
	})

	t.Run("timeout returns FetchError", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		_, err := newTestClient(t, WithTimeout(50*time.Millisecond)).Fetch(context.Background(), server.URL)

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
	})
}

// TestNewClientProxy tests proxy address validation.
func TestNewClientProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "valid address", address: "127.0.0.1:9050", wantErr: false},
		{name: "hostname address", address: "localhost:1080", wantErr: false},
		{name: "missing port", address: "127.0.0.1", wantErr: true},
		{name: "port out of range", address: "127.0.0.1:70000", wantErr: true},
		{name: "non numeric port", address: "127.0.0.1:abc", wantErr: true},
		{name: "empty host", address: ":9050", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(WithProxy(tt.address))
			if tt.wantErr && !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestFetcherFunc tests the function adapter.
func TestFetcherFunc(t *testing.T) {
	t.Parallel()

	f := FetcherFunc(func(_ context.Context, rawURL string) ([]byte, error) {
		return []byte(rawURL), nil
	})

	body, err := f.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "https://example.com" {
		t.Errorf("unexpected body %q", body)
	}
}
