package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/imfreedom/urlmap/internal/server"
	"github.com/imfreedom/urlmap/internal/urlmap"
)

func newTestClient(t *testing.T, table *urlmap.Table) (*Client, *server.Server) {
	t.Helper()

	srv, err := server.New(&server.Config{Table: table})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL)
	c.MaxRetries, c.RetryDelay = 0, time.Millisecond
	return c, srv
}

func TestNewClientTrimsAPIPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://10.0.0.2:8377", "http://10.0.0.2:8377"},
		{"http://10.0.0.2:8377/", "http://10.0.0.2:8377"},
		{"http://10.0.0.2:8377/api/v1", "http://10.0.0.2:8377"},
		{"http://10.0.0.2:8377/api/v1/", "http://10.0.0.2:8377"},
	}

	for _, tt := range tests {
		if got := NewClient(tt.in).BaseURL; got != tt.want {
			t.Errorf("NewClient(%q).BaseURL = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientTable(t *testing.T) {
	c, _ := newTestClient(t, nil)

	table, err := c.Table(context.Background())
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	want := urlmap.Default().Entries()
	got := table.Entries()
	if len(got) != len(want) {
		t.Fatalf("Table() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClientTableCache(t *testing.T) {
	c, srv := newTestClient(t, nil)
	ctx := context.Background()

	first, err := c.Table(ctx)
	if err != nil {
		t.Fatal(err)
	}

	extended, err := urlmap.Default().With(urlmap.Entry{Namespace: "Adw", BaseURL: "https://example.org/adw/"})
	if err != nil {
		t.Fatal(err)
	}
	srv.Reload(extended)

	cached, err := c.Table(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cached != first {
		t.Error("Table() did not return the cached table")
	}

	// An expired cache goes back to the server
	c.CacheDuration = time.Nanosecond
	time.Sleep(time.Millisecond)
	fresh, err := c.Table(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh.Has("Adw") {
		t.Error("Table() after the cache expired did not fetch the reloaded table")
	}
}

func TestClientLookup(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	got, err := c.Lookup(ctx, "Purple3")
	if err != nil {
		t.Fatalf("Lookup(Purple3) error = %v", err)
	}
	if got != "https://docs.imfreedom.org/purple3/" {
		t.Errorf("Lookup(Purple3) = %q", got)
	}

	_, err = c.Lookup(ctx, "gtk")
	if !errors.Is(err, urlmap.ErrNotFound) {
		t.Fatalf("Lookup(gtk) error = %v, want ErrNotFound", err)
	}
	if s := Suggestions(err); len(s) != 1 || s[0] != "Gtk" {
		t.Errorf("Suggestions() = %v, want [Gtk]", s)
	}
	if IsRetryable(err) {
		t.Error("not found error is retryable")
	}
	if got := err.Error(); got != `Not Found: namespace "gtk" not found` {
		t.Errorf("Lookup(gtk) error text = %q", got)
	}

	if _, err := c.Lookup(ctx, ""); !errors.Is(err, urlmap.ErrEmptyNamespace) {
		t.Errorf("Lookup(\"\") error = %v, want ErrEmptyNamespace", err)
	}
}

func TestClientResolve(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	got, err := c.Resolve(ctx, "[signal@Gtk.Widget::destroy]")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "https://docs.gtk.org/gtk3/signal.Widget.destroy.html" {
		t.Errorf("Resolve() = %q", got)
	}

	_, err = c.Resolve(ctx, "not a reference")
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrTypeBadRequest {
		t.Errorf("Resolve(malformed) error = %v, want bad request", err)
	}
}

func TestClientStatus(t *testing.T) {
	c, _ := newTestClient(t, nil)

	status, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Entries != 7 {
		t.Errorf("Status().Entries = %d, want 7", status.Entries)
	}
	if status.Version == "" {
		t.Error("Status().Version is empty")
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, `{"error":"warming up"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[["GLib","https://docs.gtk.org/glib/"]]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.MaxRetries, c.RetryDelay = 3, time.Millisecond

	table, err := c.Table(context.Background())
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Table().Len() = %d, want 1", table.Len())
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("server saw %d attempts, want 3", n)
	}
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.MaxRetries, c.RetryDelay = 2, time.Millisecond

	_, err := c.Table(context.Background())
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrTypeHTTP || e.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Table() error = %v, want HTTP 500", err)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("server saw %d attempts, want 3", n)
	}
	if got := GetShortErrorMessage(err); got != "Server error (HTTP 500)" {
		t.Errorf("GetShortErrorMessage() = %q", got)
	}
}

func TestClientMalformedTable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[["GLib","ftp://docs.gtk.org/glib/"]]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.MaxRetries, c.RetryDelay = 3, time.Millisecond

	_, err := c.Table(context.Background())
	if !errors.Is(err, urlmap.ErrInvalidBaseURL) {
		t.Errorf("Table() error = %v, want ErrInvalidBaseURL", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrTypeParse {
		t.Errorf("Table() error type = %v, want parse error", err)
	}
}

func TestClientConnectionRefused(t *testing.T) {
	// Reserve a port, then close it so nothing is listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := NewClient("http://" + addr)
	c.MaxRetries, c.RetryDelay = 0, time.Millisecond

	_, err = c.Status(context.Background())
	if !IsNetworkError(err) {
		t.Fatalf("Status() error = %v, want network error", err)
	}
	if !IsRetryable(err) {
		t.Error("connection refused is not retryable")
	}
}

func TestClassifyNetworkError(t *testing.T) {
	if ClassifyNetworkError(nil) != nil {
		t.Error("ClassifyNetworkError(nil) != nil")
	}

	dns := &net.DNSError{Name: "nowhere.invalid", Err: "no such host"}
	if e := ClassifyNetworkError(dns); e.Type != ErrTypeDNS || e.Retryable {
		t.Errorf("ClassifyNetworkError(dns) = %+v", e)
	}

	generic := errors.New("boom")
	if e := ClassifyNetworkError(generic); e.Type != ErrTypeNetwork || !errors.Is(e, generic) {
		t.Errorf("ClassifyNetworkError(generic) = %+v", e)
	}
}
