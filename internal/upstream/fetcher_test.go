package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRawURL(t *testing.T) {
	got := RawURL("foo/bar", "abcd123", "queries/highlights.scm")
	want := "https://raw.githubusercontent.com/foo/bar/abcd123/queries/highlights.scm"
	if got != want {
		t.Errorf("RawURL() = %q, want %q", got, want)
	}
}

func TestBlobURL(t *testing.T) {
	got := BlobURL("foo/bar", "abcd123", "q.scm")
	want := "https://github.com/foo/bar/blob/abcd123/q.scm"
	if got != want {
		t.Errorf("BlobURL() = %q, want %q", got, want)
	}
}

func TestFetch_Success(t *testing.T) {
	var gotPath, gotUA, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("(foo) @x\r\n"))
	}))
	defer server.Close()

	f := New(
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL+"/"),
		WithUserAgent("querysync/test"),
		WithToken("secret"),
	)

	body, err := f.Fetch(context.Background(), "foo/bar", "abcd123", "q.scm")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	// The fetcher returns bytes as served; newline handling happens later.
	if body != "(foo) @x\r\n" {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/foo/bar/abcd123/q.scm" {
		t.Errorf("path = %q, want /foo/bar/abcd123/q.scm", gotPath)
	}
	if gotUA != "querysync/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAuth != "token secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestFetch_NoTokenNoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
	}))
	defer server.Close()

	f := New(WithHTTPClient(server.Client()), WithBaseURL(server.URL))
	if _, err := f.Fetch(context.Background(), "o/r", "abcd123", "q.scm"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
}

func TestFetch_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := New(WithHTTPClient(server.Client()), WithBaseURL(server.URL))
	_, err := f.Fetch(context.Background(), "foo/bar", "abcd123", "missing.scm")
	if err == nil {
		t.Fatal("expected error for 404, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	if !strings.HasSuffix(fetchErr.URL, "/foo/bar/abcd123/missing.scm") {
		t.Errorf("URL = %q", fetchErr.URL)
	}
	if !strings.Contains(err.Error(), "404 Not Found") {
		t.Errorf("error %q should include the status", err)
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	f := New(WithBaseURL(base))
	_, err := f.Fetch(context.Background(), "foo/bar", "abcd123", "q.scm")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", fetchErr.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := New(WithHTTPClient(server.Client()), WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	_, err := f.Fetch(context.Background(), "foo/bar", "abcd123", "q.scm")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	f := New(WithTimeout(0))
	if f.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", f.Timeout(), DefaultTimeout)
	}
}
