package upstream

import (
	"net/http"
	"time"
)

const (
	// DefaultRawBaseURL serves raw file content for repository/revision/path.
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	// DefaultTimeout bounds a single fetch when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 10 << 20
)

// Fetcher retrieves upstream query content.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	token      string
	timeout    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithBaseURL replaces the raw content host, e.g. for a mirror.
func WithBaseURL(base string) Option {
	return func(f *Fetcher) {
		f.baseURL = base
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithToken sends a GitHub token, for private upstreams and rate limits.
func WithToken(token string) Option {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithTimeout bounds each fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// New creates a Fetcher with the given options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		baseURL:    DefaultRawBaseURL,
		userAgent:  "querysync",
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the per-fetch timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}
