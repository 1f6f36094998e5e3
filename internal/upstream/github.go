package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RawURL returns the raw content URL for a file at a pinned revision:
// https://raw.githubusercontent.com/{repository}/{revision}/{queryPath}.
func RawURL(repository, revision, queryPath string) string {
	return rawURL(DefaultRawBaseURL, repository, revision, queryPath)
}

// BlobURL returns the browsable GitHub URL for the same file, used in
// provenance headers.
func BlobURL(repository, revision, queryPath string) string {
	return fmt.Sprintf("https://github.com/%s/blob/%s/%s", repository, revision, queryPath)
}

func rawURL(base, repository, revision, queryPath string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(base, "/"), repository, revision, queryPath)
}

// URL returns the URL this fetcher requests for the given file.
func (f *Fetcher) URL(repository, revision, queryPath string) string {
	return rawURL(f.baseURL, repository, revision, queryPath)
}

// Fetch downloads the file at repository/revision/queryPath and returns its
// body as text. Any failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, repository, revision, queryPath string) (string, error) {
	return f.FetchURL(ctx, f.URL(repository, revision, queryPath))
}

// FetchURL performs a single GET of url.
func (f *Fetcher) FetchURL(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	if f.token != "" {
		req.Header.Set("Authorization", "token "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return "", &FetchError{URL: url, Err: fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)}
	}

	return string(body), nil
}

// statusText renders "404 Not Found" even when the server omits the reason.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
