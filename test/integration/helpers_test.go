//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/athas-labs/querysync/internal/upstream"
)

// testEnv holds an isolated repository checkout and a fake upstream host.
type testEnv struct {
	RootDir  string // repository root, holds query-sources.json
	Upstream *fakeUpstream
}

// fakeUpstream serves raw files at /{owner}/{repo}/{revision}/{path}.
type fakeUpstream struct {
	server *httptest.Server

	mu       sync.Mutex
	files    map[string]string
	requests []string
}

// setupTestEnv creates a temp repository root and starts a fake upstream.
// HOME is pointed at a temp dir so user config never leaks into a test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	up := &fakeUpstream{files: map[string]string{}}
	up.server = httptest.NewServer(http.HandlerFunc(up.serve))
	t.Cleanup(up.server.Close)

	return &testEnv{RootDir: t.TempDir(), Upstream: up}
}

func (u *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.requests = append(u.requests, r.URL.Path)
	body, ok := u.files[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

// Set publishes content at repository@revision:queryPath.
func (u *fakeUpstream) Set(repository, revision, queryPath, content string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files["/"+repository+"/"+revision+"/"+queryPath] = content
}

// Requests returns the paths fetched so far.
func (u *fakeUpstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// Fetcher returns an upstream fetcher pointed at the fake host.
func (u *fakeUpstream) Fetcher() *upstream.Fetcher {
	return upstream.New(
		upstream.WithHTTPClient(u.server.Client()),
		upstream.WithBaseURL(u.server.URL),
	)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()

	content := readFile(t, path)
	if !strings.Contains(content, substr) {
		t.Errorf("file %s does not contain %q\ncontent:\n%s", path, substr, content)
	}
}
