package sources

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	commitPattern     = regexp.MustCompile(`^[0-9A-Fa-f]{7,40}$`)
	tagPattern        = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+/-]*$`)
	repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// movingRefs are branch names that resolve to different commits over time.
// Keys are lower case.
var movingRefs = map[string]bool{
	"head":    true,
	"main":    true,
	"master":  true,
	"develop": true,
	"trunk":   true,
}

// CheckRevision reports whether revision names a fixed point upstream: a
// commit id, a version tag such as v0.20 or v0.23.2, or another tag name such
// as release-2024.01. Well-known branch names and full ref paths are rejected.
func CheckRevision(revision string) error {
	if revision == "" {
		return fmt.Errorf("revision is empty")
	}
	if movingRefs[strings.ToLower(revision)] {
		return fmt.Errorf("revision %q is a branch; pin a commit or tag", revision)
	}
	if strings.HasPrefix(revision, "refs/") {
		return fmt.Errorf("revision %q is a ref path; use the bare commit id or tag name", revision)
	}
	if commitPattern.MatchString(revision) {
		return nil
	}
	if _, err := semver.NewVersion(revision); err == nil {
		return nil
	}
	if err := checkTagName(revision); err != nil {
		return fmt.Errorf("revision %q is not a valid commit id or tag: %w", revision, err)
	}
	return nil
}

// checkTagName applies the git ref-name rules that matter for a tag.
func checkTagName(tag string) error {
	switch {
	case !tagPattern.MatchString(tag):
		return fmt.Errorf("contains characters not allowed in a tag")
	case strings.Contains(tag, ".."), strings.Contains(tag, "//"):
		return fmt.Errorf("contains an empty or parent path component")
	case strings.HasSuffix(tag, "."), strings.HasSuffix(tag, "/"), strings.HasSuffix(tag, ".lock"):
		return fmt.Errorf("has a trailing '.', '/' or '.lock'")
	}
	return nil
}

// CheckRepository reports whether repository has the owner/repo form.
func CheckRepository(repository string) error {
	if !repositoryPattern.MatchString(repository) {
		return fmt.Errorf("repository %q must have the form owner/repo", repository)
	}
	return nil
}

// CheckRelativePath reports whether p is a clean relative slash path that
// stays inside the root it is resolved against.
func CheckRelativePath(field, p string) error {
	if p == "" {
		return fmt.Errorf("%s is empty", field)
	}
	if strings.Contains(p, `\`) {
		return fmt.Errorf("%s %q must use forward slashes", field, p)
	}
	if path.IsAbs(p) {
		return fmt.Errorf("%s %q must be relative", field, p)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%s %q escapes the root directory", field, p)
	}
	return nil
}
