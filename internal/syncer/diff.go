package syncer

import (
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Diff renders the line-level difference between an on-disk target and the
// generated artifact (-existing +generated). The format is meant for people,
// not for patch tools.
func Diff(existing, generated string) string {
	return cmp.Diff(splitLines(existing), splitLines(generated))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
