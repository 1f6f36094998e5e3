package rewrite

import (
	"fmt"
	"strings"

	"github.com/athas-labs/querysync/internal/sources"
)

// MissingAnchorError reports a replacement whose find literal is absent
// from the text it was applied to.
type MissingAnchorError struct {
	Entry string
	Index int
	Find  string
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("%s: replacement target not found (replacements[%d]): %q", e.Entry, e.Index, e.Find)
}

// Apply runs replacements in declared order over content. Each pair replaces
// every occurrence of Find in the current text, so later pairs see the output
// of earlier ones.
func Apply(entry, content string, replacements []sources.Replacement) (string, error) {
	next := content
	for i, r := range replacements {
		if r.Find == "" || !strings.Contains(next, r.Find) {
			return "", &MissingAnchorError{Entry: entry, Index: i, Find: r.Find}
		}
		next = strings.ReplaceAll(next, r.Find, r.Replace)
	}
	return next, nil
}
