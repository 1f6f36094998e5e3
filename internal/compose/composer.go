package compose

import (
	"path"
	"strings"
	"unicode"

	"github.com/athas-labs/querysync/internal/branding"
	"github.com/athas-labs/querysync/internal/sources"
	"github.com/athas-labs/querysync/internal/upstream"
)

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Equal reports whether two texts match once line endings are normalized.
func Equal(a, b string) bool {
	return NormalizeNewlines(a) == NormalizeNewlines(b)
}

// Header returns the provenance block written at the top of every artifact.
func Header(name string, entry sources.Entry) string {
	hint := branding.DefaultOverrideHint()
	if entry.OverridePath != "" {
		hint = path.Base(entry.OverridePath)
	}

	lines := []string{
		"; AUTO-GENERATED FILE - DO NOT EDIT DIRECTLY.",
		"; Source: " + upstream.BlobURL(entry.Repository, entry.Revision, entry.QueryPath),
		"; Generator: " + branding.Generator() + " (" + name + ")",
		"; Local customizations belong in " + hint + ".",
		"",
	}
	return strings.Join(lines, "\n")
}

// Compose assembles the artifact for one entry. body is the upstream text
// after replacements; override is the raw override file content, empty when
// there is none. Blank overrides are dropped entirely so that an empty
// override file and a missing one produce identical bytes.
func Compose(name string, entry sources.Entry, body, override string) string {
	var b strings.Builder
	b.WriteString(Header(name, entry))
	b.WriteString(trimEnd(NormalizeNewlines(body)))
	b.WriteString("\n")

	override = trimEnd(NormalizeNewlines(override))
	if override == "" {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(branding.OverrideMarker())
	b.WriteString("\n")
	b.WriteString(override)
	b.WriteString("\n")
	return b.String()
}

// trimEnd strips trailing whitespace using the ECMAScript definition, which
// artifacts generated by earlier tooling already follow: U+FEFF counts as
// whitespace and U+0085 does not.
func trimEnd(s string) string {
	return strings.TrimRightFunc(s, isTrailingSpace)
}

func isTrailingSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
