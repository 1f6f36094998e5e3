package sources

import (
	"fmt"
	"strings"
)

// Issue is a single problem found in the registry file.
type Issue struct {
	Entry   string // entry name, empty for file-level problems
	Path    string // JSON pointer into the document, if known
	Message string
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Entry != "" {
		b.WriteString(i.Entry)
		b.WriteString(": ")
	}
	if i.Path != "" {
		b.WriteString(i.Path)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ConfigError reports a registry file that is missing, malformed, or
// violates one of the registry rules. It is raised before any entry runs.
type ConfigError struct {
	File   string
	Issues []Issue
	Err    error
}

func (e *ConfigError) Error() string {
	prefix := "invalid query sources"
	if e.File != "" {
		prefix = fmt.Sprintf("invalid query sources %s", e.File)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", prefix, e.Issues[0])
	}
	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, "  "+issue.String())
	}
	return fmt.Sprintf("%s (%d issues):\n%s", prefix, len(e.Issues), strings.Join(lines, "\n"))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
