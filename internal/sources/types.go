package sources

import "sort"

// Replacement is a literal find/replace pair applied to upstream content.
type Replacement struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

// Entry describes one upstream artifact to track.
type Entry struct {
	Repository   string        `json:"repository"`
	Revision     string        `json:"revision"`
	QueryPath    string        `json:"queryPath"`
	TargetPath   string        `json:"targetPath"`
	OverridePath string        `json:"overridePath,omitempty"`
	Replacements []Replacement `json:"replacements,omitempty"`
}

// Registry maps entry names to entries.
type Registry map[string]Entry

// Names returns the entry names in sorted order. Every run walks entries in
// this order so console output is stable.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns a registry restricted to the given names. Unknown names are
// reported as a *ConfigError.
func (r Registry) Select(names []string) (Registry, error) {
	if len(names) == 0 {
		return r, nil
	}

	selected := make(Registry, len(names))
	var issues []Issue
	for _, name := range names {
		entry, ok := r[name]
		if !ok {
			issues = append(issues, Issue{Entry: name, Message: "no such query source"})
			continue
		}
		selected[name] = entry
	}
	if len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}
	return selected, nil
}
