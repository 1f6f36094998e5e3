package sources

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
)

// Load reads, validates and decodes the registry at path.
func Load(file string) (Registry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{File: file, Err: fmt.Errorf("file not found")}
		}
		return nil, &ConfigError{File: file, Err: fmt.Errorf("reading file: %w", err)}
	}

	reg, err := Parse(data)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = file
			return nil, cfgErr
		}
		return nil, &ConfigError{File: file, Err: err}
	}
	return reg, nil
}

// Parse validates and decodes raw registry JSON.
func Parse(data []byte) (Registry, error) {
	issues, err := ValidateSchema(data)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}

	var reg Registry
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("decoding JSON: %w", err)}
	}
	if reg == nil {
		reg = Registry{}
	}

	if issues := Check(reg); len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}
	return reg, nil
}

// Check applies the rules the schema cannot express: pinned revisions, safe
// relative paths, and one owner per target file. Issues are reported in
// entry name order.
func Check(reg Registry) []Issue {
	var issues []Issue
	add := func(name string, err error) {
		issues = append(issues, Issue{Entry: name, Message: err.Error()})
	}

	// Scoped to this call: target path -> owning entry.
	owners := make(map[string]string, len(reg))
	names := reg.Names()

	for _, name := range names {
		entry := reg[name]
		if err := CheckRepository(entry.Repository); err != nil {
			add(name, err)
		}
		if err := CheckRevision(entry.Revision); err != nil {
			add(name, err)
		}
		if err := CheckRelativePath("queryPath", entry.QueryPath); err != nil {
			add(name, err)
		}
		if err := CheckRelativePath("targetPath", entry.TargetPath); err != nil {
			add(name, err)
		} else {
			target := path.Clean(entry.TargetPath)
			if owner, dup := owners[target]; dup {
				add(name, fmt.Errorf("targetPath %q is already owned by %q", entry.TargetPath, owner))
			} else {
				owners[target] = name
			}
		}
		if entry.OverridePath != "" {
			if err := CheckRelativePath("overridePath", entry.OverridePath); err != nil {
				add(name, err)
			}
		}
		for i, r := range entry.Replacements {
			if r.Find == "" {
				add(name, fmt.Errorf("replacements[%d].find is empty", i))
			}
		}
	}

	// An override that is also some entry's target would be overwritten.
	for _, name := range names {
		entry := reg[name]
		if entry.OverridePath == "" {
			continue
		}
		if owner, clash := owners[path.Clean(entry.OverridePath)]; clash {
			add(name, fmt.Errorf("overridePath %q is the target of %q", entry.OverridePath, owner))
		}
	}

	return issues
}
