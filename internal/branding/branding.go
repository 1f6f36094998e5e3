// Package branding provides compile-time identity values for the CLI.
//
// Values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. The generator id and override marker end up in
// every generated artifact, so changing them rewrites all targets.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName             string `yaml:"cli_name"`
	DisplayName         string `yaml:"display_name"`
	Description         string `yaml:"description"`
	HomeDir             string `yaml:"home_dir"`
	EnvPrefix           string `yaml:"env_prefix"`
	GoModule            string `yaml:"go_module"`
	Generator           string `yaml:"generator"`
	OverrideMarker      string `yaml:"override_marker"`
	DefaultOverrideHint string `yaml:"default_override_hint"`
	SourcesFile         string `yaml:"sources_file"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:             "querysync",
			DisplayName:         "QuerySync",
			Description:         "Keep generated highlight queries in sync with pinned upstream sources",
			HomeDir:             ".querysync",
			EnvPrefix:           "QUERYSYNC",
			GoModule:            "github.com/athas-labs/querysync",
			Generator:           "querysync",
			OverrideMarker:      "; --- Athas overrides ---",
			DefaultOverrideHint: "highlights.override.scm",
			SourcesFile:         "query-sources.json",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "querysync").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".querysync").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "QUERYSYNC").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// Generator returns the generator identity written into artifact headers.
func Generator() string { load(); return defaults.Generator }

// OverrideMarker returns the comment line that separates upstream content
// from the local override section.
func OverrideMarker() string { load(); return defaults.OverrideMarker }

// DefaultOverrideHint returns the override file name mentioned in headers of
// entries that do not declare an overridePath.
func DefaultOverrideHint() string { load(); return defaults.DefaultOverrideHint }

// SourcesFile returns the default registry file name.
func SourcesFile() string { load(); return defaults.SourcesFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("TIMEOUT") → "QUERYSYNC_TIMEOUT".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
