// Package sources loads the query source registry (query-sources.json).
// Each entry pins one upstream highlight query: repository, revision, path,
// the generated target it owns, an optional override file, and an ordered
// list of literal replacements. The raw JSON is checked against an embedded
// JSON Schema, then decoded and checked for pinning, path safety and target
// uniqueness. Any failure is reported as a *ConfigError.
package sources
