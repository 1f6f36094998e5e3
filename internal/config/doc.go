// Package config manages querysync settings. Values come from, in order of
// precedence, bound command flags, QUERYSYNC_* environment variables, the
// user config file at ~/.querysync/config.yaml, and built-in defaults.
package config
