// Package cli defines the Cobra command tree for the querysync CLI. The root
// command runs the sync itself; list, validate, config, and version are
// registered from their own files. Commands delegate to internal packages
// for business logic and only handle flag parsing and output formatting.
package cli
