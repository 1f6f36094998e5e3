// Package compose builds generated query artifacts: a provenance header,
// the rewritten upstream body, and an optional local override section.
// The output is a pure function of its inputs and is independent of the
// line-ending style of any of them.
package compose
