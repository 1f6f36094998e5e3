// Package syncer drives the per-entry query sync pipeline:
//
//	fetch → substitute → compose → compare → {unchanged | would-change | written}
//
// Entries run one at a time in sorted name order. In write mode a changed
// artifact is written atomically and an unchanged one is left untouched, so
// a second run performs no writes. In check mode nothing is written and any
// difference becomes a *DriftError. Both modes use the same comparison, so
// check reports unchanged exactly when write would not write.
//
// A fetch, replacement or I/O failure stops the run at that entry. Drift is
// collected across all entries and returned together, unless fail-fast is
// enabled.
package syncer
