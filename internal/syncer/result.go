package syncer

import "fmt"

// Mode selects between regenerating targets and verifying them.
type Mode int

const (
	// ModeWrite regenerates and persists changed targets.
	ModeWrite Mode = iota
	// ModeCheck regenerates in memory and reports drift.
	ModeCheck
)

func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "write"
}

// State is the position of an entry in the sync pipeline. The last four are
// terminal.
type State string

const (
	StateFetching     State = "fetching"
	StateSubstituting State = "substituting"
	StateComposing    State = "composing"
	StateComparing    State = "comparing"
	StateUnchanged    State = "unchanged"
	StateWouldChange  State = "would-change"
	StateWritten      State = "written"
	StateFailed       State = "failed"
)

// Result is the outcome of syncing one entry.
type Result struct {
	Name       string
	TargetPath string
	State      State
	Changed    bool
	Err        error

	// FailedAt is the stage an entry was in when it failed.
	FailedAt State

	// Existing and Generated hold the normalized texts of a drifted entry
	// so callers can show a diff. Empty otherwise.
	Existing  string
	Generated string
}

// Label is the word printed next to the entry name.
func (r Result) Label(mode Mode) string {
	switch r.State {
	case StateWritten:
		return "updated"
	case StateUnchanged:
		if mode == ModeCheck {
			return "checked"
		}
		return "unchanged"
	case StateWouldChange:
		return "out of date"
	default:
		return "failed"
	}
}

// Report collects the results of one run in processing order.
type Report struct {
	Mode    Mode
	Results []Result
}

// Updated returns the number of targets written.
func (r *Report) Updated() int {
	n := 0
	for _, res := range r.Results {
		if res.State == StateWritten {
			n++
		}
	}
	return n
}

// Stale returns the entries whose targets are out of date (check mode).
func (r *Report) Stale() []Result {
	var stale []Result
	for _, res := range r.Results {
		if res.State == StateWouldChange {
			stale = append(stale, res)
		}
	}
	return stale
}

// Failed returns every entry that ended with an error, drift included.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary is the closing line of a run.
func (r *Report) Summary() string {
	if r.Mode == ModeCheck {
		if failed := len(r.Failed()); failed > 0 {
			return fmt.Sprintf("Query sources check failed (%d/%d entries not verified).", failed, len(r.Results))
		}
		return fmt.Sprintf("Query sources check passed (%d entries).", len(r.Results))
	}
	return fmt.Sprintf("Query sync complete (%d/%d updated).", r.Updated(), len(r.Results))
}
