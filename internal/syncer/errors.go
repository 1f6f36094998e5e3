package syncer

import "fmt"

// DriftError reports, in check mode, a target whose on-disk content differs
// from what the pipeline generates.
type DriftError struct {
	Name       string
	TargetPath string
	Command    string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: %s is out of date. Run: %s", e.Name, e.TargetPath, e.Command)
}
