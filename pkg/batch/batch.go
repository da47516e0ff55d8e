// Package batch collects outcomes of independent units of a batch run
// and renders them as status lines.
package batch

import (
	"fmt"
	"io"
)

// Outcome of a unit.
type Outcome int

const (
	OK Outcome = iota
	Skip
	Fail
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Skip:
		return "skip"
	default:
		return "fail"
	}
}

// Result is the outcome of one unit.
type Result struct {
	// Unit names the unit, for example "rostov 2024-01".
	Unit string

	Outcome Outcome

	// Path is the written file for OK, the missing input for Skip.
	Path string

	// Reason explains a Skip.
	Reason string

	// Rows is the number of rows written or loaded.
	Rows int

	// Err is set for Fail.
	Err error
}

// Line renders the status line of a result.
func (r Result) Line() string {
	switch r.Outcome {
	case OK:
		return "OK: " + r.Path
	case Skip:
		return fmt.Sprintf("SKIP (%s): %s", r.Reason, r.Path)
	default:
		return fmt.Sprintf("FAIL: %s: %v", r.Unit, r.Err)
	}
}

// Report keeps results in unit order.
type Report struct {
	Stage   string
	Results []Result
}

// Count returns the number of results with the outcome.
func (r *Report) Count(o Outcome) int {
	var res int
	for _, v := range r.Results {
		if v.Outcome == o {
			res++
		}
	}
	return res
}

// Rows is the total of rows of OK results.
func (r *Report) Rows() int {
	var res int
	for _, v := range r.Results {
		if v.Outcome == OK {
			res += v.Rows
		}
	}
	return res
}

// Print writes one status line per result.
func (r *Report) Print(w io.Writer) {
	for _, v := range r.Results {
		fmt.Fprintln(w, v.Line())
	}
}

// Err returns BatchFailedError if any unit failed.
func (r *Report) Err() error {
	failed := r.Count(Fail)
	if failed == 0 {
		return nil
	}
	return BatchFailedError(r.Stage, failed, len(r.Results))
}
