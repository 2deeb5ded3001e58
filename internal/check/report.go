package check

import (
	"io"
	"time"
)

// Reporter renders the reports of one or more check runs.
type Reporter interface {
	Write(w io.Writer, reports ...*Report) error
}

// Status is the outcome of checking one entry.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Outcome records the result of running the external tool on one entry.
type Outcome struct {
	Entry    Entry
	Status   Status
	ExitCode int
	Err      error
}

// Report describes one run of a Checker over a directory.
type Report struct {
	Tool      string
	Command   string
	Dir       string
	StartTime time.Time
	EndTime   time.Time

	// Selected holds every entry that passed the inclusion filter, in run order.
	Selected []Entry
	// Outcomes holds an outcome for every entry that was actually checked.
	Outcomes []Outcome
}

// NewReport creates an empty Report for a run of the given command over dir.
func NewReport(cmd Command, dir string, selected []Entry) *Report {
	return &Report{
		Tool:     cmd.Tool,
		Command:  cmd.String(),
		Dir:      dir,
		Selected: selected,
	}
}

func (r *Report) addOutcome(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Passed returns the number of entries that passed.
func (r *Report) Passed() int {
	return r.count(StatusPassed)
}

// Failed returns the number of entries that failed. With fail-fast runs this is 0 or 1.
func (r *Report) Failed() int {
	return r.count(StatusFailed)
}

func (r *Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Unchecked returns the selected entries which were never run because the run stopped early.
func (r *Report) Unchecked() []Entry {
	if len(r.Outcomes) >= len(r.Selected) {
		return nil
	}
	return r.Selected[len(r.Outcomes):]
}

// OK reports whether every selected entry was checked and passed.
func (r *Report) OK() bool {
	return r.Failed() == 0 && len(r.Unchecked()) == 0
}

// Duration returns the elapsed time of the run.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
