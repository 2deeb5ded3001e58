package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/gdcheck/internal/check"
)

// JSONReporter implements check.Reporter for JSON output.
type JSONReporter struct{}

type jsonOutcome struct {
	Entry    string `json:"entry"`
	IsFile   bool   `json:"isFile"`
	Status   string `json:"status"`
	ExitCode int    `json:"exitCode"`
	Error    string `json:"error,omitempty"`
}

type jsonRun struct {
	Tool      string `json:"tool"`
	Command   string `json:"command"`
	Dir       string `json:"dir"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Stats     struct {
		Selected  int `json:"selected"`
		Passed    int `json:"passed"`
		Failed    int `json:"failed"`
		Unchecked int `json:"unchecked"`
	} `json:"stats"`
	Outcomes  []jsonOutcome `json:"outcomes"`
	Unchecked []string      `json:"unchecked"`
}

type jsonOutput struct {
	OK   bool      `json:"ok"`
	Runs []jsonRun `json:"runs"`
}

func (jr *JSONReporter) Write(w io.Writer, reports ...*check.Report) error {
	out := jsonOutput{OK: true, Runs: make([]jsonRun, 0, len(reports))}

	for _, r := range reports {
		run := jsonRun{
			Tool:      r.Tool,
			Command:   r.Command,
			Dir:       r.Dir,
			StartTime: r.StartTime.Format(time.RFC3339),
			EndTime:   r.EndTime.Format(time.RFC3339),
			Duration:  r.Duration().String(),
			Outcomes:  make([]jsonOutcome, 0, len(r.Outcomes)),
			Unchecked: make([]string, 0),
		}

		for _, o := range r.Outcomes {
			jo := jsonOutcome{
				Entry:    o.Entry.Name,
				IsFile:   o.Entry.IsFile,
				Status:   string(o.Status),
				ExitCode: o.ExitCode,
			}
			if o.Err != nil {
				jo.Error = o.Err.Error()
			}
			run.Outcomes = append(run.Outcomes, jo)
		}

		for _, e := range r.Unchecked() {
			run.Unchecked = append(run.Unchecked, e.Name)
		}

		run.Stats.Selected = len(r.Selected)
		run.Stats.Passed = r.Passed()
		run.Stats.Failed = r.Failed()
		run.Stats.Unchecked = len(run.Unchecked)

		if !r.OK() {
			out.OK = false
		}
		out.Runs = append(out.Runs, run)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
