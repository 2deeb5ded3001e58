// Package report renders the results of gdcheck runs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/andyballingall/gdcheck/internal/check"
)

// TextReporter implements check.Reporter for plain text output.
type TextReporter struct {
	UseColour bool
}

type palette struct {
	pass  *color.Color
	fail  *color.Color
	grey  *color.Color
	white *color.Color
	bold  *color.Color
}

func (tr *TextReporter) palette() palette {
	p := palette{
		pass:  color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		grey:  color.New(color.FgHiBlack),
		white: color.New(color.FgWhite),
		bold:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.grey, p.white, p.bold} {
		if tr.UseColour {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (tr *TextReporter) Write(w io.Writer, reports ...*check.Report) error {
	p := tr.palette()
	divider := strings.Repeat("-", 40)

	totalPassed, totalFailed, totalUnchecked := 0, 0, 0

	for _, r := range reports {
		fmt.Fprintf(w, "%s\n", divider)
		fmt.Fprintf(w, "%s\n\n", p.bold.Sprintf("GDCHECK %s REPORT", strings.ToUpper(r.Tool)))
		fmt.Fprintf(w, "%s %s\n", p.grey.Sprint("Command: "), p.white.Sprint(r.Command))
		fmt.Fprintf(w, "%s %s\n", p.grey.Sprint("Dir:     "), p.white.Sprint(r.Dir))
		fmt.Fprintf(w, "%s %s\n", p.grey.Sprint("Started: "), p.white.Sprint(r.StartTime.Format("15:04:05")))
		fmt.Fprintf(w, "%s %s\n", p.grey.Sprint("Duration:"), p.white.Sprint(r.Duration().String()))
		fmt.Fprintf(w, "%s\n", divider)

		if len(r.Selected) == 0 {
			fmt.Fprintf(w, "%s\n", p.grey.Sprint("No entries to check"))
		}

		for _, o := range r.Outcomes {
			switch o.Status {
			case check.StatusPassed:
				fmt.Fprintf(w, "%s %s\n", p.pass.Sprint("[PASS]"), o.Entry.Name)
			case check.StatusFailed:
				detail := fmt.Sprintf("(exit status %d)", o.ExitCode)
				if o.Err != nil {
					detail = fmt.Sprintf("(%v)", o.Err)
				}
				fmt.Fprintf(w, "%s %s %s\n", p.fail.Sprint("[FAIL]"), p.fail.Sprint(o.Entry.Name), p.fail.Sprint(detail))
			}
		}

		unchecked := r.Unchecked()
		for _, e := range unchecked {
			fmt.Fprintf(w, "%s %s\n", p.grey.Sprint("[----]"), p.grey.Sprintf("%s (not checked)", e.Name))
		}

		totalPassed += r.Passed()
		totalFailed += r.Failed()
		totalUnchecked += len(unchecked)
	}

	fmt.Fprintf(w, "%s\n", divider)
	summary := fmt.Sprintf("%d passed, %d failed, %d not checked", totalPassed, totalFailed, totalUnchecked)
	statsColour := p.pass
	if totalFailed > 0 {
		statsColour = p.fail
	}
	fmt.Fprintf(w, "%s%s\n", p.bold.Sprint("Summary: "), statsColour.Sprint(summary))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}
