package check

import (
	"context"
	"log/slog"
	"time"
)

// Checker runs one external tool over the selected entries of a directory.
// Entries are checked one at a time, and the run stops at the first failure.
type Checker struct {
	cmd    Command
	policy Policy
	lister Lister
	runner Runner
	logger *slog.Logger
}

// NewChecker creates a new Checker.
func NewChecker(cmd Command, p Policy, l Lister, r Runner, logger *slog.Logger) *Checker {
	return &Checker{
		cmd:    cmd,
		policy: p,
		lister: l,
		runner: r,
		logger: logger.With("tool", cmd.Tool),
	}
}

// Command returns the command template used by the checker.
func (c *Checker) Command() Command {
	return c.cmd
}

// Policy returns the inclusion policy used by the checker.
func (c *Checker) Policy() Policy {
	return c.policy
}

// Plan lists dir and returns the entries that Run would check, in order.
func (c *Checker) Plan(dir string) ([]Entry, error) {
	entries, err := c.lister.List(dir)
	if err != nil {
		return nil, &ListDirError{Dir: dir, Wrapped: err}
	}
	return c.policy.Select(entries), nil
}

// Run checks every selected entry in dir. It returns a *CheckFailedError as soon as
// the tool exits non-zero for an entry; later entries are not checked. The returned
// Report is non-nil whenever the directory could be listed.
func (c *Checker) Run(ctx context.Context, dir string) (*Report, error) {
	selected, err := c.Plan(dir)
	if err != nil {
		return nil, err
	}

	report := NewReport(c.cmd, dir, selected)
	report.StartTime = time.Now()
	defer func() { report.EndTime = time.Now() }()

	c.logger.Debug("starting check run", "dir", dir, "command", c.cmd.String(), "entries", len(selected))

	for _, e := range selected {
		if ce := ctx.Err(); ce != nil {
			return report, ce
		}

		name, args := c.cmd.Argv(e.Name)
		c.logger.Debug("checking entry", "entry", e.Name, "args", args)

		code, rErr := c.runner.Run(ctx, dir, name, args...)
		if ce := ctx.Err(); ce != nil {
			return report, ce
		}

		if code == 0 && rErr == nil {
			report.addOutcome(Outcome{Entry: e, Status: StatusPassed})
			continue
		}

		if code == 0 {
			code = CommandNotFoundExitCode
		}
		report.addOutcome(Outcome{Entry: e, Status: StatusFailed, ExitCode: code, Err: rErr})
		c.logger.Debug("check failed", "entry", e.Name, "exitCode", code, "error", rErr)

		return report, &CheckFailedError{
			Tool:     c.cmd.Tool,
			Command:  name,
			Entry:    e.Name,
			ExitCode: code,
			Cause:    rErr,
		}
	}

	return report, nil
}
