package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/andyballingall/gdcheck/internal/check"
	"github.com/andyballingall/gdcheck/internal/config"
	"github.com/andyballingall/gdcheck/internal/fs"
	"github.com/andyballingall/gdcheck/internal/report"
)

// CheckOptions controls a single check command.
type CheckOptions struct {
	DryRun    bool
	Output    string
	UseColour bool
}

// Manager is the interface for the gdcheck application logic.
// It is used by the cobra commands so that they can be tested with a mock.
type Manager interface {
	Check(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions) error
	WatchCheck(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions,
		readyChan chan<- struct{}) error
}

// LazyManager is a proxy that allows commands to be created with a Manager
// that is only fully initialised in PersistentPreRunE.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) Check(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions) error {
	return l.inner.Check(ctx, dir, tools, opts)
}

func (l *LazyManager) WatchCheck(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions,
	readyChan chan<- struct{},
) error {
	return l.inner.WatchCheck(ctx, dir, tools, opts, readyChan)
}

// CLIManager runs the configured tools over a directory.
type CLIManager struct {
	logger     *slog.Logger
	lister     check.Lister
	runner     check.Runner
	configPath string
	stdout     io.Writer
}

// NewCLIManager creates a new CLIManager. If configPath is empty, each run looks
// for a config file in the target directory.
func NewCLIManager(logger *slog.Logger, lister check.Lister, runner check.Runner, configPath string,
	stdout io.Writer,
) *CLIManager {
	return &CLIManager{
		logger:     logger,
		lister:     lister,
		runner:     runner,
		configPath: configPath,
		stdout:     stdout,
	}
}

func (m *CLIManager) loadConfig(dir string) (*config.Config, error) {
	if m.configPath != "" {
		return config.Load(m.configPath)
	}
	return config.LoadDir(dir)
}

// checkers resolves dir and builds one checker per tool, in the order given.
func (m *CLIManager) checkers(dir string, tools []config.ToolName) (string, []*check.Checker, error) {
	absDir, err := fs.ResolveDir(dir)
	if err != nil {
		return "", nil, err
	}

	cfg, err := m.loadConfig(absDir)
	if err != nil {
		return "", nil, err
	}
	if cfg.Path != "" {
		m.logger.Debug("Loaded configuration", "path", cfg.Path)
	}

	checkers := make([]*check.Checker, 0, len(tools))
	for _, name := range tools {
		tc, err := cfg.Tool(name)
		if err != nil {
			return "", nil, err
		}
		checkers = append(checkers, check.NewChecker(tc.CheckCommand(name), tc.Policy(), m.lister, m.runner, m.logger))
	}
	return absDir, checkers, nil
}

// Check runs each tool over dir in turn. The first failing entry of any tool ends the run.
func (m *CLIManager) Check(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions) error {
	absDir, checkers, err := m.checkers(dir, tools)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return m.plan(absDir, checkers)
	}
	return m.run(ctx, absDir, checkers, opts, m.logger.With("run", uuid.NewString()))
}

// plan prints the command line that would be run for each selected entry.
func (m *CLIManager) plan(dir string, checkers []*check.Checker) error {
	for _, c := range checkers {
		entries, err := c.Plan(dir)
		if err != nil {
			return err
		}
		m.logger.Debug("Planned check", "tool", c.Command().Tool, "entries", len(entries))
		for _, e := range entries {
			name, args := c.Command().Argv(e.Name)
			fmt.Fprintln(m.stdout, strings.Join(append([]string{name}, args...), " "))
		}
	}
	return nil
}

func (m *CLIManager) run(ctx context.Context, dir string, checkers []*check.Checker, opts CheckOptions,
	logger *slog.Logger,
) error {
	var reports []*check.Report
	var runErr error

	for _, c := range checkers {
		logger.Debug("Running check", "tool", c.Command().Tool, "dir", dir)
		r, err := c.Run(ctx, dir)
		if r != nil {
			reports = append(reports, r)
		}
		if err != nil {
			runErr = err
			break
		}
	}

	if reporter := newReporter(opts); reporter != nil && len(reports) > 0 {
		if err := reporter.Write(m.stdout, reports...); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to write report: %w", err))
		}
	}
	return runErr
}

func newReporter(opts CheckOptions) check.Reporter {
	switch opts.Output {
	case OutputText:
		return &report.TextReporter{UseColour: opts.UseColour}
	case OutputJSON:
		return &report.JSONReporter{}
	default:
		return nil
	}
}

// WatchCheck runs the tools once, then again after every relevant change under dir,
// until ctx is cancelled. Failed runs are logged and the watch continues.
func (m *CLIManager) WatchCheck(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions,
	readyChan chan<- struct{},
) error {
	absDir, checkers, err := m.checkers(dir, tools)
	if err != nil {
		return err
	}

	// an entry is watched if any of the tools would check it
	include := func(e check.Entry) bool {
		for _, c := range checkers {
			if c.Policy().Include(e) {
				return true
			}
		}
		return false
	}

	sem := semaphore.NewWeighted(1)
	runOnce := func() {
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer sem.Release(1)

		logger := m.logger.With("run", uuid.NewString())
		if err := m.run(ctx, absDir, checkers, opts, logger); err != nil {
			if ctx.Err() == nil {
				logger.Error("Check failed", "error", err)
			}
			return
		}
		logger.Info("All checks passed")
	}

	runOnce()

	watcher := check.NewWatcher(absDir, include, m.logger)
	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err = watcher.Watch(ctx, func(ev check.WatchEvent) {
		m.logger.Info("Change detected", "entry", ev.Entry.Name)
		runOnce()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
