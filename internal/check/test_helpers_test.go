package check

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// fakeRunner records every invocation and returns the exit code configured for the entry.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	dirs     []string
	exitCode map[string]int   // keyed by the last argument
	startErr map[string]error // keyed by the last argument
	onRun    func()
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, args...))
	f.dirs = append(f.dirs, dir)
	if f.onRun != nil {
		f.onRun()
	}

	last := ""
	if len(args) > 0 {
		last = args[len(args)-1]
	}
	if err, ok := f.startErr[last]; ok {
		return CommandNotFoundExitCode, err
	}
	return f.exitCode[last], nil
}

// checkedNames returns the last argument of every recorded call.
func (f *fakeRunner) checkedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var names []string
	for _, c := range f.calls {
		names = append(names, c[len(c)-1])
	}
	return names
}

func staticLister(entries ...Entry) Lister {
	return ListerFunc(func(string) ([]Entry, error) {
		return entries, nil
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var formatCmd = Command{Tool: "format", Name: "gdformat", Args: []string{"--check", FilePlaceholder}}

var formatPolicy = Policy{
	Ignore:                 NewIgnoreSet("addons", "script_templates"),
	SkipExtensionlessFiles: true,
}
