package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/gdcheck/internal/check"
	"github.com/andyballingall/gdcheck/internal/config"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Check(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions) error {
	args := m.Called(ctx, dir, tools, opts)
	return args.Error(0)
}

func (m *MockManager) WatchCheck(ctx context.Context, dir string, tools []config.ToolName, opts CheckOptions,
	readyChan chan<- struct{},
) error {
	args := m.Called(ctx, dir, tools, opts, readyChan)
	return args.Error(0)
}

// invocation is one call made to a fakeRunner.
type invocation struct {
	dir  string
	name string
	args []string
}

// fakeRunner records invocations and fails the entries named in exitCodes.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []invocation
	exitCodes map[string]int
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invocation{dir: dir, name: name, args: args})
	if len(args) == 0 {
		return 0, nil
	}
	return r.exitCodes[args[len(args)-1]], nil
}

// commandLines returns each recorded call as "name arg...".
func (r *fakeRunner) commandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		line := c.name
		for _, a := range c.args {
			line += " " + a
		}
		lines = append(lines, line)
	}
	return lines
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeProject creates files (and directories, for names ending in "/") under a new temp dir.
func writeProject(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if n[len(n)-1] == '/' {
			require.NoError(t, os.MkdirAll(filepath.Join(dir, n), 0o755))
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("extends Node\n"), 0o600))
	}
	return dir
}

var _ check.Runner = (*fakeRunner)(nil)
