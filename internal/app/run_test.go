package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/gdcheck/internal/config"
	"github.com/andyballingall/gdcheck/internal/fs"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		err := Run(context.Background(), []string{"gdcheck", "--help"}, io.Discard, io.Discard, fs.MapEnvProvider{})
		require.NoError(t, err)
	})

	t.Run("invalid command", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		err := Run(context.Background(), []string{"gdcheck", "invalid-command"}, io.Discard, &stderr, fs.MapEnvProvider{})
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error: unknown command")
	})

	t.Run("nothing to check", func(t *testing.T) {
		t.Parallel()
		dir := writeProject(t, "b.txt", "README", "addons/", "script_templates/")
		err := Run(context.Background(), []string{"gdcheck", "format", dir}, io.Discard, io.Discard, fs.MapEnvProvider{})
		require.NoError(t, err)
	})

	t.Run("dry run", func(t *testing.T) {
		t.Parallel()
		dir := writeProject(t, "a.gd", "b.txt", "addons/")
		var stdout bytes.Buffer
		err := Run(context.Background(), []string{"gdcheck", "lint", "-n", dir}, &stdout, io.Discard, fs.MapEnvProvider{})
		require.NoError(t, err)
		assert.Equal(t, "gdlint a.gd\n", stdout.String())
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		missing := filepath.Join(t.TempDir(), "missing")
		err := Run(context.Background(), []string{"gdcheck", "all", missing}, io.Discard, &stderr, fs.MapEnvProvider{})
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error: ")
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		dir := writeProject(t, "a.gd")
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("tools: ["), 0o600))
		var stderr bytes.Buffer
		err := Run(context.Background(), []string{"gdcheck", "format", dir}, io.Discard, &stderr, fs.MapEnvProvider{})
		var invalid *config.InvalidYAMLError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, stderr.String(), "is not a valid yaml document")
	})

	t.Run("unwritable log file still runs", func(t *testing.T) {
		t.Parallel()
		dir := writeProject(t, "README")
		var stderr bytes.Buffer
		env := fs.MapEnvProvider{LogEnvVar: dir}
		err := Run(context.Background(), []string{"gdcheck", "format", dir}, io.Discard, &stderr, env)
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "Warning: logging to file disabled")
	})

	t.Run("log file receives run records", func(t *testing.T) {
		t.Parallel()
		dir := writeProject(t, "a.gd")
		logFile := filepath.Join(t.TempDir(), "gdcheck.log")
		env := fs.MapEnvProvider{LogEnvVar: logFile}
		err := Run(context.Background(), []string{"gdcheck", "--debug", "lint", "-n", dir}, io.Discard, io.Discard, env)
		require.NoError(t, err)

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"tool":"lint"`)
	})

	t.Run("nil env", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		err := Run(context.Background(), []string{"gdcheck", "--help"}, &stdout, io.Discard, nil)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "gdcheck runs gdformat")
	})
}
