package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("console only without a log file", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, logLevel, "", false)
		require.NoError(t, err)
		assert.Nil(t, closer)

		logger.Info("checking", "dir", "/tmp/game")
		assert.Equal(t, "checking\n", stderr.String())
	})

	t.Run("file and console", func(t *testing.T) {
		t.Parallel()
		logFile := filepath.Join(t.TempDir(), "gdcheck.log")
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelInfo)
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, logLevel, logFile, false)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()

		logger.Debug("debug only in file", "entry", "a.gd")
		logger.Info("test message", "key", "value")

		assert.Contains(t, stderr.String(), "test message")
		assert.NotContains(t, stderr.String(), "key=value")
		assert.NotContains(t, stderr.String(), "debug only in file")

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"test message"`)
		assert.Contains(t, string(data), `"key":"value"`)
		assert.Contains(t, string(data), `"msg":"debug only in file"`)
	})

	t.Run("fallback on file error", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, logLevel, "/non/existent/path/unwritable", false)
		require.Error(t, err)
		assert.Nil(t, closer)
		require.NotNil(t, logger)

		logger.Info("fallback message")
		assert.Contains(t, stderr.String(), "fallback message")
	})
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	newHandler := func(level slog.Level, useColour bool) (*consoleHandler, *bytes.Buffer) {
		buf := &bytes.Buffer{}
		ll := &slog.LevelVar{}
		ll.Set(level)
		return newConsoleHandler(buf, ll, useColour), buf
	}

	t.Run("levels", func(t *testing.T) {
		t.Parallel()
		h, buf := newHandler(slog.LevelInfo, false)
		logger := slog.New(h)

		logger.Debug("hidden")
		logger.Info("info line")
		logger.Warn("warn line")
		logger.Error("error line", "error", errors.New("boom"))

		assert.Equal(t, "info line\nWarning: warn line\nError: error line: boom\n", buf.String())
	})

	t.Run("debug shows attributes", func(t *testing.T) {
		t.Parallel()
		h, buf := newHandler(slog.LevelDebug, false)
		logger := slog.New(h).With("tool", "format")

		logger.Debug("running", "entry", "a.gd")
		assert.Equal(t, "running tool=format entry=a.gd\n", buf.String())
	})

	t.Run("colour labels", func(t *testing.T) {
		t.Parallel()
		h, buf := newHandler(slog.LevelInfo, true)
		logger := slog.New(h)

		logger.Error("failed")
		assert.Equal(t, "\x1b[31mError:\x1b[0m failed\n", buf.String())
	})

	t.Run("with attrs does not leak into parent", func(t *testing.T) {
		t.Parallel()
		h, buf := newHandler(slog.LevelDebug, false)
		child := h.WithAttrs([]slog.Attr{slog.String("run", "1")})

		r := slog.NewRecord(time.Now(), slog.LevelInfo, "parent", 0)
		require.NoError(t, h.Handle(context.Background(), r))
		r = slog.NewRecord(time.Now(), slog.LevelInfo, "child", 0)
		require.NoError(t, child.Handle(context.Background(), r))

		assert.Equal(t, "parent\nchild run=1\n", buf.String())
	})

	t.Run("with group is a no-op", func(t *testing.T) {
		t.Parallel()
		h, _ := newHandler(slog.LevelInfo, false)
		assert.Same(t, h, h.WithGroup("g"))
	})
}

// chunkWriter records each Write call. It has no lock of its own.
type chunkWriter struct {
	chunks []string
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, string(p))
	return len(p), nil
}

func TestConsoleHandler_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	w := &chunkWriter{}
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelDebug)
	logger := slog.New(newConsoleHandler(w, ll, false))
	watchLogger := logger.With("component", "watcher")

	const perWriter = 50
	var wg sync.WaitGroup
	for _, l := range []*slog.Logger{logger, watchLogger, logger.With("run", "r1")} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				l.Error("Check failed", "entry", "a.gd", "i", i, "error", errors.New("exit status 1"))
			}
		}()
	}
	wg.Wait()

	require.Len(t, w.chunks, 3*perWriter)
	for _, c := range w.chunks {
		assert.True(t, strings.HasPrefix(c, "Error: Check failed"), c)
		assert.True(t, strings.HasSuffix(c, ": exit status 1\n"), c)
		assert.Equal(t, 1, strings.Count(c, "\n"), c)
	}
}

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	infoLevel := &slog.LevelVar{}
	infoLevel.Set(slog.LevelInfo)
	debugLevel := &slog.LevelVar{}
	debugLevel.Set(slog.LevelDebug)

	infoBuf := &bytes.Buffer{}
	debugBuf := &bytes.Buffer{}
	m := &multiHandler{handlers: []slog.Handler{
		newConsoleHandler(infoBuf, infoLevel, false),
		slog.NewTextHandler(debugBuf, &slog.HandlerOptions{Level: debugLevel}),
	}}

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, m.Enabled(context.Background(), slog.LevelDebug-1))

	logger := slog.New(m).WithGroup("g").With("k", "v")
	logger.Debug("only debug")
	logger.Info("both")

	assert.Equal(t, "both\n", infoBuf.String())
	assert.Contains(t, debugBuf.String(), "only debug")
	assert.Contains(t, debugBuf.String(), "g.k=v")
}
