package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/gdcheck/internal/fs"
)

// Run builds the command tree and executes it with the given arguments.
// A non-nil error means the process should exit with status 1.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, envProvider fs.EnvProvider) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	// Local lazy instance ensures t.Parallel() safety
	lazy := &LazyManager{}

	if envProvider == nil {
		envProvider = fs.NewEnvProvider()
	}

	rootCmd := NewRootCmd(lazy, logLevel, stdout, stderr, envProvider)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors is set, so this is the only place the error is printed
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
