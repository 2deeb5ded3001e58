package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/andyballingall/gdcheck/internal/check"
	"github.com/andyballingall/gdcheck/internal/config"
	"github.com/andyballingall/gdcheck/internal/fs"
)

// Version is the current version of gdcheck, set at build time.
var Version = "dev"

const InitConfigCmdName = "init-config"

var LongDescription = `
gdcheck runs gdformat and gdlint over the top-level entries of a Godot project
directory. Each selected entry is checked in turn, and the run stops at the first
entry that fails.

Entries in a tool's ignore set (addons, script_templates), files without an
extension and files that are not GDScript are skipped. Directories are passed
to the tool as they are.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "gdcheck",
		Short:         "Check GDScript formatting and lint a Godot project",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip initialization for help, completion and init-config commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitConfigCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logger, _, err := setupLogger(stderr, ll, env.Get(LogEnvVar), !noColour && isTerminal(stderr))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			if configPath == "" {
				configPath = env.Get(config.ConfigEnvVar)
			}

			runner := check.NewExecRunner(os.Stdin, stdout, stderr)
			lazy.SetInner(NewCLIManager(logger, fs.NewOSLister(), runner, configPath, stdout))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a config file (default: "+config.ConfigFile+" in the target directory)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitConfigCmd())
	rootCmd.AddCommand(NewFormatCmd(lazy))
	rootCmd.AddCommand(NewLintCmd(lazy))
	rootCmd.AddCommand(NewAllCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
