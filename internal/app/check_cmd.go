package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/gdcheck/internal/config"
)

func NewFormatCmd(mgr Manager) *cobra.Command {
	return newCheckCmd(mgr, "format", "Check that GDScript files are formatted with gdformat",
		`  gdcheck format
  gdcheck format ./game --output text
  gdcheck format --dry-run`,
		config.ToolFormat)
}

func NewLintCmd(mgr Manager) *cobra.Command {
	return newCheckCmd(mgr, "lint", "Lint GDScript files with gdlint",
		`  gdcheck lint
  gdcheck lint ./game --watch`,
		config.ToolLint)
}

func NewAllCmd(mgr Manager) *cobra.Command {
	return newCheckCmd(mgr, "all", "Run the format check and then the linter",
		`  gdcheck all
  gdcheck all ./game --output json`,
		config.ToolFormat, config.ToolLint)
}

func newCheckCmd(mgr Manager, use, short, example string, tools ...config.ToolName) *cobra.Command {
	var dryRun bool
	var watch bool

	cmd := &cobra.Command{
		Use:     use + " [dir]",
		Short:   short,
		Args:    cobra.MaximumNArgs(1),
		Example: example,
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the commands that would be run, without running them")
	outputVal := outputValue(OutputNone)
	cmd.Flags().VarP(&outputVal, "output", "o", "Report format (none, text, json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for changes and rerun the checks")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "watch")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		noColour, _ := cmd.Flags().GetBool("nocolour")
		opts := CheckOptions{
			DryRun:    dryRun,
			Output:    outputVal.String(),
			UseColour: !noColour && isTerminal(cmd.OutOrStdout()),
		}

		if watch {
			return mgr.WatchCheck(cmd.Context(), dir, tools, opts, nil)
		}
		return mgr.Check(cmd.Context(), dir, tools, opts)
	}

	return cmd
}
