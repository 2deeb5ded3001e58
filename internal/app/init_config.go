package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andyballingall/gdcheck/internal/config"
	"github.com/andyballingall/gdcheck/internal/fs"
)

func NewInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   InitConfigCmdName + " [dir]",
		Short: "Write a default " + config.ConfigFile + " to a directory",
		Long: `Writes a commented ` + config.ConfigFile + ` holding the built-in tool settings.
Edit it to change a tool's command, arguments, ignore set or extensionless file rule.
An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := fs.ResolveDir(dir)
			if err != nil {
				return err
			}

			path, err := config.WriteDefault(absDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
