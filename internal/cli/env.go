package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print shell commands that put installed executables on PATH",
	Long: `Print shell commands that put installed executables on PATH.

Add this to your shell profile:
  eval "$(relpkg env)"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "export PATH=%q:\"$PATH\"\n", filepath.Join(config.InstallPath, "bin"))
	},
}
