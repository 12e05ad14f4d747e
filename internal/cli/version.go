// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "relpkg version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Package manager for GitHub releases")
	},
}
