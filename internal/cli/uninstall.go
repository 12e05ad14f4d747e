package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <package>",
	Aliases: []string{"remove", "rm"},
	Short:   "Uninstall package",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		rel, err := m.Uninstall(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), fmt.Sprintf("%s uninstalled", rel))
		return nil
	},
}
