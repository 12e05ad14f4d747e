package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/relpkg"
)

var updateIndexCmd = &cobra.Command{
	Use:   "update-index",
	Short: "Fetch the latest package catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := relpkg.NewManager(cmd.Context(), config, &relpkg.Options{NoSync: true})
		if err != nil {
			return err
		}
		if err := m.SyncIndex(cmd.Context()); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "package index updated")
		return nil
	},
}
