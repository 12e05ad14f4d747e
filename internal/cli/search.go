package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the package catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		pkgs, err := m.Search(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(pkgs) == 0 {
			detail(cmd.OutOrStdout(), "no packages found")
			return nil
		}

		for _, p := range pkgs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", nameStyle.Render(p.Name), dimStyle.Render(p.Description))
		}
		return nil
	},
}
