package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current <package>",
	Short: "Show the installed release of a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		rel, err := m.Current(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, rel)
		detail(w, "tag %s, asset %s", rel.Tag, rel.Asset)
		detail(w, "digest %s", rel.Digest)
		for _, exe := range rel.Executables {
			detail(w, "%s", exe)
		}
		return nil
	},
}
