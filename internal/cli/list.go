// internal/cli/list.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Long:  `List every installed package with its version and release tag.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd.Context())
	if err != nil {
		return err
	}

	releases, err := m.Installed()
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		detail(cmd.OutOrStdout(), "no packages installed")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tTAG\tINSTALLED")
	for _, rel := range releases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rel.Package, rel.Version, rel.Tag, rel.InstalledAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
