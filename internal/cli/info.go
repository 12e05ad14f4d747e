// internal/cli/info.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/relpkg"
)

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show information about a package",
	Long:  `Display the catalog entry of a package and the release installed for it, if any.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd.Context())
	if err != nil {
		return err
	}

	pkg, err := m.Info(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Package: %s\n", pkg.Name)
	fmt.Fprintf(w, "Source: https://github.com/%s\n", pkg.Source)
	if pkg.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", pkg.Description)
	}
	if pkg.Homepage != "" {
		fmt.Fprintf(w, "Homepage: %s\n", pkg.Homepage)
	}
	fmt.Fprintf(w, "Executables: %v\n", pkg.Executables())

	rel, err := m.Current(pkg.Name)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Installed: %s (tag %s, %s)\n", rel.Version, rel.Tag, rel.InstalledAt.Format("2006-01-02"))
	case errors.Is(err, relpkg.ErrReleaseNotFound):
		fmt.Fprintln(w, "Installed: no")
	default:
		return err
	}

	return nil
}
