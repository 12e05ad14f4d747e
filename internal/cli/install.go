// internal/cli/install.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/relpkg"
)

var (
	installVersion string
	installRefresh bool
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install package",
	Long: `Install a package, or move an installed package to another release.

Examples:
  relpkg install gh
  relpkg install gh --version 2.40.0
  relpkg install gh --refresh`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installVersion, "version", "v", "", "package version")
	installCmd.Flags().BoolVarP(&installRefresh, "refresh", "r", false, "refresh package with the latest version")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, err := newManager(ctx)
	if err != nil {
		return err
	}

	req := relpkg.Request{
		Name:    args[0],
		Version: installVersion,
		Refresh: installRefresh,
	}

	plan, err := m.Plan(req)
	if err != nil {
		return err
	}
	step(cmd.OutOrStdout(), plan.Describe())

	out, err := m.Apply(ctx, plan)
	if err != nil {
		return err
	}
	success(cmd.OutOrStdout(), out.Summary())
	detail(cmd.OutOrStdout(), "executables linked into %s", m.BinDir())

	return nil
}
