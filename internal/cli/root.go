// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/relpkg"
	"github.com/arc-language/relpkg/pkg/core"
)

const version = "0.1.0"

var (
	cfgFile     string
	installPath string
	debug       bool
	config      *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "relpkg",
	Short: "Package manager for GitHub releases",
	Long: `relpkg - Package manager for GitHub releases

Installs command line tools straight from their GitHub release assets,
keeps track of the installed version and links executables into one bin directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/relpkg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&installPath, "install-path", "", "directory packages are installed into")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(updateIndexCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if installPath != "" {
		config.InstallPath = installPath
	}
	if debug {
		config.Debug = true
		config.Logger = core.NewLogger(true)
	}
}

func newManager(ctx context.Context) (*relpkg.Manager, error) {
	m, err := relpkg.NewManager(ctx, config, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing relpkg: %w", err)
	}
	return m, nil
}
