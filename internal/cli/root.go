// Package cli provides the command-line interface for tintd.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tintd/internal/version"
)

var (
	// Global config file flag
	configPath string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "tintd",
		Short: "A wallpaper-driven theme daemon",
		Long: `tintd derives a colour theme from the active desktop wallpaper and applies
it to the desktop shell's appearance settings, keeping dark and light
variants distinct and persisted.

The daemon watches the shell's wallpaper state and the desktop portal's
dark/light preference, synthesizes a readability-safe semantic palette per
output, and caches results so a wallpaper is only ever analysed once.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// NewRootCmd returns the configured root command.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/tintd/config.yaml)")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
