// Package cli provides the command-line interface for tintd.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/tintd/internal/colour"
	"github.com/jmylchreest/tintd/internal/image"
)

var (
	// Preview command flags
	previewMode string
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <image>",
	Short: "Preview the palettes an image would produce",
	Long: `Synthesize the dark and light palettes for an image and print them,
without touching the cache or the shell's settings.

Examples:
  # Preview both palettes for a wallpaper
  tintd preview wallpaper.jpg

  # Preview only the dark palette
  tintd preview --mode dark wallpaper.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewMode, "mode", "m", "both", "palette mode to preview (dark, light, both)")
}

// runPreview executes the preview command.
func runPreview(cmd *cobra.Command, args []string) error {
	modes, err := previewModes(previewMode)
	if err != nil {
		return err
	}

	sampler := image.NewSampler(image.NewFileLoader(), colour.NewKMeansExtractor())
	samples, err := sampler.Sample(args[0])
	if err != nil {
		return err
	}

	useColour := term.IsTerminal(int(os.Stdout.Fd()))
	for _, mode := range modes {
		p, err := colour.Synthesize(samples, mode)
		if err != nil {
			return err
		}
		printPalette(p, useColour)
	}
	return nil
}

// previewModes resolves the --mode flag into the modes to synthesize.
func previewModes(flag string) ([]colour.Mode, error) {
	switch flag {
	case "both":
		return []colour.Mode{colour.ModeDark, colour.ModeLight}, nil
	case "dark":
		return []colour.Mode{colour.ModeDark}, nil
	case "light":
		return []colour.Mode{colour.ModeLight}, nil
	default:
		return nil, fmt.Errorf("invalid mode: %q (valid modes: dark, light, both)", flag)
	}
}

// previewRoles is the display order for palette roles.
var previewRoles = []colour.Role{
	colour.RoleBackground,
	colour.RoleSurface,
	colour.RolePrimary,
	colour.RoleAccent,
	colour.RoleOnBackground,
	colour.RoleOnSurface,
	colour.RoleOnPrimary,
	colour.RoleOnAccent,
}

// printPalette prints one palette, with truecolour swatches when stdout is a
// terminal.
func printPalette(p colour.Palette, useColour bool) {
	fmt.Printf("%s palette:\n", p.Mode)
	roles := p.Roles()
	for _, role := range previewRoles {
		rgb := roles[role]
		if useColour {
			fmt.Printf("  %s\n", colour.FormatColourWithLabel(rgb, string(role), 8))
		} else {
			fmt.Printf("  %-15s %s\n", role, rgb.Hex())
		}
	}
	fmt.Println()
}
