// Package applier commits finished palettes to the desktop shell's
// appearance settings.
package applier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tintd/internal/colour"
)

// Applier is the sink for synthesized palettes. Apply is best-effort: the
// reactor logs failures and retries only on the next change event.
type Applier interface {
	Apply(ctx context.Context, output string, p colour.Palette) error
}

// FileApplier writes each palette as a role→hex JSON document under the
// shell's appearance directory, one file per (output, mode), which the shell
// watches and picks up.
type FileApplier struct {
	log hclog.Logger
	dir string
}

// NewFileApplier creates a FileApplier writing into dir.
func NewFileApplier(dir string, log hclog.Logger) *FileApplier {
	return &FileApplier{log: log, dir: dir}
}

// Apply commits the palette for one output.
func (a *FileApplier) Apply(_ context.Context, output string, p colour.Palette) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil { // #nosec G301 - Appearance files are read by the shell
		return fmt.Errorf("apply failed: %w", err)
	}

	data, err := json.MarshalIndent(p.Roles(), "", "  ")
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}
	data = append(data, '\n')

	name := fmt.Sprintf("%s-%s.json", sanitizeOutput(output), p.Mode)
	path := filepath.Join(a.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Appearance files are read by the shell
		return fmt.Errorf("apply failed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("apply failed: %w", err)
	}

	a.log.Info("applied palette", "output", output, "mode", p.Mode.String(), "file", path)
	return nil
}

// sanitizeOutput makes an output name safe as a filename component; output
// names like "eDP-1" or "HDMI-A-1" pass through unchanged.
func sanitizeOutput(output string) string {
	var b strings.Builder
	for _, r := range output {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "output"
	}
	return b.String()
}
