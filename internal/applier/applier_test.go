package applier

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tintd/internal/colour"
)

func TestFileApplierWritesRoleDocument(t *testing.T) {
	dir := t.TempDir()
	a := NewFileApplier(dir, hclog.NewNullLogger())

	p := colour.DefaultPalette(colour.ModeDark)
	require.NoError(t, a.Apply(context.Background(), "DP-1", p))

	data, err := os.ReadFile(filepath.Join(dir, "DP-1-dark.json"))
	require.NoError(t, err)

	var roles map[string]string
	require.NoError(t, json.Unmarshal(data, &roles))
	assert.Len(t, roles, 8)
	assert.Equal(t, p.Background.Hex(), roles["background"])
	assert.Equal(t, p.OnPrimary.Hex(), roles["on-primary"])
}

func TestFileApplierSeparatesModes(t *testing.T) {
	dir := t.TempDir()
	a := NewFileApplier(dir, hclog.NewNullLogger())

	require.NoError(t, a.Apply(context.Background(), "DP-1", colour.DefaultPalette(colour.ModeDark)))
	require.NoError(t, a.Apply(context.Background(), "DP-1", colour.DefaultPalette(colour.ModeLight)))

	assert.FileExists(t, filepath.Join(dir, "DP-1-dark.json"))
	assert.FileExists(t, filepath.Join(dir, "DP-1-light.json"))
}

func TestFileApplierOverwrites(t *testing.T) {
	dir := t.TempDir()
	a := NewFileApplier(dir, hclog.NewNullLogger())

	first := colour.DefaultPalette(colour.ModeDark)
	require.NoError(t, a.Apply(context.Background(), "DP-1", first))

	second := first
	second.Accent = colour.RGB{R: 0xff, G: 0x80, B: 0x00}
	require.NoError(t, a.Apply(context.Background(), "DP-1", second))

	data, err := os.ReadFile(filepath.Join(dir, "DP-1-dark.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "#ff8000")
}

func TestFileApplierCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "appearance")
	a := NewFileApplier(dir, hclog.NewNullLogger())

	require.NoError(t, a.Apply(context.Background(), "DP-1", colour.DefaultPalette(colour.ModeDark)))
	assert.FileExists(t, filepath.Join(dir, "DP-1-dark.json"))
}

func TestSanitizeOutput(t *testing.T) {
	assert.Equal(t, "HDMI-A-1", sanitizeOutput("HDMI-A-1"))
	assert.Equal(t, "eDP-1", sanitizeOutput("eDP-1"))
	assert.Equal(t, "DP_1_left_", sanitizeOutput("DP/1 left!"))
	assert.Equal(t, "output", sanitizeOutput(""))
}
