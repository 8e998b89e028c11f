// Package notify delivers wallpaper-change and mode-change notifications to
// the theme reactor as an ordered event stream.
package notify

import (
	"github.com/jmylchreest/tintd/internal/colour"
)

// Kind discriminates the two notification shapes.
type Kind int

const (
	// KindWallpaper reports a new wallpaper image for one output.
	KindWallpaper Kind = iota
	// KindMode reports a dark/light appearance switch, affecting all outputs.
	KindMode
)

// Event is one notification. Wallpaper events carry Output and Image; mode
// events carry Mode.
type Event struct {
	Kind   Kind
	Output string
	Image  string
	Mode   colour.Mode
}

// WallpaperChanged builds a wallpaper-change event.
func WallpaperChanged(output, image string) Event {
	return Event{Kind: KindWallpaper, Output: output, Image: image}
}

// ModeChanged builds a mode-change event.
func ModeChanged(mode colour.Mode) Event {
	return Event{Kind: KindMode, Mode: mode}
}
