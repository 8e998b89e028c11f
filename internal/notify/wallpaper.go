// Package notify delivers wallpaper-change and mode-change notifications to
// the theme reactor as an ordered event stream.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// wallpaperState is the shape of the shell's wallpaper state file: a map of
// output name to the image path currently shown on it.
type wallpaperState struct {
	Wallpapers map[string]string `json:"wallpapers"`
}

// WallpaperWatcher emits WallpaperChanged events by watching the desktop
// shell's wallpaper state file. The parent directory is watched rather than
// the file itself so atomic replace-by-rename is observed.
type WallpaperWatcher struct {
	log  hclog.Logger
	path string
	last map[string]string
}

// NewWallpaperWatcher creates a watcher for the state file at path.
func NewWallpaperWatcher(path string, log hclog.Logger) *WallpaperWatcher {
	return &WallpaperWatcher{
		log:  log,
		path: path,
		last: make(map[string]string),
	}
}

// Run emits events for the current state immediately, then for every change
// to the state file until ctx is cancelled.
func (w *WallpaperWatcher) Run(ctx context.Context, out chan<- Event) error {
	if err := w.emitChanges(ctx, out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create wallpaper watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch wallpaper state directory: %w", err)
	}

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.emitChanges(ctx, out); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("wallpaper watcher error", "error", err)
		}
	}
}

// emitChanges reloads the state file and emits one event per output whose
// wallpaper differs from the last observed state. Outputs are visited in
// sorted order so event order is stable.
func (w *WallpaperWatcher) emitChanges(ctx context.Context, out chan<- Event) error {
	state, err := w.load()
	if err != nil {
		// A missing or momentarily half-written file is not fatal; keep the
		// last known state and wait for the next change.
		w.log.Warn("failed to load wallpaper state", "path", w.path, "error", err)
		return nil
	}

	outputs := make([]string, 0, len(state))
	for output := range state {
		outputs = append(outputs, output)
	}
	sort.Strings(outputs)

	for _, output := range outputs {
		image := state[output]
		if w.last[output] == image {
			continue
		}
		w.last[output] = image
		w.log.Debug("wallpaper changed", "output", output, "image", image)
		select {
		case out <- WallpaperChanged(output, image):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// load reads and parses the wallpaper state file.
func (w *WallpaperWatcher) load() (map[string]string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, err
	}
	var state wallpaperState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid wallpaper state: %w", err)
	}
	return state.Wallpapers, nil
}
