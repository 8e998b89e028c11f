// Package cache provides the persistent palette store keyed by wallpaper
// identity and mode.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tintd/internal/colour"
)

// ErrPersistFailed is returned when a palette cannot be written to the
// backing store. The in-memory palette is still valid and applied; only a
// future recompute is at risk.
var ErrPersistFailed = errors.New("persist failed")

// Entry is the persisted unit for one (identity, mode) pair. Colours are
// stored as hex strings so users can inspect and hand-edit entries.
type Entry struct {
	Wallpaper string         `json:"wallpaper"`
	Mode      colour.Mode    `json:"mode"`
	Palette   colour.Palette `json:"palette"`
}

// DefaultDir returns the default state directory for persisted palettes.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir not available.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine state directory: %w", err)
		}
		return filepath.Join(home, ".cache", "tintd", "palettes"), nil
	}
	return filepath.Join(cacheDir, "tintd", "palettes"), nil
}

// Store is a durable (wallpaper identity, mode) → palette cache backed by
// one JSON file per entry under a state directory. The mode is encoded in
// the filename suffix so the polarity of every entry is recoverable from the
// key alone.
//
// A small in-memory memo avoids re-reading files on repeated lookups; an
// fsnotify watcher on the state directory drops memo entries whenever a file
// is externally edited or deleted, so hand edits are picked up on the next
// access instead of being shadowed by a stale copy.
type Store struct {
	log hclog.Logger
	dir string

	mu   sync.Mutex
	memo map[string]colour.Palette

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open opens (creating if necessary) a palette store in dir. The store must
// be closed at daemon shutdown.
func Open(dir string, log hclog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - State directory is meant to be user-inspectable
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &Store{
		log:  log,
		dir:  dir,
		memo: make(map[string]colour.Palette),
		done: make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// The store still works without a watcher; it just re-reads on
		// every lookup instead of memoizing.
		log.Warn("cache watcher unavailable, disabling memoization", "error", err)
		s.memo = nil
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Warn("cannot watch state directory, disabling memoization", "error", err)
		watcher.Close()
		s.memo = nil
		return s, nil
	}

	s.watcher = watcher
	go s.watch()
	return s, nil
}

// Close stops the external-change watcher.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	return s.watcher.Close()
}

// Get looks up the cached palette for an identity and mode. It never
// computes anything; a missing, unreadable or corrupt entry is simply a
// miss. Transient read failures are logged, not propagated.
func (s *Store) Get(id Identity, mode colour.Mode) (colour.Palette, bool) {
	name := s.filename(id, mode)

	s.mu.Lock()
	if s.memo != nil {
		if p, ok := s.memo[name]; ok {
			s.mu.Unlock()
			return p, true
		}
	}
	s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 - Name is derived from the identity key
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read cache entry, treating as miss", "entry", name, "error", err)
		}
		return colour.Palette{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.log.Warn("corrupt cache entry, treating as miss", "entry", name, "error", err)
		return colour.Palette{}, false
	}

	s.mu.Lock()
	if s.memo != nil {
		s.memo[name] = entry.Palette
	}
	s.mu.Unlock()
	return entry.Palette, true
}

// Put durably writes the palette for an identity and mode, overwriting any
// existing entry. The write is atomic (tmp file + rename) so a crash never
// leaves a half-written entry behind.
func (s *Store) Put(id Identity, mode colour.Mode, p colour.Palette) error {
	name := s.filename(id, mode)
	entry := Entry{Wallpaper: id.Path, Mode: mode, Palette: p}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Entries are meant to be user-editable
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.mu.Lock()
	if s.memo != nil {
		s.memo[name] = p
	}
	s.mu.Unlock()
	return nil
}

// Invalidate removes the persisted entry for an identity and mode. Missing
// entries are not an error.
func (s *Store) Invalidate(id Identity, mode colour.Mode) {
	name := s.filename(id, mode)

	s.mu.Lock()
	if s.memo != nil {
		delete(s.memo, name)
	}
	s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove cache entry", "entry", name, "error", err)
	}
}

// filename encodes both the wallpaper identity and the mode marker, e.g.
// "forest-3fa2b1c4d5e6-dark.json". The suffix convention is load-bearing:
// mode must be recoverable from the stored key alone.
func (s *Store) filename(id Identity, mode colour.Mode) string {
	return fmt.Sprintf("%s-%s.json", id.Key(), mode)
}

// watch drops memoized entries when their backing files change externally,
// so deletes force a recompute and in-place edits are re-read.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			s.mu.Lock()
			if s.memo != nil {
				delete(s.memo, name)
			}
			s.mu.Unlock()
			s.log.Debug("cache entry changed on disk", "entry", name, "op", ev.Op.String())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("cache watcher error", "error", err)
		}
	}
}
