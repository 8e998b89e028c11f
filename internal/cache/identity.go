// Package cache provides the persistent palette store keyed by wallpaper
// identity and mode.
package cache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// identityHashLen is how many hex characters of the content hash are kept in
// the cache key. 48 bits is far beyond what colliding wallpapers could reach.
const identityHashLen = 12

// Identity is a stable key uniquely identifying a wallpaper for caching.
// It is derived from the image's content, so editing the image in place
// produces a new identity while repeated runs over the same file agree.
type Identity struct {
	// Path is the wallpaper file path the identity was derived from.
	Path string
	// Hash is the hex SHA-256 of the file contents.
	Hash string
}

// DeriveIdentity computes the identity of the wallpaper at path by hashing
// its contents.
func DeriveIdentity(path string) (Identity, error) {
	file, err := os.Open(path) // #nosec G304 - Wallpaper path comes from the shell's own state
	if err != nil {
		return Identity{}, fmt.Errorf("failed to open wallpaper for hashing: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return Identity{}, fmt.Errorf("failed to hash wallpaper: %w", err)
	}

	return Identity{
		Path: path,
		Hash: fmt.Sprintf("%x", hash.Sum(nil)),
	}, nil
}

// Key returns the filename-safe cache key: the wallpaper's base name plus a
// content hash prefix. The readable stem keeps the state directory
// hand-inspectable; the hash makes the key collision-resistant.
func (id Identity) Key() string {
	stem := strings.TrimSuffix(filepath.Base(id.Path), filepath.Ext(id.Path))
	hash := id.Hash
	if len(hash) > identityHashLen {
		hash = hash[:identityHashLen]
	}
	return sanitizeStem(stem) + "-" + hash
}

// sanitizeStem replaces anything that is not a letter, digit, dash or
// underscore so the key is safe as a filename component.
func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "wallpaper"
	}
	return b.String()
}
