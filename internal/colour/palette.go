// Package colour provides colour extraction and semantic palette synthesis.
package colour

import (
	"fmt"
)

// RGB represents a colour in 8-bit RGB.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// MarshalText encodes the colour as a hex string so that persisted palettes
// stay hand-editable.
func (rgb RGB) MarshalText() ([]byte, error) {
	return []byte(rgb.Hex()), nil
}

// UnmarshalText parses a "#rrggbb" hex string.
func (rgb *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*rgb = parsed
	return nil
}

// ParseHex parses a hex colour string of the form "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// Mode represents the appearance variant a palette is synthesized for.
type Mode int

const (
	// ModeDark is a dark appearance (light text on dark background).
	ModeDark Mode = iota
	// ModeLight is a light appearance (dark text on light background).
	ModeLight
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeDark:
		return "dark"
	case ModeLight:
		return "light"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name ("dark" or "light").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dark":
		return ModeDark, nil
	case "light":
		return ModeLight, nil
	default:
		return ModeDark, fmt.Errorf("unknown mode: %q", s)
	}
}

// MarshalText encodes the mode as its name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Role identifies one slot in a semantic palette.
type Role string

const (
	RoleBackground   Role = "background"
	RoleSurface      Role = "surface"
	RolePrimary      Role = "primary"
	RoleAccent       Role = "accent"
	RoleOnBackground Role = "on-background"
	RoleOnSurface    Role = "on-surface"
	RoleOnPrimary    Role = "on-primary"
	RoleOnAccent     Role = "on-accent"
)

// Palette is a complete semantic palette: every role is always populated.
type Palette struct {
	Mode         Mode `json:"mode"`
	Background   RGB  `json:"background"`
	Surface      RGB  `json:"surface"`
	Primary      RGB  `json:"primary"`
	Accent       RGB  `json:"accent"`
	OnBackground RGB  `json:"on-background"`
	OnSurface    RGB  `json:"on-surface"`
	OnPrimary    RGB  `json:"on-primary"`
	OnAccent     RGB  `json:"on-accent"`
}

// Roles returns the palette as a role-keyed map.
func (p Palette) Roles() map[Role]RGB {
	return map[Role]RGB{
		RoleBackground:   p.Background,
		RoleSurface:      p.Surface,
		RolePrimary:      p.Primary,
		RoleAccent:       p.Accent,
		RoleOnBackground: p.OnBackground,
		RoleOnSurface:    p.OnSurface,
		RoleOnPrimary:    p.OnPrimary,
		RoleOnAccent:     p.OnAccent,
	}
}

// TextPair is a text role together with the base role it must stay readable on.
type TextPair struct {
	Text Role
	Base Role
}

// TextPairs lists every on-X role and the role it renders on top of.
func TextPairs() []TextPair {
	return []TextPair{
		{Text: RoleOnBackground, Base: RoleBackground},
		{Text: RoleOnSurface, Base: RoleSurface},
		{Text: RoleOnPrimary, Base: RolePrimary},
		{Text: RoleOnAccent, Base: RoleAccent},
	}
}
