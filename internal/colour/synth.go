// Package colour provides colour extraction and semantic palette synthesis.
package colour

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoViableColor is returned when synthesis is asked to work from an empty
// sample set. Callers recover by falling back to DefaultPalette.
var ErrNoViableColor = errors.New("no viable colour")

// Synthesis constants.
//
// The luminance bands and contrast minimums are fixed so that every palette,
// derived or default, satisfies the same readability guarantees.
const (
	// MinTextContrast is the WCAG AA bar for normal text.
	MinTextContrast = 4.5
	// MinRoleContrast is the minimum contrast of primary/accent against the
	// background, enough for large text and UI elements.
	MinRoleContrast = 3.0

	// DarkBackgroundMaxLuminance and LightBackgroundMinLuminance bound the
	// background's relative luminance per mode, regardless of what the
	// wallpaper's dominant colour would otherwise dictate.
	DarkBackgroundMaxLuminance  = 0.15
	LightBackgroundMinLuminance = 0.60

	// Background lightness targets per mode. Hue is preserved from the
	// wallpaper; lightness is not.
	darkBackgroundLightness  = 0.11
	lightBackgroundLightness = 0.93

	// maxBackgroundSaturation caps chroma so the background stays a tint of
	// the wallpaper hue rather than a wall of colour.
	maxBackgroundSaturation = 0.30

	// surfaceLightnessOffset separates surfaces from the background.
	surfaceLightnessOffset = 0.06

	// minAccentDistance is the minimum Lab distance between the dominant
	// colour and a second sample before it qualifies as the accent.
	minAccentDistance = 0.15

	// accentHueRotation is the fallback hue rotation used to derive an
	// accent when the wallpaper has no second distinct colour.
	accentHueRotation = 60
)

var (
	white = RGB{R: 255, G: 255, B: 255}
	black = RGB{R: 0, G: 0, B: 0}
)

// Synthesize turns clustered colour samples into a complete semantic palette
// for the given mode. Output is fully deterministic for a given input.
//
// The dominant sample drives the primary role and the background hue; a
// second sufficiently distinct sample (or a hue rotation when there is none)
// drives the accent. Background lightness is clamped to the mode's luminance
// band, and every on-X text role is guaranteed at least MinTextContrast
// against its base.
func Synthesize(samples []Sample, mode Mode) (Palette, error) {
	if len(samples) == 0 {
		return Palette{}, fmt.Errorf("%w: empty sample set", ErrNoViableColor)
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sortSamples(sorted)

	dominant := sorted[0].Colour
	background := deriveBackground(dominant, mode)
	surface := deriveSurface(background, mode)
	primary := adjustForRoleContrast(dominant, background, mode)
	accent := adjustForRoleContrast(pickAccent(sorted, dominant), background, mode)

	p := Palette{Mode: mode}
	p.Background, p.OnBackground = ensureTextContrast(background)
	p.Surface, p.OnSurface = ensureTextContrast(surface)
	p.Primary, p.OnPrimary = ensureTextContrast(primary)
	p.Accent, p.OnAccent = ensureTextContrast(accent)
	return p, nil
}

// deriveBackground keeps the dominant colour's hue but clamps lightness and
// saturation so the background lands inside the mode's luminance band.
func deriveBackground(dominant RGB, mode Mode) RGB {
	h, s, _ := RGBToHSL(dominant)
	s = math.Min(s*0.5, maxBackgroundSaturation)

	lightness := darkBackgroundLightness
	if mode == ModeLight {
		lightness = lightBackgroundLightness
	}
	rgb := HSLToRGB(h, s, lightness)

	// The lightness targets sit comfortably inside the bands, but saturated
	// hues can shift luminance; walk the remaining distance if they do.
	for attempts := 0; attempts < 20; attempts++ {
		lum := Luminance(rgb)
		if mode == ModeDark && lum >= DarkBackgroundMaxLuminance {
			lightness = math.Max(0.01, lightness-0.02)
		} else if mode == ModeLight && lum <= LightBackgroundMinLuminance {
			lightness = math.Min(0.99, lightness+0.02)
		} else {
			break
		}
		rgb = HSLToRGB(h, s, lightness)
	}
	return rgb
}

// deriveSurface produces the raised-surface variant: the background nudged
// toward the foreground by a fixed lightness offset.
func deriveSurface(background RGB, mode Mode) RGB {
	h, s, l := RGBToHSL(background)
	if mode == ModeDark {
		l = math.Min(0.99, l+surfaceLightnessOffset)
	} else {
		l = math.Max(0.01, l-surfaceLightnessOffset)
	}
	return HSLToRGB(h, s, l)
}

// pickAccent selects the first sample distinct enough from the dominant
// colour in Lab space. When the wallpaper is effectively monochrome, the
// accent is derived by rotating the dominant hue instead.
func pickAccent(sorted []Sample, dominant RGB) RGB {
	dl, da, db := rgbToLab(dominant)
	ref := labPoint{l: dl, a: da, b: db}

	for _, s := range sorted[1:] {
		l, a, b := rgbToLab(s.Colour)
		if math.Sqrt(ref.distance(labPoint{l: l, a: a, b: b})) >= minAccentDistance {
			return s.Colour
		}
	}

	h, s, l := RGBToHSL(dominant)
	return HSLToRGB(RotateHue(h, accentHueRotation), math.Max(s, 0.4), clampMid(l))
}

// clampMid keeps a derived accent's lightness away from the extremes so it
// reads as a colour rather than near-black or near-white.
func clampMid(l float64) float64 {
	return math.Min(0.65, math.Max(0.35, l))
}

// adjustForRoleContrast moves a colour's lightness until it clears the
// minimum role contrast against the background, preserving hue.
func adjustForRoleContrast(c, background RGB, mode Mode) RGB {
	h, s, l := RGBToHSL(c)
	_, rgb := adjustLightnessForContrast(h, s, l, background, MinRoleContrast, mode, 20)
	return rgb
}

// ensureTextContrast chooses pure black or pure white as the text colour for
// a base, whichever contrasts higher. If neither clears MinTextContrast
// (pathological mid-grey bases), the base's lightness is nudged further in
// the direction that favours the winning text colour until the bar is met:
// readability wins over hue fidelity.
func ensureTextContrast(base RGB) (RGB, RGB) {
	const stepSize = 0.05

	h, s, l := RGBToHSL(base)
	for attempts := 0; ; attempts++ {
		text, contrast := bestTextOn(base)
		if contrast >= MinTextContrast || attempts >= 20 {
			return base, text
		}
		if Luminance(text) > Luminance(base) {
			// Light text wins: push the base darker.
			l = math.Max(0.01, l-stepSize)
		} else {
			l = math.Min(0.99, l+stepSize)
		}
		base = HSLToRGB(h, s, l)
	}
}

// bestTextOn returns whichever of black or white contrasts higher against
// the base, along with the achieved ratio.
func bestTextOn(base RGB) (RGB, float64) {
	cw := ContrastRatio(white, base)
	cb := ContrastRatio(black, base)
	if cw >= cb {
		return white, cw
	}
	return black, cb
}
