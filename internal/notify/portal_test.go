package notify

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/tintd/internal/colour"
)

func schemeSignal(namespace, key string, value interface{}) *dbus.Signal {
	return &dbus.Signal{
		Name: settingsInterface + "." + settingChanged,
		Body: []interface{}{namespace, key, dbus.MakeVariant(value)},
	}
}

func TestParseSettingChanged(t *testing.T) {
	tests := []struct {
		name     string
		sig      *dbus.Signal
		wantMode colour.Mode
		wantOK   bool
	}{
		{
			name:     "dark",
			sig:      schemeSignal(appearanceNamespace, colorSchemeKey, schemeDark),
			wantMode: colour.ModeDark,
			wantOK:   true,
		},
		{
			name:     "light",
			sig:      schemeSignal(appearanceNamespace, colorSchemeKey, schemeLight),
			wantMode: colour.ModeLight,
			wantOK:   true,
		},
		{
			name:     "no preference defaults to light",
			sig:      schemeSignal(appearanceNamespace, colorSchemeKey, schemeNoPreference),
			wantMode: colour.ModeLight,
			wantOK:   true,
		},
		{
			name:     "nested variant",
			sig:      schemeSignal(appearanceNamespace, colorSchemeKey, dbus.MakeVariant(schemeDark)),
			wantMode: colour.ModeDark,
			wantOK:   true,
		},
		{
			name:   "other namespace",
			sig:    schemeSignal("org.gnome.desktop.interface", colorSchemeKey, schemeDark),
			wantOK: false,
		},
		{
			name:   "other key",
			sig:    schemeSignal(appearanceNamespace, "accent-color", schemeDark),
			wantOK: false,
		},
		{
			name:   "non-integer value",
			sig:    schemeSignal(appearanceNamespace, colorSchemeKey, "dark"),
			wantOK: false,
		},
		{
			name:   "wrong signal name",
			sig:    &dbus.Signal{Name: "org.freedesktop.DBus.NameOwnerChanged", Body: []interface{}{"", "", ""}},
			wantOK: false,
		},
		{
			name:   "short body",
			sig:    &dbus.Signal{Name: settingsInterface + "." + settingChanged, Body: []interface{}{appearanceNamespace}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, ok := parseSettingChanged(tt.sig)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantMode, mode)
			}
		})
	}
}

func TestUnwrapScheme(t *testing.T) {
	scheme, ok := unwrapScheme(dbus.MakeVariant(schemeDark))
	assert.True(t, ok)
	assert.Equal(t, schemeDark, scheme)

	// The portal Read call returns a variant wrapping a variant.
	scheme, ok = unwrapScheme(dbus.MakeVariant(dbus.MakeVariant(schemeLight)))
	assert.True(t, ok)
	assert.Equal(t, schemeLight, scheme)

	_, ok = unwrapScheme(dbus.MakeVariant("not a scheme"))
	assert.False(t, ok)
}

func TestModeFromScheme(t *testing.T) {
	assert.Equal(t, colour.ModeDark, modeFromScheme(schemeDark))
	assert.Equal(t, colour.ModeLight, modeFromScheme(schemeLight))
	assert.Equal(t, colour.ModeLight, modeFromScheme(schemeNoPreference))
	assert.Equal(t, colour.ModeLight, modeFromScheme(99))
}
