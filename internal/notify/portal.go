// Package notify delivers wallpaper-change and mode-change notifications to
// the theme reactor as an ordered event stream.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tintd/internal/colour"
)

// XDG desktop portal settings endpoint. The appearance namespace carries the
// user's dark/light preference as the color-scheme key.
const (
	portalDestination = "org.freedesktop.portal.Desktop"
	portalObjectPath  = "/org/freedesktop/portal/desktop"
	settingsInterface = "org.freedesktop.portal.Settings"
	settingChanged    = "SettingChanged"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"
)

// Values of the color-scheme setting per the portal spec.
const (
	schemeNoPreference uint32 = iota
	schemeDark
	schemeLight
)

// PortalSource emits ModeChanged events by watching the desktop portal's
// appearance settings over the session bus.
type PortalSource struct {
	log  hclog.Logger
	conn *dbus.Conn
}

// ConnectPortal connects to the session bus, retrying a few times so the
// daemon survives being started before the bus is ready.
func ConnectPortal(log hclog.Logger) (*PortalSource, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		conn, err := dbus.ConnectSessionBus()
		if err == nil {
			return &PortalSource{log: log, conn: conn}, nil
		}
		lastErr = err
		log.Error("failed to connect to the session bus", "attempt", attempt+1, "error", err)
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("failed to connect to the session bus: %w", lastErr)
}

// Close releases the bus connection.
func (s *PortalSource) Close() error {
	return s.conn.Close()
}

// Run emits the current colour scheme once, then forwards every
// SettingChanged signal for it until ctx is cancelled.
func (s *PortalSource) Run(ctx context.Context, out chan<- Event) error {
	if mode, err := s.readColorScheme(); err != nil {
		s.log.Warn("failed to read initial colour scheme, assuming dark", "error", err)
		select {
		case out <- ModeChanged(colour.ModeDark):
		case <-ctx.Done():
			return ctx.Err()
		}
	} else {
		select {
		case out <- ModeChanged(mode):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := s.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(portalObjectPath),
		dbus.WithMatchInterface(settingsInterface),
		dbus.WithMatchMember(settingChanged),
	); err != nil {
		return fmt.Errorf("failed to subscribe to settings signals: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	s.conn.Signal(signals)
	defer s.conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				// Bus connection is gone; the daemon shuts down with it.
				s.log.Info("session bus closed, stopping portal source")
				return nil
			}
			mode, ok := parseSettingChanged(sig)
			if !ok {
				continue
			}
			s.log.Debug("colour scheme changed", "mode", mode.String())
			select {
			case out <- ModeChanged(mode):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// readColorScheme reads the current value of the color-scheme setting.
func (s *PortalSource) readColorScheme() (colour.Mode, error) {
	obj := s.conn.Object(portalDestination, dbus.ObjectPath(portalObjectPath))

	var value dbus.Variant
	if err := obj.Call(settingsInterface+".Read", 0, appearanceNamespace, colorSchemeKey).Store(&value); err != nil {
		return colour.ModeDark, err
	}
	scheme, ok := unwrapScheme(value)
	if !ok {
		return colour.ModeDark, fmt.Errorf("unexpected color-scheme value: %v", value)
	}
	return modeFromScheme(scheme), nil
}

// parseSettingChanged extracts a mode from a SettingChanged signal, if it is
// the appearance color-scheme key.
func parseSettingChanged(sig *dbus.Signal) (colour.Mode, bool) {
	if sig.Name != settingsInterface+"."+settingChanged || len(sig.Body) != 3 {
		return colour.ModeDark, false
	}
	namespace, ok := sig.Body[0].(string)
	if !ok || namespace != appearanceNamespace {
		return colour.ModeDark, false
	}
	key, ok := sig.Body[1].(string)
	if !ok || key != colorSchemeKey {
		return colour.ModeDark, false
	}
	value, ok := sig.Body[2].(dbus.Variant)
	if !ok {
		return colour.ModeDark, false
	}
	scheme, ok := unwrapScheme(value)
	if !ok {
		return colour.ModeDark, false
	}
	return modeFromScheme(scheme), true
}

// unwrapScheme digs the uint32 scheme out of a (possibly nested) variant.
// The Read call returns a variant wrapping a variant; the signal body wraps
// the value only once.
func unwrapScheme(v dbus.Variant) (uint32, bool) {
	for {
		switch inner := v.Value().(type) {
		case dbus.Variant:
			v = inner
		case uint32:
			return inner, true
		default:
			return 0, false
		}
	}
}

// modeFromScheme maps the portal's scheme value onto a palette mode.
// No-preference follows the portal convention of defaulting to light.
func modeFromScheme(scheme uint32) colour.Mode {
	if scheme == schemeDark {
		return colour.ModeDark
	}
	return colour.ModeLight
}
