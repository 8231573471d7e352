package portal

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	// SettingsInterface is the portal settings interface name.
	SettingsInterface = "org.freedesktop.portal.Settings"
	// SettingsPath is the portal object path.
	SettingsPath = dbus.ObjectPath("/org/freedesktop/portal/desktop")

	// AppearanceNamespace and ColorSchemeKey identify the setting we care about.
	AppearanceNamespace = "org.freedesktop.appearance"
	ColorSchemeKey      = "color-scheme"
)

// ColorScheme is the portal's encoding of the appearance preference.
type ColorScheme uint32

const (
	ColorSchemeNoPreference ColorScheme = iota
	ColorSchemeDark
	ColorSchemeLight
)

// String returns the portal's name for the value.
func (c ColorScheme) String() string {
	switch c {
	case ColorSchemeNoPreference:
		return "no-preference"
	case ColorSchemeDark:
		return "prefer-dark"
	case ColorSchemeLight:
		return "prefer-light"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(c))
	}
}

// ChangeHandler is called when the portal reports a color-scheme change.
type ChangeHandler func(scheme ColorScheme)

// Monitor subscribes to SettingChanged on the session bus.
type Monitor struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger
	sigCh  chan *dbus.Signal
	doneCh chan struct{}

	onChange ChangeHandler
}

// NewMonitor creates a new portal monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetChangeHandler sets the callback for color-scheme changes.
func (m *Monitor) SetChangeHandler(handler ChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = handler
}

// MatchRule returns the match rule registered with the bus.
func MatchRule() string {
	return fmt.Sprintf("type='signal',interface='%s',member='SettingChanged',path='%s',arg0='%s'",
		SettingsInterface, SettingsPath, AppearanceNamespace)
}

// Start connects to the session bus and begins listening.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	err = conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, MatchRule()).Err
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.sigCh = make(chan *dbus.Signal, 16)
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	conn.Signal(m.sigCh)
	go m.processSignals()

	m.logger.Info("listening for portal appearance changes")
	return nil
}

// processSignals reads signals until the connection is closed.
func (m *Monitor) processSignals() {
	defer close(m.doneCh)

	for sig := range m.sigCh {
		scheme, ok := ParseSettingChanged(sig)
		if !ok {
			continue
		}

		m.logger.Debug("portal color-scheme changed", "scheme", scheme.String())

		m.mu.Lock()
		handler := m.onChange
		m.mu.Unlock()
		if handler != nil {
			handler(scheme)
		}
	}
}

// ParseSettingChanged extracts the color-scheme value from a SettingChanged
// signal. It returns false for any other signal.
func ParseSettingChanged(sig *dbus.Signal) (ColorScheme, bool) {
	if sig == nil || sig.Name != SettingsInterface+".SettingChanged" {
		return 0, false
	}
	// SettingChanged(namespace s, key s, value v)
	if len(sig.Body) < 3 {
		return 0, false
	}
	namespace, ok := sig.Body[0].(string)
	if !ok || namespace != AppearanceNamespace {
		return 0, false
	}
	key, ok := sig.Body[1].(string)
	if !ok || key != ColorSchemeKey {
		return 0, false
	}

	value := sig.Body[2]
	if v, ok := value.(dbus.Variant); ok {
		value = v.Value()
	}
	if v, ok := value.(dbus.Variant); ok {
		value = v.Value()
	}
	scheme, ok := value.(uint32)
	if !ok {
		return 0, false
	}
	return ColorScheme(scheme), true
}

// Stop closes the bus connection and waits for the reader to finish.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	conn := m.conn
	sigCh := m.sigCh
	doneCh := m.doneCh
	m.conn = nil
	m.mu.Unlock()

	if conn == nil {
		return nil
	}

	conn.RemoveSignal(sigCh)
	close(sigCh)
	<-doneCh
	return conn.Close()
}
