package arbor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the window settings that are usually tuned per application.
type Config struct {
	// TabFocus is "all", "text" or "none".
	TabFocus string `toml:"tab_focus"`
	// CursorOverrideTimeoutMS is how long, in milliseconds, a non-mouse hover
	// handler's cursor wins over a mouse hover handler's.
	CursorOverrideTimeoutMS int `toml:"cursor_override_timeout_ms"`
	// Accessibility enables notifications to the accessibility bridge.
	Accessibility bool `toml:"accessibility"`
	// Debug enables tree checks and sync timing logs.
	Debug bool `toml:"debug"`
	// DragThreshold is the distance in pixels a press may travel and still
	// count as a tap.
	DragThreshold float64 `toml:"drag_threshold"`
}

// DefaultConfig returns the settings a new window starts with.
func DefaultConfig() Config {
	return Config{
		TabFocus:                "all",
		CursorOverrideTimeoutMS: int(defaultCursorOverrideTimeout / time.Millisecond),
		Accessibility:           true,
		DragThreshold:           defaultDragThreshold,
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads a TOML config from r over DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return DefaultConfig(), err
	}
	if _, err := parseTabFocus(cfg.TabFocus); err != nil {
		return DefaultConfig(), err
	}
	if cfg.CursorOverrideTimeoutMS < 0 {
		return DefaultConfig(), fmt.Errorf("cursor_override_timeout_ms must not be negative, got %d", cfg.CursorOverrideTimeoutMS)
	}
	if cfg.DragThreshold < 0 {
		return DefaultConfig(), fmt.Errorf("drag_threshold must not be negative, got %g", cfg.DragThreshold)
	}
	return cfg, nil
}

// Encode returns the config as a TOML document.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func parseTabFocus(s string) (TabFocusPolicy, error) {
	switch s {
	case "", "all":
		return TabFocusAll, nil
	case "text":
		return TabFocusText, nil
	case "none":
		return TabFocusNone, nil
	}
	return TabFocusAll, fmt.Errorf("unknown tab_focus %q", s)
}

// ApplyConfig applies c to the window. An invalid tab focus value is logged
// and leaves the policy unchanged.
func (w *Window) ApplyConfig(c Config) {
	if p, err := parseTabFocus(c.TabFocus); err != nil {
		logger.Warn("arbor: ApplyConfig skipped tab_focus", "err", err)
	} else {
		w.tabFocus = p
	}
	if c.CursorOverrideTimeoutMS >= 0 {
		w.cursorOverrideTimeout = time.Duration(c.CursorOverrideTimeoutMS) * time.Millisecond
	}
	if c.DragThreshold > 0 {
		w.dragThreshold = c.DragThreshold
	}
	w.accessibilityEnabled = c.Accessibility
	w.SetDebugMode(c.Debug)
}

// Config returns the window's current settings.
func (w *Window) Config() Config {
	c := Config{
		CursorOverrideTimeoutMS: int(w.cursorOverrideTimeout / time.Millisecond),
		Accessibility:           w.accessibilityEnabled,
		Debug:                   w.debug,
		DragThreshold:           w.dragThreshold,
	}
	switch w.tabFocus {
	case TabFocusText:
		c.TabFocus = "text"
	case TabFocusNone:
		c.TabFocus = "none"
	default:
		c.TabFocus = "all"
	}
	return c
}
