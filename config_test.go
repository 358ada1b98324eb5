package arbor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// --- Decoding ---

func TestDecodeConfig(t *testing.T) {
	doc := `
tab_focus = "text"
cursor_override_timeout_ms = 250
accessibility = false
debug = true
drag_threshold = 4.5
`
	cfg, err := DecodeConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	want := Config{
		TabFocus:                "text",
		CursorOverrideTimeoutMS: 250,
		Accessibility:           false,
		Debug:                   true,
		DragThreshold:           4.5,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestDecodeConfigKeepsDefaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`debug = true`))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	want := DefaultConfig()
	want.Debug = true
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", `colour = "red"`},
		{"bad tab focus", `tab_focus = "buttons"`},
		{"negative timeout", `cursor_override_timeout_ms = -1`},
		{"negative threshold", `drag_threshold = -2.0`},
		{"malformed", `tab_focus = `},
		{"wrong type", `debug = "yes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DecodeConfig(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("DecodeConfig succeeded, want error")
			}
			if cfg != DefaultConfig() {
				t.Errorf("cfg = %+v on error, want defaults", cfg)
			}
		})
	}
}

func TestConfigEncodeDecodes(t *testing.T) {
	c := Config{TabFocus: "none", CursorOverrideTimeoutMS: 40, Accessibility: true, DragThreshold: 12}
	data, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Contains(data, []byte("drag_threshold")) {
		t.Errorf("encoded config lacks drag_threshold:\n%s", data)
	}
	got, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if got != c {
		t.Errorf("decoded = %+v, want %+v", got, c)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arbor.toml")
	if err := os.WriteFile(path, []byte(`tab_focus = "none"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TabFocus != "none" {
		t.Errorf("TabFocus = %q, want none", cfg.TabFocus)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

// --- Window settings ---

func TestApplyConfig(t *testing.T) {
	w := NewWindow(10, 10)
	if w.Config() != DefaultConfig() {
		t.Errorf("new window config = %+v, want defaults", w.Config())
	}

	c := Config{TabFocus: "text", CursorOverrideTimeoutMS: 250, DragThreshold: 3}
	w.ApplyConfig(c)
	if got := w.Config(); got != c {
		t.Errorf("Config = %+v, want %+v", got, c)
	}
	if w.TabFocusPolicy() != TabFocusText {
		t.Errorf("TabFocusPolicy = %v, want text", w.TabFocusPolicy())
	}
	if w.cursorOverrideTimeout != 250*time.Millisecond {
		t.Errorf("cursorOverrideTimeout = %v, want 250ms", w.cursorOverrideTimeout)
	}
}

func TestApplyConfigSkipsBadTabFocus(t *testing.T) {
	log := captureLog(t)
	w := NewWindow(10, 10)
	w.SetTabFocusPolicy(TabFocusNone)
	c := DefaultConfig()
	c.TabFocus = "sometimes"
	w.ApplyConfig(c)
	if w.TabFocusPolicy() != TabFocusNone {
		t.Errorf("TabFocusPolicy = %v, want unchanged none", w.TabFocusPolicy())
	}
	if len(log.errs) != 1 {
		t.Errorf("errs = %v, want one", log.errs)
	}
}
