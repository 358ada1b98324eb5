package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/arbor"
)

const testScene = `
[[item]]
name = "form"
width = 40
height = 10
focus_scope = true
focus = true

  [[item.children]]
  name = "name"
  width = 20
  height = 1
  active_focus_on_tab = true
  focus = true

  [[item.children]]
  name = "ok"
  y = 2
  width = 4
  height = 1
  active_focus_on_tab = true
`

func testWindow(t *testing.T) *arbor.Window {
	t.Helper()
	scene, err := arbor.DecodeScene(strings.NewReader(testScene))
	if err != nil {
		t.Fatalf("DecodeScene: %v", err)
	}
	w := arbor.NewWindow(80, 24)
	scene.AttachTo(w.ContentItem())
	return w
}

func press(m tea.Model, k tea.KeyType) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: k})
	return m
}

func TestModelTabCyclesFocus(t *testing.T) {
	w := testWindow(t)
	var m tea.Model = newModel(w)

	if got := w.ActiveFocusItem(); got == nil || got.Name != "name" {
		t.Fatalf("initial ActiveFocusItem = %v, want name", got)
	}
	m = press(m, tea.KeyTab)
	if got := w.ActiveFocusItem(); got == nil || got.Name != "ok" {
		t.Errorf("after tab ActiveFocusItem = %v, want ok", got)
	}
	m = press(m, tea.KeyShiftTab)
	if got := w.ActiveFocusItem(); got == nil || got.Name != "name" {
		t.Errorf("after shift+tab ActiveFocusItem = %v, want name", got)
	}
	if !strings.Contains(m.View(), "content › form › name") {
		t.Errorf("View missing focus path:\n%s", m.View())
	}
}

func TestModelToggleVisible(t *testing.T) {
	w := testWindow(t)
	var m tea.Model = newModel(w)
	// Rows: content, form, name, ok.
	m = press(m, tea.KeyDown)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})

	form := w.ContentItem().FindChild("form")
	if form.IsVisible() {
		t.Error("form still visible after v")
	}
	if name := form.FindChild("name"); name.IsVisible() {
		t.Error("child of hidden form still visible")
	}
}

func TestRunScript(t *testing.T) {
	w := testWindow(t)
	script := `{"steps": [
		{"action": "expect_focus", "item": "name"},
		{"action": "key", "key": "tab"},
		{"action": "expect_focus", "item": "ok"},
		{"action": "expect_visible", "item": "ok", "value": false}
	]}`
	failures, err := runScript(w, []byte(script), 100)
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %v, want exactly the expect_visible failure", failures)
	}
	if !strings.Contains(failures[0], "expect_visible") {
		t.Errorf("failure = %q, want expect_visible", failures[0])
	}
}
