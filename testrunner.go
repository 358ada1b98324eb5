package arbor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Item   string  `json:"item,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
	ID     int     `json:"id,omitempty"`
	State  string  `json:"state,omitempty"`
	Key    string  `json:"key,omitempty"`
	Mods   string  `json:"mods,omitempty"`
	Text   string  `json:"text,omitempty"`
	Value  *bool   `json:"value,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events and checks across frames for
// scripted integration tests. Attach to a Window via SetTestRunner.
//
// Supported actions: press, move, hover, release, click, drag, wheel, touch,
// key, text, wait, and the checks expect_focus, expect_visible,
// expect_enabled and expect_hovered. Failed checks are collected, not fatal.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Window via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st *testStep) validate() error {
	switch st.Action {
	case "press", "move", "hover", "release", "click", "drag", "wheel", "wait", "text":
	case "touch":
		if _, ok := touchStates[st.State]; !ok {
			return fmt.Errorf("unknown touch state %q", st.State)
		}
	case "key":
		if _, ok := KeyByName(st.Key); !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		if _, err := parseModifiers(st.Mods); err != nil {
			return err
		}
	case "expect_focus":
	case "expect_visible", "expect_enabled", "expect_hovered":
		if st.Item == "" {
			return fmt.Errorf("%s needs an item", st.Action)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

var touchStates = map[string]PointState{
	"press":   PointPressed,
	"move":    PointUpdated,
	"release": PointReleased,
}

func parseModifiers(s string) (KeyModifiers, error) {
	var m KeyModifiers
	if s == "" {
		return m, nil
	}
	for _, part := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "shift":
			m |= ModShift
		case "ctrl", "control":
			m |= ModCtrl
		case "alt":
			m |= ModAlt
		case "meta", "super":
			m |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
	}
	return m, nil
}

// SetTestRunner attaches a TestRunner to the window. The runner's step
// method is called from Window.Update before synthetic input is processed.
func (w *Window) SetTestRunner(runner *TestRunner) {
	w.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns the messages of the checks that did not hold.
func (r *TestRunner) Failures() []string {
	return r.failures
}

// step advances the test runner by one frame. Called from Window.Update.
func (r *TestRunner) step(w *Window) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(w.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		w.InjectPress(st.X, st.Y)
	case "move":
		w.InjectMove(st.X, st.Y)
	case "hover":
		w.InjectHover(st.X, st.Y)
	case "release":
		w.InjectRelease(st.X, st.Y)
	case "click":
		w.InjectClick(st.X, st.Y)
	case "drag":
		w.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		w.InjectWheel(st.X, st.Y, st.DX, st.DY)
	case "touch":
		w.InjectTouch(st.ID, touchStates[st.State], st.X, st.Y)
	case "key":
		k, _ := KeyByName(st.Key)
		mods, _ := parseModifiers(st.Mods)
		w.InjectKey(k, mods)
	case "text":
		w.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		r.check(w, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(w.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) check(w *Window, st testStep) {
	want := st.Value == nil || *st.Value
	if st.Action == "expect_focus" {
		got := ""
		if afi := w.activeFocusItem; afi != nil {
			got = afi.Name
		}
		if got != st.Item {
			r.failf("step %d: active focus item = %q, want %q", r.cursor-1, got, st.Item)
		}
		return
	}
	it := w.contentItem.FindChild(st.Item)
	if it == nil {
		r.failf("step %d: no item named %q", r.cursor-1, st.Item)
		return
	}
	var got bool
	switch st.Action {
	case "expect_visible":
		got = it.IsVisible()
	case "expect_enabled":
		got = it.IsEnabled()
	case "expect_hovered":
		got = it.IsHovered()
	}
	if got != want {
		r.failf("step %d: %s %q = %v, want %v", r.cursor-1, st.Action, st.Item, got, want)
	}
}

func (r *TestRunner) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("arbor: test script check failed", "msg", msg)
	r.failures = append(r.failures, msg)
}
