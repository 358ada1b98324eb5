package arbor

import (
	"testing"
	"time"
)

// stampLog records event types and timestamps.
type stampLog struct {
	types []PointerEventType
	times []time.Duration
	pos   []Vec2
}

func (l *stampLog) handler(e *PointerEvent) {
	l.types = append(l.types, e.Type)
	l.times = append(l.times, e.Timestamp)
	l.pos = append(l.pos, e.Points[0].ScenePosition)
}

// --- Mouse ---

func TestInjectClickTakesTwoFrames(t *testing.T) {
	w, _, tap := tapTarget()
	w.InjectClick(10, 10)
	if w.PendingInjected() != 2 {
		t.Fatalf("PendingInjected = %d, want 2", w.PendingInjected())
	}

	w.Update()
	if !tap.Pressed() || tap.TapCount() != 0 {
		t.Errorf("after frame 1: pressed = %v, taps = %d, want true, 0", tap.Pressed(), tap.TapCount())
	}
	w.Update()
	if tap.Pressed() || tap.TapCount() != 1 {
		t.Errorf("after frame 2: pressed = %v, taps = %d, want false, 1", tap.Pressed(), tap.TapCount())
	}
	if w.PendingInjected() != 0 {
		t.Errorf("PendingInjected = %d, want 0", w.PendingInjected())
	}
	if w.ProcessInjected() {
		t.Error("ProcessInjected consumed an event from an empty queue")
	}
}

func TestInjectDragInterpolates(t *testing.T) {
	w := NewWindow(200, 200)
	it, _ := mouseButton(w.ContentItem(), "it", 0, 0, 200, 200)
	log := &stampLog{}
	it.OnPointer = log.handler

	w.InjectDrag(0, 0, 30, 60, 4)
	if w.PendingInjected() != 4 {
		t.Fatalf("PendingInjected = %d, want 4", w.PendingInjected())
	}
	for w.ProcessInjected() {
	}

	assertTypes(t, "drag", log.types, EventMousePress, EventMouseMove, EventMouseMove, EventMouseRelease)
	want := []Vec2{{0, 0}, {10, 20}, {20, 40}, {30, 60}}
	for i, p := range want {
		assertVec(t, "drag point", log.pos[i], p)
	}
	for i := 1; i < len(log.times); i++ {
		if log.times[i]-log.times[i-1] != injectFrame {
			t.Errorf("times[%d]-times[%d] = %v, want %v", i, i-1, log.times[i]-log.times[i-1], injectFrame)
		}
	}
	if it.HasMouseGrab() {
		t.Error("grab survived the release")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	w := NewWindow(100, 100)
	w.InjectDrag(0, 0, 10, 10, 0)
	if w.PendingInjected() != 2 {
		t.Errorf("PendingInjected = %d, want 2", w.PendingInjected())
	}
}

func TestInjectHoverAndWheel(t *testing.T) {
	w := NewWindow(200, 200)
	it := box(w.ContentItem(), "it", 0, 0, 50, 50)
	it.SetAcceptHoverEvents(true)
	var delta Vec2
	it.OnPointer = func(e *PointerEvent) {
		if e.Type == EventWheel {
			delta = e.WheelDelta
			return
		}
		e.Ignore()
	}

	w.InjectHover(10, 10)
	w.InjectWheel(10, 10, 0, 2)
	w.Update()
	if !it.IsHovered() {
		t.Error("IsHovered = false after injected hover")
	}
	w.Update()
	assertVec(t, "wheel delta", delta, Vec2{0, 2})
}

// --- Touch ---

func TestInjectTouch(t *testing.T) {
	w := NewWindow(200, 200)
	it := box(w.ContentItem(), "it", 0, 0, 100, 100)
	it.SetAcceptTouchEvents(true)
	log := &stampLog{}
	it.OnPointer = log.handler

	w.InjectTouch(3, PointPressed, 10, 10)
	w.InjectTouch(3, PointUpdated, 20, 10)
	w.InjectTouch(3, PointReleased, 20, 10)
	w.ProcessInjected()
	if w.ExclusiveGrabber(TouchDevice, 3) != Grabber(it) {
		t.Errorf("grabber of 3 = %v, want it", w.ExclusiveGrabber(TouchDevice, 3))
	}
	w.ProcessInjected()
	w.ProcessInjected()
	assertTypes(t, "touch", log.types, EventTouchBegin, EventTouchUpdate, EventTouchEnd)
	if w.ExclusiveGrabber(TouchDevice, 3) != nil {
		t.Error("touch grab survived the release")
	}
}

// --- Keys ---

func TestInjectKeyPressAndReleaseInOneFrame(t *testing.T) {
	w, a := focusedItem()
	var got []KeyEventType
	var mods KeyModifiers
	a.OnKeyPress = func(e *KeyEvent) {
		got = append(got, e.Type)
		mods = e.Modifiers
	}
	a.OnKeyRelease = func(e *KeyEvent) { got = append(got, e.Type) }

	w.InjectKey(KeyA, ModCtrl)
	w.Update()
	if len(got) != 2 || got[0] != KeyPress || got[1] != KeyRelease {
		t.Errorf("events = %v, want [press release]", got)
	}
	if mods != ModCtrl {
		t.Errorf("Modifiers = %v, want ctrl", mods)
	}
}

func TestInjectText(t *testing.T) {
	w, a := focusedItem()
	var text string
	var r rune
	a.OnKeyPress = func(e *KeyEvent) { text, r = e.Text, e.Rune }

	w.InjectText("été")
	w.Update()
	if text != "été" || r != 'é' {
		t.Errorf("text, rune = %q, %q, want %q, %q", text, r, "été", 'é')
	}
}
