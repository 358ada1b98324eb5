package ebitenplatform

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// --- Keys ---

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		in   ebiten.Key
		want arbor.Key
	}{
		{ebiten.KeyA, arbor.KeyA},
		{ebiten.KeyZ, arbor.KeyZ},
		{ebiten.KeyDigit0, arbor.Key0},
		{ebiten.KeyDigit7, arbor.Key7},
		{ebiten.KeyF5, arbor.KeyF5},
		{ebiten.KeyTab, arbor.KeyTab},
		{ebiten.KeyEnter, arbor.KeyReturn},
		{ebiten.KeyArrowLeft, arbor.KeyLeft},
		{ebiten.KeyShiftRight, arbor.KeyShift},
		{ebiten.KeyCapsLock, arbor.KeyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := Key(tt.in); got != tt.want {
				t.Errorf("Key(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// --- Cursor ---

func TestCursorShapeMapping(t *testing.T) {
	tests := []struct {
		in   arbor.CursorShape
		want ebiten.CursorShapeType
	}{
		{arbor.CursorArrow, ebiten.CursorShapeDefault},
		{arbor.CursorIBeam, ebiten.CursorShapeText},
		{arbor.CursorPointingHand, ebiten.CursorShapePointer},
		{arbor.CursorResizeHorizontal, ebiten.CursorShapeEWResize},
		{arbor.CursorForbidden, ebiten.CursorShapeNotAllowed},
	}
	for _, tt := range tests {
		if got := CursorShape(tt.in); got != tt.want {
			t.Errorf("CursorShape(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// --- Input ---

func newTestWindow() (*arbor.Window, *arbor.Item) {
	w := arbor.NewWindow(200, 200)
	btn := arbor.NewItem("btn")
	btn.SetSize(50, 50)
	btn.SetParent(w.ContentItem())
	return w, btn
}

func TestInputMouseClick(t *testing.T) {
	w, btn := newTestWindow()
	tap := arbor.NewTapHandler()
	btn.AddPointerHandler(tap)
	in := NewInput(w)

	pos := arbor.Vec2{X: 10, Y: 10}
	in.apply(snapshot{mouse: pos, buttons: arbor.MouseButtonLeft}, 0)
	if !tap.Pressed() {
		t.Fatal("tap handler not pressed after button down")
	}
	in.apply(snapshot{mouse: pos}, 16*time.Millisecond)
	if tap.Pressed() {
		t.Error("tap handler still pressed after button up")
	}
	if tap.TapCount() != 1 {
		t.Errorf("TapCount = %d, want 1", tap.TapCount())
	}
}

func TestInputFocusAndKeys(t *testing.T) {
	w, btn := newTestWindow()
	btn.SetFocus(true)
	var got []arbor.Key
	btn.OnKeyPress = func(e *arbor.KeyEvent) { got = append(got, e.Key) }
	in := NewInput(w)

	in.apply(snapshot{focused: true, pressed: []ebiten.Key{ebiten.KeyA, ebiten.KeyCapsLock}}, 0)
	if !w.IsActive() {
		t.Fatal("window not active after focus")
	}
	if !btn.HasActiveFocus() {
		t.Fatal("btn has no active focus")
	}
	if len(got) != 1 || got[0] != arbor.KeyA {
		t.Errorf("keys = %v, want [a]", got)
	}

	in.apply(snapshot{focused: false}, 0)
	if w.IsActive() {
		t.Error("window still active after focus out")
	}
}

func TestInputTouchBeginEnd(t *testing.T) {
	w, btn := newTestWindow()
	btn.SetAcceptTouchEvents(true)
	var states []arbor.PointState
	btn.OnPointer = func(e *arbor.PointerEvent) {
		for _, p := range e.Points {
			states = append(states, p.State)
		}
		e.Accept()
	}
	in := NewInput(w)

	in.apply(snapshot{touches: map[int]arbor.Vec2{1: {X: 5, Y: 5}}}, 0)
	in.apply(snapshot{touches: map[int]arbor.Vec2{1: {X: 5, Y: 5}}}, 0)
	in.apply(snapshot{touches: map[int]arbor.Vec2{}}, 0)

	want := []arbor.PointState{arbor.PointPressed, arbor.PointReleased}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states[%d] = %v, want %v", i, states[i], want[i])
		}
	}
}

func TestInputSkipsPointerWhileInjecting(t *testing.T) {
	w, btn := newTestWindow()
	tap := arbor.NewTapHandler()
	btn.AddPointerHandler(tap)
	w.InjectHover(150, 150)
	in := NewInput(w)

	in.apply(snapshot{mouse: arbor.Vec2{X: 10, Y: 10}, buttons: arbor.MouseButtonLeft}, 0)
	if tap.Pressed() {
		t.Error("real press delivered while synthetic input is queued")
	}
}

// --- Layers ---

func TestTextureSize(t *testing.T) {
	tests := []struct {
		name  string
		state arbor.LayerState
		w, h  int
	}{
		{"geometry", arbor.LayerState{Geometry: arbor.Rect{Width: 10.5, Height: 4}}, 11, 4},
		{"explicit", arbor.LayerState{Geometry: arbor.Rect{Width: 10, Height: 10}, TextureSize: arbor.Vec2{X: 64, Y: 32}}, 64, 32},
		{"source rect", arbor.LayerState{Geometry: arbor.Rect{Width: 10, Height: 10}, SourceRect: arbor.Rect{Width: 5, Height: 6}}, 5, 6},
		{"empty", arbor.LayerState{}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := textureSize(tt.state)
			if w != tt.w || h != tt.h {
				t.Errorf("textureSize = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestLayersFollowItem(t *testing.T) {
	w, btn := newTestWindow()
	b := NewLayers()
	w.SetLayerBackend(b)

	l := arbor.LayerFor(btn)
	l.SetEnabled(true)
	got := b.Layer(btn)
	if got == nil {
		t.Fatal("no layer after enabling")
	}
	if got.Width() != 50 || got.Height() != 50 {
		t.Errorf("layer size = %dx%d, want 50x50", got.Width(), got.Height())
	}

	btn.SetSize(80, 20)
	if got.Width() != 80 || got.Height() != 20 {
		t.Errorf("layer size after resize = %dx%d, want 80x20", got.Width(), got.Height())
	}
	btn.SetOpacity(0.5)
	if got.State().Opacity != 0.5 {
		t.Errorf("layer opacity = %v, want 0.5", got.State().Opacity)
	}

	l.SetEnabled(false)
	if b.Len() != 0 {
		t.Errorf("Len = %d after disabling, want 0", b.Len())
	}
}
