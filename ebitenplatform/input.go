package ebitenplatform

import (
	"cmp"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/arbor"
)

// touchBase offsets Ebitengine touch IDs so they never collide with the
// mouse point.
const touchBase = 1

// snapshot is the input state read in one tick.
type snapshot struct {
	mouse    arbor.Vec2
	buttons  arbor.MouseButton
	wheel    arbor.Vec2
	mods     arbor.KeyModifiers
	touches  map[int]arbor.Vec2
	pressed  []ebiten.Key
	released []ebiten.Key
	chars    []rune
	focused  bool
}

// Input translates Ebitengine input into arbor events for one window.
type Input struct {
	w     *arbor.Window
	start time.Time

	haveMouse bool
	mouse     arbor.Vec2
	buttons   arbor.MouseButton
	touches   map[int]arbor.Vec2
	focused   bool

	keyBuf  []ebiten.Key
	charBuf []rune
	touchID []ebiten.TouchID
}

// NewInput creates an input poller for w.
func NewInput(w *arbor.Window) *Input {
	return &Input{w: w, start: time.Now(), touches: make(map[int]arbor.Vec2)}
}

// Update reads the current Ebitengine input state and delivers the changes
// since the previous call. Call it from ebiten.Game.Update. Real pointer
// input is skipped while the window has synthetic input queued.
func (in *Input) Update() {
	in.apply(in.read(), time.Since(in.start))
}

func (in *Input) read() snapshot {
	s := snapshot{touches: make(map[int]arbor.Vec2), focused: ebiten.IsFocused()}
	mx, my := ebiten.CursorPosition()
	s.mouse = arbor.Vec2{X: float64(mx), Y: float64(my)}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.buttons |= arbor.MouseButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		s.buttons |= arbor.MouseButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		s.buttons |= arbor.MouseButtonMiddle
	}
	wx, wy := ebiten.Wheel()
	s.wheel = arbor.Vec2{X: wx, Y: wy}
	s.mods = readModifiers()

	in.touchID = ebiten.AppendTouchIDs(in.touchID[:0])
	for _, id := range in.touchID {
		tx, ty := ebiten.TouchPosition(id)
		s.touches[int(id)+touchBase] = arbor.Vec2{X: float64(tx), Y: float64(ty)}
	}

	in.keyBuf = inpututil.AppendJustPressedKeys(in.keyBuf[:0])
	s.pressed = append(s.pressed, in.keyBuf...)
	in.keyBuf = inpututil.AppendJustReleasedKeys(in.keyBuf[:0])
	s.released = append(s.released, in.keyBuf...)
	in.charBuf = ebiten.AppendInputChars(in.charBuf[:0])
	s.chars = in.charBuf
	return s
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= arbor.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= arbor.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= arbor.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= arbor.ModMeta
	}
	return mods
}

// apply delivers the difference between s and the previous snapshot.
func (in *Input) apply(s snapshot, ts time.Duration) {
	w := in.w
	if s.focused != in.focused {
		in.focused = s.focused
		if s.focused {
			w.DeliverFocusIn()
		} else {
			w.DeliverFocusOut()
		}
	}

	for _, k := range s.pressed {
		if key := Key(k); key != arbor.KeyUnknown {
			w.DeliverKey(&arbor.KeyEvent{Type: arbor.KeyPress, Key: key, Modifiers: s.mods})
		}
	}
	for _, r := range s.chars {
		w.DeliverKey(&arbor.KeyEvent{Type: arbor.KeyPress, Rune: r, Text: string(r), Modifiers: s.mods})
	}
	for _, k := range s.released {
		if key := Key(k); key != arbor.KeyUnknown {
			w.DeliverKey(&arbor.KeyEvent{Type: arbor.KeyRelease, Key: key, Modifiers: s.mods})
		}
	}

	if w.PendingInjected() > 0 {
		return
	}
	in.applyMouse(s, ts)
	in.applyTouches(s, ts)
}

func (in *Input) applyMouse(s snapshot, ts time.Duration) {
	w := in.w
	moved := !in.haveMouse || s.mouse != in.mouse
	in.haveMouse = true
	in.mouse = s.mouse

	// Releases first so a button swap in one tick ends before it begins.
	for _, b := range []arbor.MouseButton{arbor.MouseButtonLeft, arbor.MouseButtonRight, arbor.MouseButtonMiddle} {
		if in.buttons&b != 0 && s.buttons&b == 0 {
			in.buttons &^= b
			w.DeliverPointer(mouseEvent(arbor.EventMouseRelease, arbor.PointReleased, s.mouse, b, in.buttons, s.mods, ts))
		}
	}
	if moved {
		w.DeliverPointer(mouseEvent(arbor.EventMouseMove, arbor.PointUpdated, s.mouse, arbor.MouseButtonNone, in.buttons, s.mods, ts))
	}
	for _, b := range []arbor.MouseButton{arbor.MouseButtonLeft, arbor.MouseButtonRight, arbor.MouseButtonMiddle} {
		if in.buttons&b == 0 && s.buttons&b != 0 {
			in.buttons |= b
			w.DeliverPointer(mouseEvent(arbor.EventMousePress, arbor.PointPressed, s.mouse, b, in.buttons, s.mods, ts))
		}
	}
	if s.wheel != (arbor.Vec2{}) {
		e := mouseEvent(arbor.EventWheel, arbor.PointUpdated, s.mouse, arbor.MouseButtonNone, in.buttons, s.mods, ts)
		e.WheelDelta = s.wheel
		w.DeliverPointer(e)
	}
}

func mouseEvent(t arbor.PointerEventType, state arbor.PointState, pos arbor.Vec2, button, buttons arbor.MouseButton, mods arbor.KeyModifiers, ts time.Duration) *arbor.PointerEvent {
	return &arbor.PointerEvent{
		Type:      t,
		Device:    arbor.MouseDevice,
		Points:    []arbor.EventPoint{{ID: 0, State: state, ScenePosition: pos}},
		Button:    button,
		Buttons:   buttons,
		Modifiers: mods,
		Timestamp: ts,
	}
}

// applyTouches sends one touch event per tick carrying every point that
// began, moved or ended.
func (in *Input) applyTouches(s snapshot, ts time.Duration) {
	var points []arbor.EventPoint
	began, ended := false, false
	for id, pos := range s.touches {
		old, ok := in.touches[id]
		switch {
		case !ok:
			points = append(points, arbor.EventPoint{ID: id, State: arbor.PointPressed, ScenePosition: pos})
			began = true
		case old != pos:
			points = append(points, arbor.EventPoint{ID: id, State: arbor.PointUpdated, ScenePosition: pos})
		default:
			points = append(points, arbor.EventPoint{ID: id, State: arbor.PointStationary, ScenePosition: pos})
		}
	}
	for id, pos := range in.touches {
		if _, ok := s.touches[id]; !ok {
			points = append(points, arbor.EventPoint{ID: id, State: arbor.PointReleased, ScenePosition: pos})
			ended = true
		}
	}
	in.touches = s.touches
	slices.SortFunc(points, func(a, b arbor.EventPoint) int { return cmp.Compare(a.ID, b.ID) })

	changed := began || ended
	for _, p := range points {
		if p.State == arbor.PointUpdated {
			changed = true
		}
	}
	if !changed {
		return
	}
	t := arbor.EventTouchUpdate
	switch {
	case began && len(points) == countState(points, arbor.PointPressed):
		t = arbor.EventTouchBegin
	case ended && len(points) == countState(points, arbor.PointReleased):
		t = arbor.EventTouchEnd
	}
	in.w.DeliverPointer(&arbor.PointerEvent{
		Type:      t,
		Device:    arbor.TouchDevice,
		Points:    points,
		Modifiers: s.mods,
		Timestamp: ts,
	})
}

func countState(points []arbor.EventPoint, st arbor.PointState) int {
	n := 0
	for _, p := range points {
		if p.State == st {
			n++
		}
	}
	return n
}
