// Package tcellplatform drives an arbor Window from terminal events read by
// tcell. Terminal cells are used as scene units: the mouse at column 3,
// row 1 is the scene point (3, 1).
package tcellplatform

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/arbor"
)

// Translator converts tcell events into arbor events for one window.
type Translator struct {
	w     *arbor.Window
	start time.Time

	lastX, lastY int
	haveMouse    bool
	buttons      tcell.ButtonMask
}

// NewTranslator creates a translator for w.
func NewTranslator(w *arbor.Window) *Translator {
	return &Translator{w: w, start: time.Now()}
}

// Poll reads events from s until the screen is finalized, calling
// Window.Update after each one. draw, if not nil, runs after every event.
func (t *Translator) Poll(s tcell.Screen, draw func()) {
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}
		t.HandleEvent(ev)
		t.w.Update()
		if draw != nil {
			draw()
		}
	}
}

// HandleEvent delivers ev to the window. It reports whether the window
// accepted it.
func (t *Translator) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.w.DeliverKey(KeyEvent(ev))
	case *tcell.EventMouse:
		return t.handleMouse(ev)
	case *tcell.EventFocus:
		if ev.Focused {
			t.w.DeliverFocusIn()
		} else {
			t.w.DeliverFocusOut()
		}
		return true
	case *tcell.EventResize:
		w, h := ev.Size()
		t.w.ContentItem().SetSize(float64(w), float64(h))
		return true
	}
	return false
}

var buttonMap = []struct {
	tc tcell.ButtonMask
	ab arbor.MouseButton
}{
	{tcell.ButtonPrimary, arbor.MouseButtonLeft},
	{tcell.ButtonMiddle, arbor.MouseButtonMiddle},
	{tcell.ButtonSecondary, arbor.MouseButtonRight},
}

var wheelMap = []struct {
	tc    tcell.ButtonMask
	delta arbor.Vec2
}{
	{tcell.WheelUp, arbor.Vec2{Y: 1}},
	{tcell.WheelDown, arbor.Vec2{Y: -1}},
	{tcell.WheelLeft, arbor.Vec2{X: 1}},
	{tcell.WheelRight, arbor.Vec2{X: -1}},
}

func (t *Translator) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	pos := arbor.Vec2{X: float64(x), Y: float64(y)}
	mods := modifiers(ev.Modifiers())
	ts := time.Since(t.start)
	buttons := ev.Buttons()
	changes := buttons ^ t.buttons
	accepted := false

	held := arbor.MouseButtonNone
	for _, b := range buttonMap {
		if t.buttons&b.tc != 0 {
			held |= b.ab
		}
	}

	for _, b := range buttonMap {
		if changes&b.tc != 0 && buttons&b.tc == 0 {
			held &^= b.ab
			accepted = t.w.DeliverPointer(mouseEvent(arbor.EventMouseRelease, arbor.PointReleased, pos, b.ab, held, mods, ts)) || accepted
		}
	}
	if !t.haveMouse || x != t.lastX || y != t.lastY {
		t.haveMouse = true
		t.lastX, t.lastY = x, y
		accepted = t.w.DeliverPointer(mouseEvent(arbor.EventMouseMove, arbor.PointUpdated, pos, arbor.MouseButtonNone, held, mods, ts)) || accepted
	}
	for _, b := range buttonMap {
		if changes&b.tc != 0 && buttons&b.tc != 0 {
			held |= b.ab
			accepted = t.w.DeliverPointer(mouseEvent(arbor.EventMousePress, arbor.PointPressed, pos, b.ab, held, mods, ts)) || accepted
		}
	}
	for _, wh := range wheelMap {
		if buttons&wh.tc != 0 {
			e := mouseEvent(arbor.EventWheel, arbor.PointUpdated, pos, arbor.MouseButtonNone, held, mods, ts)
			e.WheelDelta = wh.delta
			accepted = t.w.DeliverPointer(e) || accepted
		}
	}
	t.buttons = buttons &^ (tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight)
	return accepted
}

func mouseEvent(typ arbor.PointerEventType, state arbor.PointState, pos arbor.Vec2, button, buttons arbor.MouseButton, mods arbor.KeyModifiers, ts time.Duration) *arbor.PointerEvent {
	return &arbor.PointerEvent{
		Type:      typ,
		Device:    arbor.MouseDevice,
		Points:    []arbor.EventPoint{{ID: 0, State: state, ScenePosition: pos}},
		Button:    button,
		Buttons:   buttons,
		Modifiers: mods,
		Timestamp: ts,
	}
}

func modifiers(m tcell.ModMask) arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if m&tcell.ModShift != 0 {
		mods |= arbor.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= arbor.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= arbor.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= arbor.ModMeta
	}
	return mods
}

var keyMap = map[tcell.Key]arbor.Key{
	tcell.KeyEscape:     arbor.KeyEscape,
	tcell.KeyTab:        arbor.KeyTab,
	tcell.KeyBacktab:    arbor.KeyBacktab,
	tcell.KeyBackspace:  arbor.KeyBackspace,
	tcell.KeyBackspace2: arbor.KeyBackspace,
	tcell.KeyEnter:      arbor.KeyReturn,
	tcell.KeyInsert:     arbor.KeyInsert,
	tcell.KeyDelete:     arbor.KeyDelete,
	tcell.KeyHome:       arbor.KeyHome,
	tcell.KeyEnd:        arbor.KeyEnd,
	tcell.KeyPgUp:       arbor.KeyPageUp,
	tcell.KeyPgDn:       arbor.KeyPageDown,
	tcell.KeyLeft:       arbor.KeyLeft,
	tcell.KeyUp:         arbor.KeyUp,
	tcell.KeyRight:      arbor.KeyRight,
	tcell.KeyDown:       arbor.KeyDown,
	tcell.KeyCancel:     arbor.KeyCancel,
}

// Key maps a tcell key and rune to an arbor key. Printable runes map to
// their letter, digit, space or asterisk key; other runes map to
// arbor.KeyUnknown.
func Key(k tcell.Key, r rune) arbor.Key {
	if k == tcell.KeyRune {
		switch {
		case r >= 'a' && r <= 'z':
			return arbor.KeyA + arbor.Key(r-'a')
		case r >= 'A' && r <= 'Z':
			return arbor.KeyA + arbor.Key(r-'A')
		case r >= '0' && r <= '9':
			return arbor.Key0 + arbor.Key(r-'0')
		case r == ' ':
			return arbor.KeySpace
		case r == '*':
			return arbor.KeyAsterisk
		}
		return arbor.KeyUnknown
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return arbor.KeyF1 + arbor.Key(k-tcell.KeyF1)
	}
	return keyMap[k]
}

// KeyEvent converts a tcell key event into an arbor key press. Terminals do
// not report releases.
func KeyEvent(ev *tcell.EventKey) *arbor.KeyEvent {
	e := &arbor.KeyEvent{
		Type:      arbor.KeyPress,
		Key:       Key(ev.Key(), ev.Rune()),
		Modifiers: modifiers(ev.Modifiers()),
	}
	if ev.Key() == tcell.KeyRune {
		e.Rune = ev.Rune()
		e.Text = string(ev.Rune())
	}
	return e
}
