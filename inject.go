package arbor

import "time"

// injectFrame is the time that passes between two synthetic events.
const injectFrame = 16 * time.Millisecond

type syntheticKind uint8

const (
	syntheticMouse syntheticKind = iota
	syntheticTouch
	syntheticKey
	syntheticWheel
)

// syntheticEvent is one queued input event. Positions are scene
// coordinates.
type syntheticEvent struct {
	kind    syntheticKind
	pos     Vec2
	state   PointState
	button  MouseButton
	held    bool
	pointID int
	key     Key
	text    string
	mods    KeyModifiers
	delta   Vec2
}

// InjectPress queues a left button press at the given scene coordinates.
// Queued events are consumed one per ProcessInjected call.
func (w *Window) InjectPress(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticMouse, pos: Vec2{x, y}, state: PointPressed,
		button: MouseButtonLeft, held: true,
	})
}

// InjectMove queues a mouse move with the left button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (w *Window) InjectMove(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticMouse, pos: Vec2{x, y}, state: PointUpdated,
		button: MouseButtonNone, held: true,
	})
}

// InjectHover queues a mouse move with no button held.
func (w *Window) InjectHover(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticMouse, pos: Vec2{x, y}, state: PointUpdated,
	})
}

// InjectRelease queues a left button release.
func (w *Window) InjectRelease(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticMouse, pos: Vec2{x, y}, state: PointReleased,
		button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two frames.
func (w *Window) InjectClick(x, y float64) {
	w.InjectPress(x, y)
	w.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (w *Window) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		w.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	w.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event at the given position.
func (w *Window) InjectWheel(x, y, dx, dy float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticWheel, pos: Vec2{x, y}, delta: Vec2{dx, dy},
	})
}

// InjectTouch queues a single-point touch event on the default touch
// screen. state is PointPressed, PointUpdated or PointReleased.
func (w *Window) InjectTouch(id int, state PointState, x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{
		kind: syntheticTouch, pointID: id, state: state, pos: Vec2{x, y},
	})
}

// InjectKey queues a key press followed by its release. Both are delivered
// in the same frame.
func (w *Window) InjectKey(k Key, mods KeyModifiers) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{kind: syntheticKey, key: k, mods: mods})
}

// InjectText queues a key press carrying text, for character input.
func (w *Window) InjectText(text string) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{kind: syntheticKey, key: KeyUnknown, text: text})
}

// PendingInjected returns the number of queued synthetic events.
func (w *Window) PendingInjected() int { return len(w.injectQueue) }

// ProcessInjected pops one queued synthetic event and delivers it like real
// input. It reports whether an event was consumed, in which case the
// platform layer should skip real pointer input for the frame.
func (w *Window) ProcessInjected() bool {
	if len(w.injectQueue) == 0 {
		return false
	}
	evt := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	w.injectTime += injectFrame
	switch evt.kind {
	case syntheticMouse:
		w.DeliverPointer(evt.mouseEvent(w.injectTime))
	case syntheticWheel:
		w.DeliverPointer(&PointerEvent{
			Type:       EventWheel,
			Device:     MouseDevice,
			Points:     []EventPoint{{State: PointUpdated, ScenePosition: evt.pos}},
			Modifiers:  evt.mods,
			Timestamp:  w.injectTime,
			WheelDelta: evt.delta,
		})
	case syntheticTouch:
		t := EventTouchUpdate
		switch evt.state {
		case PointPressed:
			t = EventTouchBegin
		case PointReleased:
			t = EventTouchEnd
		}
		w.DeliverPointer(&PointerEvent{
			Type:      t,
			Device:    TouchDevice,
			Points:    []EventPoint{{ID: evt.pointID, State: evt.state, ScenePosition: evt.pos}},
			Timestamp: w.injectTime,
		})
	case syntheticKey:
		var r rune
		for _, c := range evt.text {
			r = c
			break
		}
		w.DeliverKey(&KeyEvent{Type: KeyPress, Key: evt.key, Rune: r, Text: evt.text, Modifiers: evt.mods})
		w.DeliverKey(&KeyEvent{Type: KeyRelease, Key: evt.key, Rune: r, Text: evt.text, Modifiers: evt.mods})
	}
	return true
}

func (evt syntheticEvent) mouseEvent(ts time.Duration) *PointerEvent {
	e := &PointerEvent{
		Device:    MouseDevice,
		Points:    []EventPoint{{ID: 0, State: evt.state, ScenePosition: evt.pos}},
		Button:    evt.button,
		Modifiers: evt.mods,
		Timestamp: ts,
	}
	switch evt.state {
	case PointPressed:
		e.Type = EventMousePress
		e.Buttons = evt.button
	case PointReleased:
		e.Type = EventMouseRelease
	default:
		e.Type = EventMouseMove
		if evt.held {
			e.Buttons = MouseButtonLeft
		}
	}
	return e
}
