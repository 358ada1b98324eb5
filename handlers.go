package arbor

import "time"

// PointerHandler is an object attached to an item that reacts to pointer
// events on its own, independent of the item's OnPointer callback.
// Implementations embed HandlerBase, which supplies the bookkeeping and
// default behavior.
type PointerHandler interface {
	Grabber

	// WantsPointerEvent decides whether HandlePointerEvent should be called
	// for e.
	WantsPointerEvent(e *PointerEvent) bool
	// WantsEventPoint reports whether p is relevant to the handler. It is
	// used to pick pointer targets outside the parent item's bounds.
	WantsEventPoint(e *PointerEvent, p *EventPoint) bool
	// HandlePointerEvent processes an event localized to the parent item.
	HandlePointerEvent(e *PointerEvent)
	// OnGrabChanged is called when the handler gains or loses a grab.
	OnGrabChanged(t GrabTransition, e *PointerEvent, p *EventPoint)

	handlerBase() *HandlerBase
}

// HandlerBase carries the state every pointer handler shares.
type HandlerBase struct {
	parent *Item
	self   PointerHandler

	disabled        bool
	active          bool
	cursor          CursorShape
	cursorSet       bool
	lastEventTime   time.Duration
	acceptedDevices DeviceType

	// Margin widens the area around the parent item that counts as inside.
	Margin float64

	// OnActiveChanged is called when the handler starts or stops an
	// interaction.
	OnActiveChanged func(active bool)
}

func (b *HandlerBase) handlerBase() *HandlerBase { return b }

func (b *HandlerBase) grabberItem() *Item { return b.parent }

// Parent returns the item the handler is attached to.
func (b *HandlerBase) Parent() *Item { return b.parent }

// Enabled reports whether the handler receives events.
func (b *HandlerBase) Enabled() bool { return !b.disabled }

// SetEnabled turns the handler on or off.
func (b *HandlerBase) SetEnabled(on bool) {
	if b.disabled == !on {
		return
	}
	b.disabled = !on
	if !on {
		b.setActive(false)
	}
	if b.parent != nil {
		if _, ok := b.self.(*HoverHandler); ok {
			b.parent.setHasHoverInChild(b.parent.hasEnabledHoverHandlers())
		}
	}
}

// Active reports whether the handler is in the middle of an interaction.
func (b *HandlerBase) Active() bool { return b.active }

func (b *HandlerBase) setActive(on bool) {
	if b.active == on {
		return
	}
	b.active = on
	if b.OnActiveChanged != nil {
		b.OnActiveChanged(on)
	}
}

// AcceptedDevices returns the device kinds the handler reacts to.
func (b *HandlerBase) AcceptedDevices() DeviceType { return b.acceptedDevices }

// SetAcceptedDevices restricts the handler to some device kinds.
func (b *HandlerBase) SetAcceptedDevices(d DeviceType) { b.acceptedDevices = d }

// CursorShape returns the cursor the handler asks for and whether one is
// set.
func (b *HandlerBase) CursorShape() (CursorShape, bool) { return b.cursor, b.cursorSet }

// SetCursorShape makes the handler ask for a cursor while it is active or
// hovered.
func (b *HandlerBase) SetCursorShape(c CursorShape) {
	b.cursor = c
	b.cursorSet = true
	if b.parent != nil {
		b.parent.hasCursorHandler = true
		b.parent.setHasCursorInChild(true)
	}
}

// ResetCursorShape drops the handler's cursor request.
func (b *HandlerBase) ResetCursorShape() {
	if !b.cursorSet {
		return
	}
	b.cursorSet = false
	if b.parent != nil {
		b.parent.hasCursorHandler = b.parent.anyHandlerWantsCursor()
		b.parent.setHasCursorInChild(b.parent.hasCursor || b.parent.hasCursorHandler)
	}
}

// LastEventTime is the timestamp of the last event the handler accepted to
// handle.
func (b *HandlerBase) LastEventTime() time.Duration { return b.lastEventTime }

// ParentContains reports whether the scene position lies within the parent
// item, widened by Margin.
func (b *HandlerBase) ParentContains(scenePos Vec2) bool {
	if b.parent == nil {
		return false
	}
	local := b.parent.MapFromScene(scenePos)
	if b.Margin == 0 {
		return b.parent.Contains(local)
	}
	m := b.Margin
	return local.X >= -m && local.Y >= -m && local.X < b.parent.width+m && local.Y < b.parent.height+m
}

// WantsPointerEvent accepts events from accepted devices while the handler
// is enabled.
func (b *HandlerBase) WantsPointerEvent(e *PointerEvent) bool {
	if b.disabled || b.parent == nil {
		return false
	}
	return b.acceptedDevices == 0 || b.acceptedDevices&e.Device.Type != 0
}

// WantsEventPoint accepts points inside the parent item.
func (b *HandlerBase) WantsEventPoint(_ *PointerEvent, p *EventPoint) bool {
	return b.ParentContains(p.ScenePosition)
}

// HandlePointerEvent does nothing.
func (b *HandlerBase) HandlePointerEvent(*PointerEvent) {}

// OnGrabChanged deactivates the handler when it loses an exclusive grab.
func (b *HandlerBase) OnGrabChanged(t GrabTransition, _ *PointerEvent, _ *EventPoint) {
	if t == UngrabExclusive || t == CancelGrabExclusive {
		b.setActive(false)
	}
}

// SetExclusiveGrab takes or gives up the exclusive grab of p. It reports
// whether the handler holds the grab afterwards.
func (b *HandlerBase) SetExclusiveGrab(e *PointerEvent, p *EventPoint, grab bool) bool {
	cur := e.ExclusiveGrabber(p)
	if grab {
		if cur != Grabber(b.self) {
			e.SetExclusiveGrabber(p, b.self)
		}
		return e.ExclusiveGrabber(p) == Grabber(b.self)
	}
	if cur == Grabber(b.self) {
		e.SetExclusiveGrabber(p, nil)
	}
	return false
}

// SetPassiveGrab starts or stops following p passively.
func (b *HandlerBase) SetPassiveGrab(e *PointerEvent, p *EventPoint, grab bool) {
	if grab {
		e.AddPassiveGrabber(p, b.self)
		return
	}
	e.RemovePassiveGrabber(p, b.self)
}

// --- Item handler registry ---

// AddPointerHandler attaches h to the item. A handler belongs to at most one
// item; adding it elsewhere first detaches it.
func (it *Item) AddPointerHandler(h PointerHandler) {
	if h == nil {
		return
	}
	b := h.handlerBase()
	if b.parent == it {
		return
	}
	if b.parent != nil {
		b.parent.RemovePointerHandler(h)
	}
	b.parent = it
	b.self = h
	e := it.extraData()
	e.handlers = append(e.handlers, h)
	if b.cursorSet {
		it.hasCursorHandler = true
		it.setHasCursorInChild(true)
	}
	if _, ok := h.(*HoverHandler); ok && b.Enabled() {
		it.setHasHoverInChild(true)
	}
}

// RemovePointerHandler detaches h from the item, dropping its grabs.
func (it *Item) RemovePointerHandler(h PointerHandler) {
	if it.extra == nil || h == nil {
		return
	}
	e := it.extra
	for i, other := range e.handlers {
		if other != h {
			continue
		}
		if it.window != nil {
			it.window.removeHandlerGrabs(h, true)
		}
		copy(e.handlers[i:], e.handlers[i+1:])
		e.handlers[len(e.handlers)-1] = nil
		e.handlers = e.handlers[:len(e.handlers)-1]
		h.handlerBase().setActive(false)
		h.handlerBase().parent = nil
		it.hasCursorHandler = it.anyHandlerWantsCursor()
		it.setHasCursorInChild(it.hasCursor || it.hasCursorHandler)
		it.setHasHoverInChild(it.hoverEnabled || it.hasEnabledHoverHandlers())
		return
	}
}

// PointerHandlers returns the attached handlers. The returned slice MUST NOT
// be mutated by the caller.
func (it *Item) PointerHandlers() []PointerHandler {
	if it.extra == nil {
		return nil
	}
	return it.extra.handlers
}

func (it *Item) hasPointerHandlers() bool { return it.extra != nil && len(it.extra.handlers) > 0 }

func (it *Item) hasEnabledHoverHandlers() bool {
	if it.extra == nil {
		return false
	}
	for _, h := range it.extra.handlers {
		if hh, ok := h.(*HoverHandler); ok && hh.Enabled() {
			return true
		}
	}
	return false
}

func (it *Item) anyHandlerWantsCursor() bool {
	if it.extra == nil {
		return false
	}
	for _, h := range it.extra.handlers {
		if h.handlerBase().cursorSet {
			return true
		}
	}
	return false
}

func (it *Item) anyPointerHandlerWants(e *PointerEvent, p *EventPoint) bool {
	for _, h := range it.extra.handlers {
		if h.WantsEventPoint(e, p) {
			return true
		}
	}
	return false
}

// effectiveCursorHandler picks the handler whose cursor wins on this item.
// An active handler wins outright. Otherwise a hovered handler for non-mouse
// devices wins over one for the mouse, until the mouse handler has seen an
// event more than timeout after the non-mouse one. Among handlers of the
// same kind the last added wins.
func (it *Item) effectiveCursorHandler(timeout time.Duration) PointerHandler {
	if !it.hasPointerHandlers() {
		return nil
	}
	var active, mouse, nonMouse PointerHandler
	for _, h := range it.extra.handlers {
		b := h.handlerBase()
		if !b.cursorSet {
			continue
		}
		hh, isHover := h.(*HoverHandler)
		if active == nil && isHover && hh.hovered {
			if b.acceptedDevices == 0 || b.acceptedDevices&DeviceMouse != 0 {
				mouse = h
			} else {
				nonMouse = h
			}
		}
		if !isHover && b.active {
			active = h
		}
	}
	if active != nil {
		return active
	}
	if nonMouse != nil {
		if mouse != nil && mouse.handlerBase().lastEventTime > nonMouse.handlerBase().lastEventTime+timeout {
			return mouse
		}
		return nonMouse
	}
	return mouse
}

// effectiveCursor resolves the cursor shape of the item given the handler
// that won arbitration, or nil.
func (it *Item) effectiveCursor(h PointerHandler) CursorShape {
	if h == nil {
		return it.cursor
	}
	if c, ok := h.handlerBase().CursorShape(); ok {
		return c
	}
	return it.cursor
}

// --- TapHandler ---

// TapGesturePolicy selects how strictly a TapHandler holds on to a press.
type TapGesturePolicy uint8

const (
	// TapDragThreshold follows the press passively and gives up when the
	// point moves farther than the drag threshold.
	TapDragThreshold TapGesturePolicy = iota
	// TapWithinBounds grabs the point and gives up when it leaves the
	// parent item.
	TapWithinBounds
	// TapReleaseWithinBounds grabs the point and taps if it is released
	// inside the parent item, wherever it went in between.
	TapReleaseWithinBounds
)

// TapHandler detects taps and clicks on its parent item.
type TapHandler struct {
	HandlerBase

	GesturePolicy TapGesturePolicy
	// AcceptedButtons selects the mouse buttons that tap. Zero means the
	// left button.
	AcceptedButtons MouseButton
	// DragThreshold overrides the window's drag threshold when positive.
	DragThreshold float64

	pressed  bool
	pointID  int
	pressPos Vec2
	button   MouseButton
	taps     int

	// OnTapped is called with the releasing point in parent coordinates.
	OnTapped func(p EventPoint, button MouseButton)
	// OnPressedChanged is called when a press starts or ends.
	OnPressedChanged func(pressed bool)
	// OnCanceled is called when a press ends without a tap.
	OnCanceled func()
}

// NewTapHandler creates a tap handler with the default drag-threshold
// policy.
func NewTapHandler() *TapHandler { return &TapHandler{} }

// Pressed reports whether a press is in progress.
func (t *TapHandler) Pressed() bool { return t.pressed }

// TapCount returns the number of taps recognized so far.
func (t *TapHandler) TapCount() int { return t.taps }

func (t *TapHandler) buttons() MouseButton {
	if t.AcceptedButtons == 0 {
		return MouseButtonLeft
	}
	return t.AcceptedButtons
}

func (t *TapHandler) threshold() float64 {
	if t.DragThreshold > 0 {
		return t.DragThreshold
	}
	if t.parent != nil && t.parent.window != nil {
		return t.parent.window.dragThreshold
	}
	return defaultDragThreshold
}

// WantsPointerEvent implements PointerHandler.
func (t *TapHandler) WantsPointerEvent(e *PointerEvent) bool {
	if !t.HandlerBase.WantsPointerEvent(e) {
		return false
	}
	if e.IsMouse() && e.Type != EventMouseMove && t.buttons()&e.Button == 0 {
		return false
	}
	if t.pressed {
		return e.PointByID(t.pointID) != nil
	}
	for i := range e.Points {
		p := &e.Points[i]
		if p.State == PointPressed && t.ParentContains(p.ScenePosition) {
			return true
		}
	}
	return false
}

// HandlePointerEvent implements PointerHandler.
func (t *TapHandler) HandlePointerEvent(e *PointerEvent) {
	for i := range e.Points {
		p := &e.Points[i]
		switch p.State {
		case PointPressed:
			if t.pressed || !t.ParentContains(p.ScenePosition) {
				continue
			}
			t.pressed = true
			t.pointID = p.ID
			t.pressPos = p.ScenePosition
			t.button = e.Button
			if t.GesturePolicy == TapDragThreshold {
				t.SetPassiveGrab(e, p, true)
			} else {
				t.SetExclusiveGrab(e, p, true)
			}
			t.setActive(true)
			t.pressedChanged()
		case PointUpdated, PointStationary:
			if !t.pressed || p.ID != t.pointID {
				continue
			}
			switch t.GesturePolicy {
			case TapDragThreshold:
				if p.ScenePosition.Sub(t.pressPos).Len() > t.threshold() {
					t.cancel(e, p)
				}
			case TapWithinBounds:
				if !t.ParentContains(p.ScenePosition) {
					t.cancel(e, p)
				}
			}
		case PointReleased:
			if !t.pressed || p.ID != t.pointID {
				continue
			}
			inside := t.ParentContains(p.ScenePosition)
			t.pressed = false
			t.setActive(false)
			t.SetExclusiveGrab(e, p, false)
			t.SetPassiveGrab(e, p, false)
			t.pressedChanged()
			if !inside {
				if t.OnCanceled != nil {
					t.OnCanceled()
				}
				continue
			}
			t.taps++
			if t.OnTapped != nil {
				t.OnTapped(*p, t.button)
			}
			if w := t.parent.window; w != nil {
				w.emitInteraction(InteractionTap, t.parent, p, t.button, e.Modifiers)
			}
		}
	}
}

func (t *TapHandler) cancel(e *PointerEvent, p *EventPoint) {
	t.pressed = false
	t.setActive(false)
	t.SetExclusiveGrab(e, p, false)
	t.SetPassiveGrab(e, p, false)
	t.pressedChanged()
	if t.OnCanceled != nil {
		t.OnCanceled()
	}
}

// OnGrabChanged implements PointerHandler. Losing the grab to someone else
// cancels the press.
func (t *TapHandler) OnGrabChanged(tr GrabTransition, e *PointerEvent, p *EventPoint) {
	t.HandlerBase.OnGrabChanged(tr, e, p)
	if (tr == CancelGrabExclusive || tr == CancelGrabPassive) && t.pressed && p.ID == t.pointID {
		t.pressed = false
		t.pressedChanged()
		if t.OnCanceled != nil {
			t.OnCanceled()
		}
	}
}

func (t *TapHandler) pressedChanged() {
	if t.OnPressedChanged != nil {
		t.OnPressedChanged(t.pressed)
	}
}

// --- HoverHandler ---

// HoverHandler tracks whether a hovering pointer is over its parent item.
// Mouse hover reaches it through the window's hover delivery; stylus and
// other devices reach it through normal pointer delivery.
type HoverHandler struct {
	HandlerBase

	hovered bool
	point   EventPoint

	// Blocking stops mouse hover from reaching items behind the parent
	// while the handler is hovered.
	Blocking bool

	// OnHoveredChanged is called when the hovered state flips.
	OnHoveredChanged func(hovered bool)
}

// NewHoverHandler creates a hover handler that reacts to every device.
func NewHoverHandler() *HoverHandler { return &HoverHandler{} }

// Hovered reports whether a pointer is over the parent item.
func (h *HoverHandler) Hovered() bool { return h.hovered }

// Point returns the last hovering point.
func (h *HoverHandler) Point() EventPoint { return h.point }

func (h *HoverHandler) setHovered(on bool) {
	if h.hovered == on {
		return
	}
	h.hovered = on
	if h.OnHoveredChanged != nil {
		h.OnHoveredChanged(on)
	}
}

// WantsPointerEvent implements PointerHandler. Presses and releases never
// change the hovered state.
func (h *HoverHandler) WantsPointerEvent(e *PointerEvent) bool {
	if e.IsMouse() && e.Button != MouseButtonNone {
		return false
	}
	if len(e.Points) > 0 && h.HandlerBase.WantsPointerEvent(e) && h.ParentContains(e.Points[0].ScenePosition) {
		return true
	}
	h.setHovered(false)
	return false
}

// HandlePointerEvent implements PointerHandler.
func (h *HoverHandler) HandlePointerEvent(e *PointerEvent) {
	p := &e.Points[0]
	h.point = *p
	if p.State == PointReleased && e.Device.Type == DeviceTouchScreen {
		h.setHovered(false)
		return
	}
	h.setHovered(true)
	if !e.IsMouse() {
		h.SetPassiveGrab(e, p, true)
	}
}
