package arbor

import "time"

// DeviceType is a bitmask of pointing device kinds.
type DeviceType uint8

const (
	DeviceMouse DeviceType = 1 << iota
	DeviceTouchScreen
	DeviceTouchPad
	DeviceStylus

	AllDevices = DeviceMouse | DeviceTouchScreen | DeviceTouchPad | DeviceStylus
)

// PointingDevice identifies the device an event came from. Grabs are kept
// per device and per point.
type PointingDevice struct {
	ID   int
	Type DeviceType
}

// MouseDevice is the device used for mouse and wheel events when the platform
// layer does not distinguish several mice.
var MouseDevice = PointingDevice{ID: 1, Type: DeviceMouse}

// TouchDevice is the default touch screen.
var TouchDevice = PointingDevice{ID: 2, Type: DeviceTouchScreen}

// PointerEventType is the kind of a PointerEvent.
type PointerEventType uint8

const (
	// EventNone marks an empty event; see localizedTouchEvent.
	EventNone PointerEventType = iota
	EventMousePress
	EventMouseRelease
	EventMouseMove
	EventWheel
	EventTouchBegin
	EventTouchUpdate
	EventTouchEnd
	EventTouchCancel
	EventHoverEnter
	EventHoverMove
	EventHoverLeave
)

var pointerEventTypeNames = [...]string{
	EventNone:         "none",
	EventMousePress:   "mouse-press",
	EventMouseRelease: "mouse-release",
	EventMouseMove:    "mouse-move",
	EventWheel:        "wheel",
	EventTouchBegin:   "touch-begin",
	EventTouchUpdate:  "touch-update",
	EventTouchEnd:     "touch-end",
	EventTouchCancel:  "touch-cancel",
	EventHoverEnter:   "hover-enter",
	EventHoverMove:    "hover-move",
	EventHoverLeave:   "hover-leave",
}

func (t PointerEventType) String() string {
	if int(t) < len(pointerEventTypeNames) {
		return pointerEventTypeNames[t]
	}
	return "unknown"
}

// PointState is the state of one point within an event.
type PointState uint8

const (
	PointUnknown PointState = 0
	PointPressed PointState = 1 << (iota - 1)
	PointUpdated
	PointStationary
	PointReleased
)

// EventPoint is one contact point: the mouse cursor, a finger or a stylus.
type EventPoint struct {
	ID    int
	State PointState
	// ScenePosition is the position in window coordinates.
	ScenePosition Vec2
	// ScenePressPosition is where the point was pressed. Filled in by the
	// window for points it has seen pressed.
	ScenePressPosition Vec2
	// Position is the position in the coordinates of the item the event is
	// currently delivered to.
	Position Vec2

	accepted bool
}

// Accept marks the point as handled.
func (p *EventPoint) Accept() { p.accepted = true }

// SetAccepted sets the accepted flag of the point.
func (p *EventPoint) SetAccepted(v bool) { p.accepted = v }

// IsAccepted reports whether the point was handled.
func (p *EventPoint) IsAccepted() bool { return p.accepted }

// PointerEvent is a mouse, wheel, touch or hover event. During delivery its
// point positions are rewritten into the coordinates of the receiving item.
type PointerEvent struct {
	Type      PointerEventType
	Device    PointingDevice
	Points    []EventPoint
	Button    MouseButton
	Buttons   MouseButton
	Modifiers KeyModifiers
	Timestamp time.Duration
	// WheelDelta is the scroll amount of wheel events.
	WheelDelta Vec2

	accepted bool
	grabs    *deviceGrabs
}

// Accept marks the event as handled.
func (e *PointerEvent) Accept() { e.accepted = true }

// Ignore marks the event as not handled.
func (e *PointerEvent) Ignore() { e.accepted = false }

// SetAccepted sets the accepted flag of the event.
func (e *PointerEvent) SetAccepted(v bool) { e.accepted = v }

// IsAccepted reports whether the event was handled.
func (e *PointerEvent) IsAccepted() bool { return e.accepted }

// IsEmpty reports whether the event carries no points.
func (e *PointerEvent) IsEmpty() bool { return e.Type == EventNone || len(e.Points) == 0 }

// IsMouse reports whether the event is a mouse or wheel event.
func (e *PointerEvent) IsMouse() bool {
	switch e.Type {
	case EventMousePress, EventMouseRelease, EventMouseMove, EventWheel:
		return true
	}
	return false
}

// IsTouch reports whether the event is a touch event.
func (e *PointerEvent) IsTouch() bool {
	switch e.Type {
	case EventTouchBegin, EventTouchUpdate, EventTouchEnd, EventTouchCancel:
		return true
	}
	return false
}

// IsBeginEvent reports whether any point was just pressed.
func (e *PointerEvent) IsBeginEvent() bool {
	if e.Type == EventMousePress {
		return true
	}
	for i := range e.Points {
		if e.Points[i].State == PointPressed {
			return true
		}
	}
	return false
}

// IsUpdateEvent reports whether any point moved or stayed pressed.
func (e *PointerEvent) IsUpdateEvent() bool {
	if e.Type == EventMouseMove || e.Type == EventWheel {
		return true
	}
	for i := range e.Points {
		if s := e.Points[i].State; s == PointUpdated || s == PointStationary {
			return true
		}
	}
	return false
}

// IsEndEvent reports whether any point was just released.
func (e *PointerEvent) IsEndEvent() bool {
	if e.Type == EventMouseRelease {
		return true
	}
	for i := range e.Points {
		if e.Points[i].State == PointReleased {
			return true
		}
	}
	return false
}

// AllPointsAccepted reports whether every point was handled.
func (e *PointerEvent) AllPointsAccepted() bool {
	for i := range e.Points {
		if !e.Points[i].accepted {
			return false
		}
	}
	return true
}

// PointByID returns the point with the given id, or nil.
func (e *PointerEvent) PointByID(id int) *EventPoint {
	for i := range e.Points {
		if e.Points[i].ID == id {
			return &e.Points[i]
		}
	}
	return nil
}

// clone returns a copy of the event with its own point slice.
func (e *PointerEvent) clone() *PointerEvent {
	c := *e
	c.Points = append([]EventPoint(nil), e.Points...)
	return &c
}

// localize rewrites every point position into the item's coordinates.
func (e *PointerEvent) localize(it *Item) {
	for i := range e.Points {
		e.Points[i].Position = it.MapFromScene(e.Points[i].ScenePosition)
	}
}

// --- Grabs ---

// Grabber is an item or a pointer handler that can hold a pointer grab.
type Grabber interface {
	grabberItem() *Item
}

func (it *Item) grabberItem() *Item { return it }

// GrabTransition describes a change of grab passed to OnGrabChanged.
type GrabTransition uint8

const (
	GrabExclusive GrabTransition = iota
	UngrabExclusive
	CancelGrabExclusive
	GrabPassive
	UngrabPassive
	CancelGrabPassive
)

// pointData is the window's persistent record of an active point.
type pointData struct {
	point     EventPoint
	exclusive Grabber
	passive   []PointerHandler
}

// deviceGrabs holds the grab state of one pointing device.
type deviceGrabs struct {
	w      *Window
	device PointingDevice
	points map[int]*pointData
}

func (d *deviceGrabs) query(id int) *pointData {
	if d == nil {
		return nil
	}
	return d.points[id]
}

func (d *deviceGrabs) queryOrCreate(id int) *pointData {
	pd := d.points[id]
	if pd == nil {
		pd = &pointData{point: EventPoint{ID: id}}
		d.points[id] = pd
	}
	return pd
}

// ExclusiveGrabber returns the exclusive grabber of p, or nil.
func (e *PointerEvent) ExclusiveGrabber(p *EventPoint) Grabber {
	if pd := e.grabs.query(p.ID); pd != nil {
		return pd.exclusive
	}
	return nil
}

// SetExclusiveGrabber gives p's exclusive grab to g. A nil g releases the
// grab. The previous grabber is told it was canceled when g takes over and
// ungrabbed when the grab is simply released.
func (e *PointerEvent) SetExclusiveGrabber(p *EventPoint, g Grabber) {
	if e.grabs == nil {
		return
	}
	t := UngrabExclusive
	if g != nil {
		t = CancelGrabExclusive
	}
	e.grabs.setExclusive(e, p, g, t)
}

func (d *deviceGrabs) setExclusive(e *PointerEvent, p *EventPoint, g Grabber, lost GrabTransition) {
	pd := d.queryOrCreate(p.ID)
	old := pd.exclusive
	if old == g {
		return
	}
	pd.exclusive = g
	if old != nil {
		d.w.onGrabChanged(old, lost, e, p)
	}
	if g != nil {
		if _, ok := g.(PointerHandler); ok {
			p.accepted = true
		}
		d.w.onGrabChanged(g, GrabExclusive, e, p)
	}
}

// PassiveGrabbers returns the handlers passively grabbing p.
func (e *PointerEvent) PassiveGrabbers(p *EventPoint) []PointerHandler {
	if pd := e.grabs.query(p.ID); pd != nil {
		return pd.passive
	}
	return nil
}

// AddPassiveGrabber lets h follow p without blocking other grabs. It reports
// whether h was added.
func (e *PointerEvent) AddPassiveGrabber(p *EventPoint, h PointerHandler) bool {
	if e.grabs == nil || h == nil {
		return false
	}
	pd := e.grabs.queryOrCreate(p.ID)
	for _, g := range pd.passive {
		if g == h {
			return false
		}
	}
	pd.passive = append(pd.passive, h)
	e.grabs.w.onGrabChanged(h, GrabPassive, e, p)
	return true
}

// RemovePassiveGrabber stops h from following p. It reports whether h was
// a passive grabber.
func (e *PointerEvent) RemovePassiveGrabber(p *EventPoint, h PointerHandler) bool {
	if e.grabs == nil {
		return false
	}
	return e.grabs.removePassive(e, p, h, UngrabPassive)
}

func (d *deviceGrabs) removePassive(e *PointerEvent, p *EventPoint, h PointerHandler, t GrabTransition) bool {
	pd := d.query(p.ID)
	if pd == nil {
		return false
	}
	for i, g := range pd.passive {
		if g == h {
			copy(pd.passive[i:], pd.passive[i+1:])
			pd.passive[len(pd.passive)-1] = nil
			pd.passive = pd.passive[:len(pd.passive)-1]
			d.w.onGrabChanged(h, t, e, p)
			return true
		}
	}
	return false
}

// ClearPassiveGrabbers drops every passive grab of p.
func (e *PointerEvent) ClearPassiveGrabbers(p *EventPoint) {
	pd := e.grabs.query(p.ID)
	if pd == nil {
		return
	}
	for len(pd.passive) > 0 {
		e.grabs.removePassive(e, p, pd.passive[0], UngrabPassive)
	}
}

func (e *PointerEvent) allPointsGrabbed() bool {
	for i := range e.Points {
		pd := e.grabs.query(e.Points[i].ID)
		if pd == nil || (pd.exclusive == nil && len(pd.passive) == 0) {
			return false
		}
	}
	return true
}

func (e *PointerEvent) allUpdatedPointsAccepted() bool {
	for i := range e.Points {
		if e.Points[i].State != PointPressed && !e.Points[i].accepted {
			return false
		}
	}
	return true
}

// exclusiveGrabbers returns the distinct exclusive grabbers of the event's
// points in point order.
func (e *PointerEvent) exclusiveGrabbers() []Grabber {
	var out []Grabber
	for i := range e.Points {
		g := e.ExclusiveGrabber(&e.Points[i])
		if g == nil {
			continue
		}
		dup := false
		for _, o := range out {
			if o == g {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, g)
		}
	}
	return out
}

// --- Localization ---

// localizedTouchEvent returns the part of a touch event that concerns it,
// with positions in the item's coordinates. A point is kept when it is grabbed by
// the item, or lies inside it while no other item holds the grab. When
// filtering on behalf of a descendant, points inside the item and points
// grabbed within its subtree are kept as well.
//
// An event nothing in it is relevant for comes back with type EventNone.
func (it *Item) localizedTouchEvent(e *PointerEvent, isFiltering bool) *PointerEvent {
	var points []EventPoint
	var states PointState

	for i := range e.Points {
		p := &e.Points[i]
		if p.accepted {
			continue
		}

		pointGrabber := e.ExclusiveGrabber(p)
		isGrabber := pointGrabber == Grabber(it)
		if !isGrabber && pointGrabber != nil && isFiltering {
			if h, ok := pointGrabber.(PointerHandler); ok && h.handlerBase().parent == it {
				isGrabber = true
			}
		}

		localPos := it.MapFromScene(p.ScenePosition)
		isInside := it.Contains(localPos)
		hasAnotherGrabber := pointGrabber != nil && pointGrabber != Grabber(it)

		var grabberItem *Item
		if gi, ok := pointGrabber.(*Item); ok {
			grabberItem = gi
		}
		if isFiltering && pointGrabber == nil {
			if pg := e.PassiveGrabbers(p); len(pg) > 0 {
				grabberItem = pg[0].handlerBase().parent
			}
		}

		grabberIsChild := false
		for parent := grabberItem; isFiltering && parent != nil; parent = parent.parent {
			if parent == it {
				grabberIsChild = true
				break
			}
		}

		filterRelevant := isFiltering && grabberIsChild
		if !(isGrabber || (isInside && (!hasAnotherGrabber || isFiltering)) || filterRelevant) {
			continue
		}
		cp := *p
		cp.Position = localPos
		states |= p.State
		points = append(points, cp)
	}

	// Grabbed points and presses or releases inside always qualify, so
	// the event is empty only when no point does.
	if len(points) == 0 {
		return &PointerEvent{Type: EventNone, Device: e.Device, Timestamp: e.Timestamp, grabs: e.grabs}
	}

	t := EventTouchUpdate
	switch states {
	case PointPressed:
		t = EventTouchBegin
	case PointReleased:
		t = EventTouchEnd
	}
	if e.Type == EventTouchCancel {
		t = EventTouchCancel
	}
	return &PointerEvent{
		Type:      t,
		Device:    e.Device,
		Points:    points,
		Modifiers: e.Modifiers,
		Timestamp: e.Timestamp,
		grabs:     e.grabs,
	}
}
