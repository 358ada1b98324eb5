package arbor

// --- Pointer delivery ---

// DeliverPointer routes a mouse, wheel or touch event through the tree. Point
// positions are scene (window) coordinates. Mouse and wheel events carry a
// single point with ID 0. It reports whether every point was accepted.
//
// Presses go to the topmost items under each point until accepted. Updates
// go to the grabbers of each point first, then to the pointer handlers of
// items under ungrabbed points. Releases go to the grabbers, after which the
// released points are ungrabbed.
func (w *Window) DeliverPointer(e *PointerEvent) bool {
	if e == nil || len(e.Points) == 0 {
		return false
	}
	if e.Type == EventWheel {
		return w.deliverWheel(e)
	}

	d := w.grabsFor(e.Device)
	e.grabs = d
	e.accepted = false
	for i := range e.Points {
		p := &e.Points[i]
		p.accepted = false
		if p.State == PointPressed {
			pd := d.queryOrCreate(p.ID)
			pd.point.ScenePressPosition = p.ScenePosition
			p.ScenePressPosition = p.ScenePosition
		} else if pd := d.query(p.ID); pd != nil {
			p.ScenePressPosition = pd.point.ScenePressPosition
		}
	}

	w.beginDelivery(e)
	defer w.endDelivery()

	if e.IsMouse() {
		w.mouseDevice = e.Device
		last := w.lastMousePos
		w.lastMousePos = e.Points[0].ScenePosition
		w.hasMousePos = true
		if e.Type == EventMouseMove {
			w.deliverHover(e.Points[0].ScenePosition, last, e.Modifiers, e)
		}
	}

	if e.IsBeginEvent() {
		w.deliverPressOrRelease(e, false)
	}
	hoveringMove := e.Type == EventMouseMove && e.Buttons == MouseButtonNone
	if !e.allUpdatedPointsAccepted() && !hoveringMove {
		w.deliverUpdatedPoints(e)
	}
	if e.IsEndEvent() {
		w.deliverPressOrRelease(e, true)
		w.releasePoints(e)
	}

	for i := range e.Points {
		p := &e.Points[i]
		if pd := d.query(p.ID); pd != nil {
			pd.point.ScenePosition = p.ScenePosition
			pd.point.State = p.State
		}
	}
	if e.IsMouse() {
		w.updateCursor(e.Points[0].ScenePosition)
	}
	e.accepted = e.AllPointsAccepted()
	return e.accepted
}

func (w *Window) grabsFor(dev PointingDevice) *deviceGrabs {
	d := w.devices[dev.ID]
	if d == nil {
		d = &deviceGrabs{w: w, device: dev, points: make(map[int]*pointData)}
		w.devices[dev.ID] = d
	}
	return d
}

func (w *Window) beginDelivery(e *PointerEvent) {
	w.eventsInDelivery = append(w.eventsInDelivery, e)
	w.deliveredHandlers = w.deliveredHandlers[:0]
	w.lastUngrabbed = nil
}

func (w *Window) endDelivery() {
	n := len(w.eventsInDelivery) - 1
	w.eventsInDelivery[n] = nil
	w.eventsInDelivery = w.eventsInDelivery[:n]
	if n == 0 {
		clear(w.deliveredHandlers)
		w.deliveredHandlers = w.deliveredHandlers[:0]
	}
}

// eventInDelivery returns the innermost pointer event being delivered, or
// nil.
func (w *Window) eventInDelivery() *PointerEvent {
	if len(w.eventsInDelivery) == 0 {
		return nil
	}
	return w.eventsInDelivery[len(w.eventsInDelivery)-1]
}

// releasePoints drops the grabs of points that ended with this event.
func (w *Window) releasePoints(e *PointerEvent) {
	for i := range e.Points {
		p := &e.Points[i]
		if e.IsMouse() {
			if e.Buttons != MouseButtonNone {
				continue
			}
		} else if p.State != PointReleased && e.Type != EventTouchCancel {
			continue
		}
		e.ClearPassiveGrabbers(p)
		e.SetExclusiveGrabber(p, nil)
		if !e.IsMouse() {
			delete(e.grabs.points, p.ID)
		}
	}
}

// deliverPressOrRelease offers the event to every item under its points,
// topmost first, until all points are accepted. With handlersOnly set only
// pointer handlers are offered the event.
func (w *Window) deliverPressOrRelease(e *PointerEvent, handlersOnly bool) bool {
	isTouch := e.IsTouch()
	var targets []*Item
	for i := range e.Points {
		pt := pointerTargets(w.contentItem, e, &e.Points[i], !isTouch, isTouch)
		if len(targets) > 0 {
			targets = mergePointerTargets(targets, pt)
		} else {
			targets = pt
		}
	}

	w.skipDelivery = w.skipDelivery[:0]
	accepted := make([]bool, len(e.Points))
	for i := range e.Points {
		accepted[i] = e.Points[i].accepted
	}
	for _, it := range targets {
		if it.window != w {
			continue
		}
		w.hasFiltered = w.hasFiltered[:0]
		if !handlersOnly && w.sendFilteredPointerEvent(e, it, nil) {
			if e.accepted {
				return true
			}
			w.skipDelivery = append(w.skipDelivery, it)
		}
		if containsItem(w.skipDelivery, it) {
			continue
		}
		// Acceptance from filtering does not count for normal delivery.
		for i := range e.Points {
			e.Points[i].accepted = false
		}
		w.deliverMatchingPointsToItem(it, false, e, handlersOnly)
		all := true
		for i := range e.Points {
			accepted[i] = accepted[i] || e.Points[i].accepted
			all = all && accepted[i]
		}
		if all {
			handlersOnly = true
		}
	}
	for i := range e.Points {
		e.Points[i].accepted = accepted[i]
	}
	return e.AllPointsAccepted()
}

// deliverUpdatedPoints delivers moves and stationary points: first to the
// exclusive grabbers, then to passive grabbers, and finally to the pointer
// handlers of items under points nobody grabbed.
func (w *Window) deliverUpdatedPoints(e *PointerEvent) {
	done := false
	grabbers := e.exclusiveGrabbers()
	w.hasFiltered = w.hasFiltered[:0]
	for _, g := range grabbers {
		receiver, isItem := g.(*Item)
		if !isItem {
			h := g.(PointerHandler)
			receiver = h.handlerBase().parent
			if receiver != nil {
				w.hasFiltered = w.hasFiltered[:0]
				if w.sendFilteredPointerEvent(e, receiver, nil) {
					done = true
				}
				e.localize(receiver)
			}
			if !done {
				w.deliverToHandler(h, e)
			}
		}
		if done {
			break
		}
		w.hasFiltered = w.hasFiltered[:0]
		if receiver != nil {
			w.deliverMatchingPointsToItem(receiver, true, e, false)
		}
	}

	for i := range e.Points {
		pd := e.grabs.query(e.Points[i].ID)
		if pd == nil {
			continue
		}
		for _, h := range append([]PointerHandler(nil), pd.passive...) {
			if w.alreadyDelivered(h) {
				continue
			}
			if parent := h.handlerBase().parent; parent != nil {
				e.localize(parent)
			}
			w.deliverToHandler(h, e)
		}
	}

	if done || e.allUpdatedPointsAccepted() || e.allPointsGrabbed() {
		return
	}

	var targets []*Item
	for i := range e.Points {
		p := &e.Points[i]
		if p.State == PointPressed {
			continue
		}
		pt := pointerTargets(w.contentItem, e, p, false, false)
		if len(targets) > 0 {
			targets = mergePointerTargets(targets, pt)
		} else {
			targets = pt
		}
	}
	for _, it := range targets {
		if containsGrabber(grabbers, it) {
			continue
		}
		e.localize(it)
		w.handlePointerEvent(it, e, true)
		if e.allPointsGrabbed() {
			break
		}
	}
}

// deliverMatchingPointsToItem gives an item, and its handlers, the part of
// the event it is concerned with.
func (w *Window) deliverMatchingPointsToItem(it *Item, isGrabber bool, e *PointerEvent, handlersOnly bool) {
	e.localize(it)
	w.handlePointerEvent(it, e, false)
	if handlersOnly {
		return
	}

	// A pure release only reaches its grabber.
	if e.IsEndEvent() && !e.IsUpdateEvent() && !containsGrabber(e.exclusiveGrabbers(), it) {
		return
	}
	if w.sendFilteredPointerEvent(e, it, nil) {
		return
	}

	if e.IsMouse() {
		if (isGrabber && e.Button == MouseButtonNone) || it.acceptedButtons&e.Button != 0 {
			p := &e.Points[0]
			oldGrabber := e.ExclusiveGrabber(p)
			e.accepted = true
			if it.OnPointer != nil {
				it.OnPointer(e)
			} else {
				e.accepted = false
			}
			if e.accepted {
				grabber := e.ExclusiveGrabber(p)
				if grabber != nil && grabber != Grabber(it) && grabber != oldGrabber {
					// Accepting implied the grab, but someone took it in the
					// meantime.
					if it != w.lastUngrabbed {
						if it.OnUngrab != nil {
							it.OnUngrab()
						}
						w.lastUngrabbed = it
					}
				} else if it.effectiveEnabled && it.effectiveVisible && p.State == PointPressed {
					e.SetExclusiveGrabber(p, it)
				}
				p.accepted = true
				w.emitPointerInteraction(it, e, p)
			}
			return
		}
	}

	if !e.IsTouch() {
		return
	}
	te := it.localizedTouchEvent(e, false)
	if te.Type == EventNone {
		return
	}
	accepted := false
	if it.acceptTouch {
		te.accepted = true
		if it.OnPointer != nil {
			it.OnPointer(te)
			accepted = te.accepted
		}
	}
	if accepted {
		pressOrRelease := e.IsBeginEvent() || e.IsEndEvent()
		for i := range te.Points {
			p := e.PointByID(te.Points[i].ID)
			if p == nil {
				continue
			}
			p.accepted = true
			if pressOrRelease {
				e.SetExclusiveGrabber(p, it)
			}
			w.emitPointerInteraction(it, e, p)
		}
		return
	}
	// An item that declines a press is not interested in the rest of that
	// touch either.
	for i := range te.Points {
		p := e.PointByID(te.Points[i].ID)
		if p != nil && p.State == PointPressed && e.ExclusiveGrabber(p) == Grabber(it) {
			e.SetExclusiveGrabber(p, nil)
		}
	}
}

// sendFilteredPointerEvent lets each ancestor of receiver with a
// FilterChildPointer callback intercept the event, nearest first. Each
// ancestor filters at most once per delivery round.
func (w *Window) sendFilteredPointerEvent(e *PointerEvent, receiver, filteringParent *Item) bool {
	if filteringParent == nil {
		filteringParent = receiver.parent
	}
	filtered := false
	for fp := filteringParent; fp != nil; fp = fp.parent {
		if fp.FilterChildPointer == nil || containsItem(w.hasFiltered, fp) {
			continue
		}
		w.hasFiltered = append(w.hasFiltered, fp)
		if w.filterThrough(e, receiver, fp) {
			filtered = true
		}
	}
	return filtered
}

func (w *Window) filterThrough(e *PointerEvent, receiver, fp *Item) bool {
	if e.IsMouse() {
		if receiver.acceptedButtons == MouseButtonNone {
			return false
		}
		p := &e.Points[0]
		oldGrabber := e.ExclusiveGrabber(p)
		if receiver.keepMouseGrab && oldGrabber == Grabber(receiver) {
			return false
		}
		wasAccepted := e.AllPointsAccepted()
		e.localize(receiver)
		e.accepted = true
		if !fp.FilterChildPointer(receiver, e) {
			e.accepted = wasAccepted
			return false
		}
		w.skipDelivery = append(w.skipDelivery, fp)
		if e.accepted && e.IsBeginEvent() {
			grabber := e.ExclusiveGrabber(p)
			if grabber != nil && grabber != Grabber(receiver) && grabber != oldGrabber {
				if receiver.OnUngrab != nil {
					receiver.OnUngrab()
				}
			} else {
				e.SetExclusiveGrabber(p, receiver)
			}
		}
		return true
	}

	if !e.IsTouch() {
		return false
	}
	if !receiver.acceptTouch && !receiver.hasPointerHandlers() && receiver.acceptedButtons == MouseButtonNone {
		return false
	}
	te := receiver.localizedTouchEvent(e, true)
	if te.Type == EventNone {
		return false
	}
	if receiver.keepTouchGrab && grabsAll(te, e, receiver) {
		return false
	}
	te.accepted = true
	if !fp.FilterChildPointer(receiver, te) {
		return false
	}
	e.accepted = te.accepted
	w.skipDelivery = append(w.skipDelivery, fp)
	if e.accepted {
		for i := range te.Points {
			p := e.PointByID(te.Points[i].ID)
			if p == nil {
				continue
			}
			if _, isHandler := e.ExclusiveGrabber(p).(PointerHandler); !isHandler {
				e.SetExclusiveGrabber(p, fp)
			}
		}
	}
	return true
}

// grabsAll reports whether it exclusively grabs every point of the
// localized event te.
func grabsAll(te, e *PointerEvent, it *Item) bool {
	for i := range te.Points {
		if e.ExclusiveGrabber(&te.Points[i]) != Grabber(it) {
			return false
		}
	}
	return len(te.Points) > 0
}

// handlePointerEvent offers the event to the item's pointer handlers. Hover
// handlers are skipped for mouse and wheel events, which reach them through
// hover delivery. With avoidGrabbers set, handlers already grabbing a point
// of the event are skipped too.
func (w *Window) handlePointerEvent(it *Item, e *PointerEvent, avoidGrabbers bool) bool {
	if !it.hasPointerHandlers() {
		return false
	}
	delivered := false
	for _, h := range append([]PointerHandler(nil), it.extra.handlers...) {
		if _, hover := h.(*HoverHandler); hover && e.IsMouse() {
			continue
		}
		if avoidGrabbers && grabsAnyPoint(e, h) {
			continue
		}
		if w.alreadyDelivered(h) {
			continue
		}
		w.deliverToHandler(h, e)
		delivered = true
	}
	return delivered
}

func grabsAnyPoint(e *PointerEvent, h PointerHandler) bool {
	for i := range e.Points {
		p := &e.Points[i]
		if e.ExclusiveGrabber(p) == Grabber(h) {
			return true
		}
		for _, g := range e.PassiveGrabbers(p) {
			if g == h {
				return true
			}
		}
	}
	return false
}

// deliverToHandler runs one handler. A handler that does not want the event
// is deactivated and gives up its grab of every moving point.
func (w *Window) deliverToHandler(h PointerHandler, e *PointerEvent) {
	b := h.handlerBase()
	if h.WantsPointerEvent(e) {
		b.lastEventTime = e.Timestamp
		h.HandlePointerEvent(e)
	} else {
		b.setActive(false)
		for i := range e.Points {
			p := &e.Points[i]
			if p.State != PointStationary && e.ExclusiveGrabber(p) == Grabber(h) {
				e.SetExclusiveGrabber(p, nil)
			}
		}
	}
	w.deliveredHandlers = append(w.deliveredHandlers, h)
}

func (w *Window) alreadyDelivered(h PointerHandler) bool {
	for _, d := range w.deliveredHandlers {
		if d == h {
			return true
		}
	}
	return false
}

// pointerTargets lists the items under p, topmost first. An item is a target
// when p is inside it and it takes the event, or when one of its handlers
// wants the point. Clipping items hide their children outside their bounds.
func pointerTargets(it *Item, e *PointerEvent, p *EventPoint, checkMouseButtons, checkAcceptsTouch bool) []*Item {
	local := it.MapFromScene(p.ScenePosition)
	relevant := it.Contains(local)
	if it.Clip() && !relevant {
		return nil
	}
	if it.hasPointerHandlers() {
		if !relevant && it.anyPointerHandlerWants(e, p) {
			relevant = true
		}
	} else {
		if relevant && checkMouseButtons && it.acceptedButtons == MouseButtonNone {
			relevant = false
		}
		if relevant && checkAcceptsTouch && !it.acceptTouch && it.acceptedButtons == MouseButtonNone {
			relevant = false
		}
	}

	children := it.PaintOrderChildren()
	if relevant {
		// The item paints between its negative-z and non-negative-z children.
		pos := len(children)
		for i, c := range children {
			if c.z >= 0 {
				pos = i
				break
			}
		}
		withSelf := make([]*Item, 0, len(children)+1)
		withSelf = append(withSelf, children[:pos]...)
		withSelf = append(withSelf, it)
		children = append(withSelf, children[pos:]...)
	}

	var targets []*Item
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c == it {
			targets = append(targets, it)
			continue
		}
		if !c.effectiveVisible || !c.effectiveEnabled {
			continue
		}
		targets = append(targets, pointerTargets(c, e, p, checkMouseButtons, checkAcceptsTouch)...)
	}
	return targets
}

// mergePointerTargets merges the target list of another point into list1,
// keeping the relative order of both.
func mergePointerTargets(list1, list2 []*Item) []*Item {
	targets := append([]*Item(nil), list1...)
	insertPos := len(targets)
	for i := len(list2) - 1; i >= 0; i-- {
		if idx := lastIndexOf(targets, list2[i], insertPos); idx >= 0 {
			insertPos = idx
		}
		if insertPos == len(targets) || targets[insertPos] != list2[i] {
			targets = append(targets, nil)
			copy(targets[insertPos+1:], targets[insertPos:])
			targets[insertPos] = list2[i]
		}
	}
	return targets
}

func lastIndexOf(items []*Item, it *Item, from int) int {
	if from >= len(items) {
		from = len(items) - 1
	}
	for i := from; i >= 0; i-- {
		if items[i] == it {
			return i
		}
	}
	return -1
}

func containsItem(items []*Item, it *Item) bool {
	for _, x := range items {
		if x == it {
			return true
		}
	}
	return false
}

func containsGrabber(gs []Grabber, it *Item) bool {
	for _, g := range gs {
		if g == Grabber(it) {
			return true
		}
	}
	return false
}

// --- Wheel ---

// deliverWheel offers a wheel event to the items under the cursor, topmost
// first, until one accepts. Wheel events never grab.
func (w *Window) deliverWheel(e *PointerEvent) bool {
	e.grabs = w.grabsFor(e.Device)
	e.accepted = false
	w.beginDelivery(e)
	defer w.endDelivery()

	p := &e.Points[0]
	p.accepted = false
	for _, it := range pointerTargets(w.contentItem, e, p, false, false) {
		e.localize(it)
		w.handlePointerEvent(it, e, false)
		if p.accepted {
			return true
		}
		e.accepted = true
		if it.OnPointer != nil {
			it.OnPointer(e)
		} else {
			e.accepted = false
		}
		if e.accepted {
			p.accepted = true
			w.emitPointerInteraction(it, e, p)
			return true
		}
	}
	return false
}

// --- Grab API ---

// GrabMouse makes the item the exclusive grabber of the mouse. It only works
// while a pointer event is being delivered.
func (it *Item) GrabMouse() {
	w := it.window
	if w == nil {
		return
	}
	e := w.eventInDelivery()
	if e == nil {
		warn("GrabMouse", it, ErrNoEventInFlight)
		return
	}
	ev, p := w.mousePoint(e)
	ev.SetExclusiveGrabber(p, it)
}

// UngrabMouse gives up the item's mouse grab. Outside of event delivery it
// searches every device for grabs held by the item.
func (it *Item) UngrabMouse() {
	w := it.window
	if w == nil {
		return
	}
	e := w.eventInDelivery()
	if e == nil {
		w.removeGrabber(it, true, true, false)
		return
	}
	ev, p := w.mousePoint(e)
	if ev.ExclusiveGrabber(p) == Grabber(it) {
		ev.SetExclusiveGrabber(p, nil)
	}
}

// HasMouseGrab reports whether the item exclusively grabs the mouse.
func (it *Item) HasMouseGrab() bool {
	w := it.window
	if w == nil {
		return false
	}
	pd := w.devices[w.mouseDevice.ID].query(0)
	return pd != nil && pd.exclusive == Grabber(it)
}

// mousePoint returns an event bound to the mouse device and its point. When
// e is not a mouse event the window's persistent mouse point is used.
func (w *Window) mousePoint(e *PointerEvent) (*PointerEvent, *EventPoint) {
	if e.IsMouse() {
		return e, &e.Points[0]
	}
	d := w.grabsFor(w.mouseDevice)
	pd := d.queryOrCreate(0)
	return &PointerEvent{Type: EventMouseMove, Device: w.mouseDevice, grabs: d}, &pd.point
}

// GrabTouchPoints makes the item the exclusive grabber of the given touch
// points of the event being delivered.
func (it *Item) GrabTouchPoints(ids ...int) {
	w := it.window
	if w == nil {
		return
	}
	e := w.eventInDelivery()
	if e == nil {
		warn("GrabTouchPoints", it, ErrNoEventInFlight)
		return
	}
	for i := range e.Points {
		for _, id := range ids {
			if e.Points[i].ID == id {
				e.SetExclusiveGrabber(&e.Points[i], it)
			}
		}
	}
}

// UngrabTouchPoints gives up every touch point the item grabs.
func (it *Item) UngrabTouchPoints() {
	if it.window != nil {
		it.window.removeGrabber(it, false, true, false)
	}
}

// ExclusiveGrabber returns the exclusive grabber of a device point, or nil.
func (w *Window) ExclusiveGrabber(dev PointingDevice, pointID int) Grabber {
	if pd := w.devices[dev.ID].query(pointID); pd != nil {
		return pd.exclusive
	}
	return nil
}

// removeGrabber drops every grab held by it or by its pointer handlers, on
// mouse devices, on other devices, or both. With cancel set the losers are
// told the grab was canceled.
func (w *Window) removeGrabber(it *Item, mouse, touch, cancel bool) {
	ex, pass := UngrabExclusive, UngrabPassive
	if cancel {
		ex, pass = CancelGrabExclusive, CancelGrabPassive
	}
	for _, d := range w.devices {
		isMouse := d.device.Type == DeviceMouse
		if (isMouse && !mouse) || (!isMouse && !touch) {
			continue
		}
		for id, pd := range d.points {
			e, p := w.eventForPoint(d, id, pd)
			if g := pd.exclusive; g != nil && g.grabberItem() == it {
				d.setExclusive(e, p, nil, ex)
			}
			for i := len(pd.passive) - 1; i >= 0; i-- {
				if i < len(pd.passive) && pd.passive[i].handlerBase().parent == it {
					d.removePassive(e, p, pd.passive[i], pass)
				}
			}
		}
	}
}

// removeHandlerGrabs drops every grab held by h.
func (w *Window) removeHandlerGrabs(h PointerHandler, cancel bool) {
	ex, pass := UngrabExclusive, UngrabPassive
	if cancel {
		ex, pass = CancelGrabExclusive, CancelGrabPassive
	}
	for _, d := range w.devices {
		for id, pd := range d.points {
			e, p := w.eventForPoint(d, id, pd)
			if pd.exclusive == Grabber(h) {
				d.setExclusive(e, p, nil, ex)
			}
			d.removePassive(e, p, h, pass)
		}
	}
}

// eventForPoint returns the event to report a grab change with: the event
// being delivered when it carries the point, or a bare event on the device.
func (w *Window) eventForPoint(d *deviceGrabs, id int, pd *pointData) (*PointerEvent, *EventPoint) {
	if e := w.eventInDelivery(); e != nil && e.grabs == d {
		if p := e.PointByID(id); p != nil {
			return e, p
		}
	}
	return &PointerEvent{Device: d.device, grabs: d}, &pd.point
}

// onGrabChanged tells a grabber about a grab transition. Items only hear
// about canceled exclusive grabs, through OnUngrab.
func (w *Window) onGrabChanged(g Grabber, t GrabTransition, e *PointerEvent, p *EventPoint) {
	switch g := g.(type) {
	case PointerHandler:
		g.OnGrabChanged(t, e, p)
	case *Item:
		if t == CancelGrabExclusive && g.OnUngrab != nil {
			w.lastUngrabbed = g
			g.OnUngrab()
		}
	}
}

// --- Hover ---

// deliverHover sends hover enter, move and leave to the items under the
// mouse. An item accepting hover hides the items behind it.
func (w *Window) deliverHover(scenePos, lastPos Vec2, mods KeyModifiers, src *PointerEvent) bool {
	if !w.contentItem.subtreeHoverEnabled && len(w.hoverItems) == 0 {
		return false
	}
	w.currentHoverID++
	wasHovered := len(w.hoverItems) > 0
	if w.contentItem.subtreeHoverEnabled {
		w.deliverHoverRecursive(w.contentItem, scenePos, lastPos, mods, src)
	}
	for it, id := range w.hoverItems {
		if id == w.currentHoverID {
			continue
		}
		if id != 0 {
			w.deliverHoverToItem(it, scenePos, lastPos, mods, src, true)
		}
		delete(w.hoverItems, it)
	}
	return len(w.hoverItems) > 0 || wasHovered
}

func (w *Window) deliverHoverRecursive(it *Item, scenePos, lastPos Vec2, mods KeyModifiers, src *PointerEvent) bool {
	if it.Clip() && !it.Contains(it.MapFromScene(scenePos)) {
		return false
	}
	children := it.PaintOrderChildren()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if !c.effectiveVisible || !c.effectiveEnabled || !c.subtreeHoverEnabled {
			continue
		}
		if w.deliverHoverRecursive(c, scenePos, lastPos, mods, src) {
			return true
		}
	}
	return w.deliverHoverToItem(it, scenePos, lastPos, mods, src, false)
}

func (w *Window) deliverHoverToItem(it *Item, scenePos, lastPos Vec2, mods KeyModifiers, src *PointerEvent, clearHover bool) bool {
	local := it.MapFromScene(scenePos)
	hovering := it.Contains(local)
	id, known := w.hoverItems[it]
	wasHovering := known && id != 0

	accepted := false
	switch {
	case it.hoverEnabled && hovering && !clearHover:
		w.hoverItems[it] = w.currentHoverID
		if wasHovering {
			accepted = w.sendHover(it, EventHoverMove, scenePos, mods, src)
		} else {
			accepted = w.sendHover(it, EventHoverEnter, scenePos, mods, src)
			w.emitInteraction(InteractionHoverEnter, it, &EventPoint{ScenePosition: scenePos, Position: local}, MouseButtonNone, mods)
		}
	case wasHovering:
		w.hoverItems[it] = 0
		w.sendHover(it, EventHoverLeave, scenePos, mods, src)
		w.emitInteraction(InteractionHoverLeave, it, &EventPoint{ScenePosition: scenePos, Position: local}, MouseButtonNone, mods)
	}

	if !it.hasPointerHandlers() {
		return accepted
	}
	if clearHover {
		for _, h := range it.extra.handlers {
			if hh, ok := h.(*HoverHandler); ok {
				hh.setHovered(false)
			}
		}
		return false
	}

	move := &PointerEvent{
		Type:      EventMouseMove,
		Device:    w.mouseDevice,
		Points:    []EventPoint{{ID: 0, State: PointUpdated, ScenePosition: scenePos, Position: local}},
		Modifiers: mods,
		grabs:     w.grabsFor(w.mouseDevice),
	}
	if src != nil {
		move.Timestamp = src.Timestamp
	}
	for _, h := range it.extra.handlers {
		hh, ok := h.(*HoverHandler)
		if !ok || !hh.Enabled() {
			continue
		}
		move.accepted = true
		w.deliverToHandler(hh, move)
		if hh.hovered {
			w.hoverItems[it] = w.currentHoverID
			if hh.Blocking {
				accepted = true
				break
			}
		}
	}
	return accepted
}

func (w *Window) sendHover(it *Item, t PointerEventType, scenePos Vec2, mods KeyModifiers, src *PointerEvent) bool {
	if it.OnHover == nil {
		return false
	}
	e := &PointerEvent{
		Type:      t,
		Device:    w.mouseDevice,
		Points:    []EventPoint{{ID: 0, State: PointUpdated, ScenePosition: scenePos, Position: it.MapFromScene(scenePos)}},
		Modifiers: mods,
		accepted:  true,
	}
	if src != nil {
		e.Timestamp = src.Timestamp
	}
	it.OnHover(e)
	return e.accepted
}

// DeliverMouseLeave tells the window the mouse left it. Every hovered item
// gets a hover leave and the cursor is reset.
func (w *Window) DeliverMouseLeave() {
	w.currentHoverID++
	for it, id := range w.hoverItems {
		if id != 0 {
			w.deliverHoverToItem(it, w.lastMousePos, w.lastMousePos, 0, nil, true)
		}
		delete(w.hoverItems, it)
	}
	w.hasMousePos = false
	w.setCursorOwner(nil, nil)
}

// SetAcceptHoverEvents makes the item receive hover enter, move and leave
// through OnHover.
func (it *Item) SetAcceptHoverEvents(on bool) {
	if it.hoverEnabled == on {
		return
	}
	it.hoverEnabled = on
	it.setHasHoverInChild(on || it.hasEnabledHoverHandlers())
}

// AcceptHoverEvents reports whether the item receives hover events.
func (it *Item) AcceptHoverEvents() bool { return it.hoverEnabled }

// IsHovered reports whether the mouse is over the item and the item accepts
// hover events.
func (it *Item) IsHovered() bool {
	if it.window == nil {
		return false
	}
	id, ok := it.window.hoverItems[it]
	return ok && id != 0
}

// --- Cursor ---

// SetCursor makes the item ask for a cursor shape while the mouse is over
// it.
func (it *Item) SetCursor(c CursorShape) {
	changed := !it.hasCursor || it.cursor != c
	it.cursor = c
	if !it.hasCursor {
		it.hasCursor = true
		it.setHasCursorInChild(true)
	}
	if changed && it.window != nil && it.window.hasMousePos {
		it.window.updateCursor(it.window.lastMousePos)
	}
}

// UnsetCursor drops the item's cursor request.
func (it *Item) UnsetCursor() {
	if !it.hasCursor {
		return
	}
	it.hasCursor = false
	it.cursor = CursorArrow
	it.setHasCursorInChild(it.hasCursorHandler)
	if it.window != nil && it.window.hasMousePos {
		it.window.updateCursor(it.window.lastMousePos)
	}
}

// Cursor returns the item's cursor shape and whether it set one.
func (it *Item) Cursor() (CursorShape, bool) { return it.cursor, it.hasCursor }

// CursorItem returns the item that currently owns the cursor, or nil.
func (w *Window) CursorItem() *Item { return w.cursorItem }

// Cursor returns the shape last sent to the cursor sink and whether one is
// set.
func (w *Window) Cursor() (CursorShape, bool) { return w.cursorShape, w.cursorItem != nil }

// updateCursor recomputes which item and handler own the cursor at scenePos
// and forwards a change to the cursor sink.
func (w *Window) updateCursor(scenePos Vec2) {
	it, h := w.findCursorItemAndHandler(w.contentItem, scenePos)
	w.setCursorOwner(it, h)
}

func (w *Window) setCursorOwner(it *Item, h PointerHandler) {
	if it == nil {
		if w.cursorItem != nil {
			w.cursorItem, w.cursorHandler = nil, nil
			w.cursorShape = CursorArrow
			if w.cursorSink != nil {
				w.cursorSink.UnsetCursor()
			}
		}
		return
	}
	shape := it.effectiveCursor(h)
	if it == w.cursorItem && h == w.cursorHandler && shape == w.cursorShape {
		return
	}
	w.cursorItem, w.cursorHandler, w.cursorShape = it, h, shape
	if w.cursorSink != nil {
		w.cursorSink.SetCursor(shape)
	}
}

func (w *Window) findCursorItemAndHandler(it *Item, scenePos Vec2) (*Item, PointerHandler) {
	if it.Clip() && !it.Contains(it.MapFromScene(scenePos)) {
		return nil, nil
	}
	if !it.subtreeCursorEnabled {
		return nil, nil
	}
	children := it.PaintOrderChildren()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if !c.effectiveVisible || !c.effectiveEnabled {
			continue
		}
		if ci, ch := w.findCursorItemAndHandler(c, scenePos); ci != nil {
			return ci, ch
		}
	}
	if it.hasCursorHandler {
		if h := it.effectiveCursorHandler(w.cursorOverrideTimeout); h != nil && h.handlerBase().ParentContains(scenePos) {
			return it, h
		}
	}
	if it.hasCursor && it.Contains(it.MapFromScene(scenePos)) {
		return it, nil
	}
	return nil, nil
}

// --- Interaction events ---

func (w *Window) emitPointerInteraction(it *Item, e *PointerEvent, p *EventPoint) {
	var t InteractionType
	switch p.State {
	case PointPressed:
		t = InteractionPress
	case PointReleased:
		t = InteractionRelease
	default:
		t = InteractionMove
	}
	if e.Type == EventWheel {
		t = InteractionWheel
	}
	ev := w.interactionEvent(t, it, p, e.Button, e.Modifiers)
	if ev == nil {
		return
	}
	ev.WheelX, ev.WheelY = e.WheelDelta.X, e.WheelDelta.Y
	w.store.EmitEvent(*ev)
}

func (w *Window) emitInteraction(t InteractionType, it *Item, p *EventPoint, button MouseButton, mods KeyModifiers) {
	if ev := w.interactionEvent(t, it, p, button, mods); ev != nil {
		w.store.EmitEvent(*ev)
	}
}

func (w *Window) interactionEvent(t InteractionType, it *Item, p *EventPoint, button MouseButton, mods KeyModifiers) *InteractionEvent {
	if w.store == nil || it == nil || it.EntityID == 0 {
		return nil
	}
	ev := &InteractionEvent{
		Type:      t,
		EntityID:  it.EntityID,
		ItemID:    it.ID,
		Button:    button,
		Modifiers: mods,
	}
	if p != nil {
		ev.PointID = p.ID
		ev.GlobalX, ev.GlobalY = p.ScenePosition.X, p.ScenePosition.Y
		local := it.MapFromScene(p.ScenePosition)
		ev.LocalX, ev.LocalY = local.X, local.Y
	}
	return ev
}
