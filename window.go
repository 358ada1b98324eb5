package arbor

import (
	"container/list"
	"time"
)

const (
	// defaultCursorOverrideTimeout is how long a non-mouse hover handler's
	// cursor wins over a mouse hover handler's.
	defaultCursorOverrideTimeout = 100 * time.Millisecond
	// defaultDragThreshold is the distance in pixels a press may travel and
	// still count as a tap.
	defaultDragThreshold = 8.0
)

// Window is the top-level object that owns an item tree and delivers input
// to it. It keeps the content item, the items without a parent, the dirty
// list, the grab state of every pointing device, the hovered items and the
// cursor owner, and the active focus item.
type Window struct {
	contentItem *Item
	parentless  map[*Item]struct{}
	dirtyList   *list.List
	renderer    Renderer
	debug       bool

	// Focus
	active                   bool
	activeFocusItem          *Item
	lastFocusReason          FocusReason
	tabFocus                 TabFocusPolicy
	OnActiveFocusItemChanged func(it *Item)

	// Pointer delivery
	devices           map[int]*deviceGrabs
	eventsInDelivery  []*PointerEvent
	deliveredHandlers []PointerHandler
	hasFiltered       []*Item
	skipDelivery      []*Item
	lastUngrabbed     *Item
	mouseDevice       PointingDevice
	lastMousePos      Vec2
	hasMousePos       bool
	dragThreshold     float64

	// Hover and cursor
	hoverItems            map[*Item]uint64
	currentHoverID        uint64
	cursorItem            *Item
	cursorHandler         PointerHandler
	cursorShape           CursorShape
	cursorSink            CursorSink
	cursorOverrideTimeout time.Duration

	// Collaborators
	accessibility        Accessibility
	accessibilityEnabled bool
	store                EntityStore
	layerBackend         LayerBackend

	// Synthetic input
	injectQueue []syntheticEvent
	injectTime  time.Duration
	testRunner  *TestRunner
}

// NewWindow creates a window with an empty content item of the given size.
// The window starts inactive; call SetActive(true) once it has platform
// focus.
func NewWindow(width, height float64) *Window {
	w := &Window{
		parentless:            make(map[*Item]struct{}),
		dirtyList:             list.New(),
		devices:               make(map[int]*deviceGrabs),
		hoverItems:            make(map[*Item]uint64),
		mouseDevice:           MouseDevice,
		cursorOverrideTimeout: defaultCursorOverrideTimeout,
		dragThreshold:         defaultDragThreshold,
		accessibilityEnabled:  true,
	}
	root := NewItem("content")
	root.flags |= FlagFocusScope
	root.SetSize(width, height)
	root.refWindow(w)
	delete(w.parentless, root)
	w.contentItem = root
	return w
}

// ContentItem returns the root of the window's item tree.
func (w *Window) ContentItem() *Item { return w.contentItem }

// SetRenderer sets the collaborator that consumes dirty items in Sync.
func (w *Window) SetRenderer(r Renderer) { w.renderer = r }

// SetCursorSink sets the platform cursor the window drives.
func (w *Window) SetCursorSink(s CursorSink) {
	w.cursorSink = s
	if s != nil && w.cursorItem != nil {
		s.SetCursor(w.cursorShape)
	}
}

// SetAccessibility sets the accessibility bridge notified about items marked
// Accessible.
func (w *Window) SetAccessibility(a Accessibility) { w.accessibility = a }

// SetEntityStore sets the optional ECS bridge. Interactions on items with a
// non-zero EntityID are forwarded to it.
func (w *Window) SetEntityStore(s EntityStore) { w.store = s }

// SetDebugMode enables tree checks and sync timing logs for this window.
func (w *Window) SetDebugMode(enabled bool) {
	w.debug = enabled
	globalDebug = enabled
}

// SetTabFocusPolicy selects which items Tab can move focus to.
func (w *Window) SetTabFocusPolicy(p TabFocusPolicy) { w.tabFocus = p }

// TabFocusPolicy returns the window's tab focus policy.
func (w *Window) TabFocusPolicy() TabFocusPolicy { return w.tabFocus }

// ParentlessItems returns the items attached to the window without a parent,
// in no particular order.
func (w *Window) ParentlessItems() []*Item {
	out := make([]*Item, 0, len(w.parentless))
	for it := range w.parentless {
		out = append(out, it)
	}
	return out
}

// --- Collaborators ---

// CursorSink is the platform cursor.
type CursorSink interface {
	SetCursor(shape CursorShape)
	UnsetCursor()
}

// Accessibility receives notifications about items marked Accessible.
type Accessibility interface {
	FocusGained(it *Item)
	VisibilityChanged(it *Item, visible bool)
	EnabledChanged(it *Item, enabled bool)
	GeometryChanged(it *Item)
}

func (w *Window) notifyAccessibility(it *Item, fn func(a Accessibility)) {
	if w.accessibility == nil || !w.accessibilityEnabled || !it.Accessible {
		return
	}
	fn(w.accessibility)
}

// EntityStore is the interface for optional ECS integration.
// When set on a Window, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionType identifies an interaction forwarded to the EntityStore.
type InteractionType uint8

const (
	InteractionPress InteractionType = iota
	InteractionMove
	InteractionRelease
	InteractionTap
	InteractionHoverEnter
	InteractionHoverLeave
	InteractionWheel
	InteractionKeyPress
	InteractionFocusIn
)

var interactionTypeNames = [...]string{
	InteractionPress:      "press",
	InteractionMove:       "move",
	InteractionRelease:    "release",
	InteractionTap:        "tap",
	InteractionHoverEnter: "hover-enter",
	InteractionHoverLeave: "hover-leave",
	InteractionWheel:      "wheel",
	InteractionKeyPress:   "key-press",
	InteractionFocusIn:    "focus-in",
}

func (t InteractionType) String() string {
	if int(t) < len(interactionTypeNames) {
		return interactionTypeNames[t]
	}
	return "unknown"
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      InteractionType
	EntityID  uint32
	ItemID    uint32
	PointID   int
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Key is set for InteractionKeyPress.
	Key Key
	// Wheel fields (valid for InteractionWheel)
	WheelX float64
	WheelY float64
}

// --- Focus and key input ---

// DeliverFocusIn tells the window it gained platform focus.
func (w *Window) DeliverFocusIn() { w.SetActive(true) }

// DeliverFocusOut tells the window it lost platform focus.
func (w *Window) DeliverFocusOut() { w.SetActive(false) }

// DeliverKey sends a key event to the active focus item. An event the item
// leaves unaccepted bubbles up through its enabled ancestors. It reports
// whether the event was accepted.
func (w *Window) DeliverKey(e *KeyEvent) bool {
	it := w.activeFocusItem
	if it == nil || e == nil {
		return false
	}
	target := it
	for ; it != nil; it = it.parent {
		if !it.effectiveEnabled {
			continue
		}
		e.accepted = true
		it.deliverKeyEvent(e)
		if e.accepted {
			break
		}
	}
	if e.accepted && e.Type == KeyPress && w.store != nil {
		if ev := w.interactionEvent(InteractionKeyPress, target, nil, MouseButtonNone, e.Modifiers); ev != nil {
			ev.Key = e.Key
			w.store.EmitEvent(*ev)
		}
	}
	return e.accepted
}

// itemLeaving drops every reference the window keeps to an item that is
// leaving it.
func (w *Window) itemLeaving(it *Item) {
	w.removeGrabber(it, true, true, true)
	delete(w.hoverItems, it)
	if w.cursorItem == it {
		w.setCursorOwner(nil, nil)
	}
	if w.activeFocusItem == it {
		w.activeFocusItem = nil
		if w.OnActiveFocusItemChanged != nil {
			w.OnActiveFocusItemChanged(nil)
		}
	}
	if w.lastUngrabbed == it {
		w.lastUngrabbed = nil
	}
}

// Update advances an attached TestRunner, processes queued synthetic input
// and re-resolves the cursor at the last known mouse position. Call it once
// per frame before Sync.
func (w *Window) Update() {
	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	w.ProcessInjected()
	if w.hasMousePos && len(w.eventsInDelivery) == 0 {
		w.updateCursor(w.lastMousePos)
	}
}
