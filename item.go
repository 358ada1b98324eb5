package arbor

import (
	"container/list"
	"fmt"
	"math"
)

// --- ID counter ---

// itemIDCounter is a plain counter (no atomic, arbor is single-threaded).
var itemIDCounter uint32

func nextItemID() uint32 {
	itemIDCounter++
	return itemIDCounter
}

// --- Item ---

// Item is the fundamental element of the visual tree. A single flat struct is
// used for every kind of item; behavior is attached through the callback
// fields below and through the optional extension objects (key filters,
// pointer handlers, layers, state groups, masks).
type Item struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	parent         *Item
	children       []*Item
	window         *Window
	windowRefCount int

	// Geometry
	x, y, width, height           float64
	widthValid, heightValid       bool
	implicitWidth, implicitHeight float64
	baselineOffset                float64
	z                             float64
	scale                         float64
	rotation                      float64
	origin                        TransformOrigin
	originPoint                   Vec2
	transforms                    []Transform

	// Cached scene transform (see SceneTransform)
	sceneTransform      Affine
	sceneTransformDirty bool

	// State
	explicitVisible, effectiveVisible bool
	explicitEnabled, effectiveEnabled bool
	opacity                           float64
	smooth                            bool
	antialiasing                      bool
	antialiasingValid                 bool
	implicitAntialiasing              bool
	flags                             ItemFlag

	// Focus
	focus               bool
	activeFocus         bool
	notifiedFocus       bool
	notifiedActiveFocus bool
	subFocusItem        *Item
	activeFocusOnTab    bool
	tabFence            bool

	// Layout mirroring
	effectiveLayoutMirror   bool
	inheritedLayoutMirror   bool
	isMirrorImplicit        bool
	inheritMirrorFromParent bool
	inheritMirrorFromItem   bool

	// Cursor and hover aggregation
	hasCursor            bool
	hasCursorHandler     bool
	subtreeCursorEnabled bool
	hoverEnabled         bool
	subtreeHoverEnabled  bool
	cursor               CursorShape

	// Pointer acceptance
	acceptedButtons MouseButton
	acceptTouch     bool
	keepMouseGrab   bool
	keepTouchGrab   bool

	// Dirty tracking
	dirtyAttributes DirtyType
	dirtyElem       *list.Element

	// Paint order cache; nil means invalid.
	paintOrder []*Item

	listeners []listenerEntry
	extra     *itemExtra

	// Content describes the item to the tab focus policy. nil means the item
	// exposes no content role.
	Content *ContentDescriptor

	// Accessible marks the item for accessibility notifications.
	Accessible bool

	// Metadata
	UserData any
	EntityID uint32

	// Per-item callbacks (nil by default; zero cost when unused).

	// OnKeyPress and OnKeyRelease receive key events already marked accepted.
	// Call Ignore to let the event continue to post filters and parents.
	OnKeyPress   func(e *KeyEvent)
	OnKeyRelease func(e *KeyEvent)
	// OnPointer receives mouse, wheel and touch events in local coordinates.
	// The event arrives accepted; call Ignore to decline it.
	OnPointer func(e *PointerEvent)
	// OnHover receives hover enter, move and leave events. Only called when
	// hover events are accepted (SetAcceptHoverEvents).
	OnHover func(e *PointerEvent)
	// OnUngrab is called when the item loses a pointer grab it did not give
	// up by releasing the point.
	OnUngrab func()
	// FilterChildPointer lets an ancestor intercept pointer events aimed at
	// a descendant. Returning true stops delivery to child.
	FilterChildPointer func(child *Item, e *PointerEvent) bool

	OnFocusIn                func(reason FocusReason)
	OnFocusOut               func(reason FocusReason)
	OnItemChange             func(change ItemChange, data ItemChangeData)
	OnFocusChanged           func(focus bool)
	OnActiveFocusChanged     func(activeFocus bool)
	OnVisibleChanged         func()
	OnEnabledChanged         func()
	OnParentChanged          func(parent *Item)
	OnVisibleChildrenChanged func()
	OnLayoutMirrorChanged    func(mirror bool)

	// Internal
	destroyed bool
}

// NewItem creates a detached item with default state: visible, enabled,
// opaque, unit scale and a centered transform origin.
func NewItem(name string) *Item {
	it := &Item{
		ID:                  nextItemID(),
		Name:                name,
		scale:               1,
		origin:              OriginCenter,
		explicitVisible:     true,
		effectiveVisible:    true,
		explicitEnabled:     true,
		effectiveEnabled:    true,
		opacity:             1,
		smooth:              true,
		isMirrorImplicit:    true,
		sceneTransformDirty: true,
	}
	return it
}

// String implements fmt.Stringer.
func (it *Item) String() string {
	if it == nil {
		return "Item(nil)"
	}
	if it.Name == "" {
		return fmt.Sprintf("Item(#%d)", it.ID)
	}
	return fmt.Sprintf("Item(%s#%d)", it.Name, it.ID)
}

// Window returns the window the item is attached to, or nil.
func (it *Item) Window() *Window { return it.window }

// IsDestroyed reports whether Destroy has been called.
func (it *Item) IsDestroyed() bool { return it.destroyed }

// --- Item change notifications ---

// ItemChange identifies the kind of change passed to OnItemChange.
type ItemChange uint8

const (
	ItemChildAddedChange ItemChange = iota
	ItemChildRemovedChange
	ItemWindowChange
	ItemVisibleHasChanged
	ItemParentHasChanged
	ItemOpacityHasChanged
	ItemActiveFocusHasChanged
	ItemRotationHasChanged
	ItemAntialiasingHasChanged
	ItemEnabledHasChanged
)

// ItemChangeData carries the value of an item change. Only the field matching
// the change kind is meaningful.
type ItemChangeData struct {
	Item   *Item
	Window *Window
	Bool   bool
	Real   float64
}

// itemChange calls the item's OnItemChange hook and then the listeners
// interested in the change.
func (it *Item) itemChange(change ItemChange, data ItemChangeData) {
	if it.OnItemChange != nil {
		it.OnItemChange(change, data)
	}
	switch change {
	case ItemChildAddedChange:
		it.notifyListeners(ChangeChildren, func(l ChangeListener) { l.ItemChildAdded(it, data.Item) })
	case ItemChildRemovedChange:
		it.notifyListeners(ChangeChildren, func(l ChangeListener) { l.ItemChildRemoved(it, data.Item) })
	case ItemVisibleHasChanged:
		it.notifyListeners(ChangeVisibility, func(l ChangeListener) { l.ItemVisibilityChanged(it) })
	case ItemParentHasChanged:
		it.notifyListeners(ChangeParent, func(l ChangeListener) { l.ItemParentChanged(it, data.Item) })
	case ItemOpacityHasChanged:
		it.notifyListeners(ChangeOpacity, func(l ChangeListener) { l.ItemOpacityChanged(it) })
	case ItemRotationHasChanged:
		it.notifyListeners(ChangeRotation, func(l ChangeListener) { l.ItemRotationChanged(it) })
	case ItemEnabledHasChanged:
		it.notifyListeners(ChangeEnabled, func(l ChangeListener) { l.ItemEnabledChanged(it) })
	}
}

// --- Geometry ---

// GeometryChange is a bitmask describing which part of the geometry changed.
type GeometryChange uint8

const (
	GeometryX GeometryChange = 1 << iota
	GeometryY
	GeometryWidth
	GeometryHeight
	GeometryTransform

	GeometryPosition = GeometryX | GeometryY
	GeometrySize     = GeometryWidth | GeometryHeight
)

// Geometry returns the item's rectangle in parent coordinates.
func (it *Item) Geometry() Rect { return Rect{X: it.x, Y: it.y, Width: it.width, Height: it.height} }

// X returns the x position in parent coordinates.
func (it *Item) X() float64 { return it.x }

// Y returns the y position in parent coordinates.
func (it *Item) Y() float64 { return it.y }

// Position returns (x, y).
func (it *Item) Position() Vec2 { return Vec2{it.x, it.y} }

// Width returns the width.
func (it *Item) Width() float64 { return it.width }

// Height returns the height.
func (it *Item) Height() float64 { return it.height }

// SetX moves the item horizontally. NaN is ignored.
func (it *Item) SetX(x float64) {
	if math.IsNaN(x) || it.x == x {
		return
	}
	old := it.Geometry()
	it.x = x
	it.dirty(DirtyPosition)
	it.geometryChange(GeometryX, old)
}

// SetY moves the item vertically. NaN is ignored.
func (it *Item) SetY(y float64) {
	if math.IsNaN(y) || it.y == y {
		return
	}
	old := it.Geometry()
	it.y = y
	it.dirty(DirtyPosition)
	it.geometryChange(GeometryY, old)
}

// SetPosition moves the item.
func (it *Item) SetPosition(p Vec2) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return
	}
	if it.x == p.X && it.y == p.Y {
		return
	}
	old := it.Geometry()
	var change GeometryChange
	if it.x != p.X {
		change |= GeometryX
	}
	if it.y != p.Y {
		change |= GeometryY
	}
	it.x, it.y = p.X, p.Y
	it.dirty(DirtyPosition)
	it.geometryChange(change, old)
}

// SetWidth sets an explicit width. Once set, implicit width changes no
// longer resize the item until ResetWidth is called.
func (it *Item) SetWidth(w float64) {
	if math.IsNaN(w) {
		return
	}
	it.widthValid = true
	if it.width == w {
		return
	}
	old := it.Geometry()
	it.width = w
	it.dirty(DirtySize)
	it.geometryChange(GeometryWidth, old)
}

// SetHeight sets an explicit height.
func (it *Item) SetHeight(h float64) {
	if math.IsNaN(h) {
		return
	}
	it.heightValid = true
	if it.height == h {
		return
	}
	old := it.Geometry()
	it.height = h
	it.dirty(DirtySize)
	it.geometryChange(GeometryHeight, old)
}

// SetSize sets explicit width and height.
func (it *Item) SetSize(w, h float64) {
	if math.IsNaN(w) || math.IsNaN(h) {
		return
	}
	it.widthValid = true
	it.heightValid = true
	if it.width == w && it.height == h {
		return
	}
	old := it.Geometry()
	var change GeometryChange
	if it.width != w {
		change |= GeometryWidth
	}
	if it.height != h {
		change |= GeometryHeight
	}
	it.width, it.height = w, h
	it.dirty(DirtySize)
	it.geometryChange(change, old)
}

// ResetWidth drops the explicit width and falls back to the implicit width.
func (it *Item) ResetWidth() {
	it.widthValid = false
	if it.width == it.implicitWidth {
		return
	}
	old := it.Geometry()
	it.width = it.implicitWidth
	it.dirty(DirtySize)
	it.geometryChange(GeometryWidth, old)
}

// ResetHeight drops the explicit height and falls back to the implicit height.
func (it *Item) ResetHeight() {
	it.heightValid = false
	if it.height == it.implicitHeight {
		return
	}
	old := it.Geometry()
	it.height = it.implicitHeight
	it.dirty(DirtySize)
	it.geometryChange(GeometryHeight, old)
}

// ImplicitWidth returns the natural width reported by the item's content.
func (it *Item) ImplicitWidth() float64 { return it.implicitWidth }

// ImplicitHeight returns the natural height reported by the item's content.
func (it *Item) ImplicitHeight() float64 { return it.implicitHeight }

// SetImplicitWidth sets the natural width. The item is resized unless an
// explicit width is in effect.
func (it *Item) SetImplicitWidth(w float64) {
	changed := it.implicitWidth != w
	it.implicitWidth = w
	if it.width == w || it.widthValid {
		if changed {
			it.notifyListeners(ChangeImplicitSize, func(l ChangeListener) { l.ItemImplicitWidthChanged(it) })
		}
		return
	}
	old := it.Geometry()
	it.width = w
	it.dirty(DirtySize)
	it.geometryChange(GeometryWidth, old)
	if changed {
		it.notifyListeners(ChangeImplicitSize, func(l ChangeListener) { l.ItemImplicitWidthChanged(it) })
	}
}

// SetImplicitHeight sets the natural height.
func (it *Item) SetImplicitHeight(h float64) {
	changed := it.implicitHeight != h
	it.implicitHeight = h
	if it.height == h || it.heightValid {
		if changed {
			it.notifyListeners(ChangeImplicitSize, func(l ChangeListener) { l.ItemImplicitHeightChanged(it) })
		}
		return
	}
	old := it.Geometry()
	it.height = h
	it.dirty(DirtySize)
	it.geometryChange(GeometryHeight, old)
	if changed {
		it.notifyListeners(ChangeImplicitSize, func(l ChangeListener) { l.ItemImplicitHeightChanged(it) })
	}
}

// SetImplicitSize sets both natural dimensions.
func (it *Item) SetImplicitSize(w, h float64) {
	it.SetImplicitWidth(w)
	it.SetImplicitHeight(h)
}

// BaselineOffset returns the text baseline position relative to the top.
func (it *Item) BaselineOffset() float64 { return it.baselineOffset }

// SetBaselineOffset sets the baseline position.
func (it *Item) SetBaselineOffset(off float64) {
	if it.baselineOffset == off {
		return
	}
	it.baselineOffset = off
	it.notifyListeners(ChangeGeometry, func(l ChangeListener) {
		l.ItemBaselineOffsetChanged(it)
	})
}

func (it *Item) geometryChange(change GeometryChange, old Rect) {
	it.notifyListeners(ChangeGeometry, func(l ChangeListener) {
		l.ItemGeometryChanged(it, change, old)
	})
	if it.window != nil {
		it.window.notifyAccessibility(it, func(a Accessibility) { a.GeometryChanged(it) })
	}
}

// Contains reports whether p, in local coordinates, is inside the item.
// A containment mask replaces the default bounds test.
func (it *Item) Contains(p Vec2) bool {
	if it.extra != nil && it.extra.mask != nil {
		return maskContains(it.extra.mask, p)
	}
	return p.X >= 0 && p.Y >= 0 && p.X < it.width && p.Y < it.height
}

// --- Z and paint order ---

// Z returns the stacking key among siblings.
func (it *Item) Z() float64 { return it.z }

// SetZ sets the stacking key. Higher values paint later and receive pointer
// events first.
func (it *Item) SetZ(z float64) {
	if it.z == z {
		return
	}
	it.z = z
	it.dirty(DirtyZValue)
	if it.parent != nil {
		it.parent.paintOrder = nil
		it.parent.dirty(DirtyChildrenStackingChanged)
	}
	if it.extra != nil && it.extra.layer != nil {
		it.extra.layer.update()
	}
}

// --- Opacity and rendering hints ---

// Opacity returns the opacity in [0, 1].
func (it *Item) Opacity() float64 { return it.opacity }

// SetOpacity sets the opacity, clamped to [0, 1].
func (it *Item) SetOpacity(o float64) {
	if math.IsNaN(o) {
		return
	}
	o = clamp01(o)
	if it.opacity == o {
		return
	}
	it.opacity = o
	it.dirty(DirtyOpacityValue)
	it.itemChange(ItemOpacityHasChanged, ItemChangeData{Real: o})
}

// Smooth reports whether smooth filtering is requested.
func (it *Item) Smooth() bool { return it.smooth }

// SetSmooth toggles smooth filtering.
func (it *Item) SetSmooth(on bool) {
	if it.smooth == on {
		return
	}
	it.smooth = on
	it.dirty(DirtySmooth)
}

// Antialiasing returns the explicit antialiasing value if one is set, the
// implicit one otherwise.
func (it *Item) Antialiasing() bool {
	if it.antialiasingValid {
		return it.antialiasing
	}
	return it.implicitAntialiasing
}

// SetAntialiasing sets an explicit antialiasing value.
func (it *Item) SetAntialiasing(on bool) {
	changed := it.Antialiasing() != on
	it.antialiasingValid = true
	it.antialiasing = on
	if !changed {
		return
	}
	it.dirty(DirtyAntialiasing)
	it.itemChange(ItemAntialiasingHasChanged, ItemChangeData{Bool: on})
}

// ResetAntialiasing drops the explicit value.
func (it *Item) ResetAntialiasing() {
	if !it.antialiasingValid {
		return
	}
	prev := it.antialiasing
	it.antialiasingValid = false
	if prev != it.implicitAntialiasing {
		it.dirty(DirtyAntialiasing)
		it.itemChange(ItemAntialiasingHasChanged, ItemChangeData{Bool: it.implicitAntialiasing})
	}
}

// SetImplicitAntialiasing sets the value used when none is set explicitly.
func (it *Item) SetImplicitAntialiasing(on bool) {
	prev := it.Antialiasing()
	it.implicitAntialiasing = on
	if it.Antialiasing() != prev {
		it.dirty(DirtyAntialiasing)
		it.itemChange(ItemAntialiasingHasChanged, ItemChangeData{Bool: on})
	}
}

// --- Flags ---

// Flags returns the capability bitmask.
func (it *Item) Flags() ItemFlag { return it.flags }

// HasFlag reports whether f is set.
func (it *Item) HasFlag(f ItemFlag) bool { return it.flags&f != 0 }

// SetFlag turns a capability on or off. FlagFocusScope cannot be set once
// the item has children and a window, and cannot be cleared at all.
func (it *Item) SetFlag(f ItemFlag, on bool) {
	flags := it.flags
	if on {
		flags |= f
	} else {
		flags &^= f
	}
	it.setFlags(flags)
}

func (it *Item) setFlags(flags ItemFlag) {
	if flags&FlagFocusScope != it.flags&FlagFocusScope {
		if flags&FlagFocusScope != 0 && len(it.children) > 0 && it.window != nil {
			warn("SetFlag", it, ErrFlagTransition, "flag", "FocusScope", "reason", "item has children and a window")
			flags &^= FlagFocusScope
		} else if it.flags&FlagFocusScope != 0 {
			warn("SetFlag", it, ErrFlagTransition, "flag", "FocusScope", "reason", "cannot be unset")
			flags |= FlagFocusScope
		}
	}
	if flags&FlagClipsChildren != it.flags&FlagClipsChildren {
		it.dirty(DirtyClip)
	}
	it.flags = flags
}

// Clip reports whether children are clipped to the item's bounds.
func (it *Item) Clip() bool { return it.flags&FlagClipsChildren != 0 }

// SetClip toggles clipping of children.
func (it *Item) SetClip(on bool) { it.SetFlag(FlagClipsChildren, on) }

// IsFocusScope reports whether the item is a focus scope.
func (it *Item) IsFocusScope() bool { return it.flags&FlagFocusScope != 0 }

// --- Pointer acceptance ---

// AcceptedMouseButtons returns the buttons the item's OnPointer handles.
func (it *Item) AcceptedMouseButtons() MouseButton { return it.acceptedButtons }

// SetAcceptedMouseButtons selects which mouse buttons reach OnPointer.
// The default is none.
func (it *Item) SetAcceptedMouseButtons(b MouseButton) { it.acceptedButtons = b }

// AcceptTouchEvents reports whether touch events reach OnPointer.
func (it *Item) AcceptTouchEvents() bool { return it.acceptTouch }

// SetAcceptTouchEvents toggles touch delivery.
func (it *Item) SetAcceptTouchEvents(on bool) { it.acceptTouch = on }

// KeepMouseGrab reports whether ancestors may not steal the mouse grab.
func (it *Item) KeepMouseGrab() bool { return it.keepMouseGrab }

// SetKeepMouseGrab keeps filtering ancestors away from mouse events while
// the item holds the mouse grab, so they cannot steal it.
func (it *Item) SetKeepMouseGrab(on bool) { it.keepMouseGrab = on }

// KeepTouchGrab reports whether ancestors may not steal touch grabs.
func (it *Item) KeepTouchGrab() bool { return it.keepTouchGrab }

// SetKeepTouchGrab prevents filtering ancestors from stealing touch grabs.
func (it *Item) SetKeepTouchGrab(on bool) { it.keepTouchGrab = on }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
