package arbor

// ChangeType is a bitmask of the change kinds a ChangeListener subscribes to.
type ChangeType uint16

const (
	ChangeGeometry ChangeType = 1 << iota
	ChangeParent
	ChangeVisibility
	ChangeEnabled
	ChangeOpacity
	ChangeRotation
	ChangeChildren
	ChangeSiblingOrder
	ChangeDestroyed
	ChangeImplicitSize
	ChangeFocus

	ChangeAll ChangeType = 1<<iota - 1
)

// ChangeListener observes state changes on items it is registered with.
// Embed NopListener to implement only the callbacks of interest.
type ChangeListener interface {
	ItemGeometryChanged(it *Item, change GeometryChange, old Rect)
	ItemBaselineOffsetChanged(it *Item)
	ItemParentChanged(it, parent *Item)
	ItemVisibilityChanged(it *Item)
	ItemEnabledChanged(it *Item)
	ItemOpacityChanged(it *Item)
	ItemRotationChanged(it *Item)
	ItemChildAdded(it, child *Item)
	ItemChildRemoved(it, child *Item)
	ItemSiblingOrderChanged(it *Item)
	ItemDestroyed(it *Item)
	ItemImplicitWidthChanged(it *Item)
	ItemImplicitHeightChanged(it *Item)
	ItemFocusChanged(it *Item, reason FocusReason)
}

// NopListener implements every ChangeListener method as a no-op.
type NopListener struct{}

func (NopListener) ItemGeometryChanged(*Item, GeometryChange, Rect) {}
func (NopListener) ItemBaselineOffsetChanged(*Item)                 {}
func (NopListener) ItemParentChanged(*Item, *Item)                  {}
func (NopListener) ItemVisibilityChanged(*Item)                     {}
func (NopListener) ItemEnabledChanged(*Item)                        {}
func (NopListener) ItemOpacityChanged(*Item)                        {}
func (NopListener) ItemRotationChanged(*Item)                       {}
func (NopListener) ItemChildAdded(*Item, *Item)                     {}
func (NopListener) ItemChildRemoved(*Item, *Item)                   {}
func (NopListener) ItemSiblingOrderChanged(*Item)                   {}
func (NopListener) ItemDestroyed(*Item)                             {}
func (NopListener) ItemImplicitWidthChanged(*Item)                  {}
func (NopListener) ItemImplicitHeightChanged(*Item)                 {}
func (NopListener) ItemFocusChanged(*Item, FocusReason)             {}

type listenerEntry struct {
	l     ChangeListener
	types ChangeType
}

// AddChangeListener registers l for the given change kinds. Registering the
// same listener again widens its subscription.
func (it *Item) AddChangeListener(l ChangeListener, types ChangeType) {
	if l == nil || types == 0 {
		return
	}
	for i := range it.listeners {
		if it.listeners[i].l == l {
			it.listeners[i].types |= types
			return
		}
	}
	it.listeners = append(it.listeners, listenerEntry{l: l, types: types})
}

// RemoveChangeListener narrows l's subscription by types. The listener is
// dropped once it no longer subscribes to anything.
func (it *Item) RemoveChangeListener(l ChangeListener, types ChangeType) {
	for i := range it.listeners {
		if it.listeners[i].l != l {
			continue
		}
		it.listeners[i].types &^= types
		if it.listeners[i].types == 0 {
			copy(it.listeners[i:], it.listeners[i+1:])
			it.listeners[len(it.listeners)-1] = listenerEntry{}
			it.listeners = it.listeners[:len(it.listeners)-1]
		}
		return
	}
}

// ChangeListenerTypes returns the change kinds l is registered for, or 0.
func (it *Item) ChangeListenerTypes(l ChangeListener) ChangeType {
	for _, e := range it.listeners {
		if e.l == l {
			return e.types
		}
	}
	return 0
}

// notifyListeners calls fn for every listener subscribed to t. Listeners may
// add or remove listeners from inside fn; iteration runs over a snapshot.
func (it *Item) notifyListeners(t ChangeType, fn func(ChangeListener)) {
	if len(it.listeners) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(it.listeners))
	copy(snapshot, it.listeners)
	for _, e := range snapshot {
		if e.types&t != 0 {
			fn(e.l)
		}
	}
}
