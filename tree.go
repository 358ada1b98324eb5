package arbor

import (
	"cmp"
	"slices"
)

// --- Tree manipulation ---

// Parent returns the parent item, or nil.
func (it *Item) Parent() *Item { return it.parent }

// Children returns the child list in insertion order. The returned slice
// MUST NOT be mutated by the caller.
func (it *Item) Children() []*Item { return it.children }

// NumChildren returns the number of children.
func (it *Item) NumChildren() int { return len(it.children) }

// ChildAt returns the child at index, or nil and a diagnostic when index is
// out of range.
func (it *Item) ChildAt(index int) *Item {
	if index < 0 || index >= len(it.children) {
		warn("ChildAt", it, ErrIndexOutOfRange, "index", index, "len", len(it.children))
		return nil
	}
	return it.children[index]
}

// IsAncestorOf reports whether it is a strict ancestor of other.
func (it *Item) IsAncestorOf(other *Item) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == it {
			return true
		}
	}
	return false
}

// FindChild returns the first descendant with the given name in depth-first
// order, or nil.
func (it *Item) FindChild(name string) *Item {
	for _, c := range it.children {
		if c.Name == name {
			return c
		}
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// AddChild makes child the last child of it. Shorthand for
// child.SetParent(it).
func (it *Item) AddChild(child *Item) {
	if child == nil {
		return
	}
	child.SetParent(it)
}

// SetParent moves the item under parent, appending it to the end of parent's
// child list. A nil parent detaches the item. Moving an item under itself or
// one of its descendants is rejected with ErrCycle and changes nothing.
//
// Focus held inside the moved subtree is taken out of the old focus scope.
// It becomes the new scope's focus unless that scope already has one, in
// which case the moved item loses focus.
func (it *Item) SetParent(parent *Item) {
	if parent == it.parent {
		return
	}
	if it.destroyed || (parent != nil && parent.destroyed) {
		warn("SetParent", it, ErrDestroyed)
		return
	}
	if parent != nil && isAncestorOrSelf(it, parent) {
		warn("SetParent", it, ErrCycle, "parent", parent.String())
		return
	}
	var parentWindow *Window
	if parent != nil {
		parentWindow = parent.window
	}
	if it.window != nil && parentWindow != nil && it.window != parentWindow {
		refs := it.windowRefCount
		if it.parent != nil && it.parent.window != nil {
			refs--
		}
		if refs > 0 {
			warn("SetParent", it, ErrWindowConflict, "parent", parent.String())
			return
		}
	}

	oldParent := it.parent
	var scopeFocused *Item

	if oldParent != nil {
		wasVisible := it.IsVisible()
		if it.focus {
			scopeFocused = it
		} else if !it.IsFocusScope() && it.subFocusItem != nil {
			scopeFocused = it.subFocusItem
		}
		if scopeFocused != nil {
			scope := enclosingScopeOrTop(oldParent)
			if it.window != nil {
				it.window.clearFocusInScope(scope, scopeFocused, FocusReasonOther, focusDontChangeFocusProperty)
				if scopeFocused != it {
					scopeFocused.updateSubFocusItem(it, true)
				}
			} else {
				scopeFocused.updateSubFocusItem(scope, false)
			}
		}
		oldParent.removeChild(it)
		if wasVisible {
			oldParent.visibleChildrenChanged()
		}
	} else if it.window != nil {
		delete(it.window.parentless, it)
	}

	if it.window == parentWindow {
		it.parent = parent
	} else {
		if it.window != nil {
			it.derefWindow()
		}
		it.parent = parent
		if parentWindow != nil {
			it.refWindow(parentWindow)
		}
	}

	it.dirty(DirtyParentChanged)

	if parent != nil {
		parent.addChild(it)
	} else if it.window != nil {
		it.window.parentless[it] = struct{}{}
	}

	it.setEffectiveVisibleRecur(it.calcEffectiveVisible())
	it.setEffectiveEnableRecur(nil, it.calcEffectiveEnable())

	if parent != nil {
		if scopeFocused == nil {
			if it.focus {
				scopeFocused = it
			} else if !it.IsFocusScope() && it.subFocusItem != nil {
				scopeFocused = it.subFocusItem
			}
		}
		if scopeFocused != nil {
			scope := enclosingScopeOrTop(parent)
			if scope.subFocusItem != nil || (!scope.IsFocusScope() && scope.focus) {
				// The new scope already has a focused item; ours yields.
				if scopeFocused != it {
					scopeFocused.updateSubFocusItem(it, false)
				}
				scopeFocused.focus = false
				scopeFocused.emitFocusChanged()
			} else if it.window != nil {
				it.window.setFocusInScope(scope, scopeFocused, FocusReasonOther, focusDontChangeFocusProperty)
			} else {
				scopeFocused.updateSubFocusItem(scope, true)
			}
		}
		it.resolveLayoutMirror()
	}

	it.itemChange(ItemParentHasChanged, ItemChangeData{Item: parent})
	if it.OnParentChanged != nil {
		it.OnParentChanged(parent)
	}
	if parent != nil && it.IsVisible() {
		parent.visibleChildrenChanged()
	}
	if globalDebug {
		debugCheckTreeDepth(it)
		if parent != nil {
			debugCheckChildCount(parent)
		}
	}
}

// enclosingScopeOrTop walks up from start to the first focus scope. If there
// is none, the topmost ancestor is returned.
func enclosingScopeOrTop(start *Item) *Item {
	scope := start
	for !scope.IsFocusScope() && scope.parent != nil {
		scope = scope.parent
	}
	return scope
}

// isAncestorOrSelf reports whether candidate is node or one of its ancestors.
func isAncestorOrSelf(candidate, node *Item) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (it *Item) addChild(child *Item) {
	it.children = append(it.children, child)
	if child.subtreeCursorEnabled {
		it.setHasCursorInChild(true)
	}
	if child.subtreeHoverEnabled {
		it.setHasHoverInChild(true)
	}
	it.paintOrder = nil
	it.dirty(DirtyChildrenChanged)
	it.itemChange(ItemChildAddedChange, ItemChangeData{Item: child})
}

// removeChild removes child from it.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (it *Item) removeChild(child *Item) {
	for i, c := range it.children {
		if c == child {
			copy(it.children[i:], it.children[i+1:])
			it.children[len(it.children)-1] = nil
			it.children = it.children[:len(it.children)-1]
			break
		}
	}
	if child.subtreeCursorEnabled {
		it.setHasCursorInChild(false)
	}
	if child.subtreeHoverEnabled {
		it.setHasHoverInChild(false)
	}
	it.paintOrder = nil
	it.dirty(DirtyChildrenChanged)
	it.itemChange(ItemChildRemovedChange, ItemChangeData{Item: child})
}

func (it *Item) visibleChildrenChanged() {
	if it.destroyed {
		return
	}
	if it.OnVisibleChildrenChanged != nil {
		it.OnVisibleChildrenChanged()
	}
}

// VisibleChildren returns the children that are currently effectively
// visible, in insertion order.
func (it *Item) VisibleChildren() []*Item {
	var out []*Item
	for _, c := range it.children {
		if c.effectiveVisible {
			out = append(out, c)
		}
	}
	return out
}

// --- Stacking ---

// PaintOrderChildren returns the children in paint order: insertion order,
// stable-sorted by z when any child has a nonzero z. The result is cached
// until a child's z or the child list changes. The returned slice MUST NOT be
// mutated by the caller.
func (it *Item) PaintOrderChildren() []*Item {
	if it.paintOrder != nil {
		return it.paintOrder
	}
	sorted := false
	for _, c := range it.children {
		if c.z != 0 {
			sorted = true
			break
		}
	}
	if !sorted {
		it.paintOrder = it.children
		if it.paintOrder == nil {
			it.paintOrder = []*Item{}
		}
		return it.paintOrder
	}
	order := slices.Clone(it.children)
	slices.SortStableFunc(order, func(a, b *Item) int { return cmp.Compare(a.z, b.z) })
	it.paintOrder = order
	return order
}

// StackBefore moves the item directly in front of sibling in the child list.
// Both items must share a parent; otherwise the call is rejected with
// ErrNotSibling.
func (it *Item) StackBefore(sibling *Item) {
	p, myIndex, sibIndex, ok := it.stackIndices("StackBefore", sibling)
	if !ok || myIndex == sibIndex-1 {
		return
	}
	to := sibIndex
	if myIndex < sibIndex {
		to = sibIndex - 1
	}
	p.moveChild(myIndex, to)
	p.stackingChanged(min(myIndex, sibIndex))
}

// StackAfter moves the item directly behind sibling in the child list.
func (it *Item) StackAfter(sibling *Item) {
	p, myIndex, sibIndex, ok := it.stackIndices("StackAfter", sibling)
	if !ok || myIndex == sibIndex+1 {
		return
	}
	to := sibIndex
	if myIndex > sibIndex {
		to = sibIndex + 1
	}
	p.moveChild(myIndex, to)
	p.stackingChanged(min(myIndex, sibIndex))
}

func (it *Item) stackIndices(op string, sibling *Item) (p *Item, myIndex, sibIndex int, ok bool) {
	if sibling == nil || sibling == it || it.parent == nil || it.parent != sibling.parent {
		warn(op, it, ErrNotSibling, "sibling", sibling.String())
		return nil, 0, 0, false
	}
	p = it.parent
	myIndex = slices.Index(p.children, it)
	sibIndex = slices.Index(p.children, sibling)
	return p, myIndex, sibIndex, true
}

// moveChild moves the child at from to index to, shifting the entries in
// between.
func (it *Item) moveChild(from, to int) {
	child := it.children[from]
	if from < to {
		copy(it.children[from:], it.children[from+1:to+1])
	} else {
		copy(it.children[to+1:], it.children[to:from])
	}
	it.children[to] = child
}

func (it *Item) stackingChanged(from int) {
	it.paintOrder = nil
	it.dirty(DirtyChildrenStackingChanged)
	for _, c := range it.children[from:] {
		c.notifyListeners(ChangeSiblingOrder, func(l ChangeListener) { l.ItemSiblingOrderChanged(c) })
	}
}

// --- Window association ---

// refWindow associates the item and its subtree with w. An item can be
// referenced from more than one path (tree parent, effect source); only the
// first reference sets the window.
func (it *Item) refWindow(w *Window) {
	it.windowRefCount++
	if it.windowRefCount > 1 {
		if w != it.window {
			warn("refWindow", it, ErrWindowConflict)
		}
		return
	}
	it.window = w
	if it.parent == nil {
		w.parentless[it] = struct{}{}
	}
	for _, c := range it.children {
		c.refWindow(w)
	}
	it.dirty(DirtyWindow)
	if it.extra != nil {
		for _, es := range it.extra.effectSources {
			es.hostWindowChanged(w)
		}
		if it.extra.layer != nil {
			it.extra.layer.update()
		}
	}
	it.itemChange(ItemWindowChange, ItemChangeData{Window: w})
}

// derefWindow drops one window reference. The last one releases renderer
// resources and detaches the subtree from the window.
func (it *Item) derefWindow() {
	if it.window == nil {
		return
	}
	it.windowRefCount--
	if it.windowRefCount > 0 {
		return
	}
	w := it.window
	if w.renderer != nil {
		w.renderer.ReleaseResources(it)
	}
	if it.extra != nil && it.extra.layer != nil {
		it.extra.layer.release()
	}
	w.removeFromDirtyList(it)
	w.itemLeaving(it)
	if it.parent == nil {
		delete(w.parentless, it)
	}
	it.window = nil
	for _, c := range it.children {
		c.derefWindow()
	}
	it.dirty(DirtyWindow)
	if it.extra != nil {
		for _, es := range it.extra.effectSources {
			es.hostWindowChanged(nil)
		}
	}
	it.itemChange(ItemWindowChange, ItemChangeData{})
}

// --- Cursor and hover aggregation ---

// setHasCursorInChild propagates "some item in this subtree wants a cursor"
// up the ancestor chain. Turning it off stops at the first item that still
// needs it.
func (it *Item) setHasCursorInChild(hc bool) {
	if !hc && it.subtreeCursorEnabled {
		if it.hasCursor || it.hasCursorHandler {
			return
		}
		for _, c := range it.children {
			if c.subtreeCursorEnabled || c.hasCursor {
				return
			}
		}
	}
	it.subtreeCursorEnabled = hc
	if it.parent != nil {
		it.parent.setHasCursorInChild(hc)
	}
}

// setHasHoverInChild is the hover counterpart of setHasCursorInChild.
func (it *Item) setHasHoverInChild(hh bool) {
	if !hh && it.subtreeHoverEnabled {
		if it.hoverEnabled || it.hasEnabledHoverHandlers() {
			return
		}
		for _, c := range it.children {
			if c.subtreeHoverEnabled || c.hoverEnabled || c.hasEnabledHoverHandlers() {
				return
			}
		}
	}
	it.subtreeHoverEnabled = hh
	if it.parent != nil {
		it.parent.setHasHoverInChild(hh)
	}
}

// --- Destruction ---

// Destroy detaches the item from the tree and from its window, orphans its
// children, notifies listeners and releases every attachment. A destroyed
// item must not be reused.
func (it *Item) Destroy() {
	if it.destroyed {
		return
	}
	if it.windowRefCount > 1 {
		it.windowRefCount = 1
	}
	if it.parent != nil {
		it.SetParent(nil)
	} else if it.window != nil {
		it.derefWindow()
	}
	for _, c := range slices.Clone(it.children) {
		c.SetParent(nil)
	}
	it.children = nil
	it.paintOrder = nil
	it.destroyed = true

	it.notifyListeners(ChangeDestroyed, func(l ChangeListener) { l.ItemDestroyed(it) })
	it.listeners = nil

	for _, t := range it.transforms {
		t.base().detach(it)
	}
	it.transforms = nil
	it.subFocusItem = nil
	it.releaseExtra()

	it.OnKeyPress = nil
	it.OnKeyRelease = nil
	it.OnPointer = nil
	it.OnHover = nil
	it.OnUngrab = nil
	it.FilterChildPointer = nil
	it.OnFocusIn = nil
	it.OnFocusOut = nil
	it.OnItemChange = nil
	it.OnFocusChanged = nil
	it.OnActiveFocusChanged = nil
	it.OnVisibleChanged = nil
	it.OnEnabledChanged = nil
	it.OnParentChanged = nil
	it.OnVisibleChildrenChanged = nil
	it.OnLayoutMirrorChanged = nil
	it.UserData = nil
}
