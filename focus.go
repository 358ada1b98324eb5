package arbor

// focusOption modifies setFocusInScope and clearFocusInScope.
type focusOption uint8

const (
	// focusDontChangeFocusProperty leaves the item's focus flag alone; only
	// the scope bookkeeping and the active focus chain are updated.
	focusDontChangeFocusProperty focusOption = 1 << iota
	// focusDontChangeSubFocusItem leaves the scope's remembered focus item
	// alone.
	focusDontChangeSubFocusItem
)

// --- Item focus API ---

// HasFocus reports whether the item has focus within its enclosing focus
// scope.
func (it *Item) HasFocus() bool { return it.focus }

// HasActiveFocus reports whether the item is the window's active focus item
// or lies on the path from it up to the content item.
func (it *Item) HasActiveFocus() bool { return it.activeFocus }

// ScopedFocusItem returns the item remembered as focused inside this focus
// scope, or nil when the item is not a scope.
func (it *Item) ScopedFocusItem() *Item {
	if !it.IsFocusScope() {
		return nil
	}
	return it.subFocusItem
}

// SetFocus requests or drops focus within the item's enclosing focus scope.
// Only one item per scope has focus. If the scope itself is on the active
// focus chain, the item also becomes the window's active focus item.
func (it *Item) SetFocus(focus bool) { it.SetFocusWithReason(focus, FocusReasonOther) }

// SetFocusWithReason is SetFocus with an explicit reason passed on to focus
// events.
func (it *Item) SetFocusWithReason(focus bool, reason FocusReason) {
	if it.window != nil || it.parent != nil {
		scope := it.parent
		for scope != nil && !scope.IsFocusScope() && scope.parent != nil {
			scope = scope.parent
		}
		if it.focus == focus && (!focus || scope == nil || scope.subFocusItem == it) {
			return
		}
		if it.window != nil {
			if reason == FocusReasonPopup {
				return
			}
			if focus {
				it.window.setFocusInScope(scope, it, reason, 0)
			} else {
				it.window.clearFocusInScope(scope, it, reason, 0)
			}
			return
		}

		var changed []*Item
		if old := scope.subFocusItem; old != nil {
			old.updateSubFocusItem(scope, false)
			old.focus = false
			changed = append(changed, old)
		} else if !scope.IsFocusScope() && scope.focus {
			scope.focus = false
			changed = append(changed, scope)
		}
		it.updateSubFocusItem(scope, focus)
		it.focus = focus
		changed = append(changed, it)
		notifyFocusChanges(changed, reason)
		return
	}

	if it.focus == focus {
		return
	}
	var changed []*Item
	if old := it.subFocusItem; old != nil && !it.IsFocusScope() {
		old.updateSubFocusItem(it, false)
		old.focus = false
		changed = append(changed, old)
	}
	it.focus = focus
	changed = append(changed, it)
	notifyFocusChanges(changed, reason)
}

// ForceActiveFocus gives the item focus and gives focus to every enclosing
// focus scope, so that the item ends up with active focus if its window is
// active.
func (it *Item) ForceActiveFocus() { it.ForceActiveFocusWithReason(FocusReasonOther) }

// ForceActiveFocusWithReason is ForceActiveFocus with an explicit reason.
func (it *Item) ForceActiveFocusWithReason(reason FocusReason) {
	it.SetFocusWithReason(true, reason)
	var scope *Item
	for p := it.parent; p != nil; p = p.parent {
		if p.IsFocusScope() {
			p.SetFocusWithReason(true, reason)
			if scope == nil {
				scope = p
			}
		}
	}
	// Reparenting can leave focus set on both the item and its scope
	// without the active chain reaching the item.
	if scope != nil && !it.activeFocus && it.window != nil {
		it.window.setFocusInScope(scope, it, FocusReasonOther, 0)
	}
}

// updateSubFocusItem rewrites the remembered focus chain between the item
// and scope. The intermediate ancestors all point at the item while it
// gains focus, and are cleared otherwise.
func (it *Item) updateSubFocusItem(scope *Item, focus bool) {
	if scope == nil {
		return
	}
	if old := scope.subFocusItem; old != nil {
		for sfi := old.parent; sfi != nil && sfi != scope; sfi = sfi.parent {
			sfi.subFocusItem = nil
		}
	}
	if !focus {
		scope.subFocusItem = nil
		return
	}
	scope.subFocusItem = it
	for sfi := it.parent; sfi != nil && sfi != scope; sfi = sfi.parent {
		sfi.subFocusItem = it
	}
}

// emitFocusChanged reports a focus flag change that happened outside
// notifyFocusChanges.
func (it *Item) emitFocusChanged() {
	if it.notifiedFocus == it.focus {
		return
	}
	it.notifiedFocus = it.focus
	it.notifyListeners(ChangeFocus, func(l ChangeListener) { l.ItemFocusChanged(it, FocusReasonOther) })
	if it.OnFocusChanged != nil {
		it.OnFocusChanged(it.focus)
	}
}

// notifyFocusChanges emits focus and active focus notifications for items
// whose flags differ from what was last reported. Handlers may change focus
// again; items destroyed along the way are skipped.
func notifyFocusChanges(items []*Item, reason FocusReason) {
	for _, it := range items {
		if it.destroyed {
			continue
		}
		if it.notifiedFocus != it.focus {
			it.notifiedFocus = it.focus
			it.notifyListeners(ChangeFocus, func(l ChangeListener) { l.ItemFocusChanged(it, reason) })
			if it.OnFocusChanged != nil {
				it.OnFocusChanged(it.focus)
			}
		}
		if !it.destroyed && it.notifiedActiveFocus != it.activeFocus {
			af := it.activeFocus
			it.notifiedActiveFocus = af
			it.itemChange(ItemActiveFocusHasChanged, ItemChangeData{Bool: af})
			it.notifyListeners(ChangeFocus, func(l ChangeListener) { l.ItemFocusChanged(it, reason) })
			if it.OnActiveFocusChanged != nil {
				it.OnActiveFocusChanged(af)
			}
		}
	}
}

// --- Window focus bookkeeping ---

// ActiveFocusItem returns the item receiving key events, or nil.
func (w *Window) ActiveFocusItem() *Item { return w.activeFocusItem }

// LastFocusReason returns the reason of the most recent focus change.
func (w *Window) LastFocusReason() FocusReason { return w.lastFocusReason }

// IsActive reports whether the window has platform focus.
func (w *Window) IsActive() bool { return w.active }

// SetActive tells the window whether it has platform focus. Activating the
// window restores the active focus chain remembered by the focus scopes;
// deactivating it clears the chain and keeps the scopes' memory.
func (w *Window) SetActive(active bool) {
	if w.active == active {
		return
	}
	w.active = active
	if active {
		w.setFocusInScope(nil, w.contentItem, FocusReasonActiveWindow, 0)
	} else {
		w.clearFocusInScope(nil, w.contentItem, FocusReasonActiveWindow, 0)
	}
}

// setFocusInScope makes item the focused item of scope. scope is nil only
// when item is the content item.
func (w *Window) setFocusInScope(scope, item *Item, reason FocusReason, opts focusOption) {
	if scope == nil && item != w.contentItem {
		return
	}
	root := w.contentItem
	current := w.activeFocusItem
	var oldAFI, newAFI *Item
	sendFocusIn := false
	w.lastFocusReason = reason

	var changed []*Item

	if item == root || scope.activeFocus {
		oldAFI = w.activeFocusItem
		if item.effectiveEnabled {
			newAFI = item
			for newAFI.IsFocusScope() && newAFI.subFocusItem != nil && newAFI.subFocusItem.effectiveEnabled {
				newAFI = newAFI.subFocusItem
			}
		} else {
			newAFI = scope
		}
		if oldAFI != nil {
			w.activeFocusItem = nil
			for afi := oldAFI; afi != nil && afi != scope; afi = afi.parent {
				if afi.activeFocus {
					afi.activeFocus = false
					changed = append(changed, afi)
				}
			}
		}
	}

	if item != root && opts&focusDontChangeSubFocusItem == 0 {
		if old := scope.subFocusItem; old != nil {
			old.focus = false
			changed = append(changed, old)
		}
		item.updateSubFocusItem(scope, true)
	}

	if opts&focusDontChangeFocusProperty == 0 {
		if item != root || w.active {
			item.focus = true
			changed = append(changed, item)
		}
	}

	if newAFI != nil && root.focus {
		w.activeFocusItem = newAFI
		for afi := newAFI; afi != nil && afi != scope; afi = afi.parent {
			afi.activeFocus = true
			changed = append(changed, afi)
		}
		sendFocusIn = true
	}

	if oldAFI != nil {
		w.sendFocusOut(oldAFI, reason)
	}
	if sendFocusIn && w.activeFocusItem == newAFI {
		w.sendFocusIn(newAFI, reason)
	}
	if w.activeFocusItem != current && w.OnActiveFocusItemChanged != nil {
		w.OnActiveFocusItemChanged(w.activeFocusItem)
	}
	if len(changed) > 0 {
		notifyFocusChanges(changed, reason)
	}
}

// clearFocusInScope drops item's focus in scope. If scope was on the active
// focus chain, scope itself becomes the active focus item.
func (w *Window) clearFocusInScope(scope, item *Item, reason FocusReason, opts focusOption) {
	if scope == nil && item != w.contentItem {
		return
	}
	if scope != nil && scope.subFocusItem == nil {
		return
	}
	root := w.contentItem
	current := w.activeFocusItem
	var oldAFI, newAFI *Item
	w.lastFocusReason = reason

	var changed []*Item

	if item == root || scope.activeFocus {
		oldAFI = w.activeFocusItem
		newAFI = scope
		if oldAFI != nil {
			w.activeFocusItem = nil
			for afi := oldAFI; afi != nil && afi != scope; afi = afi.parent {
				if afi.activeFocus {
					afi.activeFocus = false
					changed = append(changed, afi)
				}
			}
		}
	}

	if item != root && opts&focusDontChangeSubFocusItem == 0 {
		if old := scope.subFocusItem; old != nil && opts&focusDontChangeFocusProperty == 0 {
			old.focus = false
			changed = append(changed, old)
		}
		item.updateSubFocusItem(scope, false)
	} else if opts&focusDontChangeFocusProperty == 0 {
		item.focus = false
		changed = append(changed, item)
	}

	if newAFI != nil {
		w.activeFocusItem = scope
	}

	if oldAFI != nil {
		w.sendFocusOut(oldAFI, reason)
	}
	if newAFI != nil && w.activeFocusItem == newAFI {
		w.sendFocusIn(newAFI, reason)
	}
	if w.activeFocusItem != current && w.OnActiveFocusItemChanged != nil {
		w.OnActiveFocusItemChanged(w.activeFocusItem)
	}
	if len(changed) > 0 {
		notifyFocusChanges(changed, reason)
	}
}

func (w *Window) sendFocusOut(it *Item, reason FocusReason) {
	if it.destroyed || it.OnFocusOut == nil {
		return
	}
	it.OnFocusOut(reason)
}

func (w *Window) sendFocusIn(it *Item, reason FocusReason) {
	if it.destroyed {
		return
	}
	if it.OnFocusIn != nil {
		it.OnFocusIn(reason)
	}
	w.notifyAccessibility(it, func(a Accessibility) { a.FocusGained(it) })
	w.emitInteraction(InteractionFocusIn, it, nil, MouseButtonNone, 0)
}
