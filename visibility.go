package arbor

// --- Visibility ---

// IsVisible reports the effective visibility: the item is visible and so are
// all of its ancestors.
func (it *Item) IsVisible() bool { return it.effectiveVisible }

// ExplicitVisible returns the value last passed to SetVisible.
func (it *Item) ExplicitVisible() bool { return it.explicitVisible }

// SetVisible shows or hides the item and its subtree. Hiding an item drops
// every pointer grab held inside the subtree.
func (it *Item) SetVisible(v bool) {
	if it.explicitVisible == v {
		return
	}
	it.explicitVisible = v
	if !v {
		it.dirty(DirtyVisible)
	}
	childVisibilityChanged := it.setEffectiveVisibleRecur(it.calcEffectiveVisible())
	if childVisibilityChanged && it.parent != nil {
		it.parent.visibleChildrenChanged()
	}
}

// calcEffectiveVisible derives the effective value from the explicit flag
// and the parent. A parentless item is as visible as it says it is.
func (it *Item) calcEffectiveVisible() bool {
	if it.parent == nil {
		return it.explicitVisible
	}
	return it.explicitVisible && it.parent.effectiveVisible
}

// setEffectiveVisibleRecur pushes a new effective visibility down the
// subtree. It reports whether the item's effective visibility changed.
func (it *Item) setEffectiveVisibleRecur(v bool) bool {
	if !it.explicitVisible {
		v = false
	}
	if v == it.effectiveVisible {
		return false
	}
	it.effectiveVisible = v
	it.dirty(DirtyVisible)
	if it.parent != nil {
		it.parent.dirty(DirtyChildrenStackingChanged)
	}
	if it.window != nil {
		it.window.removeGrabber(it, true, true, true)
	}
	childVisibilityChanged := false
	for _, c := range it.children {
		if c.setEffectiveVisibleRecur(v) {
			childVisibilityChanged = true
		}
	}
	it.itemChange(ItemVisibleHasChanged, ItemChangeData{Bool: v})
	if it.window != nil {
		it.window.notifyAccessibility(it, func(a Accessibility) { a.VisibilityChanged(it, v) })
	}
	if it.OnVisibleChanged != nil {
		it.OnVisibleChanged()
	}
	if childVisibilityChanged {
		it.visibleChildrenChanged()
	}
	return true
}

// --- Enabled ---

// IsEnabled reports the effective enabled state: the item is enabled and so
// are all of its ancestors.
func (it *Item) IsEnabled() bool { return it.effectiveEnabled }

// ExplicitEnabled returns the value last passed to SetEnabled.
func (it *Item) ExplicitEnabled() bool { return it.explicitEnabled }

// SetEnabled enables or disables the item and its subtree. A disabled item
// receives neither key nor pointer events and cannot hold active focus; its
// focus is restored when it is enabled again.
func (it *Item) SetEnabled(e bool) {
	if it.explicitEnabled == e {
		return
	}
	it.explicitEnabled = e
	scope := it.parent
	for scope != nil && !scope.IsFocusScope() {
		scope = scope.parent
	}
	it.setEffectiveEnableRecur(scope, it.calcEffectiveEnable())
}

func (it *Item) calcEffectiveEnable() bool {
	return it.explicitEnabled && (it.parent == nil || it.parent.effectiveEnabled)
}

// setEffectiveEnableRecur pushes a new effective enabled state down the
// subtree. scope is the nearest focus scope above the item, or nil.
func (it *Item) setEffectiveEnableRecur(scope *Item, e bool) {
	if e && !it.explicitEnabled {
		return
	}
	if e == it.effectiveEnabled {
		return
	}
	it.effectiveEnabled = e

	const opts = focusDontChangeFocusProperty | focusDontChangeSubFocusItem
	if w := it.window; w != nil {
		w.removeGrabber(it, true, true, true)
		if scope != nil && !e && it.activeFocus {
			w.clearFocusInScope(scope, it, FocusReasonOther, opts)
		}
	}

	childScope := scope
	if it.IsFocusScope() && scope != nil {
		childScope = it
	}
	for _, c := range it.children {
		c.setEffectiveEnableRecur(childScope, e)
	}

	if w := it.window; w != nil && scope != nil && e && it.focus {
		w.setFocusInScope(scope, it, FocusReasonOther, opts)
	}

	it.itemChange(ItemEnabledHasChanged, ItemChangeData{Bool: e})
	if it.window != nil {
		it.window.notifyAccessibility(it, func(a Accessibility) { a.EnabledChanged(it, e) })
	}
	if it.OnEnabledChanged != nil {
		it.OnEnabledChanged()
	}
}

// --- Layout mirroring ---

// EffectiveLayoutMirror reports whether the item lays out right-to-left.
func (it *Item) EffectiveLayoutMirror() bool { return it.effectiveLayoutMirror }

// SetLayoutMirror sets an explicit mirroring value for the item. Descendants
// follow it only if SetLayoutMirrorChildrenInherit(true) is also set.
func (it *Item) SetLayoutMirror(mirror bool) {
	it.isMirrorImplicit = false
	if mirror == it.effectiveLayoutMirror {
		return
	}
	it.setLayoutMirror(mirror)
	if it.inheritMirrorFromItem {
		it.resolveLayoutMirror()
	}
}

// ResetLayoutMirror drops the explicit value and goes back to the inherited
// one.
func (it *Item) ResetLayoutMirror() {
	if it.isMirrorImplicit {
		return
	}
	it.isMirrorImplicit = true
	mirror, inherit := false, it.inheritMirrorFromItem
	if it.parent != nil {
		mirror = it.parent.inheritedLayoutMirror
		inherit = inherit || it.parent.inheritMirrorFromParent
	}
	it.setLayoutMirror(inherit && mirror)
	it.resolveLayoutMirror()
}

// SetLayoutMirrorChildrenInherit makes the item's mirroring value flow down
// to its descendants.
func (it *Item) SetLayoutMirrorChildrenInherit(inherit bool) {
	if it.inheritMirrorFromItem == inherit {
		return
	}
	it.inheritMirrorFromItem = inherit
	it.resolveLayoutMirror()
}

// LayoutMirrorChildrenInherit reports the value set by
// SetLayoutMirrorChildrenInherit.
func (it *Item) LayoutMirrorChildrenInherit() bool { return it.inheritMirrorFromItem }

func (it *Item) resolveLayoutMirror() {
	if it.parent != nil {
		it.setImplicitLayoutMirror(it.parent.inheritedLayoutMirror, it.parent.inheritMirrorFromParent)
		return
	}
	it.setImplicitLayoutMirror(false, it.inheritMirrorFromItem)
}

func (it *Item) setImplicitLayoutMirror(mirror, inherit bool) {
	inherit = inherit || it.inheritMirrorFromItem
	if !it.isMirrorImplicit && it.inheritMirrorFromItem {
		mirror = it.effectiveLayoutMirror
	}
	if mirror == it.inheritedLayoutMirror && inherit == it.inheritMirrorFromParent {
		return
	}
	it.inheritMirrorFromParent = inherit
	it.inheritedLayoutMirror = inherit && mirror
	if it.isMirrorImplicit {
		it.setLayoutMirror(inherit && it.inheritedLayoutMirror)
	}
	for _, c := range it.children {
		c.setImplicitLayoutMirror(it.inheritedLayoutMirror, it.inheritMirrorFromParent)
	}
}

func (it *Item) setLayoutMirror(mirror bool) {
	if mirror == it.effectiveLayoutMirror {
		return
	}
	it.effectiveLayoutMirror = mirror
	if a := it.Anchors(); a != nil {
		a.LayoutMirrorChanged(mirror)
	}
	if it.OnLayoutMirrorChanged != nil {
		it.OnLayoutMirrorChanged(mirror)
	}
}
