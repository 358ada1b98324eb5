package arbor

// ContentRole describes what kind of control an item represents, for the
// purposes of tab focus.
type ContentRole uint8

const (
	RoleNone ContentRole = iota
	RoleButton
	RoleCheckBox
	RoleEditableText
	RoleStaticText
	RoleTable
	RoleList
	RoleComboBox
	RoleSpinBox
	RoleSlider
)

// ContentDescriptor tells the tab focus policy what an item holds.
// Editable and ReadOnly are checked in that order when set; otherwise the
// role decides.
type ContentDescriptor struct {
	Role     ContentRole
	Editable Tristate
	ReadOnly Tristate
	// HasText is true for items that expose editable or selectable text.
	HasText bool
}

// TabFocusPolicy selects which items can receive focus through Tab.
type TabFocusPolicy uint8

const (
	// TabFocusAll lets every item with ActiveFocusOnTab take tab focus.
	TabFocusAll TabFocusPolicy = iota
	// TabFocusText restricts tab focus to text entry and list-like items.
	TabFocusText
	// TabFocusNone disables tab focus for everything but the content item.
	TabFocusNone
)

// ActiveFocusOnTab reports whether the item takes part in the tab chain.
func (it *Item) ActiveFocusOnTab() bool { return it.activeFocusOnTab }

// SetActiveFocusOnTab adds the item to or removes it from the tab chain.
// Removing the window's current active focus item is rejected; move focus
// elsewhere first.
func (it *Item) SetActiveFocusOnTab(on bool) {
	if it.activeFocusOnTab == on {
		return
	}
	if w := it.window; w != nil && !on && it == w.activeFocusItem && it != w.contentItem {
		warn("SetActiveFocusOnTab", it, ErrFlagTransition, "reason", "item has active focus")
		return
	}
	it.activeFocusOnTab = on
}

// IsTabFence reports whether tab traversal is fenced at this item.
func (it *Item) IsTabFence() bool { return it.tabFence }

// SetTabFence makes the item a tab fence: the tab chain never enters it from
// outside and never leaves it from inside. A fence with nothing inside that
// can take tab focus is walked like any other item, so it can be a stop
// itself. Like FlagFocusScope it cannot be turned on once the item has
// children and a window, and cannot be cleared.
func (it *Item) SetTabFence(on bool) {
	if it.tabFence == on {
		return
	}
	if on && len(it.children) > 0 && it.window != nil {
		warn("SetTabFence", it, ErrFlagTransition, "reason", "item has children and a window")
		return
	}
	if !on {
		warn("SetTabFence", it, ErrFlagTransition, "reason", "cannot be unset")
		return
	}
	it.tabFence = true
}

// canAcceptTabFocus applies the window's tab focus policy to the item.
func (it *Item) canAcceptTabFocus() bool {
	w := it.window
	if w == nil {
		return false
	}
	if it == w.contentItem {
		return true
	}
	switch w.tabFocus {
	case TabFocusNone:
		return false
	case TabFocusAll:
		return true
	}
	c := it.Content
	if c == nil {
		return false
	}
	if c.Editable != Unset {
		return c.Editable == True
	}
	if c.ReadOnly != Unset {
		return c.ReadOnly == False && c.HasText
	}
	switch c.Role {
	case RoleEditableText, RoleTable, RoleList:
		return true
	case RoleComboBox, RoleSpinBox:
		return c.Editable == True
	}
	return false
}

// NextItemInFocusChain returns the item that Tab (forward) or Backtab would
// move focus to from this item. It returns the item itself when nothing
// else can take focus.
func (it *Item) NextItemInFocusChain(forward bool) *Item {
	return nextPrevItemInTabFocusChain(it, forward, true)
}

// fenced reports whether the tab walk treats it as a fence. Only fences
// holding a possible tab stop count.
func (it *Item) fenced() bool {
	return it.tabFence && hasTabStop(it)
}

func hasTabStop(it *Item) bool {
	for _, c := range it.children {
		if c.activeFocusOnTab && c.effectiveEnabled && c.effectiveVisible {
			return true
		}
		if hasTabStop(c) {
			return true
		}
	}
	return false
}

// nextTabChildItem returns the first child at or after start that is not a
// tab fence.
func nextTabChildItem(it *Item, start int) *Item {
	if it == nil || start < 0 || start >= len(it.children) {
		return nil
	}
	for _, c := range it.children[start:] {
		if !c.fenced() {
			return c
		}
	}
	return nil
}

// prevTabChildItem returns the last child at or before start that is not a
// tab fence. start == -1 means the last child.
func prevTabChildItem(it *Item, start int) *Item {
	if it == nil {
		return nil
	}
	if start == -1 {
		start = len(it.children) - 1
	}
	if start < 0 || start >= len(it.children) {
		return nil
	}
	for i := start; i >= 0; i-- {
		if c := it.children[i]; !c.fenced() {
			return c
		}
	}
	return nil
}

func indexOfChild(it, child *Item) int {
	for i, c := range it.children {
		if c == child {
			return i
		}
	}
	return -1
}

// nextPrevItemInTabFocusChain walks the tree depth first from item. Forward
// visits a parent before its children; backward visits the children first.
// When wrap is false the walk returns nil instead of wrapping around at the
// top of the tree.
//
// The walk always terminates: it stops when it comes back to the start item
// along the first path it took, or when it revisits an item it already
// accepted as a candidate position.
func nextPrevItemInTabFocusChain(item *Item, forward, wrap bool) *Item {
	var contentItem *Item
	all := false
	if item.window != nil {
		contentItem = item.window.contentItem
		all = item.window.tabFocus == TabFocusAll
	}

	var from *Item
	isFence := item.fenced()
	if forward {
		if !isFence {
			from = item.parent
		}
	} else {
		if len(item.children) > 0 {
			from = item.children[0]
		} else if !isFence {
			from = item.parent
		}
	}

	startItem := item
	originalStartItem := startItem
	// An invisible start item is never found again; start from its nearest
	// visible ancestor instead.
	for startItem != nil && !startItem.effectiveVisible {
		startItem = startItem.parent
	}
	if startItem == nil {
		return item
	}

	firstFromItem := from
	current := item
	seen := make(map[*Item]struct{})

	for {
		skip := false
		last := current

		hasChildren := len(current.children) > 0 && current.effectiveEnabled && current.effectiveVisible
		var firstChild, lastChild *Item
		if hasChildren {
			firstChild = nextTabChildItem(current, 0)
			if firstChild == nil {
				hasChildren = false
			} else {
				lastChild = prevTabChildItem(current, -1)
			}
		}
		isFence = current.fenced()
		if isFence && !hasChildren {
			return current
		}

		switch {
		case hasChildren && from == current.parent:
			// Coming from the parent: enter the children.
			if forward {
				current = firstChild
			} else {
				current = lastChild
				skip = len(current.children) > 0
			}
		case hasChildren && forward && from != lastChild:
			current = nextTabChildItem(current, indexOfChild(current, from)+1)
		case hasChildren && !forward && from != firstChild:
			current = prevTabChildItem(current, indexOfChild(current, from)-1)
			skip = current != nil && len(current.children) > 0
		case !isFence && current.parent != nil:
			// Back to the parent. Forward, the parent was already visited on
			// the way down.
			parent := current.parent
			if forward {
				skip = true
			} else if firstSibling := nextTabChildItem(parent, 0); firstSibling != nil {
				if last != firstSibling || (parent.IsFocusScope() && parent.activeFocusOnTab && parent.activeFocus) {
					skip = true
				}
			}
			current = parent
		case hasChildren:
			// Top of the tree: wrap around.
			if !wrap {
				return nil
			}
			if forward {
				current = firstChild
			} else {
				current = lastChild
				skip = len(current.children) > 0
			}
		}
		if current == nil {
			return startItem
		}
		from = last

		if (current == startItem || current == originalStartItem) && from == firstFromItem {
			return loopResult(item, contentItem, startItem)
		}
		if !skip {
			if _, dup := seen[current]; dup {
				return loopResult(item, contentItem, startItem)
			}
			seen[current] = struct{}{}
		}
		if firstFromItem == nil {
			if startItem.fenced() {
				if current == startItem {
					firstFromItem = from
				}
			} else {
				startItem = current
				firstFromItem = from
			}
		}

		if skip || !current.activeFocusOnTab || !current.effectiveEnabled || !current.effectiveVisible ||
			!(all || current.canAcceptTabFocus()) {
			continue
		}
		return current
	}
}

func loopResult(item, contentItem, startItem *Item) *Item {
	if item == contentItem {
		return item
	}
	return startItem
}

// focusNextPrev moves active focus along the tab chain. It reports whether
// focus moved.
func focusNextPrev(item *Item, forward bool) bool {
	next := nextPrevItemInTabFocusChain(item, forward, true)
	if next == nil || next == item {
		return false
	}
	reason := FocusReasonTab
	if !forward {
		reason = FocusReasonBacktab
	}
	next.ForceActiveFocusWithReason(reason)
	return true
}
