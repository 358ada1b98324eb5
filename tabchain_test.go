package arbor

import "testing"

func tabItems(parent *Item, ns ...string) []*Item {
	items := newChildren(parent, ns...)
	for _, it := range items {
		it.SetActiveFocusOnTab(true)
	}
	return items
}

// --- Chain order ---

func TestNextItemInFocusChain(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "b", "c")
	a, b, c := k[0], k[1], k[2]

	tests := []struct {
		name    string
		from    *Item
		forward bool
		want    *Item
	}{
		{"a forward", a, true, b},
		{"b forward", b, true, c},
		{"wraps forward", c, true, a},
		{"c backward", c, false, b},
		{"wraps backward", a, false, c},
		{"content forward", w.ContentItem(), true, a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.NextItemInFocusChain(tt.forward); got != tt.want {
				t.Errorf("NextItemInFocusChain(%v) = %v, want %v", tt.forward, got, tt.want)
			}
		})
	}
}

func TestFocusChainDescendsDepthFirst(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "b")
	group := NewItem("group")
	group.SetParent(w.ContentItem())
	g := tabItems(group, "g1", "g2")

	if got := k[1].NextItemInFocusChain(true); got != g[0] {
		t.Errorf("b forward = %v, want g1", got)
	}
	if got := g[1].NextItemInFocusChain(true); got != k[0] {
		t.Errorf("g2 forward = %v, want a", got)
	}
	if got := k[0].NextItemInFocusChain(false); got != g[1] {
		t.Errorf("a backward = %v, want g2", got)
	}
}

func TestFocusChainSkipsIneligible(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "hidden", "off", "plain", "e")
	k[1].SetVisible(false)
	k[2].SetEnabled(false)
	k[3].SetActiveFocusOnTab(false)

	if got := k[0].NextItemInFocusChain(true); got != k[4] {
		t.Errorf("a forward = %v, want e", got)
	}
	if got := k[4].NextItemInFocusChain(false); got != k[0] {
		t.Errorf("e backward = %v, want a", got)
	}
}

func TestFocusChainSingleItemReturnsItself(t *testing.T) {
	w, _ := activeWindow()
	a := tabItems(w.ContentItem(), "a")[0]
	newChildren(w.ContentItem(), "plain")
	if got := a.NextItemInFocusChain(true); got != a {
		t.Errorf("NextItemInFocusChain = %v, want a", got)
	}
	if got := a.NextItemInFocusChain(false); got != a {
		t.Errorf("backward = %v, want a", got)
	}
}

// --- Tab fences ---

func TestTabFence(t *testing.T) {
	w, _ := activeWindow()
	root := w.ContentItem()
	a := tabItems(root, "a")[0]
	fence := NewItem("fence")
	fence.SetTabFence(true)
	fence.SetParent(root)
	f := tabItems(fence, "f1", "f2")
	b := tabItems(root, "b")[0]

	if got := a.NextItemInFocusChain(true); got != b {
		t.Errorf("a forward = %v, want b (fence skipped)", got)
	}
	if got := f[0].NextItemInFocusChain(true); got != f[1] {
		t.Errorf("f1 forward = %v, want f2", got)
	}
	if got := f[1].NextItemInFocusChain(true); got != f[0] {
		t.Errorf("f2 forward = %v, want f1 (wraps inside fence)", got)
	}
}

func TestEmptyTabFenceIsAStop(t *testing.T) {
	w, _ := activeWindow()
	root := w.ContentItem()
	a := tabItems(root, "a")[0]
	fence := NewItem("fence")
	fence.SetTabFence(true)
	fence.SetActiveFocusOnTab(true)
	fence.SetParent(root)
	b := tabItems(root, "b")[0]

	if got := a.NextItemInFocusChain(true); got != fence {
		t.Errorf("a forward = %v, want fence", got)
	}
	if got := fence.NextItemInFocusChain(true); got != b {
		t.Errorf("fence forward = %v, want b", got)
	}
	if got := b.NextItemInFocusChain(false); got != fence {
		t.Errorf("b backward = %v, want fence", got)
	}
}

func TestTabFenceWithoutStopsIsWalked(t *testing.T) {
	w, _ := activeWindow()
	root := w.ContentItem()
	a := tabItems(root, "a")[0]
	fence := NewItem("fence")
	fence.SetTabFence(true)
	fence.SetActiveFocusOnTab(true)
	newChildren(fence, "plain")
	hidden := tabItems(fence, "hidden")[0]
	hidden.SetVisible(false)
	fence.SetParent(root)
	b := tabItems(root, "b")[0]

	if got := a.NextItemInFocusChain(true); got != fence {
		t.Errorf("a forward = %v, want fence", got)
	}
	if got := fence.NextItemInFocusChain(true); got != b {
		t.Errorf("fence forward = %v, want b", got)
	}
	if got := b.NextItemInFocusChain(false); got != fence {
		t.Errorf("b backward = %v, want fence", got)
	}
}

func TestFocusChainTerminates(t *testing.T) {
	t.Run("empty fence without tab focus", func(t *testing.T) {
		w, _ := activeWindow()
		a := tabItems(w.ContentItem(), "a")[0]
		fence := NewItem("fence")
		fence.SetTabFence(true)
		fence.SetParent(w.ContentItem())
		for _, forward := range []bool{true, false} {
			if got := a.NextItemInFocusChain(forward); got != a {
				t.Errorf("forward=%v: got %v, want a", forward, got)
			}
		}
	})
	t.Run("all invisible", func(t *testing.T) {
		w, _ := activeWindow()
		k := tabItems(w.ContentItem(), "a", "b", "c")
		for _, it := range k {
			it.SetVisible(false)
		}
		for _, forward := range []bool{true, false} {
			if got := k[0].NextItemInFocusChain(forward); got != w.ContentItem() {
				t.Errorf("forward=%v: got %v, want content", forward, got)
			}
		}
	})
	t.Run("fence with invisible descendants", func(t *testing.T) {
		w, _ := activeWindow()
		fence := NewItem("fence")
		fence.SetTabFence(true)
		inner := tabItems(fence, "x", "y")
		fence.SetParent(w.ContentItem())
		a := tabItems(w.ContentItem(), "a")[0]
		for _, it := range inner {
			it.SetVisible(false)
		}
		for _, forward := range []bool{true, false} {
			if got := a.NextItemInFocusChain(forward); got != a {
				t.Errorf("forward=%v: got %v, want a", forward, got)
			}
			if got := inner[0].NextItemInFocusChain(forward); got != a {
				t.Errorf("from hidden x, forward=%v: got %v, want a", forward, got)
			}
		}
	})
}

func TestTabFenceTransitions(t *testing.T) {
	log := captureLog(t)
	_, k := activeWindow("p")
	newChildren(k[0], "c")
	k[0].SetTabFence(true)
	if k[0].IsTabFence() {
		t.Error("fence set on an item with children and a window")
	}
	f := NewItem("f")
	f.SetTabFence(true)
	f.SetTabFence(false)
	if !f.IsTabFence() {
		t.Error("fence cleared")
	}
	if len(log.errs) != 2 || !log.has(ErrFlagTransition) {
		t.Errorf("errs = %v, want two ErrFlagTransition", log.errs)
	}
}

// --- Tab focus policy ---

func TestTabFocusPolicy(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "button", "edit", "list")
	k[0].Content = &ContentDescriptor{Role: RoleButton}
	k[1].Content = &ContentDescriptor{Role: RoleEditableText}
	k[2].Content = &ContentDescriptor{Role: RoleList}

	w.SetTabFocusPolicy(TabFocusText)
	if got := k[2].NextItemInFocusChain(true); got != k[1] {
		t.Errorf("list forward = %v, want edit (button skipped)", got)
	}

	w.SetTabFocusPolicy(TabFocusNone)
	if got := k[1].NextItemInFocusChain(true); got != k[1] {
		t.Errorf("with TabFocusNone = %v, want edit itself", got)
	}
	if w.TabFocusPolicy() != TabFocusNone {
		t.Errorf("TabFocusPolicy = %v, want TabFocusNone", w.TabFocusPolicy())
	}
}

func TestCanAcceptTabFocusDescriptor(t *testing.T) {
	w, _ := activeWindow()
	w.SetTabFocusPolicy(TabFocusText)
	tests := []struct {
		name string
		c    *ContentDescriptor
		want bool
	}{
		{"no descriptor", nil, false},
		{"button", &ContentDescriptor{Role: RoleButton}, false},
		{"table", &ContentDescriptor{Role: RoleTable}, true},
		{"explicit editable", &ContentDescriptor{Role: RoleButton, Editable: True}, true},
		{"explicit not editable", &ContentDescriptor{Role: RoleEditableText, Editable: False}, false},
		{"read-only text", &ContentDescriptor{ReadOnly: True, HasText: true}, false},
		{"writable text", &ContentDescriptor{ReadOnly: False, HasText: true}, true},
		{"combo box", &ContentDescriptor{Role: RoleComboBox}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewItem(tt.name)
			it.SetParent(w.ContentItem())
			it.Content = tt.c
			if got := it.canAcceptTabFocus(); got != tt.want {
				t.Errorf("canAcceptTabFocus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetActiveFocusOnTabRejectsActiveItem(t *testing.T) {
	log := captureLog(t)
	w, _ := activeWindow()
	a := tabItems(w.ContentItem(), "a")[0]
	a.ForceActiveFocus()
	a.SetActiveFocusOnTab(false)
	if !a.ActiveFocusOnTab() {
		t.Error("flag cleared on the active focus item")
	}
	if !log.has(ErrFlagTransition) {
		t.Errorf("errs = %v, want ErrFlagTransition", log.errs)
	}
}

// --- Tab key handling ---

func TestTabKeyMovesFocus(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "b", "c")
	k[0].ForceActiveFocus()

	tests := []struct {
		name string
		key  Key
		mods KeyModifiers
		want *Item
	}{
		{"tab", KeyTab, 0, k[1]},
		{"shift tab", KeyTab, ModShift, k[0]},
		{"backtab wraps", KeyBacktab, 0, k[2]},
		{"tab wraps", KeyTab, 0, k[0]},
	}
	for _, tt := range tests {
		if !w.DeliverKey(&KeyEvent{Type: KeyPress, Key: tt.key, Modifiers: tt.mods}) {
			t.Errorf("%s: DeliverKey = false, want true", tt.name)
		}
		if w.ActiveFocusItem() != tt.want {
			t.Errorf("%s: ActiveFocusItem = %v, want %v", tt.name, w.ActiveFocusItem(), tt.want)
		}
	}
	if w.LastFocusReason() != FocusReasonTab {
		t.Errorf("LastFocusReason = %v, want %v", w.LastFocusReason(), FocusReasonTab)
	}
}

func TestTabFromContentItem(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "b")
	if !w.DeliverKey(&KeyEvent{Type: KeyPress, Key: KeyTab}) {
		t.Fatal("DeliverKey = false")
	}
	if w.ActiveFocusItem() != k[0] {
		t.Errorf("ActiveFocusItem = %v, want a", w.ActiveFocusItem())
	}
}

func TestModifiedTabDoesNotMoveFocus(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		mods KeyModifiers
	}{
		{"ctrl", KeyTab, ModCtrl},
		{"alt", KeyTab, ModAlt},
		{"meta", KeyTab, ModMeta},
		{"shift+ctrl", KeyTab, ModShift | ModCtrl},
		{"meta backtab", KeyBacktab, ModMeta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := activeWindow()
			k := tabItems(w.ContentItem(), "a", "b")
			k[0].ForceActiveFocus()
			if w.DeliverKey(&KeyEvent{Type: KeyPress, Key: tt.key, Modifiers: tt.mods}) {
				t.Errorf("DeliverKey(%s+%s) = true", tt.name, tt.key)
			}
			if w.ActiveFocusItem() != k[0] {
				t.Errorf("ActiveFocusItem = %v, want a", w.ActiveFocusItem())
			}
		})
	}
}

func TestTabAcceptedByItemDoesNotMoveFocus(t *testing.T) {
	w, _ := activeWindow()
	k := tabItems(w.ContentItem(), "a", "b")
	k[0].ForceActiveFocus()
	k[0].OnKeyPress = func(e *KeyEvent) {}
	w.DeliverKey(&KeyEvent{Type: KeyPress, Key: KeyTab})
	if w.ActiveFocusItem() != k[0] {
		t.Errorf("ActiveFocusItem = %v, want a", w.ActiveFocusItem())
	}
}
