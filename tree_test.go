package arbor

import (
	"errors"
	"testing"
)

func names(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func assertNames(t *testing.T, label string, items []*Item, want ...string) {
	t.Helper()
	got := names(items)
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}

func newChildren(parent *Item, ns ...string) []*Item {
	out := make([]*Item, len(ns))
	for i, n := range ns {
		out[i] = NewItem(n)
		out[i].SetParent(parent)
	}
	return out
}

// --- Constructor defaults ---

func TestNewItemDefaults(t *testing.T) {
	it := NewItem("x")
	if it.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if !it.IsVisible() || !it.ExplicitVisible() {
		t.Error("new item should be visible")
	}
	if !it.IsEnabled() || !it.ExplicitEnabled() {
		t.Error("new item should be enabled")
	}
	if it.Opacity() != 1 || it.Scale() != 1 {
		t.Errorf("Opacity, Scale = %v, %v, want 1, 1", it.Opacity(), it.Scale())
	}
	if it.TransformOrigin() != OriginCenter {
		t.Errorf("TransformOrigin = %v, want OriginCenter", it.TransformOrigin())
	}
	if it.Parent() != nil || it.Window() != nil {
		t.Error("new item should be detached")
	}
	if NewItem("y").ID == it.ID {
		t.Error("IDs should be unique")
	}
}

// --- SetParent ---

func TestSetParentAppends(t *testing.T) {
	p := NewItem("p")
	newChildren(p, "a", "b", "c")
	assertNames(t, "Children", p.Children(), "a", "b", "c")
	if p.NumChildren() != 3 {
		t.Errorf("NumChildren = %d, want 3", p.NumChildren())
	}
}

func TestSetParentMovesBetweenParents(t *testing.T) {
	a, b := NewItem("a"), NewItem("b")
	c := NewItem("c")
	c.SetParent(a)
	c.SetParent(b)
	if a.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", a.NumChildren())
	}
	assertNames(t, "new parent children", b.Children(), "c")
	if c.Parent() != b {
		t.Errorf("Parent = %v, want b", c.Parent())
	}
}

func TestSetParentNilDetaches(t *testing.T) {
	p := NewItem("p")
	c := NewItem("c")
	c.SetParent(p)
	c.SetParent(nil)
	if c.Parent() != nil || p.NumChildren() != 0 {
		t.Errorf("Parent = %v, NumChildren = %d after detach", c.Parent(), p.NumChildren())
	}
}

func TestSetParentRejectsCycles(t *testing.T) {
	tests := []struct {
		name   string
		target func(a, b, c *Item) *Item
	}{
		{"self", func(a, _, _ *Item) *Item { return a }},
		{"child", func(_, b, _ *Item) *Item { return b }},
		{"grandchild", func(_, _, c *Item) *Item { return c }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := captureLog(t)
			a, b, c := NewItem("a"), NewItem("b"), NewItem("c")
			b.SetParent(a)
			c.SetParent(b)

			a.SetParent(tt.target(a, b, c))
			if a.Parent() != nil {
				t.Errorf("Parent = %v, want nil", a.Parent())
			}
			if !log.has(ErrCycle) {
				t.Errorf("errs = %v, want ErrCycle", log.errs)
			}
			assertNames(t, "b children", b.Children(), "c")
		})
	}
}

func TestSetParentNotifies(t *testing.T) {
	p := NewItem("p")
	c := NewItem("c")
	var got *Item
	calls := 0
	c.OnParentChanged = func(parent *Item) { got = parent; calls++ }
	var changes []ItemChange
	p.OnItemChange = func(change ItemChange, data ItemChangeData) {
		if data.Item == c {
			changes = append(changes, change)
		}
	}

	c.SetParent(p)
	c.SetParent(p)
	if calls != 1 || got != p {
		t.Errorf("OnParentChanged calls = %d, parent = %v, want 1, p", calls, got)
	}
	c.SetParent(nil)
	if len(changes) != 2 || changes[0] != ItemChildAddedChange || changes[1] != ItemChildRemovedChange {
		t.Errorf("parent changes = %v, want [added removed]", changes)
	}
}

func TestAddChildIsSetParent(t *testing.T) {
	p, c := NewItem("p"), NewItem("c")
	p.AddChild(c)
	p.AddChild(nil)
	if c.Parent() != p || p.NumChildren() != 1 {
		t.Errorf("Parent = %v, NumChildren = %d", c.Parent(), p.NumChildren())
	}
}

// --- Lookup ---

func TestChildAtOutOfRange(t *testing.T) {
	log := captureLog(t)
	p := NewItem("p")
	newChildren(p, "a")
	if p.ChildAt(0).Name != "a" {
		t.Errorf("ChildAt(0) = %v, want a", p.ChildAt(0))
	}
	if got := p.ChildAt(1); got != nil {
		t.Errorf("ChildAt(1) = %v, want nil", got)
	}
	if got := p.ChildAt(-1); got != nil {
		t.Errorf("ChildAt(-1) = %v, want nil", got)
	}
	if len(log.errs) != 2 || !errors.Is(log.errs[0], ErrIndexOutOfRange) {
		t.Errorf("errs = %v, want two ErrIndexOutOfRange", log.errs)
	}
}

func TestFindChildAndIsAncestorOf(t *testing.T) {
	root := NewItem("root")
	kids := newChildren(root, "a", "b")
	deep := newChildren(kids[0], "deep")[0]

	if got := root.FindChild("deep"); got != deep {
		t.Errorf("FindChild(deep) = %v, want %v", got, deep)
	}
	if got := root.FindChild("missing"); got != nil {
		t.Errorf("FindChild(missing) = %v, want nil", got)
	}
	if !root.IsAncestorOf(deep) || !kids[0].IsAncestorOf(deep) {
		t.Error("ancestors of deep not reported")
	}
	if kids[1].IsAncestorOf(deep) || deep.IsAncestorOf(deep) || root.IsAncestorOf(nil) {
		t.Error("IsAncestorOf reported a non-ancestor")
	}
}

// --- Stacking ---

func TestStackBeforeAfter(t *testing.T) {
	p := NewItem("p")
	k := newChildren(p, "a", "b", "c", "d")
	a, b, c, d := k[0], k[1], k[2], k[3]

	d.StackBefore(b)
	assertNames(t, "after d.StackBefore(b)", p.Children(), "a", "d", "b", "c")
	a.StackAfter(c)
	assertNames(t, "after a.StackAfter(c)", p.Children(), "d", "b", "c", "a")
	b.StackBefore(c)
	assertNames(t, "no-op StackBefore", p.Children(), "d", "b", "c", "a")
	d.StackAfter(a)
	assertNames(t, "after d.StackAfter(a)", p.Children(), "b", "c", "a", "d")
}

func TestStackNotSiblings(t *testing.T) {
	log := captureLog(t)
	p, q := NewItem("p"), NewItem("q")
	a := newChildren(p, "a")[0]
	x := newChildren(q, "x")[0]

	a.StackBefore(x)
	a.StackAfter(nil)
	a.StackBefore(a)
	if len(log.errs) != 3 {
		t.Fatalf("errs = %v, want 3", log.errs)
	}
	for _, err := range log.errs {
		if !errors.Is(err, ErrNotSibling) {
			t.Errorf("err = %v, want ErrNotSibling", err)
		}
	}
}

func TestStackingNotifiesSiblingOrder(t *testing.T) {
	p := NewItem("p")
	k := newChildren(p, "a", "b", "c")
	rec := &orderRecorder{}
	for _, c := range k {
		c.AddChangeListener(rec, ChangeSiblingOrder)
	}
	k[2].StackBefore(k[0])
	assertNames(t, "notified", rec.items, "c", "a", "b")
}

type orderRecorder struct {
	NopListener
	items []*Item
}

func (r *orderRecorder) ItemSiblingOrderChanged(it *Item) { r.items = append(r.items, it) }

func TestPaintOrderChildren(t *testing.T) {
	p := NewItem("p")
	k := newChildren(p, "a", "b", "c")
	assertNames(t, "insertion order", p.PaintOrderChildren(), "a", "b", "c")

	k[0].SetZ(1)
	k[2].SetZ(-1)
	assertNames(t, "z order", p.PaintOrderChildren(), "c", "b", "a")

	k[1].SetZ(1)
	// Equal z keeps insertion order.
	assertNames(t, "stable", p.PaintOrderChildren(), "c", "a", "b")

	k[2].SetParent(nil)
	assertNames(t, "after removal", p.PaintOrderChildren(), "a", "b")
}

func TestPaintOrderChildrenEmpty(t *testing.T) {
	p := NewItem("p")
	if got := p.PaintOrderChildren(); got == nil || len(got) != 0 {
		t.Errorf("PaintOrderChildren = %v, want empty non-nil", got)
	}
}

// --- Window association ---

func TestWindowFollowsParent(t *testing.T) {
	w := NewWindow(100, 100)
	p := NewItem("p")
	c := newChildren(p, "c")[0]
	p.SetParent(w.ContentItem())
	if p.Window() != w || c.Window() != w {
		t.Errorf("Window = %v, %v, want w", p.Window(), c.Window())
	}
	var windowChanges int
	c.OnItemChange = func(change ItemChange, data ItemChangeData) {
		if change == ItemWindowChange {
			windowChanges++
		}
	}
	p.SetParent(nil)
	if p.Window() != nil || c.Window() != nil {
		t.Error("subtree still has a window after detach")
	}
	if windowChanges != 1 {
		t.Errorf("window changes = %d, want 1", windowChanges)
	}
	if len(w.ParentlessItems()) != 0 {
		t.Errorf("ParentlessItems = %v, want none", w.ParentlessItems())
	}
}

func TestSetParentAcrossWindows(t *testing.T) {
	w1, w2 := NewWindow(10, 10), NewWindow(10, 10)
	it := NewItem("it")
	it.SetParent(w1.ContentItem())
	it.SetParent(w2.ContentItem())
	if it.Window() != w2 {
		t.Errorf("Window = %v, want w2", it.Window())
	}
	if w1.ContentItem().NumChildren() != 0 {
		t.Error("item still in first window")
	}
}

func TestVisibleChildren(t *testing.T) {
	p := NewItem("p")
	k := newChildren(p, "a", "b", "c")
	calls := 0
	p.OnVisibleChildrenChanged = func() { calls++ }
	k[1].SetVisible(false)
	assertNames(t, "VisibleChildren", p.VisibleChildren(), "a", "c")
	if calls != 1 {
		t.Errorf("OnVisibleChildrenChanged calls = %d, want 1", calls)
	}
	newChildren(p, "d")
	if calls != 2 {
		t.Errorf("OnVisibleChildrenChanged calls after add = %d, want 2", calls)
	}
}

// --- Destroy ---

type destroyRecorder struct {
	NopListener
	destroyed []*Item
}

func (r *destroyRecorder) ItemDestroyed(it *Item) { r.destroyed = append(r.destroyed, it) }

type closer struct{ closed bool }

func (c *closer) Close() error { c.closed = true; return nil }

func TestDestroy(t *testing.T) {
	w := NewWindow(100, 100)
	p := NewItem("p")
	p.SetParent(w.ContentItem())
	it := newChildren(p, "it")[0]
	kid := newChildren(it, "kid")[0]
	rec := &destroyRecorder{}
	it.AddChangeListener(rec, ChangeDestroyed)
	res := &closer{}
	it.AddResource(res)

	it.Destroy()
	if !it.IsDestroyed() {
		t.Error("IsDestroyed = false")
	}
	if p.NumChildren() != 0 {
		t.Error("destroyed item still a child")
	}
	if kid.Parent() != nil || kid.Window() != nil {
		t.Errorf("orphan Parent = %v, Window = %v, want nil", kid.Parent(), kid.Window())
	}
	if it.Window() != nil {
		t.Error("destroyed item still has a window")
	}
	if len(rec.destroyed) != 1 || rec.destroyed[0] != it {
		t.Errorf("ItemDestroyed = %v, want [it]", rec.destroyed)
	}
	if !res.closed {
		t.Error("resource not closed")
	}

	it.Destroy()
	if len(rec.destroyed) != 1 {
		t.Error("second Destroy notified again")
	}
}

func TestDestroyedItemCannotBeReparented(t *testing.T) {
	log := captureLog(t)
	p := NewItem("p")
	it := NewItem("it")
	it.Destroy()
	it.SetParent(p)
	if it.Parent() != nil {
		t.Error("destroyed item was reparented")
	}
	c := NewItem("c")
	c.SetParent(it)
	if c.Parent() != nil {
		t.Error("item was parented to a destroyed item")
	}
	if !log.has(ErrDestroyed) {
		t.Errorf("errs = %v, want ErrDestroyed", log.errs)
	}
}

func TestDestroyDropsFocus(t *testing.T) {
	w := NewWindow(100, 100)
	w.SetActive(true)
	it := NewItem("it")
	it.SetParent(w.ContentItem())
	it.SetFocus(true)
	if w.ActiveFocusItem() != it {
		t.Fatalf("ActiveFocusItem = %v, want it", w.ActiveFocusItem())
	}
	it.Destroy()
	if w.ActiveFocusItem() == it {
		t.Error("destroyed item still has active focus")
	}
	if w.ContentItem().ScopedFocusItem() != nil {
		t.Errorf("ScopedFocusItem = %v, want nil", w.ContentItem().ScopedFocusItem())
	}
}
