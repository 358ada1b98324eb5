// Package arbor is a retained-mode item tree for user interfaces: the part
// of a UI toolkit that sits between the platform and the renderer.
//
// Items form a tree rooted at [Window.ContentItem]. Each item carries
// geometry, a transform, visibility and enabled state that cascade to its
// descendants, layout mirroring, and focus. The window routes input to the
// tree: key events to the active focus item through per-item key filters,
// and mouse and touch events through hit testing, filtering ancestors,
// exclusive and passive grabs, and pointer handlers.
//
// # Quick start
//
//	w := arbor.NewWindow(640, 480)
//	w.SetActive(true)
//
//	ok := arbor.NewItem("ok")
//	ok.SetSize(80, 24)
//	ok.SetActiveFocusOnTab(true)
//	ok.SetParent(w.ContentItem())
//
//	tap := arbor.NewTapHandler()
//	tap.OnTapped = func(p arbor.EventPoint, b arbor.MouseButton) { submit() }
//	ok.AddPointerHandler(tap)
//
// Each frame, feed platform input to the window (see the ebitenplatform and
// tcellplatform packages), then call [Window.Update] and [Window.Sync].
//
// # Focus
//
// Items marked with [FlagFocusScope] remember which descendant has focus.
// [Item.SetFocus] moves focus within the enclosing scope and
// [Item.ForceActiveFocus] makes the item the window's active focus item,
// focusing every scope on the way up. Tab and Backtab walk the tab chain of
// items with [Item.SetActiveFocusOnTab]; [Item.SetTabFence] keeps the walk
// inside a subtree.
//
// # Rendering
//
// arbor draws nothing itself. Changes that affect painting put the item on
// the window's dirty list, and [Window.Sync] hands each dirty item's
// [PaintState] to the [Renderer] in the order the items became dirty.
// Layered items ([LayerFor]) are pushed to a [LayerBackend] instead.
//
// # Diagnostics
//
// Misuse never panics. It is logged through the package logger (see
// [SetLogger]) with an errors.Is-able sentinel such as [ErrCycle].
package arbor
