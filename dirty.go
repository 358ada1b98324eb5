package arbor

import (
	"container/list"
	"time"
)

// DirtyType is a bitmask of pending changes the renderer has not consumed yet.
type DirtyType uint32

const (
	DirtyTransformOrigin DirtyType = 1 << iota
	DirtyTransform
	DirtyBasicTransform
	DirtyPosition
	DirtySize
	DirtyZValue
	DirtyContent
	DirtySmooth
	DirtyOpacityValue
	DirtyChildrenChanged
	DirtyChildrenStackingChanged
	DirtyParentChanged
	DirtyClip
	DirtyWindow
	DirtyEffectReference
	DirtyVisible
	DirtyHideReference
	DirtyAntialiasing
)

// dirtyTransformMask lists the dirty kinds that invalidate scene transforms.
const dirtyTransformMask = DirtyTransformOrigin | DirtyTransform | DirtyBasicTransform |
	DirtyPosition | DirtySize | DirtyParentChanged

// PaintState is the snapshot of an item handed to the Renderer when the item
// leaves the dirty list.
type PaintState struct {
	Dirty          DirtyType
	SceneTransform Affine
	Size           Vec2
	Z              float64
	Opacity        float64
	Visible        bool
	Clip           bool
	Smooth         bool
	Antialiasing   bool
	HasContents    bool
	// EffectReferenced is true while an effect source or layer uses the item.
	EffectReferenced bool
	// Hidden is true while an effect source hides the item from normal
	// painting.
	Hidden bool
}

// Renderer consumes dirty items once per frame. It is only called from
// Window.Sync, while the tree is not being mutated.
type Renderer interface {
	UpdatePaintNode(it *Item, state PaintState)
	ReleaseResources(it *Item)
}

// dirty records a pending change and enqueues the item on its window's dirty
// list.
func (it *Item) dirty(t DirtyType) {
	if t&dirtyTransformMask != 0 {
		transformChanged(it)
	}
	if it.dirtyAttributes&t == 0 || (it.window != nil && it.dirtyElem == nil) {
		it.dirtyAttributes |= t
		if it.window != nil {
			it.window.addToDirtyList(it)
		}
	}
}

// MarkContentDirty asks the renderer to refresh the item's paint content.
func (it *Item) MarkContentDirty() { it.dirty(DirtyContent) }

// DirtyAttributes returns the changes not yet consumed by Window.Sync.
func (it *Item) DirtyAttributes() DirtyType { return it.dirtyAttributes }

// IsDirty reports whether the item is queued on its window's dirty list.
func (it *Item) IsDirty() bool { return it.dirtyElem != nil }

func (it *Item) paintState() PaintState {
	ps := PaintState{
		Dirty:          it.dirtyAttributes,
		SceneTransform: it.SceneTransform(),
		Size:           Vec2{it.width, it.height},
		Z:              it.z,
		Opacity:        it.opacity,
		Visible:        it.effectiveVisible,
		Clip:           it.Clip(),
		Smooth:         it.smooth,
		Antialiasing:   it.Antialiasing(),
		HasContents:    it.HasFlag(FlagHasContents),
	}
	if it.extra != nil {
		ps.EffectReferenced = it.extra.effectRefCount > 0
		ps.Hidden = it.extra.hideRefCount > 0
	}
	return ps
}

// --- Window dirty list ---

func (w *Window) addToDirtyList(it *Item) {
	if it.dirtyElem != nil {
		return
	}
	it.dirtyElem = w.dirtyList.PushBack(it)
}

func (w *Window) removeFromDirtyList(it *Item) {
	if it.dirtyElem == nil {
		return
	}
	w.dirtyList.Remove(it.dirtyElem)
	it.dirtyElem = nil
}

// DirtyItems returns the items waiting for the next Sync, in the order they
// became dirty.
func (w *Window) DirtyItems() []*Item {
	out := make([]*Item, 0, w.dirtyList.Len())
	for e := w.dirtyList.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Item))
	}
	return out
}

// Sync drains the dirty list into the window's Renderer. Each dirty item is
// handed over once with a snapshot of its paint state, and its pending
// changes are cleared. Without a renderer the list is still drained.
func (w *Window) Sync() {
	var start time.Time
	if w.debug {
		start = time.Now()
	}
	n := 0
	var next *list.Element
	for e := w.dirtyList.Front(); e != nil; e = next {
		next = e.Next()
		it := e.Value.(*Item)
		w.dirtyList.Remove(e)
		it.dirtyElem = nil
		if w.renderer != nil {
			w.renderer.UpdatePaintNode(it, it.paintState())
		}
		it.dirtyAttributes = 0
		n++
	}
	if w.debug {
		w.debugLog(syncStats{drainTime: time.Since(start), items: n})
	}
}
