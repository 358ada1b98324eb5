package arbor

import "io"

// itemExtra holds the rarely used attachments of an item. It is allocated on
// first use so that plain items stay small.
type itemExtra struct {
	anchors   Anchors
	states    *StateGroup
	keyFilter KeyFilter
	keys      *Keys
	keyNav    *KeyNavigation
	layer     *Layer
	mask      ContainmentMask
	handlers  []PointerHandler
	resources []any

	effectSources  []*EffectSource
	effectRefCount int
	hideRefCount   int
}

func (it *Item) extraData() *itemExtra {
	if it.extra == nil {
		it.extra = &itemExtra{}
	}
	return it.extra
}

// Anchors is the layout helper attached to an item. The tree only tells it
// about mirroring changes and detaches it when the item is destroyed.
type Anchors interface {
	LayoutMirrorChanged(mirror bool)
	Detach()
}

// SetAnchors attaches a layout helper. nil detaches the current one.
func (it *Item) SetAnchors(a Anchors) {
	if it.extra == nil && a == nil {
		return
	}
	e := it.extraData()
	if e.anchors != nil && e.anchors != a {
		e.anchors.Detach()
	}
	e.anchors = a
}

// Anchors returns the attached layout helper, or nil.
func (it *Item) Anchors() Anchors {
	if it.extra == nil {
		return nil
	}
	return it.extra.anchors
}

// AddResource attaches a non-visual object whose lifetime follows the item.
// Resources implementing io.Closer are closed when the item is destroyed.
func (it *Item) AddResource(r any) {
	if r == nil {
		return
	}
	e := it.extraData()
	e.resources = append(e.resources, r)
}

// Resources returns the attached non-visual objects. The returned slice MUST
// NOT be mutated by the caller.
func (it *Item) Resources() []any {
	if it.extra == nil {
		return nil
	}
	return it.extra.resources
}

func (it *Item) releaseExtra() {
	e := it.extra
	if e == nil {
		return
	}
	if e.anchors != nil {
		e.anchors.Detach()
		e.anchors = nil
	}
	if e.states != nil {
		e.states.stop()
		e.states = nil
	}
	if e.layer != nil {
		e.layer.SetEnabled(false)
		e.layer = nil
	}
	for _, es := range e.effectSources {
		es.hostDestroyed()
	}
	e.effectSources = nil
	for _, r := range e.resources {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("arbor: closing item resource failed", "item", it.String(), "err", err)
			}
		}
	}
	e.resources = nil
	for _, h := range e.handlers {
		h.handlerBase().parent = nil
	}
	e.handlers = nil
	e.keyFilter = nil
	e.keys = nil
	e.keyNav = nil
	e.mask = nil
}
