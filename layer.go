package arbor

// --- Effect references ---

// refFromEffectItem records that an effect renders the item. With hide set
// the item is also hidden from normal painting while the reference lasts.
func (it *Item) refFromEffectItem(hide bool) {
	e := it.extraData()
	e.effectRefCount++
	if e.effectRefCount == 1 {
		it.dirty(DirtyEffectReference)
		if it.parent != nil {
			it.parent.dirty(DirtyChildrenStackingChanged)
		}
	}
	if hide {
		e.hideRefCount++
		if e.hideRefCount == 1 {
			it.dirty(DirtyHideReference)
		}
	}
}

func (it *Item) derefFromEffectItem(unhide bool) {
	e := it.extra
	if e == nil || e.effectRefCount == 0 {
		return
	}
	e.effectRefCount--
	if e.effectRefCount == 0 {
		it.dirty(DirtyEffectReference)
		if it.parent != nil {
			it.parent.dirty(DirtyChildrenStackingChanged)
		}
	}
	if unhide && e.hideRefCount > 0 {
		e.hideRefCount--
		if e.hideRefCount == 0 {
			it.dirty(DirtyHideReference)
		}
	}
}

// EffectRefCount returns how many effects currently render the item.
func (it *Item) EffectRefCount() int {
	if it.extra == nil {
		return 0
	}
	return it.extra.effectRefCount
}

// IsHiddenByEffect reports whether an effect hides the item from normal
// painting.
func (it *Item) IsHiddenByEffect() bool { return it.extra != nil && it.extra.hideRefCount > 0 }

// --- EffectSource ---

// EffectSource lets a host item render another item, the source, as a
// texture. The source may live anywhere, even outside any tree: the effect
// keeps it attached to the host's window through a second window
// reference.
type EffectSource struct {
	NopListener

	host       *Item
	source     *Item
	hideSource bool

	// OnSourceChanged is called when the source moves, resizes, or is
	// destroyed.
	OnSourceChanged func(source *Item)
}

// NewEffectSource attaches an effect source to host.
func NewEffectSource(host *Item) *EffectSource {
	es := &EffectSource{host: host}
	e := host.extraData()
	e.effectSources = append(e.effectSources, es)
	return es
}

// Host returns the item the effect is attached to.
func (es *EffectSource) Host() *Item { return es.host }

// SourceItem returns the rendered item, or nil.
func (es *EffectSource) SourceItem() *Item { return es.source }

// SetSourceItem changes the rendered item. The host itself cannot be its own
// source.
func (es *EffectSource) SetSourceItem(src *Item) {
	if src == es.source {
		return
	}
	if src != nil && src == es.host {
		warn("SetSourceItem", src, ErrCycle, "reason", "item cannot be its own effect source")
		return
	}
	if src != nil && src.destroyed {
		warn("SetSourceItem", src, ErrDestroyed)
		return
	}
	if old := es.source; old != nil {
		old.RemoveChangeListener(es, ChangeGeometry|ChangeDestroyed)
		old.derefFromEffectItem(es.hideSource)
		if es.host != nil && es.host.window != nil {
			old.derefWindow()
		}
	}
	es.source = src
	if src != nil {
		src.refFromEffectItem(es.hideSource)
		src.AddChangeListener(es, ChangeGeometry|ChangeDestroyed)
		if es.host != nil && es.host.window != nil {
			src.refWindow(es.host.window)
		}
	}
	es.changed()
}

// HideSource reports whether the source is hidden from normal painting.
func (es *EffectSource) HideSource() bool { return es.hideSource }

// SetHideSource hides the source from normal painting while the effect
// renders it.
func (es *EffectSource) SetHideSource(hide bool) {
	if es.hideSource == hide {
		return
	}
	if src := es.source; src != nil {
		src.derefFromEffectItem(es.hideSource)
		src.refFromEffectItem(hide)
	}
	es.hideSource = hide
}

func (es *EffectSource) hostWindowChanged(w *Window) {
	if es.source == nil {
		return
	}
	if w != nil {
		es.source.refWindow(w)
	} else {
		es.source.derefWindow()
	}
}

func (es *EffectSource) hostDestroyed() {
	es.SetSourceItem(nil)
	es.host = nil
}

// ItemGeometryChanged implements ChangeListener.
func (es *EffectSource) ItemGeometryChanged(*Item, GeometryChange, Rect) { es.changed() }

// ItemDestroyed implements ChangeListener.
func (es *EffectSource) ItemDestroyed(*Item) {
	es.source = nil
	es.changed()
}

func (es *EffectSource) changed() {
	if es.OnSourceChanged != nil {
		es.OnSourceChanged(es.source)
	}
}

// --- Layer ---

// LayerState is the snapshot of a layered item handed to the LayerBackend.
type LayerState struct {
	Enabled        bool
	Geometry       Rect
	SceneTransform Affine
	Opacity        float64
	Visible        bool
	Z              float64
	Smooth         bool
	Mipmap         bool
	// TextureSize is the offscreen size. Zero means the item's size.
	TextureSize Vec2
	// SourceRect is the part of the item rendered. Zero means all of it.
	SourceRect Rect
	Samples    int
	// Effect is an opaque descriptor of the effect applied to the texture.
	Effect any
}

// LayerBackend draws layered items into offscreen textures.
type LayerBackend interface {
	UpdateLayer(it *Item, state LayerState)
	ReleaseLayer(it *Item)
}

// SetLayerBackend sets the backend that renders item layers.
func (w *Window) SetLayerBackend(b LayerBackend) { w.layerBackend = b }

// Layer renders its item into an offscreen texture instead of directly.
// While enabled the item is referenced and hidden as an effect source, and
// the layer follows the item's geometry, opacity, visibility and stacking
// through a change listener, pushing every change to the window's
// LayerBackend.
type Layer struct {
	NopListener

	item        *Item
	enabled     bool
	smooth      bool
	mipmap      bool
	textureSize Vec2
	sourceRect  Rect
	samples     int
	effect      any
}

const layerChanges = ChangeGeometry | ChangeOpacity | ChangeVisibility | ChangeSiblingOrder | ChangeParent | ChangeRotation

// LayerFor returns the layer of it, creating a disabled one on first use.
func LayerFor(it *Item) *Layer {
	e := it.extraData()
	if e.layer == nil {
		e.layer = &Layer{item: it}
	}
	return e.layer
}

// Item returns the layered item.
func (l *Layer) Item() *Item { return l.item }

// Enabled reports whether the item renders through the layer.
func (l *Layer) Enabled() bool { return l.enabled }

// SetEnabled turns the layer on or off.
func (l *Layer) SetEnabled(on bool) {
	if l.enabled == on || l.item == nil {
		return
	}
	l.enabled = on
	if on {
		l.item.refFromEffectItem(true)
		l.item.AddChangeListener(l, layerChanges)
		l.update()
		return
	}
	l.item.RemoveChangeListener(l, layerChanges)
	l.item.derefFromEffectItem(true)
	l.release()
}

// SetSmooth sets linear filtering of the layer texture.
func (l *Layer) SetSmooth(on bool) { l.smooth = on; l.update() }

// SetMipmap enables mipmaps for the layer texture.
func (l *Layer) SetMipmap(on bool) { l.mipmap = on; l.update() }

// SetTextureSize sets the offscreen size.
func (l *Layer) SetTextureSize(s Vec2) { l.textureSize = s; l.update() }

// SetSourceRect restricts the rendered part of the item.
func (l *Layer) SetSourceRect(r Rect) { l.sourceRect = r; l.update() }

// SetSamples sets the multisample count.
func (l *Layer) SetSamples(n int) { l.samples = n; l.update() }

// SetEffect sets the opaque effect descriptor passed to the backend.
func (l *Layer) SetEffect(e any) { l.effect = e; l.update() }

// State returns the snapshot the backend would receive now.
func (l *Layer) State() LayerState {
	it := l.item
	return LayerState{
		Enabled:        l.enabled,
		Geometry:       it.Geometry(),
		SceneTransform: it.SceneTransform(),
		Opacity:        it.opacity,
		Visible:        it.effectiveVisible,
		Z:              it.z,
		Smooth:         l.smooth,
		Mipmap:         l.mipmap,
		TextureSize:    l.textureSize,
		SourceRect:     l.sourceRect,
		Samples:        l.samples,
		Effect:         l.effect,
	}
}

func (l *Layer) backend() LayerBackend {
	if l.item == nil || l.item.window == nil {
		return nil
	}
	return l.item.window.layerBackend
}

func (l *Layer) update() {
	if !l.enabled {
		return
	}
	if b := l.backend(); b != nil {
		b.UpdateLayer(l.item, l.State())
	}
}

func (l *Layer) release() {
	if b := l.backend(); b != nil {
		b.ReleaseLayer(l.item)
	}
}

// ItemGeometryChanged implements ChangeListener.
func (l *Layer) ItemGeometryChanged(*Item, GeometryChange, Rect) { l.update() }

// ItemOpacityChanged implements ChangeListener.
func (l *Layer) ItemOpacityChanged(*Item) { l.update() }

// ItemVisibilityChanged implements ChangeListener.
func (l *Layer) ItemVisibilityChanged(*Item) { l.update() }

// ItemSiblingOrderChanged implements ChangeListener.
func (l *Layer) ItemSiblingOrderChanged(*Item) { l.update() }

// ItemParentChanged implements ChangeListener.
func (l *Layer) ItemParentChanged(*Item, *Item) { l.update() }

// ItemRotationChanged implements ChangeListener.
func (l *Layer) ItemRotationChanged(*Item) { l.update() }
