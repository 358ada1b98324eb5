package ebitenplatform

import (
	"cmp"
	"image"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// Layer is the persistent offscreen canvas of one layered item. Unlike
// per-frame render targets it is owned by the backend and only reallocated
// when the texture size changes.
type Layer struct {
	image *ebiten.Image
	w, h  int
	state arbor.LayerState
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (l *Layer) Image() *ebiten.Image { return l.image }

// Width returns the texture width in pixels.
func (l *Layer) Width() int { return l.w }

// Height returns the texture height in pixels.
func (l *Layer) Height() int { return l.h }

// State returns the last state pushed by the window.
func (l *Layer) State() arbor.LayerState { return l.state }

// resize deallocates the old image and creates a new one at the given
// dimensions.
func (l *Layer) resize(w, h int) {
	if l.image != nil {
		l.image.Deallocate()
	}
	l.image = ebiten.NewImage(w, h)
	l.w, l.h = w, h
}

func (l *Layer) dispose() {
	if l.image != nil {
		l.image.Deallocate()
		l.image = nil
	}
}

// Layers is an arbor.LayerBackend keeping one offscreen image per layered
// item. Paint into Layer(it).Image() and composite everything with Draw.
type Layers struct {
	layers map[*arbor.Item]*Layer
	order  []*arbor.Item
}

// NewLayers creates an empty layer backend.
func NewLayers() *Layers {
	return &Layers{layers: make(map[*arbor.Item]*Layer)}
}

// Layer returns the layer of it, or nil.
func (b *Layers) Layer(it *arbor.Item) *Layer { return b.layers[it] }

// Len returns the number of live layers.
func (b *Layers) Len() int { return len(b.layers) }

// textureSize returns the pixel size of the offscreen image for s. At least
// one pixel in each direction is allocated.
func textureSize(s arbor.LayerState) (int, int) {
	size := s.TextureSize
	if size == (arbor.Vec2{}) {
		if s.SourceRect.Width > 0 && s.SourceRect.Height > 0 {
			size = arbor.Vec2{X: s.SourceRect.Width, Y: s.SourceRect.Height}
		} else {
			size = arbor.Vec2{X: s.Geometry.Width, Y: s.Geometry.Height}
		}
	}
	return max(1, int(math.Ceil(size.X))), max(1, int(math.Ceil(size.Y)))
}

// UpdateLayer implements arbor.LayerBackend.
func (b *Layers) UpdateLayer(it *arbor.Item, s arbor.LayerState) {
	l := b.layers[it]
	if l == nil {
		l = &Layer{}
		b.layers[it] = l
		b.order = append(b.order, it)
	}
	if w, h := textureSize(s); l.image == nil || w != l.w || h != l.h {
		l.resize(w, h)
	}
	l.state = s
}

// ReleaseLayer implements arbor.LayerBackend.
func (b *Layers) ReleaseLayer(it *arbor.Item) {
	l := b.layers[it]
	if l == nil {
		return
	}
	l.dispose()
	delete(b.layers, it)
	if i := slices.Index(b.order, it); i >= 0 {
		b.order = slices.Delete(b.order, i, i+1)
	}
}

// Draw composites the visible layers onto dst in ascending z order, each
// through its item's scene transform and opacity.
func (b *Layers) Draw(dst *ebiten.Image) {
	items := slices.Clone(b.order)
	slices.SortStableFunc(items, func(x, y *arbor.Item) int {
		return cmp.Compare(b.layers[x].state.Z, b.layers[y].state.Z)
	})
	for _, it := range items {
		l := b.layers[it]
		if !l.state.Visible || l.image == nil {
			continue
		}
		var op ebiten.DrawImageOptions
		op.GeoM = drawGeoM(l)
		op.ColorScale.ScaleAlpha(float32(l.state.Opacity))
		if l.state.Smooth {
			op.Filter = ebiten.FilterLinear
		}
		src := l.image
		if sr := l.state.SourceRect; sr.Width > 0 && sr.Height > 0 {
			src = l.image.SubImage(image.Rect(0, 0, int(sr.Width), int(sr.Height))).(*ebiten.Image)
		}
		dst.DrawImage(src, &op)
	}
}

// drawGeoM maps texture pixels to the item's local rectangle, then through
// the scene transform.
func drawGeoM(l *Layer) ebiten.GeoM {
	var g ebiten.GeoM
	s := l.state
	if s.Geometry.Width > 0 && s.Geometry.Height > 0 {
		g.Scale(s.Geometry.Width/float64(l.w), s.Geometry.Height/float64(l.h))
	}
	var m ebiten.GeoM
	t := s.SceneTransform
	m.SetElement(0, 0, t[0])
	m.SetElement(0, 1, t[2])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 0, t[1])
	m.SetElement(1, 1, t[3])
	m.SetElement(1, 2, t[5])
	g.Concat(m)
	return g
}
