package arbor

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translation returns a matrix that moves points by (x, y).
func Translation(x, y float64) Affine { return Affine{1, 0, 0, 1, x, y} }

// Scaling returns a matrix that scales points by (sx, sy) around the origin.
func Scaling(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// RotationDegrees returns a matrix that rotates points clockwise (Y down) by
// deg degrees around the origin.
func RotationDegrees(deg float64) Affine {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Mul multiplies two affine matrices: result = m * c. Applying the result to
// a point applies c first.
func (m Affine) Mul(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert computes the inverse of m. ok is false and the identity is returned
// when m is singular.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// Apply maps p through m.
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// IsIdentity reports whether m is exactly the identity.
func (m Affine) IsIdentity() bool { return m == Identity }

// --- Transform operators ---

// Transform is an extra operator in an item's transform list. Operators are
// shared: one Translate may be appended to many items and updating it marks
// all of them dirty.
type Transform interface {
	// ApplyTo returns m with the operator post-multiplied.
	ApplyTo(m Affine) Affine

	base() *TransformBase
}

// TransformBase tracks the items an operator is attached to. Custom operators
// embed it and call Update after changing their parameters.
type TransformBase struct {
	items []*Item
}

func (b *TransformBase) base() *TransformBase { return b }

// Update marks every item using this operator as transform-dirty.
func (b *TransformBase) Update() {
	for _, it := range b.items {
		it.dirty(DirtyTransform)
	}
}

func (b *TransformBase) attach(it *Item) { b.items = append(b.items, it) }

func (b *TransformBase) detach(it *Item) {
	for i, other := range b.items {
		if other == it {
			copy(b.items[i:], b.items[i+1:])
			b.items[len(b.items)-1] = nil
			b.items = b.items[:len(b.items)-1]
			return
		}
	}
}

// Translate moves an item by a fixed offset.
type Translate struct {
	TransformBase
	x, y float64
}

// NewTranslate creates a translation operator.
func NewTranslate(x, y float64) *Translate { return &Translate{x: x, y: y} }

// SetOffset changes the translation.
func (t *Translate) SetOffset(x, y float64) {
	if t.x == x && t.y == y {
		return
	}
	t.x, t.y = x, y
	t.Update()
}

// ApplyTo implements Transform.
func (t *Translate) ApplyTo(m Affine) Affine { return m.Mul(Translation(t.x, t.y)) }

// Scale scales an item around an origin in its local coordinates.
type Scale struct {
	TransformBase
	origin Vec2
	sx, sy float64
}

// NewScale creates a scale operator.
func NewScale(origin Vec2, sx, sy float64) *Scale { return &Scale{origin: origin, sx: sx, sy: sy} }

// SetFactors changes the scale factors.
func (s *Scale) SetFactors(sx, sy float64) {
	if s.sx == sx && s.sy == sy {
		return
	}
	s.sx, s.sy = sx, sy
	s.Update()
}

// ApplyTo implements Transform.
func (s *Scale) ApplyTo(m Affine) Affine {
	return m.Mul(Translation(s.origin.X, s.origin.Y)).
		Mul(Scaling(s.sx, s.sy)).
		Mul(Translation(-s.origin.X, -s.origin.Y))
}

// Rotation rotates an item around an origin in its local coordinates.
type Rotation struct {
	TransformBase
	origin Vec2
	angle  float64
}

// NewRotation creates a rotation operator. angle is in degrees.
func NewRotation(origin Vec2, angle float64) *Rotation {
	return &Rotation{origin: origin, angle: angle}
}

// SetAngle changes the rotation angle in degrees.
func (r *Rotation) SetAngle(angle float64) {
	if r.angle == angle {
		return
	}
	r.angle = angle
	r.Update()
}

// ApplyTo implements Transform.
func (r *Rotation) ApplyTo(m Affine) Affine {
	return m.Mul(Translation(r.origin.X, r.origin.Y)).
		Mul(RotationDegrees(r.angle)).
		Mul(Translation(-r.origin.X, -r.origin.Y))
}

// --- Item transform ---

// transformOriginPoint returns the pivot for scale and rotation in local
// coordinates.
func (it *Item) transformOriginPoint() Vec2 {
	w, h := it.width, it.height
	switch it.origin {
	case OriginTopLeft:
		return Vec2{0, 0}
	case OriginTop:
		return Vec2{w / 2, 0}
	case OriginTopRight:
		return Vec2{w, 0}
	case OriginLeft:
		return Vec2{0, h / 2}
	case OriginRight:
		return Vec2{w, h / 2}
	case OriginBottomLeft:
		return Vec2{0, h}
	case OriginBottom:
		return Vec2{w / 2, h}
	case OriginBottomRight:
		return Vec2{w, h}
	case OriginExplicit:
		return it.originPoint
	default:
		return Vec2{w / 2, h / 2}
	}
}

// ItemTransform returns the matrix mapping local coordinates into the
// parent's coordinates.
//
// Composition order:
//
//	Translate(x, y) * Extra[n-1] * ... * Extra[0] * Translate(o) * Scale * Rotate * Translate(-o)
func (it *Item) ItemTransform() Affine {
	m := Identity
	if it.x != 0 || it.y != 0 {
		m = Translation(it.x, it.y)
	}
	for i := len(it.transforms) - 1; i >= 0; i-- {
		m = it.transforms[i].ApplyTo(m)
	}
	if it.scale != 1 || it.rotation != 0 {
		o := it.transformOriginPoint()
		m = m.Mul(Translation(o.X, o.Y)).
			Mul(Scaling(it.scale, it.scale)).
			Mul(RotationDegrees(it.rotation)).
			Mul(Translation(-o.X, -o.Y))
	}
	return m
}

// SceneTransform returns the matrix mapping local coordinates into scene
// (window) coordinates. It is cached until a transform of the item or of one
// of its ancestors changes.
func (it *Item) SceneTransform() Affine {
	if !it.sceneTransformDirty {
		return it.sceneTransform
	}
	local := it.ItemTransform()
	if it.parent != nil {
		it.sceneTransform = it.parent.SceneTransform().Mul(local)
	} else {
		it.sceneTransform = local
	}
	it.sceneTransformDirty = false
	return it.sceneTransform
}

// transformChanged invalidates the cached scene transform of it and its
// subtree.
func transformChanged(it *Item) {
	it.sceneTransformDirty = true
	for _, child := range it.children {
		if !child.sceneTransformDirty {
			transformChanged(child)
		}
	}
}

// --- Coordinate conversion ---

// MapToScene converts a local point into scene coordinates.
func (it *Item) MapToScene(p Vec2) Vec2 {
	return it.SceneTransform().Apply(p)
}

// MapFromScene converts a scene point into local coordinates. A singular
// scene transform leaves the point unchanged.
func (it *Item) MapFromScene(p Vec2) Vec2 {
	inv, _ := it.SceneTransform().Invert()
	return inv.Apply(p)
}

// MapToItem converts a local point into other's coordinates. A nil other
// means the scene.
func (it *Item) MapToItem(other *Item, p Vec2) Vec2 {
	s := it.MapToScene(p)
	if other == nil {
		return s
	}
	return other.MapFromScene(s)
}

// MapFromItem converts a point in other's coordinates into local coordinates.
// A nil other means the scene.
func (it *Item) MapFromItem(other *Item, p Vec2) Vec2 {
	if other != nil {
		p = other.MapToScene(p)
	}
	return it.MapFromScene(p)
}

// --- Transform property setters ---

// SetScale sets the uniform scale factor.
func (it *Item) SetScale(s float64) {
	if it.scale == s {
		return
	}
	it.scale = s
	it.dirty(DirtyBasicTransform)
	it.notifyTransformListeners()
}

// Scale returns the uniform scale factor.
func (it *Item) Scale() float64 { return it.scale }

// SetRotation sets the rotation in degrees, clockwise.
func (it *Item) SetRotation(deg float64) {
	if it.rotation == deg {
		return
	}
	it.rotation = deg
	it.dirty(DirtyBasicTransform)
	it.itemChange(ItemRotationHasChanged, ItemChangeData{Real: deg})
}

// Rotation returns the rotation in degrees.
func (it *Item) Rotation() float64 { return it.rotation }

// SetTransformOrigin selects one of the nine anchor points as pivot.
func (it *Item) SetTransformOrigin(o TransformOrigin) {
	if it.origin == o {
		return
	}
	it.origin = o
	it.dirty(DirtyTransformOrigin)
}

// SetTransformOriginPoint sets an explicit pivot in local coordinates.
func (it *Item) SetTransformOriginPoint(p Vec2) {
	if it.origin == OriginExplicit && it.originPoint == p {
		return
	}
	it.origin = OriginExplicit
	it.originPoint = p
	it.dirty(DirtyTransformOrigin)
}

// TransformOrigin returns the pivot selection.
func (it *Item) TransformOrigin() TransformOrigin { return it.origin }

// AppendTransform adds an operator to the end of the item's transform list.
func (it *Item) AppendTransform(t Transform) {
	if t == nil {
		return
	}
	it.transforms = append(it.transforms, t)
	t.base().attach(it)
	it.dirty(DirtyTransform)
}

// RemoveTransform detaches t from the item.
func (it *Item) RemoveTransform(t Transform) {
	for i, other := range it.transforms {
		if other == t {
			copy(it.transforms[i:], it.transforms[i+1:])
			it.transforms[len(it.transforms)-1] = nil
			it.transforms = it.transforms[:len(it.transforms)-1]
			t.base().detach(it)
			it.dirty(DirtyTransform)
			return
		}
	}
}

// ClearTransforms detaches every extra operator.
func (it *Item) ClearTransforms() {
	if len(it.transforms) == 0 {
		return
	}
	for _, t := range it.transforms {
		t.base().detach(it)
	}
	it.transforms = nil
	it.dirty(DirtyTransform)
}

// Transforms returns the extra operator list. The returned slice MUST NOT be
// mutated by the caller.
func (it *Item) Transforms() []Transform { return it.transforms }

func (it *Item) notifyTransformListeners() {
	it.notifyListeners(ChangeGeometry, func(l ChangeListener) {
		l.ItemGeometryChanged(it, GeometryTransform, it.Geometry())
	})
}
