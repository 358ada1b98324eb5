package arbor

import "reflect"

// ContainmentMask replaces an item's rectangular hit test. Contains receives
// points in the masked item's local coordinates.
//
// An *Item is a valid mask: the point is moved into the mask item's
// coordinates by subtracting its position, and the mask item's own Contains
// (which may itself be masked) decides.
type ContainmentMask interface {
	Contains(p Vec2) bool
}

// SetContainmentMask sets the mask used by Contains and by pointer and hover
// delivery. nil, including a typed nil pointer, restores the default bounds
// test. An item cannot mask itself, directly or through a chain of item
// masks.
func (it *Item) SetContainmentMask(m ContainmentMask) {
	if isNilMask(m) {
		if it.extra != nil {
			it.extra.mask = nil
		}
		return
	}
	for cur := m; cur != nil; {
		mi, ok := cur.(*Item)
		if !ok {
			break
		}
		if mi == it {
			warn("SetContainmentMask", it, ErrInvalidMask, "mask", mi.String())
			return
		}
		if mi.extra == nil {
			break
		}
		cur = mi.extra.mask
	}
	it.extraData().mask = m
}

// ContainmentMask returns the mask set on the item, or nil.
func (it *Item) ContainmentMask() ContainmentMask {
	if it.extra == nil {
		return nil
	}
	return it.extra.mask
}

func isNilMask(m ContainmentMask) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func maskContains(m ContainmentMask, p Vec2) bool {
	if mi, ok := m.(*Item); ok {
		return mi.Contains(p.Sub(mi.Position()))
	}
	return m.Contains(p)
}

// --- Built-in masks ---

// MaskFunc adapts a plain function to ContainmentMask.
type MaskFunc func(p Vec2) bool

// Contains calls f(p).
func (f MaskFunc) Contains(p Vec2) bool { return f(p) }

// HitRect is an axis-aligned rectangular hit area in local coordinates.
// Unlike the default item bounds it includes its right and bottom edges.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside the rectangle.
func (r HitRect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	Center Vec2
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c HitCircle) Contains(p Vec2) bool {
	d := p.Sub(c.Center)
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

// HitEllipse is an axis-aligned elliptical hit area filling the rectangle
// (0, 0, Width, Height), the usual shape of round buttons.
type HitEllipse struct {
	Width, Height float64
}

// Contains reports whether p lies inside or on the ellipse.
func (e HitEllipse) Contains(p Vec2) bool {
	if e.Width <= 0 || e.Height <= 0 {
		return false
	}
	rx, ry := e.Width/2, e.Height/2
	dx, dy := (p.X-rx)/rx, (p.Y-ry)/ry
	return dx*dx+dy*dy <= 1
}

// HitPolygon is a polygonal hit area in local coordinates. The polygon may
// be concave; self-intersecting outlines use the even-odd rule.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether p lies inside the polygon or on its outline.
func (poly HitPolygon) Contains(p Vec2) bool {
	n := len(poly.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly.Points[i], poly.Points[j]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, p Vec2) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross != 0 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}
