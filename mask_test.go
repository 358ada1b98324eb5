package arbor

import "testing"

// --- Built-in masks ---

func TestBuiltinMasks(t *testing.T) {
	triangle := HitPolygon{Points: []Vec2{{0, 0}, {10, 0}, {0, 10}}}
	notch := HitPolygon{Points: []Vec2{{0, 0}, {10, 0}, {10, 10}, {5, 5}, {0, 10}}}

	tests := []struct {
		name string
		mask ContainmentMask
		p    Vec2
		want bool
	}{
		{"rect inside", HitRect{X: 5, Y: 5, Width: 10, Height: 10}, Vec2{10, 10}, true},
		{"rect right edge", HitRect{X: 5, Y: 5, Width: 10, Height: 10}, Vec2{15, 15}, true},
		{"rect outside", HitRect{X: 5, Y: 5, Width: 10, Height: 10}, Vec2{4, 10}, false},
		{"circle center", HitCircle{Center: Vec2{10, 10}, Radius: 5}, Vec2{10, 10}, true},
		{"circle edge", HitCircle{Center: Vec2{10, 10}, Radius: 5}, Vec2{15, 10}, true},
		{"circle corner", HitCircle{Center: Vec2{10, 10}, Radius: 5}, Vec2{14, 14}, false},
		{"ellipse center", HitEllipse{Width: 20, Height: 10}, Vec2{10, 5}, true},
		{"ellipse bounding corner", HitEllipse{Width: 20, Height: 10}, Vec2{1, 1}, false},
		{"empty ellipse", HitEllipse{}, Vec2{0, 0}, false},
		{"triangle inside", triangle, Vec2{2, 2}, true},
		{"triangle hypotenuse", triangle, Vec2{5, 5}, true},
		{"triangle outside", triangle, Vec2{6, 6}, false},
		{"concave notch", notch, Vec2{5, 8}, false},
		{"concave body", notch, Vec2{8, 6}, true},
		{"degenerate polygon", HitPolygon{Points: []Vec2{{0, 0}, {1, 1}}}, Vec2{0, 0}, false},
		{"func", MaskFunc(func(p Vec2) bool { return p.X > 3 }), Vec2{4, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mask.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// --- Item masks ---

func TestContainmentMaskReplacesBounds(t *testing.T) {
	it := NewItem("round")
	it.SetSize(20, 20)
	it.SetContainmentMask(HitCircle{Center: Vec2{10, 10}, Radius: 10})
	if it.Contains(Vec2{1, 1}) {
		t.Error("corner inside the round mask")
	}
	if !it.Contains(Vec2{10, 20}) {
		t.Error("bottom edge outside the round mask")
	}

	it.SetContainmentMask(nil)
	if !it.Contains(Vec2{1, 1}) {
		t.Error("corner outside after resetting the mask")
	}
	if it.Contains(Vec2{10, 20}) {
		t.Error("bottom edge inside the default bounds")
	}
}

func TestTypedNilMaskResets(t *testing.T) {
	it := NewItem("it")
	it.SetContainmentMask(HitRect{Width: 1, Height: 1})
	var other *Item
	it.SetContainmentMask(other)
	if it.ContainmentMask() != nil {
		t.Errorf("ContainmentMask = %v, want nil", it.ContainmentMask())
	}
	var f MaskFunc
	it.SetContainmentMask(f)
	if it.ContainmentMask() != nil {
		t.Error("nil MaskFunc kept as a mask")
	}
}

func TestItemAsMask(t *testing.T) {
	shape := NewItem("shape")
	shape.SetPosition(Vec2{10, 10})
	shape.SetSize(10, 10)
	it := NewItem("it")
	it.SetSize(100, 100)
	it.SetContainmentMask(shape)

	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{15, 15}, true},
		{Vec2{5, 5}, false},
		{Vec2{50, 50}, false},
	}
	for _, tt := range tests {
		if got := it.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// The mask item's own mask applies too.
	shape.SetContainmentMask(HitCircle{Center: Vec2{5, 5}, Radius: 2})
	if it.Contains(Vec2{11, 11}) {
		t.Error("Contains outside the nested circle")
	}
	if !it.Contains(Vec2{15, 15}) {
		t.Error("nested circle center not contained")
	}
}

func TestSelfMaskRejected(t *testing.T) {
	log := captureLog(t)
	a, b := NewItem("a"), NewItem("b")
	a.SetContainmentMask(a)
	b.SetContainmentMask(a)
	a.SetContainmentMask(b)
	if a.ContainmentMask() != nil {
		t.Errorf("a mask = %v, want nil", a.ContainmentMask())
	}
	if b.ContainmentMask() != ContainmentMask(a) {
		t.Errorf("b mask = %v, want a", b.ContainmentMask())
	}
	if len(log.errs) != 2 || !log.has(ErrInvalidMask) {
		t.Errorf("errs = %v, want two ErrInvalidMask", log.errs)
	}
}

func TestMaskedItemIgnoresPressOutsideShape(t *testing.T) {
	w := NewWindow(200, 200)
	btn, log := mouseButton(w.ContentItem(), "round", 0, 0, 40, 40)
	btn.SetContainmentMask(HitEllipse{Width: 40, Height: 40})

	w.DeliverPointer(mouseAt(EventMousePress, 2, 2, MouseButtonLeft, MouseButtonLeft))
	if len(log.types) != 0 {
		t.Errorf("press in the corner delivered: %v", log.types)
	}
	w.DeliverPointer(mouseAt(EventMousePress, 20, 20, MouseButtonLeft, MouseButtonLeft))
	assertTypes(t, "events", log.types, EventMousePress)
}
