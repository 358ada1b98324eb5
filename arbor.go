package arbor

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// MouseButton identifies a mouse button. Values are bits so that a set of
// buttons can be stored in one MouseButton mask.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = 1 << iota // primary (left) mouse button
	MouseButtonRight                          // secondary (right) mouse button
	MouseButtonMiddle                         // middle mouse button (scroll wheel click)
)

// MouseButtonNone is the button of events that involve no button (moves, hover).
const MouseButtonNone MouseButton = 0

// AllButtons accepts every mouse button.
const AllButtons = MouseButtonLeft | MouseButtonRight | MouseButtonMiddle

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// CursorShape selects the pointer cursor shown by the platform.
type CursorShape uint8

const (
	CursorArrow CursorShape = iota
	CursorIBeam
	CursorCrosshair
	CursorPointingHand
	CursorResizeHorizontal
	CursorResizeVertical
	CursorResizeDiagonalNESW
	CursorResizeDiagonalNWSE
	CursorMove
	CursorForbidden
)

// FocusReason records why focus moved.
type FocusReason uint8

const (
	FocusReasonOther FocusReason = iota
	FocusReasonMouse
	FocusReasonTab
	FocusReasonBacktab
	FocusReasonActiveWindow
	FocusReasonPopup
	FocusReasonShortcut
)

var focusReasonNames = [...]string{
	FocusReasonOther:        "other",
	FocusReasonMouse:        "mouse",
	FocusReasonTab:          "tab",
	FocusReasonBacktab:      "backtab",
	FocusReasonActiveWindow: "active window",
	FocusReasonPopup:        "popup",
	FocusReasonShortcut:     "shortcut",
}

func (r FocusReason) String() string {
	if int(r) < len(focusReasonNames) {
		return focusReasonNames[r]
	}
	return "unknown"
}

// ItemFlag is a bitmask of item capabilities.
type ItemFlag uint16

const (
	FlagClipsChildren ItemFlag = 1 << iota
	FlagAcceptsInputMethod
	FlagFocusScope
	FlagHasContents
	FlagAcceptsDrops
	FlagViewport
	FlagObservesViewport
)

// TransformOrigin selects the point scale and rotation pivot around.
type TransformOrigin uint8

const (
	OriginTopLeft TransformOrigin = iota
	OriginTop
	OriginTopRight
	OriginLeft
	OriginCenter
	OriginRight
	OriginBottomLeft
	OriginBottom
	OriginBottomRight
	// OriginExplicit uses the point given to SetTransformOriginPoint.
	OriginExplicit
)

// Tristate is an optional boolean.
type Tristate uint8

const (
	Unset Tristate = iota
	False
	True
)

// Bool converts b into a set Tristate.
func Bool(b bool) Tristate {
	if b {
		return True
	}
	return False
}
