package ebitenplatform

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// Cursor is an arbor.CursorSink that sets the Ebitengine cursor shape.
type Cursor struct{}

// SetCursor implements arbor.CursorSink.
func (Cursor) SetCursor(c arbor.CursorShape) { ebiten.SetCursorShape(CursorShape(c)) }

// UnsetCursor implements arbor.CursorSink.
func (Cursor) UnsetCursor() { ebiten.SetCursorShape(ebiten.CursorShapeDefault) }

// CursorShape maps an arbor cursor to the closest Ebitengine shape.
func CursorShape(c arbor.CursorShape) ebiten.CursorShapeType {
	switch c {
	case arbor.CursorIBeam:
		return ebiten.CursorShapeText
	case arbor.CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case arbor.CursorPointingHand:
		return ebiten.CursorShapePointer
	case arbor.CursorResizeHorizontal:
		return ebiten.CursorShapeEWResize
	case arbor.CursorResizeVertical:
		return ebiten.CursorShapeNSResize
	case arbor.CursorResizeDiagonalNESW:
		return ebiten.CursorShapeNESWResize
	case arbor.CursorResizeDiagonalNWSE:
		return ebiten.CursorShapeNWSEResize
	case arbor.CursorMove:
		return ebiten.CursorShapeMove
	case arbor.CursorForbidden:
		return ebiten.CursorShapeNotAllowed
	}
	return ebiten.CursorShapeDefault
}
