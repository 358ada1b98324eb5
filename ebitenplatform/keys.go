package ebitenplatform

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

var keyMap = map[ebiten.Key]arbor.Key{
	ebiten.KeyEscape:         arbor.KeyEscape,
	ebiten.KeyTab:            arbor.KeyTab,
	ebiten.KeyBackspace:      arbor.KeyBackspace,
	ebiten.KeyEnter:          arbor.KeyReturn,
	ebiten.KeyNumpadEnter:    arbor.KeyEnter,
	ebiten.KeyInsert:         arbor.KeyInsert,
	ebiten.KeyDelete:         arbor.KeyDelete,
	ebiten.KeyHome:           arbor.KeyHome,
	ebiten.KeyEnd:            arbor.KeyEnd,
	ebiten.KeyPageUp:         arbor.KeyPageUp,
	ebiten.KeyPageDown:       arbor.KeyPageDown,
	ebiten.KeyArrowLeft:      arbor.KeyLeft,
	ebiten.KeyArrowUp:        arbor.KeyUp,
	ebiten.KeyArrowRight:     arbor.KeyRight,
	ebiten.KeyArrowDown:      arbor.KeyDown,
	ebiten.KeySpace:          arbor.KeySpace,
	ebiten.KeyNumpadMultiply: arbor.KeyAsterisk,
	ebiten.KeyContextMenu:    arbor.KeyMenu,
	ebiten.KeyF1:             arbor.KeyF1,
	ebiten.KeyF2:             arbor.KeyF2,
	ebiten.KeyF3:             arbor.KeyF3,
	ebiten.KeyF4:             arbor.KeyF4,
	ebiten.KeyF5:             arbor.KeyF5,
	ebiten.KeyF6:             arbor.KeyF6,
	ebiten.KeyF7:             arbor.KeyF7,
	ebiten.KeyF8:             arbor.KeyF8,
	ebiten.KeyF9:             arbor.KeyF9,
	ebiten.KeyF10:            arbor.KeyF10,
	ebiten.KeyF11:            arbor.KeyF11,
	ebiten.KeyF12:            arbor.KeyF12,
	ebiten.KeyShiftLeft:      arbor.KeyShift,
	ebiten.KeyShiftRight:     arbor.KeyShift,
	ebiten.KeyControlLeft:    arbor.KeyControl,
	ebiten.KeyControlRight:   arbor.KeyControl,
	ebiten.KeyAltLeft:        arbor.KeyAlt,
	ebiten.KeyAltRight:       arbor.KeyAlt,
	ebiten.KeyMetaLeft:       arbor.KeyMeta,
	ebiten.KeyMetaRight:      arbor.KeyMeta,
}

// Key maps an Ebitengine key to an arbor key. Unmapped keys return
// arbor.KeyUnknown.
func Key(k ebiten.Key) arbor.Key {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		return arbor.KeyA + arbor.Key(k-ebiten.KeyA)
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return arbor.Key0 + arbor.Key(k-ebiten.KeyDigit0)
	}
	if ak, ok := keyMap[k]; ok {
		return ak
	}
	return arbor.KeyUnknown
}
