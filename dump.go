package arbor

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// DumpLine is one row of a tree dump.
type DumpLine struct {
	Item  *Item
	Depth int
	// Label is the indented item name.
	Label string
	// State is the compact state column, e.g. "VE..T..".
	State string
}

// DumpLines walks the subtree of root in child order and describes every
// item. Names are measured in terminal cells, so wide and combined
// characters line up.
func DumpLines(root *Item) []DumpLine {
	var lines []DumpLine
	var walk func(it *Item, depth int)
	walk = func(it *Item, depth int) {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("#%d", it.ID)
		}
		lines = append(lines, DumpLine{
			Item:  it,
			Depth: depth,
			Label: strings.Repeat("  ", depth) + name,
			State: it.stateString(),
		})
		for _, c := range it.children {
			walk(c, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return lines
}

// Dump renders the subtree of root as aligned text, one item per line.
func Dump(root *Item) string {
	lines := DumpLines(root)
	width := 0
	for _, l := range lines {
		width = max(width, uniseg.StringWidth(l.Label))
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(PadCells(l.Label, width))
		b.WriteString("  ")
		b.WriteString(l.State)
		g := l.Item.Geometry()
		fmt.Fprintf(&b, "  (%g,%g %gx%g)\n", g.X, g.Y, g.Width, g.Height)
	}
	return b.String()
}

// PadCells pads s with spaces to width terminal cells.
func PadCells(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// stateString returns one letter per state, or a dot when the state is off:
// visible, enabled, focus, active focus, tab stop, hovered, mirrored.
func (it *Item) stateString() string {
	flag := func(on bool, c byte) byte {
		if on {
			return c
		}
		return '.'
	}
	return string([]byte{
		flag(it.effectiveVisible, 'V'),
		flag(it.effectiveEnabled, 'E'),
		flag(it.focus, 'F'),
		flag(it.activeFocus, 'A'),
		flag(it.activeFocusOnTab, 'T'),
		flag(it.IsHovered(), 'H'),
		flag(it.effectiveLayoutMirror, 'M'),
	})
}
