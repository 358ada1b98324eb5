package arbor

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// SceneFile is the TOML description of an item tree.
//
//	[[item]]
//	name = "toolbar"
//	width = 200
//	height = 40
//	focus_scope = true
//
//	  [[item.children]]
//	  name = "ok"
//	  active_focus_on_tab = true
//	  focus = true
type SceneFile struct {
	Items []SceneItem `toml:"item"`
}

// SceneItem describes one item and its children. Unset optional fields keep
// the item defaults.
type SceneItem struct {
	Name             string      `toml:"name"`
	X                float64     `toml:"x"`
	Y                float64     `toml:"y"`
	Width            float64     `toml:"width"`
	Height           float64     `toml:"height"`
	Z                float64     `toml:"z"`
	Opacity          *float64    `toml:"opacity"`
	Scale            *float64    `toml:"scale"`
	Rotation         float64     `toml:"rotation"`
	Visible          *bool       `toml:"visible"`
	Enabled          *bool       `toml:"enabled"`
	Clip             bool        `toml:"clip"`
	FocusScope       bool        `toml:"focus_scope"`
	Focus            bool        `toml:"focus"`
	ActiveFocusOnTab bool        `toml:"active_focus_on_tab"`
	TabFence         bool        `toml:"tab_fence"`
	Mirror           *bool       `toml:"mirror"`
	MirrorInherit    bool        `toml:"mirror_children_inherit"`
	AcceptHover      bool        `toml:"accept_hover"`
	AcceptTouch      bool        `toml:"accept_touch"`
	AcceptButtons    []string    `toml:"accept_buttons"`
	Cursor           string      `toml:"cursor"`
	Children         []SceneItem `toml:"children"`
}

// Scene is a decoded item tree ready to be attached.
type Scene struct {
	Items []*Item
	focus []*Item
}

var cursorNames = map[string]CursorShape{
	"arrow":         CursorArrow,
	"ibeam":         CursorIBeam,
	"crosshair":     CursorCrosshair,
	"pointing_hand": CursorPointingHand,
	"resize_h":      CursorResizeHorizontal,
	"resize_v":      CursorResizeVertical,
	"resize_nesw":   CursorResizeDiagonalNESW,
	"resize_nwse":   CursorResizeDiagonalNWSE,
	"move":          CursorMove,
	"forbidden":     CursorForbidden,
}

var buttonNames = map[string]MouseButton{
	"left":   MouseButtonLeft,
	"right":  MouseButtonRight,
	"middle": MouseButtonMiddle,
}

// LoadScene reads a TOML scene file.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	defer f.Close()
	s, err := DecodeScene(f)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// DecodeScene reads a TOML scene from r and builds detached items.
func DecodeScene(r io.Reader) (*Scene, error) {
	var sf SceneFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	s := &Scene{}
	for i := range sf.Items {
		it, err := s.build(&sf.Items[i], nil)
		if err != nil {
			for _, built := range s.Items {
				built.Destroy()
			}
			it.Destroy()
			return nil, err
		}
		s.Items = append(s.Items, it)
	}
	return s, nil
}

func (s *Scene) build(si *SceneItem, parent *Item) (*Item, error) {
	it := NewItem(si.Name)
	if parent != nil {
		it.SetParent(parent)
	}
	it.SetPosition(Vec2{si.X, si.Y})
	it.SetSize(si.Width, si.Height)
	it.SetZ(si.Z)
	if si.Opacity != nil {
		it.SetOpacity(*si.Opacity)
	}
	if si.Scale != nil {
		it.SetScale(*si.Scale)
	}
	it.SetRotation(si.Rotation)
	if si.Visible != nil {
		it.SetVisible(*si.Visible)
	}
	if si.Enabled != nil {
		it.SetEnabled(*si.Enabled)
	}
	it.SetClip(si.Clip)
	if si.FocusScope {
		it.SetFlag(FlagFocusScope, true)
	}
	it.SetActiveFocusOnTab(si.ActiveFocusOnTab)
	it.SetTabFence(si.TabFence)
	if si.Mirror != nil {
		it.SetLayoutMirror(*si.Mirror)
	}
	it.SetLayoutMirrorChildrenInherit(si.MirrorInherit)
	it.SetAcceptHoverEvents(si.AcceptHover)
	it.SetAcceptTouchEvents(si.AcceptTouch)
	var buttons MouseButton
	for _, name := range si.AcceptButtons {
		b, ok := buttonNames[name]
		if !ok {
			return it, fmt.Errorf("decode scene: item %q: unknown button %q", si.Name, name)
		}
		buttons |= b
	}
	it.SetAcceptedMouseButtons(buttons)
	if si.Cursor != "" {
		c, ok := cursorNames[si.Cursor]
		if !ok {
			return it, fmt.Errorf("decode scene: item %q: unknown cursor %q", si.Name, si.Cursor)
		}
		it.SetCursor(c)
	}
	if si.Focus {
		s.focus = append(s.focus, it)
	}
	for i := range si.Children {
		if _, err := s.build(&si.Children[i], it); err != nil {
			return it, err
		}
	}
	return it, nil
}

// AttachTo parents the scene's top-level items to parent and then applies
// the focus requests in document order, so later requests in the same
// scope win.
func (s *Scene) AttachTo(parent *Item) {
	for _, it := range s.Items {
		it.SetParent(parent)
	}
	for _, it := range s.focus {
		if !it.destroyed {
			it.SetFocus(true)
		}
	}
}

// Find returns the first item with the given name, searching the top-level
// items and their descendants.
func (s *Scene) Find(name string) *Item {
	for _, it := range s.Items {
		if it.Name == name {
			return it
		}
		if found := it.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}
