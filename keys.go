package arbor

// Key identifies a keyboard key independent of the platform layer.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyReturn
	KeyEnter
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeySpace
	KeyAsterisk
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
	KeyMenu
	KeyBack
	KeyCancel
	KeySelect
	KeyYes
	KeyNo
	KeyContext1
	KeyContext2
	KeyContext3
	KeyContext4
	KeyCall
	KeyHangup
	KeyFlip
	KeyVolumeUp
	KeyVolumeDown
)

var keyNames = [...]string{
	KeyUnknown:    "unknown",
	KeyEscape:     "escape",
	KeyTab:        "tab",
	KeyBacktab:    "backtab",
	KeyBackspace:  "backspace",
	KeyReturn:     "return",
	KeyEnter:      "enter",
	KeyInsert:     "insert",
	KeyDelete:     "delete",
	KeyHome:       "home",
	KeyEnd:        "end",
	KeyPageUp:     "pageup",
	KeyPageDown:   "pagedown",
	KeyLeft:       "left",
	KeyUp:         "up",
	KeyRight:      "right",
	KeyDown:       "down",
	KeySpace:      "space",
	KeyAsterisk:   "asterisk",
	Key0:          "0",
	Key1:          "1",
	Key2:          "2",
	Key3:          "3",
	Key4:          "4",
	Key5:          "5",
	Key6:          "6",
	Key7:          "7",
	Key8:          "8",
	Key9:          "9",
	KeyA:          "a",
	KeyB:          "b",
	KeyC:          "c",
	KeyD:          "d",
	KeyE:          "e",
	KeyF:          "f",
	KeyG:          "g",
	KeyH:          "h",
	KeyI:          "i",
	KeyJ:          "j",
	KeyK:          "k",
	KeyL:          "l",
	KeyM:          "m",
	KeyN:          "n",
	KeyO:          "o",
	KeyP:          "p",
	KeyQ:          "q",
	KeyR:          "r",
	KeyS:          "s",
	KeyT:          "t",
	KeyU:          "u",
	KeyV:          "v",
	KeyW:          "w",
	KeyX:          "x",
	KeyY:          "y",
	KeyZ:          "z",
	KeyF1:         "f1",
	KeyF2:         "f2",
	KeyF3:         "f3",
	KeyF4:         "f4",
	KeyF5:         "f5",
	KeyF6:         "f6",
	KeyF7:         "f7",
	KeyF8:         "f8",
	KeyF9:         "f9",
	KeyF10:        "f10",
	KeyF11:        "f11",
	KeyF12:        "f12",
	KeyShift:      "shift",
	KeyControl:    "control",
	KeyAlt:        "alt",
	KeyMeta:       "meta",
	KeyMenu:       "menu",
	KeyBack:       "back",
	KeyCancel:     "cancel",
	KeySelect:     "select",
	KeyYes:        "yes",
	KeyNo:         "no",
	KeyContext1:   "context1",
	KeyContext2:   "context2",
	KeyContext3:   "context3",
	KeyContext4:   "context4",
	KeyCall:       "call",
	KeyHangup:     "hangup",
	KeyFlip:       "flip",
	KeyVolumeUp:   "volumeup",
	KeyVolumeDown: "volumedown",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// KeyByName looks up a key by its lower-case name, such as "tab", "a" or
// "f5". It is the inverse of Key.String.
func KeyByName(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return KeyUnknown, false
}

// KeyAction is the typed action a key maps to for per-action callbacks on
// Keys. Keys without an action map to ActionNone.
type KeyAction uint8

const (
	ActionNone KeyAction = iota
	ActionDigit0
	ActionDigit1
	ActionDigit2
	ActionDigit3
	ActionDigit4
	ActionDigit5
	ActionDigit6
	ActionDigit7
	ActionDigit8
	ActionDigit9
	ActionAsterisk
	ActionEscape
	ActionReturn
	ActionEnter
	ActionDelete
	ActionSpace
	ActionBack
	ActionCancel
	ActionSelect
	ActionYes
	ActionNo
	ActionContext1
	ActionContext2
	ActionContext3
	ActionContext4
	ActionCall
	ActionHangup
	ActionFlip
	ActionMenu
	ActionVolumeUp
	ActionVolumeDown
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionTab
	ActionBacktab

	numKeyActions
)

// ActionForKey returns the action k triggers.
func ActionForKey(k Key) KeyAction {
	switch {
	case k >= Key0 && k <= Key9:
		return ActionDigit0 + KeyAction(k-Key0)
	case k >= KeyContext1 && k <= KeyContext4:
		return ActionContext1 + KeyAction(k-KeyContext1)
	}
	switch k {
	case KeyAsterisk:
		return ActionAsterisk
	case KeyEscape:
		return ActionEscape
	case KeyReturn:
		return ActionReturn
	case KeyEnter:
		return ActionEnter
	case KeyDelete:
		return ActionDelete
	case KeySpace:
		return ActionSpace
	case KeyBack:
		return ActionBack
	case KeyCancel:
		return ActionCancel
	case KeySelect:
		return ActionSelect
	case KeyYes:
		return ActionYes
	case KeyNo:
		return ActionNo
	case KeyCall:
		return ActionCall
	case KeyHangup:
		return ActionHangup
	case KeyFlip:
		return ActionFlip
	case KeyMenu:
		return ActionMenu
	case KeyVolumeUp:
		return ActionVolumeUp
	case KeyVolumeDown:
		return ActionVolumeDown
	case KeyLeft:
		return ActionLeft
	case KeyRight:
		return ActionRight
	case KeyUp:
		return ActionUp
	case KeyDown:
		return ActionDown
	case KeyTab:
		return ActionTab
	case KeyBacktab:
		return ActionBacktab
	}
	return ActionNone
}

// KeyEventType distinguishes presses from releases.
type KeyEventType uint8

const (
	KeyPress KeyEventType = iota
	KeyRelease
)

// KeyEvent is a key press or release.
type KeyEvent struct {
	Type       KeyEventType
	Key        Key
	Rune       rune
	Text       string
	Modifiers  KeyModifiers
	AutoRepeat bool

	accepted bool
}

// Accept marks the event as handled.
func (e *KeyEvent) Accept() { e.accepted = true }

// Ignore marks the event as not handled so that it continues to propagate.
func (e *KeyEvent) Ignore() { e.accepted = false }

// SetAccepted sets the accepted flag.
func (e *KeyEvent) SetAccepted(v bool) { e.accepted = v }

// IsAccepted reports whether the event was handled.
func (e *KeyEvent) IsAccepted() bool { return e.accepted }

// --- Key filter chain ---

// KeyFilter is a link in an item's key filter chain. Filters run before the
// item's own key handling or after it, depending on their priority.
// Implementations embed KeyFilterBase and call its methods to pass an event
// on to the next filter.
type KeyFilter interface {
	KeyPressed(e *KeyEvent, post bool)
	KeyReleased(e *KeyEvent, post bool)

	filterBase() *KeyFilterBase
}

// KeyPriority selects when a filter runs relative to the item's handlers.
type KeyPriority uint8

const (
	BeforeItem KeyPriority = iota
	AfterItem
)

// KeyFilterBase forwards events to the next filter in the chain. A filter
// at the end of the chain ignores the event.
type KeyFilterBase struct {
	next        KeyFilter
	processPost bool
}

func (b *KeyFilterBase) filterBase() *KeyFilterBase { return b }

// KeyPressed passes the press on to the next filter.
func (b *KeyFilterBase) KeyPressed(e *KeyEvent, post bool) {
	if b.next != nil {
		b.next.KeyPressed(e, post)
		return
	}
	e.Ignore()
}

// KeyReleased passes the release on to the next filter.
func (b *KeyFilterBase) KeyReleased(e *KeyEvent, post bool) {
	if b.next != nil {
		b.next.KeyReleased(e, post)
		return
	}
	e.Ignore()
}

// Priority returns when the filter runs.
func (b *KeyFilterBase) Priority() KeyPriority {
	if b.processPost {
		return AfterItem
	}
	return BeforeItem
}

// SetPriority selects whether the filter runs before or after the item's
// own key handlers.
func (b *KeyFilterBase) SetPriority(p KeyPriority) { b.processPost = p == AfterItem }

// InstallKeyFilter puts f at the head of the item's filter chain. The most
// recently installed filter sees events first.
func (it *Item) InstallKeyFilter(f KeyFilter) {
	if f == nil {
		return
	}
	e := it.extraData()
	f.filterBase().next = e.keyFilter
	e.keyFilter = f
}

// RemoveKeyFilter unlinks f from the item's filter chain.
func (it *Item) RemoveKeyFilter(f KeyFilter) {
	if it.extra == nil || f == nil {
		return
	}
	e := it.extra
	if e.keyFilter == f {
		e.keyFilter = f.filterBase().next
		f.filterBase().next = nil
		return
	}
	for cur := e.keyFilter; cur != nil; cur = cur.filterBase().next {
		if cur.filterBase().next == f {
			cur.filterBase().next = f.filterBase().next
			f.filterBase().next = nil
			return
		}
	}
}

// deliverKeyEvent runs the item's key handling for an event that arrives
// accepted: pre filters, the item's own handler, post filters, then tab
// navigation.
func (it *Item) deliverKeyEvent(e *KeyEvent) {
	var head KeyFilter
	if it.extra != nil {
		head = it.extra.keyFilter
	}
	if head != nil {
		if e.Type == KeyPress {
			head.KeyPressed(e, false)
		} else {
			head.KeyReleased(e, false)
		}
		if e.accepted {
			return
		}
		e.accepted = true
	}

	handler := it.OnKeyPress
	if e.Type == KeyRelease {
		handler = it.OnKeyRelease
	}
	if handler != nil {
		handler(e)
	} else {
		e.Ignore()
	}
	if e.accepted {
		return
	}

	if head = it.keyFilterHead(); head != nil {
		e.accepted = true
		if e.Type == KeyPress {
			head.KeyPressed(e, true)
		} else {
			head.KeyReleased(e, true)
		}
	}
	if e.accepted || it.window == nil {
		return
	}

	if e.Type == KeyPress && (it == it.window.contentItem || it.activeFocusOnTab) {
		if e.Modifiers&^ModShift != 0 {
			return
		}
		moved := false
		switch {
		case e.Key == KeyBacktab || (e.Key == KeyTab && e.Modifiers&ModShift != 0):
			moved = focusNextPrev(it, false)
		case e.Key == KeyTab:
			moved = focusNextPrev(it, true)
		}
		if moved {
			e.accepted = true
		}
	}
}

// keyFilterHead re-reads the chain head; handlers may install or remove
// filters while an event is being delivered.
func (it *Item) keyFilterHead() KeyFilter {
	if it.extra == nil {
		return nil
	}
	return it.extra.keyFilter
}

// --- Keys ---

// Keys is the general purpose key filter. It forwards events to a list of
// target items, then calls per-action callbacks, then OnPressed and
// OnReleased.
type Keys struct {
	KeyFilterBase

	item    *Item
	enabled bool
	targets []*Item

	inPress, inRelease bool

	actions [numKeyActions]func(e *KeyEvent)

	// OnPressed is called for presses no action callback accepted. The event
	// arrives not accepted.
	OnPressed func(e *KeyEvent)
	// OnReleased is called for releases. The event arrives not accepted.
	OnReleased func(e *KeyEvent)
}

// KeysFor returns the Keys filter attached to it, installing one on first
// use.
func KeysFor(it *Item) *Keys {
	e := it.extraData()
	if e.keys == nil {
		e.keys = &Keys{item: it, enabled: true}
		it.InstallKeyFilter(e.keys)
	}
	return e.keys
}

// Enabled reports whether the filter handles events.
func (k *Keys) Enabled() bool { return k.enabled }

// SetEnabled turns the filter on or off. A disabled filter passes every
// event through.
func (k *Keys) SetEnabled(on bool) { k.enabled = on }

// ForwardTo sets the items key events are forwarded to, in order. Forwarding
// stops at the first visible target that accepts the event.
func (k *Keys) ForwardTo(targets ...*Item) { k.targets = append(k.targets[:0], targets...) }

// Targets returns the forwarding targets.
func (k *Keys) Targets() []*Item { return k.targets }

// OnAction sets the callback for a key action. Events reach it already
// accepted; call Ignore to pass them on to OnPressed.
func (k *Keys) OnAction(a KeyAction, fn func(e *KeyEvent)) {
	if a == ActionNone || a >= numKeyActions {
		return
	}
	k.actions[a] = fn
}

// KeyPressed implements KeyFilter.
func (k *Keys) KeyPressed(e *KeyEvent, post bool) {
	if post != k.processPost || !k.enabled || k.inPress {
		e.Ignore()
		k.KeyFilterBase.KeyPressed(e, post)
		return
	}

	if k.item != nil && k.item.window != nil {
		k.inPress = true
		for _, t := range k.targets {
			if t != nil && !t.destroyed && t.effectiveVisible {
				e.accepted = true
				t.deliverKeyEvent(e)
				if e.accepted {
					k.inPress = false
					return
				}
			}
		}
		k.inPress = false
	}

	e.accepted = false
	if fn := k.actions[ActionForKey(e.Key)]; fn != nil {
		e.accepted = true
		fn(e)
	}
	if !e.accepted && k.OnPressed != nil {
		k.OnPressed(e)
	}
	if !e.accepted {
		k.KeyFilterBase.KeyPressed(e, post)
	}
}

// KeyReleased implements KeyFilter.
func (k *Keys) KeyReleased(e *KeyEvent, post bool) {
	if post != k.processPost || !k.enabled || k.inRelease {
		e.Ignore()
		k.KeyFilterBase.KeyReleased(e, post)
		return
	}

	if k.item != nil && k.item.window != nil {
		k.inRelease = true
		for _, t := range k.targets {
			if t != nil && !t.destroyed && t.effectiveVisible {
				e.accepted = true
				t.deliverKeyEvent(e)
				if e.accepted {
					k.inRelease = false
					return
				}
			}
		}
		k.inRelease = false
	}

	e.accepted = false
	if k.OnReleased != nil {
		k.OnReleased(e)
	}
	if !e.accepted {
		k.KeyFilterBase.KeyReleased(e, post)
	}
}

// --- KeyNavigation ---

// KeyNavigation moves active focus to explicit neighbor items on arrow keys,
// Tab and Backtab. Left and right swap when the item is mirrored.
type KeyNavigation struct {
	KeyFilterBase

	item *Item

	Left, Right, Up, Down *Item
	Tab, Backtab          *Item
}

// KeyNavigationFor returns the KeyNavigation filter attached to it,
// installing one on first use.
func KeyNavigationFor(it *Item) *KeyNavigation {
	e := it.extraData()
	if e.keyNav == nil {
		e.keyNav = &KeyNavigation{item: it}
		it.InstallKeyFilter(e.keyNav)
	}
	return e.keyNav
}

type navDir uint8

const (
	navLeft navDir = iota
	navRight
	navUp
	navDown
	navTab
	navBacktab
)

func (n *KeyNavigation) target(d navDir) *Item {
	switch d {
	case navLeft:
		return n.Left
	case navRight:
		return n.Right
	case navUp:
		return n.Up
	case navDown:
		return n.Down
	case navTab:
		return n.Tab
	case navBacktab:
		return n.Backtab
	}
	return nil
}

// direction maps a key to a navigation direction and the focus reason of
// moving that way.
func (n *KeyNavigation) direction(k Key) (navDir, FocusReason, bool) {
	mirror := n.item != nil && n.item.effectiveLayoutMirror
	switch k {
	case KeyLeft:
		if mirror {
			return navRight, FocusReasonTab, true
		}
		return navLeft, FocusReasonBacktab, true
	case KeyRight:
		if mirror {
			return navLeft, FocusReasonBacktab, true
		}
		return navRight, FocusReasonTab, true
	case KeyUp:
		return navUp, FocusReasonBacktab, true
	case KeyDown:
		return navDown, FocusReasonTab, true
	case KeyTab:
		return navTab, FocusReasonTab, true
	case KeyBacktab:
		return navBacktab, FocusReasonBacktab, true
	}
	return 0, 0, false
}

// KeyPressed implements KeyFilter.
func (n *KeyNavigation) KeyPressed(e *KeyEvent, post bool) {
	e.Ignore()
	if post != n.processPost {
		n.KeyFilterBase.KeyPressed(e, post)
		return
	}
	if d, reason, ok := n.direction(e.Key); ok {
		if t := n.target(d); t != nil {
			setFocusNavigation(t, d, reason)
			e.Accept()
		}
	}
	if !e.accepted {
		n.KeyFilterBase.KeyPressed(e, post)
	}
}

// KeyReleased implements KeyFilter. Releases of navigation keys are
// accepted without moving focus.
func (n *KeyNavigation) KeyReleased(e *KeyEvent, post bool) {
	e.Ignore()
	if post != n.processPost {
		n.KeyFilterBase.KeyReleased(e, post)
		return
	}
	if d, _, ok := n.direction(e.Key); ok && n.target(d) != nil {
		e.Accept()
	}
	if !e.accepted {
		n.KeyFilterBase.KeyReleased(e, post)
	}
}

// setFocusNavigation focuses target, or follows the same direction from
// target while target is hidden or disabled.
func setFocusNavigation(target *Item, d navDir, reason FocusReason) {
	initial := target
	var visited []*Item
	current := target
	for {
		if current.effectiveVisible && current.effectiveEnabled {
			current.ForceActiveFocusWithReason(reason)
			return
		}
		var next *Item
		if current.extra != nil && current.extra.keyNav != nil {
			next = current.extra.keyNav.target(d)
		}
		if next == nil {
			return
		}
		visited = append(visited, current)
		current = next
		if current == initial {
			return
		}
		for _, v := range visited {
			if v == current {
				return
			}
		}
	}
}
