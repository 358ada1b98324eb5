package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property names an animatable item property.
type Property uint8

const (
	PropX Property = iota
	PropY
	PropWidth
	PropHeight
	PropOpacity
	PropScale
	PropRotation
	PropZ
)

var propertyNames = [...]string{
	PropX:        "x",
	PropY:        "y",
	PropWidth:    "width",
	PropHeight:   "height",
	PropOpacity:  "opacity",
	PropScale:    "scale",
	PropRotation: "rotation",
	PropZ:        "z",
}

func (p Property) String() string {
	if int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return "unknown"
}

// PropertyByName looks up a property by its lower-case name.
func PropertyByName(name string) (Property, bool) {
	for i, n := range propertyNames {
		if n == name {
			return Property(i), true
		}
	}
	return 0, false
}

func (it *Item) property(p Property) float64 {
	switch p {
	case PropX:
		return it.x
	case PropY:
		return it.y
	case PropWidth:
		return it.width
	case PropHeight:
		return it.height
	case PropOpacity:
		return it.opacity
	case PropScale:
		return it.scale
	case PropRotation:
		return it.rotation
	case PropZ:
		return it.z
	}
	return 0
}

func (it *Item) setProperty(p Property, v float64) {
	switch p {
	case PropX:
		it.SetX(v)
	case PropY:
		it.SetY(v)
	case PropWidth:
		it.SetWidth(v)
	case PropHeight:
		it.SetHeight(v)
	case PropOpacity:
		it.SetOpacity(v)
	case PropScale:
		it.SetScale(v)
	case PropRotation:
		it.SetRotation(v)
	case PropZ:
		it.SetZ(v)
	}
}

// State is a named set of property values. Visible and Enabled are applied
// when set.
type State struct {
	Name    string
	Changes map[Property]float64
	Visible Tristate
	Enabled Tristate
}

// Transition animates property changes between two states. From and To
// match state names; "*" matches any state, and "" is the base state.
type Transition struct {
	From, To string
	// Duration in seconds.
	Duration float32
	// Ease defaults to linear.
	Ease ease.TweenFunc
}

func (t *Transition) matches(from, to string) bool {
	return (t.From == "*" || t.From == from) && (t.To == "*" || t.To == to)
}

type propTween struct {
	prop  Property
	to    float64
	tween *gween.Tween
}

// StateGroup switches its item between named states, optionally animating
// the change. There is no global animation manager: call Update every frame
// while Running reports true. If the item is destroyed the group stops
// immediately.
type StateGroup struct {
	item        *Item
	states      []State
	transitions []Transition
	current     string
	base        map[Property]float64
	baseVisible Tristate
	baseEnabled Tristate
	tweens      []propTween
	stopped     bool

	// OnStateChanged is called after the current state name changes.
	OnStateChanged func(name string)
}

// StatesFor returns the state group of it, creating one on first use.
func StatesFor(it *Item) *StateGroup {
	e := it.extraData()
	if e.states == nil {
		e.states = &StateGroup{item: it, base: make(map[Property]float64)}
	}
	return e.states
}

// AddState registers a state. A state with the same name is replaced.
func (g *StateGroup) AddState(s State) {
	for i := range g.states {
		if g.states[i].Name == s.Name {
			g.states[i] = s
			return
		}
	}
	g.states = append(g.states, s)
}

// AddTransition registers a transition. The first matching transition wins.
func (g *StateGroup) AddTransition(t Transition) { g.transitions = append(g.transitions, t) }

// State returns the current state name; "" is the base state.
func (g *StateGroup) State() string { return g.current }

// Running reports whether a transition is in progress.
func (g *StateGroup) Running() bool { return len(g.tweens) > 0 }

func (g *StateGroup) find(name string) *State {
	for i := range g.states {
		if g.states[i].Name == name {
			return &g.states[i]
		}
	}
	return nil
}

// SetState switches to the named state. Properties the state does not set
// return to their base values. Unknown names are ignored.
func (g *StateGroup) SetState(name string) {
	if g.stopped || name == g.current {
		return
	}
	target := g.find(name)
	if name != "" && target == nil {
		return
	}
	from := g.current

	// Finish a running transition before computing the new targets.
	for _, pt := range g.tweens {
		g.item.setProperty(pt.prop, pt.to)
	}
	g.tweens = g.tweens[:0]

	targets := make(map[Property]float64, len(g.base))
	for p, v := range g.base {
		targets[p] = v
	}
	visible, enabled := g.baseVisible, g.baseEnabled
	if target != nil {
		for p, v := range target.Changes {
			if _, ok := g.base[p]; !ok {
				g.base[p] = g.item.property(p)
			}
			targets[p] = v
		}
		if target.Visible != Unset {
			if g.baseVisible == Unset {
				g.baseVisible = Bool(g.item.explicitVisible)
			}
			visible = target.Visible
		}
		if target.Enabled != Unset {
			if g.baseEnabled == Unset {
				g.baseEnabled = Bool(g.item.explicitEnabled)
			}
			enabled = target.Enabled
		}
	}

	var tr *Transition
	for i := range g.transitions {
		if g.transitions[i].matches(from, name) {
			tr = &g.transitions[i]
			break
		}
	}

	g.current = name
	if visible != Unset {
		g.item.SetVisible(visible == True)
	}
	if enabled != Unset {
		g.item.SetEnabled(enabled == True)
	}
	for p, v := range targets {
		if tr == nil || tr.Duration <= 0 {
			g.item.setProperty(p, v)
			continue
		}
		fn := tr.Ease
		if fn == nil {
			fn = ease.Linear
		}
		g.tweens = append(g.tweens, propTween{
			prop:  p,
			to:    v,
			tween: gween.New(float32(g.item.property(p)), float32(v), tr.Duration, fn),
		})
	}
	if g.OnStateChanged != nil {
		g.OnStateChanged(name)
	}
}

// Update advances running transitions by dt seconds and writes the values
// to the item.
func (g *StateGroup) Update(dt float32) {
	if g.stopped {
		return
	}
	if g.item.destroyed {
		g.stop()
		return
	}
	running := g.tweens[:0]
	for _, pt := range g.tweens {
		v, done := pt.tween.Update(dt)
		g.item.setProperty(pt.prop, float64(v))
		if !done {
			running = append(running, pt)
		}
	}
	clear(g.tweens[len(running):])
	g.tweens = running
}

func (g *StateGroup) stop() {
	g.stopped = true
	g.tweens = nil
}
