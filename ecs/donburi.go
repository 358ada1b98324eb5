// Package ecs provides ECS adapters for arbor.
package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for arbor interaction events.
// Subscribe to this in your ECS systems to receive press, tap, hover, wheel,
// key and focus events.
var InteractionEventType = events.NewEventType[arbor.InteractionEvent]()

// ItemChangeEventType carries item state changes recorded by a ChangeBridge.
var ItemChangeEventType = events.NewEventType[ItemChangeEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) arbor.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arbor.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// ItemChangeEvent reports one change on an item that has an entity.
type ItemChangeEvent struct {
	EntityID uint32
	ItemID   uint32
	Change   arbor.ChangeType
	// Visible and Enabled are the effective values after the change.
	Visible bool
	Enabled bool
	Focus   bool
}

// ChangeBridge forwards visibility, enabled, geometry, focus and destruction
// changes of watched items into a Donburi world. Items with a zero EntityID
// are ignored.
type ChangeBridge struct {
	arbor.NopListener
	world donburi.World
	items map[*arbor.Item]struct{}
}

const bridgeChanges = arbor.ChangeVisibility | arbor.ChangeEnabled | arbor.ChangeGeometry |
	arbor.ChangeFocus | arbor.ChangeDestroyed

// NewChangeBridge creates a bridge publishing to world.
func NewChangeBridge(world donburi.World) *ChangeBridge {
	return &ChangeBridge{world: world, items: make(map[*arbor.Item]struct{})}
}

// Watch starts forwarding the changes of it.
func (b *ChangeBridge) Watch(it *arbor.Item) {
	if it == nil || it.EntityID == 0 {
		return
	}
	if _, ok := b.items[it]; ok {
		return
	}
	b.items[it] = struct{}{}
	it.AddChangeListener(b, bridgeChanges)
}

// Unwatch stops forwarding the changes of it.
func (b *ChangeBridge) Unwatch(it *arbor.Item) {
	if _, ok := b.items[it]; !ok {
		return
	}
	delete(b.items, it)
	it.RemoveChangeListener(b, bridgeChanges)
}

// Watching returns the number of watched items.
func (b *ChangeBridge) Watching() int { return len(b.items) }

func (b *ChangeBridge) publish(it *arbor.Item, c arbor.ChangeType) {
	ItemChangeEventType.Publish(b.world, ItemChangeEvent{
		EntityID: it.EntityID,
		ItemID:   it.ID,
		Change:   c,
		Visible:  it.IsVisible(),
		Enabled:  it.IsEnabled(),
		Focus:    it.HasActiveFocus(),
	})
}

// ItemVisibilityChanged implements arbor.ChangeListener.
func (b *ChangeBridge) ItemVisibilityChanged(it *arbor.Item) {
	b.publish(it, arbor.ChangeVisibility)
}

// ItemEnabledChanged implements arbor.ChangeListener.
func (b *ChangeBridge) ItemEnabledChanged(it *arbor.Item) {
	b.publish(it, arbor.ChangeEnabled)
}

// ItemGeometryChanged implements arbor.ChangeListener.
func (b *ChangeBridge) ItemGeometryChanged(it *arbor.Item, _ arbor.GeometryChange, _ arbor.Rect) {
	b.publish(it, arbor.ChangeGeometry)
}

// ItemFocusChanged implements arbor.ChangeListener.
func (b *ChangeBridge) ItemFocusChanged(it *arbor.Item, _ arbor.FocusReason) {
	b.publish(it, arbor.ChangeFocus)
}

// ItemDestroyed implements arbor.ChangeListener.
func (b *ChangeBridge) ItemDestroyed(it *arbor.Item) {
	b.publish(it, arbor.ChangeDestroyed)
	delete(b.items, it)
}
