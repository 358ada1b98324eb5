// Package ecs provides ECS adapters for arbor's interaction event system.
//
// [NewDonburiStore] bridges arbor interaction events (press, tap, hover,
// wheel, key, focus) into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them.
//
// [ChangeBridge] forwards state changes of watched items, such as becoming
// invisible or losing focus, as [ItemChangeEvent]s.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	window.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
