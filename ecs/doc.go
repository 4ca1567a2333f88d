// Package ecs provides ECS adapters for roi's box edit events.
//
// The primary adapter is [NewDonburiStore], which publishes committed box
// edits (created, moved, resized, discarded, deleted) into a [Donburi] world
// as typed events. Subscribe to [BoxEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	overlay.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
