// Package ecs provides ECS adapters for lingolens annotation events.
//
// The primary adapter is [NewDonburiSink], which bridges annotation
// lifecycle events (placed, deleted, reset, rescaled, placement failed) into
// a [Donburi] world as typed events, and keeps one entity per live
// annotation. Subscribe to [AnnotationEventType] in your ECS systems, or
// iterate [AnnotationQuery].
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	store := lingolens.NewStore(lingolens.StoreOptions{Builder: factory, Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
