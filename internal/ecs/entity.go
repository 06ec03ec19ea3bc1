// Package ecs is a small generic entity-component store.
//
// There is no macro-based ECS to borrow from in this corpus, so component
// storage is a hand-rolled generic table keyed by Entity. The shape mirrors
// how the original hecs-based simulation queried tuples of components, just
// expressed as Go generics instead of Rust trait magic.
package ecs

import "sync/atomic"

// Entity is an opaque, comparable handle minted by a Store. Handles are
// never reused: a monotonically increasing counter backs generation, so an
// Entity can never alias a previously despawned one.
type Entity uint64

var nextEntity uint64

func newEntity() Entity {
	return Entity(atomic.AddUint64(&nextEntity, 1))
}
