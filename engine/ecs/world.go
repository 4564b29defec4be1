// Package ecs implements the entity arena and sparse per-type component
// storage used by the engine.
//
// Stores hold plain values. Queries return a materialized slice of entities,
// so callers collect first and mutate in a second pass.
package ecs

import (
	"errors"
	"sort"
)

// Entity is an opaque identifier. Zero is never allocated.
type Entity uint64

// ErrDeadEntity is returned when a component is attached to an entity that
// does not exist in the world.
var ErrDeadEntity = errors.New("entity is not alive")

// AnyStore provides type-erased lifecycle operations so the World can clean
// up every store without knowing its component type.
type AnyStore interface {
	Remove(e Entity)
	Has(e Entity) bool
	Len() int
	Clear()
}

// QueryableStore extends AnyStore with the entity listing a query needs.
type QueryableStore interface {
	AnyStore
	Entities() []Entity
}

// World owns the entity arena and the registry of stores attached to it.
type World struct {
	next   Entity
	alive  map[Entity]struct{}
	stores []AnyStore
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		next:  1,
		alive: make(map[Entity]struct{}),
	}
}

// Create allocates a fresh entity with no components.
func (w *World) Create() Entity {
	e := w.next
	w.next++
	w.alive[e] = struct{}{}
	return e
}

// Alive reports whether e was created and not destroyed.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Destroy removes e and every component attached to it. No-op if absent.
func (w *World) Destroy(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	delete(w.alive, e)
}

// Clear destroys every entity. Ids are not reused afterwards.
func (w *World) Clear() {
	for _, s := range w.stores {
		s.Clear()
	}
	w.alive = make(map[Entity]struct{})
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.alive)
}

// Entities returns all live entities in ascending id order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.alive))
	for e := range w.alive {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *World) register(s AnyStore) {
	w.stores = append(w.stores, s)
}
