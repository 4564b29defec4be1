package ecs

import (
	"fmt"
	"sort"
)

// Store is the storage for one component type T, keyed by entity.
type Store[T any] struct {
	world      *World
	components map[Entity]T
}

// NewStore creates a store for T and registers it with w for lifecycle
// operations (Destroy, Clear).
func NewStore[T any](w *World) *Store[T] {
	s := &Store[T]{
		world:      w,
		components: make(map[Entity]T),
	}
	w.register(s)
	return s
}

// Insert attaches or overwrites the component of e.
func (s *Store[T]) Insert(e Entity, v T) error {
	if !s.world.Alive(e) {
		return fmt.Errorf("insert %T on entity %d: %w", v, e, ErrDeadEntity)
	}
	s.components[e] = v
	return nil
}

// Remove detaches the component from e. No-op if absent.
func (s *Store[T]) Remove(e Entity) {
	delete(s.components, e)
}

// Get returns the component of e.
func (s *Store[T]) Get(e Entity) (T, bool) {
	v, ok := s.components[e]
	return v, ok
}

// Has reports whether e carries this component.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.components[e]
	return ok
}

// Update applies fn to the component of e in place. Returns false if e has
// no component of this type.
func (s *Store[T]) Update(e Entity, fn func(*T)) bool {
	v, ok := s.components[e]
	if !ok {
		return false
	}
	fn(&v)
	s.components[e] = v
	return true
}

// Len returns the number of entities carrying this component.
func (s *Store[T]) Len() int {
	return len(s.components)
}

// Entities returns the entities carrying this component in ascending id order.
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, 0, len(s.components))
	for e := range s.components {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear removes every component of this type.
func (s *Store[T]) Clear() {
	s.components = make(map[Entity]T)
}
