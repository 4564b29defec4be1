package ecs

import "sort"

// QueryBuilder finds entities carrying every store passed to With and none
// of the stores passed to Without.
//
//	ents := w.Query().With(positions).With(items).Without(stored).Execute()
type QueryBuilder struct {
	with    []QueryableStore
	without []AnyStore
}

// Query starts a new join over w's stores.
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{
		with: make([]QueryableStore, 0, 4),
	}
}

// With requires the entity to carry a component in s.
func (qb *QueryBuilder) With(s QueryableStore) *QueryBuilder {
	qb.with = append(qb.with, s)
	return qb
}

// Without excludes entities carrying a component in s.
func (qb *QueryBuilder) Without(s AnyStore) *QueryBuilder {
	qb.without = append(qb.without, s)
	return qb
}

// Execute runs the join and returns matching entities in ascending id order.
// The slice is freshly allocated; callers may mutate stores while walking it.
func (qb *QueryBuilder) Execute() []Entity {
	if len(qb.with) == 0 {
		return []Entity{}
	}

	// Start from the smallest store to minimize Has checks.
	stores := make([]QueryableStore, len(qb.with))
	copy(stores, qb.with)
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].Len() < stores[j].Len()
	})

	candidates := stores[0].Entities()
	out := candidates[:0]
	for _, e := range candidates {
		if qb.matches(e, stores[1:]) {
			out = append(out, e)
		}
	}
	return out
}

func (qb *QueryBuilder) matches(e Entity, rest []QueryableStore) bool {
	for _, s := range rest {
		if !s.Has(e) {
			return false
		}
	}
	for _, s := range qb.without {
		if s.Has(e) {
			return false
		}
	}
	return true
}
