package ecs

import (
	"iter"
	"reflect"
)

// Query resolves component-shape filters against the Registry and Store.
//
// Filter uses snapshot semantics: the matching set is collected when Filter
// is called, not lazily per element. Deferred commands are invisible until
// flushed regardless, and a flush happening between systems cannot shift a
// sequence that is already being iterated.
type Query struct {
	registry *Registry
	store    *Store
}

// NewQuery creates a query engine over registry and store.
func NewQuery(registry *Registry, store *Store) *Query {
	return &Query{registry: registry, store: store}
}

// Filter yields every live entity that has all of the listed component types
// attached. The sequence is finite and restartable, ordered by registry slot
// order. With no types it yields every live entity. Entities created through
// a not-yet-flushed Commands buffer are not visible.
func (q *Query) Filter(types ...reflect.Type) iter.Seq[EntityID] {
	matched := make([]EntityID, 0, q.registry.Len())
	for id := range q.registry.Each() {
		ok := true
		for _, typ := range types {
			if !q.store.Has(id, typ) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, id)
		}
	}
	return func(yield func(EntityID) bool) {
		for _, id := range matched {
			if !yield(id) {
				return
			}
		}
	}
}

// Count returns the number of entities matching the filter.
func (q *Query) Count(types ...reflect.Type) int {
	n := 0
	for range q.Filter(types...) {
		n++
	}
	return n
}

// GetAll delegates to Store.GetAll and carries the same failure contract.
func (q *Query) GetAll(id EntityID, types ...reflect.Type) ([]any, error) {
	return q.store.GetAll(id, types...)
}

// Get returns the component of the given type attached to id.
func (q *Query) Get(id EntityID, typ reflect.Type) (any, bool) {
	return q.store.Get(id, typ)
}

// Row2 is one Filter2 match.
type Row2[A, B any] struct {
	Entity EntityID
	A      A
	B      B
}

// Row3 is one Filter3 match.
type Row3[A, B, C any] struct {
	Entity EntityID
	A      A
	B      B
	C      C
}

// Filter1 yields every live entity carrying an A component, together with
// the component value.
func Filter1[A any](q *Query) iter.Seq2[EntityID, A] {
	typ := reflect.TypeFor[A]()
	return func(yield func(EntityID, A) bool) {
		for id := range q.Filter(typ) {
			v, ok := q.store.Get(id, typ)
			if !ok {
				continue
			}
			if !yield(id, v.(A)) {
				return
			}
		}
	}
}

// Filter2 yields every live entity carrying both A and B.
func Filter2[A, B any](q *Query) iter.Seq[Row2[A, B]] {
	ta := reflect.TypeFor[A]()
	tb := reflect.TypeFor[B]()
	return func(yield func(Row2[A, B]) bool) {
		for id := range q.Filter(ta, tb) {
			va, okA := q.store.Get(id, ta)
			vb, okB := q.store.Get(id, tb)
			if !okA || !okB {
				continue
			}
			if !yield(Row2[A, B]{Entity: id, A: va.(A), B: vb.(B)}) {
				return
			}
		}
	}
}

// Filter3 yields every live entity carrying A, B and C.
func Filter3[A, B, C any](q *Query) iter.Seq[Row3[A, B, C]] {
	ta := reflect.TypeFor[A]()
	tb := reflect.TypeFor[B]()
	tc := reflect.TypeFor[C]()
	return func(yield func(Row3[A, B, C]) bool) {
		for id := range q.Filter(ta, tb, tc) {
			va, okA := q.store.Get(id, ta)
			vb, okB := q.store.Get(id, tb)
			vc, okC := q.store.Get(id, tc)
			if !okA || !okB || !okC {
				continue
			}
			if !yield(Row3[A, B, C]{Entity: id, A: va.(A), B: vb.(B), C: vc.(C)}) {
				return
			}
		}
	}
}
