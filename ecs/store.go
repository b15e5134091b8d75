package ecs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/kamstrup/intmap"
)

// Store holds one table per component type, each mapping a live EntityID to
// the component value. Component identity is the value's reflect.Type, so
// two components with identical shape but distinct declared types get
// distinct tables. At most one component per (type, entity) pair exists;
// adding again replaces the old value.
type Store struct {
	registry *Registry
	tables   map[reflect.Type]*intmap.Map[EntityID, any]
}

// NewStore creates an empty store backed by registry for liveness checks.
func NewStore(registry *Registry) *Store {
	return &Store{
		registry: registry,
		tables:   make(map[reflect.Type]*intmap.Map[EntityID, any]),
	}
}

// normalizeComponent derives the type key for a component value. Pointers
// are dereferenced so that &Position{} and Position{} land in the same
// table.
func normalizeComponent(component any) (reflect.Type, any) {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Ptr {
		v := reflect.ValueOf(component)
		if v.IsNil() {
			panic("ecs: nil component pointer")
		}
		return t.Elem(), v.Elem().Interface()
	}
	return t, component
}

func (s *Store) table(typ reflect.Type) *intmap.Map[EntityID, any] {
	tbl, ok := s.tables[typ]
	if !ok {
		tbl = intmap.New[EntityID, any](64)
		s.tables[typ] = tbl
	}
	return tbl
}

// Add attaches component to id, replacing any existing component of the same
// type. Returns ErrDeadEntity when id is not alive.
func (s *Store) Add(id EntityID, component any) error {
	if !s.registry.Alive(id) {
		return fmt.Errorf("add %T to entity %d: %w", component, uint64(id), ErrDeadEntity)
	}
	typ, value := normalizeComponent(component)
	s.table(typ).Put(id, value)
	return nil
}

// Remove detaches the component of the given type from id. Removing an
// absent component is a no-op, not an error.
func (s *Store) Remove(id EntityID, typ reflect.Type) {
	if tbl, ok := s.tables[typ]; ok {
		tbl.Del(id)
	}
}

// Get returns the component of the given type attached to id. The second
// return is false when the entity is dead or the component absent.
func (s *Store) Get(id EntityID, typ reflect.Type) (any, bool) {
	tbl, ok := s.tables[typ]
	if !ok {
		return nil, false
	}
	return tbl.Get(id)
}

// Has reports whether id has a component of the given type attached.
func (s *Store) Has(id EntityID, typ reflect.Type) bool {
	tbl, ok := s.tables[typ]
	if !ok {
		return false
	}
	_, ok = tbl.Get(id)
	return ok
}

// GetAll returns the components of every requested type in request order. A
// dead entity yields ErrDeadEntity and any missing type yields
// *AbsentComponentError. The liveness and presence checks are the same ones
// Query.Filter applies, so a filter match cannot tear here unless a flush
// removed the component in between.
func (s *Store) GetAll(id EntityID, types ...reflect.Type) ([]any, error) {
	if !s.registry.Alive(id) {
		return nil, fmt.Errorf("get components of entity %d: %w", uint64(id), ErrDeadEntity)
	}
	out := make([]any, len(types))
	for i, typ := range types {
		v, ok := s.Get(id, typ)
		if !ok {
			return nil, &AbsentComponentError{Type: typ}
		}
		out[i] = v
	}
	return out, nil
}

// RemoveAll detaches every component attached to id. This is the destroy
// cascade; Commands.Flush calls it before invalidating the id in the
// Registry.
func (s *Store) RemoveAll(id EntityID) {
	for _, tbl := range s.tables {
		tbl.Del(id)
	}
}

// TypesOf returns the component types currently attached to id, sorted by
// type name.
func (s *Store) TypesOf(id EntityID) []reflect.Type {
	var out []reflect.Type
	for typ, tbl := range s.tables {
		if _, ok := tbl.Get(id); ok {
			out = append(out, typ)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// StoreStats is a snapshot of table occupancy, consumed by the debug UI and
// the stress report.
type StoreStats struct {
	EntityCount int
	TableCount  int
	Tables      []TableStats
}

// TableStats describes one component table.
type TableStats struct {
	Type  string
	Count int
}

// CollectStats builds a StoreStats snapshot, tables sorted by type name.
func (s *Store) CollectStats() StoreStats {
	stats := StoreStats{
		EntityCount: s.registry.Len(),
		TableCount:  len(s.tables),
	}
	for typ, tbl := range s.tables {
		stats.Tables = append(stats.Tables, TableStats{
			Type:  typ.String(),
			Count: tbl.Len(),
		})
	}
	sort.Slice(stats.Tables, func(i, j int) bool { return stats.Tables[i].Type < stats.Tables[j].Type })
	return stats
}

// TypeOf returns the component type key for T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Get returns the T component attached to id.
func Get[T any](s *Store, id EntityID) (T, bool) {
	v, ok := s.Get(id, reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Has reports whether id has a T component attached.
func Has[T any](s *Store, id EntityID) bool {
	return s.Has(id, reflect.TypeFor[T]())
}

// Remove detaches the T component from id, if attached.
func Remove[T any](s *Store, id EntityID) {
	s.Remove(id, reflect.TypeFor[T]())
}
