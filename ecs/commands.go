package ecs

import (
	"reflect"

	"go.uber.org/zap"
)

// Commands buffers structural mutations issued during system execution and
// applies them at flush points, so in-flight query iteration never observes
// a half-applied change. Operations are applied strictly in recording order.
type Commands struct {
	ops             []command
	nextProvisional uint32
	logger          *zap.Logger
	skipped         int
}

type opKind uint8

const (
	opCreate opKind = iota
	opDestroy
	opAdd
	opRemove
	opDefer
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create_entity"
	case opDestroy:
		return "destroy_entity"
	case opAdd:
		return "add_component"
	case opRemove:
		return "remove_component"
	case opDefer:
		return "defer"
	}
	return "unknown"
}

type command struct {
	kind      opKind
	id        EntityID
	component any
	typ       reflect.Type
	fn        func()
}

// NewCommands creates an empty buffer. The logger records skipped-operation
// warnings during Flush; pass nil for a no-op logger.
func NewCommands(logger *zap.Logger) *Commands {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Commands{logger: logger}
}

// CreateEntity queues an entity creation and returns a provisional id that
// later operations on the same buffer may reference (for example to attach
// components to the new entity). The real id exists only after Flush.
func (c *Commands) CreateEntity() EntityID {
	id := provisionalBit | EntityID(c.nextProvisional)
	c.nextProvisional++
	c.ops = append(c.ops, command{kind: opCreate, id: id})
	return id
}

// DestroyEntity queues destruction of id. At flush time all of the entity's
// components are removed first, then the id is invalidated in the Registry.
func (c *Commands) DestroyEntity(id EntityID) {
	c.ops = append(c.ops, command{kind: opDestroy, id: id})
}

// AddComponent queues attaching component to id, which may be a provisional
// id from CreateEntity on the same buffer.
func (c *Commands) AddComponent(id EntityID, component any) {
	c.ops = append(c.ops, command{kind: opAdd, id: id, component: component})
}

// RemoveComponent queues removal of the component of the given type from id.
func (c *Commands) RemoveComponent(id EntityID, typ reflect.Type) {
	c.ops = append(c.ops, command{kind: opRemove, id: id, typ: typ})
}

// Defer queues fn to run during the flush, ordered with the structural
// operations recorded around it.
func (c *Commands) Defer(fn func()) {
	c.ops = append(c.ops, command{kind: opDefer, fn: fn})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.ops)
}

// Skipped returns the total number of operations dropped across all flushes
// so far.
func (c *Commands) Skipped() int {
	return c.skipped
}

// Flush applies every queued operation in recording order against registry
// and store, then clears the buffer. Flushing an empty buffer is a no-op.
//
// An operation referencing an entity destroyed earlier in the same flush, or
// one that fails against the live registry/store, is skipped with a logged
// warning; the remaining operations still apply. Partial failure never
// corrupts the rest of the buffer.
func (c *Commands) Flush(registry *Registry, store *Store) {
	if len(c.ops) == 0 {
		return
	}

	resolved := make(map[EntityID]EntityID)
	destroyed := make(map[EntityID]bool)

	for _, op := range c.ops {
		id := op.id
		if op.kind != opCreate && op.kind != opDefer && id.Provisional() {
			real, ok := resolved[id]
			if !ok {
				c.skip(op, "provisional id never created in this buffer")
				continue
			}
			id = real
		}

		switch op.kind {
		case opCreate:
			resolved[op.id] = registry.Create()
		case opDestroy:
			if destroyed[id] {
				c.skip(op, "entity destroyed earlier in flush")
				continue
			}
			store.RemoveAll(id)
			if err := registry.Destroy(id); err != nil {
				c.skip(op, err.Error())
				continue
			}
			destroyed[id] = true
		case opAdd:
			if destroyed[id] {
				c.skip(op, "entity destroyed earlier in flush")
				continue
			}
			if err := store.Add(id, op.component); err != nil {
				c.skip(op, err.Error())
			}
		case opRemove:
			if destroyed[id] {
				c.skip(op, "entity destroyed earlier in flush")
				continue
			}
			store.Remove(id, op.typ)
		case opDefer:
			op.fn()
		}
	}

	c.ops = c.ops[:0]
}

func (c *Commands) skip(op command, reason string) {
	c.skipped++
	c.logger.Warn("command skipped",
		zap.Stringer("op", op.kind),
		zap.Uint64("entity", uint64(op.id)),
		zap.String("reason", reason),
	)
}
