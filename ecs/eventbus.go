package ecs

import "reflect"

// EventBus holds, per event type, an ordered queue of not-yet-consumed
// events. Event identity is the value's dynamic type; two events with the
// same shape but distinct declared types queue separately.
//
// Drain has single-consumer semantics: it removes what it returns. When
// multiple systems need the same event, either publish distinct event types
// or designate a single drain point per frame. The bus is cleared wholesale
// at the frame boundary (App.Update entry) whether or not anything drained
// it; undrained events are dropped, which bounds memory growth.
type EventBus struct {
	queues map[reflect.Type][]any
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{queues: make(map[reflect.Type][]any)}
}

// Publish appends event to the queue for its type. Events published during
// phase N are visible to Drain calls in phase N and later within the same
// frame, never before.
func (b *EventBus) Publish(event any) {
	t := reflect.TypeOf(event)
	if t == nil {
		panic("ecs: nil event")
	}
	b.queues[t] = append(b.queues[t], event)
}

// Drain returns and removes every queued event of the given type, oldest
// first. A second drain of the same type in the same frame returns nil.
func (b *EventBus) Drain(typ reflect.Type) []any {
	events := b.queues[typ]
	if len(events) == 0 {
		return nil
	}
	delete(b.queues, typ)
	return events
}

// DrainAll returns and removes every queued event across all types.
func (b *EventBus) DrainAll() map[reflect.Type][]any {
	if len(b.queues) == 0 {
		return nil
	}
	out := b.queues
	b.queues = make(map[reflect.Type][]any)
	return out
}

// Pending returns the number of queued events of the given type without
// consuming them.
func (b *EventBus) Pending(typ reflect.Type) int {
	return len(b.queues[typ])
}

// PendingTotal returns the number of queued events across all types.
func (b *EventBus) PendingTotal() int {
	n := 0
	for _, q := range b.queues {
		n += len(q)
	}
	return n
}

// Clear drops every queued event. The App calls this at the frame boundary.
func (b *EventBus) Clear() {
	clear(b.queues)
}

// PublishEvent publishes a typed event.
func PublishEvent[T any](b *EventBus, event T) {
	b.Publish(event)
}

// DrainEvents returns and removes every queued event of type T, oldest
// first.
func DrainEvents[T any](b *EventBus) []T {
	raw := b.Drain(reflect.TypeFor[T]())
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, len(raw))
	for i, ev := range raw {
		out[i] = ev.(T)
	}
	return out
}
