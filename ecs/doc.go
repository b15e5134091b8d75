// Package ecs is a small entity-component-system runtime built around
// deferred structural mutation. Entities are generation-tagged ids handed out
// by a Registry, components live in per-type tables inside a Store, and
// update logic runs as Systems grouped into ordered Phases. Systems never
// mutate the Store or Registry directly; they record changes into a Commands
// buffer that the Scheduler flushes between systems, so query iteration is
// never invalidated mid-flight. An EventBus carries typed events between
// systems within a frame.
//
// Execution is single-threaded and cooperative: phases run in declared order,
// systems within a phase run in registration order, and each system runs to
// completion before the next starts.
package ecs
