package ecs

import (
	"time"

	"go.uber.org/zap"
)

// Phase identifies one ordered stage of per-frame execution. Phases run in
// declared order every frame; systems within a phase run in registration
// order.
type Phase uint8

const (
	Startup Phase = iota
	PreUpdate
	Update
	PostUpdate
	Render
	Shutdown

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case Startup:
		return "startup"
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case Render:
		return "render"
	case Shutdown:
		return "shutdown"
	}
	return "unknown"
}

// Scheduler owns the phase-to-systems mapping and runs each phase's systems
// in registration order, synchronously, each to completion.
//
// The command buffer is flushed after every system (not only at phase
// boundaries), so a later system observes an earlier system's structural
// changes within the same phase. A system's own commands are never visible
// to itself mid-execution.
type Scheduler struct {
	registry *Registry
	store    *Store
	query    *Query
	events   *EventBus
	commands *Commands
	logger   *zap.Logger

	systems [phaseCount][]System
	stats   [phaseCount][]*systemStats
}

type systemStats struct {
	name           string
	executionCount int64
	errorCount     int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// NewScheduler creates a scheduler over the given collaborators. Pass nil
// for a no-op logger.
func NewScheduler(registry *Registry, store *Store, events *EventBus, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		registry: registry,
		store:    store,
		query:    NewQuery(registry, store),
		events:   events,
		commands: NewCommands(logger),
		logger:   logger,
	}
}

// AddSystems appends systems to the phase's ordered list. There is no
// deduplication: registering the same system twice runs it twice.
func (s *Scheduler) AddSystems(phase Phase, systems ...System) {
	for _, sys := range systems {
		s.register(phase, systemName(sys), sys)
	}
}

// AddNamedSystem is AddSystems with an explicit stats and log name.
func (s *Scheduler) AddNamedSystem(phase Phase, name string, sys System) {
	s.register(phase, name, sys)
}

func (s *Scheduler) register(phase Phase, name string, sys System) {
	s.systems[phase] = append(s.systems[phase], sys)
	s.stats[phase] = append(s.stats[phase], &systemStats{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Query returns the scheduler's query engine, the same one injected into
// systems.
func (s *Scheduler) Query() *Query {
	return s.query
}

// Commands returns the scheduler's command buffer. Exposed for frontends
// that need to queue work from outside a system; it is flushed at the next
// per-system flush point.
func (s *Scheduler) Commands() *Commands {
	return s.commands
}

// RunPhase executes the phase's systems in registration order, flushing the
// command buffer after each one. A system error is logged and counted and
// the phase continues with the next system; keeping a long-running
// interactive application alive is preferred over aborting the frame, and
// the error stays observable through the log and ErrorCount.
func (s *Scheduler) RunPhase(phase Phase, dt float64) {
	for i, sys := range s.systems[phase] {
		frame := &Frame{
			DeltaTime: dt,
			Commands:  s.commands,
			Query:     s.query,
			Events:    s.events,
		}

		start := time.Now()
		err := sys(frame)
		duration := time.Since(start)

		st := s.stats[phase][i]
		st.executionCount++
		st.lastDuration = duration
		st.totalDuration += duration
		if duration < st.minDuration {
			st.minDuration = duration
		}
		if duration > st.maxDuration {
			st.maxDuration = duration
		}

		if err != nil {
			st.errorCount++
			s.logger.Error("system failed",
				zap.Stringer("phase", phase),
				zap.String("system", st.name),
				zap.Error(err),
			)
		}

		s.commands.Flush(s.registry, s.store)
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single registered system.
type SystemStats struct {
	Name           string
	Phase          Phase
	ExecutionCount int64
	ErrorCount     int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// Stats returns a snapshot of per-system execution statistics, ordered by
// phase then registration order.
func (s *Scheduler) Stats() *SchedulerStats {
	out := &SchedulerStats{}

	for phase := Phase(0); phase < phaseCount; phase++ {
		for _, internal := range s.stats[phase] {
			avg := time.Duration(0)
			if internal.executionCount > 0 {
				avg = internal.totalDuration / time.Duration(internal.executionCount)
			}
			out.Systems = append(out.Systems, SystemStats{
				Name:           internal.name,
				Phase:          phase,
				ExecutionCount: internal.executionCount,
				ErrorCount:     internal.errorCount,
				MinDuration:    internal.minDuration,
				MaxDuration:    internal.maxDuration,
				AvgDuration:    avg,
				LastDuration:   internal.lastDuration,
				TotalDuration:  internal.totalDuration,
			})
			out.TotalExecutions += internal.executionCount
		}
	}

	out.SystemCount = len(out.Systems)
	return out
}
