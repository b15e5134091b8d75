package ecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plus3/runic/ecs"
)

func schedulerFixture(t *testing.T) (*ecs.Registry, *ecs.Store, *ecs.Scheduler) {
	t.Helper()
	registry := ecs.NewRegistry()
	store := ecs.NewStore(registry)
	return registry, store, ecs.NewScheduler(registry, store, ecs.NewEventBus(), nil)
}

func TestSchedulerRunsSystemsInRegistrationOrder(t *testing.T) {
	_, _, scheduler := schedulerFixture(t)

	var order []string
	scheduler.AddSystems(ecs.Update,
		func(frame *ecs.Frame) error { order = append(order, "first"); return nil },
		func(frame *ecs.Frame) error { order = append(order, "second"); return nil },
	)
	scheduler.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		order = append(order, "third")
		return nil
	})

	scheduler.RunPhase(ecs.Update, 1.0)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSchedulerDuplicateRegistrationRunsTwice(t *testing.T) {
	_, _, scheduler := schedulerFixture(t)

	count := 0
	system := func(frame *ecs.Frame) error { count++; return nil }

	scheduler.AddSystems(ecs.Update, system, system)
	scheduler.RunPhase(ecs.Update, 1.0)

	assert.Equal(t, 2, count)
}

func TestSchedulerPerSystemFlushVisibility(t *testing.T) {
	registry, store, scheduler := schedulerFixture(t)

	e := registry.Create()
	require.NoError(t, store.Add(e, Health{Current: 10}))

	var secondSawEntity bool
	scheduler.AddNamedSystem(ecs.Update, "s1", func(frame *ecs.Frame) error {
		frame.Commands.RemoveComponent(e, ecs.TypeOf[Health]())
		return nil
	})
	scheduler.AddNamedSystem(ecs.Update, "s2", func(frame *ecs.Frame) error {
		secondSawEntity = frame.Query.Count(ecs.TypeOf[Health]()) > 0
		return nil
	})

	scheduler.RunPhase(ecs.Update, 1.0)
	assert.False(t, secondSawEntity, "s1's flushed removal must be visible to s2")
}

func TestSchedulerOwnCommandsInvisibleMidSystem(t *testing.T) {
	_, _, scheduler := schedulerFixture(t)

	var countInside, countAfter int
	scheduler.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		id := frame.Commands.CreateEntity()
		frame.Commands.AddComponent(id, Position{})
		countInside = frame.Query.Count(ecs.TypeOf[Position]())
		return nil
	})
	scheduler.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		countAfter = frame.Query.Count(ecs.TypeOf[Position]())
		return nil
	})

	scheduler.RunPhase(ecs.Update, 1.0)

	assert.Equal(t, 0, countInside, "a system must not see its own unflushed commands")
	assert.Equal(t, 1, countAfter, "the next system sees the flushed creation")
}

func TestSchedulerLogsAndContinuesOnError(t *testing.T) {
	registry := ecs.NewRegistry()
	store := ecs.NewStore(registry)
	core, logs := observer.New(zap.ErrorLevel)
	scheduler := ecs.NewScheduler(registry, store, ecs.NewEventBus(), zap.New(core))

	boom := errors.New("boom")
	var ranAfterFailure bool
	scheduler.AddNamedSystem(ecs.Update, "failing", func(frame *ecs.Frame) error {
		return boom
	})
	scheduler.AddNamedSystem(ecs.Update, "next", func(frame *ecs.Frame) error {
		ranAfterFailure = true
		return nil
	})

	scheduler.RunPhase(ecs.Update, 1.0)

	assert.True(t, ranAfterFailure, "a failing system must not abort the phase")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "system failed", entry.Message)
}

func TestSchedulerPhasesAreIndependent(t *testing.T) {
	_, _, scheduler := schedulerFixture(t)

	var ran []ecs.Phase
	for _, phase := range []ecs.Phase{ecs.Startup, ecs.PreUpdate, ecs.Update, ecs.PostUpdate, ecs.Render, ecs.Shutdown} {
		p := phase
		scheduler.AddSystems(p, func(frame *ecs.Frame) error {
			ran = append(ran, p)
			return nil
		})
	}

	scheduler.RunPhase(ecs.Update, 1.0)
	assert.Equal(t, []ecs.Phase{ecs.Update}, ran)
}

func TestSchedulerStats(t *testing.T) {
	_, _, scheduler := schedulerFixture(t)

	scheduler.AddNamedSystem(ecs.Update, "counted", func(frame *ecs.Frame) error { return nil })
	scheduler.AddNamedSystem(ecs.Render, "render", func(frame *ecs.Frame) error { return errors.New("draw failed") })

	scheduler.RunPhase(ecs.Update, 1.0)
	scheduler.RunPhase(ecs.Update, 1.0)
	scheduler.RunPhase(ecs.Render, 1.0)

	stats := scheduler.Stats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(3), stats.TotalExecutions)

	require.Len(t, stats.Systems, 2)
	counted := stats.Systems[0]
	assert.Equal(t, "counted", counted.Name)
	assert.Equal(t, ecs.Update, counted.Phase)
	assert.Equal(t, int64(2), counted.ExecutionCount)
	assert.Equal(t, int64(0), counted.ErrorCount)
	assert.GreaterOrEqual(t, counted.MaxDuration, counted.MinDuration)

	render := stats.Systems[1]
	assert.Equal(t, ecs.Render, render.Phase)
	assert.Equal(t, int64(1), render.ErrorCount)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "startup", ecs.Startup.String())
	assert.Equal(t, "update", ecs.Update.String())
	assert.Equal(t, "shutdown", ecs.Shutdown.String())
}
