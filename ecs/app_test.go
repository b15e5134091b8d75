package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/runic/ecs"
)

func TestAppMovementScenario(t *testing.T) {
	app := ecs.New()

	p, err := app.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 0})
	require.NoError(t, err)

	app.AddNamedSystem(ecs.Update, "movement", func(frame *ecs.Frame) error {
		for row := range ecs.Filter2[Position, Velocity](frame.Query) {
			frame.Commands.AddComponent(row.Entity, Position{
				X: row.A.X + row.B.DX*float32(frame.DeltaTime),
				Y: row.A.Y + row.B.DY*float32(frame.DeltaTime),
			})
		}
		return nil
	})

	app.Init()
	app.Update(1.0)

	pos, ok := ecs.Get[Position](app.Store(), p)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 0}, pos)
}

func TestAppInitRunsStartupOnce(t *testing.T) {
	app := ecs.New()

	startups := 0
	app.AddSystems(ecs.Startup, func(frame *ecs.Frame) error {
		startups++
		frame.Commands.AddComponent(frame.Commands.CreateEntity(), Name{Value: "from-startup"})
		return nil
	})

	app.Init()
	app.Update(1.0)
	app.Update(1.0)

	assert.Equal(t, 1, startups)
	assert.Equal(t, 1, app.QueryEngine().Count(ecs.TypeOf[Name]()))
}

func TestAppSetupSpawnVisibleToStartupQueries(t *testing.T) {
	app := ecs.New()

	_, err := app.Spawn(PlayerController{}, Position{X: 4})
	require.NoError(t, err)

	var seen int
	app.AddSystems(ecs.Startup, func(frame *ecs.Frame) error {
		seen = frame.Query.Count(ecs.TypeOf[PlayerController]())
		return nil
	})

	app.Init()
	assert.Equal(t, 1, seen)
}

func TestAppUpdatePhaseOrder(t *testing.T) {
	app := ecs.New()

	var order []string
	app.AddSystems(ecs.PostUpdate, func(frame *ecs.Frame) error {
		order = append(order, "post")
		return nil
	})
	app.AddSystems(ecs.PreUpdate, func(frame *ecs.Frame) error {
		order = append(order, "pre")
		return nil
	})
	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		order = append(order, "update")
		return nil
	})

	app.Update(1.0)
	assert.Equal(t, []string{"pre", "update", "post"}, order)
}

func TestAppEventsCrossPhaseWithinFrame(t *testing.T) {
	app := ecs.New()

	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		ecs.PublishEvent(frame.Events, Damage{Amount: 10})
		return nil
	})

	var received []Damage
	app.AddSystems(ecs.PostUpdate, func(frame *ecs.Frame) error {
		received = append(received, ecs.DrainEvents[Damage](frame.Events)...)
		return nil
	})

	app.Update(1.0)
	require.Len(t, received, 1)
	assert.Equal(t, 10, received[0].Amount)

	// Drained; nothing left for a later consumer in the same frame.
	assert.Equal(t, 0, app.Events().PendingTotal())
}

func TestAppEventsVisibleToSameFrameDraw(t *testing.T) {
	app := ecs.New()

	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		ecs.PublishEvent(frame.Events, Collision{A: 1, B: 2})
		return nil
	})

	var drawSaw int
	app.AddSystems(ecs.Render, func(frame *ecs.Frame) error {
		drawSaw = len(ecs.DrainEvents[Collision](frame.Events))
		return nil
	})

	app.Update(1.0)
	app.Draw()
	assert.Equal(t, 1, drawSaw)
}

func TestAppUndrainedEventsDroppedAtFrameBoundary(t *testing.T) {
	app := ecs.New()

	publish := true
	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		if publish {
			ecs.PublishEvent(frame.Events, Damage{Amount: 1})
		}
		return nil
	})

	app.Update(1.0)
	assert.Equal(t, 1, app.Events().PendingTotal())

	publish = false
	app.Update(1.0)
	assert.Equal(t, 0, app.Events().PendingTotal(), "undrained events do not leak across frames")
}

func TestAppEntityCreatedInUpdateInvisibleUntilFlush(t *testing.T) {
	app := ecs.New()

	var sameSystemCount, nextPhaseCount int
	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		id := frame.Commands.CreateEntity()
		frame.Commands.AddComponent(id, Health{Current: 1})
		sameSystemCount = frame.Query.Count(ecs.TypeOf[Health]())
		return nil
	})
	app.AddSystems(ecs.PostUpdate, func(frame *ecs.Frame) error {
		nextPhaseCount = frame.Query.Count(ecs.TypeOf[Health]())
		return nil
	})

	app.Update(1.0)
	assert.Equal(t, 0, sameSystemCount)
	assert.Equal(t, 1, nextPhaseCount)
}

func TestAppDespawn(t *testing.T) {
	app := ecs.New()

	e, err := app.Spawn(Position{}, Health{})
	require.NoError(t, err)

	require.NoError(t, app.Despawn(e))
	assert.False(t, app.Registry().Alive(e))
	assert.Empty(t, app.Store().TypesOf(e))

	assert.ErrorIs(t, app.Despawn(e), ecs.ErrStaleEntity)
}

func TestAppShutdownPhase(t *testing.T) {
	app := ecs.New()

	var shutdowns int
	app.AddSystems(ecs.Shutdown, func(frame *ecs.Frame) error {
		shutdowns++
		return nil
	})

	app.Init()
	app.Update(1.0)
	assert.Equal(t, 0, shutdowns)

	app.Shutdown()
	assert.Equal(t, 1, shutdowns)
}

func TestAppRunLoop(t *testing.T) {
	app := ecs.New()

	updates := 0
	app.AddSystems(ecs.Update, func(frame *ecs.Frame) error {
		updates++
		return nil
	})
	draws := 0
	app.AddSystems(ecs.Render, func(frame *ecs.Frame) error {
		draws++
		return nil
	})

	app.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	app.Run(ctx, time.Millisecond)

	if updates == 0 {
		t.Error("expected at least one update tick")
	}
	assert.Equal(t, updates, draws)
}

func TestAppStats(t *testing.T) {
	app := ecs.New()

	app.AddNamedSystem(ecs.Update, "noop", func(frame *ecs.Frame) error { return nil })
	app.Update(1.0)
	app.Update(1.0)

	stats := app.Stats()
	require.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, int64(2), stats.TotalExecutions)
	assert.Equal(t, "noop", stats.Systems[0].Name)
}
