package main

import (
	"math/rand/v2"

	"github.com/plus3/runic/ecs"
)

// Stress components. A mix of small and medium payloads so the store sees
// uneven table sizes.
type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current, Max int
}

type Lifetime struct {
	Remaining float64
}

type Payload struct {
	Data [16]float64
}

// Expired asks the churn system to replace a retired entity.
type Expired struct{}

// spawnRandomEntity queues an entity with a random subset of components.
// Position is always present so every entity matches at least one filter.
func spawnRandomEntity(commands *ecs.Commands) {
	id := commands.CreateEntity()
	commands.AddComponent(id, Position{
		X: rand.Float64() * 1000,
		Y: rand.Float64() * 1000,
	})
	if rand.Float64() < 0.8 {
		commands.AddComponent(id, Velocity{
			DX: rand.Float64()*20 - 10,
			DY: rand.Float64()*20 - 10,
		})
	}
	if rand.Float64() < 0.5 {
		commands.AddComponent(id, Health{Current: 100, Max: 100})
	}
	if rand.Float64() < 0.3 {
		commands.AddComponent(id, Lifetime{Remaining: 1 + rand.Float64()*9})
	}
	if rand.Float64() < 0.2 {
		commands.AddComponent(id, Payload{})
	}
}

// movementSystem is the hot path: integrate velocity over every matching
// entity and write the result back through the command buffer.
func movementSystem(frame *ecs.Frame) error {
	for row := range ecs.Filter2[Position, Velocity](frame.Query) {
		pos := row.A
		pos.X += row.B.DX * frame.DeltaTime
		pos.Y += row.B.DY * frame.DeltaTime
		frame.Commands.AddComponent(row.Entity, pos)
	}
	return nil
}

// lifetimeSystem retires expired entities and announces each one so the
// churn system keeps the population stable.
func lifetimeSystem(frame *ecs.Frame) error {
	for id, life := range ecs.Filter1[Lifetime](frame.Query) {
		life.Remaining -= frame.DeltaTime
		if life.Remaining <= 0 {
			frame.Commands.DestroyEntity(id)
			ecs.PublishEvent(frame.Events, Expired{})
			continue
		}
		frame.Commands.AddComponent(id, life)
	}
	return nil
}

// churnSystem replaces every entity retired this frame, keeping constant
// create/destroy pressure on the registry's free list.
func churnSystem(frame *ecs.Frame) error {
	for range ecs.DrainEvents[Expired](frame.Events) {
		spawnRandomEntity(frame.Commands)
	}
	return nil
}

// loadSystem returns a read-mostly system that scans a filter without
// mutating anything. Registered multiple times to scale scheduler load.
func loadSystem() ecs.System {
	return func(frame *ecs.Frame) error {
		var sum float64
		for row := range ecs.Filter2[Position, Health](frame.Query) {
			sum += row.A.X * float64(row.B.Current)
		}
		_ = sum
		return nil
	}
}
