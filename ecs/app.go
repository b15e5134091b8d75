package ecs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// App wires the registry, store, query engine, event bus and scheduler into
// the facade an outer run-loop drives. Construct one, register systems, call
// Init once, then Update and Draw each tick. The App is an ordinary value
// with caller-controlled lifecycle; there is no ambient global instance.
type App struct {
	registry  *Registry
	store     *Store
	events    *EventBus
	scheduler *Scheduler
	logger    *zap.Logger
	lastDT    float64
}

// Option configures an App at construction time.
type Option func(*App)

// WithLogger routes scheduler, flush and decorator logging to logger instead
// of the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// New constructs an App with empty registry, store and event bus.
func New(opts ...Option) *App {
	a := &App{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.registry = NewRegistry()
	a.store = NewStore(a.registry)
	a.events = NewEventBus()
	a.scheduler = NewScheduler(a.registry, a.store, a.events, a.logger)
	return a
}

// AddSystems appends systems to the phase's ordered list and returns the App
// for chaining.
func (a *App) AddSystems(phase Phase, systems ...System) *App {
	a.scheduler.AddSystems(phase, systems...)
	return a
}

// AddNamedSystem is AddSystems with an explicit stats and log name.
func (a *App) AddNamedSystem(phase Phase, name string, sys System) *App {
	a.scheduler.AddNamedSystem(phase, name, sys)
	return a
}

// Init runs the Startup phase once. Call it before the first Update.
func (a *App) Init() {
	a.scheduler.RunPhase(Startup, 0)
}

// Update runs one frame of the non-render phases: PreUpdate, Update,
// PostUpdate. Entering Update is the frame boundary: events left over from
// the previous frame (including any published during Draw) are dropped
// here, so events published during this frame's phases stay visible through
// this frame's Draw.
func (a *App) Update(dt float64) {
	a.events.Clear()
	a.lastDT = dt
	a.scheduler.RunPhase(PreUpdate, dt)
	a.scheduler.RunPhase(Update, dt)
	a.scheduler.RunPhase(PostUpdate, dt)
}

// Draw runs the Render phase with the previous Update's delta time. Render
// systems read the store; by convention they record no structural changes,
// though this is not enforced.
func (a *App) Draw() {
	a.scheduler.RunPhase(Render, a.lastDT)
}

// Shutdown runs the Shutdown phase once, after the run-loop has stopped
// calling Update.
func (a *App) Shutdown() {
	a.scheduler.RunPhase(Shutdown, a.lastDT)
}

// Run drives Update and Draw at the given interval until ctx is cancelled,
// then runs the Shutdown phase. Init must have been called. This is the
// headless convenience loop; windowed frontends call Update and Draw from
// their own loop instead.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			a.Shutdown()
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.Update(dt)
			a.Draw()
		}
	}
}

// Spawn creates an entity directly and attaches the given components,
// bypassing the command buffer. Intended for scene setup before the frame
// loop starts, where no query iteration is live; inside systems use
// Frame.Commands instead.
func (a *App) Spawn(components ...any) (EntityID, error) {
	id := a.registry.Create()
	for _, component := range components {
		if err := a.store.Add(id, component); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Despawn removes an entity and all of its components directly. Same
// setup-time caveat as Spawn. Returns ErrStaleEntity when id is already
// destroyed.
func (a *App) Despawn(id EntityID) error {
	a.store.RemoveAll(id)
	return a.registry.Destroy(id)
}

// Registry exposes entity liveness to out-of-scope collaborators.
func (a *App) Registry() *Registry {
	return a.registry
}

// Store exposes component data, read-only by convention during Render.
func (a *App) Store() *Store {
	return a.store
}

// QueryEngine returns the query engine systems receive via Frame.
func (a *App) QueryEngine() *Query {
	return a.scheduler.Query()
}

// Events returns the event bus.
func (a *App) Events() *EventBus {
	return a.events
}

// Stats returns a snapshot of per-system scheduler statistics.
func (a *App) Stats() *SchedulerStats {
	return a.scheduler.Stats()
}
