package ecs

import (
	"reflect"
	"runtime"

	"go.uber.org/zap"
)

// Frame carries the collaborators injected into each system for one
// execution: the frame's command buffer, the query engine, and the event
// bus. Systems record structural changes through Commands and never touch
// the Store or Registry directly.
type Frame struct {
	DeltaTime float64
	Commands  *Commands
	Query     *Query
	Events    *EventBus
}

// System is one unit of update logic. A non-nil error is logged by the
// Scheduler, which then continues with the next system; returning an error
// never aborts the frame.
type System func(frame *Frame) error

// systemName derives a stable display name for stats and logs from the
// function's runtime symbol. AddNamedSystem overrides it.
func systemName(sys System) string {
	pc := reflect.ValueOf(sys).Pointer()
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "anonymous"
}

// Logged wraps a system with execution logging: the live entity count and
// pending event count on entry, and completion or failure on exit. It is
// plain composition; wrap at registration time:
//
//	app.AddSystems(ecs.Update, ecs.Logged(logger, "movement", moveSystem))
func Logged(logger *zap.Logger, name string, sys System) System {
	return func(frame *Frame) error {
		logger.Debug("system start",
			zap.String("system", name),
			zap.Int("entities", frame.Query.Count()),
			zap.Int("pending_events", frame.Events.PendingTotal()),
		)

		if err := sys(frame); err != nil {
			logger.Debug("system failed",
				zap.String("system", name),
				zap.Error(err),
			)
			return err
		}

		logger.Debug("system done", zap.String("system", name))
		return nil
	}
}
