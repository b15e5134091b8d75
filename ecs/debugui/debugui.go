// Package debugui provides immediate-mode inspection windows for ecs
// applications using Dear ImGui: an entity browser, a component inspector
// and a performance window. Windows are ordinary entities carrying an
// ImguiItem component; a render-phase system defers their render functions
// through the frame's command buffer.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/runic/ecs"
)

// ImguiItem is a component holding a Dear ImGui render function. Attach it
// to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// InputCapture mirrors Dear ImGui's input capture state so game input
// systems can tell when the UI is consuming mouse or keyboard input. The
// render system republishes it every frame.
type InputCapture struct {
	WantMouse    bool
	WantKeyboard bool
}

// System returns the render-phase system that executes every ImguiItem. The
// render functions run via Commands.Defer, after any structural commands the
// frame recorded, and the current input capture state is published as an
// event.
func System() ecs.System {
	return func(frame *ecs.Frame) error {
		io := imgui.CurrentIO()
		ecs.PublishEvent(frame.Events, InputCapture{
			WantMouse:    io.WantCaptureMouse(),
			WantKeyboard: io.WantCaptureKeyboard(),
		})

		for _, item := range ecs.Filter1[ImguiItem](frame.Query) {
			frame.Commands.Defer(item.Render)
		}
		return nil
	}
}

// selection is the entity highlighted in the browser and shown by the
// inspector.
type selection struct {
	id    ecs.EntityID
	valid bool
}

// Attach spawns the standard debug windows onto app and registers the imgui
// system in the Render phase.
func Attach(app *ecs.App) error {
	sel := &selection{}

	browser := newEntityBrowser(app, sel, 100)
	inspector := newInspector(app, sel)
	perf := newPerfWindow(app, 120)

	for _, render := range []func(){browser.render, inspector.render, perf.render} {
		if _, err := app.Spawn(ImguiItem{Render: render}); err != nil {
			return err
		}
	}

	app.AddNamedSystem(ecs.Render, "debugui.imgui", System())
	return nil
}
