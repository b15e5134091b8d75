package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/runic/ecs"
)

// inspector shows the component values of the entity selected in the
// browser, one tree node per component type with a row per struct field.
type inspector struct {
	app *ecs.App
	sel *selection
}

func newInspector(app *ecs.App, sel *selection) *inspector {
	return &inspector{app: app, sel: sel}
}

func (in *inspector) render() {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !in.sel.valid {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !in.app.Registry().Alive(in.sel.id) {
		imgui.Text(fmt.Sprintf("Entity %d is no longer alive", uint64(in.sel.id)))
		in.sel.valid = false
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d (index %d, generation %d)",
		uint64(in.sel.id), in.sel.id.Index(), in.sel.id.Generation()))
	imgui.Separator()

	store := in.app.Store()
	for _, typ := range store.TypesOf(in.sel.id) {
		value, ok := store.Get(in.sel.id, typ)
		if !ok {
			continue
		}
		if imgui.TreeNodeStr(typ.String()) {
			renderValue(reflect.ValueOf(value))
			imgui.TreePop()
		}
	}

	imgui.End()
}

func renderValue(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		imgui.Text(fmt.Sprintf("%v", v.Interface()))
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			imgui.Text(fmt.Sprintf("%s: <unexported>", field.Name))
			continue
		}
		imgui.Text(fmt.Sprintf("%s: %v", field.Name, v.Field(i).Interface()))
	}
}
