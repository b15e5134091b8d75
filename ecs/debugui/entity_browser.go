package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/runic/ecs"
)

type entityRow struct {
	id         ecs.EntityID
	components []string
}

type entityBrowser struct {
	app         *ecs.App
	sel         *selection
	filterText  string
	page        int
	rowsPerPage int
}

func newEntityBrowser(app *ecs.App, sel *selection, rowsPerPage int) *entityBrowser {
	return &entityBrowser{
		app:         app,
		sel:         sel,
		rowsPerPage: rowsPerPage,
	}
}

func (eb *entityBrowser) collectRows() []entityRow {
	store := eb.app.Store()
	rows := make([]entityRow, 0, eb.app.Registry().Len())

	for id := range eb.app.Registry().Each() {
		var names []string
		for _, typ := range store.TypesOf(id) {
			names = append(names, typ.String())
		}
		if eb.filterText != "" {
			joined := strings.ToLower(strings.Join(names, " "))
			if !strings.Contains(joined, strings.ToLower(eb.filterText)) {
				continue
			}
		}
		rows = append(rows, entityRow{id: id, components: names})
	}
	return rows
}

func (eb *entityBrowser) render() {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Filter by component...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		eb.filterText = ""
		eb.page = 0
	}

	rows := eb.collectRows()
	imgui.Text(fmt.Sprintf("%d live entities", len(rows)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Generation")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		start := eb.page * eb.rowsPerPage
		end := start + eb.rowsPerPage
		if end > len(rows) {
			end = len(rows)
		}
		if start > len(rows) {
			start = len(rows)
		}

		for _, row := range rows[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.sel.valid && eb.sel.id == row.id
			if imgui.SelectableBoolV(fmt.Sprintf("%d", uint64(row.id)), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.sel.id = row.id
				eb.sel.valid = true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.id.Index()))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.id.Generation()))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.components, ", "))
		}

		imgui.EndTable()
	}

	if eb.page > 0 && imgui.Button("Prev") {
		eb.page--
	}
	if (eb.page+1)*eb.rowsPerPage < len(rows) {
		imgui.SameLine()
		if imgui.Button("Next") {
			eb.page++
		}
	}

	imgui.End()
}
