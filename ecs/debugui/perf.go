package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/runic/ecs"
)

// perfWindow plots recent frame times and tabulates store occupancy and
// per-system scheduler statistics.
type perfWindow struct {
	app          *ecs.App
	frameHistory []float32
	frameIndex   int
	lastFrame    time.Time
}

func newPerfWindow(app *ecs.App, historyFrames int) *perfWindow {
	return &perfWindow{
		app:          app,
		frameHistory: make([]float32, historyFrames),
		lastFrame:    time.Now(),
	}
}

func (pw *perfWindow) render() {
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	now := time.Now()
	frameMs := float32(now.Sub(pw.lastFrame).Seconds() * 1000.0)
	pw.lastFrame = now
	pw.frameHistory[pw.frameIndex] = frameMs
	pw.frameIndex = (pw.frameIndex + 1) % len(pw.frameHistory)

	var avg float32
	for _, ft := range pw.frameHistory {
		avg += ft
	}
	avg /= float32(len(pw.frameHistory))

	storeStats := pw.app.Store().CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d", storeStats.EntityCount))
	imgui.Text(fmt.Sprintf("Component tables: %d", storeStats.TableCount))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &pw.frameHistory[0], int32(len(pw.frameHistory)))

	if imgui.TreeNodeStr("Component Tables") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("StoreStatsTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Count")
			imgui.TableHeadersRow()

			for _, tbl := range storeStats.Tables {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(tbl.Type)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", tbl.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Errors")
			imgui.TableHeadersRow()

			for _, sys := range pw.app.Stats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Phase.String())
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ErrorCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
