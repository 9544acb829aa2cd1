package reactfx

import (
	"fmt"
)

// Stats overlay layout.
const (
	overlayWidth   = 190
	overlayLineGap = 14
	overlayPadding = 6
)

var (
	overlayBackground = Color{0, 0, 0, 0.5}
	overlayOK         = Color{0.6, 1, 0.6, 1}
	overlayWarn       = Color{1, 0.55, 0.35, 1}
)

// NewStatsOverlay returns a fragment showing fps, average frame time,
// dropped frames, active effects, and memory usage at (x, y). Rebuild it
// each frame from fresh metrics; the fps line turns orange while the
// metrics call for reduced quality.
func NewStatsOverlay(x, y float64, pm PerformanceMetrics, lowQuality bool) *Node {
	lines := []string{
		fmt.Sprintf("FPS: %.1f", pm.FPS),
		fmt.Sprintf("Frame: %.2fms", float64(pm.FrameTime.Microseconds())/1000),
		fmt.Sprintf("Dropped: %d", pm.DroppedFrames),
		fmt.Sprintf("Effects: %d", pm.ActiveEffects),
		fmt.Sprintf("Memory: %.1f MiB", float64(pm.MemoryUsage)/(1<<20)),
	}

	root := NewContainer("stats_overlay")
	root.X, root.Y = x, y
	root.ZIndex = 100

	h := float64(len(lines)*overlayLineGap + 2*overlayPadding)
	bg := NewRect("background", 0, 0, overlayWidth, h, overlayBackground)
	bg.ZIndex = 100
	root.AddChild(bg)

	for i, line := range lines {
		c := ColorWhite
		if i == 0 {
			c = overlayOK
			if lowQuality {
				c = overlayWarn
			}
		}
		t := NewText("line", overlayPadding, float64(overlayPadding+i*overlayLineGap), line, c)
		t.ZIndex = 101
		root.AddChild(t)
	}
	return root
}
