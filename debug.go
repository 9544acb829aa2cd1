package reactfx

import (
	"fmt"
	"time"
)

// FrameStats holds per-frame timing and volume metrics for one scheduler
// frame. Only populated when debug mode is enabled.
type FrameStats struct {
	UpdateTime    time.Duration
	RenderTime    time.Duration
	ComposeTime   time.Duration
	SubmitTime    time.Duration
	Instances     int
	Completed     int
	CommandCount  int
	DrawCallCount int
}

// globalDebug mirrors the most recently set debug flag so that node
// operations (which have no owner pointer) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables debug checks process-wide. When enabled,
// use of disposed nodes panics, oversized fragments are reported, and the
// scheduler logs per-frame timing stats.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug checks are enabled.
func DebugMode() bool {
	return globalDebug
}

// logFrameStats prints timing and volume stats through the logger.
func logFrameStats(l Logger, stats FrameStats) {
	total := stats.UpdateTime + stats.RenderTime + stats.ComposeTime + stats.SubmitTime
	l.Printf("[reactfx] update: %v | render: %v | compose: %v | submit: %v | total: %v",
		stats.UpdateTime, stats.RenderTime, stats.ComposeTime, stats.SubmitTime, total)
	l.Printf("[reactfx] instances: %d | completed: %d | commands: %d | draw calls: %d",
		stats.Instances, stats.Completed, stats.CommandCount, stats.DrawCallCount)
}

// debugCheckDisposed panics with a descriptive message when a disposed node
// is used in a tree operation. Callers skip this outside debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("reactfx debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxChildCount is the fragment width above which a warning is logged.
// Renderers cap their particle counts well below this.
const debugMaxChildCount = 256

func debugCheckChildCount(n *Node) {
	if len(n.children) == debugMaxChildCount+1 {
		defaultLogger.Printf("reactfx: warning: node %q has more than %d children",
			n.Name, debugMaxChildCount)
	}
}
