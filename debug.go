package stave

import (
	"log/slog"
	"time"
)

// globalDebug mirrors the most recently set Editor debug flag so that node
// and page operations (which lack an Editor pointer) can check it cheaply.
var globalDebug bool

// SetDebug enables or disables debug checks: tree depth and child count
// warnings, and per-frame timing stats.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// debugStats holds per-frame timing and item metrics.
// Only populated in debug mode.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	itemCount  int
	pageCount  int
}

// debugLog reports frame stats at debug level.
func debugLog(log *slog.Logger, stats debugStats) {
	if !globalDebug {
		return
	}
	log.Debug("frame",
		"update", stats.updateTime,
		"draw", stats.drawTime,
		"total", stats.updateTime+stats.drawTime,
		"items", stats.itemCount,
		"pages", stats.pageCount)
}

// debugMaxTreeDepth is the parent-chain length beyond which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node, log *slog.Logger) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.name)
	}
}

// debugMaxChildCount is the sibling count beyond which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(p *Page, parent *Object, log *slog.Logger) {
	n := len(p.objects)
	name := "page"
	if parent != nil {
		n = len(parent.children)
		name = parent.Name
	}
	if n > debugMaxChildCount {
		log.Warn("child count exceeds threshold",
			"parent", name, "children", n, "threshold", debugMaxChildCount)
	}
}
