package arbor

import (
	"errors"
	"log/slog"
	"os"
	"time"
)

// Sentinel errors attached to diagnostics. None of them is ever returned from
// a tree operation; the operation is skipped and the error is logged.
var (
	ErrCycle           = errors.New("arbor: item would become its own ancestor")
	ErrNotSibling      = errors.New("arbor: items are not siblings")
	ErrNoEventInFlight = errors.New("arbor: no pointer event is being delivered")
	ErrInvalidMask     = errors.New("arbor: invalid containment mask")
	ErrFlagTransition  = errors.New("arbor: invalid flag transition")
	ErrIndexOutOfRange = errors.New("arbor: child index out of range")
	ErrWindowConflict  = errors.New("arbor: item used in two windows")
	ErrDestroyed       = errors.New("arbor: item is destroyed")
)

// logger receives every diagnostic. arbor is single-threaded, so a plain
// package variable is enough.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// SetLogger replaces the diagnostic logger. Passing nil restores the default
// stderr logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	logger = l
}

// globalDebug mirrors the most recently set Window debug flag so that item
// operations without a window can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables the tree sanity checks that run on every
// reparent.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// warn reports a recoverable misuse. op names the public operation.
func warn(op string, it *Item, err error, args ...any) {
	attrs := make([]any, 0, 6+len(args))
	attrs = append(attrs, slog.String("op", op), slog.Any("err", err))
	if it != nil {
		attrs = append(attrs, slog.String("item", it.String()))
	}
	attrs = append(attrs, args...)
	logger.Warn("arbor: "+op+" skipped", attrs...)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(it *Item) {
	depth := 0
	for p := it; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("arbor: tree depth exceeds threshold",
			slog.Int("depth", depth), slog.Int("threshold", debugMaxTreeDepth), slog.String("item", it.String()))
	}
}

// debugCheckChildCount warns if an item has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(it *Item) {
	if len(it.children) > debugMaxChildCount {
		logger.Warn("arbor: child count exceeds threshold",
			slog.Int("children", len(it.children)), slog.Int("threshold", debugMaxChildCount), slog.String("item", it.String()))
	}
}

// syncStats holds per-frame timing for Window.Sync. Only populated when the
// window is in debug mode.
type syncStats struct {
	drainTime time.Duration
	items     int
}

func (w *Window) debugLog(stats syncStats) {
	if !w.debug {
		return
	}
	logger.Debug("arbor: sync",
		slog.Duration("drain", stats.drainTime), slog.Int("items", stats.items))
}
