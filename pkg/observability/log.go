package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// charmbracelet logger. Register it with [RegisterLogHooks].
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks for all hook categories.
func RegisterLogHooks(logger *log.Logger) {
	h := &LogHooks{Logger: logger}
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetInteractionHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, oracle string, nodeCount int) {
	h.Logger.Debug("layout start", "oracle", oracle, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, oracle string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "oracle", oracle, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout done", "oracle", oracle, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnStructuralChange(kind string, count int) {
	h.Logger.Debug("structural change", "kind", kind, "count", count)
}

func (h *LogHooks) OnGestureRejected(code string) {
	h.Logger.Debug("gesture rejected", "code", code)
}
