package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events as debug log lines.
// Register it when verbose output is requested:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("events")}
}

func (h *LogHooks) OnDecodeStart(_ context.Context, format string) {
	h.logger.Debug("decode start", "format", format)
}

func (h *LogHooks) OnDecodeComplete(_ context.Context, format string, children int, d time.Duration, err error) {
	h.logger.Debug("decode complete", "format", format, "children", children, "duration", d, "err", err)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, design string, children int) {
	h.logger.Debug("layout start", "design", design, "children", children)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, design string, units int, d time.Duration, err error) {
	h.logger.Debug("layout complete", "design", design, "units", units, "duration", d, "err", err)
}

func (h *LogHooks) OnEncodeStart(_ context.Context, formats []string) {
	h.logger.Debug("encode start", "formats", formats)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("encode complete", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
