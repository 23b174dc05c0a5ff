package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// RenderHooks, CacheHooks and ServerHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnPlanComplete(_ context.Context, blocks int, d time.Duration) {
	h.logger.Debug("plan built", "blocks", blocks, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, template string, formats []string) {
	h.logger.Debug("render start", "template", template, "formats", formats)
}

func (h *LogHooks) OnFormatComplete(_ context.Context, template, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "template", template, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "template", template, "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "format", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "format", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "format", keyType, "bytes", size)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnRateLimited(_ context.Context, route, client string) {
	h.logger.Warn("rate limited", "route", route, "client", client)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
