package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks writes observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, file string) {
	h.logger.Debug("loading spec", "file", file)
}

func (h *logHooks) OnLoadComplete(_ context.Context, file, chartID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "file", file, "err", err)
		return
	}
	h.logger.Debug("loaded spec", "file", file, "chart", chartID, "duration", d)
}

func (h *logHooks) OnSerializeStart(_ context.Context, chartID string) {
	h.logger.Debug("serializing", "chart", chartID)
}

func (h *logHooks) OnSerializeComplete(_ context.Context, chartID string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("serialize failed", "chart", chartID, "err", err)
		return
	}
	h.logger.Debug("serialized", "chart", chartID, "bytes", size, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, chartID, mode string) {
	h.logger.Debug("render", "chart", chartID, "mode", mode)
}

func (h *logHooks) OnRenderComplete(_ context.Context, chartID, mode string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "chart", chartID, "mode", mode, "err", err)
		return
	}
	h.logger.Debug("rendered", "chart", chartID, "mode", mode, "duration", d)
}

func (h *logHooks) OnMutate(_ context.Context, chartID, hookName string, applied bool) {
	h.logger.Debug("mutation hook", "chart", chartID, "hook", hookName, "applied", applied)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, route string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Debug("http error", "method", method, "route", route, "err", err)
}
