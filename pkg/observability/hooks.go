// Package observability lets a host program watch chartwire at work.
//
// Libraries emit events through the accessors [Pipeline], [Cache] and [HTTP].
// Until something is registered every accessor returns a no-op
// implementation, so instrumentation costs a single interface call.
//
// A program registers its hooks once at startup:
//
//	observability.Register(observability.Hooks{
//	    Pipeline: myMetrics,
//	    Cache:    myMetrics,
//	})
//
// and library code reports around its work:
//
//	observability.Pipeline().OnSerializeStart(ctx, chartID)
//	// ... build the document ...
//	observability.Pipeline().OnSerializeComplete(ctx, chartID, size, took, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from loading, serializing and handing off
// chart documents.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, file string)
	OnLoadComplete(ctx context.Context, file, chartID string, duration time.Duration, err error)

	OnSerializeStart(ctx context.Context, chartID string)
	OnSerializeComplete(ctx context.Context, chartID string, size int, duration time.Duration, err error)

	// mode is "render", "render_mutate" or "update".
	OnRenderStart(ctx context.Context, chartID, mode string)
	OnRenderComplete(ctx context.Context, chartID, mode string, duration time.Duration, err error)

	// OnMutate records a mutation hook lookup. applied is false when no hook
	// was found and the document passed through unchanged.
	OnMutate(ctx context.Context, chartID, hookName string, applied bool)
}

// CacheHooks receives events from cache lookups and writes. kind is the key
// family, such as "doc" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the preview server. route is the matched
// router pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

// Hooks bundles one implementation per event family. Nil fields leave the
// current registration in place.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                   {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnSerializeStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnSerializeComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)                         {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnMutate(context.Context, string, string, bool)                        {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every server event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

func noop() *Hooks {
	return &Hooks{
		Pipeline: NoopPipelineHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

// registered is swapped whole so readers never see a half-updated bundle.
var registered atomic.Pointer[Hooks]

func init() { registered.Store(noop()) }

// Register installs h. Fields left nil keep their previous implementation.
// Call it before the pipeline or server starts.
func Register(h Hooks) {
	for {
		cur := registered.Load()
		next := *cur
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if registered.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { Register(Hooks{Pipeline: h}) }

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { Register(Hooks{Cache: h}) }

// SetHTTPHooks registers server hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { Register(Hooks{HTTP: h}) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registered.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registered.Load().Cache }

// HTTP returns the registered server hooks.
func HTTP() HTTPHooks { return registered.Load().HTTP }

// Reset restores the no-op hooks.
func Reset() { registered.Store(noop()) }
