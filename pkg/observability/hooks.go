// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can
// register hooks at startup to receive events about optimizer execution
// and the debug HTTP API. A CacheHooks interface is defined as well, but
// the schedcache backends in this module do not call it.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core optimizer dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCaptureHooks(&myCaptureHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Capture().OnOptimizeStart(ctx, strategy, nodeCount)
//	// ... run Optimize ...
//	observability.Capture().OnOptimizeComplete(ctx, strategy, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Capture Hooks
// =============================================================================

// CaptureHooks receives events from an Optimize call.
type CaptureHooks interface {
	// OnOptimizeStart fires once, before any node's Work runs.
	OnOptimizeStart(ctx context.Context, strategy string, nodeCount int)
	// OnOptimizeComplete fires once, after EndCapture returns (or a fatal
	// error aborted the run).
	OnOptimizeComplete(ctx context.Context, strategy string, nodeCount int, duration time.Duration, err error)

	// OnEventRecorded fires each time a node records an event for its
	// cross-stream successors. The fork and join events are not reported.
	OnEventRecorded(ctx context.Context, nodeID string, streamID int)
	// OnStreamWait fires each time a node's stream waits on the event of a
	// dependent on another stream. Fork and join waits are not reported.
	OnStreamWait(ctx context.Context, nodeID string, streamID, eventStreamID int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from schedule cache operations. No cache
// backend in pkg/schedcache calls these hooks.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the debug HTTP API's incoming requests.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed to produce a response.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCaptureHooks is a no-op implementation of CaptureHooks.
type NoopCaptureHooks struct{}

func (NoopCaptureHooks) OnOptimizeStart(context.Context, string, int) {}
func (NoopCaptureHooks) OnOptimizeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopCaptureHooks) OnEventRecorded(context.Context, string, int)    {}
func (NoopCaptureHooks) OnStreamWait(context.Context, string, int, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	captureHooks CaptureHooks = NoopCaptureHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetCaptureHooks registers custom capture hooks.
// This should be called once at application startup before any Optimize calls.
func SetCaptureHooks(h CaptureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		captureHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the debug API starts serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Capture returns the registered capture hooks.
func Capture() CaptureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return captureHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	captureHooks = NoopCaptureHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
