package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCaptureHooks{}
	c.OnOptimizeStart(ctx, "round-robin", 10)
	c.OnOptimizeComplete(ctx, "round-robin", 10, time.Second, nil)
	c.OnEventRecorded(ctx, "n1", 0)
	c.OnStreamWait(ctx, "n2", 1, 0)

	cache := NoopCacheHooks{}
	cache.OnCacheHit(ctx, "plan")
	cache.OnCacheMiss(ctx, "plan")
	cache.OnCacheSet(ctx, "plan", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/optimize")
	h.OnResponse(ctx, "POST", "/optimize", 200, time.Second)
	h.OnError(ctx, "POST", "/optimize", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Capture().(NoopCaptureHooks); !ok {
		t.Error("Capture() should return NoopCaptureHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCapture := &testCaptureHooks{}
	SetCaptureHooks(customCapture)
	if Capture() != customCapture {
		t.Error("SetCaptureHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Capture().(NoopCaptureHooks); !ok {
		t.Error("Reset() should restore NoopCaptureHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCaptureHooks{}
	SetCaptureHooks(custom)

	SetCaptureHooks(nil)

	if Capture() != custom {
		t.Error("SetCaptureHooks(nil) should be ignored")
	}

	Reset()
}

type testCaptureHooks struct{ NoopCaptureHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
