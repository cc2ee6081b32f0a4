package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Enumeration hooks
	e := NoopEnumerationHooks{}
	e.OnRunStart(ctx, "transf", 3)
	e.OnBatch(ctx, "transf", 8192)
	e.OnRunStop(ctx, "transf", 27, time.Second, "the algorithm was finished")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "run")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "run", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/runs")
	h.OnResponse(ctx, "POST", "/runs", 200, time.Second)
	h.OnError(ctx, "POST", "/runs", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Enumeration().(NoopEnumerationHooks); !ok {
		t.Error("Enumeration() should return NoopEnumerationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEnumeration := &testEnumerationHooks{}
	SetEnumerationHooks(customEnumeration)
	if Enumeration() != customEnumeration {
		t.Error("SetEnumerationHooks should set custom hooks")
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

	// Reset and verify
	Reset()
	if _, ok := Enumeration().(NoopEnumerationHooks); !ok {
		t.Error("Reset() should restore NoopEnumerationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEnumerationHooks{}
	SetEnumerationHooks(custom)

	// Setting nil should be ignored
	SetEnumerationHooks(nil)

	if Enumeration() != custom {
		t.Error("SetEnumerationHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEnumerationHooks struct{ NoopEnumerationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
