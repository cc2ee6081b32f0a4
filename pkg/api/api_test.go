package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/gens"
	"github.com/matzehuels/semigroups/pkg/observability"
	"github.com/matzehuels/semigroups/pkg/store"
)

func newTestHandler(t *testing.T, c cache.Cache) (http.Handler, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	s := NewServer(st, c, WithTimeout(5*time.Second))
	return s.Handler(), st
}

// t3Body is the full transformation monoid on three points, in the
// 1-based boundary convention.
const t3Body = `{
  "type": "transf",
  "degree": 3,
  "generators": [[2, 1, 3], [2, 3, 1], [1, 1, 3]]
}`

func postRun(t *testing.T, h http.Handler, body string) runResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/v1/runs = %d: %s", rec.Code, rec.Body.String())
	}
	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body.Bytes(), &eb); err != nil {
		t.Fatalf("decoding error body %q: %v", body.String(), err)
	}
	return eb.Error.Code
}

func TestCreateRunLifecycle(t *testing.T) {
	h, _ := newTestHandler(t, cache.NewNullCache())

	resp := postRun(t, h, t3Body)
	if resp.State != store.StateFinished {
		t.Fatalf("State = %q, want %q", resp.State, store.StateFinished)
	}
	if resp.Size != 27 || !resp.ContainsOne {
		t.Fatalf("run = %+v, want size 27 monoid", resp.Run)
	}
	if resp.Summary == nil || resp.Summary.Idempotents != 10 {
		t.Fatalf("Summary = %+v, want 10 idempotents", resp.Summary)
	}

	// The recorded run is retrievable.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET run = %d: %s", rec.Code, rec.Body.String())
	}
	var got store.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding run: %v", err)
	}
	if got.ID != resp.ID || got.Size != 27 {
		t.Fatalf("GET run = %+v", got)
	}

	// Listing includes it.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET runs = %d", rec.Code)
	}
	var list struct {
		Runs []*store.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list.Runs) != 1 {
		t.Fatalf("List returned %d runs, want 1", len(list.Runs))
	}

	// Delete, then reads miss.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+resp.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE run = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET deleted run = %d, want 404", rec.Code)
	}
	if code := decodeError(t, rec.Body); code != "RUN_NOT_FOUND" {
		t.Fatalf("error code = %q, want RUN_NOT_FOUND", code)
	}
}

func TestCreateRunRejectsBadRequests(t *testing.T) {
	h, _ := newTestHandler(t, cache.NewNullCache())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"type": "transf",`},
		{"unknown type", `{"type": "matrix", "degree": 2, "generators": [[1, 2]]}`},
		{"no generators", `{"type": "transf", "degree": 2, "generators": []}`},
		{"wrong entry count", `{"type": "transf", "degree": 3, "generators": [[1, 2]]}`},
		{"image out of range", `{"type": "transf", "degree": 2, "generators": [[3, 1]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("POST = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// countingCacheHooks records hit counts per key type.
type countingCacheHooks struct {
	mu   sync.Mutex
	hits map[string]int
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     {}
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) {}

func TestCreateRunServedFromCache(t *testing.T) {
	hooks := &countingCacheHooks{hits: make(map[string]int)}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	h, _ := newTestHandler(t, fc)

	first := postRun(t, h, t3Body)
	second := postRun(t, h, t3Body)

	if first.ID == second.ID {
		t.Fatal("cache hit reused the run ID")
	}
	if second.Size != 27 || second.State != store.StateFinished {
		t.Fatalf("cached run = %+v", second.Run)
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.hits["run"] != 1 {
		t.Fatalf("run cache hits = %d, want 1", hooks.hits["run"])
	}
}

func TestGraphEndpoint(t *testing.T) {
	h, st := newTestHandler(t, cache.NewNullCache())

	// Cyclic group of order three keeps the graph small.
	resp := postRun(t, h, `{"type": "transf", "degree": 3, "generators": [[2, 3, 1]]}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/runs/"+resp.ID+"/graph?format=dot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET graph = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "digraph") {
		t.Fatalf("graph body is not DOT: %q", rec.Body.String())
	}

	// The left graph renders too.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/runs/"+resp.ID+"/graph?side=left&format=dot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET left graph = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/runs/"+resp.ID+"/graph?side=up", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad side = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/runs/"+resp.ID+"/graph?format=pdf", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing/graph", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing run graph = %d, want 404", rec.Code)
	}

	// Graphs require a finished run.
	stopped := store.NewRun(gens.TypeTransf, 3, [][]uint32{{1, 2, 0}})
	stopped.State = store.StateStopped
	if err := st.Create(context.Background(), stopped); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/runs/"+stopped.ID+"/graph?format=dot", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("graph for stopped run = %d, want 409", rec.Code)
	}
	if code := decodeError(t, rec.Body); code != "UNSUPPORTED" {
		t.Fatalf("error code = %q, want UNSUPPORTED", code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := newTestHandler(t, cache.NewNullCache())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d", rec.Code)
	}
	var v map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if v["version"] == "" {
		t.Fatal("version response is empty")
	}
}
