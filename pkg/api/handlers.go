package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/semigroups/pkg/buildinfo"
	"github.com/matzehuels/semigroups/pkg/cache"
	"github.com/matzehuels/semigroups/pkg/errors"
	"github.com/matzehuels/semigroups/pkg/froidurepin"
	"github.com/matzehuels/semigroups/pkg/gens"
	"github.com/matzehuels/semigroups/pkg/observability"
	"github.com/matzehuels/semigroups/pkg/store"
	"github.com/matzehuels/semigroups/pkg/wordgraph"
)

// createRunRequest is the body of POST /api/v1/runs. The specification
// fields use the same 1-based boundary convention as input files.
type createRunRequest struct {
	gens.Spec

	// TimeoutMS bounds the enumeration; the server clamps it to its own
	// maximum. Zero means the server default.
	TimeoutMS int `json:"timeout_ms"`
}

// runResponse is a recorded run, with the full summary attached when
// the enumeration finished.
type runResponse struct {
	*store.Run
	Summary *gens.Summary `json:"summary,omitempty"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing request body"))
		return
	}
	spec := &req.Spec
	if err := spec.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}
	vectors, err := spec.GeneratorVectors()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	timeout := s.timeout
	if req.TimeoutMS > 0 {
		timeout = min(time.Duration(req.TimeoutMS)*time.Millisecond, s.timeout)
	}

	runKey := s.keyer.RunKey(cache.RunKeyOpts{ElementType: spec.Type, Generators: vectors})
	if data, ok, err := s.cache.Get(ctx, runKey); err == nil && ok {
		var sum gens.Summary
		if err := json.Unmarshal(data, &sum); err == nil {
			observability.Cache().OnCacheHit(ctx, "run")
			run := store.NewRun(spec.Type, spec.Degree, vectors)
			run.Finish(sum.Size, sum.Rules, sum.Idempotents, sum.ContainsOne, sum.MaxWordLength)
			if err := s.store.Create(ctx, run); err != nil {
				s.respondError(w, r, err)
				return
			}
			s.logger.Info("run served from cache", "id", run.ID, "size", sum.Size)
			s.respondJSON(w, http.StatusCreated, runResponse{Run: run, Summary: &sum})
			return
		}
	}
	observability.Cache().OnCacheMiss(ctx, "run")

	eng, err := s.open(spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	run := store.NewRun(spec.Type, spec.Degree, vectors)
	observability.Enumeration().OnRunStart(ctx, spec.Type, len(spec.Generators))
	started := time.Now()
	if err := eng.RunFor(ctx, timeout); err != nil {
		run.Fail(err.Error())
		_ = s.store.Create(ctx, run)
		s.respondError(w, r, errors.Wrap(errors.ErrCodeEnumerationDead, err, "enumeration aborted"))
		return
	}
	elapsed := time.Since(started)

	var sum *gens.Summary
	if eng.Finished() {
		sum, err = gens.Summarize(ctx, spec, eng)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		run.Finish(sum.Size, sum.Rules, sum.Idempotents, sum.ContainsOne, sum.MaxWordLength)
		if data, err := json.Marshal(sum); err == nil {
			if err := s.cache.Set(ctx, runKey, data, cache.TTLRun); err == nil {
				observability.Cache().OnCacheSet(ctx, "run", len(data))
			}
		}
	} else {
		// Timed out mid-enumeration; record the partial counts so the
		// client can see how far it got.
		now := time.Now().UTC()
		run.State = store.StateStopped
		run.StopReason = eng.WhyWeStopped()
		run.FinishedAt = &now
		run.Size = eng.CurrentSize()
		run.Rules = eng.CurrentNumberOfRules()
		run.MaxWordLength = eng.CurrentMaxWordLength()
	}
	observability.Enumeration().OnRunStop(ctx, spec.Type, eng.CurrentSize(), elapsed, eng.WhyWeStopped())

	if err := s.store.Create(ctx, run); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("run recorded", "id", run.ID, "state", run.State, "size", run.Size, "elapsed", elapsed)
	s.respondJSON(w, http.StatusCreated, runResponse{Run: run, Summary: sum})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	run, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if run.State != store.StateFinished {
		s.respondError(w, r, errors.New(errors.ErrCodeUnsupported,
			"run %s is %s; graphs are only rendered for finished runs", run.ID, run.State))
		return
	}

	side := r.URL.Query().Get("side")
	if side == "" {
		side = "right"
	}
	if side != "right" && side != "left" {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"unknown side %q (want right or left)", side))
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if err := errors.ValidateOutputFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}

	runKey := s.keyer.RunKey(cache.RunKeyOpts{ElementType: run.ElementType, Generators: run.Generators})
	key := s.keyer.ArtifactKey(runKey, cache.ArtifactKeyOpts{Side: side, Format: format})
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		s.respondBytes(w, format, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// The graph is not stored with the run; re-enumerating from the
	// recorded generators is deterministic and bounded by the server
	// timeout, and the artifact cache absorbs repeats.
	spec := gens.SpecFromVectors(run.ElementType, run.Degree, run.Generators)
	eng, err := s.open(spec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var g *wordgraph.Graph
	if side == "left" {
		g, err = eng.LeftCayleyGraph(rctx)
	} else {
		g, err = eng.RightCayleyGraph(rctx)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := wordgraph.Render(rctx, g, wordgraph.DOTOptions{Name: side}, format)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "rendering %s graph", side))
		return
	}
	if err := s.cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	s.respondBytes(w, format, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// open builds an engine for the specification with the server's batch
// size applied.
func (s *Server) open(spec *gens.Spec) (gens.Engine, error) {
	var opts []froidurepin.Option
	if s.batchSize > 0 {
		opts = append(opts, froidurepin.WithBatchSize(s.batchSize))
	}
	return gens.Open(spec, opts...)
}
