package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/semigroups/pkg/errors"
	"github.com/matzehuels/semigroups/pkg/observability"
	"github.com/matzehuels/semigroups/pkg/store"
)

// errorBody is the JSON shape of all error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) respondBytes(w http.ResponseWriter, format string, data []byte) {
	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "png":
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" && stderrors.Is(err, store.ErrNotFound) {
		code = errors.ErrCodeRunNotFound
	}

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}

	var body errorBody
	if code == "" {
		code = errors.ErrCodeInternal
	}
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	s.respondJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidIndex, errors.ErrCodeInvalidLetter,
		errors.ErrCodeInvalidWord, errors.ErrCodeInvalidElement, errors.ErrCodeInvalidFormat,
		errors.ErrCodeDegreeMismatch:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusConflict
	case errors.ErrCodeEnumerationDead:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// hooksMiddleware reports request timing to the observability hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, rec.status, time.Since(started))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
