package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/utils/ctxlog"
	"github.com/m-mizutani/officeimg/pkg/utils/report"
)

// LoggingMiddleware returns a middleware that logs HTTP requests and puts a
// request scoped logger into the request context
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// internalErrorMessage is returned instead of the details of failures on the server side
const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error string          `json:"error"`
	Kind  types.ErrorKind `json:"kind"`
}

// statusOf maps an error classification to an HTTP status code
func statusOf(kind types.ErrorKind) int {
	switch kind {
	case types.KindInvalidInput:
		return http.StatusBadRequest
	case types.KindInvalidContainer:
		return http.StatusUnprocessableEntity
	case types.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err and writes it as a JSON error response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := types.KindOf(err)
	report.Error(r.Context(), "Request failed", err)
	writeErrorStatus(w, r, err, kind, statusOf(kind))
}

// writeErrorStatus writes the error body. Only user errors expose their message.
func writeErrorStatus(w http.ResponseWriter, r *http.Request, err error, kind types.ErrorKind, status int) {
	message := internalErrorMessage
	if kind.IsUserError() {
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorResponse{
		Error: message,
		Kind:  kind,
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
