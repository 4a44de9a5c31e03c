// Package httpkit provides small HTTP building blocks shared by the API
// handlers: a two-phase HandlerFunc, JSON response helpers, and
// request-scoped error tracking for the logging middleware.
package httpkit

import (
	"context"
	"encoding/json"
	"net/http"
)

// HTTPError is an error that knows its HTTP status code and carries a
// detailed cause for logging.
type HTTPError interface {
	HTTPCode() int
	Cause() error
	error
}

// writeJSONHeaders sets the JSON content type and nosniff option unless
// the handler already set them.
func writeJSONHeaders(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{"application/json; charset=utf-8"}
	}
	if len(header["X-Content-Type-Options"]) == 0 {
		header["X-Content-Type-Options"] = []string{"nosniff"}
	}
}

type ctxKeyError struct{}

// errorHolder is a mutable cell so handlers can record an error into a
// context created before the handler ran.
type errorHolder struct {
	err error
}

// WithErrorTracking returns a context able to record a handler error.
// Idempotent: an existing tracking context is returned unchanged.
func WithErrorTracking(ctx context.Context) context.Context {
	if _, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyError{}, &errorHolder{})
}

// SetError records err in the context, if it has error tracking.
func SetError(ctx context.Context, err error) {
	if holder, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		holder.err = err
	}
}

// Error returns the error recorded in the context, or nil.
func Error(ctx context.Context) error {
	if holder, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		return holder.err
	}
	return nil
}

// HandlerFunc is a two-phase handler: the first phase parses and executes,
// then returns the response writer to run. A nil return means the handler
// already wrote the response.
type HandlerFunc func(http.ResponseWriter, *http.Request) http.HandlerFunc

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(WithErrorTracking(r.Context()))

	if respond := h(w, r); respond != nil {
		respond(w, r)
	}
}

// JSON returns a response writer that encodes data with 200 OK.
func JSON(data any) http.HandlerFunc {
	return JSONWithStatus(http.StatusOK, data)
}

// JSONWithStatus returns a response writer that encodes data with the
// given status code.
func JSONWithStatus(code int, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONHeaders(w)
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent returns a response writer that replies 204 No Content.
func NoContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// JsonError returns a response writer that records err in the request
// context and encodes it with its HTTP status code.
func JsonError(err HTTPError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SetError(r.Context(), err)
		writeJSONHeaders(w)
		w.WriteHeader(err.HTTPCode())
		_ = json.NewEncoder(w).Encode(err)
	}
}
