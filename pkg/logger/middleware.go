package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edufund/grantry/pkg/httpkit"
)

// recordingWriter wraps http.ResponseWriter to capture the status code and
// the number of bytes written.
type recordingWriter struct {
	http.ResponseWriter
	status   int
	bytesOut int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesOut += n
	return n, err
}

// NewMiddleware creates HTTP request logging middleware. One entry per
// request; 5xx responses log at error level, everything else at info.
func NewMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Ensure error tracking context exists even when the handler
			// was not wrapped by httpkit.HandlerFunc.
			r = r.WithContext(httpkit.WithErrorTracking(r.Context()))

			// ContentLength is -1 when unknown
			bytesIn := max(0, int(r.ContentLength))

			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			if rw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status", rw.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes_in", bytesIn),
				slog.Int("bytes_out", rw.bytesOut),
			}

			// Correlate with the request id when the RequestID middleware ran
			if rid := httpkit.RequestIDFrom(r.Context()); rid != "" {
				attrs = append(attrs, slog.String("request_id", rid))
			}

			if err := httpkit.Error(r.Context()); err != nil {
				attrs = append(attrs, slog.String("error", errorMessage(err)))
			}

			logger.LogAttrs(r.Context(), level, "HTTP", attrs...)
		})
	}
}

// errorMessage prefers the underlying cause of an HTTPError so logs keep
// the detail the response body hides.
func errorMessage(err error) string {
	if httpErr, ok := err.(httpkit.HTTPError); ok {
		return httpErr.Cause().Error()
	}
	return err.Error()
}
