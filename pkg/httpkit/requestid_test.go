package httpkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edufund/grantry/pkg/httpkit"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("it trusts an incoming request id", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var seen string
		handler := httpkit.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = httpkit.RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/grants", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("it generates an id when none is supplied", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var seen string
		handler := httpkit.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = httpkit.RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/grants", nil)
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, req)

		// Assert
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("it returns empty outside the middleware", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, httpkit.RequestIDFrom(t.Context()))
	})
}
