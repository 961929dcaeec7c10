package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_BurstExhaustion(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 2)
	h := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books", nil)
		r.RemoteAddr = "10.0.0.1:52001"
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r.RemoteAddr = "10.0.0.1:52002"
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimitMiddleware_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	h := rl.Middleware(okHandler())

	first := httptest.NewRecorder()
	r1 := httptest.NewRequest(http.MethodGet, "/books", nil)
	r1.RemoteAddr = "10.0.0.1:40000"
	h.ServeHTTP(first, r1)
	assert.Equal(t, http.StatusOK, first.Code)

	other := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/books", nil)
	r2.RemoteAddr = "10.0.0.2:40000"
	h.ServeHTTP(other, r2)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimitMiddleware_HealthChecksExempt(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.RemoteAddr = "10.0.0.9:9000"
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r.RemoteAddr = "192.168.1.5:61234"
	assert.Equal(t, "192.168.1.5", clientKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientKey(r))
}
