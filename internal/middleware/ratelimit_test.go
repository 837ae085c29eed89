package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/contributions", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	handler := NewRateLimiter(5, 15*time.Minute).Handler(okHandler())

	for i := 0; i < 5; i++ {
		w := doRequest(handler, "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i)
	}
}

func TestRateLimiter_BlocksOverBudget(t *testing.T) {
	handler := NewRateLimiter(3, 15*time.Minute).Handler(okHandler())

	for i := 0; i < 3; i++ {
		doRequest(handler, "10.0.0.1")
	}
	w := doRequest(handler, "10.0.0.1")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_BudgetIsPerIP(t *testing.T) {
	handler := NewRateLimiter(1, 15*time.Minute).Handler(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1").Code)
	// A different client still has its own budget.
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2").Code)
}
