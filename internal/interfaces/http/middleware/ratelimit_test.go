package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, limit int, clock shared.Clock) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(limit, time.Minute, clock)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := newLimiter(t, 3, nil)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("client"))
		assert.True(t, limiter.Allow("other"))
	})

	t.Run("resets after window", func(t *testing.T) {
		clock := &steppingClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
		limiter := newLimiter(t, 2, clock)

		assert.True(t, limiter.Allow("client"))
		assert.True(t, limiter.Allow("client"))
		assert.False(t, limiter.Allow("client"))
		assert.Equal(t, 0, limiter.Remaining("client"))

		clock.advance(time.Minute)

		assert.Equal(t, 2, limiter.Remaining("client"))
		assert.True(t, limiter.Allow("client"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := newLimiter(t, 100, nil)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("client") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/api/v1/tenants", RateLimit(newLimiter(t, 1, nil)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil))
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, second))
}
