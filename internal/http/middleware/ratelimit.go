package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter counts hits on key inside a fixed window and returns the running total.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type clientInfo struct {
	start time.Time
	count int64
}

// MemoryCounter is an in-process fixed-window counter. Counts are per process.
type MemoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{clients: make(map[string]*clientInfo), now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) > window {
		if len(m.clients) > 10000 {
			m.sweep(now, window)
		}
		m.clients[key] = &clientInfo{start: now, count: 1}
		return 1, nil
	}

	ci.count++
	return ci.count, nil
}

// sweep drops expired windows; caller holds m.mu.
func (m *MemoryCounter) sweep(now time.Time, window time.Duration) {
	for k, ci := range m.clients {
		if now.Sub(ci.start) > window {
			delete(m.clients, k)
		}
	}
}

// limit is the shared fixed-window check behind the IP and tenant limiters.
func limit(c *gin.Context, counter Counter, key, endpoint string, maxRequests int, window time.Duration) bool {
	val, err := counter.Incr(c.Request.Context(), key, window)
	if err != nil {
		// fail open
		c.Header("X-RateLimit-Error", "counter-error")
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"retry_after": int(window.Seconds()),
		})
		return false
	}

	RLRequests.WithLabelValues(endpoint).Inc()
	return true
}

// IPRateLimit blocks clients that send more than maxRequests per window.
func IPRateLimit(counter Counter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !limit(c, counter, key, c.FullPath(), maxRequests, window) {
			return
		}
		c.Next()
	}
}
