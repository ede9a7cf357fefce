package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"confbot/internal/core/domain"
	"confbot/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiterStore stores per-identity rate limiters.
type rateLimiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
}

func newRateLimiterStore(r rate.Limit, burst int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  make(map[string]*rate.Limiter),
		rate:      r,
		burstSize: burst,
	}
}

func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.rate, s.burstSize)
		s.limiters[key] = limiter
	}
	return limiter
}

// limiterKey prefers the authenticated identity and falls back to the
// client IP for unauthenticated endpoints.
func limiterKey(c *gin.Context) string {
	if identity, exists := c.Get(ContextIdentityKey); exists {
		if id, ok := identity.(domain.Identity); ok {
			return fmt.Sprintf("identity:%d", id)
		}
	}
	return "ip:" + c.ClientIP()
}

// NewRateLimitMiddleware returns gin middleware that throttles messages per
// identity. Runs after AuthMiddleware so the identity key is available.
func NewRateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if !cfg.RateLimiting.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	store := newRateLimiterStore(
		rate.Limit(cfg.RateLimiting.MessagesPerSecond),
		cfg.RateLimiting.Burst,
	)

	return func(c *gin.Context) {
		limiter := store.getLimiter(limiterKey(c))
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
