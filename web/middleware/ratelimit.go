package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mhsanaei/mediahub/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
	KeyFunc           func(c *gin.Context) string
	// OnLimit writes the rejection. Defaults to a plain 429.
	OnLimit func(c *gin.Context)
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 10,
		BurstSize:         5,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.FullPath()
		},
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// staleAfter is how long an idle client's bucket is kept.
const staleAfter = 10 * time.Minute

// RateLimitMiddleware creates a token-bucket limiter per client key.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)
	every := rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))

	allow := func(key string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > staleAfter {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > staleAfter {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(every, config.BurstSize)}
			visitors[key] = v
		}
		v.lastSeen = now
		return v.limiter.AllowN(now, 1)
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		if !allow(key, time.Now()) {
			logger.Warningf("Rate limit exceeded for %s", key)
			c.Header("Retry-After", strconv.Itoa(int(time.Minute.Seconds())/config.RequestsPerMinute+1))
			if config.OnLimit != nil {
				config.OnLimit(c)
			} else {
				c.String(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
