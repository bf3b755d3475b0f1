package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ponabri-api/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Token bucket shared across instances via a redis Lua script. The check-in
// validation endpoint is unauthenticated, so it is keyed by client IP.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

type RateLimiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client

	// In-process fallback used when redis is unreachable. Weaker (per
	// instance, not global) but keeps the endpoint guarded.
	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		rdb:      rdb,
		fallback: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	if !rl.cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := "rl:ip:" + c.ClientIP()

		if rl.rdb == nil {
			rl.limitInProcess(c, key)
			return
		}

		now := time.Now()
		vals, err := tokenBucketScript.Run(c.Request.Context(), rl.rdb, []string{key},
			now.UnixMilli(),
			rl.cfg.Capacity,
			rl.cfg.RefillTokens,
			rl.cfg.RefillInterval.Milliseconds(),
			int64(rl.cfg.TTL/time.Second),
		).Result()
		if err != nil {
			rl.limitInProcess(c, key)
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			c.Next()
			return
		}
		allowed := asInt64(arr[0]) == 1
		remaining := asInt64(arr[1])
		retryMs := asInt64(arr[2])

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too_many_requests",
				"retry_after": secs,
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limitInProcess(c *gin.Context, key string) {
	rl.mu.Lock()
	lim, ok := rl.fallback[key]
	if !ok {
		refillPerSec := float64(rl.cfg.RefillTokens) / rl.cfg.RefillInterval.Seconds()
		lim = rate.NewLimiter(rate.Limit(refillPerSec), rl.cfg.Capacity)
		rl.fallback[key] = lim
	}
	rl.mu.Unlock()

	if !lim.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too_many_requests",
		})
		return
	}
	c.Next()
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
