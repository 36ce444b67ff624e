package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// RateLimiterConfig sizes the token bucket each employee gets.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// Buckets idle for longer than EntryTTL are dropped every CleanupInterval.
	CleanupInterval time.Duration
	EntryTTL        time.Duration
}

// DefaultRateLimiterConfig allows 10 requests a second with bursts of 20.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	}
}

func (c RateLimiterConfig) orDefaults() RateLimiterConfig {
	d := DefaultRateLimiterConfig()
	if c.RequestsPerSecond > 0 {
		d.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.BurstSize > 0 {
		d.BurstSize = c.BurstSize
	}
	if c.CleanupInterval > 0 {
		d.CleanupInterval = c.CleanupInterval
	}
	if c.EntryTTL > 0 {
		d.EntryTTL = c.EntryTTL
	}
	return d
}

type employeeBucket struct {
	tokens   *rate.Limiter
	lastUsed time.Time
}

// EmployeeRateLimiter throttles each authenticated employee separately, so a
// stuck till retrying in a loop cannot starve the other registers.
type EmployeeRateLimiter struct {
	cfg RateLimiterConfig

	mu      sync.Mutex
	buckets map[uuid.UUID]*employeeBucket

	done     chan struct{}
	stopOnce sync.Once
}

// NewEmployeeRateLimiter starts a limiter; call Stop to end its sweeper.
func NewEmployeeRateLimiter(cfg RateLimiterConfig) *EmployeeRateLimiter {
	rl := &EmployeeRateLimiter{
		cfg:     cfg.orDefaults(),
		buckets: make(map[uuid.UUID]*employeeBucket),
		done:    make(chan struct{}),
	}
	go rl.sweepEvery(rl.cfg.CleanupInterval)
	return rl
}

// take spends one token from the employee's bucket and reports what is left.
func (rl *EmployeeRateLimiter) take(employeeID uuid.UUID, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[employeeID]
	if !ok {
		b = &employeeBucket{tokens: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.BurstSize)}
		rl.buckets[employeeID] = b
	}
	b.lastUsed = now

	allowed := b.tokens.AllowN(now, 1)
	left := int(b.tokens.TokensAt(now))
	if left < 0 {
		left = 0
	}
	return allowed, left
}

// sweep drops buckets not used since now minus the TTL.
func (rl *EmployeeRateLimiter) sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	idleSince := now.Add(-rl.cfg.EntryTTL)
	dropped := 0
	for id, b := range rl.buckets {
		if b.lastUsed.Before(idleSince) {
			delete(rl.buckets, id)
			dropped++
		}
	}
	return dropped
}

func (rl *EmployeeRateLimiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			if n := rl.sweep(now); n > 0 {
				log.Debugf("dropped %d idle rate limit buckets", n)
			}
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *EmployeeRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// Middleware must run after AuthMiddleware; requests without an employee pass through.
func (rl *EmployeeRateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.cfg.BurstSize)

	return func(c *gin.Context) {
		employeeID := GetEmployeeID(c)
		if employeeID == uuid.Nil {
			c.Next()
			return
		}

		allowed, left := rl.take(employeeID, time.Now())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(left))
		if !allowed {
			log.Warningf("rate limit exceeded for employee %s", employeeID)
			c.Header("Retry-After", "1")
			response.ErrorWithCode(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
