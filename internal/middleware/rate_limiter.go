package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/logger"
)

// UserHeader identifies the calling user for per-user limits.
const UserHeader = "X-User-ID"

// RateLimiter implements a simple in-memory fixed-window rate limiter
type RateLimiter struct {
	userLimits map[string]*limit
	ipLimits   map[string]*limit
	mu         sync.RWMutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type limit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop.
// Call Stop to end the loop.
func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[string]*limit),
		ipLimits:        make(map[string]*limit),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
		now:             time.Now,
		stop:            make(chan struct{}),
	}

	go rl.cleanup(5 * time.Minute)

	return rl
}

// CheckUserLimit checks if user has exceeded rate limit
func (rl *RateLimiter) CheckUserLimit(userID string) bool {
	return rl.check(rl.userLimits, userID, rl.userMaxRequests)
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	return rl.check(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) check(limits map[string]*limit, key string, max int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	l, exists := limits[key]
	if !exists || now.After(l.resetTime) {
		limits[key] = &limit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if l.requests >= max {
		return false
	}

	l.requests++
	return true
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID string) int {
	return rl.remaining(rl.userLimits, userID, rl.userMaxRequests)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	return rl.remaining(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) remaining(limits map[string]*limit, key string, max int) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	l, exists := limits[key]
	if !exists || rl.now().After(l.resetTime) {
		return max
	}

	remaining := max - l.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.purge()
		}
	}
}

func (rl *RateLimiter) purge() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, l := range rl.userLimits {
		if now.After(l.resetTime) {
			delete(rl.userLimits, key)
		}
	}
	for key, l := range rl.ipLimits {
		if now.After(l.resetTime) {
			delete(rl.ipLimits, key)
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[string]*limit)
	rl.ipLimits = make(map[string]*limit)
}

// Middleware rejects requests over the IP or user budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.CheckIPLimit(ip) {
			rl.reject(c, "ip", ip)
			return
		}
		if userID := c.GetHeader(UserHeader); userID != "" {
			if !rl.CheckUserLimit(userID) {
				rl.reject(c, "user", userID)
				return
			}
			c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.GetUserRemaining(userID)))
		}
		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, scope, key string) {
	logger.Warn("Rate limit exceeded", "scope", scope, "key", key, "path", c.FullPath())
	c.Header("Retry-After", strconv.Itoa(int(rl.window/time.Second)))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"code":    errors.ErrCodeRateLimitExceeded,
		"message": "too many requests, slow down",
	})
}
