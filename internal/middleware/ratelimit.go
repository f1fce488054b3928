package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/pkg/logger"
	"github.com/stagegear/inventory/pkg/response"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL     = 10 * time.Minute
	limiterSweepPeriod = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. It guards the login route
// against password guessing.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	every   rate.Limit
	burst   int

	stop     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
}

// NewRateLimiter allows perMinute requests per IP on average, with bursts of
// up to burst requests.
func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		every:   rate.Limit(perMinute / 60),
		burst:   burst,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) sweep() {
	defer close(rl.stopped)
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, entry := range rl.clients {
				if time.Since(entry.lastSeen) > limiterIdleTTL {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiterFor(ip).Allow() {
			logger.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{
				Error: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
