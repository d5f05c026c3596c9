package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Entries unused for this long are dropped.
const idleTTL = 15 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (usually the IP).
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	enabled   bool
	lastSweep time.Time
	now       func() time.Time
	logger    *zap.SugaredLogger
}

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *RateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	requests := cfg.RequestsPerTimeFrame
	if requests <= 0 {
		requests = 1
	}
	timeFrame := cfg.TimeFrame
	if timeFrame <= 0 {
		timeFrame = time.Minute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		visitors:  map[string]*visitor{},
		limit:     rate.Every(timeFrame / time.Duration(requests)),
		burst:     burst,
		enabled:   cfg.Enabled,
		lastSweep: time.Now(),
		now:       time.Now,
		logger:    logger,
	}
}

// Allow reports whether key may proceed and, if not, how long it should wait.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.mu.Lock()
	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %s", key, delay)
		return false, delay
	}
	return true, 0
}

// sweep must be called with mu held.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < idleTTL {
		return
	}
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
