package restapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware provides per-token rate limiting.
type RateLimitMiddleware struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	rateLimit rate.Limit
	burstSize int
	keyFunc   func(*http.Request) string
	onLimited func(http.ResponseWriter, *http.Request)

	idleTTL  time.Duration
	now      func() time.Time
	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval for
// each key, with the same burst. A negative rate disables limiting and zero
// blocks every request. onLimited renders the 429 response.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration, keyFunc func(*http.Request) string, onLimited func(http.ResponseWriter, *http.Request)) *RateLimitMiddleware {
	var limit rate.Limit
	switch {
	case ratePerInterval < 0:
		limit = rate.Inf
	case ratePerInterval == 0:
		limit = 0
	default:
		limit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	rl := &RateLimitMiddleware{
		limiters:  make(map[string]*limiterEntry),
		rateLimit: limit,
		burstSize: ratePerInterval,
		keyFunc:   keyFunc,
		onLimited: onLimited,
		idleTTL:   10 * time.Minute,
		now:       time.Now,
		done:      make(chan struct{}),
	}

	rl.wg.Add(1)
	go rl.cleanup(5 * time.Minute)
	return rl
}

// getLimiter gets or creates a rate limiter for the given key.
func (rl *RateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Handler wraps next with the limit.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}

		key := ""
		if rl.keyFunc != nil {
			key = rl.keyFunc(r)
		}
		if key == "" {
			key = "__no_token__"
		}

		if !rl.getLimiter(key).Allow() {
			rl.setHeaders(w)
			if rl.onLimited != nil {
				rl.onLimited(w, r)
			} else {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimitMiddleware) setHeaders(w http.ResponseWriter) {
	retryAfter := time.Second
	if rl.rateLimit == 0 {
		retryAfter = time.Hour
	} else if every := time.Duration(float64(time.Second) / float64(rl.rateLimit)); every > retryAfter {
		retryAfter = every
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
}

// cleanup drops limiters that have not been used for idleTTL.
func (rl *RateLimitMiddleware) cleanup(every time.Duration) {
	defer rl.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimitMiddleware) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idleTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
		rl.wg.Wait()
	})
}
