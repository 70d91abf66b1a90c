package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"jd-backend/internal/transport"
	"jd-backend/internal/utils"

	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type tier struct {
	name  string
	limit rate.Limit
	burst int
}

// sharedIPFactor is how many callers' worth of budget one client IP gets in total.
const sharedIPFactor = 4

// RateLimiter keeps token buckets per client IP and, under each IP, per declared caller.
// The IP bucket bounds the total, so rotating X-User-ID values from one address does
// not buy extra requests.
type RateLimiter struct {
	general tier
	strict  tier

	mu       sync.Mutex
	visitors map[string]*visitor
	idleTTL  time.Duration
}

// NewRateLimiter builds a limiter with the general rate; writes that create orders
// or tokens get a quarter of it.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	strictBurst := burst / 4
	if strictBurst < 1 {
		strictBurst = 1
	}
	return &RateLimiter{
		general:  tier{name: "general", limit: rate.Limit(rps), burst: burst},
		strict:   tier{name: "strict", limit: rate.Limit(rps / 4), burst: strictBurst},
		visitors: make(map[string]*visitor),
		idleTTL:  3 * time.Minute,
	}
}

func (t tier) shared() tier {
	return tier{name: t.name, limit: t.limit * sharedIPFactor, burst: t.burst * sharedIPFactor}
}

func (l *RateLimiter) getVisitor(key string, t tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(t.limit, t.burst)
		l.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Run evicts idle visitors until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict(time.Now())
		}
	}
}

func (l *RateLimiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := l.resolveTier(r)
		ip, caller := clientIP(r), callerKey(r)

		// The caller bucket is only created once the IP bucket lets the request in.
		if !l.getVisitor(fmt.Sprintf("ip:%s:%s", ip, t.name), t.shared()).Allow() ||
			!l.getVisitor(fmt.Sprintf("ip:%s|%s:%s", ip, caller, t.name), t).Allow() {
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) resolveTier(r *http.Request) tier {
	if r.Method == http.MethodPost {
		path := strings.TrimSuffix(r.URL.Path, "/")
		if path == "/api/orders" || path == "/api/admin/token" {
			return l.strict
		}
	}
	return l.general
}

// callerKey names the declared caller under its IP bucket.
func callerKey(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(transport.UserIDHeader)); id != "" {
		return "user:" + id
	}
	return "anon"
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
