package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/weddingmatch/backend/internal/models"
)

// RateLimiter allows max requests per window for each client IP, refilling
// continuously. Idle clients are forgotten after a few windows.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	window    time.Duration
	proxyHops int
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter returns nil when max or window is zero, which Limit treats as
// no limit. trustedProxyHops is the number of reverse proxies in front of the
// server; with zero, X-Forwarded-For is ignored and clients are keyed by the
// connection's remote address.
func NewRateLimiter(window time.Duration, max int, trustedProxyHops int) *RateLimiter {
	if max <= 0 || window <= 0 {
		return nil
	}
	if trustedProxyHops < 0 {
		trustedProxyHops = 0
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Every(window / time.Duration(max)),
		burst:     max,
		window:    window,
		proxyHops: trustedProxyHops,
		now:       time.Now,
	}
}

// Allow reports whether the client may proceed. When it may not, the second
// value is how long until the next request would be allowed.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, l.window
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > 3*l.window {
			delete(l.visitors, key)
		}
	}
}

// Limit rejects clients over the limit with 429 and the localized messageKey.
func Limit(l *RateLimiter, tr Localizer, messageKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := l.Allow(clientIP(r, l.proxyHops))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				msg := tr.T(r.Header.Get("Accept-Language"), messageKey, nil)
				writeJSON(w, http.StatusTooManyRequests, models.NewErrorResponse(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the address of the peer the outermost trusted proxy saw. Each
// proxy appends the address it received the request from, so with n trusted
// hops that is the n-th X-Forwarded-For entry from the right. Entries further
// left are client supplied and never used.
func clientIP(r *http.Request, trustedHops int) string {
	remote := remoteHost(r)
	if trustedHops <= 0 {
		return remote
	}

	var hops []string
	for _, h := range r.Header.Values("X-Forwarded-For") {
		for _, part := range strings.Split(h, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}
	if len(hops) < trustedHops {
		return remote
	}
	ip := hops[len(hops)-trustedHops]
	if net.ParseIP(ip) == nil {
		return remote
	}
	return ip
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
