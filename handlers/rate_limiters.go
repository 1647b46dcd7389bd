package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type RateLimiter struct {
	ViewLimit *IPRateLimiter
}

func NewRateLimiter(viewsPerMinute int) *RateLimiter {
	return &RateLimiter{
		ViewLimit: NewIPRateLimiter(viewsPerMinute, time.Minute),
	}
}

// IPRateLimiter allows limit requests per client IP within a sliding window.
type IPRateLimiter struct {
	ips    map[string][]time.Time
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips:    make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the
// limit.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	valid := l.ips[ip][:0]
	for _, req := range l.ips[ip] {
		if req.After(windowStart) {
			valid = append(valid, req)
		}
	}

	if len(valid) >= l.limit {
		l.ips[ip] = valid
		return false
	}
	l.ips[ip] = append(valid, now)
	return true
}

// Sweep forgets clients with no requests inside the window.
func (l *IPRateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.window)
	for ip, reqs := range l.ips {
		if len(reqs) == 0 || !reqs[len(reqs)-1].After(windowStart) {
			delete(l.ips, ip)
		}
	}
}

func (l *IPRateLimiter) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientIP prefers the first X-Forwarded-For hop set by a fronting proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
