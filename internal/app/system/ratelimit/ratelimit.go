// Package ratelimit protects the credential endpoints from brute forcing.
//
// Login attempts are budgeted per client IP and per target email so that
// neither a single machine hammering many accounts nor many machines
// hammering one account gets unlimited guesses.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter is a fixed-window counter keyed by an arbitrary string.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter allowing limit requests per key per period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow consumes one unit of the key's budget. It returns false when the
// budget for the current window is exhausted.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the budget for a key, e.g. after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows. Called under l.mu on every Allow so the map
// never grows beyond the set of keys seen in the last period.
func (l *Limiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
		}
	}
}

// ClientIP extracts the caller's IP, honoring the usual proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter combines the two budgets used on /auth/login and
// /auth/register.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewLoginLimiter returns a limiter with the default budgets: 10 attempts
// per IP per minute and 5 attempts per email per five minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(10, time.Minute),
		byEmail: New(5, 5*time.Minute),
	}
}

// Allow reports whether one more attempt from this request against this
// email fits the budgets.
func (ll *LoginLimiter) Allow(r *http.Request, email string) bool {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false
	}
	if email != "" {
		return ll.byEmail.Allow(normalizeEmail(email))
	}
	return true
}

// Succeeded clears the email budget after a successful authentication so a
// user who mistyped their password a few times is not locked out after
// getting it right.
func (ll *LoginLimiter) Succeeded(email string) {
	if email != "" {
		ll.byEmail.Reset(normalizeEmail(email))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
