// Package identity supplies a rotating proxy and browser header identity for
// outbound ATS requests. The pool is read-only shared configuration; the only
// mutable state is the per-proxy failure cooldown, guarded by a mutex.
package identity

import (
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/jonathan/jobradar/internal/config"
)

// DefaultCooldown is how long a proxy stays excluded after tripping the
// failure threshold.
const DefaultCooldown = 5 * time.Minute

// DefaultFailureThreshold is the number of consecutive transport errors
// before a proxy is benched.
const DefaultFailureThreshold = 3

// userAgents is a fixed pool of realistic desktop browser strings.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Safari/605.1.15",
}

// Identity is one outbound request persona: an optional proxy plus headers.
type Identity struct {
	ProxyURL *url.URL // nil when proxying is disabled or all proxies are cooling down
	Headers  map[string]string
}

// Rotator hands out identities uniformly at random over the configured pool
// and benches proxies that keep failing.
type Rotator struct {
	mu        sync.Mutex
	proxies   []proxyState
	user      string
	pass      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time
	rng       *rand.Rand
}

type proxyState struct {
	endpoint config.ProxyEndpoint
	failures int
	until    time.Time // excluded until this instant
}

// Option customizes a Rotator.
type Option func(*Rotator)

// WithCooldown overrides the exclusion window.
func WithCooldown(d time.Duration) Option {
	return func(r *Rotator) { r.cooldown = d }
}

// WithFailureThreshold overrides the consecutive-failure limit.
func WithFailureThreshold(n int) Option {
	return func(r *Rotator) { r.threshold = n }
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Rotator) { r.now = now }
}

// NewRotator builds a Rotator over the configured proxy pool. An empty pool
// is valid: identities then carry headers only.
func NewRotator(endpoints []config.ProxyEndpoint, user, pass string, opts ...Option) *Rotator {
	r := &Rotator{
		user:      user,
		pass:      pass,
		threshold: DefaultFailureThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, ep := range endpoints {
		r.proxies = append(r.proxies, proxyState{endpoint: ep})
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns a fresh identity: a uniformly random healthy proxy (or none)
// plus a randomized User-Agent and the standard header set.
func (r *Rotator) Next() Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := Identity{Headers: map[string]string{
		"User-Agent":      userAgents[r.rng.Intn(len(userAgents))],
		"Accept":          "application/json, text/html",
		"Accept-Encoding": "gzip, deflate",
		"Accept-Language": "en-US,en;q=0.5",
		"Connection":      "keep-alive",
	}}

	healthy := r.healthyLocked()
	if len(healthy) == 0 {
		return id
	}

	ep := healthy[r.rng.Intn(len(healthy))]
	proxyURL, err := url.Parse(fmt.Sprintf("http://%s:%s@%s:%s", r.user, r.pass, ep.Host, ep.Port))
	if err == nil {
		id.ProxyURL = proxyURL
	}
	return id
}

// ReportFailure records a transport error against the proxy used by id.
// Once the consecutive-failure threshold is reached the proxy is excluded
// until the cooldown expires.
func (r *Rotator) ReportFailure(id Identity) {
	if id.ProxyURL == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	host := id.ProxyURL.Hostname()
	port := id.ProxyURL.Port()
	for i := range r.proxies {
		p := &r.proxies[i]
		if p.endpoint.Host != host || p.endpoint.Port != port {
			continue
		}
		p.failures++
		if p.failures >= r.threshold {
			p.until = r.now().Add(r.cooldown)
			p.failures = 0
		}
		return
	}
}

// ReportSuccess resets the failure streak for the proxy used by id.
func (r *Rotator) ReportSuccess(id Identity) {
	if id.ProxyURL == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	host := id.ProxyURL.Hostname()
	port := id.ProxyURL.Port()
	for i := range r.proxies {
		p := &r.proxies[i]
		if p.endpoint.Host == host && p.endpoint.Port == port {
			p.failures = 0
			return
		}
	}
}

// healthyLocked returns endpoints not currently in cooldown. Caller holds mu.
func (r *Rotator) healthyLocked() []config.ProxyEndpoint {
	now := r.now()
	var out []config.ProxyEndpoint
	for _, p := range r.proxies {
		if p.until.IsZero() || now.After(p.until) {
			out = append(out, p.endpoint)
		}
	}
	return out
}

// PoolSize returns the number of configured proxies.
func (r *Rotator) PoolSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proxies)
}
