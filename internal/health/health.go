// Package health reports whether nftjson can reach nftables: the nft
// binary, the ruleset it lists and the kernel over netlink.
package health

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status of a check or of the whole report.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	}
	return 2
}

// Check is the outcome of one probe.
type Check struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates all checks, sorted by name. Status is the worst
// check status.
type Report struct {
	Status    Status    `json:"status"`
	Checks    []Check   `json:"checks"`
	Timestamp time.Time `json:"timestamp"`
}

// Failing returns the names of checks that are not healthy.
func (r Report) Failing() []string {
	var names []string
	for _, c := range r.Checks {
		if c.Status != StatusHealthy {
			names = append(names, c.Name)
		}
	}
	return names
}

// CheckFunc performs one probe. Name, Started and Duration are filled in
// by the Checker.
type CheckFunc func(ctx context.Context) Check

// Checker runs registered checks concurrently and caches the report.
type Checker struct {
	mu      sync.Mutex
	checks  map[string]CheckFunc
	cache   *Report
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewChecker creates a checker with a five second cache. Each check gets
// at most ten seconds.
func NewChecker() *Checker {
	return &Checker{
		checks:  make(map[string]CheckFunc),
		ttl:     5 * time.Second,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
}

// Register adds or replaces a check and drops the cached report.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
	c.cache = nil
}

// Check returns the cached report if it is fresh, otherwise runs every
// check.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.Lock()
	if c.cache != nil && c.now().Sub(c.cache.Timestamp) < c.ttl {
		r := *c.cache
		c.mu.Unlock()
		return r
	}
	funcs := maps.Clone(c.checks)
	c.mu.Unlock()

	names := slices.Sorted(maps.Keys(funcs))
	results := make([]Check, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := c.now()
			res := funcs[name](cctx)
			res.Name = name
			res.Started = start
			if res.Duration == 0 {
				res.Duration = c.now().Sub(start)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: StatusHealthy, Checks: results, Timestamp: c.now()}
	for _, res := range results {
		if res.Status.rank() > report.Status.rank() {
			report.Status = res.Status
		}
	}

	c.mu.Lock()
	c.cache = &report
	c.mu.Unlock()
	return report
}

// Handler serves the report as JSON. Degraded still answers 200.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}

// ReadinessHandler answers "ready" unless a check is unhealthy, in which
// case it lists the failing checks.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Check(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready: " + strings.Join(report.Failing(), ", ") + "\n"))
			return
		}
		_, _ = w.Write([]byte("ready\n"))
	}
}
