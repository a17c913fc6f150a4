package metrics

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"

	"grimm.is/nftjson/internal/logging"
	"grimm.is/nftjson/internal/schema"
)

// Lister returns the current ruleset. *nft.Client satisfies it.
type Lister interface {
	ListRuleset(ctx context.Context) (schema.Document, error)
}

// Collector periodically lists the ruleset and exports its counters,
// quotas and set sizes.
type Collector struct {
	registry *Registry
	lister   Lister
	logger   *logging.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	lastUpdate time.Time
	counters   map[string]CounterStats
	quotas     map[string]QuotaStats
}

// CounterStats is the last scraped value of a named counter.
type CounterStats struct {
	Family  schema.Family `json:"family"`
	Table   string        `json:"table"`
	Name    string        `json:"name"`
	Packets uint64        `json:"packets"`
	Bytes   uint64        `json:"bytes"`
}

// QuotaStats is the last scraped value of a named quota.
type QuotaStats struct {
	Family schema.Family `json:"family"`
	Table  string        `json:"table"`
	Name   string        `json:"name"`
	Limit  uint64        `json:"limit_bytes"`
	Used   uint64        `json:"used_bytes"`
}

// NewCollector creates a new metrics collector.
func NewCollector(registry *Registry, lister Lister, logger *logging.Logger, interval time.Duration) *Collector {
	return &Collector{
		registry: registry,
		lister:   lister,
		logger:   logger.WithComponent("metrics"),
		interval: interval,
		timeout:  10 * time.Second,
		stopCh:   make(chan struct{}),
		counters: make(map[string]CounterStats),
		quotas:   make(map[string]QuotaStats),
	}
}

// Start runs the collection loop until Stop is called or ctx is done.
func (c *Collector) Start(ctx context.Context) {
	c.logger.Info("Starting metrics collector", "interval", c.interval.String())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect(ctx)
	for {
		select {
		case <-ticker.C:
			c.collect(ctx)
		case <-ctx.Done():
			c.logger.Info("Stopping metrics collector")
			return
		case <-c.stopCh:
			c.logger.Info("Stopping metrics collector")
			return
		}
	}
}

// Stop stops the collection loop. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *Collector) collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.Collect(ctx); err != nil {
		c.logger.Warn("Failed to collect ruleset metrics", "error", err)
	}
}

// Collect lists the ruleset once and updates the registry. On error the
// previously exported values are left in place.
func (c *Collector) Collect(ctx context.Context) error {
	doc, err := c.lister.ListRuleset(ctx)
	if err != nil {
		c.registry.ScrapeErrors.Inc()
		return err
	}

	counters := make(map[string]CounterStats)
	quotas := make(map[string]QuotaStats)
	kinds := make(map[string]int)

	r := c.registry
	r.CounterPackets.Reset()
	r.CounterBytes.Reset()
	r.QuotaUsedBytes.Reset()
	r.RuleCounterPackets.Reset()
	r.RuleCounterBytes.Reset()
	r.SetElements.Reset()
	r.Objects.Reset()

	for _, obj := range doc.ListObjects() {
		kinds[obj.Kind()]++

		switch o := obj.(type) {
		case schema.Counter:
			s := CounterStats{Family: o.Family, Table: o.Table, Name: o.Name, Packets: deref(o.Packets), Bytes: deref(o.Bytes)}
			counters[objectKey(o.Family, o.Table, o.Name)] = s
			r.CounterPackets.WithLabelValues(string(o.Family), o.Table, o.Name).Set(float64(s.Packets))
			r.CounterBytes.WithLabelValues(string(o.Family), o.Table, o.Name).Set(float64(s.Bytes))

		case schema.Quota:
			s := QuotaStats{Family: o.Family, Table: o.Table, Name: o.Name, Limit: deref(o.Bytes), Used: deref(o.Used)}
			quotas[objectKey(o.Family, o.Table, o.Name)] = s
			r.QuotaUsedBytes.WithLabelValues(string(o.Family), o.Table, o.Name).Set(float64(s.Used))

		case schema.Set:
			r.SetElements.WithLabelValues(string(o.Family), o.Table, o.Name, schema.KindSet).Set(float64(len(o.Elem)))

		case schema.Map:
			r.SetElements.WithLabelValues(string(o.Family), o.Table, o.Name, schema.KindMap).Set(float64(len(o.Elem)))

		case schema.Rule:
			// Rules without a handle cannot be told apart.
			if o.Handle == nil {
				continue
			}
			handle := strconv.FormatUint(uint64(*o.Handle), 10)
			for _, stmt := range o.Expr {
				cs, ok := stmt.(schema.CounterStmt)
				if !ok {
					continue
				}
				r.RuleCounterPackets.WithLabelValues(string(o.Family), o.Table, o.Chain, handle).Set(float64(deref(cs.Packets)))
				r.RuleCounterBytes.WithLabelValues(string(o.Family), o.Table, o.Chain, handle).Set(float64(deref(cs.Bytes)))
				break
			}
		}
	}
	for kind, n := range kinds {
		r.Objects.WithLabelValues(kind).Set(float64(n))
	}

	now := time.Now()
	r.LastScrape.Set(float64(now.Unix()))

	c.mu.Lock()
	c.counters = counters
	c.quotas = quotas
	c.lastUpdate = now
	c.mu.Unlock()
	return nil
}

// GetCounterStats returns the last scraped named counters keyed by
// "family/table/name".
func (c *Collector) GetCounterStats() map[string]CounterStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.counters)
}

// GetQuotaStats returns the last scraped named quotas.
func (c *Collector) GetQuotaStats() map[string]QuotaStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.quotas)
}

// GetLastUpdate returns the time of the last successful scrape.
func (c *Collector) GetLastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

func objectKey(family schema.Family, table, name string) string {
	return string(family) + "/" + table + "/" + name
}

func deref(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
