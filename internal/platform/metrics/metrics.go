package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu        sync.Mutex
	mutations map[string]*mutationCounts
}

type mutationCounts struct {
	Dispatched uint64 `json:"dispatched"`
	Changed    uint64 `json:"changed"`
}

func New() *Collector {
	return &Collector{mutations: map[string]*mutationCounts{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordDispatch counts one store dispatch of the given mutation kind.
func (c *Collector) RecordDispatch(kind string, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts, ok := c.mutations[kind]
	if !ok {
		counts = &mutationCounts{}
		c.mutations[kind] = counts
	}
	counts.Dispatched++
	if changed {
		counts.Changed++
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	mutations := make(map[string]mutationCounts, len(c.mutations))
	for kind, counts := range c.mutations {
		mutations[kind] = *counts
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"mutations":        mutations,
	}
}
