package monitor

import (
	"sync"
	"time"
)

// DefaultCapacity bounds how many runs an InMemoryCollector keeps.
const DefaultCapacity = 256

type MetricsCollector interface {
	Record(metrics RunMetrics)
}

// InMemoryCollector keeps the most recent runs, evicting the oldest first.
type InMemoryCollector struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	runs     map[string]RunMetrics
}

func NewInMemoryCollector(capacity int) *InMemoryCollector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryCollector{
		capacity: capacity,
		runs:     make(map[string]RunMetrics),
	}
}

func (c *InMemoryCollector) Record(metrics RunMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.runs[metrics.RunID]; !ok {
		c.order = append(c.order, metrics.RunID)
	}
	c.runs[metrics.RunID] = metrics

	for len(c.order) > c.capacity {
		delete(c.runs, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *InMemoryCollector) Get(runID string) (RunMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.runs[runID]
	return m, ok
}

// List returns runs newest first.
func (c *InMemoryCollector) List() []RunMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RunMetrics, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		result = append(result, c.runs[c.order[i]])
	}
	return result
}

func (c *InMemoryCollector) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.runs) == 0 {
		return Summary{}
	}

	var s Summary
	var totalDuration time.Duration
	for _, m := range c.runs {
		s.TotalRuns++
		if !m.Success {
			s.FailedRuns++
		}
		s.TotalCandidates += m.Candidates
		s.TotalSkipped += len(m.Skipped)
		totalDuration += m.Duration
	}
	s.AvgLatencyMs = float64(totalDuration.Milliseconds()) / float64(s.TotalRuns)
	return s
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.runs = make(map[string]RunMetrics)
}

type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(metrics RunMetrics) {}
