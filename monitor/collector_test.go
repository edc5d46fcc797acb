package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCollectorRecordAndList(t *testing.T) {
	c := NewInMemoryCollector(0)

	c.Record(RunMetrics{RunID: "a", Reference: "VTSAX", Candidates: 4, Scored: 3, Skipped: []string{"VOO"}, Duration: 20 * time.Millisecond, Success: true})
	c.Record(RunMetrics{RunID: "b", Reference: "NOPE", Duration: 10 * time.Millisecond, Error: "no data"})

	runs := c.List()
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].RunID)
	assert.Equal(t, "a", runs[1].RunID)

	m, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, m.Scored)

	s := c.Summary()
	assert.Equal(t, 2, s.TotalRuns)
	assert.Equal(t, 1, s.FailedRuns)
	assert.Equal(t, 4, s.TotalCandidates)
	assert.Equal(t, 1, s.TotalSkipped)
	assert.InDelta(t, 15.0, s.AvgLatencyMs, 1e-9)
}

func TestInMemoryCollectorEvictsOldest(t *testing.T) {
	c := NewInMemoryCollector(3)
	for i := 0; i < 5; i++ {
		c.Record(RunMetrics{RunID: fmt.Sprintf("run-%d", i)})
	}

	runs := c.List()
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].RunID)
	assert.Equal(t, "run-2", runs[2].RunID)

	_, ok := c.Get("run-0")
	assert.False(t, ok)
}

func TestInMemoryCollectorReset(t *testing.T) {
	c := NewInMemoryCollector(2)
	c.Record(RunMetrics{RunID: "x"})
	c.Reset()

	assert.Empty(t, c.List())
	assert.Equal(t, Summary{}, c.Summary())
}

func TestNoOpCollector(t *testing.T) {
	var c MetricsCollector = NewNoOpCollector()
	c.Record(RunMetrics{RunID: "ignored"})
}
