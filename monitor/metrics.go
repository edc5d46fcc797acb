package monitor

import "time"

// RunMetrics describes a single ranking call.
type RunMetrics struct {
	RunID      string        `json:"run_id"`
	Reference  string        `json:"reference"`
	K          int           `json:"k"`
	Candidates int           `json:"candidates"`
	Scored     int           `json:"scored"`
	Skipped    []string      `json:"skipped,omitempty"`
	Returned   int           `json:"returned"`
	Duration   time.Duration `json:"duration"`
	StartTime  time.Time     `json:"start_time"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

// Summary aggregates every recorded run.
type Summary struct {
	TotalRuns       int     `json:"total_runs"`
	FailedRuns      int     `json:"failed_runs"`
	TotalCandidates int     `json:"total_candidates"`
	TotalSkipped    int     `json:"total_skipped"`
	AvgLatencyMs    float64 `json:"avg_latency_ms"`
}
