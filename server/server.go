package server

import (
	"fmt"
	"net/http"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/monitor"
	"github.com/hubenschmidt/go-sectormatch/tools"
	"github.com/ternarybob/arbor"
)

// RunStore exposes recorded ranking runs.
type RunStore interface {
	List() []monitor.RunMetrics
	Get(runID string) (monitor.RunMetrics, bool)
	Summary() monitor.Summary
}

// Config configures a new Server instance.
type Config struct {
	Registry   *tools.Registry
	Ranker     tools.Ranker
	Candidates []string
	Runs       RunStore // Optional: defaults to an empty in-memory collector
	Logger     arbor.ILogger
}

// Server is an HTTP API over the ETF ranker and its tools.
type Server struct {
	registry   *tools.Registry
	ranker     tools.Ranker
	candidates []string
	runs       RunStore
	logger     arbor.ILogger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Ranker == nil {
		return nil, fmt.Errorf("%w: server requires a ranker", core.ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = arbor.NewLogger()
	}

	candidates := core.NormalizeTickers(cfg.Candidates)

	registry := cfg.Registry
	if registry == nil {
		registry = tools.NewRegistry(tools.NewRecommendETF(cfg.Ranker, candidates))
	}

	runs := cfg.Runs
	if runs == nil {
		runs = monitor.NewInMemoryCollector(monitor.DefaultCapacity)
	}

	return &Server{
		registry:   registry,
		ranker:     cfg.Ranker,
		candidates: candidates,
		runs:       runs,
		logger:     logger,
	}, nil
}

// Handler returns an http.Handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /tools/{name}", s.handleToolCall)
	mux.HandleFunc("GET /recommend", s.handleRecommend)

	mux.HandleFunc("GET /runs", s.handleRunList)
	mux.HandleFunc("GET /runs/{id}", s.handleRunGet)
	mux.HandleFunc("GET /metrics/summary", s.handleMetricsSummary)

	return corsMiddleware(s.logRequests(mux))
}
