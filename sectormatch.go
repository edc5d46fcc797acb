// Package sectormatch recommends ETFs whose sector allocation most closely
// matches a reference index fund.
//
// Example usage:
//
//	src := marketdata.NewStaticSource(map[string]vector.SectorWeights{
//	    "VTSAX": {"Technology": 0.31, "Healthcare": 0.12},
//	    "VTI":   {"Technology": 0.30, "Healthcare": 0.13},
//	})
//	r := ranker.New(src, ranker.Config{})
//	result, err := r.Rank(ctx, "VTSAX", []string{"VTI", "SCHB"}, 2)
package sectormatch

import (
	"context"

	"github.com/hubenschmidt/go-sectormatch/config"
	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/marketdata"
	"github.com/hubenschmidt/go-sectormatch/monitor"
	"github.com/hubenschmidt/go-sectormatch/ranker"
	"github.com/hubenschmidt/go-sectormatch/server"
	"github.com/hubenschmidt/go-sectormatch/tools"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/ternarybob/arbor"
)

// Vector aliases
type (
	SectorWeights = vector.SectorWeights
	AlignedPair   = vector.AlignedPair
)

// Align builds aligned vectors over the union of both label sets.
func Align(reference, candidate SectorWeights) (AlignedPair, error) {
	return vector.Align(reference, candidate)
}

// Score returns the cosine similarity of an aligned pair.
func Score(pair AlignedPair) float64 {
	return vector.Score(pair)
}

// Ranker aliases
type (
	Ranker          = ranker.Ranker
	RankerConfig    = ranker.Config
	ScoredCandidate = ranker.ScoredCandidate
	RankedResult    = ranker.RankedResult
)

// NewRanker creates a ranker over the given market data source.
func NewRanker(source Source, cfg RankerConfig) *Ranker {
	return ranker.New(source, cfg)
}

// Market data aliases
type (
	Source       = marketdata.Source
	SourceFunc   = marketdata.SourceFunc
	StaticSource = marketdata.StaticSource
	EODHDClient  = marketdata.EODHDClient
)

// Core aliases
type (
	MatchError = core.MatchError
	ToolResult = core.ToolResult
)

var (
	ErrNoReferenceData = core.ErrNoReferenceData
	ErrEmptyVector     = core.ErrEmptyVector
	ErrInvalidArgument = core.ErrInvalidArgument
)

// Tool aliases
type (
	Tool         = tools.Tool
	ToolRegistry = tools.Registry
)

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// App holds the wired components shared by the HTTP and MCP binaries.
type App struct {
	Config    *config.Config
	Provider  *marketdata.Provider
	Collector *monitor.InMemoryCollector
	Ranker    *ranker.Ranker
	Registry  *tools.Registry
	Logger    arbor.ILogger
}

// NewApp builds the market data provider, ranker and tool registry from cfg.
// The stock_price tool is registered only when the provider has price history.
func NewApp(cfg *config.Config, logger arbor.ILogger) (*App, error) {
	if logger == nil {
		logger = arbor.NewLogger()
	}

	timeout, err := cfg.Ranking.Timeout()
	if err != nil {
		return nil, err
	}

	provider, err := marketdata.NewProvider(cfg.Source, logger)
	if err != nil {
		return nil, err
	}

	collector := monitor.NewInMemoryCollector(monitor.DefaultCapacity)
	rk := ranker.New(provider.Source, ranker.Config{
		K:            cfg.Ranking.K,
		Concurrency:  cfg.Ranking.Concurrency,
		FetchTimeout: timeout,
		Logger:       logger,
		Collector:    collector,
	})

	registry := tools.NewRegistry(tools.NewRecommendETF(rk, cfg.Ranking.Candidates))
	if provider.Prices != nil {
		registry.Register(tools.NewStockPrice(provider.Prices))
	}

	logger.Info().
		Str("source", cfg.Source.Kind.String()).
		Strs("candidates", cfg.Ranking.Candidates).
		Int("k", rk.K()).
		Msg("Sector matcher ready")

	return &App{
		Config:    cfg,
		Provider:  provider,
		Collector: collector,
		Ranker:    rk,
		Registry:  registry,
		Logger:    logger,
	}, nil
}

// Recommend ranks the configured candidates against reference.
func (a *App) Recommend(ctx context.Context, reference string, k int) (RankedResult, error) {
	return a.Ranker.Rank(ctx, reference, a.Config.Ranking.Candidates, k)
}

// NewServer creates the HTTP API over the app's ranker and tools.
func (a *App) NewServer() (*Server, error) {
	return server.New(server.Config{
		Registry:   a.Registry,
		Ranker:     a.Ranker,
		Candidates: a.Config.Ranking.Candidates,
		Runs:       a.Collector,
		Logger:     a.Logger,
	})
}

// Close releases the market data provider.
func (a *App) Close() error {
	return a.Provider.Close()
}
