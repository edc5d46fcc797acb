// Package ranker ranks candidate ETFs by how closely their sector weights
// match a reference fund.
package ranker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/marketdata"
	"github.com/hubenschmidt/go-sectormatch/monitor"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"
)

// DefaultK is the number of matches returned when the caller does not ask for a count.
const DefaultK = 2

type Config struct {
	K            int           // default result count; DefaultK when <= 0
	Concurrency  int           // candidate fetch workers; <= 1 fetches sequentially
	FetchTimeout time.Duration // per-ticker fetch bound; 0 disables it
	Logger       arbor.ILogger
	Collector    monitor.MetricsCollector
}

type Ranker struct {
	source       marketdata.Source
	k            int
	concurrency  int
	fetchTimeout time.Duration
	logger       arbor.ILogger
	collector    monitor.MetricsCollector
}

func New(source marketdata.Source, cfg Config) *Ranker {
	r := &Ranker{
		source:       source,
		k:            cfg.K,
		concurrency:  cfg.Concurrency,
		fetchTimeout: cfg.FetchTimeout,
		logger:       cfg.Logger,
		collector:    cfg.Collector,
	}
	if r.k <= 0 {
		r.k = DefaultK
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	if r.logger == nil {
		r.logger = arbor.NewLogger()
	}
	if r.collector == nil {
		r.collector = monitor.NewNoOpCollector()
	}
	return r
}

// K returns the result count used when Rank is called with k <= 0.
func (r *Ranker) K() int {
	return r.k
}

type candidateOutcome struct {
	scored ScoredCandidate
	ok     bool
}

// Rank scores every candidate against the reference and returns the top k
// matches, best first. Ties keep the order of the candidates slice.
//
// The only fatal error is missing reference data (core.ErrNoReferenceData).
// Candidates that cannot be fetched or have no sector data are skipped.
func (r *Ranker) Rank(ctx context.Context, reference string, candidates []string, k int) (RankedResult, error) {
	if k <= 0 {
		k = r.k
	}

	start := time.Now()
	runID := uuid.NewString()
	log := r.logger.WithCorrelationId(runID)
	reference = core.NormalizeTicker(reference)

	metrics := monitor.RunMetrics{
		RunID:      runID,
		Reference:  reference,
		K:          k,
		Candidates: len(candidates),
		StartTime:  start,
	}
	defer func() {
		metrics.Duration = time.Since(start)
		r.collector.Record(metrics)
	}()

	refWeights, err := r.fetch(ctx, reference)
	if err != nil {
		log.Warn().Str("reference", reference).Err(err).Msg("No sector data for reference ticker")
		rankErr := core.NewMatchError("ranker.rank", reference, fmt.Errorf("%w: %w", core.ErrNoReferenceData, err))
		metrics.Error = rankErr.Error()
		return nil, rankErr
	}

	outcomes := make([]candidateOutcome, len(candidates))
	if r.concurrency <= 1 {
		for i, ticker := range candidates {
			outcomes[i] = r.scoreCandidate(ctx, log, refWeights, ticker)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.concurrency)
		for i, ticker := range candidates {
			g.Go(func() error {
				outcomes[i] = r.scoreCandidate(ctx, log, refWeights, ticker)
				return nil
			})
		}
		// workers never return an error; failures are recorded per slot
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		metrics.Error = err.Error()
		return nil, core.NewMatchError("ranker.rank", reference, err)
	}

	result := make(RankedResult, 0, len(candidates))
	for i, o := range outcomes {
		if !o.ok {
			metrics.Skipped = append(metrics.Skipped, candidates[i])
			continue
		}
		result = append(result, o.scored)
	}
	metrics.Scored = len(result)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	if len(result) > k {
		result = result[:k]
	}

	metrics.Returned = len(result)
	metrics.Success = true

	log.Info().
		Str("reference", reference).
		Int("candidates", len(candidates)).
		Int("scored", metrics.Scored).
		Int("returned", len(result)).
		Dur("duration", time.Since(start)).
		Msg("Ranked candidates")

	return result, nil
}

func (r *Ranker) scoreCandidate(ctx context.Context, log arbor.ILogger, ref vector.SectorWeights, ticker string) candidateOutcome {
	ticker = core.NormalizeTicker(ticker)

	weights, err := r.fetch(ctx, ticker)
	if err != nil {
		log.Warn().Str("ticker", ticker).Err(err).Msg("Skipping candidate without sector data")
		return candidateOutcome{}
	}

	pair, err := vector.Align(ref, weights)
	if err != nil {
		log.Warn().Str("ticker", ticker).Err(err).Msg("Skipping candidate that cannot be aligned")
		return candidateOutcome{}
	}

	return candidateOutcome{
		scored: ScoredCandidate{Ticker: ticker, Score: vector.Score(pair)},
		ok:     true,
	}
}

type fetchResult struct {
	weights vector.SectorWeights
	err     error
}

// fetch returns non-empty weights or an error. The fetch timeout is enforced
// even when the source ignores its context.
func (r *Ranker) fetch(ctx context.Context, ticker string) (vector.SectorWeights, error) {
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", core.ErrInvalidArgument)
	}

	if r.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}

	ch := make(chan fetchResult, 1)
	go func() {
		w, err := r.source.SectorWeights(ctx, ticker)
		ch <- fetchResult{weights: w, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", core.ErrTimeout, res.err)
			}
			return nil, res.err
		}
		if res.weights.IsEmpty() {
			return nil, core.ErrNoData
		}
		return res.weights, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: fetching %s", core.ErrTimeout, ticker)
		}
		return nil, ctx.Err()
	}
}
