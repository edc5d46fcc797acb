package marketdata

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/pelletier/go-toml/v2"
)

// StaticSource serves sector weights from memory.
type StaticSource struct {
	mu      sync.RWMutex
	weights map[string]vector.SectorWeights
}

// NewStaticSource creates a source from a ticker -> weights map. Tickers are normalized.
func NewStaticSource(data map[string]vector.SectorWeights) *StaticSource {
	s := &StaticSource{weights: make(map[string]vector.SectorWeights, len(data))}
	for ticker, w := range data {
		s.weights[core.NormalizeTicker(ticker)] = w.Clone()
	}
	return s
}

// LoadStaticFile reads a TOML fixture where each table is a ticker:
//
//	[VTI]
//	Technology = 0.31
//	Healthcare = 0.13
func LoadStaticFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sector file %s: %w", path, err)
	}

	var raw map[string]map[string]float64
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse sector file %s: %w", path, err)
	}

	weights := make(map[string]vector.SectorWeights, len(raw))
	for ticker, w := range raw {
		weights[ticker] = vector.SectorWeights(w)
	}
	return NewStaticSource(weights), nil
}

func (s *StaticSource) SectorWeights(ctx context.Context, ticker string) (vector.SectorWeights, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.weights[core.NormalizeTicker(ticker)]
	if !ok {
		return vector.SectorWeights{}, fmt.Errorf("%w: unknown ticker %s", core.ErrNoData, ticker)
	}
	return w.Clone(), nil
}

// Set replaces the weights for a ticker.
func (s *StaticSource) Set(ticker string, w vector.SectorWeights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights[core.NormalizeTicker(ticker)] = w.Clone()
}

// Count returns the number of tickers held.
func (s *StaticSource) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.weights)
}
