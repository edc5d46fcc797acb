// Package marketdata provides sector-weight data for tickers.
package marketdata

import (
	"context"
	"time"

	"github.com/hubenschmidt/go-sectormatch/vector"
)

// Source supplies the raw sector weights of a ticker.
//
// An empty map means the ticker has no sector data. A non-nil error carries
// the underlying cause (unknown ticker, network failure, missing sector
// classification) for logging; callers treat it the same as an empty map.
type Source interface {
	SectorWeights(ctx context.Context, ticker string) (vector.SectorWeights, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, ticker string) (vector.SectorWeights, error)

func (f SourceFunc) SectorWeights(ctx context.Context, ticker string) (vector.SectorWeights, error) {
	return f(ctx, ticker)
}

// Close is a single closing price.
type Close struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSource supplies historical closing prices.
type PriceSource interface {
	Closes(ctx context.Context, ticker string, from, to time.Time) ([]Close, error)
}
