package marketdata

import (
	"fmt"
	"io"

	"github.com/hubenschmidt/go-sectormatch/config"
	"github.com/ternarybob/arbor"
)

// Provider is a configured Source. Prices is nil when the backend has no price history.
type Provider struct {
	Source Source
	Prices PriceSource
	closer io.Closer
}

// Close releases any connection held by the backend.
func (p *Provider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// NewProvider builds the source selected by cfg.Kind.
func NewProvider(cfg config.SourceConfig, logger arbor.ILogger) (*Provider, error) {
	switch cfg.Kind {
	case config.SourceStatic:
		s, err := LoadStaticFile(cfg.StaticFile)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("file", cfg.StaticFile).Int("tickers", s.Count()).Msg("Loaded static sector weights")
		return &Provider{Source: s}, nil

	case config.SourceEODHD:
		c := NewEODHDClient(cfg.EODHD.APIKey,
			WithBaseURL(cfg.EODHD.BaseURL),
			WithExchange(cfg.EODHD.Exchange),
			WithRateLimit(cfg.EODHD.RateLimit),
			WithLogger(logger),
		)
		logger.Info().Str("base_url", c.baseURL).Str("exchange", c.exchange).Msg("Using EODHD sector weights")
		return &Provider{Source: c, Prices: c}, nil

	case config.SourceSQL:
		s, err := OpenSQL(cfg.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("Using SQL sector weights")
		return &Provider{Source: s, closer: s}, nil
	}

	return nil, fmt.Errorf("unsupported source kind %s", cfg.Kind)
}
