package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/ranker"
)

// Ranker ranks candidate tickers against a reference ticker.
type Ranker interface {
	Rank(ctx context.Context, reference string, candidates []string, k int) (ranker.RankedResult, error)
}

// RecommendETF finds ETFs whose sector weights are closest to an index fund.
type RecommendETF struct {
	ranker     Ranker
	candidates []string
}

type recommendETFArgs struct {
	IndexFundTicker string `json:"index_fund_ticker"`
	K               int    `json:"k,omitempty"`
}

func NewRecommendETF(r Ranker, candidates []string) *RecommendETF {
	return &RecommendETF{
		ranker:     r,
		candidates: append([]string(nil), candidates...),
	}
}

func (t *RecommendETF) Name() string {
	return "recommend_etf"
}

func (t *RecommendETF) Description() string {
	return "Returns a list of ETFs that are similar, in terms of sector weight distribution, to the index fund ticker provided. " +
		"Each result is a [ticker, cosine similarity] pair, best match first."
}

func (t *RecommendETF) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"index_fund_ticker": {
				"type": "string",
				"description": "Ticker symbol of the index fund to compare against, e.g. VTSAX"
			},
			"k": {
				"type": "integer",
				"description": "Maximum number of ETFs to return (default: 2)"
			}
		},
		"required": ["index_fund_ticker"]
	}`)
}

func (t *RecommendETF) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	params, err := decodeArgs(args, "index_fund_ticker", func(a *recommendETFArgs) *string { return &a.IndexFundTicker })
	if err != nil {
		return "", err
	}
	ticker := params.IndexFundTicker
	if params.K < 0 {
		return "", fmt.Errorf("%w: k must not be negative", core.ErrInvalidArgument)
	}

	result, err := t.ranker.Rank(ctx, ticker, t.candidates, params.K)
	if err != nil {
		return "", err
	}

	output, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	return string(output), nil
}
