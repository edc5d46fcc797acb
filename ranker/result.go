package ranker

import (
	"encoding/json"
	"fmt"
)

// ScoredCandidate is a candidate ticker and its similarity to the reference.
// It encodes to JSON as a two element array: ["VTI", 0.998].
type ScoredCandidate struct {
	Ticker string
	Score  float64
}

func (c ScoredCandidate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Ticker, c.Score})
}

func (c *ScoredCandidate) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("scored candidate: want [ticker, score], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Ticker); err != nil {
		return fmt.Errorf("scored candidate ticker: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Score); err != nil {
		return fmt.Errorf("scored candidate score: %w", err)
	}
	return nil
}

// RankedResult is ordered by descending score.
type RankedResult []ScoredCandidate

// Tickers returns the tickers in rank order.
func (r RankedResult) Tickers() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Ticker
	}
	return out
}
