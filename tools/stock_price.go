package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hubenschmidt/go-sectormatch/marketdata"
)

// StockPrice reports a ticker's closing prices over the last month.
type StockPrice struct {
	prices marketdata.PriceSource
	now    func() time.Time
}

type stockPriceArgs struct {
	StockTicker string `json:"stock_ticker"`
}

func NewStockPrice(prices marketdata.PriceSource) *StockPrice {
	return &StockPrice{
		prices: prices,
		now:    time.Now,
	}
}

func (t *StockPrice) Name() string {
	return "stock_price"
}

func (t *StockPrice) Description() string {
	return "Returns the closing prices over the last month for a given stock ticker, oldest first."
}

func (t *StockPrice) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"stock_ticker": {
				"type": "string",
				"description": "An alphanumeric stock ticker, e.g. NVDA"
			}
		},
		"required": ["stock_ticker"]
	}`)
}

func (t *StockPrice) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	params, err := decodeArgs(args, "stock_ticker", func(a *stockPriceArgs) *string { return &a.StockTicker })
	if err != nil {
		return "", err
	}
	ticker := params.StockTicker

	to := t.now()
	closes, err := t.prices.Closes(ctx, ticker, to.AddDate(0, -1, 0), to)
	if err != nil {
		return "", err
	}
	if len(closes) == 0 {
		return fmt.Sprintf("No prices found for %s over the last month.", ticker), nil
	}

	return formatCloses(ticker, closes), nil
}

func formatCloses(ticker string, closes []marketdata.Close) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stock price over the last month for %s:\n", ticker))
	for _, c := range closes {
		sb.WriteString(fmt.Sprintf("%s  $%.2f\n", c.Date.Format("2006-01-02"), c.Price))
	}
	last := closes[len(closes)-1]
	sb.WriteString(fmt.Sprintf("Last close: %s: $%.2f", ticker, last.Price))
	return sb.String()
}
