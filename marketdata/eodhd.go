package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultEODHDBaseURL is the base URL for the EODHD API.
	DefaultEODHDBaseURL = "https://eodhd.com/api"

	// DefaultEODHDTimeout is the default HTTP timeout.
	DefaultEODHDTimeout = 30 * time.Second

	// DefaultEODHDRateLimit is the default rate limit (requests per second).
	DefaultEODHDRateLimit = 10

	// DefaultExchange is appended to tickers without an exchange suffix.
	DefaultExchange = "US"

	sectorWeightsFilter = "ETF_Data::Sector_Weights"
)

// EODHDClient reads ETF sector weights and closing prices from the EODHD API.
type EODHDClient struct {
	baseURL    string
	apiKey     string
	exchange   string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// EODHDOption configures the EODHDClient.
type EODHDOption func(*EODHDClient)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) EODHDOption {
	return func(c *EODHDClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) EODHDOption {
	return func(c *EODHDClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) EODHDOption {
	return func(c *EODHDClient) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) EODHDOption {
	return func(c *EODHDClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithExchange sets the exchange suffix used for bare tickers.
func WithExchange(exchange string) EODHDOption {
	return func(c *EODHDClient) {
		if exchange != "" {
			c.exchange = strings.ToUpper(exchange)
		}
	}
}

// NewEODHDClient creates a new EODHD API client.
func NewEODHDClient(apiKey string, opts ...EODHDOption) *EODHDClient {
	c := &EODHDClient{
		baseURL:  DefaultEODHDBaseURL,
		apiKey:   apiKey,
		exchange: DefaultExchange,
		httpClient: &http.Client{
			Timeout: DefaultEODHDTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultEODHDRateLimit), DefaultEODHDRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-200 response from the EODHD API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Symbol converts a ticker into EODHD's CODE.EXCHANGE form.
func (c *EODHDClient) Symbol(ticker string) string {
	t := core.NormalizeTicker(ticker)
	if t == "" || strings.Contains(t, ".") {
		return t
	}
	return t + "." + c.exchange
}

func (c *EODHDClient) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sectorWeight is one entry of ETF_Data.Sector_Weights.
type sectorWeight struct {
	EquityPct percent `json:"Equity_%"`
}

// percent accepts both "24.51" and 24.51.
type percent float64

func (p *percent) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse percent %q: %w", s, err)
	}
	*p = percent(v)
	return nil
}

// SectorWeights returns the ETF sector weights as fractions of 1.
func (c *EODHDClient) SectorWeights(ctx context.Context, ticker string) (vector.SectorWeights, error) {
	symbol := c.Symbol(ticker)
	if symbol == "" {
		return vector.SectorWeights{}, fmt.Errorf("%w: empty ticker", core.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("filter", sectorWeightsFilter)

	// EODHD answers an unknown filter path with "NA" or an empty array.
	var raw json.RawMessage
	if err := c.get(ctx, "/fundamentals/"+symbol, params, &raw); err != nil {
		return vector.SectorWeights{}, fmt.Errorf("fetch sector weights for %s: %w", symbol, err)
	}

	var entries map[string]sectorWeight
	if err := json.Unmarshal(raw, &entries); err != nil {
		return vector.SectorWeights{}, fmt.Errorf("%w: %s has no sector classification", core.ErrNoData, symbol)
	}

	weights := make(vector.SectorWeights, len(entries))
	for sector, e := range entries {
		if e.EquityPct < 0 {
			continue
		}
		weights[sector] = float64(e.EquityPct) / 100
	}
	return weights, nil
}

type eodBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Closes returns daily closing prices between from and to, oldest first.
func (c *EODHDClient) Closes(ctx context.Context, ticker string, from, to time.Time) ([]Close, error) {
	symbol := c.Symbol(ticker)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty ticker", core.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	if !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.Format("2006-01-02"))
	}

	var bars []eodBar
	if err := c.get(ctx, "/eod/"+symbol, params, &bars); err != nil {
		return nil, fmt.Errorf("fetch prices for %s: %w", symbol, err)
	}

	closes := make([]Close, 0, len(bars))
	for _, b := range bars {
		d, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		closes = append(closes, Close{Date: d, Price: b.Close})
	}
	return closes, nil
}
