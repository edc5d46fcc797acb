package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/marketdata"
	"github.com/hubenschmidt/go-sectormatch/monitor"
	"github.com/hubenschmidt/go-sectormatch/ranker"
	"github.com/hubenschmidt/go-sectormatch/tools"
	"github.com/hubenschmidt/go-sectormatch/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestServer(t *testing.T) (*httptest.Server, *monitor.InMemoryCollector) {
	t.Helper()

	src := marketdata.NewStaticSource(map[string]vector.SectorWeights{
		"VTSAX": {"Technology": 0.3, "Healthcare": 0.15, "Financial Services": 0.13, "Energy": 0.42},
		"VTI":   {"Technology": 0.3, "Healthcare": 0.15, "Financial Services": 0.13, "Energy": 0.42},
		"VOO":   {"Technology": 0.31, "Healthcare": 0.14, "Financial Services": 0.13, "Energy": 0.42},
		"XLE":   {"Utilities": 1.0},
	})
	collector := monitor.NewInMemoryCollector(0)
	candidates := []string{"XLE", "VOO", "VTI", "SCHB"}
	rk := ranker.New(src, ranker.Config{Logger: arbor.NewLogger(), Collector: collector})

	srv, err := New(Config{
		Registry:   tools.NewRegistry(tools.NewRecommendETF(rk, candidates)),
		Ranker:     rk,
		Candidates: candidates,
		Runs:       collector,
		Logger:     arbor.NewLogger(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, collector
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestNewRequiresRanker(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRecommend(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/recommend?ticker=vtsax")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RecommendResponse
	decode(t, resp, &body)
	assert.Equal(t, "VTSAX", body.Reference)
	assert.Equal(t, []string{"VTI", "VOO"}, body.Results.Tickers())
	assert.InDelta(t, 1.0, body.Results[0].Score, 1e-9)
}

func TestRecommendWithK(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/recommend?ticker=VTSAX&k=5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RecommendResponse
	decode(t, resp, &body)
	assert.Equal(t, []string{"VTI", "VOO", "XLE"}, body.Results.Tickers())
}

func TestRecommendErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing ticker", "", http.StatusBadRequest},
		{"bad k", "?ticker=VTSAX&k=two", http.StatusBadRequest},
		{"negative k", "?ticker=VTSAX&k=-1", http.StatusBadRequest},
		{"unknown reference", "?ticker=NOPE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/recommend" + tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			decode(t, resp, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestListTools(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/tools")
	require.NoError(t, err)

	var infos []core.ToolSchema
	decode(t, resp, &infos)
	require.Len(t, infos, 1)
	assert.Equal(t, "recommend_etf", infos[0].Name)
	assert.True(t, json.Valid(infos[0].Parameters))
}

func TestToolCall(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/tools/recommend_etf", "application/json",
		strings.NewReader(`{"index_fund_ticker": "VTSAX", "k": 1}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result core.ToolResult
	decode(t, resp, &result)
	assert.False(t, result.IsError)

	var ranked ranker.RankedResult
	require.NoError(t, json.Unmarshal([]byte(result.Content), &ranked))
	assert.Equal(t, []string{"VTI"}, ranked.Tickers())
}

func TestToolCallErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown tool", "/tools/web_search", `{}`, http.StatusNotFound},
		{"invalid json", "/tools/recommend_etf", `{"index_fund_ticker":`, http.StatusBadRequest},
		{"missing ticker", "/tools/recommend_etf", ``, http.StatusBadRequest},
		{"unknown reference", "/tools/recommend_etf", `{"index_fund_ticker": "NOPE"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRunsAndSummary(t *testing.T) {
	ts, collector := newTestServer(t)

	resp, err := http.Get(ts.URL + "/recommend?ticker=VTSAX")
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.Get(ts.URL + "/recommend?ticker=NOPE")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/runs")
	require.NoError(t, err)
	var list RunListResponse
	decode(t, resp, &list)
	require.Len(t, list.Runs, 2)
	assert.Equal(t, "NOPE", list.Runs[0].Reference)
	assert.False(t, list.Runs[0].Success)

	runID := collector.List()[1].RunID
	resp, err = http.Get(ts.URL + "/runs/" + runID)
	require.NoError(t, err)
	var run monitor.RunMetrics
	decode(t, resp, &run)
	assert.Equal(t, "VTSAX", run.Reference)
	assert.Equal(t, []string{"SCHB"}, run.Skipped)

	resp, err = http.Get(ts.URL + "/runs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics/summary")
	require.NoError(t, err)
	var summary monitor.Summary
	decode(t, resp, &summary)
	assert.Equal(t, 2, summary.TotalRuns)
	assert.Equal(t, 1, summary.FailedRuns)
}
