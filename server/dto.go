package server

import (
	"github.com/hubenschmidt/go-sectormatch/monitor"
	"github.com/hubenschmidt/go-sectormatch/ranker"
)

type RecommendResponse struct {
	Reference string              `json:"reference"`
	K         int                 `json:"k"`
	Results   ranker.RankedResult `json:"results"`
}

type RunListResponse struct {
	Runs []monitor.RunMetrics `json:"runs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
