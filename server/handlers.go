package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/ranker"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	schemas, err := s.registry.Schemas(s.registry.List())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, schemas)
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	t, ok := s.registry.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, core.NewMatchError("server.tool", "", fmt.Errorf("%w: %s", core.ErrToolNotFound, name)))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: body is not valid JSON", core.ErrInvalidArgument))
		return
	}

	out, err := t.Execute(r.Context(), body)
	if err != nil {
		s.logger.Warn().Str("tool", name).Err(err).Msg("Tool call failed")
		writeJSON(w, statusFor(err), core.NewToolError(name, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, core.NewToolResult(name, out))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ticker := core.NormalizeTicker(query.Get("ticker"))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: ticker is required", core.ErrInvalidArgument))
		return
	}

	k := 0
	if raw := query.Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: k must be a non-negative integer", core.ErrInvalidArgument))
			return
		}
		k = n
	}

	result, err := s.ranker.Rank(r.Context(), ticker, s.candidates, k)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if result == nil {
		result = ranker.RankedResult{}
	}

	writeJSON(w, http.StatusOK, RecommendResponse{Reference: ticker, K: k, Results: result})
}

func (s *Server) handleRunList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RunListResponse{Runs: s.runs.List()})
}

func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	run, ok := s.runs.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runs.Summary())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoReferenceData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
