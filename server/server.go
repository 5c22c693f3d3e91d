// Package server is the HTTP collaborator in front of the executor. It
// owns routing, JSON shaping and the hardcoded business queries; all
// concurrency and resource handling lives behind the executor facade.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrek82/stationd/executor"
	"github.com/shrek82/stationd/logger"
	"github.com/shrek82/stationd/middleware"
)

// Server wraps one executor for the process lifetime.
type Server struct {
	exec       *executor.Executor
	log        logger.Logger
	queries    []executor.Statement
	maxWorkers int
	cacheTTL   time.Duration
}

// Option customizes a Server.
type Option func(*Server)

// WithQueries replaces the built-in station query set.
func WithQueries(queries []executor.Statement) Option {
	return func(s *Server) { s.queries = queries }
}

// WithMaxWorkers sets the fan-out for the station batch.
func WithMaxWorkers(n int) Option {
	return func(s *Server) { s.maxWorkers = n }
}

// WithCacheTTL opts station responses into result caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Server) { s.cacheTTL = ttl }
}

// New builds a Server over an opened executor.
func New(exec *executor.Executor, opts ...Option) *Server {
	s := &Server{
		exec:       exec,
		log:        logger.NewStdLogger(),
		queries:    StationQueries(),
		maxWorkers: 3,
	}
	if exec != nil {
		s.log = exec.Logger()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// batchResponse is the JSON shape of a concurrent execution.
type batchResponse struct {
	Success bool               `json:"success"`
	Results []executor.Outcome `json:"results"`
	Summary summary            `json:"summary"`
}

type summary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stations/all", s.handleStationsAll)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("/", s.handleNotFound)
	return cors(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "station status executor is running",
		"timestamp": float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

// handleStationsAll runs the predefined read-only station queries
// concurrently. The SQL is hardcoded server-side; no client input reaches
// the database.
func (s *Server) handleStationsAll(w http.ResponseWriter, r *http.Request) {
	if s.exec == nil {
		s.log.Error("station request refused: database connection not initialized")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "database connection not initialized"})
		return
	}
	s.log.Debug("station status request from %s", r.RemoteAddr)

	ctx := r.Context()
	if s.cacheTTL > 0 {
		ctx = context.WithValue(ctx, middleware.CacheTTLKey, s.cacheTTL)
	}

	outcomes := s.exec.ExecuteConcurrent(ctx, s.queries, s.maxWorkers)
	writeJSON(w, http.StatusOK, newBatchResponse(outcomes))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.exec == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "database connection not initialized"})
		return
	}
	writeJSON(w, http.StatusOK, s.exec.Stats())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such endpoint"})
}

func newBatchResponse(outcomes []executor.Outcome) batchResponse {
	succeeded := 0
	for _, out := range outcomes {
		if out.Success {
			succeeded++
		}
	}
	return batchResponse{
		Success: true,
		Results: outcomes,
		Summary: summary{
			Total:        len(outcomes),
			SuccessCount: succeeded,
			FailedCount:  len(outcomes) - succeeded,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// cors allows the dashboard frontend to call from any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
