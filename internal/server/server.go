// Package server implements the HTTP boundary: a single POST endpoint that
// decodes a query, runs it through the pipeline (behind the result cache),
// and writes the chain array or an error body.
//
// Grounded on the teacher's internal/server/server.go (http.ServeMux
// registration, one handler per JSON RPC verb, RWMutex-guarded swap of the
// search engine for hot reload) generalized from its Unix-socket transport
// to plain TCP, since spec §6 calls for a network-reachable HTTP server
// rather than a local IPC socket.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/michaelx11/associative-search/internal/cache"
	asserrors "github.com/michaelx11/associative-search/internal/errors"
	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/types"
	"github.com/michaelx11/associative-search/internal/version"
)

// Server is the query HTTP boundary. Pipeline and Cache are swapped
// together, under mu, whenever the corpus is rebuilt; handlers read both
// under a read lock so an in-flight query never sees a half-swapped state.
type Server struct {
	mu       sync.RWMutex
	pipeline *pipeline.Pipeline
	cache    *cache.Cache

	maxBodyBytes int64
	startTime    time.Time
}

// New creates a Server bound to p and c. maxBodyBytes <= 0 falls back to
// spec §6's 256 KiB default.
func New(p *pipeline.Pipeline, c *cache.Cache, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 256 * 1024
	}
	return &Server{
		pipeline:     p,
		cache:        c,
		maxBodyBytes: maxBodyBytes,
		startTime:    time.Now(),
	}
}

// Swap atomically replaces both collaborators, used after a corpus rebuild.
func (s *Server) Swap(p *pipeline.Pipeline, c *cache.Cache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = p
	s.cache = c
}

// Mux builds the request router. Kept separate from a constructor so
// cmd/searchd can wrap it in its own http.Server with its own timeouts.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

type queryRequest struct {
	Terms           []string `json:"terms"`
	Stages          []string `json:"stages"`
	Flavortext      string   `json:"flavortext,omitempty"`
	MaxSize         int      `json:"max_size,omitempty"`
	FuzzyFlavortext bool     `json:"fuzzy_flavortext,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.pipeline != nil
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, statusResponse{
		Ready:   ready,
		Version: version.Version,
		Uptime:  time.Since(s.startTime).String(),
	})
}

// handleQuery decodes {"terms", "stages", "flavortext"}, per spec §6,
// enforces the request body cap, and runs the query through the cache and
// pipeline.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "POST required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isMaxBytesError(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body exceeds limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	stages := make([]types.Stage, 0, len(req.Stages))
	for _, raw := range req.Stages {
		stages = append(stages, types.Stage(raw))
	}

	q := pipeline.Query{
		Terms:           req.Terms,
		Stages:          stages,
		Flavortext:      req.Flavortext,
		MaxSize:         req.MaxSize,
		FuzzyFlavortext: req.FuzzyFlavortext,
	}

	s.mu.RLock()
	p, c := s.pipeline, s.cache
	s.mu.RUnlock()

	key := cache.Key(q)
	if result, ok := c.Get(key); ok {
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := p.Run(q)
	if err != nil {
		var wsErr *asserrors.WorkingSetError
		if errors.As(err, &wsErr) {
			writeJSON(w, http.StatusOK, errorResponse{Error: wsErr.Error()})
			return
		}
		log.Printf("query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.Put(key, result)
	writeJSON(w, http.StatusOK, result)
}

func isMaxBytesError(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
