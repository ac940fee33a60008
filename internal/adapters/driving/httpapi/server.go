// Package httpapi exposes Recall's services over a small JSON HTTP API.
// A benchmarking harness or an agent hook posts observation ids to /api/sync
// to make specific records searchable immediately.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Server serves the HTTP API.
type Server struct {
	observation driving.ObservationService
	sync        driving.SyncService
	search      driving.SearchService
	mux         *http.ServeMux
}

// NewServer creates an HTTP API server over the given services. sync and
// search may be nil; their endpoints then report a structured failure.
func NewServer(
	observation driving.ObservationService,
	sync driving.SyncService,
	search driving.SearchService,
) *Server {
	s := &Server{
		observation: observation,
		sync:        sync,
		search:      search,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/sync", s.handleSync)
	s.mux.HandleFunc("POST /api/observations", s.handleRecordObservation)
	s.mux.HandleFunc("GET /api/observations", s.handleRecentObservations)
	s.mux.HandleFunc("GET /api/observations/{id}", s.handleGetObservation)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the server on addr and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// syncRequest is the payload for POST /api/sync.
type syncRequest struct {
	IDs []int64 `json:"ids"`
}

// syncResponse is the result shape for POST /api/sync. Success is carried by
// the flag, not only by the HTTP status.
type syncResponse struct {
	Success  bool   `json:"success"`
	Embedded int    `json:"embedded"`
	Fetched  int    `json:"fetched,omitempty"`
	Note     string `json:"note,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleSync triggers the on-demand synchronization flow.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.sync == nil {
		writeJSON(w, http.StatusServiceUnavailable, syncResponse{Error: "sync service not configured"})
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, syncResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	result, err := s.sync.SyncObservations(r.Context(), req.IDs)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, syncResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Success:  true,
		Embedded: result.Embedded,
		Fetched:  result.Fetched,
		Note:     result.Note,
	})
}

// observationRequest is the payload for POST /api/observations. The four
// collection fields accept either JSON arrays or pre-serialized strings;
// FlexList absorbs both.
type observationRequest struct {
	SessionID       string          `json:"session_id"`
	Project         string          `json:"project"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle"`
	Narrative       string          `json:"narrative"`
	Facts           domain.FlexList `json:"facts"`
	Concepts        domain.FlexList `json:"concepts"`
	FilesRead       domain.FlexList `json:"files_read"`
	FilesModified   domain.FlexList `json:"files_modified"`
	PromptNumber    int             `json:"prompt_number"`
	DiscoveryTokens int             `json:"discovery_tokens"`
}

type observationResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleRecordObservation records a single observation.
func (s *Server) handleRecordObservation(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, observationResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	o := domain.Observation{
		SessionID:       req.SessionID,
		Project:         req.Project,
		Type:            domain.ObservationType(req.Type),
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Narrative:       req.Narrative,
		Facts:           req.Facts,
		Concepts:        req.Concepts,
		FilesRead:       req.FilesRead,
		FilesModified:   req.FilesModified,
		PromptNumber:    req.PromptNumber,
		DiscoveryTokens: req.DiscoveryTokens,
	}

	id, err := s.observation.Record(r.Context(), o)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, observationResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, observationResponse{Success: true, ID: id})
}

// handleGetObservation returns one observation by id.
func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, observationResponse{Error: "invalid observation id"})
		return
	}

	o, err := s.observation.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, observationResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// handleRecentObservations lists the latest observations:
// GET /api/observations?project=...&limit=...
func (s *Server) handleRecentObservations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	observations, err := s.observation.Recent(r.Context(), r.URL.Query().Get("project"), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, observationResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, observations)
}

// searchResponse is the result shape for GET /api/search.
type searchResponse struct {
	Success bool           `json:"success"`
	Results []searchResult `json:"results,omitempty"`
	Count   int            `json:"count"`
	Error   string         `json:"error,omitempty"`
}

type searchResult struct {
	ObservationID int64    `json:"observation_id"`
	SessionID     string   `json:"session_id"`
	Project       string   `json:"project"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	Highlights    []string `json:"highlights,omitempty"`
}

// handleSearch searches observations: GET /api/search?q=...&limit=...&project=...
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, searchResponse{Error: "search service not configured"})
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, searchResponse{Error: "missing query parameter q"})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	opts := domain.SearchOptions{
		Limit:   limit,
		Project: r.URL.Query().Get("project"),
	}
	results, err := s.search.Search(r.Context(), query, opts)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, searchResponse{Error: err.Error()})
		return
	}

	resp := searchResponse{
		Success: true,
		Results: make([]searchResult, len(results)),
		Count:   len(results),
	}
	for i := range results {
		o := results[i].Observation
		resp.Results[i] = searchResult{
			ObservationID: o.ID,
			SessionID:     o.SessionID,
			Project:       o.Project,
			Type:          string(o.Type),
			Title:         o.Title,
			Score:         results[i].Score,
			Highlights:    results[i].Highlights,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}
