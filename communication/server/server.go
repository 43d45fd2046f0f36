// Package server exposes a communication.Runner over HTTP with JSON bodies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lineup/communication"
	"lineup/store"
)

const (
	maxBodyBytes    = 1 << 20
	defaultRunLimit = 20
)

var tracer = otel.Tracer("lineup/communication/server")

// Recorder persists runs. *store.Store satisfies it.
type Recorder interface {
	SaveRun(ctx context.Context, run store.Run) (int64, error)
	GetRun(ctx context.Context, id int64) (store.Run, error)
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
}

type Server struct {
	runner   communication.Runner
	recorder Recorder
	mux      *http.ServeMux
}

// New builds the HTTP handlers. recorder may be nil, which disables the run
// history endpoints.
func New(runner communication.Runner, recorder Recorder) *Server {
	s := &Server{
		runner:   runner,
		recorder: recorder,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /simulate", s.handleSimulate)
	s.mux.HandleFunc("POST /search", s.handleSearch)
	s.mux.HandleFunc("GET /runs", s.handleListRuns)
	s.mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	log.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("elapsed", time.Since(start)).
		Msg("request")
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req communication.SimulateRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, span := tracer.Start(r.Context(), "simulate", trace.WithAttributes(attribute.Int("trials", req.Trials)))
	defer span.End()

	summary, err := s.runner.Simulate(ctx, req)
	if err != nil {
		fail(span, err)
		writeError(w, err)
		return
	}

	resp := communication.SimulateResponse{Summary: summary}
	resp.RunID = s.record(ctx, store.KindSimulate, req.Seed, req, summary)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req communication.SearchRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, span := tracer.Start(r.Context(), "search", trace.WithAttributes(
		attribute.Int("candidates", req.Candidates),
		attribute.Int("games_per_candidate", req.GamesPerCandidate),
	))
	defer span.End()

	summary, err := s.runner.Search(ctx, req)
	if err != nil {
		fail(span, err)
		writeError(w, err)
		return
	}

	resp := communication.SearchResponse{Summary: summary}
	resp.RunID = s.record(ctx, store.KindSearch, req.Seed, req, summary)
	writeJSON(w, http.StatusOK, resp)
}

// record saves the run when history is enabled. A failed save is logged and
// does not fail the request.
func (s *Server) record(ctx context.Context, kind store.Kind, seed *uint32, req, result any) int64 {
	if s.recorder == nil {
		return 0
	}
	run, err := store.NewRun(kind, seed, req, result)
	if err == nil {
		var id int64
		id, err = s.recorder.SaveRun(ctx, run)
		if err == nil {
			return id
		}
	}
	log.Warn().Err(err).Msgf("Failed to record %s run", kind)
	return 0
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		writeJSON(w, http.StatusNotFound, communication.ErrorResponse{Error: "run history is disabled"})
		return
	}

	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.recorder.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		writeJSON(w, http.StatusNotFound, communication.ErrorResponse{Error: "run history is disabled"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "run id must be an integer"})
		return
	}

	run, err := s.recorder.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case communication.IsInvalidRequest(err):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
