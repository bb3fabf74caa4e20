package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"cookierisk/internal/config"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/logging"
	"cookierisk/internal/pipeline"
	"cookierisk/internal/services"
)

const maxRequestBody = 4 << 20

// ErrAlreadyRunning reports that another server holds the state directory lock.
var ErrAlreadyRunning = errors.New("another cookierisk server is already running")

// Server exposes an Orchestrator over HTTP.
type Server struct {
	bind     string
	token    string
	orch     *pipeline.Orchestrator
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewServer builds a server for orch using the api section of cfg.
func NewServer(cfg *config.Config, orch *pipeline.Orchestrator, logger *slog.Logger) *Server {
	return &Server{
		bind:     strings.TrimSpace(cfg.API.Bind),
		token:    cfg.API.Token,
		orch:     orch,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
}

// Handler returns the routed, authenticated handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/extract", s.handleExtract)
	mux.HandleFunc("/api/batch", s.handleBatch)
	mux.HandleFunc("/api/predict", s.handlePredict)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.HandleFunc("/api/endpoint", s.handleEndpoint)
	return authMiddleware(s.token, mux)
}

// Start acquires the instance lock, listens on the bind address and serves
// until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, s.lockPath)
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.done = done
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the instance lock.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	done := s.done
	s.server = nil
	s.listener = nil
	s.done = nil
	s.mu.Unlock()
	if server == nil {
		return
	}
	close(done)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	if err := s.lock.Unlock(); err != nil {
		logging.WarnWithContext(s.logger, "failed to release server lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+s.lockPath+" if no server is running"),
		)
	}
	s.logger.Info("api server stopped")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, FromSnapshot(s.orch.Snapshot()))
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req URLRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := s.orch.Extract(r.Context(), req.URL)
	if err != nil {
		s.writeFailure(w, err, s.orch.Snapshot().Status)
		return
	}
	s.writeJSON(w, http.StatusOK, ExtractResponse{
		Status: s.orch.Snapshot().Status,
		Count:  len(batch),
		Batch:  batch,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	batch := s.orch.Batch()
	if batch == nil {
		batch = []dispatch.Item{}
	}
	s.writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	var batch []dispatch.Item
	if len(strings.TrimSpace(string(body))) > 0 {
		batch, err = s.orch.ParseBatch(body)
		if err != nil {
			s.writeFailure(w, err, pipeline.StatusBadInput)
			return
		}
	}
	outcomes, err := s.orch.Predict(r.Context(), batch)
	if err != nil {
		s.writeFailure(w, err, s.orch.Snapshot().Status)
		return
	}
	snap := s.orch.Snapshot()
	succeeded, failed := dispatch.Summary(outcomes)
	s.writeJSON(w, http.StatusOK, PredictResponse{
		Status:    snap.Status,
		RunID:     snap.RunID,
		Succeeded: succeeded,
		Failed:    failed,
		Outcomes:  FromOutcomes(outcomes),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.orch.Clear(r.Context()); err != nil {
		s.writeFailure(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Status: pipeline.StatusCleared})
}

func (s *Server) handleEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, URLRequest{URL: s.orch.Endpoint()})
	case http.MethodPut:
		var req URLRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.orch.SaveEndpoint(r.Context(), req.URL); err != nil {
			s.writeFailure(w, err, s.orch.Snapshot().Status)
			return
		}
		s.writeJSON(w, http.StatusOK, MessageResponse{Status: pipeline.StatusEndpointSet})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps an error's marker to an HTTP status.
func statusFor(err error) int {
	switch services.Kind(err) {
	case services.ErrInputFormat, services.ErrNoEndpoint, services.ErrConfiguration:
		return http.StatusBadRequest
	case services.ErrExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, err error, message string) {
	if message == "" {
		message = err.Error()
	}
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logging.ErrorWithContext(s.logger, "api request failed", "api_request_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state database and scoring endpoint"),
		)
	}
	s.writeError(w, code, message)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := writeJSON(w, status, payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}
