// Package httpapi exposes the message handler over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"autofill-agent/internal/adapter/message"
	"autofill-agent/internal/application/port/output"
)

const maxBodyBytes = 1 << 20

type Config struct {
	Addr string
	// RequestTimeout bounds one autofill request, retries and validation included.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// AccessLog enables httplog request logging.
	AccessLog bool
}

func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8765",
		RequestTimeout:  2 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		AccessLog:       true,
	}
}

type Server struct {
	cfg     Config
	handler *message.Handler
	router  chi.Router
	logger  output.LoggerPort
}

func NewServer(cfg Config, handler *message.Handler, logger output.LoggerPort) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	if s.cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger("autofill", httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.health)
	r.Post("/api/autofill", s.autofill)
	r.Post("/api/message", s.message)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// autofill accepts the message body without an action field.
func (s *Server) autofill(w http.ResponseWriter, r *http.Request) {
	var req message.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message.Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if req.Action == "" {
		req.Action = message.ActionAutofill
	}
	s.dispatch(w, r, req)
}

// message accepts the full action message.
func (s *Server) message(w http.ResponseWriter, r *http.Request) {
	var req message.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message.Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	s.dispatch(w, r, req)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req message.Request) {
	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	resp := s.handler.Handle(ctx, req)

	status := http.StatusOK
	if resp.Outcome == nil && !resp.Success {
		status = http.StatusBadRequest
		if req.Action == message.ActionAutofill {
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
