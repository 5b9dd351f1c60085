// Package httpapi exposes the scheduling operations over a small JSON
// API intended for local clients and automation.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jordanhale/timeloom/internal/service"
)

// Server wires the services into an http.Server.
type Server struct {
	schedule service.ScheduleService
	rules    service.RuleService
	sync     service.SyncService
	log      zerolog.Logger
	srv      *http.Server
}

func NewServer(addr string, schedule service.ScheduleService, ruleSvc service.RuleService, syncSvc service.SyncService, log zerolog.Logger) *Server {
	s := &Server{
		schedule: schedule,
		rules:    ruleSvc,
		sync:     syncSvc,
		log:      log,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /schedule/generate", s.handleGenerate)
	mux.HandleFunc("GET /schedule/summary", s.handleSummary)
	mux.HandleFunc("DELETE /schedule/clear", s.handleClear)

	mux.HandleFunc("GET /calendar/blocks", s.handleListBlocks)
	mux.HandleFunc("POST /calendar/blocks/{id}/complete", s.handleCompleteBlock)
	mux.HandleFunc("POST /calendar/blocks/{id}/skip", s.handleSkipBlock)

	mux.HandleFunc("GET /rules", s.handleListRules)
	mux.HandleFunc("POST /rules", s.handleCreateRule)
	mux.HandleFunc("DELETE /rules/{id}", s.handleDeleteRule)
	mux.HandleFunc("GET /rules/templates", s.handleListTemplates)
	mux.HandleFunc("POST /rules/from-template", s.handleCreateFromTemplate)

	mux.HandleFunc("POST /sync/pull", s.handleSyncPull)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return s.logRequests(mux)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe blocks until the context is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("http api listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
