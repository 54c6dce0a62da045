// Package server exposes FEN decoding, rendering and the position store over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/fenboard/internal/board"
	"github.com/hailam/fenboard/internal/render"
	"github.com/hailam/fenboard/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Store is the subset of *storage.Storage the handlers need.
type Store interface {
	Save(pos board.Position) (storage.Record, bool, error)
	Get(id uuid.UUID) (storage.Record, error)
	List() ([]storage.Record, error)
	Delete(id uuid.UUID) error
}

type Server struct {
	log      *zap.SugaredLogger
	store    Store
	renderer *render.CachedRenderer
	router   chi.Router
}

func New(log *zap.SugaredLogger, store Store, renderer *render.CachedRenderer) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		log:      log,
		store:    store,
		renderer: renderer,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/positions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/decode", s.handleDecode)
		r.Get("/render.png", s.handleRenderPNG)
		r.Get("/render.txt", s.handleRenderText)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server is running on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
