// Package server serves route programs and their templates over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"blox/internal/assets"
	"blox/internal/interp"
)

// ShutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Watcher is implemented by providers that must be driven to report changes.
type Watcher interface {
	Watch(ctx context.Context) error
}

type Server struct {
	provider assets.Provider
	opts     interp.Options
	log      *logrus.Entry
	current  atomic.Pointer[interp.Context]
	router   chi.Router
}

// New builds a server reading everything from provider. opts configures
// each evaluation context; its Loader is replaced by provider.
func New(provider assets.Provider, opts interp.Options, log *logrus.Entry) (*Server, error) {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}
	opts.Loader = provider
	if opts.Logger == nil {
		opts.Logger = log
	}
	s := &Server{
		provider: provider,
		opts:     opts,
		log:      log.WithField("component", "server"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Get("/*", s.serveRoute)
	r.Head("/*", s.serveRoute)
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Context returns the evaluation context serving new requests.
func (s *Server) Context() *interp.Context {
	return s.current.Load()
}

// Reload swaps in a fresh evaluation context with an empty module cache.
// Requests already running keep the context they started with.
func (s *Server) Reload() error {
	c, err := interp.NewContext(s.opts)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	s.current.Store(c)
	return nil
}

// Run listens on addr until ctx is done, reloading whenever the provider
// reports changes.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if w, ok := s.provider.(Watcher); ok {
		g.Go(func() error { return w.Watch(ctx) })
	}
	if changes := s.provider.Changes(); changes != nil {
		g.Go(func() error {
			s.reloadOnChange(ctx, changes)
			return nil
		})
	}
	return g.Wait()
}

func (s *Server) reloadOnChange(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if err := s.Reload(); err != nil {
				s.log.WithError(err).Error("reload failed, keeping previous context")
				continue
			}
			s.log.Info("reloaded")
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Info("request")
	})
}
