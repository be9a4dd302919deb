// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/scenekit/editor/pkg/errors"
)

// Server serves project files, built bundles and the build API.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	builder     Builder
	builds      buildState
	mu          sync.RWMutex
	ready       bool
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the default config.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithName sets the server name.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the version reported in build results.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler adds routes wrapped in the API middleware chain.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc, len(handlers))
		}
		for path, h := range handlers {
			s.config.Handlers[path] = h
		}
	}
}

// WithFilesDir serves dir under /files/.
func WithFilesDir(dir string) Option {
	return func(s *Server) {
		s.config.FilesDir = dir
	}
}

// WithDistDir serves dir under /dist/.
func WithDistDir(dir string) Option {
	return func(s *Server) {
		s.config.DistDir = dir
	}
}

// WithBuilder enables POST /v1/bundles.
func WithBuilder(b Builder) Option {
	return func(s *Server) {
		s.builder = b
	}
}

// New creates a server. Options apply in order, so WithConfig should come
// first.
func New(opts ...Option) *Server {
	s := &Server{config: NewConfig()}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(s.config.Address, fmt.Sprintf("%d", s.config.Port)),
		Handler:           s.setupRoutes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// SetReady marks the server as ready to serve traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start listens until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to listen", err,
			map[string]any{"address": s.httpServer.Addr})
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.SetReady(true)
	slog.Info("server listening", "name", s.config.Name, "address", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.SetReady(false)
		return errors.Wrap(errors.ErrCodeInternal, "server failed", err)
	}
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "name", s.config.Name)
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run creates a server and runs it until SIGINT, SIGTERM or ctx cancellation.
func Run(ctx context.Context, opts ...Option) error {
	return New(opts...).Run(ctx)
}

// Run blocks until SIGINT, SIGTERM or ctx cancellation.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.config

	slog.Info("server config",
		slog.String("address", s.Addr()),
		slog.String("files", cfg.FilesDir),
		slog.String("dist", cfg.DistDir),
		slog.Any("rateLimit", cfg.RateLimit),
		slog.Int("rateLimitBurst", cfg.RateLimitBurst),
		slog.Duration("readTimeout", cfg.ReadTimeout),
		slog.Duration("writeTimeout", cfg.WriteTimeout),
		slog.Duration("idleTimeout", cfg.IdleTimeout),
		slog.Duration("shutdownTimeout", cfg.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
