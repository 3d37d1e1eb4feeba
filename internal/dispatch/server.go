package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vyrodovalexey/avaroute/internal/config"
	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// Server limits not exposed in the route document.
const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	maxHeaderBytes    = 1 << 20
)

// Server serves an http.Handler on the configured address.
type Server struct {
	config  *config.ServerConfig
	server  *http.Server
	handler http.Handler
	logger  observability.Logger
	addr    atomic.Value
	running atomic.Bool
	done    chan struct{}
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger for the server.
func WithServerLogger(logger observability.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server. A nil cfg uses config.DefaultServerConfig.
func NewServer(cfg *config.ServerConfig, handler http.Handler, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfig()
	}

	s := &Server{
		config:  cfg,
		handler: handler,
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start listens and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server on %s is already running", s.config.Address)
	}

	s.server = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout.Duration(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout.Duration(),
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}

	s.addr.Store(ln.Addr().String())
	s.done = make(chan struct{})
	s.running.Store(true)

	s.logger.Info("http server started",
		observability.String("address", ln.Addr().String()),
	)

	go s.serve(ln)

	return nil
}

func (s *Server) serve(ln net.Listener) {
	defer close(s.done)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("http server error", observability.Error(err))
	}
	s.running.Store(false)
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

// Stop shuts the server down gracefully, forcing close when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	s.logger.Info("stopping http server")

	if err := s.server.Shutdown(ctx); err != nil {
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}
	<-s.done

	s.logger.Info("http server stopped")

	return nil
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}
