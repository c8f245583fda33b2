// Package server binds a list of buttons and a shared state to an HTTP
// listener: GET / serves the rendered page, POST / dispatches clicks.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
	"github.com/joeydtaylor/btnify/pkg/manifest"
	"github.com/joeydtaylor/btnify/pkg/middleware/logger"
	"github.com/joeydtaylor/btnify/pkg/middleware/metrics"
	"github.com/joeydtaylor/btnify/pkg/render"
	"github.com/joeydtaylor/btnify/pkg/shutdown"
	"github.com/joeydtaylor/btnify/pkg/transport/httpx"
	"go.uber.org/zap"
)

// Server owns everything built at bind time. The registry, the page and the
// state pointer are fixed for its lifetime.
type Server[S any] struct {
	cfg        manifest.Config
	state      *S
	dispatcher *core.Dispatcher[S]
	page       []byte
	handler    http.Handler
	srv        *http.Server
	log        *zap.Logger
	syncLogs   []*zap.Logger

	external  <-chan struct{}
	hook      func(*S)
	interrupt <-chan struct{}

	mu   sync.Mutex
	addr net.Addr
}

// New builds the registry, renders the page and wires the router. state must
// stay valid until the server has stopped.
func New[S any](buttons []button.Button[S], state *S, opts ...Option) (*Server[S], error) {
	o := options{cfg: manifest.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &Server[S]{cfg: o.cfg, state: state, interrupt: o.interrupt}
	s.external = o.shutdownSignal
	if o.shutdownHook != nil {
		h, ok := o.shutdownHook.(func(*S))
		if !ok {
			return nil, fmt.Errorf("shutdown hook is %T, want func(%T)", o.shutdownHook, new(S))
		}
		s.hook = h
	}

	var err error
	if s.log, err = s.ownLogger(o.log, logger.NewSystemLog); err != nil {
		return nil, fmt.Errorf("system log: %w", err)
	}
	accessLog, err := s.ownLogger(o.accessLog, logger.NewAccessLog)
	if err != nil {
		return nil, fmt.Errorf("access log: %w", err)
	}

	reg := core.NewRegistry(buttons)
	dopts := []core.DispatchOption{core.WithDispatchLogger(s.log)}
	deps := core.BuildDeps{
		Router:       httpx.NewChi(),
		LogMW:        logger.New(accessLog, o.cfg.Log.BodyPaths...),
		MaxBodyBytes: o.cfg.Server.MaxBodyBytes,
	}
	if o.cfg.Metrics.IsEnabled() {
		dopts = append(dopts, core.WithObserver(metrics.ObserveClick))
		deps.Collect = metrics.Collect
		deps.Metrics = metrics.Handler()
		deps.MetricsPath = o.cfg.Metrics.Path
		metrics.AddMetricsSkipPaths(o.cfg.Metrics.Path)
	}
	s.dispatcher = core.NewDispatcher(reg, state, dopts...)

	if s.page, err = render.RegistryPage(o.cfg.Server.Title, reg); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	deps.Clicker = s.dispatcher
	deps.Page = s.page
	s.handler = core.BuildRouter(deps)

	s.srv = &http.Server{
		Addr:         o.cfg.Server.Listen,
		Handler:      s.handler,
		ReadTimeout:  o.cfg.Server.ReadTimeout(),
		WriteTimeout: o.cfg.Server.WriteTimeout(),
		IdleTimeout:  o.cfg.Server.IdleTimeout(),
	}
	if o.cfg.Server.TLS() {
		s.srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS13}
	}
	return s, nil
}

func (s *Server[S]) ownLogger(given *zap.Logger, build func(manifest.Log) (*zap.Logger, error)) (*zap.Logger, error) {
	if given != nil {
		return given, nil
	}
	l, err := build(s.cfg.Log)
	if err != nil {
		return nil, err
	}
	s.syncLogs = append(s.syncLogs, l)
	return l, nil
}

// Handler is the full HTTP handler (page, clicks, heartbeat, metrics).
func (s *Server[S]) Handler() http.Handler { return s.handler }

// Page is the rendered page body served on GET /.
func (s *Server[S]) Page() []byte { return s.page }

// Dispatcher is the click dispatcher bound to this server's state.
func (s *Server[S]) Dispatcher() *core.Dispatcher[S] { return s.dispatcher }

// Config is the validated configuration the server was built with.
func (s *Server[S]) Config() manifest.Config { return s.cfg }

// Logger is the system logger.
func (s *Server[S]) Logger() *zap.Logger { return s.log }

// Addr is the bound address, or nil before Listen.
func (s *Server[S]) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Listen binds the configured address. An address already in use is
// reported here, before any request is served.
func (s *Server[S]) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.Server.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.cfg.Server.Listen, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	return ln, nil
}

// NewCoordinator builds the shutdown coordinator for this server's hook and
// external signal. extra options are applied last.
func (s *Server[S]) NewCoordinator(extra ...shutdown.Option) *shutdown.Coordinator {
	var hook func()
	if s.hook != nil {
		hook = func() { s.hook(s.state) }
	}
	opts := []shutdown.Option{
		shutdown.WithLogger(s.log),
		shutdown.WithDrainTimeout(s.cfg.Server.ShutdownTimeout()),
	}
	if s.interrupt != nil {
		opts = append(opts, shutdown.WithInterrupt(s.interrupt))
	}
	return shutdown.New(s.external, hook, append(opts, extra...)...)
}

// Run serves on ln until shutdown and returns nil after a clean stop.
func (s *Server[S]) Run(ctx context.Context, ln net.Listener) error {
	return s.RunWith(ctx, ln, s.NewCoordinator())
}

// RunWith is Run with a caller-built coordinator.
func (s *Server[S]) RunWith(ctx context.Context, ln net.Listener, coord *shutdown.Coordinator) error {
	defer s.syncLoggers()

	s.log.Info("server starting",
		zap.String("addr", ln.Addr().String()),
		zap.Int("buttons", s.dispatcher.Registry().Len()),
		zap.Bool("tls", s.cfg.Server.TLS()),
		zap.Bool("shutdownHook", s.hook != nil),
	)

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.serve(ln) }()

	waitErr := make(chan error, 1)
	go func() { waitErr <- coord.Wait(ctx, s.stop) }()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			coord.Abort()
		}
		werr := <-waitErr
		if errors.Is(werr, shutdown.ErrAborted) {
			s.log.Error("server failed", zap.Error(err))
			return fmt.Errorf("serve: %w", err)
		}
		return s.finish(werr)
	case werr := <-waitErr:
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return s.finish(werr)
	}
}

func (s *Server[S]) finish(err error) error {
	if err != nil {
		s.log.Error("shutdown failed", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server[S]) serve(ln net.Listener) error {
	if s.cfg.Server.TLS() {
		return s.srv.ServeTLS(ln, s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
	}
	return s.srv.Serve(ln)
}

func (s *Server[S]) stop(ctx context.Context) error {
	s.log.Info("server stopping")
	return s.srv.Shutdown(ctx)
}

func (s *Server[S]) syncLoggers() {
	for _, l := range s.syncLogs {
		_ = l.Sync()
	}
}

// ListenAndRun is Listen followed by Run.
func (s *Server[S]) ListenAndRun(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Run(ctx, ln)
}

// Bind starts a btnify server on addr with the given buttons and state and
// blocks until it has shut down. An empty addr uses the configured listen
// address. If no custom state is needed use struct{}.
//
// Bind returns an error if the server cannot be built or bound (for example
// the address is already in use) or if serving fails.
func Bind[S any](ctx context.Context, addr string, buttons []button.Button[S], state *S, opts ...Option) error {
	if addr != "" {
		opts = append(opts, withListen(addr))
	}
	s, err := New(buttons, state, opts...)
	if err != nil {
		return err
	}
	return s.ListenAndRun(ctx)
}

func withListen(addr string) Option {
	return func(o *options) { o.cfg.Server.Listen = addr }
}
