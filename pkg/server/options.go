package server

import (
	"github.com/joeydtaylor/btnify/pkg/manifest"
	"go.uber.org/zap"
)

// ShutdownConfig ties a terminal hook to an external one-shot signal.
// Closing Signal, a process interrupt, or cancelling the context passed to
// Bind/Run all stop the server; Hook then runs once with the shared state
// before the accept loop stops. Without a ShutdownConfig the server stops on
// interrupt (or context cancellation) and no hook runs.
type ShutdownConfig[S any] struct {
	Signal <-chan struct{}
	Hook   func(state *S)
}

type Option func(*options)

type options struct {
	cfg       manifest.Config
	log       *zap.Logger
	accessLog *zap.Logger
	interrupt <-chan struct{}

	shutdownSignal <-chan struct{}
	shutdownHook   any // func(*S); checked against the server's S in New
}

// WithConfig replaces the default configuration. It is validated by New.
func WithConfig(cfg manifest.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the system logger instead of building one from the
// config's [log] section.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithAccessLogger sets the per-request access logger.
func WithAccessLogger(l *zap.Logger) Option {
	return func(o *options) { o.accessLog = l }
}

// WithInterrupt replaces SIGINT/SIGTERM handling with ch. Embedders that
// already own signal handling (and tests) use it.
func WithInterrupt(ch <-chan struct{}) Option {
	return func(o *options) { o.interrupt = ch }
}

// WithShutdown installs a terminal hook and its external trigger.
func WithShutdown[S any](sc ShutdownConfig[S]) Option {
	return func(o *options) {
		o.shutdownSignal = sc.Signal
		if sc.Hook != nil {
			o.shutdownHook = sc.Hook
		}
	}
}
