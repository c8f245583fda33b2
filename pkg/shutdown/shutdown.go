// Package shutdown coordinates the end of a btnify server's life.
//
// A Coordinator moves through Running -> Stopping -> Stopped exactly once.
// It leaves Running on the first of: the caller's external signal, a call to
// Trigger, cancellation of the context given to Wait, or a process interrupt
// (SIGINT/SIGTERM). On entering Stopping it runs the terminal hook, if any,
// to completion, then calls the stop function that ends the accept loop. A
// panicking hook is not recovered.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopFunc stops accepting connections. ctx bounds how long in-flight
// requests may drain.
type StopFunc func(ctx context.Context) error

var (
	ErrAlreadyWaiting = errors.New("shutdown: Wait already called")
	ErrAborted        = errors.New("shutdown: aborted")
)

type Coordinator struct {
	external  <-chan struct{}
	interrupt <-chan struct{}
	hook      func()
	drain     time.Duration
	log       *zap.Logger

	trigger     chan struct{}
	triggerOnce sync.Once
	abort       chan struct{}
	abortOnce   sync.Once
	hookOnce    sync.Once
	waiting     atomic.Bool
	state       atomic.Int32
	done        chan struct{}
}

type Option func(*Coordinator)

// WithInterrupt replaces the SIGINT/SIGTERM listener with ch.
func WithInterrupt(ch <-chan struct{}) Option {
	return func(c *Coordinator) { c.interrupt = ch }
}

// WithDrainTimeout bounds the context passed to the stop function.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.drain = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Coordinator. external may be nil, in which case only Trigger,
// the Wait context and process interrupts end Running. hook may be nil.
func New(external <-chan struct{}, hook func(), opts ...Option) *Coordinator {
	c := &Coordinator{
		external: external,
		hook:     hook,
		drain:    10 * time.Second,
		log:      zap.NewNop(),
		trigger:  make(chan struct{}),
		abort:    make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Trigger requests shutdown. Calling it more than once is a no-op.
func (c *Coordinator) Trigger() {
	c.triggerOnce.Do(func() { close(c.trigger) })
}

// Abort ends a Running coordinator without running the hook or the stop
// function; Wait returns ErrAborted. It is for an accept loop that has
// already died. Abort has no effect once a trigger has fired.
func (c *Coordinator) Abort() {
	c.abortOnce.Do(func() { close(c.abort) })
}

// State reports the current lifecycle state.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Done is closed once the coordinator reaches Stopped.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// Wait blocks until a shutdown trigger fires, runs the hook, then calls stop
// and returns its error. It may be called once.
func (c *Coordinator) Wait(ctx context.Context, stop StopFunc) error {
	if !c.waiting.CompareAndSwap(false, true) {
		return ErrAlreadyWaiting
	}

	interrupt := c.interrupt
	if interrupt == nil {
		sigCtx, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer release()
		interrupt = sigCtx.Done()
	}

	var source string
	select {
	case <-c.external:
		source = "external"
	case <-c.trigger:
		source = "trigger"
	case <-ctx.Done():
		source = "context"
	case <-interrupt:
		source = "interrupt"
	case <-c.abort:
		c.state.Store(int32(Stopped))
		close(c.done)
		return ErrAborted
	}

	c.state.Store(int32(Stopping))
	c.log.Info("shutdown triggered", zap.String("source", source))

	if c.hook != nil {
		c.hookOnce.Do(c.hook)
		c.log.Info("shutdown hook complete")
	}

	var err error
	if stop != nil {
		drainCtx, cancel := context.WithTimeout(context.Background(), c.drain)
		defer cancel()
		err = stop(drainCtx)
	}

	c.state.Store(int32(Stopped))
	close(c.done)
	return err
}
