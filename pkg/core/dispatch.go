package core

import (
	"fmt"
	"time"

	"github.com/joeydtaylor/btnify/pkg/button"
	"go.uber.org/zap"
)

// User-visible dispatch messages. Both are ordinary 200 responses on the wire.
const (
	MsgUnknownID     = "Unknown button id"
	MsgArityMismatch = "answers length does not match prompts length"
)

// Outcome classifies a single dispatch for logs and metrics.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeUnknownID     Outcome = "unknown_id"
	OutcomeArityMismatch Outcome = "arity_mismatch"
	OutcomeNoHandler     Outcome = "no_handler"
)

// Observer is notified after every dispatch.
type Observer func(id int, kind button.Kind, outcome Outcome, elapsed time.Duration)

// Dispatcher resolves click requests against a Registry and invokes handlers.
// It holds no lock; any number of goroutines may call Dispatch at once.
type Dispatcher[S any] struct {
	reg      *Registry[S]
	state    *S
	log      *zap.Logger
	observer Observer
}

type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	log      *zap.Logger
	observer Observer
}

// WithDispatchLogger sets the logger used for per-click debug lines.
func WithDispatchLogger(l *zap.Logger) DispatchOption {
	return func(c *dispatchConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver registers a callback run after every dispatch.
func WithObserver(o Observer) DispatchOption {
	return func(c *dispatchConfig) { c.observer = o }
}

// NewDispatcher binds a registry to the shared state. state is handed to
// every stateful handler as is and must outlive the dispatcher.
func NewDispatcher[S any](reg *Registry[S], state *S, opts ...DispatchOption) *Dispatcher[S] {
	cfg := dispatchConfig{log: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	return &Dispatcher[S]{reg: reg, state: state, log: cfg.log, observer: cfg.observer}
}

// Registry returns the table the dispatcher reads from.
func (d *Dispatcher[S]) Registry() *Registry[S] { return d.reg }

// Dispatch runs the handler for button id. An unknown id or an answer count
// that differs from the button's prompt count yields an explanatory Response
// and leaves the handler uncalled. Answers sent to Basic and WithState
// buttons are ignored.
func (d *Dispatcher[S]) Dispatch(id int, answers button.Answers) button.Response {
	start := time.Now()
	resp, kind, outcome := d.dispatch(id, answers)
	elapsed := time.Since(start)

	d.log.Debug("click dispatched",
		zap.Int("id", id),
		zap.Stringer("kind", kind),
		zap.String("outcome", string(outcome)),
		zap.Int("answers", len(answers)),
		zap.Duration("lat", elapsed),
	)
	if d.observer != nil {
		d.observer(id, kind, outcome, elapsed)
	}
	return resp
}

func (d *Dispatcher[S]) dispatch(id int, answers button.Answers) (button.Response, button.Kind, Outcome) {
	b, ok := d.reg.Lookup(id)
	if !ok {
		return button.Message(MsgUnknownID), button.KindInvalid, OutcomeUnknownID
	}

	h := b.Handler()
	kind := h.Kind()
	switch kind {
	case button.KindBasic, button.KindWithState:
		return h.Invoke(d.state, nil), kind, OutcomeOK
	case button.KindWithPrompts, button.KindWithStateAndPrompts:
		if len(answers) != b.PromptCount() {
			return arityMismatch(len(answers), b.PromptCount()), kind, OutcomeArityMismatch
		}
		return h.Invoke(d.state, answers), kind, OutcomeOK
	default:
		return button.Message(button.MsgNoHandler), kind, OutcomeNoHandler
	}
}

func arityMismatch(got, want int) button.Response {
	return button.Message(fmt.Sprintf("%s (got %d, want %d)", MsgArityMismatch, got, want))
}
