// Package button defines the clickable units a btnify page exposes.
//
// A Button pairs a display name with exactly one Handler. A Handler is one of
// four call shapes, chosen by the constructor that built it:
//
//	Basic                func() Response
//	WithState            func(*S) Response
//	WithPrompts          func(Answers) Response
//	WithStateAndPrompts  func(*S, Answers) Response
//
// S is the application state shared by every stateful handler. Handlers only
// ever read through the pointer they receive; any mutation must go through a
// primitive S owns itself (sync.Mutex, atomic.Int64, ...), since many clicks
// can run at once.
//
// Prompt-bearing handlers are always called with exactly one answer per
// declared prompt, so a handler body may index Answers directly.
package button

import "fmt"

// Kind tags which of the four handler shapes a Handler holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBasic
	KindWithState
	KindWithPrompts
	KindWithStateAndPrompts
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindWithState:
		return "with_state"
	case KindWithPrompts:
		return "with_prompts"
	case KindWithStateAndPrompts:
		return "with_state_and_prompts"
	default:
		return "invalid"
	}
}

// HasPrompts reports whether handlers of this kind receive prompt answers.
func (k Kind) HasPrompts() bool {
	return k == KindWithPrompts || k == KindWithStateAndPrompts
}

// UsesState reports whether handlers of this kind receive the shared state.
func (k Kind) UsesState() bool {
	return k == KindWithState || k == KindWithStateAndPrompts
}

// Handler holds exactly one of the four handler shapes. Build it with Basic,
// WithState, WithPrompts or WithStateAndPrompts; the zero value is KindInvalid.
type Handler[S any] struct {
	kind Kind

	basic               func() Response
	withState           func(*S) Response
	withPrompts         func(Answers) Response
	withStateAndPrompts func(*S, Answers) Response
}

// Basic wraps a handler that needs neither state nor prompt answers.
func Basic[S any](fn func() Response) Handler[S] {
	return Handler[S]{kind: KindBasic, basic: fn}
}

// WithState wraps a handler that reads the shared state.
func WithState[S any](fn func(*S) Response) Handler[S] {
	return Handler[S]{kind: KindWithState, withState: fn}
}

// WithPrompts wraps a handler that receives one answer per declared prompt.
func WithPrompts[S any](fn func(Answers) Response) Handler[S] {
	return Handler[S]{kind: KindWithPrompts, withPrompts: fn}
}

// WithStateAndPrompts wraps a handler that receives both state and answers.
func WithStateAndPrompts[S any](fn func(*S, Answers) Response) Handler[S] {
	return Handler[S]{kind: KindWithStateAndPrompts, withStateAndPrompts: fn}
}

// Kind returns the handler's shape.
func (h Handler[S]) Kind() Kind {
	if h.fn() == nil {
		return KindInvalid
	}
	return h.kind
}

func (h Handler[S]) fn() any {
	switch h.kind {
	case KindBasic:
		if h.basic != nil {
			return h.basic
		}
	case KindWithState:
		if h.withState != nil {
			return h.withState
		}
	case KindWithPrompts:
		if h.withPrompts != nil {
			return h.withPrompts
		}
	case KindWithStateAndPrompts:
		if h.withStateAndPrompts != nil {
			return h.withStateAndPrompts
		}
	}
	return nil
}

// Invoke calls the wrapped function with the arguments its shape takes and
// ignores the rest. It does not check answer arity; callers that accept
// untrusted input go through core.Dispatcher, which does.
func (h Handler[S]) Invoke(state *S, answers Answers) Response {
	switch h.Kind() {
	case KindBasic:
		return h.basic()
	case KindWithState:
		return h.withState(state)
	case KindWithPrompts:
		return h.withPrompts(answers)
	case KindWithStateAndPrompts:
		return h.withStateAndPrompts(state, answers)
	default:
		return Message(MsgNoHandler)
	}
}

// MsgNoHandler is returned for a Button built from a zero Handler.
const MsgNoHandler = "button has no handler"

// Button is a named handler. Its identity once registered is its position in
// the registry, so two buttons may share a name.
type Button[S any] struct {
	name    string
	handler Handler[S]
	prompts []string
}

// New builds a Button. Prompts are kept only when the handler is
// prompt-bearing; for Basic and WithState handlers they are dropped.
func New[S any](name string, h Handler[S], prompts ...string) Button[S] {
	b := Button[S]{name: name, handler: h}
	if h.Kind().HasPrompts() && len(prompts) > 0 {
		b.prompts = append([]string(nil), prompts...)
	}
	return b
}

// Name is the text shown on the button.
func (b Button[S]) Name() string { return b.name }

// Kind is the shape of the button's handler.
func (b Button[S]) Kind() Kind { return b.handler.Kind() }

// Handler returns the button's handler.
func (b Button[S]) Handler() Handler[S] { return b.handler }

// Prompts returns a copy of the declared prompt texts, in order.
func (b Button[S]) Prompts() []string {
	if len(b.prompts) == 0 {
		return nil
	}
	return append([]string(nil), b.prompts...)
}

// PromptCount is the exact number of answers a click must carry.
func (b Button[S]) PromptCount() int { return len(b.prompts) }

func (b Button[S]) String() string {
	return fmt.Sprintf("%s(%s, %d prompts)", b.name, b.Kind(), len(b.prompts))
}
