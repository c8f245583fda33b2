package core

import "github.com/joeydtaylor/btnify/pkg/button"

// Registry is the fixed, ordered button table a server dispatches against.
// A button's id is its index. The table is never resized or mutated after
// NewRegistry returns, so concurrent readers need no lock.
type Registry[S any] struct {
	buttons []button.Button[S]
}

// NewRegistry copies buttons into a new table. Duplicate names and duplicate
// handlers are allowed.
func NewRegistry[S any](buttons []button.Button[S]) *Registry[S] {
	return &Registry[S]{buttons: append([]button.Button[S](nil), buttons...)}
}

// Lookup returns the button with the given id, or false when id is out of range.
func (r *Registry[S]) Lookup(id int) (*button.Button[S], bool) {
	if r == nil || id < 0 || id >= len(r.buttons) {
		return nil, false
	}
	return &r.buttons[id], true
}

// Len is the number of registered buttons.
func (r *Registry[S]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.buttons)
}

// Each calls fn for every button in id order.
func (r *Registry[S]) Each(fn func(id int, b button.Button[S])) {
	if r == nil {
		return
	}
	for i, b := range r.buttons {
		fn(i, b)
	}
}
