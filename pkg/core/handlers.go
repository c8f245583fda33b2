// core/handlers.go
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/manifest"
)

// HandlerSet maps names to handlers so a manifest can declare buttons by
// handler name. It is an ordinary value built by the caller before the
// server starts; there is no package-level registry.
type HandlerSet[S any] struct {
	handlers map[string]button.Handler[S]
}

func NewHandlerSet[S any]() *HandlerSet[S] {
	return &HandlerSet[S]{handlers: map[string]button.Handler[S]{}}
}

// Register makes a handler available under a name referenced in the manifest.
func (hs *HandlerSet[S]) Register(name string, h button.Handler[S]) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("handler name required")
	}
	if h.Kind() == button.KindInvalid {
		return fmt.Errorf("handler %q has no function", name)
	}
	if _, ok := hs.handlers[name]; ok {
		return fmt.Errorf("handler %q already registered", name)
	}
	hs.handlers[name] = h
	return nil
}

// MustRegister is Register for init-time wiring.
func (hs *HandlerSet[S]) MustRegister(name string, h button.Handler[S]) *HandlerSet[S] {
	if err := hs.Register(name, h); err != nil {
		panic(err)
	}
	return hs
}

// Lookup retrieves a registered handler by name.
func (hs *HandlerSet[S]) Lookup(name string) (button.Handler[S], bool) {
	h, ok := hs.handlers[strings.TrimSpace(name)]
	return h, ok
}

// Buttons resolves manifest button declarations, in order, into Buttons.
func (hs *HandlerSet[S]) Buttons(specs []manifest.ButtonSpec) ([]button.Button[S], error) {
	out := make([]button.Button[S], 0, len(specs))
	for i, spec := range specs {
		h, ok := hs.Lookup(spec.Handler)
		if !ok {
			return nil, fmt.Errorf("button %d (%s): handler %q not registered", i, spec.Name, spec.Handler)
		}
		if len(spec.Prompts) > 0 && !h.Kind().HasPrompts() {
			return nil, fmt.Errorf("button %d (%s): handler %q is %s and takes no prompts", i, spec.Name, spec.Handler, h.Kind())
		}
		out = append(out, button.New(spec.Name, h, spec.Prompts...))
	}
	return out, nil
}
