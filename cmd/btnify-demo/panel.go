package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
	"github.com/joeydtaylor/btnify/pkg/manifest"
)

// panel is the state every button shares.
type panel struct {
	mu     sync.Mutex
	count  int
	label  string
	guests []string

	stopOnce sync.Once
	stop     chan struct{}
}

func newPanel() *panel {
	return &panel{label: "count", stop: make(chan struct{})}
}

func (p *panel) requestStop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// defaultButtons is used when the manifest declares none.
var defaultButtons = []manifest.ButtonSpec{
	{Name: "Ping", Handler: "ping"},
	{Name: "Count", Handler: "count"},
	{Name: "Greet", Handler: "greet", Prompts: []string{"What is your name?"}},
	{Name: "Relabel", Handler: "relabel", Prompts: []string{"New label?"}},
	{Name: "Stop server", Handler: "stop"},
}

func handlers() *core.HandlerSet[panel] {
	return core.NewHandlerSet[panel]().
		MustRegister("ping", button.Basic[panel](func() button.Response {
			return button.Message("pong")
		})).
		MustRegister("count", button.WithState(func(p *panel) button.Response {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.count++
			return button.Messagef("%s is %d", p.label, p.count)
		})).
		MustRegister("greet", button.WithStateAndPrompts(func(p *panel, a button.Answers) button.Response {
			name, ok := a.Get(0)
			if !ok || strings.TrimSpace(name) == "" {
				return button.Message("Maybe next time.")
			}
			p.mu.Lock()
			p.guests = append(p.guests, name)
			n := len(p.guests)
			p.mu.Unlock()
			return button.Messagef("Hello, %s! You are guest #%d.", name, n)
		})).
		MustRegister("relabel", button.WithStateAndPrompts(func(p *panel, a button.Answers) button.Response {
			label := strings.TrimSpace(a.Or(0, ""))
			if label == "" {
				return button.Message("label unchanged")
			}
			p.mu.Lock()
			p.label = label
			p.mu.Unlock()
			return button.Messagef("label set to %q", label)
		})).
		MustRegister("stop", button.WithState(func(p *panel) button.Response {
			p.requestStop()
			return button.Message("shutting down")
		}))
}

// summary is written by the shutdown hook.
func (p *panel) summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("final %s: %d, guests: [%s]", p.label, p.count, strings.Join(p.guests, ", "))
}
