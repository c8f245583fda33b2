package core

import (
	"strings"
	"testing"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/manifest"
)

func testHandlerSet(t *testing.T) *HandlerSet[appState] {
	t.Helper()
	return NewHandlerSet[appState]().
		MustRegister("ping", button.Basic[appState](func() button.Response { return button.Message("pong") })).
		MustRegister("greet", button.WithPrompts[appState](func(a button.Answers) button.Response {
			return button.Messagef("hello %s", a.Or(0, "stranger"))
		}))
}

func TestHandlerSetRegister(t *testing.T) {
	hs := testHandlerSet(t)

	if err := hs.Register("ping", button.Basic[appState](func() button.Response { return button.Response{} })); err == nil {
		t.Fatalf("duplicate name accepted")
	}
	if err := hs.Register("  ", button.Basic[appState](func() button.Response { return button.Response{} })); err == nil {
		t.Fatalf("blank name accepted")
	}
	if err := hs.Register("empty", button.Handler[appState]{}); err == nil {
		t.Fatalf("zero handler accepted")
	}
	if _, ok := hs.Lookup(" greet "); !ok {
		t.Fatalf("lookup should trim names")
	}
}

func TestHandlerSetButtons(t *testing.T) {
	hs := testHandlerSet(t)

	buttons, err := hs.Buttons([]manifest.ButtonSpec{
		{Name: "Ping", Handler: "ping"},
		{Name: "Greet", Handler: "greet", Prompts: []string{"name?"}},
		{Name: "Ping again", Handler: "ping"},
	})
	if err != nil {
		t.Fatalf("buttons: %v", err)
	}
	if len(buttons) != 3 || buttons[1].PromptCount() != 1 || buttons[2].Name() != "Ping again" {
		t.Fatalf("unexpected buttons %v", buttons)
	}

	d := NewDispatcher(NewRegistry(buttons), &appState{})
	if got := d.Dispatch(1, button.Answers{button.Answer("Ada")}).Message; got != "hello Ada" {
		t.Fatalf("got %q", got)
	}
}

func TestHandlerSetButtonsErrors(t *testing.T) {
	hs := testHandlerSet(t)

	_, err := hs.Buttons([]manifest.ButtonSpec{{Name: "X", Handler: "missing"}})
	if err == nil || !strings.Contains(err.Error(), `"missing" not registered`) {
		t.Fatalf("missing handler: %v", err)
	}

	_, err = hs.Buttons([]manifest.ButtonSpec{{Name: "Ping", Handler: "ping", Prompts: []string{"why?"}}})
	if err == nil || !strings.Contains(err.Error(), "takes no prompts") {
		t.Fatalf("prompts on basic handler: %v", err)
	}
}
