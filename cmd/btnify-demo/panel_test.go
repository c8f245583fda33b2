package main

import (
	"strings"
	"testing"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
)

func TestDefaultPanel(t *testing.T) {
	buttons, err := handlers().Buttons(defaultButtons)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p := newPanel()
	d := core.NewDispatcher(core.NewRegistry(buttons), p)

	if got := d.Dispatch(0, nil).Message; got != "pong" {
		t.Fatalf("ping: %q", got)
	}
	d.Dispatch(1, nil)
	if got := d.Dispatch(1, nil).Message; got != "count is 2" {
		t.Fatalf("count: %q", got)
	}
	if got := d.Dispatch(2, button.Answers{button.Answer("Ada")}).Message; !strings.Contains(got, "guest #1") {
		t.Fatalf("greet: %q", got)
	}
	if got := d.Dispatch(2, button.Answers{nil}).Message; got != "Maybe next time." {
		t.Fatalf("cancelled greet: %q", got)
	}
	d.Dispatch(3, button.Answers{button.Answer("clicks")})
	if got := d.Dispatch(1, nil).Message; got != "clicks is 3" {
		t.Fatalf("relabelled count: %q", got)
	}

	d.Dispatch(4, nil)
	d.Dispatch(4, nil)
	select {
	case <-p.stop:
	default:
		t.Fatal("stop button did not close the stop channel")
	}

	if got := p.summary(); got != "final clicks: 3, guests: [Ada]" {
		t.Fatalf("summary: %q", got)
	}
}
