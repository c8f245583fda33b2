package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/manifest"
	"go.uber.org/zap/zaptest"
)

type counter struct{ n atomic.Int64 }

func testButtons() []button.Button[counter] {
	return []button.Button[counter]{
		button.New("Count", button.WithState(func(c *counter) button.Response {
			return button.Messagef("count is %d", c.n.Add(1))
		})),
		button.New("Greet", button.WithPrompts[counter](func(a button.Answers) button.Response {
			return button.Messagef("hello %s", a.Or(0, "stranger"))
		}), "Name?"),
	}
}

func testConfig() manifest.Config {
	cfg := manifest.Default()
	cfg.Server.Listen = "127.0.0.1:0"
	cfg.Server.Title = "Test Panel"
	return cfg
}

func newTestServer(t *testing.T, st *counter, opts ...Option) *Server[counter] {
	t.Helper()
	base := []Option{
		WithConfig(testConfig()),
		WithLogger(zaptest.NewLogger(t)),
		WithAccessLogger(zaptest.NewLogger(t)),
		WithInterrupt(make(chan struct{})),
	}
	s, err := New(testButtons(), st, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func start(ctx context.Context, t *testing.T, s *Server[counter]) (string, <-chan error) {
	t.Helper()
	ln, err := s.Listen()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ln) }()
	return "http://" + ln.Addr().String(), done
}

func click(t *testing.T, base, body string) string {
	t.Helper()
	resp, err := http.Post(base+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out button.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Message
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestServeAndClick(t *testing.T) {
	st := &counter{}
	s := newTestServer(t, st)
	ctx, cancel := context.WithCancel(context.Background())
	base, done := start(ctx, t, s)

	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(page) != string(s.Page()) {
		t.Fatal("GET / did not serve the rendered page")
	}
	if !strings.Contains(string(page), "Test Panel") {
		t.Fatal("title missing from page")
	}

	if got := click(t, base, `{"id":0,"answers":[]}`); got != "count is 1" {
		t.Fatalf("got %q", got)
	}
	if got := click(t, base, `{"id":1,"answers":["Ada"]}`); got != "hello Ada" {
		t.Fatalf("got %q", got)
	}
	if got := click(t, base, `{"id":1,"answers":[null]}`); got != "hello stranger" {
		t.Fatalf("got %q", got)
	}
	if got := click(t, base, `{"id":9,"answers":[]}`); got != "Unknown button id" {
		t.Fatalf("got %q", got)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestShutdownHookRunsOnceWithState(t *testing.T) {
	st := &counter{}
	sig := make(chan struct{})
	var hookCalls atomic.Int32
	var seen atomic.Int64

	s := newTestServer(t, st, WithShutdown(ShutdownConfig[counter]{
		Signal: sig,
		Hook: func(c *counter) {
			hookCalls.Add(1)
			seen.Store(c.n.Load())
		},
	}))
	base, done := start(context.Background(), t, s)

	click(t, base, `{"id":0,"answers":[]}`)
	click(t, base, `{"id":0,"answers":[]}`)

	close(sig)
	if err := waitDone(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
	if hookCalls.Load() != 1 {
		t.Fatalf("hook ran %d times", hookCalls.Load())
	}
	if seen.Load() != 2 {
		t.Fatalf("hook saw count %d, want 2", seen.Load())
	}

	if _, err := http.Get(base + "/"); err == nil {
		t.Fatal("server still accepting after shutdown")
	}
}

func TestInterruptWithoutHook(t *testing.T) {
	interrupt := make(chan struct{})
	s := newTestServer(t, &counter{}, WithInterrupt(interrupt))
	_, done := start(context.Background(), t, s)

	close(interrupt)
	if err := waitDone(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestBindAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	err = Bind(context.Background(), ln.Addr().String(), testButtons(), &counter{},
		WithConfig(testConfig()),
		WithLogger(zaptest.NewLogger(t)),
		WithAccessLogger(zaptest.NewLogger(t)),
		WithInterrupt(make(chan struct{})),
	)
	if err == nil {
		t.Fatal("expected bind error")
	}
	if !strings.Contains(err.Error(), "listen") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServeErrorSkipsHook(t *testing.T) {
	var hookCalls atomic.Int32
	s := newTestServer(t, &counter{}, WithShutdown(ShutdownConfig[counter]{
		Signal: make(chan struct{}),
		Hook:   func(*counter) { hookCalls.Add(1) },
	}))
	ln, err := s.Listen()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ln.Close()

	err = s.Run(context.Background(), ln)
	if err == nil {
		t.Fatal("expected serve error on closed listener")
	}
	if errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("unexpected clean close: %v", err)
	}
	if hookCalls.Load() != 0 {
		t.Fatal("hook ran after serve failure")
	}
}

func TestShutdownHookTypeMismatch(t *testing.T) {
	_, err := New(testButtons(), &counter{},
		WithConfig(testConfig()),
		WithLogger(zaptest.NewLogger(t)),
		WithAccessLogger(zaptest.NewLogger(t)),
		WithShutdown(ShutdownConfig[struct{}]{Hook: func(*struct{}) {}}),
	)
	if err == nil {
		t.Fatal("expected error for hook over a different state type")
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Path = "/"
	_, err := New(testButtons(), &counter{}, WithConfig(cfg), WithLogger(zaptest.NewLogger(t)))
	if err == nil {
		t.Fatal("expected config error")
	}
}
