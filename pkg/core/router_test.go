package core

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/joeydtaylor/btnify/pkg/button"
	httpx "github.com/joeydtaylor/btnify/pkg/transport/httpx"
)

var testPage = []byte("<!DOCTYPE html><title>t</title>")

func postClick(t *testing.T, srv *httptest.Server, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, string(b)
	}
	var out button.Response
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode response %q: %v", b, err)
	}
	return resp.StatusCode, out.Message
}

func TestEndToEndBasic(t *testing.T) {
	srv := httptest.NewServer(NewHandler([]button.Button[appState]{
		button.New("Ping", button.Basic[appState](func() button.Response { return button.Message("pong") })),
	}, &appState{}, testPage))
	defer srv.Close()

	status, msg := postClick(t, srv, `{"id":0,"answers":[]}`)
	if status != http.StatusOK || msg != "pong" {
		t.Fatalf("got %d %q", status, msg)
	}

	status, msg = postClick(t, srv, `{"id":5,"answers":[]}`)
	if status != http.StatusOK || msg != MsgUnknownID {
		t.Fatalf("unknown id: got %d %q", status, msg)
	}
}

func TestEndToEndPrompts(t *testing.T) {
	var (
		mu    sync.Mutex
		got   button.Answers
		calls int
	)
	srv := httptest.NewServer(NewHandler([]button.Button[appState]{
		button.New("Greet", button.WithPrompts[appState](func(a button.Answers) button.Response {
			mu.Lock()
			defer mu.Unlock()
			calls++
			got = a
			return button.Messagef("hi %s", a.Or(0, "?"))
		}), "name?"),
	}, &appState{}, testPage))
	defer srv.Close()

	if _, msg := postClick(t, srv, `{"id":0,"answers":["Ada"]}`); msg != "hi Ada" {
		t.Fatalf("got %q", msg)
	}
	mu.Lock()
	if len(got) != 1 || *got[0] != "Ada" {
		t.Fatalf("handler received %v", got)
	}
	mu.Unlock()

	if _, msg := postClick(t, srv, `{"id":0,"answers":[null]}`); msg != "hi ?" {
		t.Fatalf("cancelled prompt: got %q", msg)
	}

	status, msg := postClick(t, srv, `{"id":0,"answers":[]}`)
	if status != http.StatusOK || !strings.HasPrefix(msg, MsgArityMismatch) {
		t.Fatalf("arity: got %d %q", status, msg)
	}
	status, msg = postClick(t, srv, `{"id":0}`)
	if status != http.StatusOK || !strings.HasPrefix(msg, MsgArityMismatch) {
		t.Fatalf("missing answers: got %d %q", status, msg)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("handler calls: got %d, want 2", calls)
	}
}

func TestGetServesPageVerbatim(t *testing.T) {
	srv := httptest.NewServer(NewHandler[appState](nil, &appState{}, testPage))
	defer srv.Close()

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("content type %q", ct)
		}
		if !bytes.Equal(b, testPage) {
			t.Fatalf("page body %q", b)
		}
	}
}

func TestMalformedClickIsBadRequest(t *testing.T) {
	srv := httptest.NewServer(NewHandler[appState](nil, &appState{}, testPage))
	defer srv.Close()

	for _, body := range []string{`{`, `{"id":"x"}`, `{"id":0,"bogus":1}`, `{"id":0}{"id":1}`} {
		status, _ := postClick(t, srv, body)
		if status != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", body, status)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	d := NewDispatcher(NewRegistry[appState](nil), &appState{})
	h := BuildRouter(BuildDeps{Router: httpx.NewChi(), Clicker: d, Page: testPage, MaxBodyBytes: 16})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":0,"answers":["`+strings.Repeat("a", 64)+`"]}`))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d, want 413", rec.Code)
	}
}

func TestHeartbeatAndMetricsRoute(t *testing.T) {
	d := NewDispatcher(NewRegistry[appState](nil), &appState{})
	metricsHit := false
	h := BuildRouter(BuildDeps{
		Router:      httpx.NewChi(),
		Clicker:     d,
		Page:        testPage,
		Metrics:     http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { metricsHit = true }),
		MetricsPath: "/metrics",
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("heartbeat status %d", rec.Code)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !metricsHit {
		t.Fatalf("metrics route not mounted")
	}
}
