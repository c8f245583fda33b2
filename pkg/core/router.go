// core/router.go
package core

import (
	"net/http"

	"github.com/joeydtaylor/btnify/pkg/button"
	httpx "github.com/joeydtaylor/btnify/pkg/transport/httpx"
)

// NewHandler is BuildRouter with a fresh chi router, a dispatcher over
// buttons and state, and no logging or metrics. It is the quickest way to
// mount a btnify page inside another mux or an httptest server.
func NewHandler[S any](buttons []button.Button[S], state *S, page []byte) http.Handler {
	d := NewDispatcher(NewRegistry(buttons), state)
	return BuildRouter(BuildDeps{
		Router:  httpx.NewChi(),
		Clicker: d,
		Page:    page,
	})
}
