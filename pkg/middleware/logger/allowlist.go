package logger

import (
	"net/http"
	"strings"
)

const maxLoggedBody = 1 << 16 // 64 KiB

// Only log small JSON request bodies on allowlisted routes.
func (m *Middleware) shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > maxLoggedBody {
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	_, ok := m.bodyPaths[r.URL.Path]
	return ok
}
