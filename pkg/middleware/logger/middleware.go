package logger

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware writes one access-log line per request.
type Middleware struct {
	log       *zap.Logger
	bodyPaths map[string]struct{}
}

// New returns an access-log middleware. Request bodies are logged only for
// the given paths, and only when they are small JSON documents.
func New(l *zap.Logger, bodyPaths ...string) *Middleware {
	if l == nil {
		l = zap.NewNop()
	}
	m := &Middleware{log: l, bodyPaths: map[string]struct{}{}}
	for _, p := range bodyPaths {
		if p = strings.TrimSpace(p); p != "" {
			m.bodyPaths[p] = struct{}{}
		}
	}
	return m
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

		// Read and restore the body so downstream can consume it.
		var body []byte
		if len(m.bodyPaths) > 0 && r.Body != nil {
			if b, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1)); err == nil {
				body = b
			}
			r.Body = struct {
				io.Reader
				io.Closer
			}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		start := time.Now()
		defer func() {
			fields := []zap.Field{
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.String("httpScheme", scheme),
				zap.String("httpProto", r.Proto),
				zap.String("httpMethod", r.Method),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("uri", r.URL.Path),
				zap.Duration("lat", time.Since(start)),
				zap.Int("responseSize", ww.BytesWritten()),
				zap.Int("status", ww.Status()),
			}
			// Redact by default; allowlist small JSON bodies only.
			if m.shouldLogBody(r, body) {
				fields = append(fields, zap.ByteString("requestData", body))
			}
			m.log.Info("http request", fields...)
		}()

		next.ServeHTTP(ww, r)
	})
}
