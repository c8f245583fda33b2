package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler { return promhttp.Handler() }

// Collect records request counts and latency for every non-skipped path.
func Collect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			if isSkipPath(r) {
				return
			}
			code := strconv.Itoa(ww.Status())
			// path only; btnify serves a single route so cardinality stays small
			totalHttpRequestsToUri.WithLabelValues(code, r.URL.Path, r.Method).Inc()
			totalHttpRequests.WithLabelValues(code, r.Method).Inc()
			responseTime.Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}

// ObserveClick is a core.Observer that counts dispatch outcomes.
func ObserveClick(_ int, kind button.Kind, outcome core.Outcome, elapsed time.Duration) {
	clicks.WithLabelValues(kind.String(), string(outcome)).Inc()
	clickDuration.Observe(elapsed.Seconds())
}

var _ core.Observer = ObserveClick
