package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
)

// BuildRouter serves the page on GET / and dispatches clicks on POST /.
func BuildRouter(d BuildDeps) http.Handler {
	if d.Codec == nil {
		d.Codec = codecDefault
	}

	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware)
	}
	if d.Collect != nil {
		r.Use(d.Collect)
	}

	if d.Metrics != nil && d.MetricsPath != "" {
		r.Get(d.MetricsPath, d.Metrics)
	}
	r.Get("/", pageHandler(d.Page))
	r.Post("/", clickHandler(d))

	return r.Mux()
}

// pageHandler writes the same byte slice for every request.
func pageHandler(page []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

func clickHandler(d BuildDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r, d.MaxBodyBytes)
		if err != nil {
			http.Error(w, err.Error(), statusForBodyErr(err))
			return
		}

		var req ClickRequest
		if err := d.Codec.Unmarshal(body, &req); err != nil {
			http.Error(w, "malformed click request: "+err.Error(), http.StatusBadRequest)
			return
		}

		out, err := d.Codec.Marshal(d.Clicker.Dispatch(req.ID, req.Answers))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, d.Codec.ContentType(), out, http.StatusOK)
	}
}
