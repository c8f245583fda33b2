package core

import (
	"errors"
	"io"
	"net/http"

	"github.com/joeydtaylor/btnify/pkg/codec"
)

var codecDefault = codec.JSONStrict

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	return io.ReadAll(r.Body)
}

func statusForBodyErr(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, contentType string, payload []byte, status int) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}
