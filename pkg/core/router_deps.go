package core

import (
	"net/http"

	"github.com/joeydtaylor/btnify/pkg/codec"
	"github.com/joeydtaylor/btnify/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/btnify/pkg/transport/httpx"
)

// BuildDeps is everything BuildRouter wires together. Clicker, Page and
// Router are required; the rest are optional.
type BuildDeps struct {
	Router  httpx.Router
	Clicker Clicker
	Page    []byte

	LogMW       *logger.Middleware
	Collect     func(http.Handler) http.Handler
	Metrics     http.Handler
	MetricsPath string

	Codec        codec.Codec
	MaxBodyBytes int64
}
