// Package httpapi is the service's HTTP transport, grounded on the
// prior internal/gateway/server package: an h2c-wrapped *http.Server
// with graceful shutdown. This pattern originally served Connect-RPC over this
// transport; this service has no protobuf toolchain available, so the
// same transport instead carries plain JSON handlers (routes.go).
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"narrator/internal/obslog"
)

// Server wraps an h2c-capable *http.Server so HTTP/2 clients can connect
// over plaintext without TLS termination in front of this process.
type Server struct {
	httpServer *http.Server
}

// New builds a Server listening on addr, serving handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: h2c.NewHandler(handler, &http2.Server{}),
		},
	}
}

// Start blocks serving until Shutdown is called or ListenAndServe fails.
func (s *Server) Start(ctx context.Context) error {
	obslog.FromCtx(ctx).Info().Str("addr", s.httpServer.Addr).Msg("httpapi: starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
