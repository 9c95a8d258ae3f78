package transport

import (
	"context"
	"net/http"
	"time"
)

// NewServer builds an HTTP server serving the hub at every path (each
// match's namespace is disambiguated by its trailing path segment).
func NewServer(addr string, hub *Hub) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           hub,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Shutdown gracefully stops srv, bounded by ctx.
func Shutdown(ctx context.Context, srv *http.Server) error {
	return srv.Shutdown(ctx)
}
