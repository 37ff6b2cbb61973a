package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for the relay path: a single
// request may spend up to 10s authenticating plus 30s on the upstream call.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      50 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
