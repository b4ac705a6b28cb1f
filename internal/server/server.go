package server

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hsn0918/r3m/pkg/config"
)

// NewHTTPServer assembles the route table and wraps it for h2c so both
// HTTP/1.1 and cleartext HTTP/2 clients are served.
func NewHTTPServer(h *Handler, cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /process", h.Process)
	mux.HandleFunc("POST /batch", h.Batch)
	mux.HandleFunc("POST /chunk", h.Chunk)
	mux.HandleFunc("GET /metrics", h.Metrics)
	mux.HandleFunc("GET /job/{id}", h.JobStatus)
	mux.HandleFunc("GET /info", h.Info)

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
