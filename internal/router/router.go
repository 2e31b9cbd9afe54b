package router

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"kbchat/internal/middleware"
	"kbchat/internal/proxy"
)

type Options struct {
	// StaticDir, when set, is served at the root (the built frontend).
	StaticDir string
	// RateLimit caps proxied requests per client per minute; 0 disables it.
	RateLimit int
}

// New mounts one reverse proxy per route plus the optional static site. The
// returned stop func releases background work such as the rate limiter's
// sweeper; call it after the server has shut down.
func New(routes []proxy.Route, opts Options) (http.Handler, func(), error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	stop := func() {}
	var limit func(http.Handler) http.Handler
	if opts.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(opts.RateLimit, time.Minute)
		limit = limiter.Middleware
		stop = limiter.Stop
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	for _, route := range routes {
		h, err := proxy.New(route)
		if err != nil {
			stop()
			return nil, nil, err
		}
		prefix := strings.TrimRight(route.Prefix, "/")
		if prefix == "" {
			stop()
			return nil, nil, fmt.Errorf("route prefix %q would shadow every path", route.Prefix)
		}
		if limit != nil {
			h = limit(h)
		}
		r.Handle(prefix, h)
		r.Handle(prefix+"/*", h)
	}

	if staticDir := opts.StaticDir; staticDir != "" {
		info, err := os.Stat(staticDir)
		if err != nil {
			stop()
			return nil, nil, fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			stop()
			return nil, nil, fmt.Errorf("static dir %s is not a directory", staticDir)
		}
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r, stop, nil
}
