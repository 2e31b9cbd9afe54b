package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kbchat/internal/config"
	"kbchat/internal/router"
)

func main() {
	log.Println("🚀 Starting dev proxy...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Resolve Proxy Routes ────
	routes, err := cfg.ProxyRoutes()
	if err != nil {
		log.Fatalf("✗ Proxy configuration invalid: %v", err)
	}
	for _, route := range routes {
		log.Printf("✓ %s/* -> %s (rewrite=%t, change_origin=%t)", route.Prefix, route.Target, route.Rewrite, route.ChangeOrigin)
	}

	// ──── Step 3: Build Router ────
	r, stopRouter, err := router.New(routes, router.Options{
		StaticDir: cfg.StaticDir,
		RateLimit: cfg.ProxyRateLimit,
	})
	if err != nil {
		log.Fatalf("✗ Router setup failed: %v", err)
	}
	if cfg.StaticDir != "" {
		log.Printf("✓ Serving static files from %s", cfg.StaticDir)
	}
	if cfg.ProxyRateLimit > 0 {
		log.Printf("✓ Rate limit: %d requests/min per client", cfg.ProxyRateLimit)
	}

	// Uploads and chat answers can take a while upstream, so the write
	// timeout is well above the client's 30s budget.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ProxyPort),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		stopRouter()
	}()

	log.Printf("✓ Dev proxy ready on http://localhost:%s", cfg.ProxyPort)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
