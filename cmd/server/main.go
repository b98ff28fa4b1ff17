package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"campus/courses/internal/config"
	"campus/courses/internal/db"
	internalhttp "campus/courses/internal/http"
	"campus/courses/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()

	link, err := repository.ResolveProfileLink(ctx, pool, cfg.ProfileLink)
	if errors.Is(err, repository.ErrInvalidProfileLink) {
		log.Fatalf("config: %v", err)
	}
	if err != nil {
		log.Printf("profile link probe failed, assuming shared ids: %v", err)
	}
	log.Printf("profile link mode: %s", link)

	if err := os.MkdirAll(filepath.Join(cfg.UploadsDir, "photos"), 0o755); err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	store := repository.NewStore(pool, link)
	server := internalhttp.NewServer(cfg, store)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("courses api listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
