package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ai-agent-platform/internal/bootstrap"
	"ai-agent-platform/internal/config"
	"ai-agent-platform/internal/server"
	"ai-agent-platform/internal/tracer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start profile service: %v", err)
	}
	defer container.Close()
	sysLogger := container.Logger

	// 3. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, sysLogger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		sysLogger.Error("Main", "Consumer service failed to start", map[string]interface{}{"error": err.Error()})
	}
	go container.ProfileManager.RunReaper(ctx, cfg.Profile.ReapInterval, cfg.Profile.StaleAfter)

	// 5. Run Server
	srv := server.New(cfg, container)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			sysLogger.Error("Main", "Server stopped", map[string]interface{}{"error": err.Error()})
		}
	case <-ctx.Done():
		sysLogger.Info("Main", "Shutdown signal received", nil)
	}

	// 6. Graceful shutdown: stop taking requests, then flush sessions.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		sysLogger.Warn("Main", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := container.ProfileManager.ShutdownFlush(shutdownCtx); err != nil {
		sysLogger.Error("Main", "Some sessions were not flushed", map[string]interface{}{"error": err.Error()})
	}
}
