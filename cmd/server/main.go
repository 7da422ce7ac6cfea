package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/stagedoc/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info(
		"stagedoc starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg)
	if err != nil {
		log.Fatal("server init failed:", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return err
		}
		return srv.Serve()
	})

	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(cfg.ShutdownTimeoutDuration())
	})

	if err := g.Wait(); err != nil {
		logger.Error("stagedoc stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("stagedoc stopped")
}
