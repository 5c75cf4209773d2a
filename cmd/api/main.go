package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/internal/server"
	"github.com/taiwoajasa245/quran-reader-api/pkg/config"
	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

func gracefulShutdown(apiServer *http.Server, srv *server.Server, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	srv.StopBackgroundJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Warn("closing state backend", zap.Error(err))
	}

	log.Info("server exiting")
	done <- struct{}{}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.NewServer(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	apiServer := srv.HTTPServer()
	srv.StartBackgroundJobs()

	done := make(chan struct{}, 1)
	go gracefulShutdown(apiServer, srv, log, done)

	log.Info("listening", zap.String("addr", apiServer.Addr), zap.String("backend", cfg.StateBackend))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
