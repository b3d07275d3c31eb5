package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"boundedq/internal/logger"
	"boundedq/internal/queue"
	"boundedq/internal/queueapi"
	"boundedq/internal/settings"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	manager := queue.NewQueueManager(cfg.Queue.Capacity, queue.WithReporter(logger.Reporter(log)))
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: queueapi.RegisterRoutes(manager, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("queue service listening", zap.String("addr", cfg.Server.Addr), zap.Int("capacity", manager.Capacity()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("signal received: shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func parseConfig(args []string) (settings.Config, error) {
	fs := flag.NewFlagSet("queue-service", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	addr := fs.String("addr", "", "address to listen on (overrides config)")
	capacity := fs.Int("capacity", 0, "capacity of each queue (overrides config)")
	level := fs.String("log-level", "", "log level (overrides config)")
	if err := fs.Parse(args); err != nil {
		return settings.Config{}, err
	}

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return settings.Config{}, err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *capacity != 0 {
		cfg.Queue.Capacity = *capacity
	}
	if *level != "" {
		cfg.Logger.LogLevel = *level
	}
	return cfg, cfg.Validate()
}
