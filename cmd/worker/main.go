package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"boundedq/internal/logger"
	"boundedq/internal/rwclient"
	"boundedq/internal/settings"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := cfg.Worker
	log.Info("worker start",
		zap.String("queueURL", w.QueueURL),
		zap.String("queue", w.QueueName),
		zap.String("in", w.InPath),
		zap.String("out", w.OutPath),
	)
	client := rwclient.New(w.QueueURL, w.QueueName)
	client.Backoff = w.PollInterval

	n, err := runPipeline(ctx, client, w.InPath, w.OutPath)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("worker finished", zap.Int("bytes", n))
}

// runPipeline copies inPath to outPath through the queue: one goroutine
// produces every byte, the other consumes until the producer is done and
// the queue is drained. It returns the number of bytes written.
func runPipeline(ctx context.Context, client *rwclient.Client, inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "open input")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, pkgerrors.Wrap(err, "create output dir")
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "create output")
	}
	defer out.Close()

	var (
		produced atomic.Bool
		written  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := client.Produce(gctx, in)
		produced.Store(true)
		return pkgerrors.Wrap(err, "producer")
	})
	g.Go(func() error {
		n, err := client.Consume(gctx, out, produced.Load)
		written = n
		return pkgerrors.Wrap(err, "consumer")
	})
	if err := g.Wait(); err != nil {
		return written, err
	}
	return written, nil
}

func parseConfig(args []string) (settings.Config, error) {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	queueURL := fs.String("queue-url", "", "queue service base URL (overrides config)")
	queueName := fs.String("queue", "", "queue name (overrides config)")
	inPath := fs.String("in", "", "input file path (overrides config)")
	outPath := fs.String("out", "", "output file path (overrides config)")
	poll := fs.Duration("poll-interval", 0, "wait between retries on a full or empty queue (overrides config)")
	if err := fs.Parse(args); err != nil {
		return settings.Config{}, err
	}

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return settings.Config{}, err
	}
	w := &cfg.Worker
	if *queueURL != "" {
		w.QueueURL = *queueURL
	}
	if *queueName != "" {
		w.QueueName = *queueName
	}
	if *inPath != "" {
		w.InPath = *inPath
	}
	if *outPath != "" {
		w.OutPath = *outPath
	}
	if *poll != 0 {
		w.PollInterval = *poll
	}
	return cfg, cfg.Validate()
}
