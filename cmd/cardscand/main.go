// Command cardscand serves the contact service over gRPC and scans card
// images dropped into the configured watch folders.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/joseph-ayodele/card-scanner/internal/app"
	"github.com/joseph-ayodele/card-scanner/internal/async"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/ingest"
	"github.com/joseph-ayodele/card-scanner/internal/server"

	// registers the in-process engine when built with -tags gosseract
	_ "github.com/joseph-ayodele/card-scanner/internal/ocr/tesseract"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("cardscand exited", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("LOG_LEVEL") == "debug" {
		opts.Level = slog.LevelDebug
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	a, err := app.New(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := server.PingDB(ctx, a.DB, logger, 5*time.Second); err != nil {
		return err
	}

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(sctx)
	}()

	if roots := cfg.Server.WatchDirs; len(roots) > 0 {
		if err := startWatch(ctx, a, queue, roots, logger); err != nil {
			return err
		}
	}

	svc := server.NewContactService(server.ContactServiceDeps{
		Extractor:      a.Extractor,
		Contacts:       a.Contacts,
		Processor:      a.Processor,
		Ingestor:       a.Ingestor,
		Exporter:       a.Exporter,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}, logger)
	grpcServer, hs := server.NewGRPCServer(svc, cfg.Server.MaxUploadBytes+(1<<20), logger)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gRPC serving", "addr", lis.Addr().String())
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	logger.Info("shutting down")
	hs.Shutdown()
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(15 * time.Second):
		grpcServer.Stop()
	}
	return nil
}

func startWatch(ctx context.Context, a *app.App, queue async.Queue, roots []string, logger *slog.Logger) error {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       roots,
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
		SkipHidden:  true,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case err, ok := <-errs:
				if !ok {
					return
				}
				logger.Error("watch.error", "error", err)
			case path, ok := <-paths:
				if !ok {
					return
				}
				res, err := a.Ingestor.IngestPath(ctx, path)
				if err != nil {
					logger.Warn("watch.ingest.failed", "path", path, "error", err)
					continue
				}
				if res.Deduplicated {
					continue
				}
				fileID, err := uuid.Parse(res.FileID)
				if err != nil {
					continue
				}
				job := async.Job{FileID: fileID, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
				if err := queue.Enqueue(ctx, job); err != nil {
					logger.Warn("watch.enqueue.failed", "path", path, "error", err)
				}
			}
		}
	}()
	logger.Info("watching drop folders", "roots", roots)
	return nil
}
