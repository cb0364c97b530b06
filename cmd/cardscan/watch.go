package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/internal/async"
	"github.com/joseph-ayodele/card-scanner/internal/ingest"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Watch drop folders and scan new card images as they appear",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

var (
	watchInitialScan bool
	watchDebounce    time.Duration
)

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "Also scan images already in the folders")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Wait this long after the last write before scanning")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	qcfg := a.Config.Queue
	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(qcfg.Workers),
		async.WithQueueSize(qcfg.Size),
		async.WithProcessTimeout(qcfg.ProcessTimeout),
		async.WithResultHook(func(r async.Result) {
			if r.Err != nil {
				fmt.Fprintf(out, "failed  %s: %v\n", r.Job.FileID, r.Err)
				return
			}
			fmt.Fprintf(out, "saved   %s %q <%s>\n", r.Contact.ID, r.Contact.Name, r.Contact.Email)
		}),
	)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(sctx)
	}()

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitialScan,
		Debounce:    watchDebounce,
		SkipHidden:  true,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("watch.start", "roots", args)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Error("watch.error", "error", err)
		case path, ok := <-paths:
			if !ok {
				return nil
			}
			res, err := a.Ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Warn("watch.ingest.failed", "path", path, "error", err)
				continue
			}
			if res.Deduplicated {
				logger.Debug("watch.ingest.duplicate", "path", path, "file_id", res.FileID)
				continue
			}
			fileID, err := parseFileID(res.FileID)
			if err != nil {
				logger.Error("watch.ingest.failed", "path", path, "error", err)
				continue
			}
			job := async.Job{FileID: fileID, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
			if err := queue.Enqueue(ctx, job); err != nil {
				logger.Warn("watch.enqueue.failed", "path", path, "error", err)
			}
		}
	}
}
