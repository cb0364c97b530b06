package main

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Scan every card image in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var (
	ingestWorkers    int
	ingestSkipHidden bool
	ingestForce      bool
)

func init() {
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", 4, "Number of images processed in parallel")
	ingestCmd.Flags().BoolVar(&ingestSkipHidden, "skip-hidden", true, "Skip hidden files and directories")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "Rescan images that were already ingested")
	rootCmd.AddCommand(ingestCmd)
}

func parseFileID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid file id %q: %w", s, err)
	}
	return id, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	results, stats, err := a.Ingestor.IngestDirectory(ctx, args[0], ingestSkipHidden)
	if err != nil {
		return err
	}

	var processed, failures atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ingestWorkers, 1))
	for _, res := range results {
		if res.Err != "" || (res.Deduplicated && !ingestForce) {
			continue
		}
		fileID, err := parseFileID(res.FileID)
		if err != nil {
			logger.Error("skipping file", "path", res.SourcePath, "error", err)
			failures.Add(1)
			continue
		}
		path := res.SourcePath
		g.Go(func() error {
			if _, _, err := a.Processor.ProcessFile(gctx, fileID); err != nil {
				// one bad card does not stop the batch
				logger.Error("failed to process file", "path", path, "file_id", fileID, "error", err)
				failures.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ingest complete!\n")
	fmt.Fprintf(out, "- Files scanned: %d\n", stats.Scanned)
	fmt.Fprintf(out, "- Images matched: %d\n", stats.Matched)
	fmt.Fprintf(out, "- Deduplicated: %d\n", stats.Deduplicated)
	fmt.Fprintf(out, "- Contacts saved: %d\n", processed.Load())
	fmt.Fprintf(out, "- Failures: %d\n", int(stats.Failed)+int(failures.Load()))
	return nil
}
