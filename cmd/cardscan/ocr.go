package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>",
	Short: "Run OCR on a card image and print the text without extracting a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Ingestor.IngestPath(ctx, args[0])
	if err != nil {
		return err
	}
	fileID, err := parseFileID(res.FileID)
	if err != nil {
		return err
	}

	start := time.Now()
	jobID, tr, err := a.Processor.OCR.Run(ctx, fileID)
	if err != nil {
		logger.Error("text extraction failed", "job_id", jobID, "error", err)
		return err
	}
	logger.Info("text extraction OK",
		"job_id", jobID,
		"method", tr.Method,
		"bytes", len(tr.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# method=%s confidence=%.2f\n", tr.Method, tr.Confidence)
	for _, w := range tr.Warnings {
		fmt.Fprintf(out, "# warning: %s\n", w)
	}
	fmt.Fprintln(out, tr.Text)
	return nil
}
