// Package main is the cardscan command line: extract contacts from business
// card text and images, manage the saved contacts and serve MCP tools.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/internal/app"
	"github.com/joseph-ayodele/card-scanner/internal/common"
)

var (
	verbose bool
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cardscan",
	Short: "Business card scanner",
	Long:  "cardscan turns business card photos or OCR text into contact records and keeps them in a local contact list.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(os.Stderr, verbose)
		slog.SetDefault(logger)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openApp loads the environment config and wires the store and pipeline.
func openApp(ctx context.Context, withOCR bool) (*app.App, error) {
	return app.New(ctx, common.LoadConfig(), withOCR, logger)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
