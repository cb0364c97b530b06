package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/internal/server"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the contact store is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", time.Second, "Ping timeout")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := server.PingDB(ctx, a.DB, logger, healthTimeout); err != nil {
		return fmt.Errorf("DB health: FAIL (%w)", err)
	}
	n, err := a.Contacts.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting contacts: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "DB health: OK (%s)\n", a.DB.Dialect())
	fmt.Fprintf(out, "contacts: %d\n", n)
	fmt.Fprintf(out, "lexicon version: %d\n", a.Extractor.LexiconVersion())
	return nil
}
