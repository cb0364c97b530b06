package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/constants"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all saved contacts to CSV, vCard or Excel",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: csv, vcf or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (defaults to contacts.<format>, - for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := constants.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	file, err := a.Exporter.Export(ctx, format)
	if err != nil {
		return err
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(file.Data)
		return err
	}
	out := exportOut
	if out == "" {
		out = file.FileName
	}
	if err := os.WriteFile(out, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", file.Rows, out)
	return nil
}
