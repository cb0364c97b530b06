package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/app"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/export"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract a contact from card text without saving it",
	Long:  "Read OCR text from a file (or stdin when no file or \"-\" is given) and print the extracted contact.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

var parseFormat string

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "Output format: json, csv or vcf")
	rootCmd.AddCommand(parseCmd)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	ex, err := app.NewExtractor(common.LoadConfig().Extract)
	if err != nil {
		return err
	}
	rec := ex.Extract(text)
	return printRecords(cmd.OutOrStdout(), parseFormat, []contact.Record{rec})
}

// printRecords writes records as indented JSON or one of the export formats.
func printRecords(w io.Writer, format string, recs []contact.Record) error {
	if format == "json" {
		var v any = recs
		if len(recs) == 1 {
			v = recs[0]
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	f, err := constants.ParseExportFormat(format)
	if err != nil {
		return err
	}
	if f == constants.ExportXLSX {
		return fmt.Errorf("xlsx output needs a file, use the export command")
	}
	data, err := export.Render(recs, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
