package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image|text-file>",
	Short: "Scan a card image or text file and save the contact",
	Long:  "Run OCR on a card image (jpg, png, webp, bmp, tiff, heic) and save the extracted contact. Text files, or any file with --text, skip OCR.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var (
	scanAsText bool
	scanNotes  string
)

func init() {
	scanCmd.Flags().BoolVar(&scanAsText, "text", false, "Treat the input as OCR text instead of an image")
	scanCmd.Flags().StringVar(&scanNotes, "notes", "", "Notes to keep with the contact")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asText := scanAsText || !constants.IsImageExt(filepath.Ext(args[0]))

	a, err := openApp(ctx, !asText)
	if err != nil {
		return err
	}
	defer a.Close()

	var c *entity.Contact
	if asText {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		if _, c, err = a.Processor.ProcessText(ctx, text); err != nil {
			return err
		}
	} else {
		res, err := a.Ingestor.IngestPath(ctx, args[0])
		if err != nil {
			return err
		}
		fileID, err := parseFileID(res.FileID)
		if err != nil {
			return err
		}
		if _, c, err = a.Processor.ProcessFile(ctx, fileID); err != nil {
			return err
		}
	}

	if scanNotes != "" {
		if c, err = a.Contacts.Update(ctx, c.ID, entity.ContactPatch{Notes: &scanNotes}); err != nil {
			return fmt.Errorf("failed to save notes: %w", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
