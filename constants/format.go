package constants

import (
	"fmt"
	"strings"
)

// ExportFormat names a contact export encoding.
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportXLSX  ExportFormat = "xlsx"
	ExportVCard ExportFormat = "vcf"
)

// ParseExportFormat accepts a format name or common alias ("vcard", "excel").
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return ExportCSV, nil
	case "xlsx", "excel":
		return ExportXLSX, nil
	case "vcf", "vcard":
		return ExportVCard, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv;charset=utf-8"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportVCard:
		return "text/vcard;charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// FileName is the default download name for the format.
func (f ExportFormat) FileName() string {
	return "contacts." + string(f)
}
