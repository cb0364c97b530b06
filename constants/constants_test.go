package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	assert.True(t, IsImageExt(".JPG"))
	assert.True(t, IsImageExt("webp"))
	assert.False(t, IsImageExt(".pdf"))
	assert.True(t, IsHEICExt(".HEIC"))
	assert.False(t, IsHEICExt("png"))
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ExportFormat
	}{
		{"csv", ExportCSV},
		{" XLSX ", ExportXLSX},
		{"excel", ExportXLSX},
		{"vCard", ExportVCard},
		{"vcf", ExportVCard},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseExportFormat("pdf")
	assert.Error(t, err)
	assert.Equal(t, "contacts.vcf", ExportVCard.FileName())
	assert.Contains(t, ExportXLSX.ContentType(), "spreadsheetml")
}

func TestScanStatusTerminal(t *testing.T) {
	assert.True(t, ScanStatusParsed.IsTerminal())
	assert.True(t, ScanStatusFailed.IsTerminal())
	assert.False(t, ScanStatusOCROK.IsTerminal())
}
