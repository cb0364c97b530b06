package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

var sample = contact.Record{
	Name:    "John Doe",
	Company: `ACME "Trading" Sdn Bhd`,
	Title:   "Sales Manager",
	Phone:   "+60 12-345 6789",
	Email:   "john@acme.com",
	Website: "www.acme.com",
	Address: "No. 1, Jalan Ampang; Level 3",
	Notes:   "met at expo\nfollow up",
	Raw:     "JOHN DOE\n...",
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []contact.Record{sample, {Name: "Jane"}}))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4, "notes newline stays inside its quoted field")
	assert.Equal(t, "name,company,title,phone,email,website,address,notes", lines[0])
	assert.Equal(t, `"John Doe","ACME ""Trading"" Sdn Bhd","Sales Manager","+60 12-345 6789","john@acme.com","www.acme.com","No. 1, Jalan Ampang; Level 3","met at expo`, lines[1])
	assert.Equal(t, `follow up"`, lines[2])
	assert.Equal(t, `"Jane","","","","","","",""`, lines[3])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "name,company,title,phone,email,website,address,notes", buf.String())
}

func TestVCard(t *testing.T) {
	got := VCard(sample)
	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:John Doe",
		`ORG:ACME "Trading" Sdn Bhd`,
		"TITLE:Sales Manager",
		"TEL;TYPE=CELL:+60 12-345 6789",
		"EMAIL;TYPE=INTERNET:john@acme.com",
		"URL:www.acme.com",
		`ADR;TYPE=WORK:;;No. 1\, Jalan Ampang\; Level 3;;;;`,
		`NOTE:met at expo\nfollow up`,
		"END:VCARD",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestVCard_OnlyFN(t *testing.T) {
	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nFN:\nEND:VCARD", VCard(contact.Record{}))
}

func TestWriteVCard_JoinsBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVCard(&buf, []contact.Record{{Name: "A"}, {Name: `B\C`}}))
	assert.Equal(t, "BEGIN:VCARD\nVERSION:3.0\nFN:A\nEND:VCARD\nBEGIN:VCARD\nVERSION:3.0\nFN:B\\\\C\nEND:VCARD", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX([]contact.Record{sample, {Name: "Jane"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "company", "title", "phone", "email", "website", "address", "notes", "raw"}, rows[0])
	assert.Equal(t, "John Doe", rows[1][0])
	assert.Equal(t, sample.Company, rows[1][1])
	assert.Equal(t, sample.Raw, rows[1][8])
	assert.Equal(t, "Jane", rows[2][0])
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	repo := repository.NewContactRepository(db, nil)
	_, err = repo.Create(ctx, contact.Record{Name: "Older"}, nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, contact.Record{Name: "Newer"}, nil)
	require.NoError(t, err)

	svc := NewService(repo, nil)

	out, err := svc.Export(ctx, constants.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "contacts.csv", out.FileName)
	assert.Equal(t, "text/csv;charset=utf-8", out.ContentType)
	assert.Equal(t, 2, out.Rows)
	lines := strings.Split(string(out.Data), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"Newer"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Older"`))

	vcf, err := svc.Export(ctx, constants.ExportVCard)
	require.NoError(t, err)
	assert.Equal(t, "contacts.vcf", vcf.FileName)
	assert.Equal(t, 2, strings.Count(string(vcf.Data), "BEGIN:VCARD"))

	xl, err := svc.Export(ctx, constants.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, "contacts.xlsx", xl.FileName)
	assert.NotEmpty(t, xl.Data)

	_, err = svc.Export(ctx, constants.ExportFormat("pdf"))
	assert.Error(t, err)
}
