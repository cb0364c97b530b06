package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/card-scanner/constants"
	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/extract"
	"github.com/joseph-ayodele/card-scanner/internal/ocr"
	"github.com/joseph-ayodele/card-scanner/internal/repository"
)

const cardText = `JOHN DOE
Sales Manager
ACME TRADING SDN BHD
+60 12-345 6789
john.doe@acme.com.my
www.acme.com.my
No. 1, Jalan Ampang
50450 Kuala Lumpur`

type fakeExtractor struct {
	text    string
	err     error
	gotPath string
	gotHash string
	gotScan string
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	f.gotPath = path
	f.gotHash = ocr.ContentHashFromContext(ctx)
	f.gotScan = common.ScanIDFromContext(ctx)
	if f.err != nil {
		return extract.TextExtractionResult{}, f.err
	}
	return extract.TextExtractionResult{Text: f.text, Method: "fake", Confidence: 0.9}, nil
}

type fixture struct {
	files    repository.CardFileRepository
	jobs     repository.ScanJobRepository
	contacts repository.ContactRepository
	tx       *fakeExtractor
	proc     *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	f := &fixture{
		files:    repository.NewCardFileRepository(db, nil),
		jobs:     repository.NewScanJobRepository(db, nil),
		contacts: repository.NewContactRepository(db, nil),
		tx:       &fakeExtractor{text: cardText},
	}
	ex, err := contact.NewExtractor()
	require.NoError(t, err)
	f.proc = NewProcessor(nil, f.jobs,
		NewOCRStage(f.files, f.jobs, f.tx, nil),
		NewParseStage(nil, f.jobs, f.contacts, ex))
	return f
}

func (f *fixture) addFile(t *testing.T, ext string) uuid.UUID {
	t.Helper()
	row, err := f.files.Create(context.Background(), "/cards/a."+ext, "a."+ext, ext, 10, []byte{0xab, 0xcd}, time.Now())
	require.NoError(t, err)
	return row.ID
}

func TestProcessFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fileID := f.addFile(t, "png")

	jobID, c, err := f.proc.ProcessFile(ctx, fileID)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "/cards/a.png", f.tx.gotPath)
	assert.Equal(t, "abcd", f.tx.gotHash)
	assert.Equal(t, "JOHN DOE", c.Name)
	assert.Equal(t, "ACME TRADING SDN BHD", c.Company)
	assert.Equal(t, "john.doe@acme.com.my", c.Email)
	assert.Equal(t, cardText, c.Raw)
	require.NotNil(t, c.ScanID)
	assert.Equal(t, jobID, *c.ScanID)
	assert.Equal(t, jobID.String(), f.tx.gotScan)

	job, err := f.jobs.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, constants.ScanStatusParsed, job.Status)
	assert.Equal(t, MethodOCR, job.Method)
	require.NotNil(t, job.ContactID)
	assert.Equal(t, c.ID, *job.ContactID)
	assert.Equal(t, 1, job.LexiconVersion)
}

func TestProcessFile_OCRFailureMarksJobFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tx.err = errors.New("tesseract exploded")
	fileID := f.addFile(t, "jpg")

	jobID, c, err := f.proc.ProcessFile(ctx, fileID)
	require.Error(t, err)
	assert.Nil(t, c)

	job, err := f.jobs.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, constants.ScanStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "tesseract exploded")

	n, err := f.contacts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessFile_Errors(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.proc.ProcessFile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, _, err = f.proc.ProcessFile(context.Background(), f.addFile(t, "pdf"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestProcessText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jobID, c, err := f.proc.ProcessText(ctx, "Jane Smith\njane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", c.Name)
	assert.Equal(t, "jane@example.com", c.Email)

	job, err := f.jobs.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Nil(t, job.FileID)
	assert.Equal(t, MethodText, job.Method)
	assert.Equal(t, constants.ScanStatusParsed, job.Status)
}

func TestProcessText_Blank(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.proc.ProcessText(context.Background(), " \n\t")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestParseStage_RejectsUnreadyJob(t *testing.T) {
	f := newFixture(t)
	job, err := f.jobs.Start(context.Background(), nil, MethodText)
	require.NoError(t, err)

	_, err = f.proc.Parse.Run(context.Background(), job.ID)
	assert.ErrorContains(t, err, "not ready")
}
