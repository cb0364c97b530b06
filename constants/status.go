package constants

// ScanStatus is the canonical status for rows in scan_job.
type ScanStatus string

// Stable values (store these exact strings in DB).
const (
	ScanStatusQueued  ScanStatus = "QUEUED"  // accepted, not started
	ScanStatusRunning ScanStatus = "RUNNING" // in progress
	ScanStatusOCROK   ScanStatus = "OCR_OK"  // text recognized
	ScanStatusParsed  ScanStatus = "PARSED"  // contact extracted and stored
	ScanStatusFailed  ScanStatus = "FAILED"  // terminal failure
)

// IsTerminal reports whether no further transition is expected.
func (s ScanStatus) IsTerminal() bool {
	return s == ScanStatusParsed || s == ScanStatusFailed
}
