package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/card-scanner/internal/contact"
)

// SheetName is the worksheet holding exported contacts.
const SheetName = "Contacts"

// xlsxColumns extends the tabular columns with the raw OCR text.
var xlsxColumns = append(append([]string{}, contact.Columns...), "raw")

// WriteXLSX returns a workbook with a header row and one row per record.
func WriteXLSX(recs []contact.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet so the workbook holds only Contacts
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	header := make([]any, len(xlsxColumns))
	for i, h := range xlsxColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range recs {
		row := make([]any, len(xlsxColumns))
		for j, c := range xlsxColumns {
			row[j] = r.Field(c)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "C", 24) // name, company, title
	_ = f.SetColWidth(SheetName, "D", "D", 16) // phone
	_ = f.SetColWidth(SheetName, "E", "F", 30) // email, website
	_ = f.SetColWidth(SheetName, "G", "H", 48) // address, notes
	_ = f.SetColWidth(SheetName, "I", "I", 60) // raw

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
