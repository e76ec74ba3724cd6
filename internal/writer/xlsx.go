package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/docneat/statement-converter/internal/interpret"
	"github.com/docneat/statement-converter/internal/models"
)

const sheetName = "Transactions"

// XLSXWriter writes the transaction table as a spreadsheet.
type XLSXWriter struct{}

// WriteToFile writes transactions to an .xlsx file at the given path.
func (w *XLSXWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet %q: %w", path, err)
	}
	return nil
}

// Write streams the spreadsheet to the given writer.
func (w *XLSXWriter) Write(out io.Writer, txns []models.Transaction) error {
	f, err := w.build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(txns []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, row := range interpret.Rows(txns) {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				f.Close()
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	return f, nil
}
