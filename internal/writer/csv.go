// Package writer serializes interpreted transactions for download.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/docneat/statement-converter/internal/interpret"
	"github.com/docneat/statement-converter/internal/models"
)

// CSVWriter writes the fixed five-column transaction table as CSV.
type CSVWriter struct{}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txns)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	for _, row := range interpret.Rows(txns) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return cw.Error()
}
