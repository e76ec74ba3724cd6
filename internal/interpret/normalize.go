package interpret

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/docneat/statement-converter/internal/models"
)

// Money converts raw statement amount text to its canonical decimal form.
// Malformed or empty text yields nil, an absent value rather than zero.
func Money(s string) *decimal.Decimal {
	bare, ok := CleanNumeric(s)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(bare)
	if err != nil {
		return nil
	}
	return &d
}

// Dedupe removes rows identical across all five fields, keeping the first
// occurrence. Overlapping table regions across page boundaries produce such
// exact duplicates. Running Dedupe on its own output is a no-op.
func Dedupe(txns []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(txns))
	out := txns[:0:0]
	for _, t := range txns {
		k := strings.Join([]string{
			t.Date, t.Description,
			amountKey(t.PaidOut), amountKey(t.PaidIn), amountKey(t.Balance),
		}, "\x1f")
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func amountKey(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

// Rows renders transactions as the fixed five-column table, header row
// first. Absent amounts render as empty cells.
func Rows(txns []models.Transaction) [][]string {
	rows := make([][]string, 0, len(txns)+1)
	rows = append(rows, models.Columns)
	for _, t := range txns {
		rows = append(rows, []string{
			t.Date,
			t.Description,
			amountKey(t.PaidOut),
			amountKey(t.PaidIn),
			amountKey(t.Balance),
		})
	}
	return rows
}
