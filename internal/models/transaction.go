package models

import "github.com/shopspring/decimal"

// Cell is one recognized table cell as reported by the detection engine.
// Indices are 1-based and may be sparse. Words hold the recognized text
// fragments in left-to-right reading order.
type Cell struct {
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Words []string `json:"words"`
}

// Table is the sparse cell collection for one detected table. Tables from
// the same document arrive in document reading order and must stay that way.
type Table struct {
	Page  int    `json:"page"`
	Cells []Cell `json:"cells"`
}

// Grid is the dense row-major view of one detected table: rows × columns of
// strings, with the empty string where no cell was recognized.
type Grid [][]string

// Transaction represents a single statement transaction.
// A nil amount means the statement carried no value in that column,
// which is not the same thing as zero.
type Transaction struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	PaidOut     *decimal.Decimal `json:"paidOut,omitempty"`
	PaidIn      *decimal.Decimal `json:"paidIn,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
}

// Result is the outcome of interpreting one document.
// TableDetected distinguishes "no transaction table found anywhere" from
// "found a table but it held no transactions".
type Result struct {
	Transactions  []Transaction `json:"transactions"`
	TableDetected bool          `json:"tableDetected"`
	TablesSeen    int           `json:"tablesSeen"`
	TablesSkipped int           `json:"tablesSkipped"`
}

// Columns is the fixed output column order for every serialized table.
var Columns = []string{"Date", "Description", "Paid Out", "Paid In", "Balance"}
