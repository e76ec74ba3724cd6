// Package interpret reconstructs ordered transaction records from the
// ragged text-cell grids produced by table detection. It owns the parsing
// context and the accumulating transaction list; processing is strictly
// sequential per document and performs no I/O.
package interpret

import "github.com/docneat/statement-converter/internal/models"

// Interpreter folds grids into a transaction list, threading Context across
// table and page boundaries. One Interpreter serves exactly one document;
// independent documents get independent Interpreters.
type Interpreter struct {
	ctx     Context
	txns    []models.Transaction
	seen    int
	skipped int
}

func New() *Interpreter {
	return &Interpreter{}
}

// Feed interprets one grid. Grids must be fed in document reading order.
// A grid with no identifiable date column contributes nothing, but the
// context survives it untouched for whatever follows.
func (it *Interpreter) Feed(g models.Grid) {
	it.seen++
	roles, ok := Classify(g)
	if !ok {
		it.skipped++
		return
	}
	for _, row := range g {
		f := extract(row, roles)
		it.ctx, it.txns = step(it.ctx, it.txns, f, classify(f))
	}
}

// Result normalizes and deduplicates the accumulated transactions.
// The transaction slice is never nil.
func (it *Interpreter) Result() models.Result {
	txns := Dedupe(it.txns)
	if txns == nil {
		txns = []models.Transaction{}
	}
	return models.Result{
		Transactions:  txns,
		TableDetected: it.seen > it.skipped,
		TablesSeen:    it.seen,
		TablesSkipped: it.skipped,
	}
}

// Document interprets a whole document's grids in order.
func Document(grids []models.Grid) models.Result {
	it := New()
	for _, g := range grids {
		it.Feed(g)
	}
	return it.Result()
}
