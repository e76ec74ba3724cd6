package interpret

import (
	"strings"

	"github.com/docneat/statement-converter/internal/models"
)

// rowKind is the tagged outcome of classifying one grid row.
type rowKind int

const (
	rowNoise rowKind = iota
	rowNew
	rowForward
	rowContinuation
)

// facts is everything row classification needs, pulled from a row exactly
// once. Amounts are kept as bare clean-numeric strings until a transaction
// is actually emitted.
type facts struct {
	date    string
	paidOut string
	paidIn  string
	balance string
	desc    string
	full    string
}

// extract reads a row's date, amounts and description text using the grid's
// fixed role assignment.
func extract(row []string, roles Roles) facts {
	var f facts

	if roles.Date >= 0 && roles.Date < len(row) {
		if d, ok := MatchDate(row[roles.Date]); ok {
			f.date = d
		}
	}
	f.paidOut = roleAmount(row, roles.PaidOut)
	f.paidIn = roleAmount(row, roles.PaidIn)
	f.balance = roleAmount(row, roles.Balance)

	var descParts, fullParts []string
	for col, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			fullParts = append(fullParts, cell)
		}
		if col == roles.Date || roles.money(col) {
			continue
		}
		if cell == "" {
			continue
		}
		// Stray date text in description columns is context, not narrative.
		if _, ok := MatchDate(cell); ok {
			continue
		}
		descParts = append(descParts, cell)
	}
	f.desc = strings.Join(descParts, " ")
	f.full = strings.Join(fullParts, " ")
	return f
}

func roleAmount(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	bare, ok := CleanNumeric(row[col])
	if !ok {
		return ""
	}
	return bare
}

func (f facts) hasAmount() bool {
	return f.paidOut != "" || f.paidIn != "" || f.balance != ""
}

// forwardMarkers flag balance brought/carried forward rows, which are
// emitted specially rather than discarded with the other boilerplate.
var forwardMarkers = []string{
	"brought forward",
	"carried forward",
}

// noisePhrases is the fixed boilerplate list. A row containing any of these
// (and no forward marker) is discarded outright.
var noisePhrases = []string{
	"opening balance",
	"closing balance",
	"payments in",
	"payments out",
	"payment type and details",
	"account summary",
	"sortcode",
	"sheet number",
	"your statement",
	"contact tel",
	"text phone",
	"www.",
	"fscs",
	"financial services compensation",
	"international bank account number",
	"branch identifier code",
}

func isForward(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range forwardMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func isNoise(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range noisePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// classify decides what a row is. It is a pure function of the extracted
// facts; applying the decision is step's job.
func classify(f facts) rowKind {
	switch {
	case isForward(f.full):
		return rowForward
	case isNoise(f.full):
		return rowNoise
	case f.date != "" || f.hasAmount():
		return rowNew
	case f.desc != "":
		return rowContinuation
	default:
		return rowNoise
	}
}

// Context carries the interpreter's state across rows and across grid
// boundaries, so transactions split by a page break are neither lost nor
// duplicated.
type Context struct {
	// StickyDate is the most recently observed transaction date; rows
	// without their own date inherit it.
	StickyDate string
	// Open reports whether a transaction has been emitted that later
	// continuation rows may still extend.
	Open bool
}

// step applies one classified row to the accumulated transactions and
// returns the successor context. Rows never fail: anything unusable has
// already been classified as noise.
func step(ctx Context, txns []models.Transaction, f facts, kind rowKind) (Context, []models.Transaction) {
	// The sticky date updates whenever a row carries its own date, whether
	// or not the row opens a transaction.
	if f.date != "" {
		ctx.StickyDate = f.date
	}

	switch kind {
	case rowForward:
		txn := models.Transaction{Date: ctx.StickyDate, Description: f.desc}
		// Whichever value was recognized stands in as the balance,
		// regardless of which column held it.
		switch {
		case f.balance != "":
			txn.Balance = Money(f.balance)
		case f.paidIn != "":
			txn.Balance = Money(f.paidIn)
		case f.paidOut != "":
			txn.Balance = Money(f.paidOut)
		}
		txns = append(txns, txn)
		ctx.Open = true

	case rowNew:
		txns = append(txns, models.Transaction{
			Date:        ctx.StickyDate,
			Description: f.desc,
			PaidOut:     Money(f.paidOut),
			PaidIn:      Money(f.paidIn),
			Balance:     Money(f.balance),
		})
		ctx.Open = true

	case rowContinuation:
		if ctx.Open && len(txns) > 0 {
			last := &txns[len(txns)-1]
			if last.Description == "" {
				last.Description = f.desc
			} else {
				last.Description += " " + f.desc
			}
		}
	}

	return ctx, txns
}
