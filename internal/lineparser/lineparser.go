// Package lineparser reconstructs transactions from raw OCR page text when
// no table structure is available. It runs the same sticky-date state
// machine the grid interpreter uses, but over free-form lines: a line that
// opens with a date starts a transaction, trailing monetary amounts fill
// its columns, and leftover text extends the description.
package lineparser

import (
	"regexp"
	"strings"

	"github.com/docneat/statement-converter/internal/interpret"
	"github.com/docneat/statement-converter/internal/models"
)

var (
	startDatePattern = regexp.MustCompile(
		`^(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4}|\d{2})\b`,
	)
	// Comma-grouped or plain digit runs; OCR drops thousands separators
	// often enough that the plain form must match whole.
	amountPattern = regexp.MustCompile(`(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}`)
)

// Statement furniture that OCR reads back as ordinary lines.
var skipPrefixes = []string{
	"the secretary",
	"account name",
	"your business current account",
	"account summary",
	"opening balance",
	"closing balance",
	"payments in",
	"payments out",
	"international bank account number",
	"branch identifier code",
	"sortcode",
	"sheet number",
	"contact tel",
	"text phone",
	"www.",
	"your statement",
}

// pending is the transaction under construction while its lines keep coming.
type pending struct {
	date    string
	desc    []string
	paidOut string
	paidIn  string
	balance string
}

// Parse walks OCR page lines in order and returns the transactions found.
// The sticky date carries across page boundaries.
func Parse(pages []string) []models.Transaction {
	var txns []models.Transaction
	var cur *pending

	flush := func() {
		if cur == nil || cur.date == "" {
			cur = nil
			return
		}
		txns = append(txns, models.Transaction{
			Date:        cur.date,
			Description: strings.TrimSpace(strings.Join(cur.desc, " ")),
			PaidOut:     interpret.Money(cur.paidOut),
			PaidIn:      interpret.Money(cur.paidIn),
			Balance:     interpret.Money(cur.balance),
		})
		cur = nil
	}

	stickyDate := ""
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || isSkipLine(line) {
				continue
			}

			if isForwardLine(line) {
				flush()
				txns = append(txns, forwardTransaction(line, stickyDate))
				continue
			}

			if m := startDatePattern.FindString(line); m != "" {
				flush()
				date := strings.Join(strings.Fields(m), " ")
				stickyDate = date
				cur = &pending{date: date}
				if rest := strings.TrimSpace(line[len(m):]); rest != "" {
					consumeLine(cur, rest)
				}
				continue
			}

			if cur != nil {
				consumeLine(cur, line)
			}
		}
	}
	flush()

	return interpret.Dedupe(txns)
}

// consumeLine pulls amounts off a line and appends the remaining text to the
// pending description. With a single amount the running balance is the usual
// reading, except on fee/exchange-rate detail lines where it is money out.
func consumeLine(cur *pending, line string) {
	amounts := amountPattern.FindAllString(line, -1)
	switch {
	case len(amounts) == 1:
		if strings.Contains(line, "Visa Rate") || strings.Contains(line, "Transaction Fee") {
			cur.paidOut = amounts[0]
		} else {
			cur.balance = amounts[0]
		}
	case len(amounts) == 2:
		cur.paidOut = amounts[0]
		cur.paidIn = amounts[1]
	case len(amounts) >= 3:
		cur.paidOut = amounts[0]
		cur.paidIn = amounts[1]
		cur.balance = amounts[2]
	}
	rest := strings.TrimSpace(amountPattern.ReplaceAllString(line, ""))
	if rest != "" {
		cur.desc = append(cur.desc, rest)
	}
}

func forwardTransaction(line, stickyDate string) models.Transaction {
	txn := models.Transaction{
		Date:        stickyDate,
		Description: strings.TrimSpace(amountPattern.ReplaceAllString(line, "")),
	}
	if amounts := amountPattern.FindAllString(line, -1); len(amounts) > 0 {
		txn.Balance = interpret.Money(amounts[len(amounts)-1])
	}
	return txn
}

func isForwardLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "brought forward") ||
		strings.Contains(lower, "carried forward")
}

func isSkipLine(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range skipPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	// HSBC footer fragments show up mid-line too.
	return strings.Contains(lower, "hsbc > uk") || strings.Contains(lower, "www.hsbc.co.uk")
}
