package lineparser

import (
	"testing"

	"github.com/docneat/statement-converter/internal/models"
)

func checkAmounts(t *testing.T, txn models.Transaction, out, in, bal string) {
	t.Helper()
	got := [3]string{"", "", ""}
	if txn.PaidOut != nil {
		got[0] = txn.PaidOut.String()
	}
	if txn.PaidIn != nil {
		got[1] = txn.PaidIn.String()
	}
	if txn.Balance != nil {
		got[2] = txn.Balance.String()
	}
	want := [3]string{out, in, bal}
	if got != want {
		t.Errorf("amounts = %v, want %v", got, want)
	}
}

func TestParseBasicStatement(t *testing.T) {
	page := `Your Statement
15 Jun 25 Tesco Store 2041
12.50 487.50
16 Jun 25 Salary ACME LTD
2,000.00 2,487.50`

	txns := Parse([]string{page})
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2: %+v", len(txns), txns)
	}

	if txns[0].Date != "15 Jun 25" {
		t.Errorf("Date = %q, want %q", txns[0].Date, "15 Jun 25")
	}
	if txns[0].Description != "Tesco Store 2041" {
		t.Errorf("Description = %q, want %q", txns[0].Description, "Tesco Store 2041")
	}
	checkAmounts(t, txns[0], "12.50", "487.50", "")
	checkAmounts(t, txns[1], "2000.00", "2487.50", "")
}

func TestParseSingleAmountIsBalance(t *testing.T) {
	txns := Parse([]string{"15 Jun 25 Interest Paid 487.50"})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	checkAmounts(t, txns[0], "", "", "487.50")
}

func TestParseFeeLineSingleAmountIsPaidOut(t *testing.T) {
	page := `15 Jun 25 Card Payment Abroad
Non-Sterling Transaction Fee 2.75`

	txns := Parse([]string{page})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	checkAmounts(t, txns[0], "2.75", "", "")
	want := "Card Payment Abroad Non-Sterling Transaction Fee"
	if txns[0].Description != want {
		t.Errorf("Description = %q, want %q", txns[0].Description, want)
	}
}

func TestParseThreeAmounts(t *testing.T) {
	txns := Parse([]string{"15 Jun 25 Transfer 100.00 50.00 437.50"})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	checkAmounts(t, txns[0], "100.00", "50.00", "437.50")
}

func TestParseForwardLine(t *testing.T) {
	page := `15 Jun 25 Card Payment
12.50 487.50
Balance carried forward 1,234.56`

	txns := Parse([]string{page})
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2: %+v", len(txns), txns)
	}
	fwd := txns[1]
	if fwd.Date != "15 Jun 25" {
		t.Errorf("forward Date = %q, want sticky date", fwd.Date)
	}
	checkAmounts(t, fwd, "", "", "1234.56")
}

func TestParseSkipsBoilerplate(t *testing.T) {
	page := `Your Statement
Account Summary
Opening Balance 500.00
15 Jun 25 Card Payment 487.50
Closing Balance 487.50
www.hsbc.co.uk`

	txns := Parse([]string{page})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1: %+v", len(txns), txns)
	}
	if txns[0].Description != "Card Payment" {
		t.Errorf("Description = %q, want %q", txns[0].Description, "Card Payment")
	}
}

func TestParseStickyDateAcrossPages(t *testing.T) {
	pages := []string{
		"15 Jun 25 Card Payment\n12.50 487.50",
		"Balance brought forward 487.50\n16 Jun 25 Salary\n2,000.00 2,487.50",
	}
	txns := Parse(pages)
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want 3: %+v", len(txns), txns)
	}
	if txns[1].Date != "15 Jun 25" {
		t.Errorf("brought-forward Date = %q, want %q", txns[1].Date, "15 Jun 25")
	}
	if txns[2].Date != "16 Jun 25" {
		t.Errorf("Date = %q, want %q", txns[2].Date, "16 Jun 25")
	}
}

func TestParseUngroupedThousands(t *testing.T) {
	// OCR often loses the thousands separator; the full digit run must be
	// taken, not just the last three digits.
	txns := Parse([]string{"15 Jun 25 Salary 2487.50"})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	checkAmounts(t, txns[0], "", "", "2487.50")

	txns = Parse([]string{"16 Jun 25 Transfer 1000.00 12500.00 2487.50"})
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	checkAmounts(t, txns[0], "1000.00", "12500.00", "2487.50")
}

func TestParseEmptyInput(t *testing.T) {
	if txns := Parse(nil); len(txns) != 0 {
		t.Errorf("got %d transactions, want 0", len(txns))
	}
	if txns := Parse([]string{"", "just some prose with no dates"}); len(txns) != 0 {
		t.Errorf("got %d transactions, want 0", len(txns))
	}
}
