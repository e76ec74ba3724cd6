package interpret

import "testing"

func TestMatchDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "15 Jun 25", "15 Jun 25", true},
		{"four digit year", "3 December 2024", "3 December 2024", true},
		{"embedded in text", "Statement period 15 Jun 25 onwards", "15 Jun 25", true},
		{"extra whitespace collapsed", "15   Jun   25", "15 Jun 25", true},
		{"lowercase month", "15 jun 25", "15 jun 25", true},
		{"day zero rejected", "0 Jun 25", "", false},
		{"day out of range", "32 Jan 24", "", false},
		{"numeric date form not matched", "15/06/2025", "", false},
		{"no date", "Tesco Store", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("MatchDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("MatchDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchDateSkipsInvalidDayThenMatchesLater(t *testing.T) {
	got, ok := MatchDate("32 Jan 24 then 15 Jun 25")
	if !ok || got != "15 Jun 25" {
		t.Errorf("got %q, %v; want %q, true", got, ok, "15 Jun 25")
	}
}

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare", "487.50", "487.50", true},
		{"pound sign", "£1,234.56", "1234.56", true},
		{"dollar sign", "$12.50", "12.50", true},
		{"negative", "-42.00", "-42.00", true},
		{"internal spaces", "1 234.56", "1234.56", true},
		{"surrounding whitespace", "  12.50  ", "12.50", true},
		{"one decimal place", "12.5", "", false},
		{"three decimal places", "12.505", "", false},
		{"no decimals", "1250", "", false},
		{"text", "Tesco", "", false},
		{"mixed text and number", "balance 12.50", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanNumeric(tt.input)
			if ok != tt.ok {
				t.Fatalf("CleanNumeric(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("CleanNumeric(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
