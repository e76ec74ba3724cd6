package interpret

import (
	"regexp"
	"strconv"
	"strings"
)

// Statement date form: day 1-31, three-letter month abbreviation, two- or
// four-digit year, whitespace separated (e.g. "15 Jun 25").
var datePattern = regexp.MustCompile(
	`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{4}|\d{2})\b`,
)

// MatchDate returns the first statement date found in s, whitespace
// collapsed to single spaces.
func MatchDate(s string) (string, bool) {
	for _, m := range datePattern.FindAllStringSubmatch(s, -1) {
		day, err := strconv.Atoi(m[1])
		if err != nil || day < 1 || day > 31 {
			continue
		}
		return strings.Join(strings.Fields(m[0]), " "), true
	}
	return "", false
}

// cleanNumericPattern matches a bare signed decimal with exactly two
// fractional digits.
var cleanNumericPattern = regexp.MustCompile(`^-?\d+\.\d{2}$`)

// CleanNumeric reports whether the cell text is a single monetary value
// once currency symbols and thousands separators are removed, and returns
// the bare form.
func CleanNumeric(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if !cleanNumericPattern.MatchString(s) {
		return "", false
	}
	return s, true
}
