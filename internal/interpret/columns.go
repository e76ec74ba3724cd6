package interpret

import (
	"sort"
	"strings"

	"github.com/docneat/statement-converter/internal/models"
)

// Roles maps semantic column roles to dense-grid column offsets.
// An offset of -1 means the role is unassigned for the grid. Columns
// holding no role are description columns. Roles are fixed for the whole
// grid once assigned.
type Roles struct {
	Date    int
	PaidOut int
	PaidIn  int
	Balance int
}

func unassigned() Roles {
	return Roles{Date: -1, PaidOut: -1, PaidIn: -1, Balance: -1}
}

// money reports whether col carries one of the monetary roles.
func (r Roles) money(col int) bool {
	return col == r.PaidOut || col == r.PaidIn || col == r.Balance
}

// dateStrategy proposes a date column for a grid, or -1.
// Strategies are chained by Classify rather than duplicated per layout.
type dateStrategy interface {
	locate(g models.Grid) int
}

// dateFrequency picks the column with the most date-pattern matches.
// Ties break toward the lowest column index.
type dateFrequency struct{}

func (dateFrequency) locate(g models.Grid) int {
	var counts []int
	for _, row := range g {
		for col, cell := range row {
			for col >= len(counts) {
				counts = append(counts, 0)
			}
			if _, ok := MatchDate(cell); ok {
				counts[col]++
			}
		}
	}
	best, bestHits := -1, 0
	for col, hits := range counts {
		if hits > bestHits {
			best, bestHits = col, hits
		}
	}
	return best
}

// headerKeywords looks for date-ish header text in the first few rows.
type headerKeywords struct {
	scanRows int
}

func (h headerKeywords) locate(g models.Grid) int {
	rows := h.scanRows
	if rows > len(g) {
		rows = len(g)
	}
	for i := 0; i < rows; i++ {
		for col, cell := range g[i] {
			lower := strings.ToLower(cell)
			if strings.Contains(lower, "date") ||
				strings.Contains(lower, "trans") ||
				strings.Contains(lower, "value") {
				return col
			}
		}
	}
	return -1
}

// minRowsForRatio is the grid size above which a monetary column must clear
// the occurrence floor below, so stray matches in long tables don't claim
// a role.
const minRowsForRatio = 20

// Classify infers the column role assignment for a dense grid.
// Returns ok=false when no date column can be identified anywhere, in which
// case the grid is assumed not to be a transaction table.
func Classify(g models.Grid) (Roles, bool) {
	roles := unassigned()

	freq := dateFrequency{}.locate(g)
	if freq < 0 {
		return roles, false
	}
	roles.Date = freq
	// Header text wins over frequency only when both point at the same or
	// an adjacent column.
	if hdr := (headerKeywords{scanRows: 3}).locate(g); hdr >= 0 {
		if d := hdr - freq; d >= -1 && d <= 1 {
			roles.Date = hdr
		}
	}

	// Monetary columns: count clean-numeric cells per column, rank the
	// qualifying columns rightmost-first (typical ledger order puts the
	// running balance last).
	counts := map[int]int{}
	for _, row := range g {
		for col, cell := range row {
			if col == roles.Date {
				continue
			}
			if _, ok := CleanNumeric(cell); ok {
				counts[col]++
			}
		}
	}
	var qualifying []int
	for col, hits := range counts {
		if hits == 0 {
			continue
		}
		if len(g) > minRowsForRatio && hits*minRowsForRatio <= len(g) {
			continue
		}
		qualifying = append(qualifying, col)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(qualifying)))

	if len(qualifying) > 0 {
		roles.Balance = qualifying[0]
	}
	if len(qualifying) > 1 {
		roles.PaidIn = qualifying[1]
	}
	if len(qualifying) > 2 {
		roles.PaidOut = qualifying[2]
	}

	return roles, true
}
