// Package grid densifies the sparse cell collections produced by the
// table-detection engine into rectangular grids of strings.
package grid

import (
	"strings"

	"github.com/docneat/statement-converter/internal/models"
)

// Build turns a sparse cell collection into a dense grid. Row and column
// ranges run 1..max observed index; positions with no recognized cell are
// filled with the empty string. A table without cells yields an empty grid.
func Build(t models.Table) models.Grid {
	maxRow, maxCol := 0, 0
	for _, c := range t.Cells {
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}
	if maxRow == 0 || maxCol == 0 {
		return models.Grid{}
	}

	g := make(models.Grid, maxRow)
	for i := range g {
		g[i] = make([]string, maxCol)
	}
	for _, c := range t.Cells {
		if c.Row < 1 || c.Col < 1 {
			continue
		}
		g[c.Row-1][c.Col-1] = CellText(c)
	}
	return g
}

// BuildAll densifies every table, preserving document reading order.
func BuildAll(tables []models.Table) []models.Grid {
	grids := make([]models.Grid, 0, len(tables))
	for _, t := range tables {
		grids = append(grids, Build(t))
	}
	return grids
}

// CellText joins a cell's recognized fragments in reading order with a
// single space, dropping empty fragments.
func CellText(c models.Cell) string {
	if len(c.Words) == 1 {
		return strings.TrimSpace(c.Words[0])
	}
	parts := make([]string, 0, len(c.Words))
	for _, w := range c.Words {
		w = strings.TrimSpace(w)
		if w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}
