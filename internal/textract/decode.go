// Package textract adapts AWS Textract AnalyzeDocument output into the
// cell collections the interpreter consumes. Only the block types the
// TABLES feature emits are decoded; everything else in the response is
// ignored.
package textract

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/docneat/statement-converter/internal/models"
)

// block mirrors the subset of a Textract block this service reads.
type block struct {
	ID            string         `json:"Id"`
	BlockType     string         `json:"BlockType"`
	Text          string         `json:"Text"`
	Page          int            `json:"Page"`
	RowIndex      int            `json:"RowIndex"`
	ColumnIndex   int            `json:"ColumnIndex"`
	Relationships []relationship `json:"Relationships"`
}

type relationship struct {
	Type string   `json:"Type"`
	IDs  []string `json:"Ids"`
}

type analyzeResponse struct {
	Blocks []block `json:"Blocks"`
}

// DecodeTables parses a raw AnalyzeDocument JSON response into per-table
// cell collections in document reading order. Each CELL's WORD children
// become the cell's fragments, in the order Textract lists them.
func DecodeTables(data []byte) ([]models.Table, error) {
	var resp analyzeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	return tablesFromBlocks(resp.Blocks), nil
}

func tablesFromBlocks(blocks []block) []models.Table {
	byID := make(map[string]*block, len(blocks))
	for i := range blocks {
		byID[blocks[i].ID] = &blocks[i]
	}

	var tables []models.Table
	for i := range blocks {
		tb := &blocks[i]
		if tb.BlockType != "TABLE" {
			continue
		}
		table := models.Table{Page: tb.Page}
		for _, rel := range tb.Relationships {
			if rel.Type != "CHILD" {
				continue
			}
			for _, id := range rel.IDs {
				cell := byID[id]
				if cell == nil || cell.BlockType != "CELL" {
					continue
				}
				table.Cells = append(table.Cells, models.Cell{
					Row:   cell.RowIndex,
					Col:   cell.ColumnIndex,
					Words: cellWords(cell, byID),
				})
			}
		}
		tables = append(tables, table)
	}

	// Blocks usually arrive in page order already; make it a guarantee.
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].Page < tables[j].Page
	})
	return tables
}

func cellWords(cell *block, byID map[string]*block) []string {
	var words []string
	for _, rel := range cell.Relationships {
		if rel.Type != "CHILD" {
			continue
		}
		for _, id := range rel.IDs {
			w := byID[id]
			if w == nil || w.BlockType != "WORD" {
				continue
			}
			if w.Text != "" {
				words = append(words, w.Text)
			}
		}
	}
	return words
}
