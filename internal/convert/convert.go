// Package convert runs one document end to end: table detection, grid
// building, interpretation, and, when no table structure can be found,
// the text-layer and OCR line fallbacks.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/docneat/statement-converter/internal/extractor"
	"github.com/docneat/statement-converter/internal/grid"
	"github.com/docneat/statement-converter/internal/interpret"
	"github.com/docneat/statement-converter/internal/lineparser"
	"github.com/docneat/statement-converter/internal/models"
	"github.com/docneat/statement-converter/internal/textract"
)

// Converter turns documents into transaction tables. Engine is optional;
// without one, PDFs go straight to the fallback extractors.
type Converter struct {
	Engine textract.Engine
	Log    zerolog.Logger
}

// Document converts a single document. The filename selects the input kind:
// a .json file is taken as a raw AnalyzeDocument response dump, anything
// else as a PDF on disk at path. Engine faults are reported via
// textract.ErrEngine only when no fallback could salvage the document.
func (c *Converter) Document(ctx context.Context, filename, path string, data []byte) (models.Result, error) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return c.fromAnalyzeResponse(data)
	}
	return c.fromPDF(ctx, path, data)
}

// FromAnalyzeResponse interprets a pre-extracted detection response,
// bypassing the engine entirely.
func (c *Converter) FromAnalyzeResponse(data []byte) (models.Result, error) {
	return c.fromAnalyzeResponse(data)
}

func (c *Converter) fromAnalyzeResponse(data []byte) (models.Result, error) {
	tables, err := textract.DecodeTables(data)
	if err != nil {
		return models.Result{}, err
	}
	return interpret.Document(grid.BuildAll(tables)), nil
}

func (c *Converter) fromPDF(ctx context.Context, path string, data []byte) (models.Result, error) {
	var engineErr error

	if c.Engine != nil {
		tables, err := c.Engine.AnalyzeDocument(ctx, data)
		if err != nil {
			// The engine faulting is not fatal to the document; the
			// fallbacks below may still read it.
			engineErr = err
			c.Log.Warn().Err(err).Msg("table detection engine failed, falling back")
		} else {
			res := interpret.Document(grid.BuildAll(tables))
			if res.TableDetected {
				return res, nil
			}
			c.Log.Debug().Int("tables", res.TablesSeen).Msg("engine found no transaction table, falling back")
		}
	}

	res, err := c.fallback(path)
	if err != nil {
		if engineErr != nil {
			return models.Result{}, fmt.Errorf("conversion failed after engine fault (%v): %w", err, engineErr)
		}
		return models.Result{}, err
	}
	return res, nil
}

// fallback parses page text lines: the PDF text layer first, OCR second.
func (c *Converter) fallback(path string) (models.Result, error) {
	pages, err := extractor.ExtractText(path)
	if err != nil {
		c.Log.Debug().Err(err).Msg("no text layer, trying OCR")
		pages, err = extractor.ExtractTextOCR(path)
		if err != nil {
			return models.Result{}, fmt.Errorf("document has no readable text: %w", err)
		}
	}

	txns := lineparser.Parse(pages)
	if txns == nil {
		txns = []models.Transaction{}
	}
	return models.Result{Transactions: txns}, nil
}
