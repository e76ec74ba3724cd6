package textract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docneat/statement-converter/internal/models"
)

// ErrEngine marks a table-detection engine fault, as opposed to a document
// that simply holds no tables. Callers must not retry through this package;
// retry policy belongs to the orchestration layer.
var ErrEngine = errors.New("table detection engine failure")

// Engine produces per-table cell collections for a document. The call may
// take tens of seconds and must honor ctx cancellation.
type Engine interface {
	AnalyzeDocument(ctx context.Context, doc []byte) ([]models.Table, error)
}

// HTTPEngine posts document bytes to an analyze endpoint that answers with
// a Textract-shaped JSON response.
type HTTPEngine struct {
	URL    string
	Client *http.Client
}

func NewHTTPEngine(url string) *HTTPEngine {
	return &HTTPEngine{
		URL:    url,
		Client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (e *HTTPEngine) AnalyzeDocument(ctx context.Context, doc []byte) ([]models.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrEngine, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: analyze endpoint returned %d: %s", ErrEngine, resp.StatusCode, bytes.TrimSpace(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrEngine, err)
	}

	tables, err := DecodeTables(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return tables, nil
}
