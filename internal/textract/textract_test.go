package textract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/docneat/statement-converter/internal/models"
)

const sampleResponse = `{
  "Blocks": [
    {"Id": "t1", "BlockType": "TABLE", "Page": 1,
     "Relationships": [{"Type": "CHILD", "Ids": ["c1", "c2"]}]},
    {"Id": "c1", "BlockType": "CELL", "RowIndex": 1, "ColumnIndex": 1,
     "Relationships": [{"Type": "CHILD", "Ids": ["w1", "w2"]}]},
    {"Id": "c2", "BlockType": "CELL", "RowIndex": 1, "ColumnIndex": 2,
     "Relationships": [{"Type": "CHILD", "Ids": ["w3"]}]},
    {"Id": "w1", "BlockType": "WORD", "Text": "15"},
    {"Id": "w2", "BlockType": "WORD", "Text": "Jun"},
    {"Id": "w3", "BlockType": "WORD", "Text": "487.50"},
    {"Id": "x1", "BlockType": "LINE", "Text": "ignored"}
  ]
}`

func TestDecodeTables(t *testing.T) {
	tables, err := DecodeTables([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}

	want := []models.Cell{
		{Row: 1, Col: 1, Words: []string{"15", "Jun"}},
		{Row: 1, Col: 2, Words: []string{"487.50"}},
	}
	if !reflect.DeepEqual(tables[0].Cells, want) {
		t.Errorf("cells = %+v, want %+v", tables[0].Cells, want)
	}
}

func TestDecodeTablesMalformedJSON(t *testing.T) {
	if _, err := DecodeTables([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestDecodeTablesNoTables(t *testing.T) {
	tables, err := DecodeTables([]byte(`{"Blocks": [{"Id": "l1", "BlockType": "LINE", "Text": "hello"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("got %d tables, want 0", len(tables))
	}
}

func TestDecodeTablesPageOrder(t *testing.T) {
	data := `{
	  "Blocks": [
	    {"Id": "t2", "BlockType": "TABLE", "Page": 2},
	    {"Id": "t1", "BlockType": "TABLE", "Page": 1}
	  ]
	}`
	tables, err := DecodeTables([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 2 || tables[0].Page != 1 || tables[1].Page != 2 {
		t.Errorf("tables not in page order: %+v", tables)
	}
}

func TestHTTPEngineAnalyzeDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL)
	tables, err := eng.AnalyzeDocument(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 1 {
		t.Errorf("got %d tables, want 1", len(tables))
	}
}

func TestHTTPEngineFaultWrapsErrEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	eng := NewHTTPEngine(srv.URL)
	_, err := eng.AnalyzeDocument(context.Background(), nil)
	if !errors.Is(err, ErrEngine) {
		t.Errorf("error %v does not wrap ErrEngine", err)
	}
}

func TestHTTPEngineUnreachable(t *testing.T) {
	eng := NewHTTPEngine("http://127.0.0.1:1/analyze")
	_, err := eng.AnalyzeDocument(context.Background(), nil)
	if !errors.Is(err, ErrEngine) {
		t.Errorf("error %v does not wrap ErrEngine", err)
	}
}
