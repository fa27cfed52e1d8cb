package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"forwarddesk/internal/features/dataset"
)

func sampleReport() *ReportData {
	return &ReportData{
		Columns: []dataset.Column{
			{Field: "country", Header: "Country", Type: dataset.ColumnTypeText},
			{Field: "Total Calls", Header: "Total Calls", Type: dataset.ColumnTypeNumber},
		},
		Rows: []map[string]interface{}{
			{"country": "US", "Total Calls": 8.0},
			{"country": "TR", "Total Calls": 2.0},
		},
		Summary: Summary{Total: 3, Aggregates: map[string]float64{"Total Calls": 10}},
	}
}

func TestExportCSVEscaping(t *testing.T) {
	data := &ReportData{
		Columns: []dataset.Column{
			{Field: "name", Header: "Name", Type: dataset.ColumnTypeText},
			{Field: "note", Header: "Note", Type: dataset.ColumnTypeText},
		},
		Rows: []map[string]interface{}{
			{"name": `Acme, "West" Branch`, "note": "line one\nline two"},
		},
	}

	out, _, mimeType, err := Export(data, "csv", "customers")
	if err != nil {
		t.Fatalf("Export(csv) error = %v", err)
	}
	if mimeType != "text/csv" {
		t.Errorf("mime = %s, want text/csv", mimeType)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parsing exported csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("csv has %d records, want 2", len(records))
	}
	if records[0][0] != "Name" || records[0][1] != "Note" {
		t.Errorf("header = %v, want [Name Note]", records[0])
	}
	// A standard parser must reconstruct the original strings exactly
	if records[1][0] != `Acme, "West" Branch` {
		t.Errorf("cell = %q, want original comma/quote string", records[1][0])
	}
	if records[1][1] != "line one\nline two" {
		t.Errorf("cell = %q, want original multi-line string", records[1][1])
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	data := sampleReport()

	out, _, mimeType, err := Export(data, "json", "calls")
	if err != nil {
		t.Fatalf("Export(json) error = %v", err)
	}
	if mimeType != "application/json" {
		t.Errorf("mime = %s, want application/json", mimeType)
	}

	var parsed ReportData
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("parsing exported json: %v", err)
	}
	if !reflect.DeepEqual(*data, parsed) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, *data)
	}
}

func TestExportXLSX(t *testing.T) {
	out, filename, mimeType, err := Export(sampleReport(), "xlsx", "calls")
	if err != nil {
		t.Fatalf("Export(xlsx) error = %v", err)
	}
	if len(out) == 0 {
		t.Error("xlsx export produced no bytes")
	}
	if mimeType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected mime %s", mimeType)
	}
	if filename == "" {
		t.Error("xlsx export produced no filename")
	}
}

func TestExportPDFNotImplemented(t *testing.T) {
	out, filename, _, err := Export(sampleReport(), "pdf", "calls")
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("Export(pdf) error = %v, want ErrNotImplemented", err)
	}
	if out != nil || filename != "" {
		t.Error("Export(pdf) must not produce a file")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, _, _, err := Export(sampleReport(), "parquet", "calls")
	if !errors.Is(err, ErrExport) {
		t.Fatalf("Export(parquet) error = %v, want ErrExport", err)
	}
}
