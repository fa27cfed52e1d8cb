package report

import (
	"testing"

	"forwarddesk/internal/features/dataset"
)

func TestApplyComputedFields(t *testing.T) {
	columns := []dataset.Column{
		{Field: "calls", Header: "Calls", Type: dataset.ColumnTypeNumber},
		{Field: "minutes", Header: "Minutes", Type: dataset.ColumnTypeNumber},
	}
	rows := []dataset.Row{
		dataset.MapRow{"calls": int64(4), "minutes": int64(20)},
		dataset.MapRow{"calls": int64(2), "minutes": int64(5)},
	}
	fields := []ComputedField{
		{Name: "doubled", Expression: `out := row.calls * 2`},
		{Name: "per_call", Expression: `out := row.minutes / row.calls`},
	}

	got, err := ApplyComputedFields(rows, fields, columns)
	if err != nil {
		t.Fatalf("ApplyComputedFields() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ApplyComputedFields() returned %d rows, want 2", len(got))
	}

	if v := got[0].Field("doubled"); v != int64(8) {
		t.Errorf("row 0 doubled = %v (%T), want 8", v, v)
	}
	if v := got[1].Field("per_call"); v != int64(2) {
		t.Errorf("row 1 per_call = %v (%T), want 2", v, v)
	}
	// Base fields remain reachable through the overlay
	if v := got[0].Field("calls"); v != int64(4) {
		t.Errorf("row 0 calls = %v, want 4", v)
	}
}

func TestApplyComputedFieldsChained(t *testing.T) {
	columns := []dataset.Column{{Field: "calls", Header: "Calls", Type: dataset.ColumnTypeNumber}}
	rows := []dataset.Row{dataset.MapRow{"calls": int64(3)}}
	fields := []ComputedField{
		{Name: "doubled", Expression: `out := row.calls * 2`},
		{Name: "quadrupled", Expression: `out := row.doubled * 2`},
	}

	got, err := ApplyComputedFields(rows, fields, columns)
	if err != nil {
		t.Fatalf("ApplyComputedFields() error = %v", err)
	}
	if v := got[0].Field("quadrupled"); v != int64(12) {
		t.Errorf("quadrupled = %v, want 12", v)
	}
}

func TestApplyComputedFieldsBadExpression(t *testing.T) {
	columns := []dataset.Column{{Field: "calls", Header: "Calls", Type: dataset.ColumnTypeNumber}}
	rows := []dataset.Row{dataset.MapRow{"calls": int64(1)}}

	_, err := ApplyComputedFields(rows, []ComputedField{{Name: "bad", Expression: `out := (`}}, columns)
	if err == nil {
		t.Fatal("ApplyComputedFields() error = nil, want compile error")
	}
}

func TestApplyComputedFieldsNoFields(t *testing.T) {
	rows := []dataset.Row{dataset.MapRow{"calls": int64(1)}}
	got, err := ApplyComputedFields(rows, nil, nil)
	if err != nil {
		t.Fatalf("ApplyComputedFields() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ApplyComputedFields() returned %d rows, want passthrough", len(got))
	}
}
