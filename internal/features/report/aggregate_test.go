package report

import (
	"testing"

	"forwarddesk/internal/features/dataset"
)

func callRows() []dataset.Row {
	return []dataset.Row{
		dataset.MapRow{"country": "US", "calls": 3},
		dataset.MapRow{"country": "US", "calls": 5},
		dataset.MapRow{"country": "TR", "calls": 2},
	}
}

func TestAggregateGroupBySum(t *testing.T) {
	metrics := []Metric{{Name: "Total Calls", Aggregation: AggregationSum, Field: "calls"}}

	got := Aggregate(callRows(), "country", metrics, false)

	if len(got) != 2 {
		t.Fatalf("Aggregate() returned %d groups, want 2", len(got))
	}
	// First-occurrence order: US before TR
	if got[0]["country"] != "US" || got[0]["Total Calls"] != 8.0 {
		t.Errorf("group 0 = %v, want country US with Total Calls 8", got[0])
	}
	if got[1]["country"] != "TR" || got[1]["Total Calls"] != 2.0 {
		t.Errorf("group 1 = %v, want country TR with Total Calls 2", got[1])
	}
}

func TestAggregateCountsSumToRowCount(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"carrier": "att"},
		dataset.MapRow{"carrier": "verizon"},
		dataset.MapRow{"carrier": "att"},
		dataset.MapRow{"carrier": "tmobile"},
		dataset.MapRow{"carrier": "att"},
	}
	metrics := []Metric{{Name: "Count", Aggregation: AggregationCount}}

	got := Aggregate(rows, "carrier", metrics, false)

	total := 0.0
	for _, group := range got {
		total += group["Count"].(float64)
	}
	if int(total) != len(rows) {
		t.Errorf("sum of group counts = %v, want %d", total, len(rows))
	}
}

func TestSummarizeCount(t *testing.T) {
	rows := callRows()
	got := Summarize(rows, []Metric{{Name: "Total", Aggregation: AggregationCount}}, false)

	if got.Total != len(rows) {
		t.Errorf("Summarize().Total = %d, want %d", got.Total, len(rows))
	}
	if got.Aggregates["Total"] != float64(len(rows)) {
		t.Errorf("Summarize().Aggregates[Total] = %v, want %d", got.Aggregates["Total"], len(rows))
	}
}

func TestSummarizeEmptyRows(t *testing.T) {
	got := Summarize(nil, []Metric{
		{Name: "Total", Aggregation: AggregationCount},
		{Name: "Avg", Aggregation: AggregationAvg, Field: "calls"},
	}, false)

	if got.Total != 0 || got.Aggregates["Total"] != 0 || got.Aggregates["Avg"] != 0 {
		t.Errorf("Summarize(nil) = %+v, want all zeros", got)
	}
}

func TestAggregateMissingFieldCoercion(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"country": "US", "calls": 4},
		dataset.MapRow{"country": "US"}, // missing calls
	}

	metrics := []Metric{
		{Name: "Sum", Aggregation: AggregationSum, Field: "calls"},
		{Name: "Avg", Aggregation: AggregationAvg, Field: "calls"},
		{Name: "Min", Aggregation: AggregationMin, Field: "calls"},
	}

	t.Run("coerce to zero by default", func(t *testing.T) {
		got := Aggregate(rows, "country", metrics, false)[0]
		if got["Sum"] != 4.0 {
			t.Errorf("Sum = %v, want 4", got["Sum"])
		}
		// Denominator is group size, missing row included
		if got["Avg"] != 2.0 {
			t.Errorf("Avg = %v, want 2", got["Avg"])
		}
		// The coerced zero corrupts min for all-positive data
		if got["Min"] != 0.0 {
			t.Errorf("Min = %v, want 0", got["Min"])
		}
	})

	t.Run("exclude missing when switched on", func(t *testing.T) {
		got := Aggregate(rows, "country", metrics, true)[0]
		if got["Sum"] != 4.0 {
			t.Errorf("Sum = %v, want 4", got["Sum"])
		}
		if got["Avg"] != 4.0 {
			t.Errorf("Avg = %v, want 4 (denominator excludes missing)", got["Avg"])
		}
		if got["Min"] != 4.0 {
			t.Errorf("Min = %v, want 4", got["Min"])
		}
	})
}

func TestAggregateDistinctRawValuesAreDistinctGroups(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"score": 1, "n": 1},
		dataset.MapRow{"score": 1.0, "n": 1}, // numerically equal, same group
		dataset.MapRow{"score": "1", "n": 1}, // string, different group
	}
	got := Aggregate(rows, "score", []Metric{{Name: "Count", Aggregation: AggregationCount}}, false)

	if len(got) != 2 {
		t.Fatalf("Aggregate() returned %d groups, want 2 (numeric 1 and string \"1\")", len(got))
	}
	if got[0]["Count"] != 2.0 {
		t.Errorf("numeric group count = %v, want 2", got[0]["Count"])
	}
}
