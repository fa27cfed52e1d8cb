package report

import (
	"testing"
	"time"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/features/dataset"
)

func TestMatchRowBetween(t *testing.T) {
	filter := common_models.Filter{
		Field:    "score",
		Operator: common_models.OpBetween,
		Value:    []interface{}{2, 8},
	}

	var kept []float64
	for _, score := range []float64{1, 2, 5, 8, 9} {
		if MatchRow(dataset.MapRow{"score": score}, filter) {
			kept = append(kept, score)
		}
	}

	want := []float64{2, 5, 8}
	if len(kept) != len(want) {
		t.Fatalf("between kept %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("between kept %v, want %v", kept, want)
			break
		}
	}
}

func TestMatchRowOperators(t *testing.T) {
	noon := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := dataset.MapRow{
		"country":    "US",
		"calls":      5,
		"created_at": noon,
	}

	tests := []struct {
		name   string
		filter common_models.Filter
		want   bool
	}{
		{"eq match", common_models.Filter{Field: "country", Operator: common_models.OpEq, Value: "US"}, true},
		{"eq miss", common_models.Filter{Field: "country", Operator: common_models.OpEq, Value: "TR"}, false},
		{"neq", common_models.Filter{Field: "country", Operator: common_models.OpNeq, Value: "TR"}, true},
		{"eq numeric cross-type", common_models.Filter{Field: "calls", Operator: common_models.OpEq, Value: 5.0}, true},
		{"gt", common_models.Filter{Field: "calls", Operator: common_models.OpGt, Value: 4}, true},
		{"gt equal boundary", common_models.Filter{Field: "calls", Operator: common_models.OpGt, Value: 5}, false},
		{"gte equal boundary", common_models.Filter{Field: "calls", Operator: common_models.OpGte, Value: 5}, true},
		{"lt", common_models.Filter{Field: "calls", Operator: common_models.OpLt, Value: 6}, true},
		{"lte", common_models.Filter{Field: "calls", Operator: common_models.OpLte, Value: 5}, true},
		{"in member", common_models.Filter{Field: "country", Operator: common_models.OpIn, Value: []interface{}{"TR", "US"}}, true},
		{"in non-member", common_models.Filter{Field: "country", Operator: common_models.OpIn, Value: []interface{}{"TR", "DE"}}, false},
		{"date gte", common_models.Filter{Field: "created_at", Operator: common_models.OpGte, Value: noon.Add(-time.Hour)}, true},
		{"date lt", common_models.Filter{Field: "created_at", Operator: common_models.OpLt, Value: noon}, false},
		{"missing field ordering", common_models.Filter{Field: "minutes", Operator: common_models.OpGt, Value: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchRow(row, tt.filter); got != tt.want {
				t.Errorf("MatchRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchAll(t *testing.T) {
	row := dataset.MapRow{"country": "US", "calls": 5}
	filters := map[string]common_models.Filter{
		"country": {Field: "country", Operator: common_models.OpEq, Value: "US"},
		"calls":   {Field: "calls", Operator: common_models.OpGte, Value: 5},
	}

	if !MatchAll(row, filters) {
		t.Error("MatchAll() = false, want true")
	}

	filters["calls"] = common_models.Filter{Field: "calls", Operator: common_models.OpGt, Value: 5}
	if MatchAll(row, filters) {
		t.Error("MatchAll() = true, want false when one filter misses")
	}
}
