package report

import (
	"errors"
	"testing"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/features/dataset"
)

func TestReportConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ReportConfig
		wantErr bool
	}{
		{
			name: "count metric without field",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
			},
		},
		{
			name: "sum metric with field",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Calls", Aggregation: AggregationSum, Field: "calls"}},
			},
		},
		{
			name:    "no metrics",
			config:  ReportConfig{},
			wantErr: true,
		},
		{
			name: "sum metric without field",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Calls", Aggregation: AggregationSum}},
			},
			wantErr: true,
		},
		{
			name: "unknown aggregation",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Calls", Aggregation: "median", Field: "calls"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate metric names",
			config: ReportConfig{
				Metrics: []Metric{
					{Name: "Total", Aggregation: AggregationCount},
					{Name: "Total", Aggregation: AggregationSum, Field: "calls"},
				},
			},
			wantErr: true,
		},
		{
			name: "in filter with array value",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
				Filters: map[string]common_models.Filter{
					"country": {Field: "country", Operator: common_models.OpIn, Value: []interface{}{"US", "TR"}},
				},
			},
		},
		{
			name: "in filter with scalar value",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
				Filters: map[string]common_models.Filter{
					"country": {Field: "country", Operator: common_models.OpIn, Value: "US"},
				},
			},
			wantErr: true,
		},
		{
			name: "between filter with scalar value",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
				Filters: map[string]common_models.Filter{
					"score": {Field: "score", Operator: common_models.OpBetween, Value: 5},
				},
			},
			wantErr: true,
		},
		{
			name: "between filter with three elements",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
				Filters: map[string]common_models.Filter{
					"score": {Field: "score", Operator: common_models.OpBetween, Value: []interface{}{1, 2, 3}},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown filter operator",
			config: ReportConfig{
				Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}},
				Filters: map[string]common_models.Filter{
					"country": {Field: "country", Operator: "matches", Value: "US"},
				},
			},
			wantErr: true,
		},
		{
			name: "computed field with valid expression",
			config: ReportConfig{
				Metrics:        []Metric{{Name: "Total", Aggregation: AggregationCount}},
				ComputedFields: []ComputedField{{Name: "doubled", Expression: `out := row.calls * 2`}},
			},
		},
		{
			name: "computed field with broken expression",
			config: ReportConfig{
				Metrics:        []Metric{{Name: "Total", Aggregation: AggregationCount}},
				ComputedFields: []ComputedField{{Name: "bad", Expression: `out := (`}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() error = %v, want ErrConfiguration kind", err)
			}
		})
	}
}

func TestValidateRequestRejectsUnknownType(t *testing.T) {
	req := &RunRequest{
		Type:   "payments",
		Config: ReportConfig{Metrics: []Metric{{Name: "Total", Aggregation: AggregationCount}}},
	}
	if err := ValidateRequest(req); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ValidateRequest() error = %v, want ErrConfiguration", err)
	}

	req.Type = dataset.ReportTypeConversations
	if err := ValidateRequest(req); err != nil {
		t.Errorf("ValidateRequest() with valid type error = %v", err)
	}
}
