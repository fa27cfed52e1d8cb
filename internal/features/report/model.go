package report

import (
	"time"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/features/dataset"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Aggregation string

const (
	AggregationCount Aggregation = "count"
	AggregationSum   Aggregation = "sum"
	AggregationAvg   Aggregation = "avg"
	AggregationMin   Aggregation = "min"
	AggregationMax   Aggregation = "max"
)

func (a Aggregation) Valid() bool {
	switch a {
	case AggregationCount, AggregationSum, AggregationAvg, AggregationMin, AggregationMax:
		return true
	}
	return false
}

// Metric is a named aggregation over an optional source field. Field is
// required unless the aggregation is count.
type Metric struct {
	Name        string      `json:"name" bson:"name"`
	Aggregation Aggregation `json:"aggregation" bson:"aggregation"`
	Field       string      `json:"field,omitempty" bson:"field,omitempty"`
}

// ComputedField is a derived column evaluated per row with a Tengo
// expression before grouping. The expression sees the source fields as
// a map named "row" and assigns its result to "out".
type ComputedField struct {
	Name       string `json:"name" bson:"name"`
	Expression string `json:"expression" bson:"expression"`
}

// ReportConfig declares what to fetch, filter, group and summarize.
type ReportConfig struct {
	Metrics        []Metric                        `json:"metrics" bson:"metrics"`
	Filters        map[string]common_models.Filter `json:"filters,omitempty" bson:"filters,omitempty"`
	GroupBy        string                          `json:"groupBy,omitempty" bson:"group_by,omitempty"`
	TimeRange      *common_models.TimeRange        `json:"timeRange,omitempty" bson:"time_range,omitempty"`
	ComputedFields []ComputedField                 `json:"computedFields,omitempty" bson:"computed_fields,omitempty"`

	// ExcludeMissing switches aggregation to skip rows whose metric
	// field is missing or non-numeric instead of coercing them to 0.
	// Off by default: zero-coercion is the long-standing behavior the
	// existing dashboards were built against.
	ExcludeMissing bool `json:"excludeMissing,omitempty" bson:"exclude_missing,omitempty"`
}

// Summary holds the ungrouped totals for a report run.
type Summary struct {
	Total      int                `json:"total"`
	Aggregates map[string]float64 `json:"aggregates"`
}

// ReportData is the shaped result of one report run. Produced fresh per
// fetch and never mutated after return.
type ReportData struct {
	Columns []dataset.Column         `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Summary Summary                  `json:"summary"`
}

// SavedReport is a persisted, user-named ReportConfig plus presentation
// preference.
type SavedReport struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID    primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	UserID            primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name              string             `json:"name" bson:"name"`
	Type              dataset.ReportType `json:"type" bson:"type"`
	Config            ReportConfig       `json:"config" bson:"config"`
	VisualizationType string             `json:"visualization_type" bson:"visualization_type"` // table, bar, line, pie
	IsFavorite        bool               `json:"is_favorite" bson:"is_favorite"`
	LastViewedAt      *time.Time         `json:"last_viewed_at,omitempty" bson:"last_viewed_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// RunRequest is the wire shape accepted by the ad-hoc fetch entry point.
type RunRequest struct {
	ReportID string             `json:"reportId,omitempty"`
	Type     dataset.ReportType `json:"type"`
	Config   ReportConfig       `json:"config"`
}
