package trend

import (
	"time"

	"forwarddesk/internal/features/dataset"
)

// TrendType names a prebuilt analytics view over one of the report
// row sources.
type TrendType string

const (
	TrendTypeConversations TrendType = "conversations"
	TrendTypeUsage         TrendType = "usage"
	TrendTypeSentiment     TrendType = "sentiment"
	TrendTypeErrors        TrendType = "errors"
)

func (t TrendType) Valid() bool {
	switch t {
	case TrendTypeConversations, TrendTypeUsage, TrendTypeSentiment, TrendTypeErrors:
		return true
	}
	return false
}

// trendSource maps a trend type to its row source, the field whose
// values are summed per day (empty means count rows) and the default
// breakdown category.
type trendSource struct {
	reportType      dataset.ReportType
	valueField      string
	defaultCategory string
}

var trendSources = map[TrendType]trendSource{
	TrendTypeConversations: {dataset.ReportTypeConversations, "", "channel"},
	TrendTypeUsage:         {dataset.ReportTypeUsage, "calls", "category"},
	TrendTypeSentiment:     {dataset.ReportTypeSentiment, "score", "label"},
	TrendTypeErrors:        {dataset.ReportTypeErrors, "", "severity"},
}

// Query is the parsed form of the analytics query string. Defaults are
// applied by Normalize before any data is fetched.
type Query struct {
	TrendType TrendType `query:"trendType"`
	TimeRange string    `query:"timeRange"` // 7d, 30d, 90d
	Limit     int       `query:"limit"`
	Category  string    `query:"category"`
	DataType  string    `query:"dataType"` // count, or a numeric field to sum
}

// Point is one daily bucket of the series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TrendSummary describes the whole series.
type TrendSummary struct {
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Days  int     `json:"days"`
}

// Delta compares the queried window against the window immediately
// before it.
type Delta struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Direction string  `json:"direction"` // up, down, flat
}

// Anomaly flags a daily point whose value falls outside the band
// mean +/- k*stddev over the series.
type Anomaly struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Score float64   `json:"score"` // distance from the mean in stddevs
}

// BreakdownEntry is one category's share of the window.
type BreakdownEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Share    float64 `json:"share"` // 0..1 of the window total
}

// TrendReport is the bundled analytics response.
type TrendReport struct {
	TrendType   TrendType        `json:"trend_type"`
	TimeRange   string           `json:"time_range"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     TrendSummary     `json:"summary"`
	Series      []Point          `json:"series"`
	Delta       Delta            `json:"delta"`
	Forecast    []Point          `json:"forecast"`
	Anomalies   []Anomaly        `json:"anomalies"`
	Breakdown   []BreakdownEntry `json:"breakdown"`
}
