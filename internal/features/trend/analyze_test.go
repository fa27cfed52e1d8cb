package trend

import (
	"testing"
	"time"

	"forwarddesk/internal/features/dataset"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestBuildDailySeriesFillsGaps(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"created_at": day(0).Add(9 * time.Hour)},
		dataset.MapRow{"created_at": day(0).Add(17 * time.Hour)},
		dataset.MapRow{"created_at": day(2).Add(3 * time.Hour)},
	}

	series := BuildDailySeries(rows, day(0), day(3), "")

	if len(series) != 3 {
		t.Fatalf("series has %d points, want 3", len(series))
	}
	want := []float64{2, 0, 1}
	for i, p := range series {
		if !p.Date.Equal(day(i)) {
			t.Errorf("point %d date = %v, want %v", i, p.Date, day(i))
		}
		if p.Value != want[i] {
			t.Errorf("point %d value = %v, want %v", i, p.Value, want[i])
		}
	}
}

func TestBuildDailySeriesSumsValueField(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"created_at": day(0), "calls": 3},
		dataset.MapRow{"created_at": day(0), "calls": 5},
		dataset.MapRow{"created_at": day(1), "calls": 2.5},
	}

	series := BuildDailySeries(rows, day(0), day(2), "calls")

	if series[0].Value != 8 {
		t.Errorf("day 0 = %v, want 8", series[0].Value)
	}
	if series[1].Value != 2.5 {
		t.Errorf("day 1 = %v, want 2.5", series[1].Value)
	}
}

func TestBuildDailySeriesIgnoresOutOfRange(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"created_at": day(-1)},
		dataset.MapRow{"created_at": day(0)},
		dataset.MapRow{"created_at": day(3)},
	}

	series := BuildDailySeries(rows, day(0), day(3), "")

	var total float64
	for _, p := range series {
		total += p.Value
	}
	if total != 1 {
		t.Errorf("series total = %v, want 1 (rows outside the window excluded)", total)
	}
}

func TestSeriesSummary(t *testing.T) {
	series := []Point{
		{Date: day(0), Value: 2},
		{Date: day(1), Value: 8},
		{Date: day(2), Value: 5},
	}

	got := SeriesSummary(series)

	if got.Total != 15 || got.Mean != 5 || got.Min != 2 || got.Max != 8 || got.Days != 3 {
		t.Errorf("SeriesSummary() = %+v, want total 15 mean 5 min 2 max 8 days 3", got)
	}
}

func TestPeriodDelta(t *testing.T) {
	tests := []struct {
		name          string
		current       float64
		previous      float64
		wantPct       float64
		wantDirection string
	}{
		{"growth", 150, 100, 50, "up"},
		{"decline", 50, 100, -50, "down"},
		{"flat", 100, 100, 0, "flat"},
		{"from zero", 10, 0, 100, "up"},
		{"both zero", 0, 0, 0, "flat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodDelta(tt.current, tt.previous)
			if got.ChangePct != tt.wantPct {
				t.Errorf("ChangePct = %v, want %v", got.ChangePct, tt.wantPct)
			}
			if got.Direction != tt.wantDirection {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.wantDirection)
			}
		})
	}
}

func TestForecastProjectsTrailingMean(t *testing.T) {
	series := []Point{
		{Date: day(0), Value: 100}, // outside the window
		{Date: day(1), Value: 4},
		{Date: day(2), Value: 6},
	}

	got := Forecast(series, 2, 3)

	if len(got) != 3 {
		t.Fatalf("Forecast() returned %d points, want 3", len(got))
	}
	for i, p := range got {
		if p.Value != 5 {
			t.Errorf("forecast point %d = %v, want trailing mean 5", i, p.Value)
		}
		if !p.Date.Equal(day(3 + i)) {
			t.Errorf("forecast point %d date = %v, want %v", i, p.Date, day(3+i))
		}
	}
}

func TestForecastEmptySeries(t *testing.T) {
	if got := Forecast(nil, 7, 7); got != nil {
		t.Errorf("Forecast(nil) = %v, want nil", got)
	}
}

func TestDetectAnomalies(t *testing.T) {
	series := make([]Point, 0, 11)
	for i := 0; i < 10; i++ {
		series = append(series, Point{Date: day(i), Value: 10})
	}
	series = append(series, Point{Date: day(10), Value: 100})

	got := DetectAnomalies(series)

	if len(got) != 1 {
		t.Fatalf("DetectAnomalies() flagged %d points, want 1", len(got))
	}
	if !got[0].Date.Equal(day(10)) || got[0].Value != 100 {
		t.Errorf("anomaly = %+v, want the spike on day 10", got[0])
	}
	if got[0].Score <= anomalyBand {
		t.Errorf("anomaly score = %v, want > %v", got[0].Score, anomalyBand)
	}
}

func TestDetectAnomaliesFlatSeries(t *testing.T) {
	series := []Point{
		{Date: day(0), Value: 5},
		{Date: day(1), Value: 5},
		{Date: day(2), Value: 5},
	}
	if got := DetectAnomalies(series); got != nil {
		t.Errorf("DetectAnomalies(flat) = %v, want nil", got)
	}
}

func TestBreakdownTopCategories(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"channel": "web"},
		dataset.MapRow{"channel": "web"},
		dataset.MapRow{"channel": "web"},
		dataset.MapRow{"channel": "voice"},
		dataset.MapRow{"channel": "voice"},
		dataset.MapRow{"channel": "sms"},
	}

	got := Breakdown(rows, "channel", "", 2)

	if len(got) != 2 {
		t.Fatalf("Breakdown() returned %d entries, want limit 2", len(got))
	}
	if got[0].Category != "web" || got[0].Value != 3 {
		t.Errorf("top entry = %+v, want web with 3", got[0])
	}
	if got[0].Share != 0.5 {
		t.Errorf("top share = %v, want 0.5", got[0].Share)
	}
	if got[1].Category != "voice" {
		t.Errorf("second entry = %+v, want voice", got[1])
	}
}

func TestBreakdownMissingCategory(t *testing.T) {
	rows := []dataset.Row{
		dataset.MapRow{"channel": "web"},
		dataset.MapRow{},
	}

	got := Breakdown(rows, "channel", "", 0)

	if len(got) != 2 {
		t.Fatalf("Breakdown() returned %d entries, want 2", len(got))
	}
	found := false
	for _, e := range got {
		if e.Category == "unknown" && e.Value == 1 {
			found = true
		}
	}
	if !found {
		t.Error("rows without the category field must land under unknown")
	}
}

func TestQueryNormalizeDefaults(t *testing.T) {
	q := Query{}
	if err := q.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if q.TrendType != TrendTypeConversations {
		t.Errorf("TrendType = %q, want conversations default", q.TrendType)
	}
	if q.TimeRange != "30d" {
		t.Errorf("TimeRange = %q, want 30d default", q.TimeRange)
	}
	if q.Limit != 5 {
		t.Errorf("Limit = %d, want 5 default", q.Limit)
	}
	if q.Category != "channel" {
		t.Errorf("Category = %q, want channel default", q.Category)
	}
}

func TestQueryNormalizeUsageDefaults(t *testing.T) {
	q := Query{TrendType: TrendTypeUsage}
	if err := q.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if q.DataType != "calls" {
		t.Errorf("DataType = %q, want calls (usage sums call counts)", q.DataType)
	}
	if q.Category != "category" {
		t.Errorf("Category = %q, want category default", q.Category)
	}
}

func TestQueryNormalizeRejectsUnknowns(t *testing.T) {
	q := Query{TrendType: "payments"}
	if err := q.Normalize(); err == nil {
		t.Error("Normalize() accepted unknown trend type")
	}

	q = Query{TimeRange: "365d"}
	if err := q.Normalize(); err == nil {
		t.Error("Normalize() accepted unknown time range")
	}
}
