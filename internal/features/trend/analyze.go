package trend

import (
	"math"
	"sort"
	"time"

	"forwarddesk/internal/features/dataset"
)

// anomalyBand is the width of the acceptance band in standard
// deviations. Points outside mean +/- anomalyBand*stddev are flagged.
const anomalyBand = 2.0

// BuildDailySeries buckets rows into one point per day across
// [start, end). Days without rows appear with value 0 so the series is
// contiguous. With an empty valueField each row contributes 1,
// otherwise the named numeric field is summed.
func BuildDailySeries(rows []dataset.Row, start, end time.Time, valueField string) []Point {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC().Truncate(24 * time.Hour)
	if !end.After(start) {
		return nil
	}

	totals := make(map[time.Time]float64)
	for _, row := range rows {
		ts, ok := row.Field("created_at").(time.Time)
		if !ok {
			continue
		}
		day := ts.UTC().Truncate(24 * time.Hour)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		if valueField == "" {
			totals[day]++
		} else {
			totals[day] += numericValue(row.Field(valueField))
		}
	}

	days := int(end.Sub(start).Hours() / 24)
	series := make([]Point, 0, days)
	for day := start; day.Before(end); day = day.Add(24 * time.Hour) {
		series = append(series, Point{Date: day, Value: totals[day]})
	}
	return series
}

// SeriesSummary reduces a series to its headline numbers.
func SeriesSummary(series []Point) TrendSummary {
	if len(series) == 0 {
		return TrendSummary{}
	}

	summary := TrendSummary{
		Days: len(series),
		Min:  series[0].Value,
		Max:  series[0].Value,
	}
	for _, p := range series {
		summary.Total += p.Value
		if p.Value < summary.Min {
			summary.Min = p.Value
		}
		if p.Value > summary.Max {
			summary.Max = p.Value
		}
	}
	summary.Mean = summary.Total / float64(len(series))
	return summary
}

// PeriodDelta compares the current window total to the previous one.
// With a zero previous total the percentage is pinned to 100 when
// anything happened at all, so dashboards never divide by zero.
func PeriodDelta(current, previous float64) Delta {
	d := Delta{
		Current:  current,
		Previous: previous,
		Change:   current - previous,
	}

	switch {
	case previous != 0:
		d.ChangePct = (current - previous) / previous * 100
	case current != 0:
		d.ChangePct = 100
	}

	switch {
	case d.Change > 0:
		d.Direction = "up"
	case d.Change < 0:
		d.Direction = "down"
	default:
		d.Direction = "flat"
	}
	return d
}

// Forecast projects the mean of the trailing window forward horizon
// days. Naive by design: the callers want a reference line, not a
// model.
func Forecast(series []Point, window, horizon int) []Point {
	if len(series) == 0 || horizon <= 0 {
		return nil
	}
	if window <= 0 || window > len(series) {
		window = len(series)
	}

	var sum float64
	for _, p := range series[len(series)-window:] {
		sum += p.Value
	}
	mean := sum / float64(window)

	last := series[len(series)-1].Date
	out := make([]Point, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, Point{Date: last.Add(time.Duration(i) * 24 * time.Hour), Value: mean})
	}
	return out
}

// DetectAnomalies flags points outside mean +/- anomalyBand*stddev.
// A flat series has no spread and therefore no anomalies.
func DetectAnomalies(series []Point) []Anomaly {
	if len(series) < 2 {
		return nil
	}

	var sum float64
	for _, p := range series {
		sum += p.Value
	}
	mean := sum / float64(len(series))

	var variance float64
	for _, p := range series {
		variance += (p.Value - mean) * (p.Value - mean)
	}
	stddev := math.Sqrt(variance / float64(len(series)))
	if stddev == 0 {
		return nil
	}

	var anomalies []Anomaly
	for _, p := range series {
		score := (p.Value - mean) / stddev
		if math.Abs(score) > anomalyBand {
			anomalies = append(anomalies, Anomaly{Date: p.Date, Value: p.Value, Score: score})
		}
	}
	return anomalies
}

// Breakdown totals rows per category value and returns the top limit
// entries by value, each with its share of the window total. Rows with
// no category land under "unknown".
func Breakdown(rows []dataset.Row, field, valueField string, limit int) []BreakdownEntry {
	totals := make(map[string]float64)
	var windowTotal float64
	for _, row := range rows {
		category, _ := row.Field(field).(string)
		if category == "" {
			category = "unknown"
		}
		v := 1.0
		if valueField != "" {
			v = numericValue(row.Field(valueField))
		}
		totals[category] += v
		windowTotal += v
	}

	entries := make([]BreakdownEntry, 0, len(totals))
	for category, value := range totals {
		e := BreakdownEntry{Category: category, Value: value}
		if windowTotal != 0 {
			e.Share = value / windowTotal
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Category < entries[j].Category
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func numericValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}
