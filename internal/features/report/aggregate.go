package report

import (
	"fmt"
	"strconv"
	"time"

	"forwarddesk/internal/features/dataset"
)

// Aggregate partitions rows by the exact value of groupByField and
// computes every metric per partition. Group order is insertion order
// of first occurrence; callers wanting sorted output sort explicitly.
// Distinct raw values are distinct groups — no coercion, no binning, so
// grouping by an untruncated timestamp yields one group per unique
// timestamp.
func Aggregate(rows []dataset.Row, groupByField string, metrics []Metric, excludeMissing bool) []map[string]interface{} {
	groups := make(map[string][]dataset.Row)
	var order []string
	labels := make(map[string]interface{})

	for _, row := range rows {
		value := row.Field(groupByField)
		key := groupKey(value)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			labels[key] = value
		}
		groups[key] = append(groups[key], row)
	}

	result := make([]map[string]interface{}, 0, len(order))
	for _, key := range order {
		out := map[string]interface{}{groupByField: labels[key]}
		for _, m := range metrics {
			out[m.Name] = computeMetric(groups[key], m, excludeMissing)
		}
		result = append(result, out)
	}
	return result
}

// Summarize computes every metric over the ungrouped row set. Total is
// the raw row count.
func Summarize(rows []dataset.Row, metrics []Metric, excludeMissing bool) Summary {
	aggregates := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		aggregates[m.Name] = computeMetric(rows, m, excludeMissing)
	}
	return Summary{Total: len(rows), Aggregates: aggregates}
}

func computeMetric(rows []dataset.Row, m Metric, excludeMissing bool) float64 {
	if m.Aggregation == AggregationCount {
		return float64(len(rows))
	}

	var (
		sum     float64
		minimum float64
		maximum float64
		present int
		first   = true
	)

	for _, row := range rows {
		n, ok := toFloat(row.Field(m.Field))
		if !ok {
			if excludeMissing {
				continue
			}
			// Inherited behavior: missing/non-numeric coerces to 0,
			// which also pulls min/max toward zero.
			n = 0
		}
		present++
		sum += n
		if first {
			minimum, maximum = n, n
			first = false
		} else {
			if n < minimum {
				minimum = n
			}
			if n > maximum {
				maximum = n
			}
		}
	}

	switch m.Aggregation {
	case AggregationSum:
		return sum
	case AggregationAvg:
		// Denominator is group size unless missing values are excluded.
		denom := len(rows)
		if excludeMissing {
			denom = present
		}
		if denom == 0 {
			return 0
		}
		return sum / float64(denom)
	case AggregationMin:
		return minimum
	case AggregationMax:
		return maximum
	}
	return 0
}

// groupKey renders the raw group value into a map key without merging
// distinct values. Times keep nanosecond precision.
func groupKey(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "\x00nil"
	case string:
		return "s:" + val
	case time.Time:
		return "t:" + val.Format(time.RFC3339Nano)
	case bool:
		return "b:" + strconv.FormatBool(val)
	default:
		if n, ok := toFloat(v); ok {
			return "n:" + strconv.FormatFloat(n, 'f', -1, 64)
		}
		return fmt.Sprintf("v:%v", v)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
