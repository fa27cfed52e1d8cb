package report

import (
	"time"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/features/dataset"
)

// MatchRow applies one filter to a row in memory. Storage-side
// predicates cover the primary sources; this path serves computed
// fields and anything already fetched.
func MatchRow(row dataset.Row, f common_models.Filter) bool {
	value := row.Field(f.Field)

	switch f.Operator {
	case common_models.OpEq:
		return valuesEqual(value, f.Value)
	case common_models.OpNeq:
		return !valuesEqual(value, f.Value)
	case common_models.OpGt:
		cmp, ok := compareValues(value, f.Value)
		return ok && cmp > 0
	case common_models.OpGte:
		cmp, ok := compareValues(value, f.Value)
		return ok && cmp >= 0
	case common_models.OpLt:
		cmp, ok := compareValues(value, f.Value)
		return ok && cmp < 0
	case common_models.OpLte:
		cmp, ok := compareValues(value, f.Value)
		return ok && cmp <= 0
	case common_models.OpIn:
		for _, candidate := range f.Values() {
			if valuesEqual(value, candidate) {
				return true
			}
		}
		return false
	case common_models.OpBetween:
		bounds := f.Values()
		low, okLow := compareValues(value, bounds[0])
		high, okHigh := compareValues(value, bounds[1])
		return okLow && okHigh && low >= 0 && high <= 0
	}
	return false
}

// MatchAll is the conjunction over a filter map.
func MatchAll(row dataset.Row, filters map[string]common_models.Filter) bool {
	for _, f := range filters {
		if !MatchRow(row, f) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	if na, ok := toFloat(a); ok {
		if nb, ok := toFloat(b); ok {
			return na == nb
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return a == b
}

// compareValues orders two values: numbers numerically, dates
// chronologically, strings lexically. The caller guarantees comparable
// types; mixed types report not-ok.
func compareValues(a, b interface{}) (int, bool) {
	if na, ok := toFloat(a); ok {
		if nb, ok := toFloat(b); ok {
			switch {
			case na < nb:
				return -1, true
			case na > nb:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			switch {
			case ta.Before(tb):
				return -1, true
			case ta.After(tb):
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			switch {
			case sa < sb:
				return -1, true
			case sa > sb:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	return 0, false
}
