package models

import "fmt"

type FilterOperator string

const (
	OpEq      FilterOperator = "eq"
	OpNeq     FilterOperator = "neq"
	OpGt      FilterOperator = "gt"
	OpGte     FilterOperator = "gte"
	OpLt      FilterOperator = "lt"
	OpLte     FilterOperator = "lte"
	OpIn      FilterOperator = "in"
	OpBetween FilterOperator = "between"
)

// Filter is a declarative predicate on a row field. Value is a scalar
// for comparison operators, a list for "in" and a [lower, upper] pair
// (inclusive both ends) for "between".
type Filter struct {
	Field    string         `json:"field" bson:"field"`
	Operator FilterOperator `json:"operator" bson:"operator"`
	Value    interface{}    `json:"value" bson:"value"`
}

// Validate rejects malformed filters up front so a bad config never
// reaches storage.
func (f Filter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("filter field is required")
	}
	switch f.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		return nil
	case OpIn:
		if _, ok := asSlice(f.Value); !ok {
			return fmt.Errorf("filter %q: operator in requires an array value", f.Field)
		}
		return nil
	case OpBetween:
		arr, ok := asSlice(f.Value)
		if !ok {
			return fmt.Errorf("filter %q: operator between requires an array value", f.Field)
		}
		if len(arr) != 2 {
			return fmt.Errorf("filter %q: operator between requires exactly 2 elements, got %d", f.Field, len(arr))
		}
		return nil
	default:
		return fmt.Errorf("filter %q: unknown operator %q", f.Field, f.Operator)
	}
}

// Values returns the filter value as a slice, for in/between operators.
func (f Filter) Values() []interface{} {
	arr, _ := asSlice(f.Value)
	return arr
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch arr := v.(type) {
	case []interface{}:
		return arr, true
	case []string:
		out := make([]interface{}, len(arr))
		for i, s := range arr {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(arr))
		for i, n := range arr {
			out[i] = n
		}
		return out, true
	case []int:
		out := make([]interface{}, len(arr))
		for i, n := range arr {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
