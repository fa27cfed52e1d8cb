package report

import (
	"fmt"

	"forwarddesk/internal/features/dataset"

	"github.com/d5/tengo/v2"
)

// computedRow overlays derived values on a source row; lookups fall
// through to the base record.
type computedRow struct {
	base  dataset.Row
	extra map[string]interface{}
}

func (r computedRow) Field(name string) interface{} {
	if v, ok := r.extra[name]; ok {
		return v
	}
	return r.base.Field(name)
}

// ApplyComputedFields evaluates each configured expression per row and
// returns rows extended with the derived columns. Earlier computed
// fields are visible to later ones.
func ApplyComputedFields(rows []dataset.Row, fields []ComputedField, columns []dataset.Column) ([]dataset.Row, error) {
	if len(fields) == 0 {
		return rows, nil
	}

	compiled := make([]*tengo.Compiled, len(fields))
	for i, cf := range fields {
		script := tengo.NewScript([]byte(cf.Expression))
		if err := script.Add("row", map[string]interface{}{}); err != nil {
			return nil, configErrorf("computed field %q: %v", cf.Name, err)
		}
		c, err := script.Compile()
		if err != nil {
			return nil, configErrorf("computed field %q: %v", cf.Name, err)
		}
		compiled[i] = c
	}

	out := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		extra := make(map[string]interface{}, len(fields))
		for i, cf := range fields {
			rowMap := rowAsMap(row, columns)
			for k, v := range extra {
				rowMap[k] = v
			}

			c := compiled[i].Clone()
			if err := c.Set("row", rowMap); err != nil {
				return nil, fmt.Errorf("computed field %q: %w", cf.Name, err)
			}
			if err := c.Run(); err != nil {
				return nil, fmt.Errorf("computed field %q: %w", cf.Name, err)
			}
			extra[cf.Name] = c.Get("out").Value()
		}
		out = append(out, computedRow{base: row, extra: extra})
	}
	return out, nil
}

// rowAsMap projects the declared columns of a row into a plain map the
// script can index.
func rowAsMap(row dataset.Row, columns []dataset.Column) map[string]interface{} {
	m := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		if v := row.Field(col.Field); v != nil {
			m[col.Field] = v
		}
	}
	return m
}
