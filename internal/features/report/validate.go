package report

import (
	"github.com/d5/tengo/v2"
)

// Validate checks a config against the invariants the engine relies on.
// Called before any storage query; a failure here is a ConfigurationError.
func (c *ReportConfig) Validate() error {
	if len(c.Metrics) == 0 {
		return configErrorf("at least one metric is required")
	}

	seen := make(map[string]bool, len(c.Metrics))
	for _, m := range c.Metrics {
		if m.Name == "" {
			return configErrorf("metric name is required")
		}
		if seen[m.Name] {
			return configErrorf("duplicate metric name %q", m.Name)
		}
		seen[m.Name] = true

		if !m.Aggregation.Valid() {
			return configErrorf("metric %q: unknown aggregation %q", m.Name, m.Aggregation)
		}
		if m.Aggregation != AggregationCount && m.Field == "" {
			return configErrorf("metric %q: field is required for aggregation %q", m.Name, m.Aggregation)
		}
	}

	for name, f := range c.Filters {
		if err := f.Validate(); err != nil {
			return configErrorf("filter %q: %v", name, err)
		}
	}

	computed := make(map[string]bool, len(c.ComputedFields))
	for _, cf := range c.ComputedFields {
		if cf.Name == "" {
			return configErrorf("computed field name is required")
		}
		if computed[cf.Name] {
			return configErrorf("duplicate computed field %q", cf.Name)
		}
		computed[cf.Name] = true

		// Compile once up front so a bad script never reaches the
		// per-row evaluation loop.
		script := tengo.NewScript([]byte(cf.Expression))
		if err := script.Add("row", map[string]interface{}{}); err != nil {
			return configErrorf("computed field %q: %v", cf.Name, err)
		}
		if _, err := script.Compile(); err != nil {
			return configErrorf("computed field %q: %v", cf.Name, err)
		}
	}

	return nil
}

// ValidateRequest checks the full run request, report type included.
func ValidateRequest(req *RunRequest) error {
	if !req.Type.Valid() {
		return configErrorf("unknown report type %q", req.Type)
	}
	return req.Config.Validate()
}
