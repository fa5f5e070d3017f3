package models

// Metric binds a nullable numeric column to the struct field holding it.
//
// Value points at the field itself so repositories can scan into it and
// validators/exporters can read it without reflection.
type Metric struct {
	Column string
	Value  **float64
}

// MetricMap flattens metrics into a column -> value map; nil values are kept as nil.
func MetricMap(ms []Metric) map[string]*float64 {
	out := make(map[string]*float64, len(ms))
	for _, m := range ms {
		out[m.Column] = *m.Value
	}
	return out
}

// Columns lists the column names of ms in order.
func Columns(ms []Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Column
	}
	return out
}
