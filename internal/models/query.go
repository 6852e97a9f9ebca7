// internal/models/query.go
package models

// QueryResult is a tabular result: column names in select order and rows
// aligned with them. Values are nil (NULL), string, int64, float64 or bool.
type QueryResult struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Truncated bool            `json:"truncated,omitempty"`
}

// IsEmpty reports a result with zero rows.
func (r *QueryResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// Column returns the values of column i across all rows.
func (r *QueryResult) Column(i int) []interface{} {
	out := make([]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		if i < len(row) {
			out = append(out, row[i])
		} else {
			out = append(out, nil)
		}
	}
	return out
}
