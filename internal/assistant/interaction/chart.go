// internal/assistant/interaction/chart.go
package interaction

import (
	"fmt"
	"strconv"
	"strings"

	"askdata/internal/models"
)

const (
	noteTooFewColumns = "Chart needs at least two columns; showing the table only."
	noteNonNumeric    = "Some values in %s are not numeric and are charted as 0."
)

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a bar chart of the first column (categories) against the
// second (values).
type Chart struct {
	XLabel string `json:"xLabel"`
	YLabel string `json:"yLabel"`
	Bars   []Bar  `json:"bars"`
}

// MaxValue is the largest bar, floored at 0.
func (c *Chart) MaxValue() float64 {
	max := 0.0
	for _, b := range c.Bars {
		if b.Value > max {
			max = b.Value
		}
	}
	return max
}

// BuildChart returns nil and a note when result cannot be charted.
func BuildChart(result *models.QueryResult) (*Chart, string) {
	if result.IsEmpty() {
		return nil, ""
	}
	if len(result.Columns) < 2 {
		return nil, noteTooFewColumns
	}

	labels, values := result.Column(0), result.Column(1)
	chart := &Chart{
		XLabel: result.Columns[0],
		YLabel: result.Columns[1],
		Bars:   make([]Bar, 0, len(labels)),
	}
	nonNumeric := false
	for i, label := range labels {
		value, ok := toFloat(values[i])
		if !ok {
			nonNumeric = true
		}
		chart.Bars = append(chart.Bars, Bar{Label: FormatCell(label), Value: value})
	}

	note := ""
	if nonNumeric {
		note = fmt.Sprintf(noteNonNumeric, chart.YLabel)
	}
	return chart, note
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatCell renders one result value as table text. NULL is blank.
func FormatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
