// cmd/tools/askdata-cli/render.go
package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"askdata/internal/assistant/interaction"
	"askdata/internal/models"
)

const barWidth = 40

func renderSubmit(w io.Writer, view *interaction.SubmitView) {
	fmt.Fprintf(w, "User: %s\n", view.Question)
	if view.Degraded {
		color.New(color.FgRed).Fprintf(w, "AskData: %s\n", view.Answer)
	} else {
		fmt.Fprintf(w, "AskData: %s\n", view.Answer)
	}

	if view.ErrorMessage != "" {
		color.New(color.FgRed).Fprintln(w, view.ErrorMessage)
	}
	if view.Message != "" {
		fmt.Fprintln(w, view.Message)
	}
	if view.Result != nil {
		fmt.Fprintln(w)
		renderTable(w, view.Result)
	}
	if view.Chart != nil {
		fmt.Fprintln(w)
		renderBars(w, view.Chart)
	}
	if view.ChartNote != "" {
		color.New(color.FgYellow).Fprintln(w, view.ChartNote)
	}
}

func renderTable(w io.Writer, result *models.QueryResult) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(result.Columns)

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = interaction.FormatCell(v)
		}
		table.Append(cells)
	}
	table.Render()

	if result.Truncated {
		fmt.Fprintf(w, "(first %d rows)\n", len(result.Rows))
	}
}

func renderBars(w io.Writer, chart *interaction.Chart) {
	fmt.Fprintf(w, "%s by %s\n", chart.YLabel, chart.XLabel)

	labelWidth := 0
	for _, b := range chart.Bars {
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
	}

	max := chart.MaxValue()
	for _, b := range chart.Bars {
		n := 0
		if max > 0 && b.Value > 0 {
			n = int(math.Round(b.Value / max * barWidth))
		}
		fmt.Fprintf(w, "%-*s | %s %s\n", labelWidth, b.Label, strings.Repeat("#", n), interaction.FormatCell(b.Value))
	}
}
