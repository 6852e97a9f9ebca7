// internal/web/chart_svg.go
package web

import (
	"fmt"
	"html/template"
	"strings"

	"askdata/internal/assistant/interaction"
)

const (
	chartWidth   = 500
	chartHeight  = 400
	chartPadLeft = 60
	chartPadBot  = 70
	chartPadTop  = 20
)

// renderChartSVG draws c as an inline SVG bar chart. All text is escaped.
func renderChartSVG(c *interaction.Chart) template.HTML {
	if c == nil || len(c.Bars) == 0 {
		return ""
	}

	plotW := float64(chartWidth - chartPadLeft - 10)
	plotH := float64(chartHeight - chartPadTop - chartPadBot)
	max := c.MaxValue()
	if max == 0 {
		max = 1
	}
	slot := plotW / float64(len(c.Bars))
	barW := slot * 0.7

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" width="%d" height="%d" viewBox="0 0 %d %d" role="img">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%.1f" stroke="#444"/>`,
		chartPadLeft, chartPadTop, chartPadLeft, chartPadTop+plotH)
	fmt.Fprintf(&sb, `<line x1="%d" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444"/>`,
		chartPadLeft, chartPadTop+plotH, chartPadLeft+plotW, chartPadTop+plotH)

	for i, b := range c.Bars {
		value := b.Value
		if value < 0 {
			value = 0
		}
		h := plotH * value / max
		x := float64(chartPadLeft) + slot*float64(i) + (slot-barW)/2
		y := chartPadTop + plotH - h
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#4c78a8"><title>%s: %s</title></rect>`,
			x, y, barW, h, template.HTMLEscapeString(b.Label), interaction.FormatCell(b.Value))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`,
			x+barW/2, chartPadTop+plotH+14, template.HTMLEscapeString(b.Label))
	}

	fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="12" text-anchor="middle">%s</text>`,
		chartPadLeft+plotW/2, chartHeight-10, template.HTMLEscapeString(c.XLabel))
	fmt.Fprintf(&sb, `<text x="14" y="%.1f" font-size="12" text-anchor="middle" transform="rotate(-90 14 %.1f)">%s</text>`,
		chartPadTop+plotH/2, chartPadTop+plotH/2, template.HTMLEscapeString(c.YLabel))
	fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="10" text-anchor="end">%s</text>`,
		chartPadLeft-4, chartPadTop+4, interaction.FormatCell(c.MaxValue()))
	sb.WriteString(`</svg>`)

	return template.HTML(sb.String())
}
