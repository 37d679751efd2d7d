// Package chart renders small inline SVG charts for the dashboard.
package chart

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data")

// Renderer draws bar charts. The zero value is ready to use.
type Renderer struct{}

// Bars renders a vertical bar chart with one bar per label.
func (Renderer) Bars(width, height int, series []float64, labels []string, opts BarOpts) (template.HTML, error) {
	return Bars(width, height, series, labels, opts)
}

// Bars renders a vertical bar chart with one bar per label. Negative values
// are drawn as zero-height bars.
func Bars(width, height int, series []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 || len(labels) == 0 {
		return "", ErrNoData
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("chart: series length %d does not match %d labels", len(series), len(labels))
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#e2e8f0")
	color := fallback(opts.Color, "#16a34a")
	seriesLabel := fallback(opts.SeriesLabel, "Value")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("chart: viewport too small")
	}

	maxVal := maxOf(series)
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartHeight / maxVal
	bottom := padding + chartHeight
	slot := chartWidth / float64(len(labels))
	barWidth := slot * 0.6

	titleID := makeID(opts.Title, "title")
	descID := makeID(opts.Title, "desc")

	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID)
	fmt.Fprintf(&b, "<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart")))
	fmt.Fprintf(&b, "<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, seriesLabel+" per category")))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := bottom - ratio*chartHeight
		fmt.Fprintf(&b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor)
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(maxVal*ratio)))
	}

	fmt.Fprintf(&b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>", padding, bottom, padding+chartWidth, bottom, axisColor)

	for i, label := range labels {
		value := series[i]
		if value < 0 {
			value = 0
		}
		h := value * scale
		x := padding + float64(i)*slot + (slot-barWidth)/2
		y := bottom - h
		fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, y, barWidth, h, color, template.HTMLEscapeString(label), template.HTMLEscapeString(formatTick(series[i])))
		center := x + barWidth/2
		if opts.ShowValues {
			fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, y-4, axisColor, template.HTMLEscapeString(formatTick(series[i])))
		}
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, bottom+14, axisColor, template.HTMLEscapeString(label))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
