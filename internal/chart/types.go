package chart

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	SeriesLabel string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	// ShowValues prints each bar's value above it.
	ShowValues bool
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 560
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 4
)
