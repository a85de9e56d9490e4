// Package components provides reusable UI components for the TUI.
package components

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/skycast/internal/ui/styles"
)

const noData = "No data available"

// RenderTempChart plots hourly temperatures as an ASCII line chart.
func RenderTempChart(temps []float64, width, height int, caption string) string {
	if len(temps) == 0 {
		return styles.HelpStyle.Render(noData)
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(temps,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Orange),
		asciigraph.Caption(caption),
	)
}

// RenderRangeChart plots daily highs and lows as two series.
func RenderRangeChart(highs, lows []float64, width, height int, caption string) string {
	if len(highs) == 0 && len(lows) == 0 {
		return styles.HelpStyle.Render(noData)
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// Pad the shorter series so both share the x axis
	n := max(len(highs), len(lows))
	h := make([]float64, n)
	l := make([]float64, n)
	copy(h, highs)
	copy(l, lows)

	return asciigraph.PlotMany([][]float64{h, l},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Orange, asciigraph.DeepSkyBlue),
		asciigraph.SeriesLegends("high", "low"),
	)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline. Values are scaled
// between their own min and max so negative temperatures work.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}
