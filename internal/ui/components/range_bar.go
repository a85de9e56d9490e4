package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

const (
	coldHex = "#5fafff"
	hotHex  = "#ff8700"
)

// RangeBar draws a day's low..high span inside the week's overall range.
type RangeBar struct {
	progress progress.Model
}

// NewRangeBar creates a range bar with a cold to hot gradient.
func NewRangeBar(width int) RangeBar {
	p := progress.New(
		progress.WithScaledGradient(coldHex, hotHex),
		progress.WithWidth(max(width, 5)),
		progress.WithoutPercentage(),
	)
	return RangeBar{progress: p}
}

// SetWidth sets the bar width in cells.
func (r *RangeBar) SetWidth(width int) {
	r.progress.Width = max(width, 5)
}

// Width returns the bar width in cells.
func (r RangeBar) Width() int {
	return r.progress.Width
}

// Cells returns the first and last filled cell for low..high within
// floor..ceil. Out of range values are clamped.
func Cells(low, high, floor, ceil, width int) (start, end int) {
	if width < 1 {
		return 0, 0
	}
	if low > high {
		low, high = high, low
	}
	if floor > ceil {
		floor, ceil = ceil, floor
	}
	span := ceil - floor
	if span == 0 {
		return 0, width
	}

	scale := func(v int) int {
		v = max(floor, min(v, ceil))
		return int(float64(v-floor) / float64(span) * float64(width))
	}
	start, end = scale(low), scale(high)
	if end == start {
		// A one degree day still gets a visible cell
		if end < width {
			end++
		} else {
			start--
		}
	}
	return start, end
}

// View renders the bar for one day.
func (r RangeBar) View(low, high, floor, ceil int) string {
	width := r.progress.Width
	start, end := Cells(low, high, floor, ceil, width)

	// Fill up to the high mark, then blank out the cells below the low mark
	filled := r.progress.ViewAs(float64(end) / float64(width))
	if start > 0 {
		lead := lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("░", start))
		filled = lead + ansi.TruncateLeft(filled, start, "")
	}
	return filled
}

// ViewWithLabels renders the bar between the low and high temperatures.
func (r RangeBar) ViewWithLabels(low, high, floor, ceil int) string {
	lowStr := styles.TempStyle(low).Width(4).Align(lipgloss.Right).Render(fmt.Sprintf("%d°", low))
	highStr := styles.TempStyle(high).Width(4).Render(fmt.Sprintf("%d°", high))
	return lipgloss.JoinHorizontal(lipgloss.Center, lowStr, " ", r.View(low, high, floor, ceil), " ", highStr)
}

// RenderGradientBar renders a plain gradient bar filled to percent (0-100).
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(coldHex, hotHex, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
