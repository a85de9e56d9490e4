package forecast

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/forecast"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/ui/components"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

// View renders the forecast tab.
func (m *Model) View() string {
	f := m.state.Forecast()

	if f.Loading && f.DayCount == 0 && !m.searching {
		return m.renderLoading(f.City)
	}

	sections := []string{m.renderHeader(f)}

	if m.searching {
		sections = append(sections, styles.FocusedBorderStyle.Render(m.search.View()), "")
	}
	if f.Notice != "" {
		sections = append(sections, styles.BannerStyle.Width(m.cardWidth()).Render(f.Notice))
	}
	if f.Error != "" {
		sections = append(sections, styles.ErrorBannerStyle.Width(m.cardWidth()).Render(f.Error))
	}

	if f.DayCount == 0 {
		if f.Error == "" {
			sections = append(sections, m.renderEmpty(f.City))
		}
	} else {
		m.updateTableData()
		sections = append(sections,
			styles.CardStyle.Width(m.cardWidth()).Render(m.table.View()),
			m.renderSelected(f.Days),
			m.renderChart(f.Days),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 60)
}

func (m *Model) renderLoading(city string) string {
	if city != "" {
		m.spinner.SetLabel(fmt.Sprintf("Fetching forecast for %s...", city))
	} else {
		m.spinner.SetLabel("Locating...")
	}
	return m.spinner.Centered(m.width, m.height)
}

// Heading returns the screen title for a forecast with dayCount days.
func Heading(dayCount int) string {
	if dayCount > 0 {
		return fmt.Sprintf("%d-Day Forecast", dayCount)
	}
	return "Forecast"
}

func (m *Model) renderHeader(f app.ForecastState) string {
	title := styles.TitleStyle.Render(Heading(f.DayCount))

	filterLabel := "All days"
	if n := m.Filter(); n > 0 {
		filterLabel = fmt.Sprintf("%d days", n)
	}
	filter := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Render("[f] " + filterLabel)

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", filter)

	var subtitle string
	switch {
	case f.Loading:
		subtitle = m.spinner.Glyph() + " " + styles.HelpStyle.Render(fmt.Sprintf("Updating %s...", f.City))
	case f.City != "":
		line := "📍 " + f.City
		if !f.UpdatedAt.IsZero() {
			line += " • updated " + f.UpdatedAt.Format("15:04")
		}
		subtitle = styles.HelpStyle.Render(line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderEmpty(city string) string {
	msg := "No forecast data available."
	if city != "" {
		msg = fmt.Sprintf("No forecast data available for %s.", city)
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.HelpStyle.Render(msg),
		styles.HelpStyle.Render("Press / to search for another city or r to retry."),
	))
}

// bounds returns the coldest low and warmest high of days.
func bounds(days []models.DailySummary) (floor, ceil int) {
	if len(days) == 0 {
		return 0, 0
	}
	floor, ceil = days[0].LowTemp, days[0].HighTemp
	for _, d := range days[1:] {
		floor = min(floor, d.LowTemp)
		ceil = max(ceil, d.HighTemp)
	}
	return floor, ceil
}

// rangeCells draws a plain text bar for table cells, which cannot hold
// styled text.
func rangeCells(low, high, floor, ceil, width int) string {
	start, end := components.Cells(low, high, floor, ceil, width)
	return strings.Repeat("·", start) + strings.Repeat("█", end-start) + strings.Repeat("·", width-end)
}

// updateTableData fills the table with the days allowed by the filter.
func (m *Model) updateTableData() {
	days := forecast.Limit(m.state.Forecast().Days, m.Filter())
	floor, ceil := bounds(days)

	cols := m.table.Columns()
	barWidth := cols[len(cols)-1].Width

	rows := make([]table.Row, 0, len(days))
	for _, d := range days {
		condition := d.Condition
		if d.IsSevere() {
			condition = "⚠ " + condition
		}
		rows = append(rows, table.Row{
			d.WeekdayLabel,
			forecast.Glyph(d.IconCode),
			condition,
			fmt.Sprintf("%d°/%d°", d.LowTemp, d.HighTemp),
			rangeCells(d.LowTemp, d.HighTemp, floor, ceil, barWidth),
		})
	}

	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) renderSelected(days []models.DailySummary) string {
	days = forecast.Limit(days, m.Filter())
	i := m.table.Cursor()
	if i < 0 || i >= len(days) {
		return ""
	}
	d := days[i]
	floor, ceil := bounds(days)

	title := fmt.Sprintf("%s %s  %s", forecast.Glyph(d.IconCode), d.WeekdayLabel, d.CalendarDate)
	rows := []string{
		styles.CardTitleStyle.Render(title),
		capitalize(d.Condition),
		"",
		m.rangeBar.ViewWithLabels(d.LowTemp, d.HighTemp, floor, ceil),
	}
	if d.IsSevere() {
		rows = append(rows, "", styles.SevereStyle.Render("Severe weather expected"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderChart(days []models.DailySummary) string {
	days = forecast.Limit(days, m.Filter())
	if len(days) < 2 {
		return ""
	}

	highs := make([]float64, len(days))
	lows := make([]float64, len(days))
	for i, d := range days {
		highs[i] = float64(d.HighTemp)
		lows[i] = float64(d.LowTemp)
	}

	chart := components.RenderRangeChart(highs, lows, max(m.cardWidth()-16, 30), 6,
		fmt.Sprintf("Daily high and low, %d days", len(days)))

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Temperature"))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
