package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/forecast"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/ui/components"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

const deniedHint = "To use your location, write {\"permission\":\"granted\",\"latitude\":..,\"longitude\":..} to the location file, or press / to search."

// View renders the home tab.
func (m *Model) View() string {
	h := m.state.Home()

	if h.Loading && h.Current == nil && !m.searching {
		return m.renderLoading(h.City)
	}

	sections := []string{m.renderTitle(h)}

	if m.searching {
		sections = append(sections, styles.FocusedBorderStyle.Render(m.search.View()), "")
	}
	if h.Notice != "" {
		sections = append(sections, m.renderNotice(h))
	}
	if h.Error != "" {
		sections = append(sections, styles.ErrorBannerStyle.Render(h.Error))
	}

	if h.Current != nil {
		sections = append(sections, m.renderCurrent(h.Current))
		if len(h.Hourly) > 0 {
			sections = append(sections, m.renderHourly(h.Hourly), m.renderChart(h.Hourly))
		}
	} else if h.Error == "" && !h.Loading {
		sections = append(sections, styles.HelpStyle.Render("Press / to search for a city."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading(city string) string {
	if city != "" {
		m.spinner.SetLabel(fmt.Sprintf("Fetching weather for %s...", city))
	} else {
		m.spinner.SetLabel("Locating...")
	}
	return m.spinner.Centered(m.width, m.height)
}

func (m *Model) renderTitle(h app.HomeState) string {
	title := styles.TitleStyle.Render("Current Weather")

	var status string
	switch {
	case h.Loading:
		status = m.spinner.Glyph() + " " + styles.HelpStyle.Render("updating")
	case !h.UpdatedAt.IsZero():
		status = styles.HelpStyle.Render("Updated " + h.UpdatedAt.Format("15:04"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status), "")
}

func (m *Model) renderNotice(h app.HomeState) string {
	notice := h.Notice
	if h.Reason == models.ReasonDenied {
		notice += "\n" + styles.HelpStyle.Render(deniedHint)
	}
	return styles.BannerStyle.Width(m.cardWidth()).Render(notice)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderCurrent(c *models.CurrentConditions) string {
	place := c.Location
	if c.Country != "" {
		place = fmt.Sprintf("%s, %s", c.Location, c.Country)
	}

	temp := forecast.Round(c.Temperature)
	big := lipgloss.JoinHorizontal(lipgloss.Center,
		forecast.GlyphOr(c.Icon, "❓"),
		"  ",
		styles.BigTempStyle.Foreground(styles.TempColor(temp)).Render(fmt.Sprintf("%d°C", temp)),
	)

	metrics := strings.Join([]string{
		fmt.Sprintf("Feels like %d°C", forecast.Round(c.FeelsLike)),
		fmt.Sprintf("Wind %d km/h", forecast.Round(c.WindKmh())),
		fmt.Sprintf("Humidity %d%%", c.Humidity),
	}, styles.HelpStyle.Render("  •  "))

	rows := []string{
		styles.CardTitleStyle.Render(place + " 📍"),
		big,
		"",
		styles.SubTitleStyle.Render(capitalize(c.Description)),
		styles.HelpDescStyle.Render(metrics),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHourly(samples []models.HourlySample) string {
	n := min(len(samples), hourlyCells, max(m.cardWidth()/styles.HourCellStyle.GetWidth(), 1))

	cells := make([]string, 0, n)
	for _, s := range samples[:n] {
		temp := forecast.Round(s.Temperature)
		cells = append(cells, styles.HourCellStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			styles.HelpStyle.Render(forecast.FormatHour(s.Timestamp)),
			forecast.GlyphOr(s.Icon, "❓"),
			styles.TempStyle(temp).Render(fmt.Sprintf("%d°", temp)),
		)))
	}

	rows := []string{
		styles.CardTitleStyle.Render("Hourly"),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderChart(samples []models.HourlySample) string {
	temps := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.Temperature
	}

	chartWidth := max(m.cardWidth()-16, 30)
	chart := components.RenderTempChart(temps, chartWidth, 6, "Temperature °C, 3-hour steps")

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Trend"))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "", "  "+components.RenderSparkline(temps, min(len(temps), 40)))

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
