package places

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/ui/styles"
	"github.com/j-veylop/skycast/internal/version"
)

// View renders the places tab.
func (m *Model) View() string {
	places := m.state.Places()
	m.clampSelection(len(places))

	sections := []string{
		m.renderTitle(len(places)),
		m.renderPlaces(places),
	}
	if m.confirmDelete {
		sections = append(sections, m.renderDeleteConfirm())
	}
	sections = append(sections,
		m.renderActivity(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderTitle(count int) string {
	title := styles.TitleStyle.Render("Places")
	noun := "places"
	if count == 1 {
		noun = "place"
	}
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d saved %s", count, noun))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderPlaces(places []models.Place) string {
	rows := []string{styles.CardTitleStyle.Render("Saved Places")}

	if len(places) == 0 {
		rows = append(rows,
			styles.HelpStyle.Render("No saved places"),
			"",
			styles.InfoTextStyle.Render("╰─▶ Press a to save the city shown on Home"),
		)
	}

	for i, p := range places {
		line := p.Label()
		if !p.AddedAt.IsZero() {
			line += styles.HelpStyle.Render("  added " + p.AddedAt.Format("Jan 2"))
		}
		if i == m.selected {
			rows = append(rows, styles.SelectedListItemStyle.Render(line))
		} else {
			rows = append(rows, styles.ListItemStyle.Render(line))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDeleteConfirm() string {
	msg := fmt.Sprintf("Delete %s? (y/n)", m.deleteTarget.Label())
	return styles.ErrorBannerStyle.Width(m.cardWidth()).Render(msg)
}

func (m *Model) renderActivity() string {
	log := m.state.FetchLog()
	rows := []string{styles.CardTitleStyle.Render("Recent Activity")}

	if s := log.Stats; s != nil && s.TotalCalls > 0 {
		rows = append(rows, styles.HelpDescStyle.Render(fmt.Sprintf(
			"%d API calls, %d failed, avg %.0f ms", s.TotalCalls, s.FailedCalls, s.AvgDurationMs)), "")
	}

	if len(log.Records) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No API calls yet"))
	}
	for _, r := range log.Records {
		rows = append(rows, renderFetch(r))
	}

	if len(log.Searches) > 0 {
		rows = append(rows, "", styles.SubTitleStyle.Render("Recent searches"))
		names := make([]string, 0, len(log.Searches))
		for _, s := range log.Searches {
			names = append(names, fmt.Sprintf("%s (%s)", s.City, s.Source))
		}
		rows = append(rows, strings.Join(names, ", "))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderFetch(r models.FetchRecord) string {
	status := styles.SuccessTextStyle.Render(fmt.Sprintf("%d", r.StatusCode))
	if r.Failed() {
		label := r.Error
		if label == "" {
			label = fmt.Sprintf("%d", r.StatusCode)
		}
		status = styles.ErrorTextStyle.Render(label)
	}

	return fmt.Sprintf("%s  %-8s %-16s %s %s",
		styles.HelpStyle.Render(r.Timestamp.Format("15:04:05")),
		r.Endpoint,
		r.City,
		status,
		styles.HelpStyle.Render(fmt.Sprintf("%dms", r.DurationMs)),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config != nil {
		rows = append(rows,
			m.renderConfigRow("Weather API", m.config.APIBaseURL),
			m.renderConfigRow("Default City", m.config.DefaultCity),
			m.renderConfigRow("Places File", m.config.PlacesPath),
			m.renderConfigRow("Location File", m.config.LocationPath),
			m.renderConfigRow("Database", m.config.DatabasePath),
			m.renderConfigRow("Rate Limit", fmt.Sprintf("%.1f req/s, burst %d", m.config.RateLimit, m.config.RateBurst)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About skycast"),
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Commit", version.GetCommit()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
