// Package forecast reduces hourly weather samples into per-day summaries.
package forecast

import (
	"math"
	"strings"
	"time"

	"github.com/j-veylop/skycast/internal/models"
)

// Layouts of the timestamps produced by the weather API.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// DefaultIcon is used when the representative sample carries no icon.
const DefaultIcon = "01d"

// TodayLabel replaces the weekday name for the current local date.
const TodayLabel = "Today"

const middayMarker = "12:00:00"

type dayGroup struct {
	date  string
	items []models.HourlySample
}

// Aggregate groups samples by calendar date and reduces each group to a
// DailySummary. Groups keep the order in which their dates first appear.
// now decides which date is labelled "Today" and the location used for
// weekday names.
func Aggregate(samples []models.HourlySample, now time.Time) []models.DailySummary {
	groups := group(samples)
	days := make([]models.DailySummary, 0, len(groups))
	loc := now.Location()
	ty, tm, td := now.Date()

	for _, g := range groups {
		days = append(days, summarize(g, loc, ty, tm, td))
	}
	return days
}

func group(samples []models.HourlySample) []*dayGroup {
	var order []*dayGroup
	byDate := make(map[string]*dayGroup)

	for _, s := range samples {
		date := s.DatePrefix()
		g, ok := byDate[date]
		if !ok {
			g = &dayGroup{date: date}
			byDate[date] = g
			order = append(order, g)
		}
		g.items = append(g.items, s)
	}
	return order
}

func summarize(g *dayGroup, loc *time.Location, ty int, tm time.Month, td int) models.DailySummary {
	high, low := g.items[0].Temperature, g.items[0].Temperature
	for _, s := range g.items[1:] {
		high = math.Max(high, s.Temperature)
		low = math.Min(low, s.Temperature)
	}

	rep := representative(g.items)
	icon := rep.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	return models.DailySummary{
		CalendarDate: g.date,
		WeekdayLabel: weekdayLabel(g.date, loc, ty, tm, td),
		HighTemp:     Round(high),
		LowTemp:      Round(low),
		Condition:    rep.Description,
		IconCode:     icon,
	}
}

// representative picks the first midday sample, or the element at len/2.
// For even sizes this is the later of the two middle samples.
func representative(items []models.HourlySample) models.HourlySample {
	for _, s := range items {
		if strings.Contains(s.Timestamp, middayMarker) {
			return s
		}
	}
	return items[len(items)/2]
}

func weekdayLabel(date string, loc *time.Location, ty int, tm time.Month, td int) string {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return date
	}
	if y, m, dd := d.Date(); y == ty && m == tm && dd == td {
		return TodayLabel
	}
	return d.Weekday().String()
}

// Round rounds half up, so 20.5 becomes 21 and -20.5 becomes -20.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatHour renders a sample timestamp as a compact 12-hour label like "3PM".
// Unparsable timestamps yield "--".
func FormatHour(ts string) string {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return "--"
	}
	return t.Format("3PM")
}

// Limit returns at most n leading days. n <= 0 returns every day.
func Limit(days []models.DailySummary, n int) []models.DailySummary {
	if n <= 0 || n >= len(days) {
		return days
	}
	return days[:n]
}
