package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/skycast/internal/ui/styles"
)

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner is a globe spinner followed by a status line such as
// "Fetching weather for Lagos...".
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New(
		spinner.WithSpinner(spinner.Globe),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)
	return LoadingSpinner{spinner: s, label: label}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on spinner ticks.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// SetLabel replaces the status line.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Glyph renders the current animation frame only.
func (l LoadingSpinner) Glyph() string {
	return l.spinner.View()
}

// View renders the glyph and the status line.
func (l LoadingSpinner) View() string {
	if l.label == "" {
		return l.spinner.View()
	}
	return l.spinner.View() + " " + spinnerLabelStyle.Render(l.label)
}

// Centered renders the spinner in the middle of a width x height area.
func (l LoadingSpinner) Centered(width, height int) string {
	return styles.CenterBoth(l.View(), width, height)
}
