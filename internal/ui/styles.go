package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasknest/internal/settings"
	"github.com/nibzard/tasknest/internal/todo"
)

type styles struct {
	title     lipgloss.Style
	heading   lipgloss.Style
	faint     lipgloss.Style
	err       lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	barFill   lipgloss.Style
	barEmpty  lipgloss.Style
	high      lipgloss.Style
	medium    lipgloss.Style
	low       lipgloss.Style
}

// accents maps a theme to its highlight color.
var accents = map[settings.Theme]lipgloss.Color{
	settings.ThemeDark:  lipgloss.Color("#6366F1"),
	settings.ThemeLight: lipgloss.Color("#4338CA"),
	settings.ThemeBlue:  lipgloss.Color("#3B82F6"),
	settings.ThemeGreen: lipgloss.Color("#10B981"),
}

func newStyles(s settings.Settings) styles {
	accent, ok := accents[s.Theme]
	if !ok {
		accent = accents[settings.ThemeDark]
	}
	text := lipgloss.Color("#F8FAFC")
	muted := lipgloss.Color("#94A3B8")
	if !s.IsDark() {
		text = lipgloss.Color("#0F172A")
		muted = lipgloss.Color("#64748B")
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(text),
		heading:   lipgloss.NewStyle().Bold(true).Foreground(text),
		faint:     lipgloss.NewStyle().Foreground(muted),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		tab:       lipgloss.NewStyle().Foreground(muted),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(accent),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:      lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		barFill:   lipgloss.NewStyle().Foreground(accent),
		barEmpty:  lipgloss.NewStyle().Foreground(muted),
		high:      lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		medium:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		low:       lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	}
}

// priority renders the colored priority marker.
func (s styles) priority(p todo.Priority) string {
	switch p {
	case todo.PriorityHigh:
		return s.high.Render("●")
	case todo.PriorityMedium:
		return s.medium.Render("●")
	default:
		return s.low.Render("●")
	}
}
