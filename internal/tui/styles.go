package tui

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Week     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Under    lipgloss.Style
	OK       lipgloss.Style
	Over     lipgloss.Style
	Tag      lipgloss.Style
	Box      lipgloss.Style
	Notice   map[string]lipgloss.Style
}

type palette struct {
	fg, bg, accent, muted, ok, warn, bad, info, border string
}

var palettes = map[string]palette{
	"dark": {
		fg: "#FAFAFA", bg: "#7D56F4", accent: "#4A90E2", muted: "#626262",
		ok: "#04B575", warn: "#F7DC6F", bad: "#FF6B6B", info: "#4A90E2", border: "#874BFD",
	},
	"light": {
		fg: "#FFFFFF", bg: "#5A3FC0", accent: "#1F5FAF", muted: "#8A8A8A",
		ok: "#0B7A4B", warn: "#B7791F", bad: "#C53030", info: "#1F5FAF", border: "#5A3FC0",
	},
}

// NewStyles returns the styles of theme ("dark" or "light"). Unknown themes
// fall back to dark.
func NewStyles(theme string) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["dark"]
	}
	color := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.fg)).
			Background(lipgloss.Color(p.bg)).
			Padding(0, 1),
		Header:   color(p.accent).Bold(true),
		Week:     color(p.accent),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Muted:    color(p.muted),
		Under:    color(p.bad),
		OK:       color(p.ok),
		Over:     color(p.warn),
		Tag:      color(p.info).Italic(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Notice: map[string]lipgloss.Style{
			"success": color(p.ok),
			"info":    color(p.info),
			"warning": color(p.warn),
			"error":   color(p.bad).Bold(true),
		},
	}
}
