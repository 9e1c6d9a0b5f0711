package output

import "github.com/charmbracelet/lipgloss"

// Styles is the lipgloss style set used for text-mode rendering.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
}

// newStyles builds the style set. When styled is false every style is a
// no-op, so piped output stays free of ANSI escape codes.
func newStyles(styled bool) *Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain,
			Header2: plain,
			Bold:    plain,
			Muted:   plain,
			Error:   plain,
			Warning: plain,
			Info:    plain,
			Success: plain,
		}
	}

	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Underline(true),
		Header2: lipgloss.NewStyle().Bold(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
