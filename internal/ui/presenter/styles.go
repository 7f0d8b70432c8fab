package presenter

import "github.com/charmbracelet/lipgloss"

// palette is one of the two themes selected by the shell's dark mode flag.
type palette struct {
	title    lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	danger   lipgloss.Style
	cell     lipgloss.Style
	answered lipgloss.Style
	cursor   lipgloss.Style
	banner   lipgloss.Style
}

func newPalette(dark bool) palette {
	fg, muted, accent := lipgloss.Color("235"), lipgloss.Color("244"), lipgloss.Color("25")
	if dark {
		fg, muted, accent = lipgloss.Color("252"), lipgloss.Color("242"), lipgloss.Color("75")
	}
	success, danger := lipgloss.Color("34"), lipgloss.Color("160")
	cell := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Foreground(fg).
		Width(8).
		Align(lipgloss.Center)
	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		text:     lipgloss.NewStyle().Foreground(fg),
		muted:    lipgloss.NewStyle().Foreground(muted),
		accent:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		success:  lipgloss.NewStyle().Bold(true).Foreground(success),
		danger:   lipgloss.NewStyle().Bold(true).Foreground(danger),
		cell:     cell,
		answered: cell.BorderForeground(success).Foreground(muted),
		cursor:   cell.BorderForeground(accent).Bold(true),
		banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(success).
			Padding(0, 2).
			MarginTop(1),
	}
}
