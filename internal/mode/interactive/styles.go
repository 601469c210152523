// ABOUTME: Lipgloss styles for the chat transcript and input line
// ABOUTME: Locked clarification cards switch to the muted palette

package interactive

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header   lipgloss.Style
	user     lipgloss.Style
	message  lipgloss.Style
	question lipgloss.Style
	answer   lipgloss.Style
	muted    lipgloss.Style
	focused  lipgloss.Style
	summary  lipgloss.Style
	errorMsg lipgloss.Style
	card     lipgloss.Style
	locked   lipgloss.Style
	hint     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		user:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		message:  lipgloss.NewStyle().Italic(true),
		question: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		summary:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		locked: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		hint: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
