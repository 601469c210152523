// ABOUTME: Fixes the lipgloss background to dark before Bubble Tea initialises
// ABOUTME: Import with _ ahead of any package that pulls in bubbletea

package termfix

import "github.com/charmbracelet/lipgloss"

// Setting the background up front skips the OSC 10/11 query lipgloss would
// otherwise send; its reply can arrive late and land in the chat input.
// This package must not import bubbletea, directly or transitively.
func init() {
	lipgloss.SetHasDarkBackground(true)
}
