package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("211")
	colorMuted   = lipgloss.Color("241")
	colorGood    = lipgloss.Color("78")
	colorBad     = lipgloss.Color("203")
	colorAccent  = lipgloss.Color("111")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	tabStyle   = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)
	tabActive  = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(colorPrimary).Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(26)
	cardSelected = cardStyle.
			BorderForeground(colorPrimary)
	cardKept = cardStyle.
			BorderForeground(colorGood)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 3)

	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	onlineStyle = lipgloss.NewStyle().Foreground(colorGood)
	errorStyle  = lipgloss.NewStyle().Foreground(colorBad)
	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	toastInfo = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	toastError = toastInfo.
			BorderForeground(colorBad)
)
