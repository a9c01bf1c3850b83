package report

import "github.com/charmbracelet/lipgloss"

var (
	headerColor = lipgloss.Color("#0969DA")
	borderColor = lipgloss.Color("#6E7681")
	targetColor = lipgloss.Color("#2DA44E")
	decoyColor  = lipgloss.Color("#CF222E")

	titleStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	targetStyle = numberStyle.
			Foreground(targetColor)

	decoyStyle = numberStyle.
			Foreground(decoyColor)
)
