package surface

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	focusedRowStyle = lipgloss.NewStyle().
			PaddingLeft(0).
			Bold(true).
			Foreground(lipgloss.Color("212")).
			SetString("> ")

	fieldLabelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(lipgloss.Color("241"))

	maskedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)
