package utils

import "github.com/charmbracelet/lipgloss"

// Markdown styles
func CodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236"))
}

func CodeBlockStyle() lipgloss.Style {
	return CodeStyle().Padding(0, 1).MarginLeft(2)
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214"))
}

func LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Underline(true).
		Foreground(lipgloss.Color("39"))
}

func QuoteStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("241")).
		PaddingLeft(1)
}

func ListStyle() lipgloss.Style {
	return lipgloss.NewStyle().MarginLeft(2)
}
