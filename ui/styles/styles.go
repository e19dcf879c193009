package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriBoard/internal/models"
)

const (
	accent  = lipgloss.Color("62")
	muted   = lipgloss.Color("241")
	danger  = lipgloss.Color("196")
	notice  = lipgloss.Color("214")
	maint   = lipgloss.Color("141")
	logTone = lipgloss.Color("39")
)

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func FocusedInputStyle(width int) lipgloss.Style {
	return InputStyle(width).BorderForeground(notice)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(danger).Bold(true)
}

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

// TagStyle colours the listing tag.
func TagStyle(tag models.Tag) lipgloss.Style {
	color := logTone
	switch tag {
	case models.TagNotice:
		color = notice
	case models.TagMaint:
		color = maint
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Width(8)
}

func RowStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().PaddingLeft(1)
	if selected {
		return s.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("237")).Bold(true)
	}
	return s
}

func MetaStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
}

func CommentStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(muted).
		Padding(0, 1).
		MarginLeft(2)
	if selected {
		return s.BorderForeground(notice)
	}
	return s
}

// PagerButtonStyle highlights the current page.
func PagerButtonStyle(current bool) lipgloss.Style {
	if current {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(accent).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
}

func PagerArrowStyle(enabled bool) lipgloss.Style {
	if enabled {
		return lipgloss.NewStyle().Foreground(accent).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
}

func ModalStyle(isDanger bool) lipgloss.Style {
	border := accent
	if isDanger {
		border = danger
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Padding(1, 3).
		Width(48)
}

func ModalTitleStyle(isDanger bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if isDanger {
		return s.Foreground(danger)
	}
	return s.Foreground(accent)
}

// ButtonStyle draws a modal button. The confirm button of a danger prompt is red.
func ButtonStyle(focused, isDanger bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2).MarginRight(2)
	if !focused {
		return s.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237"))
	}
	if isDanger {
		return s.Foreground(lipgloss.Color("230")).Background(danger).Bold(true)
	}
	return s.Foreground(lipgloss.Color("230")).Background(accent).Bold(true)
}
