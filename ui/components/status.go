package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// Status is what the bottom bar shows.
type Status struct {
	Text        string
	Loading     bool
	LoadingDots int
	Spinner     string
	User        *models.User
	Profile     string
}

func RenderStatus(s Status, width int) string {
	statusStyle := styles.StatusStyle(width)

	left := s.Text
	if s.Loading {
		left = s.Spinner + " " + left + strings.Repeat(".", s.LoadingDots)
	}

	right := "anonymous"
	if s.User != nil {
		right = "@" + s.User.Username
	}
	if s.Profile != "" {
		right += " · " + s.Profile
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return statusStyle.Render(left)
	}
	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}
