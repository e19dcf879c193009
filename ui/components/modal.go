package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// RenderModal centres the confirmation box in a width x height area.
func RenderModal(req *models.ConfirmationRequest, width, height int) string {
	opts := req.Options.WithDefaults()

	title := opts.Title
	if opts.Step > 0 {
		title = fmt.Sprintf("%s · %d", title, opts.Step)
	}
	cancel := styles.ButtonStyle(!req.ConfirmFocused, false).Render(opts.CancelLabel)
	ok := styles.ButtonStyle(req.ConfirmFocused, opts.Danger).Render(opts.ConfirmLabel)

	help := "y accept · n reject\n←/→ choose · enter select"
	if opts.DismissOnBackdrop {
		help += "\nesc dismiss"
	}

	box := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle(opts.Danger).Render(title),
		"",
		wordwrap.String(opts.Message, 40),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cancel, ok),
		"",
		styles.HelpStyle().Render(help),
	)
	box = styles.ModalStyle(opts.Danger).Render(box)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
