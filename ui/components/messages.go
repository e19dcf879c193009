package components

import (
	"github.com/muesli/reflow/truncate"

	"github.com/Rorical/RoriBoard/ui/styles"
)

// RenderMessages shows the last error, or the current notice, on one line.
func RenderMessages(notice string, err error, width int) string {
	limit := uint(max(width-2, 10))
	if err != nil {
		return styles.ErrorStyle().Render(truncate.StringWithTail("✗ "+err.Error(), limit, "…"))
	}
	if notice == "" {
		return ""
	}
	return styles.HelpStyle().Render(truncate.StringWithTail(notice, limit, "…"))
}

// Help lists the keys of a view.
func RenderHelp(keys string) string {
	return styles.HelpStyle().Render(keys)
}
