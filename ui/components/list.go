package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// RenderPostList draws one row per post: tag, title, author and counters.
func RenderPostList(posts []models.Post, cursor int, loading bool, width int) string {
	if len(posts) == 0 {
		if loading {
			return styles.HelpStyle().Render("  Loading posts…") + "\n"
		}
		return styles.HelpStyle().Render("  No posts yet. Press c to write one.") + "\n"
	}

	var b strings.Builder
	for i, p := range posts {
		b.WriteString(RenderPostRow(p, i == cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

func RenderPostRow(p models.Post, selected bool, width int) string {
	tag := models.DeriveTag(p)
	tagCell := styles.TagStyle(tag).Render("[" + strings.ToUpper(string(tag)) + "]")
	meta := fmt.Sprintf("%s  ♥ %d  ✎ %d", p.Author(), p.LikesCount, p.CommentsCount)

	// one cell of row padding plus two spaces around the title
	room := width - lipgloss.Width(tagCell) - lipgloss.Width(meta) - 4
	title := p.Title
	if room > 0 {
		title = truncate.StringWithTail(title, uint(room), "…")
	}
	gap := max(room-lipgloss.Width(title), 0)

	row := tagCell + " " + title + strings.Repeat(" ", gap) + " " + styles.MetaStyle().Render(meta)
	return styles.RowStyle(selected).Render(row)
}
