package components

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/internal/utils"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// visibleComments is how many comments are drawn around the cursor.
const visibleComments = 5

// Thread is everything RenderThread needs.
type Thread struct {
	Post          *models.Post
	Comments      []models.Comment
	CommentCursor int
	Liked         bool
	User          *models.User
}

func RenderThread(t Thread, md *Markdown, width int) string {
	if t.Post == nil {
		return styles.HelpStyle().Render("  Loading post…") + "\n"
	}
	p := t.Post
	inner := max(width-4, 20)

	var b strings.Builder
	b.WriteString(styles.TagStyle(models.DeriveTag(*p)).Render("["+strings.ToUpper(string(models.DeriveTag(*p)))+"]") + " ")
	b.WriteString(styles.TitleStyle().Render(wordwrap.String(p.Title, inner)) + "\n")

	heart := "♡"
	if t.Liked {
		heart = "♥"
	}
	meta := fmt.Sprintf("by %s · %s · %s %d · ✎ %d", p.Author(), p.CreatedAt.Display(), heart, p.LikesCount, p.CommentsCount)
	b.WriteString(styles.MetaStyle().Render(meta) + "\n\n")

	if strings.TrimSpace(p.Body) != "" {
		b.WriteString(md.Render(p.Body, inner) + "\n\n")
	}

	b.WriteString(styles.TitleStyle().Render(fmt.Sprintf("Comments (%d)", len(t.Comments))) + "\n")
	if len(t.Comments) == 0 {
		b.WriteString(styles.HelpStyle().Render("  No comments yet.") + "\n")
		return b.String()
	}

	start, end := commentWindow(t.CommentCursor, len(t.Comments))
	if start > 0 {
		b.WriteString(styles.HelpStyle().Render(fmt.Sprintf("  ↑ %d more", start)) + "\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(renderComment(t.Comments[i], i == t.CommentCursor, t.User, inner-4) + "\n")
	}
	if end < len(t.Comments) {
		b.WriteString(styles.HelpStyle().Render(fmt.Sprintf("  ↓ %d more", len(t.Comments)-end)) + "\n")
	}
	return b.String()
}

// commentWindow keeps the cursor inside a run of visibleComments.
func commentWindow(cursor, n int) (int, int) {
	start := max(0, cursor-visibleComments/2)
	end := min(n, start+visibleComments)
	start = max(0, end-visibleComments)
	return start, end
}

func renderComment(c models.Comment, selected bool, user *models.User, width int) string {
	author := c.AuthorUsername
	if author == "" {
		author = c.AuthorID
	}
	header := fmt.Sprintf("%s · %s", author, c.CreatedAt.Display())
	if user != nil && user.ID == c.AuthorID {
		header += " · x delete"
	}
	body := wordwrap.String(utils.RenderMarkdown(c.Body), max(width, 10))
	return styles.CommentStyle(selected).Render(styles.MetaStyle().Render(header) + "\n" + body)
}
