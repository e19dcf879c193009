package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriBoard/internal/models"
	"github.com/Rorical/RoriBoard/ui/styles"
)

// RenderPager draws "← [  1] [  2] … →" for the window the core computed,
// with a position summary on the line below.
func RenderPager(pv models.PagerView) string {
	if pv.Total == 0 {
		return styles.HelpStyle().Render(fmt.Sprintf("no posts · %d per page", pv.PageSize))
	}

	var b strings.Builder
	b.WriteString(styles.PagerArrowStyle(pv.HasPrevious).Render("←"))
	b.WriteString(" ")
	for p := pv.Start; p <= pv.End; p++ {
		b.WriteString(styles.PagerButtonStyle(p == pv.Page).Render(fmt.Sprintf("[%3d]", p)))
		b.WriteString(" ")
	}
	b.WriteString(styles.PagerArrowStyle(pv.HasNext).Render("→"))

	summary := fmt.Sprintf("page %d/%d · %d posts · %d per page", pv.Page, pv.LastPage, pv.Total, pv.PageSize)
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle().Render(summary))
	return b.String()
}
