package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Rorical/RoriBoard/internal/utils"
)

// Markdown renders post bodies with glamour, rebuilding the renderer when
// the width changes and caching output per body.
type Markdown struct {
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func NewMarkdown() *Markdown {
	return &Markdown{cache: make(map[string]string)}
}

func (md *Markdown) Render(body string, width int) string {
	width = max(width, 20)
	if md.renderer == nil || md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fallback(body, width)
		}
		md.renderer = r
		md.width = width
		md.cache = make(map[string]string)
	}
	if out, ok := md.cache[body]; ok {
		return out
	}
	out, err := md.renderer.Render(body)
	if err != nil {
		return fallback(body, width)
	}
	out = strings.Trim(out, "\n")
	md.cache[body] = out
	return out
}

func fallback(body string, width int) string {
	return wordwrap.String(utils.RenderMarkdown(body), width)
}
