package utils

import (
	"regexp"
	"strings"
)

var (
	orderedItem = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCode  = regexp.MustCompile("``[^`]*``|`[^`]*`")
	link        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bold        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicUnder = regexp.MustCompile(`\b_([^_]+)_\b`)
	italicStar  = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	paragraph   = regexp.MustCompile(`\n\s*\n`)
)

// RenderMarkdown renders the small markdown subset used in comments. It is
// also the fallback when the full renderer is unavailable.
func RenderMarkdown(text string) string {
	lines := strings.Split(normalizeNewlines(text), "\n")
	var out strings.Builder

	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out.WriteString(CodeBlockStyle().Render(line) + "\n")
			continue
		}
		out.WriteString(renderBlock(line) + "\n")
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func renderBlock(line string) string {
	for _, prefix := range []string{"### ", "## ", "# "} {
		if title, ok := strings.CutPrefix(line, prefix); ok {
			return HeadingStyle().Render(RenderInline(title))
		}
	}
	if quote, ok := strings.CutPrefix(line, "> "); ok {
		return QuoteStyle().Render(RenderInline(quote))
	}
	for _, bullet := range []string{"- ", "* "} {
		if item, ok := strings.CutPrefix(line, bullet); ok {
			return ListStyle().Render("• " + RenderInline(item))
		}
	}
	if m := orderedItem.FindStringSubmatch(line); m != nil {
		return ListStyle().Render(m[1] + ". " + RenderInline(m[2]))
	}
	return RenderInline(line)
}

// RenderInline styles code spans, links, bold and italic text.
func RenderInline(line string) string {
	// code spans are cut out first so their contents stay literal
	var spans []string
	line = inlineCode.ReplaceAllStringFunc(line, func(match string) string {
		spans = append(spans, CodeStyle().Render(strings.Trim(match, "`")))
		return "\x00"
	})

	line = link.ReplaceAllStringFunc(line, func(match string) string {
		m := link.FindStringSubmatch(match)
		return LinkStyle().Render(emphasis(m[1])) + " (" + m[2] + ")"
	})
	line = emphasis(line)

	for _, span := range spans {
		line = strings.Replace(line, "\x00", span, 1)
	}
	return line
}

func emphasis(text string) string {
	text = bold.ReplaceAllStringFunc(text, func(match string) string {
		return BoldStyle().Render(strings.Trim(match, "*"))
	})
	text = italicUnder.ReplaceAllStringFunc(text, func(match string) string {
		return ItalicStyle().Render(strings.Trim(match, "_"))
	})
	return italicStar.ReplaceAllStringFunc(text, func(match string) string {
		return ItalicStyle().Render(strings.Trim(match, "*"))
	})
}

// normalizeNewlines joins soft-wrapped lines inside a paragraph and keeps
// block lines (headings, lists, quotes, fences) on their own.
func normalizeNewlines(text string) string {
	var paragraphs []string
	for _, para := range paragraph.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		var lines []string
		inCode := false
		for _, line := range strings.Split(para, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inCode = !inCode
				lines = append(lines, strings.TrimSpace(line))
				continue
			}
			if inCode {
				lines = append(lines, line)
				continue
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if n := len(lines); n > 0 && !isBlockLine(line) && !isBlockLine(lines[n-1]) {
				lines[n-1] += " " + line
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n")
}

func isBlockLine(line string) bool {
	switch {
	case strings.HasPrefix(line, "#"),
		strings.HasPrefix(line, "- "),
		strings.HasPrefix(line, "* "),
		strings.HasPrefix(line, "> "),
		strings.HasPrefix(line, "```"):
		return true
	}
	return orderedItem.MatchString(line)
}
