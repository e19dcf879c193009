package pager

import "math"

// Bounds describes how page buttons are measured and how many may be shown.
type Bounds struct {
	ButtonWidth float64 `yaml:"button_width"`
	ArrowsWidth float64 `yaml:"arrows_width"`
	GapWidth    float64 `yaml:"gap_width"`
	MinButtons  int     `yaml:"min_buttons"`
	MaxButtons  int     `yaml:"max_buttons"`
	Fallback    int     `yaml:"fallback"`
}

const (
	DefaultMinButtons = 3
	DefaultMaxButtons = 15
	DefaultFallback   = 7
	DefaultPageSize   = 10
)

// PageSizeOptions are the page sizes offered by the per-page selector.
var PageSizeOptions = []int{10, 15, 30}

// DefaultBounds matches a pager drawn with 44px buttons, 96px of arrows and 8px gaps.
func DefaultBounds() Bounds {
	return Bounds{
		ButtonWidth: 44,
		ArrowsWidth: 96,
		GapWidth:    8,
		MinButtons:  DefaultMinButtons,
		MaxButtons:  DefaultMaxButtons,
		Fallback:    DefaultFallback,
	}
}

// TerminalBounds measures in terminal cells: "[ 12]" buttons, "← " and " →" arrows.
func TerminalBounds() Bounds {
	return Bounds{
		ButtonWidth: 5,
		ArrowsWidth: 8,
		GapWidth:    1,
		MinButtons:  DefaultMinButtons,
		MaxButtons:  DefaultMaxButtons,
		Fallback:    DefaultFallback,
	}
}

// Normalized fills zero values from TerminalBounds and repairs inverted limits.
func (b Bounds) Normalized() Bounds {
	def := TerminalBounds()
	if !positive(b.ButtonWidth) {
		b.ButtonWidth = def.ButtonWidth
	}
	if !finite(b.ArrowsWidth) || b.ArrowsWidth < 0 {
		b.ArrowsWidth = def.ArrowsWidth
	}
	if !finite(b.GapWidth) || b.GapWidth < 0 {
		b.GapWidth = def.GapWidth
	}
	if b.MinButtons < 1 {
		b.MinButtons = def.MinButtons
	}
	if b.MaxButtons < b.MinButtons {
		b.MaxButtons = max(def.MaxButtons, b.MinButtons)
	}
	if b.Fallback < 1 {
		b.Fallback = def.Fallback
	}
	return b
}

// ComputeButtonsPerWindow returns how many page buttons fit into containerWidth,
// clamped to [minButtons, maxButtons]. An unmeasured or degenerate width yields
// the default fallback, still clamped.
func ComputeButtonsPerWindow(containerWidth, buttonWidth, arrowsWidth, gapWidth float64, minButtons, maxButtons int) int {
	return computeButtons(containerWidth, buttonWidth, arrowsWidth, gapWidth, minButtons, maxButtons, DefaultFallback)
}

// ButtonsPerWindow applies ComputeButtonsPerWindow with the bounds' own fallback.
func (b Bounds) ButtonsPerWindow(containerWidth float64) int {
	b = b.Normalized()
	return computeButtons(containerWidth, b.ButtonWidth, b.ArrowsWidth, b.GapWidth, b.MinButtons, b.MaxButtons, b.Fallback)
}

func computeButtons(containerWidth, buttonWidth, arrowsWidth, gapWidth float64, minButtons, maxButtons, fallback int) int {
	if minButtons < 1 {
		minButtons = 1
	}
	if maxButtons < minButtons {
		maxButtons = minButtons
	}

	raw := math.Floor((containerWidth - arrowsWidth) / (buttonWidth + gapWidth))
	n := fallback
	if finite(raw) && raw > 0 {
		n = int(raw)
	}
	return clamp(n, minButtons, maxButtons)
}

// ComputeWindow bins the page axis into fixed windows of buttonsPerWindow pages
// starting at page 1 and returns the window holding page.
func ComputeWindow(page, buttonsPerWindow, lastPage int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if buttonsPerWindow < 1 {
		buttonsPerWindow = 1
	}
	if lastPage < 1 {
		lastPage = 1
	}
	start = ((page-1)/buttonsPerWindow)*buttonsPerWindow + 1
	end = min(start+buttonsPerWindow-1, lastPage)
	return start, end
}

// LastPage is the number of pages needed for total items, never less than one.
func LastPage(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// SkipLimit converts a 1-based page into list offsets.
func SkipLimit(page, pageSize int) (skip, limit int) {
	page, pageSize = Normalize(page, pageSize)
	return (page - 1) * pageSize, pageSize
}

// Normalize replaces non-positive page and page size values with 1 and DefaultPageSize.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func positive(f float64) bool {
	return finite(f) && f > 0
}
