package pager

import (
	"net/url"
	"strconv"
)

// State is everything the pager derives its window from.
type State struct {
	Page           int
	PageSize       int
	Total          int
	ContainerWidth float64
}

// Window is the renderable result for one State.
type Window struct {
	Start       int
	End         int
	Page        int
	LastPage    int
	Buttons     int
	HasPrevious bool
	HasNext     bool
}

// Pages lists the page numbers shown in the window.
func (w Window) Pages() []int {
	if w.End < w.Start {
		return nil
	}
	pages := make([]int, 0, w.End-w.Start+1)
	for p := w.Start; p <= w.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PreviousTarget is the page the "previous window" arrow jumps to.
func (w Window) PreviousTarget() int {
	return max(1, w.Start-1)
}

// NextTarget is the page the "next window" arrow jumps to.
func (w Window) NextTarget() int {
	return w.End + 1
}

// LastPage derives the last page from Total and PageSize.
func (s State) LastPage() int {
	return LastPage(s.Total, s.PageSize)
}

// Correct clamps Page to LastPage. The bool reports whether a correction happened.
func Correct(s State) (State, bool) {
	s.Page, s.PageSize = Normalize(s.Page, s.PageSize)
	if s.Total < 0 {
		s.Total = 0
	}
	if last := s.LastPage(); s.Page > last {
		s.Page = last
		return s, true
	}
	return s, false
}

// Compute derives the window for s under bounds. s is corrected first.
func Compute(s State, bounds Bounds) Window {
	s, _ = Correct(s)
	last := s.LastPage()
	n := bounds.ButtonsPerWindow(s.ContainerWidth)
	start, end := ComputeWindow(s.Page, n, last)
	return Window{
		Start:       start,
		End:         end,
		Page:        s.Page,
		LastPage:    last,
		Buttons:     n,
		HasPrevious: start > 1,
		HasNext:     end < last,
	}
}

// Controller keeps the pager inputs and recomputes the window on every change.
// It is not safe for concurrent use; the owner serializes access.
type Controller struct {
	bounds Bounds
	state  State
}

// NewController starts at page 1 with the given page size.
func NewController(bounds Bounds, pageSize int) *Controller {
	_, pageSize = Normalize(1, pageSize)
	return &Controller{
		bounds: bounds.Normalized(),
		state:  State{Page: 1, PageSize: pageSize},
	}
}

// State returns the current inputs.
func (c *Controller) State() State {
	return c.state
}

// Window returns the current window.
func (c *Controller) Window() Window {
	return Compute(c.state, c.bounds)
}

// Resize records a new container width.
func (c *Controller) Resize(width float64) Window {
	c.state.ContainerWidth = width
	return c.Window()
}

// SetTotal records the externally counted total. It returns true when the
// current page had to be pulled back to the new last page.
func (c *Controller) SetTotal(total int) bool {
	if total < 0 {
		total = 0
	}
	c.state.Total = total
	return c.correct()
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller) SetPageSize(pageSize int) {
	c.state.Page, c.state.PageSize = Normalize(1, pageSize)
}

// RequestPage moves to target. Callers clamp navigation requests themselves;
// only the last-page self-correction is applied here.
func (c *Controller) RequestPage(target int) bool {
	c.state.Page = target
	return c.correct()
}

// Apply replaces page and page size from navigation state, e.g. parsed query values.
func (c *Controller) Apply(page, pageSize int) bool {
	c.state.Page, c.state.PageSize = Normalize(page, pageSize)
	return c.correct()
}

func (c *Controller) correct() bool {
	corrected, changed := Correct(c.state)
	c.state = corrected
	return changed
}

// SkipLimit returns list offsets for the current page.
func (c *Controller) SkipLimit() (int, int) {
	return SkipLimit(c.state.Page, c.state.PageSize)
}

// ParseQuery reads page and perPage from query values, defaulting invalid input.
func ParseQuery(values url.Values) (page, pageSize int) {
	page = parsePositive(values.Get("page"), 1)
	pageSize = parsePositive(values.Get("perPage"), DefaultPageSize)
	return page, pageSize
}

// Query renders the navigation state back into query values.
func Query(page, pageSize int) url.Values {
	page, pageSize = Normalize(page, pageSize)
	return url.Values{
		"page":    []string{strconv.Itoa(page)},
		"perPage": []string{strconv.Itoa(pageSize)},
	}
}

func parsePositive(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
