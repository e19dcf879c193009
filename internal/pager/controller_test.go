package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeExampleWindow(t *testing.T) {
	t.Parallel()

	bounds := Bounds{ButtonWidth: 1, ArrowsWidth: 0, GapWidth: 0, MinButtons: 1, MaxButtons: 10, Fallback: 10}
	w := Compute(State{Page: 13, PageSize: 10, Total: 200, ContainerWidth: 10}, bounds)

	assert.Equal(t, 10, w.Buttons)
	assert.Equal(t, 11, w.Start)
	assert.Equal(t, 20, w.End)
	assert.True(t, w.HasPrevious)
	assert.False(t, w.HasNext)
	assert.Equal(t, 10, w.PreviousTarget())
	assert.Len(t, w.Pages(), 10)
}

func TestCorrectClampsToLastPage(t *testing.T) {
	t.Parallel()

	s, changed := Correct(State{Page: 5, PageSize: 10, Total: 35})
	assert.True(t, changed)
	assert.Equal(t, 4, s.Page)

	s, changed = Correct(State{Page: 3, PageSize: 10, Total: 35})
	assert.False(t, changed)
	assert.Equal(t, 3, s.Page)
}

func TestControllerSelfCorrectsOnTotalShrink(t *testing.T) {
	t.Parallel()

	c := NewController(TerminalBounds(), 10)
	assert.False(t, c.SetTotal(100))
	assert.False(t, c.RequestPage(9))

	assert.True(t, c.SetTotal(35))
	assert.Equal(t, 4, c.State().Page)

	skip, limit := c.SkipLimit()
	assert.Equal(t, 30, skip)
	assert.Equal(t, 10, limit)
}

func TestControllerPageSizeChangeResetsPage(t *testing.T) {
	t.Parallel()

	c := NewController(TerminalBounds(), 10)
	c.SetTotal(100)
	c.RequestPage(7)
	c.SetPageSize(30)

	assert.Equal(t, 1, c.State().Page)
	assert.Equal(t, 4, c.Window().LastPage)
}

func TestControllerApplyCorrectsStaleNavigation(t *testing.T) {
	t.Parallel()

	c := NewController(TerminalBounds(), 10)
	c.SetTotal(35)
	assert.True(t, c.Apply(9, 0))
	assert.Equal(t, 4, c.State().Page)
	assert.Equal(t, DefaultPageSize, c.State().PageSize)
}

func TestControllerResizeRecomputesWindow(t *testing.T) {
	t.Parallel()

	c := NewController(TerminalBounds(), 10)
	c.SetTotal(500)
	c.RequestPage(12)

	narrow := c.Resize(26)
	assert.Equal(t, 3, narrow.Buttons)
	assert.Equal(t, 10, narrow.Start)
	assert.Equal(t, 12, narrow.End)

	wide := c.Resize(80)
	assert.Equal(t, 12, wide.Buttons)
	assert.Equal(t, 1, wide.Start)
	assert.Equal(t, 12, wide.End)
	assert.True(t, wide.HasNext)
	assert.False(t, wide.HasPrevious)
}
