package pager

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeButtonsPerWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		width float64
		want  int
	}{
		{"fits five", 400, 5},
		{"narrow clamps to min", 150, 3},
		{"wide clamps to max", 5000, 15},
		{"unmeasured falls back", 0, 7},
		{"negative falls back", -40, 7},
		{"nan falls back", math.NaN(), 7},
		{"inf falls back", math.Inf(1), 7},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeButtonsPerWindow(tt.width, 44, 96, 8, 3, 15)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeButtonsPerWindowStaysInBounds(t *testing.T) {
	t.Parallel()

	widths := []float64{math.NaN(), math.Inf(-1), -1000, 0, 1, 96, 147, 200, 800, 1e9}
	for _, w := range widths {
		got := ComputeButtonsPerWindow(w, 44, 96, 8, 3, 15)
		assert.GreaterOrEqual(t, got, 3, "width %v", w)
		assert.LessOrEqual(t, got, 15, "width %v", w)
		assert.Equal(t, got, ComputeButtonsPerWindow(w, 44, 96, 8, 3, 15), "not idempotent for %v", w)
	}
}

func TestComputeButtonsPerWindowDegenerateBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ComputeButtonsPerWindow(400, 0, 0, 0, 0, 0))
	assert.Equal(t, 4, ComputeButtonsPerWindow(0, 44, 96, 8, 4, 2))
}

func TestComputeWindow(t *testing.T) {
	t.Parallel()

	start, end := ComputeWindow(13, 10, 20)
	assert.Equal(t, 11, start)
	assert.Equal(t, 20, end)

	start, end = ComputeWindow(1, 10, 4)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)

	start, end = ComputeWindow(10, 5, 12)
	assert.Equal(t, 6, start)
	assert.Equal(t, 10, end)

	start, end = ComputeWindow(0, 0, 0)
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)
}

func TestComputeWindowContainsPage(t *testing.T) {
	t.Parallel()

	for last := 1; last <= 25; last++ {
		for n := 1; n <= 16; n++ {
			for page := 1; page <= last; page++ {
				start, end := ComputeWindow(page, n, last)
				require.LessOrEqual(t, 1, start)
				require.LessOrEqual(t, start, page, "page=%d n=%d last=%d", page, n, last)
				require.LessOrEqual(t, page, end, "page=%d n=%d last=%d", page, n, last)
				require.LessOrEqual(t, end, last)
				require.LessOrEqual(t, end-start+1, n)
				require.Equal(t, 1, (start-1)%n+1, "window must start on a multiple of n")
			}
		}
	}
}

func TestLastPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, LastPage(0, 10))
	assert.Equal(t, 1, LastPage(-5, 10))
	assert.Equal(t, 4, LastPage(35, 10))
	assert.Equal(t, 4, LastPage(40, 10))
	assert.Equal(t, 5, LastPage(41, 10))
	assert.Equal(t, 4, LastPage(35, 0))
}

func TestSkipLimit(t *testing.T) {
	t.Parallel()

	skip, limit := SkipLimit(3, 15)
	assert.Equal(t, 30, skip)
	assert.Equal(t, 15, limit)

	skip, limit = SkipLimit(-2, 0)
	assert.Equal(t, 0, skip)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestBoundsNormalized(t *testing.T) {
	t.Parallel()

	b := Bounds{MinButtons: 5, MaxButtons: 2}.Normalized()
	assert.Equal(t, 5.0, b.ButtonWidth)
	assert.Equal(t, 5, b.MinButtons)
	assert.Equal(t, 15, b.MaxButtons)
	assert.Equal(t, 7, b.Fallback)

	assert.Equal(t, 5, DefaultBounds().ButtonsPerWindow(400))
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	page, size := ParseQuery(url.Values{"page": {"4"}, "perPage": {"30"}})
	assert.Equal(t, 4, page)
	assert.Equal(t, 30, size)

	page, size = ParseQuery(url.Values{"page": {"abc"}, "perPage": {"-1"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	assert.Equal(t, "page=2&perPage=15", Query(2, 15).Encode())
}
