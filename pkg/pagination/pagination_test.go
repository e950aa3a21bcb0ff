package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func intRange(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestThirteenItemsPageSizeSix(t *testing.T) {
	p := New[int](6)
	p.SetItems(intRange(13))

	assert.Equal(t, 3, p.TotalPages())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, p.Page())
	assert.True(t, p.CanGoNext())
	assert.False(t, p.CanGoPrevious())

	p.GoToNext()
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11}, p.Page())
	assert.True(t, p.CanGoNext())

	p.GoToNext()
	assert.Equal(t, []int{12}, p.Page())
	assert.False(t, p.CanGoNext())
	assert.True(t, p.CanGoPrevious())

	// Idempotent at the last page.
	p.GoToNext()
	assert.Equal(t, 3, p.CurrentPage())
}

func TestEmptyCollectionHasOnePage(t *testing.T) {
	p := New[string](5)

	assert.Equal(t, 1, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())
	assert.Empty(t, p.Page())
	assert.False(t, p.CanGoNext())
	assert.False(t, p.CanGoPrevious())

	p.GoToPrevious()
	assert.Equal(t, 1, p.CurrentPage())
}

func TestPageSizeChangeResetsToFirstPage(t *testing.T) {
	p := New[int](6)
	p.SetItems(intRange(13))
	p.SetPage(3)

	p.SetPageSize(10)

	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 2, p.TotalPages())
}

func TestItemCountChangeResetsToFirstPage(t *testing.T) {
	p := New[int](5)
	p.SetItems(intRange(20))
	p.SetPage(4)

	p.SetItems(intRange(19))

	assert.Equal(t, 1, p.CurrentPage())
}

func TestSameCountReplacementKeepsPage(t *testing.T) {
	p := New[int](5)
	p.SetItems(intRange(20))
	p.SetPage(3)

	// Re-sorted slice of the same length, e.g. a re-render.
	p.SetItems(intRange(20))

	assert.Equal(t, 3, p.CurrentPage())
}

func TestSetPageClampsOutOfRange(t *testing.T) {
	p := New[int](5)
	p.SetItems(intRange(12))

	p.SetPage(99)
	assert.Equal(t, 3, p.CurrentPage())

	p.SetPage(-4)
	assert.Equal(t, 1, p.CurrentPage())

	p.SetPage(0)
	assert.Equal(t, 1, p.CurrentPage())
}

func TestInvalidPageSizeSanitized(t *testing.T) {
	p := New[int](0)
	p.SetItems(intRange(3))

	assert.Equal(t, 1, p.PageSize())
	assert.Equal(t, 3, p.TotalPages())
}

func TestWindowMetadata(t *testing.T) {
	p := New[int](4)
	p.SetItems(intRange(10))
	p.SetPage(2)

	w := p.Window()
	assert.Equal(t, []int{4, 5, 6, 7}, w.Items)
	assert.Equal(t, 2, w.Page)
	assert.Equal(t, 4, w.PageSize)
	assert.Equal(t, 3, w.TotalPages)
	assert.Equal(t, 10, w.TotalItems)
	assert.True(t, w.HasNext)
	assert.True(t, w.HasPrevious)
}

func TestWindowEmptyItemsNotNil(t *testing.T) {
	p := New[int](4)
	w := p.Window()
	assert.NotNil(t, w.Items)
	assert.Len(t, w.Items, 0)
}

func TestTotalPagesLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 500).Draw(rt, "count")
		size := rapid.IntRange(1, 50).Draw(rt, "size")

		p := New[int](size)
		p.SetItems(intRange(count))

		want := (count + size - 1) / size
		if want < 1 {
			want = 1
		}
		if p.TotalPages() != want {
			rt.Fatalf("totalPages = %d, want %d", p.TotalPages(), want)
		}
	})
}

func TestPagesPartitionItems(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 300).Draw(rt, "count")
		size := rapid.IntRange(1, 40).Draw(rt, "size")

		p := New[int](size)
		p.SetItems(intRange(count))

		var collected []int
		for page := 1; page <= p.TotalPages(); page++ {
			p.SetPage(page)
			collected = append(collected, p.Page()...)
		}

		if len(collected) != count {
			rt.Fatalf("collected %d items across pages, want %d", len(collected), count)
		}
		for i, v := range collected {
			if v != i {
				rt.Fatalf("item %d out of order or duplicated: got %d", i, v)
			}
		}
	})
}

func TestCurrentPageStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 200).Draw(rt, "count")
		size := rapid.IntRange(1, 20).Draw(rt, "size")

		p := New[int](size)
		p.SetItems(intRange(count))

		steps := rapid.SliceOfN(rapid.IntRange(0, 2), 0, 50).Draw(rt, "steps")
		for _, step := range steps {
			switch step {
			case 0:
				p.GoToNext()
			case 1:
				p.GoToPrevious()
			case 2:
				p.SetPage(rapid.IntRange(-10, 300).Draw(rt, "target"))
			}
			if p.CurrentPage() < 1 || p.CurrentPage() > p.TotalPages() {
				rt.Fatalf("currentPage %d outside [1, %d]", p.CurrentPage(), p.TotalPages())
			}
		}
	})
}

func TestCountChangeResetsEvenFromLastPage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(1, 10).Draw(rt, "size")
		count := rapid.IntRange(size*3, size*10).Draw(rt, "count")

		p := New[int](size)
		p.SetItems(intRange(count))
		p.SetPage(p.TotalPages())

		smaller := rapid.IntRange(1, count-1).Draw(rt, "smaller")
		p.SetItems(intRange(smaller))

		if p.CurrentPage() != 1 {
			rt.Fatalf("count change must reset to 1, got %d", p.CurrentPage())
		}
	})
}

func TestClampTargetsLastPageNotFirst(t *testing.T) {
	// The clamp rule lands on the last valid page, never on page 1, when the
	// requested page is past the end of a shrunken window.
	p := New[int](2)
	p.SetItems(intRange(10)) // 5 pages

	p.SetPage(9)
	assert.Equal(t, 5, p.CurrentPage())

	// Same-count replacement does not reset, and a valid page survives it.
	p.SetItems(intRange(10))
	assert.Equal(t, 5, p.CurrentPage())
}
