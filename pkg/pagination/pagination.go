package pagination

// Paginator windows an ordered in-memory slice into fixed-size pages for
// interactive list views. The caller owns the ordering; it must be stable
// across calls for page numbers to stay meaningful.
//
// Two rules govern the held page:
//   - reset: whenever the item count or the page size changes, the current
//     page goes back to 1, so the user is never stranded on an empty page
//     after a filter change;
//   - clamp: whenever the page count shrinks below the current page, the
//     current page drops to the last page, not to 1. A shrinking list must
//     not yank the user back to the start while their page is still valid.
//
// All inputs are sanitized into valid ranges. There are no error returns and
// no side effects beyond the held page.
type Paginator[T any] struct {
	items       []T
	pageSize    int
	currentPage int
}

// New returns a paginator on page 1 with no items. A pageSize below 1 is
// treated as 1.
func New[T any](pageSize int) *Paginator[T] {
	return &Paginator[T]{
		pageSize:    sanitizeSize(pageSize),
		currentPage: 1,
	}
}

func sanitizeSize(size int) int {
	if size < 1 {
		return 1
	}
	return size
}

// SetItems replaces the underlying collection. The reset rule fires only
// when the count changes; replacing the slice with one of equal length keeps
// the current page (re-sorting must not kick the user back to page 1).
func (p *Paginator[T]) SetItems(items []T) {
	if len(items) != len(p.items) {
		p.currentPage = 1
	}
	p.items = items
	p.clampPage()
}

// SetPageSize changes the window size, resetting to page 1 when it actually
// changes.
func (p *Paginator[T]) SetPageSize(size int) {
	size = sanitizeSize(size)
	if size != p.pageSize {
		p.currentPage = 1
	}
	p.pageSize = size
	p.clampPage()
}

func (p *Paginator[T]) clampPage() {
	if total := p.TotalPages(); p.currentPage > total {
		p.currentPage = total
	}
	if p.currentPage < 1 {
		p.currentPage = 1
	}
}

// TotalPages is max(1, ceil(itemCount/pageSize)); an empty collection still
// has one (empty) page.
func (p *Paginator[T]) TotalPages() int {
	total := (len(p.items) + p.pageSize - 1) / p.pageSize
	if total < 1 {
		return 1
	}
	return total
}

// Page returns the current window, end-exclusive and never out of bounds.
func (p *Paginator[T]) Page() []T {
	start := (p.currentPage - 1) * p.pageSize
	if start >= len(p.items) {
		return nil
	}
	end := start + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end]
}

// SetPage clamps n into [1, TotalPages].
func (p *Paginator[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	if total := p.TotalPages(); n > total {
		n = total
	}
	p.currentPage = n
}

// GoToNext advances one page; no-op on the last page.
func (p *Paginator[T]) GoToNext() {
	if p.currentPage < p.TotalPages() {
		p.currentPage++
	}
}

// GoToPrevious steps back one page; no-op on page 1.
func (p *Paginator[T]) GoToPrevious() {
	if p.currentPage > 1 {
		p.currentPage--
	}
}

func (p *Paginator[T]) CanGoNext() bool {
	return p.currentPage < p.TotalPages()
}

func (p *Paginator[T]) CanGoPrevious() bool {
	return p.currentPage > 1
}

func (p *Paginator[T]) CurrentPage() int {
	return p.currentPage
}

func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

func (p *Paginator[T]) ItemCount() int {
	return len(p.items)
}

// Window is the wire shape list endpoints return alongside the page items.
type Window[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Window snapshots the paginator's current page and metadata. Items is never
// nil so the JSON field encodes as [] rather than null.
func (p *Paginator[T]) Window() Window[T] {
	items := p.Page()
	if items == nil {
		items = []T{}
	}
	return Window[T]{
		Items:       items,
		Page:        p.currentPage,
		PageSize:    p.pageSize,
		TotalPages:  p.TotalPages(),
		TotalItems:  len(p.items),
		HasNext:     p.CanGoNext(),
		HasPrevious: p.CanGoPrevious(),
	}
}
