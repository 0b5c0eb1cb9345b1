// Package paginate exposes a growing prefix of an in-memory list.
package paginate

// DefaultPageSize is used when a page size below 1 is requested.
const DefaultPageSize = 10

// Paginator shows the first pages of items and grows by one page per More call.
type Paginator[T any] struct {
	items    []T
	pageSize int
	shown    int
}

// New creates a paginator displaying the first page of items.
func New[T any](items []T, pageSize int) *Paginator[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	p := &Paginator[T]{pageSize: pageSize}
	p.Reset(items)
	return p
}

// Reset replaces the underlying list and goes back to the first page.
func (p *Paginator[T]) Reset(items []T) {
	p.items = items
	p.shown = min(p.pageSize, len(items))
}

// Displayed returns the currently displayed prefix.
func (p *Paginator[T]) Displayed() []T {
	return p.items[:p.shown]
}

// HasMore reports whether More would display additional items.
func (p *Paginator[T]) HasMore() bool {
	return p.shown < len(p.items)
}

// More appends the next page. It is a no-op once the list is exhausted.
func (p *Paginator[T]) More() {
	if !p.HasMore() {
		return
	}
	p.shown = min(p.shown+p.pageSize, len(p.items))
}

// Total returns the length of the underlying list.
func (p *Paginator[T]) Total() int {
	return len(p.items)
}

// PageSize returns the configured page size.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}
