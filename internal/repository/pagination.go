package repository

import (
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber keeps (Number-1)*Size well inside int64.
	MaxPageNumber = 1 << 30
)

type Page struct {
	Number int
	Size   int
}

// ParsePage reads ?page= and ?limit= values. A fixedSize above zero ignores
// the requested limit.
func ParsePage(page, limit string, fixedSize int) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Size = n
	}
	if fixedSize > 0 {
		p.Size = fixedSize
	}
	return p.normalized()
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Size)
}

type PageResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Size       int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func newPageResult[T any](items []T, total int64, page Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Size:       page.Size,
		TotalPages: totalPages,
		HasNext:    page.Skip()+int64(len(items)) < total,
		HasPrev:    page.Number > 1,
	}
}
