package listing

// DefaultPageSize is the rows-per-page used when none is given.
const DefaultPageSize = 10

// PageSizeOptions are the allowed rows-per-page values.
var PageSizeOptions = []int{5, 10, 25, 50, 100}

// PageState is a zero-based page index and a positive page size.
type PageState struct {
	Index int
	Size  int
}

// TotalPages returns ceil(total/size), at least 1.
func (p PageState) TotalPages(total int) int {
	size := p.size()
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp keeps the index within [0, TotalPages(total)-1].
func (p PageState) Clamp(total int) PageState {
	p.Size = p.size()
	if last := p.TotalPages(total) - 1; p.Index > last {
		p.Index = last
	}
	if p.Index < 0 {
		p.Index = 0
	}
	return p
}

func (p PageState) size() int {
	if p.Size < 1 {
		return DefaultPageSize
	}
	return p.Size
}

// Page is the visible window plus the count it was cut from.
type Page[T any] struct {
	Visible []T
	Total   int
}

// SlicePage returns records[pageIndex*pageSize : (pageIndex+1)*pageSize].
// An index past the end yields an empty window; Total is always len(records).
func SlicePage[T any](records []T, pageIndex, pageSize int) Page[T] {
	total := len(records)
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex > total/pageSize {
		return Page[T]{Visible: []T{}, Total: total}
	}
	start := pageIndex * pageSize
	if start >= total {
		return Page[T]{Visible: []T{}, Total: total}
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}
	visible := make([]T, end-start)
	copy(visible, records[start:end])
	return Page[T]{Visible: visible, Total: total}
}

func isValidPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if n == opt {
			return true
		}
	}
	return false
}
