package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchKey is the filter key carrying the free-text search term.
const SearchKey = "search"

// Query is everything a list view needs to produce its visible window.
type Query struct {
	Filters FilterState
	Sort    SortState
	Page    PageState
}

// Result is the outcome of running a Query over a collection.
type Result[T any] struct {
	Items      []T
	Total      int
	PageIndex  int
	PageSize   int
	TotalPages int
	Sort       SortState
}

// Run filters, sorts and slices records. The page index is clamped to the
// filtered count so a narrowed filter never strands the caller past the end.
func Run[T any](records []T, q Query, predicates Predicates[T], sorter Sorter[T]) Result[T] {
	sorted := Ordered(records, q, predicates, sorter)
	page := q.Page.Clamp(len(sorted))
	window := SlicePage(sorted, page.Index, page.Size)
	return Result[T]{
		Items:      window.Visible,
		Total:      window.Total,
		PageIndex:  page.Index,
		PageSize:   page.Size,
		TotalPages: page.TotalPages(window.Total),
		Sort:       sorter.Resolve(q.Sort),
	}
}

// Ordered returns the filtered and sorted records without paginating them.
// Exports use this.
func Ordered[T any](records []T, q Query, predicates Predicates[T], sorter Sorter[T]) []T {
	return ApplySort(ApplyFilters(records, q.Filters, predicates), q.Sort, sorter)
}

// ParseQuery extracts a Query from URL query values. "q" maps to the search
// key, "page" is zero-based, "per_page" must be one of PageSizeOptions.
func ParseQuery(values url.Values, filterKeys []string, sortFields []string) Query {
	q := Query{Filters: FilterState{}}

	if term := values.Get("q"); term != "" {
		q.Filters[SearchKey] = term
	}
	for _, key := range filterKeys {
		if key == SearchKey {
			if v := values.Get(SearchKey); v != "" {
				q.Filters[SearchKey] = v
			}
			continue
		}
		if v := values.Get(key); v != "" {
			q.Filters[key] = v
		}
	}

	field := values.Get("sort")
	if !contains(sortFields, field) {
		field = ""
	}
	dir := Direction(strings.ToLower(values.Get("dir")))
	if dir != Desc {
		dir = Asc
	}
	q.Sort = SortState{Field: field, Direction: dir}

	page, _ := strconv.Atoi(values.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(values.Get("per_page"))
	if !isValidPageSize(size) {
		size = DefaultPageSize
	}
	q.Page = PageState{Index: page, Size: size}
	return q
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
