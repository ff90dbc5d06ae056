package listing

import (
	"maps"
	"sync"
)

// View holds the mutable state of one mounted list page: filters, sort, page
// and the generation of the latest load. It is safe for concurrent use.
type View struct {
	mu         sync.Mutex
	filters    FilterState
	sort       SortState
	page       PageState
	generation uint64
}

// NewView creates a view with every filter unset, sorted by defaultSort
// ascending, on the first page.
func NewView(defaultSort string, pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{
		filters: FilterState{},
		sort:    SortState{Field: defaultSort, Direction: Asc},
		page:    PageState{Size: pageSize},
	}
}

// SetFilter changes one filter value. Any change of criteria sends the view
// back to the first page.
func (v *View) SetFilter(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filters[key] == value {
		return
	}
	if value == "" {
		delete(v.filters, key)
	} else {
		v.filters[key] = value
	}
	v.page.Index = 0
}

// ResetFilters clears every filter and returns to the first page.
func (v *View) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = FilterState{}
	v.page.Index = 0
}

// ToggleSort applies SortState.Toggle for field.
func (v *View) ToggleSort(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = v.sort.Toggle(field)
}

// SetPageSize changes the page size and returns to the first page.
func (v *View) SetPageSize(size int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if size < 1 {
		size = DefaultPageSize
	}
	v.page = PageState{Size: size}
}

// Move shifts the page index by delta, clamped against total.
func (v *View) Move(delta, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page.Index += delta
	v.page = v.page.Clamp(total)
}

// Clamp re-validates the page index after the filtered count changed.
func (v *View) Clamp(total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = v.page.Clamp(total)
}

// Query snapshots the current state.
func (v *View) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Query{
		Filters: maps.Clone(v.filters),
		Sort:    v.sort,
		Page:    v.page,
	}
}

// Begin starts a new load and returns its generation token. Results of
// earlier loads will be rejected by Accept.
func (v *View) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	return v.generation
}

// Accept reports whether a load started with gen is still the latest one.
func (v *View) Accept(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return gen == v.generation
}
