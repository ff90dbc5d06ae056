package listing

import (
	"cmp"
	"slices"
	"strings"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the active sort field and direction.
type SortState struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after the user picks field: the same field flips
// direction, a new field starts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Direction == Desc {
			return SortState{Field: field, Direction: Asc}
		}
		return SortState{Field: field, Direction: Desc}
	}
	return SortState{Field: field, Direction: Asc}
}

// Key is a comparable sort key. Keys of different kinds order numbers before
// strings.
type Key struct {
	str   string
	num   float64
	isNum bool
}

// StringKey lower-cases s.
func StringKey(s string) Key { return Key{str: strings.ToLower(s)} }

// NumberKey wraps a numeric value.
func NumberKey[N ~int | ~int64 | ~float64](n N) Key { return Key{num: float64(n), isNum: true} }

// BoolKey maps false to 0 and true to 1.
func BoolKey(b bool) Key {
	if b {
		return Key{num: 1, isNum: true}
	}
	return Key{num: 0, isNum: true}
}

// NameKey concatenates first and last name before lower-casing.
func NameKey(first, last string) Key {
	return StringKey(strings.TrimSpace(first + " " + last))
}

func compareKeys(a, b Key) int {
	switch {
	case a.isNum && b.isNum:
		return cmp.Compare(a.num, b.num)
	case a.isNum:
		return -1
	case b.isNum:
		return 1
	default:
		return strings.Compare(a.str, b.str)
	}
}

// Sorter resolves sort field names to key extractors.
type Sorter[T any] struct {
	Default string
	Fields  map[string]func(T) Key
}

// FieldNames lists the sortable fields.
func (s Sorter[T]) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve normalizes a state: unknown or empty fields fall back to the
// default field, unknown directions to ascending.
func (s Sorter[T]) Resolve(state SortState) SortState {
	if _, ok := s.Fields[state.Field]; !ok {
		state.Field = s.Default
	}
	if state.Direction != Desc {
		state.Direction = Asc
	}
	return state
}

// ApplySort returns a stably sorted copy of records.
func ApplySort[T any](records []T, state SortState, sorter Sorter[T]) []T {
	out := slices.Clone(records)
	if out == nil {
		out = []T{}
	}
	state = sorter.Resolve(state)
	keyFn, ok := sorter.Fields[state.Field]
	if !ok {
		return out
	}

	keys := make([]Key, len(out))
	idx := make([]int, len(out))
	for i := range out {
		idx[i] = i
		keys[i] = keyFn(out[i])
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		c := compareKeys(keys[a], keys[b])
		if state.Direction == Desc {
			return -c
		}
		return c
	})

	sorted := make([]T, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
