package listing

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// MatchKind selects how a predicate compares a filter value against a record.
type MatchKind string

const (
	MatchSubstring MatchKind = "substring-ci"
	MatchEquality  MatchKind = "equality"
	MatchDateRange MatchKind = "date-range"
	MatchCustom    MatchKind = "custom"
)

// AllValue is the "no filter" sentinel used by categorical selectors.
const AllValue = "all"

const dateLayout = "2006-01-02"

// FilterState maps filter keys to the currently selected value.
type FilterState map[string]string

// Field extracts a string value from a record. ok is false when the value is
// null or absent.
type Field[T any] func(T) (value string, ok bool)

// Predicate describes one filter key.
//
// Substring predicates pass when ANY of Fields contains the term. Equality and
// date-range predicates use the first field only. Date-range predicates read
// the lower bound from Key and the upper bound from ToKey.
type Predicate[T any] struct {
	Key    string
	ToKey  string
	Kind   MatchKind
	Fields []Field[T]
	Custom func(record T, value string) bool
}

// Predicates is the per-entity predicate table.
type Predicates[T any] []Predicate[T]

// Keys lists every filter key the table understands.
func (p Predicates[T]) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pred := range p {
		keys = append(keys, pred.Key)
		if pred.ToKey != "" {
			keys = append(keys, pred.ToKey)
		}
	}
	return keys
}

// IsUnset reports whether a categorical value imposes no constraint.
func IsUnset(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, AllValue)
}

// ApplyFilters returns the records that pass every active predicate, in their
// original order. The input slice is never modified.
func ApplyFilters[T any](records []T, state FilterState, predicates Predicates[T]) []T {
	active := make([]func(T) bool, 0, len(predicates))
	for _, pred := range predicates {
		if fn := pred.compile(state); fn != nil {
			active = append(active, fn)
		}
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		keep := true
		for _, fn := range active {
			if !fn(rec) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}

// compile turns the predicate and the current state into a record test.
// A nil result means the predicate is inactive.
func (p Predicate[T]) compile(state FilterState) func(T) bool {
	switch p.Kind {
	case MatchSubstring:
		term := strings.ToLower(strings.TrimSpace(state[p.Key]))
		if term == "" {
			return nil
		}
		return func(rec T) bool {
			for _, field := range p.Fields {
				if v, ok := field(rec); ok && strings.Contains(strings.ToLower(v), term) {
					return true
				}
			}
			return false
		}
	case MatchEquality:
		want := state[p.Key]
		if IsUnset(want) || len(p.Fields) == 0 {
			return nil
		}
		want = strings.TrimSpace(want)
		return func(rec T) bool {
			v, ok := p.Fields[0](rec)
			return ok && v == want
		}
	case MatchDateRange:
		from := parseBound(p.Key, state[p.Key])
		to := parseBound(p.ToKey, state[p.ToKey])
		if (from == "" && to == "") || len(p.Fields) == 0 {
			return nil
		}
		return func(rec T) bool {
			v, ok := p.Fields[0](rec)
			if !ok || len(v) < len(dateLayout) {
				return false
			}
			day := v[:len(dateLayout)]
			if from != "" && day < from {
				return false
			}
			if to != "" && day > to {
				return false
			}
			return true
		}
	case MatchCustom:
		value := state[p.Key]
		if IsUnset(value) || p.Custom == nil {
			return nil
		}
		return func(rec T) bool {
			return p.Custom(rec, strings.TrimSpace(value))
		}
	default:
		log.Warn("Ignoring predicate with unknown match kind", "key", p.Key, "kind", p.Kind)
		return nil
	}
}

// parseBound normalizes a date bound to YYYY-MM-DD; unset or malformed bounds
// yield "".
func parseBound(key, value string) string {
	if IsUnset(value) {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		log.Warn("Ignoring malformed date bound", "key", key, "value", value)
		return ""
	}
	return value
}
