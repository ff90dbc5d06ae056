package catalog

import (
	"strconv"
	"strings"

	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// Filter keys shared by several entities.
const (
	KeyStatus = "status"
	KeyFrom   = "from"
	KeyTo     = "to"
	KeyClub   = "club_id"
)

func text[T any](get func(T) string) listing.Field[T] {
	return func(rec T) (string, bool) {
		return get(rec), true
	}
}

func optional[T any](get func(T) *string) listing.Field[T] {
	return func(rec T) (string, bool) {
		v := get(rec)
		if v == nil {
			return "", false
		}
		return *v, true
	}
}

func numeric[T any](get func(T) int64) listing.Field[T] {
	return func(rec T) (string, bool) {
		return strconv.FormatInt(get(rec), 10), true
	}
}

func search[T any](fields ...listing.Field[T]) listing.Predicate[T] {
	return listing.Predicate[T]{Key: listing.SearchKey, Kind: listing.MatchSubstring, Fields: fields}
}

func equals[T any](key string, field listing.Field[T]) listing.Predicate[T] {
	return listing.Predicate[T]{Key: key, Kind: listing.MatchEquality, Fields: []listing.Field[T]{field}}
}

func between[T any](field listing.Field[T]) listing.Predicate[T] {
	return listing.Predicate[T]{Key: KeyFrom, ToKey: KeyTo, Kind: listing.MatchDateRange, Fields: []listing.Field[T]{field}}
}

func custom[T any](key string, fn func(T, string) bool) listing.Predicate[T] {
	return listing.Predicate[T]{Key: key, Kind: listing.MatchCustom, Custom: fn}
}

// activeStatus filters on an is_active flag. Accepts active/inactive in
// English or Spanish and true/false.
func activeStatus[T any](get func(T) bool) listing.Predicate[T] {
	return custom(KeyStatus, func(rec T, value string) bool {
		want, ok := parseFlag(value)
		if !ok {
			return true
		}
		return get(rec) == want
	})
}

func parseFlag(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active", "activo", "activa", "true", "1", "yes", "si", "sí":
		return true, true
	case "inactive", "inactivo", "inactiva", "false", "0", "no":
		return false, true
	}
	return false, false
}

func optionalKey(s *string) listing.Key {
	if s == nil {
		return listing.StringKey("")
	}
	return listing.StringKey(*s)
}

// statusIs filters on a status field, ignoring case and surrounding spaces
// on both sides.
func statusIs[T any](get func(T) string) listing.Predicate[T] {
	return custom(KeyStatus, func(rec T, value string) bool {
		return strings.EqualFold(strings.TrimSpace(get(rec)), value)
	})
}

func optionalInt(n *int64) string {
	if n == nil {
		return ""
	}
	return itoa(*n)
}

func playerNames(players []paddio.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
