package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var argentina = message.NewPrinter(language.MustParse("es-AR"))

// Currency formats an amount in cents as Argentine pesos with at most two
// decimals and no trailing zeros: 3000000 is "$30.000", 1250 is "$12,5" and
// 1205 is "$12,05".
func Currency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole, frac := cents/100, cents%100
	s := "$" + sign + argentina.Sprintf("%d", whole)
	if frac != 0 {
		s += "," + strings.TrimRight(fmt.Sprintf("%02d", frac), "0")
	}
	return s
}

// Number formats an integer with Argentine digit grouping.
func Number(n int64) string {
	return argentina.Sprintf("%d", n)
}

// Date formats an ISO date or timestamp as d/m/yyyy. Unparseable input is
// returned unchanged.
func Date(iso string) string {
	t, ok := ParseTime(iso)
	if !ok {
		return iso
	}
	return t.Format("2/1/2006")
}

// DateTime formats an ISO timestamp as d/m/yyyy, HH:mm:ss.
func DateTime(iso string) string {
	t, ok := ParseTime(iso)
	if !ok {
		return iso
	}
	return t.Format("2/1/2006, 15:04:05")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTime reads the ISO dates and timestamps the API sends, with or
// without a zone.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ActiveLabel renders an active flag.
func ActiveLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}

// YesNo renders a boolean.
func YesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// Optional dereferences s, empty when nil.
func Optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Join maps items through field and joins them with ", ".
func Join[T any](items []T, field func(T) string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if v := field(item); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
