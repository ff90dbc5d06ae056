package catalog

import (
	"strings"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// KeyIndoor filters covered courts.
const KeyIndoor = "indoor"

// Courts lists the courts of every club. A single club's courts come from
// paddio.API.ClubCourts and are wrapped with Courts.From.
var Courts = register(&Entity[paddio.Court]{
	name:  "courts",
	title: "Canchas",
	ops:   OpCreate | OpUpdate | OpDelete | OpToggle,
	Predicates: listing.Predicates[paddio.Court]{
		search(
			text(func(c paddio.Court) string { return c.Name }),
			optional(func(c paddio.Court) *string { return c.Description }),
			optional(func(c paddio.Court) *string { return c.SurfaceType }),
		),
		equals(KeyClub, numeric(func(c paddio.Court) int64 { return c.ClubID })),
		custom(KeyIndoor, func(c paddio.Court, value string) bool {
			want, ok := parseFlag(value)
			return !ok || c.IsIndoor == want
		}),
		custom(KeyStatus, func(c paddio.Court, value string) bool {
			want, ok := availability(value)
			return !ok || c.IsAvailable == want
		}),
	},
	Sorter: listing.Sorter[paddio.Court]{
		Default: "id",
		Fields: map[string]func(paddio.Court) listing.Key{
			"id":           func(c paddio.Court) listing.Key { return listing.NumberKey(c.ID) },
			"name":         func(c paddio.Court) listing.Key { return listing.StringKey(c.Name) },
			"club_id":      func(c paddio.Court) listing.Key { return listing.NumberKey(c.ClubID) },
			"surface":      func(c paddio.Court) listing.Key { return optionalKey(c.SurfaceType) },
			"is_indoor":    func(c paddio.Court) listing.Key { return listing.BoolKey(c.IsIndoor) },
			"has_lighting": func(c paddio.Court) listing.Key { return listing.BoolKey(c.HasLighting) },
			"is_available": func(c paddio.Court) listing.Key { return listing.BoolKey(c.IsAvailable) },
		},
	},
	Export: func(c paddio.Court) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(c.ID)},
			{Header: "Club", Value: itoa(c.ClubID)},
			{Header: "Nombre", Value: c.Name},
			{Header: "Descripción", Value: export.Optional(c.Description)},
			{Header: "Superficie", Value: export.Optional(c.SurfaceType)},
			{Header: "Techada", Value: export.YesNo(c.IsIndoor)},
			{Header: "Iluminación", Value: export.YesNo(c.HasLighting)},
			{Header: "Disponible", Value: export.YesNo(c.IsAvailable)},
		}
	},
})

// availability reads available/unavailable, falling back to the active
// flag vocabulary.
func availability(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "available", "disponible":
		return true, true
	case "unavailable", "no disponible":
		return false, true
	}
	return parseFlag(value)
}
