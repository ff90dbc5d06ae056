package catalog

import (
	"strconv"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func turnDuration(c paddio.Club) string {
	if c.TurnMinutes == 0 {
		return ""
	}
	return strconv.Itoa(c.TurnMinutes) + " min"
}

// Clubs lists venues.
var Clubs = register(&Entity[paddio.Club]{
	name:  "clubs",
	title: "Clubes",
	ops:   OpCreate | OpUpdate | OpDelete | OpToggle,
	Predicates: listing.Predicates[paddio.Club]{
		search(
			text(func(c paddio.Club) string { return c.Name }),
			optional(func(c paddio.Club) *string { return c.Address }),
			optional(func(c paddio.Club) *string { return c.Phone }),
			optional(func(c paddio.Club) *string { return c.Email }),
		),
		activeStatus(paddio.Club.Active),
		between(text(func(c paddio.Club) string { return c.CreatedAt })),
	},
	Sorter: listing.Sorter[paddio.Club]{
		Default: "id",
		Fields: map[string]func(paddio.Club) listing.Key{
			"id":             func(c paddio.Club) listing.Key { return listing.NumberKey(c.ID) },
			"name":           func(c paddio.Club) listing.Key { return listing.StringKey(c.Name) },
			"address":        func(c paddio.Club) listing.Key { return optionalKey(c.Address) },
			"price_per_turn": func(c paddio.Club) listing.Key { return listing.NumberKey(c.PricePerTurn) },
			"turn_duration":  func(c paddio.Club) listing.Key { return listing.NumberKey(c.TurnMinutes) },
			"is_active":      func(c paddio.Club) listing.Key { return listing.BoolKey(c.Active()) },
			"created_at":     func(c paddio.Club) listing.Key { return listing.StringKey(c.CreatedAt) },
		},
	},
	Export: func(c paddio.Club) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(c.ID)},
			{Header: "Nombre", Value: c.Name},
			{Header: "Dirección", Value: export.Optional(c.Address)},
			{Header: "Teléfono", Value: export.Optional(c.Phone)},
			{Header: "Email", Value: export.Optional(c.Email)},
			{Header: "Hora Apertura", Value: export.Optional(c.OpeningTime)},
			{Header: "Hora Cierre", Value: export.Optional(c.ClosingTime)},
			{Header: "Duración Turno", Value: turnDuration(c)},
			{Header: "Precio por Turno", Value: export.Currency(c.PricePerTurn)},
			{Header: "Estado", Value: export.ActiveLabel(c.Active())},
			{Header: "Fecha de Creación", Value: export.Date(c.CreatedAt)},
		}
	},
})
