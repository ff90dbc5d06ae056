package catalog

import (
	"strings"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// StatusStyle is how a reservation status is shown.
type StatusStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var turnStyles = map[paddio.TurnStatus]StatusStyle{
	paddio.TurnAvailable:   {Label: "Disponible", Color: "default"},
	paddio.TurnPending:     {Label: "Pendiente", Color: "warning"},
	paddio.TurnReadyToPlay: {Label: "Listo para jugar", Color: "success"},
	paddio.TurnCancelled:   {Label: "Cancelado", Color: "error"},
	paddio.TurnCompleted:   {Label: "Completado", Color: "info"},
}

// TurnStyle maps a reservation status to its Spanish label and UI color.
// Unknown statuses keep their raw name with the default color.
func TurnStyle(s paddio.TurnStatus) StatusStyle {
	if style, ok := turnStyles[paddio.TurnStatus(strings.ToUpper(string(s)))]; ok {
		return style
	}
	return StatusStyle{Label: string(s), Color: "default"}
}

// TurnDay is the reservation's calendar day, YYYY-MM-DD when known.
func TurnDay(t paddio.PregameTurn) string {
	if t.Date != "" {
		return t.Date
	}
	return t.StartTime
}

func turnWhen(t paddio.PregameTurn) string {
	return strings.TrimSpace(t.Date + " " + t.StartTime)
}

func turnSlot(t paddio.PregameTurn) string {
	start, end := clock(t.StartTime), clock(t.EndTime)
	if end == "" {
		return start
	}
	return start + " - " + end
}

// clock extracts HH:MM from a time or timestamp.
func clock(s string) string {
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[i+1:]
	}
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// Reservations lists pregame turns. One user's history comes from
// paddio.API.UserReservations and is wrapped with Reservations.From.
var Reservations = register(&Entity[paddio.PregameTurn]{
	name:  "reservations",
	title: "Reservas",
	ops:   OpUpdate | OpDelete,
	Predicates: listing.Predicates[paddio.PregameTurn]{
		search(
			optional(func(t paddio.PregameTurn) *string { return t.ClubName }),
			optional(func(t paddio.PregameTurn) *string { return t.CourtName }),
			optional(func(t paddio.PregameTurn) *string { return t.CancellationMessage }),
		),
		statusIs(func(t paddio.PregameTurn) string { return string(t.Status) }),
		equals(KeyClub, numeric(func(t paddio.PregameTurn) int64 { return t.ClubID })),
		between(text(TurnDay)),
	},
	Sorter: listing.Sorter[paddio.PregameTurn]{
		Default: "id",
		Fields: map[string]func(paddio.PregameTurn) listing.Key{
			"id":     func(t paddio.PregameTurn) listing.Key { return listing.NumberKey(t.ID) },
			"date":   func(t paddio.PregameTurn) listing.Key { return listing.StringKey(turnWhen(t)) },
			"club":   func(t paddio.PregameTurn) listing.Key { return optionalKey(t.ClubName) },
			"court":  func(t paddio.PregameTurn) listing.Key { return optionalKey(t.CourtName) },
			"status": func(t paddio.PregameTurn) listing.Key { return listing.StringKey(string(t.Status)) },
		},
	},
	Export: func(t paddio.PregameTurn) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(t.ID)},
			{Header: "Turno", Value: itoa(t.TurnID)},
			{Header: "Club", Value: export.Optional(t.ClubName)},
			{Header: "Cancha", Value: export.Optional(t.CourtName)},
			{Header: "Fecha", Value: export.Date(TurnDay(t))},
			{Header: "Horario", Value: turnSlot(t)},
			{Header: "Estado", Value: TurnStyle(t.Status).Label},
			{Header: "Motivo de cancelación", Value: export.Optional(t.CancellationMessage)},
		}
	},
})
