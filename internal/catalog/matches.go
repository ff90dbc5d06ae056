package catalog

import (
	"strconv"
	"strings"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// KeyMixed filters mixed-gender matches.
const KeyMixed = "mixed"

// Gender is a normalized gender label.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

var genderLabels = map[string]Gender{
	"masculino": GenderMale,
	"male":      GenderMale,
	"m":         GenderMale,
	"hombre":    GenderMale,
	"femenino":  GenderFemale,
	"female":    GenderFemale,
	"f":         GenderFemale,
	"mujer":     GenderFemale,
}

// GenderOf normalizes a free-form gender label.
func GenderOf(label string) Gender {
	return genderLabels[strings.ToLower(strings.TrimSpace(label))]
}

// IsMixed reports whether players include at least one recognized male and
// one recognized female label. Players without a gender count as neither.
func IsMixed(players []paddio.Player) bool {
	var male, female bool
	for _, p := range players {
		if p.Gender == nil {
			continue
		}
		switch GenderOf(*p.Gender) {
		case GenderMale:
			male = true
		case GenderFemale:
			female = true
		}
		if male && female {
			return true
		}
	}
	return false
}

var matchStatusLabels = map[paddio.MatchStatus]string{
	paddio.MatchAvailable:  "Disponible",
	paddio.MatchReserved:   "Reservado",
	paddio.MatchInProgress: "En Progreso",
	paddio.MatchCompleted:  "Completado",
}

// MatchStatusLabel is the Spanish name of a match status. Unknown statuses
// keep their raw name.
func MatchStatusLabel(s paddio.MatchStatus) string {
	if label, ok := matchStatusLabels[paddio.MatchStatus(strings.ToLower(string(s)))]; ok {
		return label
	}
	return string(s)
}

func players(m paddio.Match) string { return playerNames(m.Players) }

// mixedFilter reads mixed/regular, falling back to yes/no.
func mixedFilter(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "mixed", "mixto":
		return true, true
	case "regular":
		return false, true
	}
	return parseFlag(value)
}

func creator(m paddio.Match) string {
	if m.CreatorName != nil && *m.CreatorName != "" {
		return *m.CreatorName
	}
	return export.Optional(m.CreatorEmail)
}

func score(m paddio.Match) string {
	if m.Score == nil || *m.Score == "" {
		return "Sin resultado"
	}
	return *m.Score
}

// Matches lists played and scheduled matches.
var Matches = register(&Entity[paddio.Match]{
	name:  "matches",
	title: "Partidos",
	ops:   OpUpdate | OpDelete,
	Predicates: listing.Predicates[paddio.Match]{
		search(
			optional(func(m paddio.Match) *string { return m.ClubName }),
			optional(func(m paddio.Match) *string { return m.CourtName }),
			optional(func(m paddio.Match) *string { return m.CreatorName }),
			optional(func(m paddio.Match) *string { return m.Score }),
			text(players),
		),
		statusIs(func(m paddio.Match) string { return string(m.Status) }),
		equals(KeyClub, numeric(func(m paddio.Match) int64 { return m.ClubID })),
		custom(KeyMixed, func(m paddio.Match, value string) bool {
			want, ok := mixedFilter(value)
			return !ok || IsMixed(m.Players) == want
		}),
		between(text(func(m paddio.Match) string { return m.StartTime })),
	},
	Sorter: listing.Sorter[paddio.Match]{
		Default: "id",
		Fields: map[string]func(paddio.Match) listing.Key{
			"id":         func(m paddio.Match) listing.Key { return listing.NumberKey(m.ID) },
			"start_time": func(m paddio.Match) listing.Key { return listing.StringKey(m.StartTime) },
			"club":       func(m paddio.Match) listing.Key { return optionalKey(m.ClubName) },
			"court":      func(m paddio.Match) listing.Key { return optionalKey(m.CourtName) },
			"status":     func(m paddio.Match) listing.Key { return listing.StringKey(string(m.Status)) },
			"players":    func(m paddio.Match) listing.Key { return listing.NumberKey(len(m.Players)) },
			"mixed":      func(m paddio.Match) listing.Key { return listing.BoolKey(IsMixed(m.Players)) },
			"created_at": func(m paddio.Match) listing.Key { return listing.StringKey(m.CreatedAt) },
		},
	},
	Export: func(m paddio.Match) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(m.ID)},
			{Header: "Fecha y Hora", Value: export.DateTime(m.StartTime)},
			{Header: "Club", Value: export.Optional(m.ClubName)},
			{Header: "Cancha", Value: export.Optional(m.CourtName)},
			{Header: "Estado", Value: string(m.Status)},
			{Header: "Resultado", Value: score(m)},
			{Header: "Jugadores", Value: players(m)},
			{Header: "Cantidad de Jugadores", Value: strconv.Itoa(len(m.Players))},
			{Header: "Creador", Value: creator(m)},
			{Header: "Fecha de Creación", Value: export.Date(m.CreatedAt)},
		}
	},
})
