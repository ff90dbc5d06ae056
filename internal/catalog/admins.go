package catalog

import (
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// KeyRole filters administrators by role.
const KeyRole = "role"

var roleLabels = map[paddio.Role]string{
	paddio.RoleSuperAdmin: "Super administrador",
	paddio.RoleAdmin:      "Administrador de club",
	paddio.RoleUser:       "Jugador",
}

// RoleLabel is the Spanish name of a role.
func RoleLabel(r paddio.Role) string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// assignedClub is the club name, else its id, else "Sin asignar".
func assignedClub(a paddio.Admin) string {
	if a.ClubName != nil && *a.ClubName != "" {
		return *a.ClubName
	}
	if a.ClubID != nil && *a.ClubID != 0 {
		return itoa(*a.ClubID)
	}
	return "Sin asignar"
}

// Admins lists club administrators.
var Admins = register(&Entity[paddio.Admin]{
	name:  "admins",
	title: "Administradores",
	ops:   OpCreate | OpUpdate | OpDelete | OpToggle,
	Predicates: listing.Predicates[paddio.Admin]{
		search(
			text(func(a paddio.Admin) string { return a.Name }),
			text(func(a paddio.Admin) string { return a.Email }),
			optional(func(a paddio.Admin) *string { return a.Phone }),
			optional(func(a paddio.Admin) *string { return a.ClubName }),
		),
		equals(KeyRole, text(func(a paddio.Admin) string { return string(a.Role) })),
		equals(KeyClub, text(func(a paddio.Admin) string { return optionalInt(a.ClubID) })),
		activeStatus(func(a paddio.Admin) bool { return a.IsActive }),
		between(text(func(a paddio.Admin) string { return a.CreatedAt })),
	},
	Sorter: listing.Sorter[paddio.Admin]{
		Default: "id",
		Fields: map[string]func(paddio.Admin) listing.Key{
			"id":         func(a paddio.Admin) listing.Key { return listing.NumberKey(a.ID) },
			"name":       func(a paddio.Admin) listing.Key { return listing.StringKey(a.Name) },
			"email":      func(a paddio.Admin) listing.Key { return listing.StringKey(a.Email) },
			"club":       func(a paddio.Admin) listing.Key { return optionalKey(a.ClubName) },
			"is_active":  func(a paddio.Admin) listing.Key { return listing.BoolKey(a.IsActive) },
			"created_at": func(a paddio.Admin) listing.Key { return listing.StringKey(a.CreatedAt) },
		},
	},
	Export: func(a paddio.Admin) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(a.ID)},
			{Header: "Nombre", Value: a.Name},
			{Header: "Email", Value: a.Email},
			{Header: "Teléfono", Value: export.Optional(a.Phone)},
			{Header: "Club Asignado", Value: assignedClub(a)},
			{Header: "Estado", Value: export.ActiveLabel(a.IsActive)},
			{Header: "Fecha de Creación", Value: export.Date(a.CreatedAt)},
		}
	},
})
