package catalog

import (
	"strconv"
	"strings"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

const (
	KeyGender   = "gender"
	KeyCategory = "category"
	KeyProfile  = "profile"
	KeyProvince = "province"
	KeyCity     = "city"
)

// profileComplete reads complete/incomplete, falling back to yes/no.
func profileComplete(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "complete", "completo":
		return true, true
	case "incomplete", "incompleto":
		return false, true
	}
	return parseFlag(value)
}

func height(u paddio.User) string {
	if u.Height == nil || *u.Height == 0 {
		return ""
	}
	return strconv.FormatFloat(*u.Height, 'f', -1, 64) + " cm"
}

// Users lists player accounts.
var Users = register(&Entity[paddio.User]{
	name:  "users",
	title: "Usuarios",
	ops:   OpCreate | OpUpdate | OpDelete | OpToggle,
	Predicates: listing.Predicates[paddio.User]{
		search(
			text(func(u paddio.User) string { return u.Name }),
			text(func(u paddio.User) string { return u.Email }),
			optional(func(u paddio.User) *string { return u.LastName }),
			optional(func(u paddio.User) *string { return u.Category }),
			optional(func(u paddio.User) *string { return u.Gender }),
		),
		custom(KeyGender, func(u paddio.User, value string) bool {
			return u.Gender != nil && GenderOf(*u.Gender) == GenderOf(value)
		}),
		equals(KeyCategory, optional(func(u paddio.User) *string { return u.Category })),
		activeStatus(func(u paddio.User) bool { return u.IsActive }),
		custom(KeyProfile, func(u paddio.User, value string) bool {
			want, ok := profileComplete(value)
			return !ok || u.IsProfileComplete == want
		}),
		equals(KeyProvince, optional(func(u paddio.User) *string { return u.Province })),
		equals(KeyCity, optional(func(u paddio.User) *string { return u.City })),
		between(text(func(u paddio.User) string { return u.CreatedAt })),
	},
	Sorter: listing.Sorter[paddio.User]{
		Default: "id",
		Fields: map[string]func(paddio.User) listing.Key{
			"id":         func(u paddio.User) listing.Key { return listing.NumberKey(u.ID) },
			"name":       func(u paddio.User) listing.Key { return listing.StringKey(u.FullName()) },
			"email":      func(u paddio.User) listing.Key { return listing.StringKey(u.Email) },
			"category":   func(u paddio.User) listing.Key { return optionalKey(u.Category) },
			"gender":     func(u paddio.User) listing.Key { return optionalKey(u.Gender) },
			"is_active":  func(u paddio.User) listing.Key { return listing.BoolKey(u.IsActive) },
			"created_at": func(u paddio.User) listing.Key { return listing.StringKey(u.CreatedAt) },
		},
	},
	Export: func(u paddio.User) export.Row {
		return export.Row{
			{Header: "ID", Value: itoa(u.ID)},
			{Header: "Nombre", Value: u.Name},
			{Header: "Apellido", Value: export.Optional(u.LastName)},
			{Header: "Email", Value: u.Email},
			{Header: "Teléfono", Value: export.Optional(u.Phone)},
			{Header: "Categoría", Value: export.Optional(u.Category)},
			{Header: "Género", Value: export.Optional(u.Gender)},
			{Header: "Altura", Value: height(u)},
			{Header: "Estado", Value: export.ActiveLabel(u.IsActive)},
			{Header: "Perfil Completo", Value: export.YesNo(u.IsProfileComplete)},
			{Header: "Fecha de Registro", Value: export.Date(u.CreatedAt)},
		}
	},
})
