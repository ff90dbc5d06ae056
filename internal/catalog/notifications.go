package catalog

import (
	"strconv"

	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

func audience(n paddio.BroadcastHistoryItem) string {
	info := n.Info()
	category := "Todas las categorías"
	if info.Category != nil && *info.Category != "" {
		category = "Categoría " + *info.Category
	}
	if info.OnlyActiveUsers != nil && *info.OnlyActiveUsers {
		return category + ", solo activos"
	}
	return category
}

// Notifications lists sent broadcasts. New ones go through
// paddio.API.SendBroadcast.
var Notifications = register(&Entity[paddio.BroadcastHistoryItem]{
	name:  "notifications",
	title: "Notificaciones",
	Predicates: listing.Predicates[paddio.BroadcastHistoryItem]{
		search(
			text(func(n paddio.BroadcastHistoryItem) string { return n.Title }),
			text(func(n paddio.BroadcastHistoryItem) string { return n.Message }),
			optional(func(n paddio.BroadcastHistoryItem) *string { return n.Info().AdminName }),
		),
		equals(KeyCategory, optional(func(n paddio.BroadcastHistoryItem) *string { return n.Info().Category })),
		between(text(func(n paddio.BroadcastHistoryItem) string { return n.CreatedAt })),
	},
	Sorter: listing.Sorter[paddio.BroadcastHistoryItem]{
		Default: "id",
		Fields: map[string]func(paddio.BroadcastHistoryItem) listing.Key{
			"id":         func(n paddio.BroadcastHistoryItem) listing.Key { return listing.NumberKey(n.ID) },
			"title":      func(n paddio.BroadcastHistoryItem) listing.Key { return listing.StringKey(n.Title) },
			"created_at": func(n paddio.BroadcastHistoryItem) listing.Key { return listing.StringKey(n.CreatedAt) },
			"sent":       func(n paddio.BroadcastHistoryItem) listing.Key { return listing.NumberKey(n.Info().SentCount) },
			"failed":     func(n paddio.BroadcastHistoryItem) listing.Key { return listing.NumberKey(n.Info().FailedCount) },
		},
	},
	Export: func(n paddio.BroadcastHistoryItem) export.Row {
		info := n.Info()
		return export.Row{
			{Header: "ID", Value: itoa(n.ID)},
			{Header: "Título", Value: n.Title},
			{Header: "Mensaje", Value: n.Message},
			{Header: "Destinatarios", Value: audience(n)},
			{Header: "Usuarios objetivo", Value: strconv.Itoa(info.TargetUsersCount)},
			{Header: "Enviadas", Value: strconv.Itoa(info.SentCount)},
			{Header: "Fallidas", Value: strconv.Itoa(info.FailedCount)},
			{Header: "Enviada por", Value: export.Optional(info.AdminName)},
			{Header: "Fecha de envío", Value: export.DateTime(n.CreatedAt)},
		}
	},
})
