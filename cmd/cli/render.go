package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/stats"
)

const maxCellWidth = 40

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// statusColors maps the color names used by catalog and stats to terminal colors.
var statusColors = map[string]lipgloss.Color{
	"warning": lipgloss.Color("11"),
	"success": lipgloss.Color("10"),
	"error":   lipgloss.Color("9"),
	"info":    lipgloss.Color("12"),
	"default": lipgloss.Color("7"),
}

func colored(name, text string) string {
	color, ok := statusColors[name]
	if !ok {
		color = statusColors["default"]
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func cells(row export.Row) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = truncate(c.Value, maxCellWidth)
	}
	return out
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderTable draws export rows as a terminal table.
func renderTable(rows []export.Row) string {
	if len(rows) == 0 {
		return mutedStyle.Render("Sin resultados")
	}
	t := newTable(rows[0].Headers()...)
	for _, row := range rows {
		t.Row(cells(row)...)
	}
	return t.String()
}

func renderResources() string {
	t := newTable("Recurso", "Título", "Filtros", "Orden", "Acciones")
	for _, name := range catalog.Names() {
		res, err := catalog.Lookup(name)
		if err != nil {
			continue
		}
		t.Row(name, res.Title(), strings.Join(res.FilterKeys(), ", "), strings.Join(res.SortFields(), ", "), operations(res))
	}
	return t.String()
}

func operations(res catalog.Resource) string {
	var ops []string
	for _, op := range []struct {
		op    catalog.Op
		label string
	}{
		{catalog.OpCreate, "crear"},
		{catalog.OpUpdate, "editar"},
		{catalog.OpDelete, "eliminar"},
		{catalog.OpToggle, "activar/desactivar"},
	} {
		if res.Supports(op.op) {
			ops = append(ops, op.label)
		}
	}
	if len(ops) == 0 {
		return "-"
	}
	return strings.Join(ops, ", ")
}

func renderCounts(title string, counts []stats.Count) string {
	t := newTable(title, "Cantidad")
	for _, c := range counts {
		label := c.Label
		if c.Color != "" {
			label = colored(c.Color, label)
		}
		t.Row(label, export.Number(int64(c.Count)))
	}
	return t.String()
}

func renderSummary(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Resumen") + "\n")
	fmt.Fprintf(&b, "Usuarios: %d (%d activos)\n", s.TotalUsers, s.ActiveUsers)
	fmt.Fprintf(&b, "Administradores: %d (%d activos)\n", s.TotalAdmins, s.ActiveAdmins)
	fmt.Fprintf(&b, "Clubes: %d (%d activos)\n", s.TotalClubs, s.ActiveClubs)
	fmt.Fprintf(&b, "Partidos: %d (%d mixtos, %.0f%%)\n", s.TotalMatches, s.MixedMatches, s.MixedShare*100)
	fmt.Fprintf(&b, "Reservas: %d\n", s.TotalReservations)
	fmt.Fprintf(&b, "Notificaciones: %d enviadas, %d fallidas\n\n", s.NotificationsSent, s.NotificationsFailed)
	for _, a := range s.Alerts {
		b.WriteString(colored(a.Level, "! "+a.Message) + "\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounts("Reservas por estado", s.ReservationsByStatus), "  ",
		renderCounts("Partidos por mes", s.MatchesByMonth),
	))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounts("Usuarios por género", s.UsersByGender), "  ",
		renderCounts("Usuarios por categoría", s.UsersByCategory),
	))
	return b.String()
}
