package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

const browseHelp = "/ buscar · ←/→ página · s campo de orden · d dirección · c limpiar · r recargar · e CSV · x XLSX · q salir"

// loadedMsg carries the result of a collection fetch. gen identifies the load
// so that a slow, superseded response is dropped.
type loadedMsg struct {
	gen uint64
	ds  catalog.Dataset
	err error
}

type exportedMsg struct {
	path string
	rows int
	err  error
}

type browseModel struct {
	ctx       context.Context
	res       catalog.Resource
	api       paddio.API
	resources config.Resources
	exportDir string
	now       func() time.Time

	view      *listing.View
	ds        catalog.Dataset
	page      catalog.Page
	table     table.Model
	search    textinput.Model
	searching bool
	loading   bool
	status    string
	err       error
}

// viewFrom seeds a list view with the filters and sort given on the command line.
func viewFrom(res catalog.Resource, q listing.Query) *listing.View {
	v := listing.NewView(res.DefaultSort(), q.Page.Size)
	for key, value := range q.Filters {
		v.SetFilter(key, value)
	}
	field := q.Sort.Field
	if field == "" {
		field = res.DefaultSort()
	}
	if field != res.DefaultSort() {
		v.ToggleSort(field)
	}
	if q.Sort.Direction == listing.Desc {
		v.ToggleSort(field)
	}
	return v
}

func newBrowseModel(ctx context.Context, api paddio.API, res catalog.Resource, q listing.Query, resources config.Resources, exportDir string) browseModel {
	search := textinput.New()
	search.Placeholder = "Buscar..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.SetValue(q.Filters[listing.SearchKey])

	t := table.New(table.WithFocused(true), table.WithHeight(listing.DefaultPageSize+1))
	return browseModel{
		ctx:       ctx,
		res:       res,
		api:       api,
		resources: resources,
		exportDir: exportDir,
		now:       time.Now,
		view:      viewFrom(res, q),
		table:     t,
		search:    search,
		loading:   true,
	}
}

func runBrowser(ctx context.Context, a *app, res catalog.Resource, q listing.Query) error {
	m := newBrowseModel(ctx, a.api, res, q, a.cfg.Resources, ".")
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m browseModel) Init() tea.Cmd {
	return m.reload()
}

// reload starts a fetch. Only the response of the latest one is applied.
func (m *browseModel) reload() tea.Cmd {
	gen := m.view.Begin()
	m.loading = true
	ctx, res, api := m.ctx, m.res, m.api
	return func() tea.Msg {
		ds, err := res.Load(ctx, api)
		return loadedMsg{gen: gen, ds: ds, err: err}
	}
}

func (m browseModel) exportCmd(format export.Format) tea.Cmd {
	if m.ds == nil {
		return nil
	}
	ds, q := m.ds, m.view.Query()
	opts := catalog.ExportOptions(m.res, m.resources[m.res.Name()], format, m.now())
	dir := m.exportDir
	return func() tea.Msg {
		sink := &export.DirSink{Dir: dir}
		file, err := ds.Export(q, opts, sink)
		return exportedMsg{path: sink.Path, rows: file.Rows, err: err}
	}
}

// refresh re-runs the pipeline over the loaded records.
func (m *browseModel) refresh() {
	if m.ds == nil {
		return
	}
	m.page = m.ds.Query(m.view.Query())
	m.view.Clamp(m.page.Total)

	rows := make([]table.Row, len(m.page.Rows))
	for i, r := range m.page.Rows {
		rows[i] = cells(r)
	}
	m.table.SetRows(nil)
	if len(m.page.Rows) > 0 {
		m.table.SetColumns(columns(m.page.Rows))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func columns(rows []export.Row) []table.Column {
	headers := rows[0].Headers()
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, r := range rows {
			if i < len(r) {
				width = max(width, lipgloss.Width(truncate(r[i].Value, maxCellWidth)))
			}
		}
		cols[i] = table.Column{Title: h, Width: width}
	}
	return cols
}

// nextSortField cycles through the resource's sort fields.
func nextSortField(fields []string, current string) string {
	if len(fields) == 0 {
		return current
	}
	i := slices.Index(fields, current)
	return fields[(i+1)%len(fields)]
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.view.Accept(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = describe(msg.err)
			return m, nil
		}
		m.err = nil
		m.ds = msg.ds
		m.refresh()
		return m, nil

	case exportedMsg:
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("%d registros exportados a %s", msg.rows, msg.path)
		case errors.Is(msg.err, export.ErrNothingToExport):
			m.status = "No hay datos para exportar"
		default:
			m.status = "Error al exportar: " + msg.err.Error()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(3, msg.Height-7))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.SetFilter(listing.SearchKey, strings.TrimSpace(m.search.Value()))
	m.refresh()
	return m, cmd
}

func (m browseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.table.Blur()
		cmd := m.search.Focus()
		return m, tea.Batch(cmd, textinput.Blink)
	case "right", "l", "pgdown":
		m.view.Move(1, m.page.Total)
		m.refresh()
	case "left", "h", "pgup":
		m.view.Move(-1, m.page.Total)
		m.refresh()
	case "s":
		m.view.ToggleSort(nextSortField(m.res.SortFields(), m.view.Query().Sort.Field))
		m.refresh()
	case "d":
		m.view.ToggleSort(m.view.Query().Sort.Field)
		m.refresh()
	case "c":
		m.view.ResetFilters()
		m.search.SetValue("")
		m.refresh()
	case "r":
		cmd := m.reload()
		return m, cmd
	case "e":
		return m, m.exportCmd(export.CSV)
	case "x":
		return m, m.exportCmd(export.XLSX)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder
	title := titleStyle.Render(m.res.Title())
	if m.loading {
		title += mutedStyle.Render("  cargando...")
	}
	b.WriteString(title + "\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.ds != nil && m.page.Total == 0:
		b.WriteString(mutedStyle.Render("Sin resultados"))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	if m.ds != nil {
		b.WriteString(mutedStyle.Render(pageFooter(m.page)) + "\n")
	}
	if m.status != "" {
		b.WriteString(successStyle.Render(m.status) + "\n")
	}
	b.WriteString(mutedStyle.Render(browseHelp))
	return b.String()
}
