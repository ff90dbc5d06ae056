package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mauv0809/paddio-admin/internal/catalog"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResolveResource(t *testing.T) {
	res, err := resolveResource("Clubes")
	require.NoError(t, err)
	assert.Equal(t, "clubs", res.Name())

	_, err = resolveResource("usres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
}

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery(catalog.Users, listOptions{
		search:  "ana",
		filters: map[string]string{catalog.KeyStatus: "active"},
		sort:    "id",
		desc:    true,
		page:    2,
		perPage: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", q.Filters[listing.SearchKey])
	assert.Equal(t, "active", q.Filters[catalog.KeyStatus])
	assert.Equal(t, listing.SortState{Field: "id", Direction: listing.Desc}, q.Sort)
	assert.Equal(t, listing.PageState{Index: 1, Size: 25}, q.Page)
}

func TestBuildQuery_Rejections(t *testing.T) {
	tests := []struct {
		name string
		opts listOptions
		want string
	}{
		{"unknown filter", listOptions{filters: map[string]string{"color": "rojo"}}, "filtro desconocido"},
		{"unknown sort", listOptions{sort: "altura"}, "campo de orden desconocido"},
		{"bad page size", listOptions{perPage: 7}, "filas por página"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildQuery(catalog.Clubs, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]export.Row{
		{{Header: "ID", Value: "1"}, {Header: "Nombre", Value: "Norte"}},
		{{Header: "ID", Value: "2"}, {Header: "Nombre", Value: "Sur"}},
	})
	assert.Contains(t, out, "Nombre")
	assert.Contains(t, out, "Norte")
	assert.Contains(t, out, "Sur")

	assert.Contains(t, renderTable(nil), "Sin resultados")
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(stats.Summary{
		TotalAdmins:         3,
		ActiveAdmins:        2,
		NotificationsSent:   40,
		NotificationsFailed: 1,
		Alerts:              []stats.Alert{{Level: "info", Message: "1 club(s) inactivo(s)"}},
	})
	assert.Contains(t, out, "Administradores: 3 (2 activos)")
	assert.Contains(t, out, "Notificaciones: 40 enviadas, 1 fallidas")
	assert.Contains(t, out, "1 club(s) inactivo(s)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "a b", truncate("a\n b", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestNextSortField(t *testing.T) {
	fields := []string{"id", "name", "city"}
	assert.Equal(t, "name", nextSortField(fields, "id"))
	assert.Equal(t, "id", nextSortField(fields, "city"))
	assert.Equal(t, "id", nextSortField(fields, "unknown"))
}

func TestViewFrom(t *testing.T) {
	v := viewFrom(catalog.Users, listing.Query{
		Filters: listing.FilterState{catalog.KeyCity: "Rosario"},
		Sort:    listing.SortState{Field: "name", Direction: listing.Desc},
		Page:    listing.PageState{Size: 25},
	})
	q := v.Query()
	assert.Equal(t, "Rosario", q.Filters[catalog.KeyCity])
	assert.Equal(t, listing.SortState{Field: "name", Direction: listing.Desc}, q.Sort)
	assert.Equal(t, 25, q.Page.Size)
}

func testUsers() []paddio.User {
	surname := "Pérez"
	users := make([]paddio.User, 12)
	for i := range users {
		users[i] = paddio.User{ID: int64(i + 1), Name: "Jugador", LastName: &surname}
	}
	users[0].Name = "Ana"
	users[5].Name = "Mariana"
	return users
}

func newTestBrowser(t *testing.T) (browseModel, *paddio.MockClient) {
	t.Helper()
	resources, err := config.LoadResources("")
	require.NoError(t, err)
	api := paddio.NewMockClient().WithCollection("users", testUsers())
	q := listing.Query{Filters: listing.FilterState{}, Page: listing.PageState{Size: listing.DefaultPageSize}}
	return newBrowseModel(context.Background(), api, catalog.Users, q, resources, t.TempDir()), api
}

func update(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(browseModel)
	require.True(t, ok)
	return bm, cmd
}

func TestBrowser_LoadsAndPages(t *testing.T) {
	m, api := newTestBrowser(t)

	m, _ = update(t, m, m.Init()())
	assert.False(t, m.loading)
	assert.Equal(t, []string{"users"}, api.FetchCollectionCalls)
	assert.Equal(t, 12, m.page.Total)
	assert.Len(t, m.page.Rows, 10)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.page.PageIndex)
	assert.Len(t, m.page.Rows, 2)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.page.PageIndex, "stays on the last page")
	assert.Contains(t, m.View(), "Página 2 de 2")
}

func TestBrowser_DropsSupersededLoad(t *testing.T) {
	m, _ := newTestBrowser(t)

	first := m.Init()
	m, second := update(t, m, key("r"))
	require.NotNil(t, second)

	m, _ = update(t, m, first())
	assert.Nil(t, m.ds, "a superseded load must not be applied")
	assert.True(t, m.loading)

	m, _ = update(t, m, second())
	assert.NotNil(t, m.ds)
	assert.False(t, m.loading)
}

func TestBrowser_SearchResetsPage(t *testing.T) {
	m, _ := newTestBrowser(t)
	m, _ = update(t, m, m.Init()())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 1, m.page.PageIndex)

	m, _ = update(t, m, key("/"))
	assert.True(t, m.searching)
	m, _ = update(t, m, key("ana"))

	assert.Equal(t, 0, m.page.PageIndex)
	assert.Equal(t, 2, m.page.Total)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	m, _ = update(t, m, key("c"))
	assert.Equal(t, 12, m.page.Total)
	assert.Empty(t, m.search.Value())
}

func TestBrowser_SortKeys(t *testing.T) {
	m, _ := newTestBrowser(t)
	m, _ = update(t, m, m.Init()())

	m, _ = update(t, m, key("d"))
	assert.Equal(t, listing.Desc, m.page.Sort.Direction)
	assert.Equal(t, "12", m.page.Rows[0][0].Value)

	m, _ = update(t, m, key("s"))
	assert.NotEqual(t, catalog.Users.DefaultSort(), m.page.Sort.Field)
	assert.Equal(t, listing.Asc, m.page.Sort.Direction)
}

func TestBrowser_Export(t *testing.T) {
	m, _ := newTestBrowser(t)
	m, _ = update(t, m, m.Init()())

	_, cmd := update(t, m, key("e"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, 12, msg.rows)
	assert.Equal(t, m.exportDir, filepath.Dir(msg.path))
	_, err := os.Stat(msg.path)
	assert.NoError(t, err)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.status, "12 registros exportados")
}

func TestDescribe(t *testing.T) {
	assert.Nil(t, describe(nil))
	assert.Contains(t, describe(&paddio.APIError{StatusCode: 401}).Error(), "login")
	assert.Equal(t, "sin permiso", describe(&paddio.APIError{StatusCode: 403, Detail: "sin permiso"}).Error())
}
