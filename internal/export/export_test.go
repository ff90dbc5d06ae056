package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type club struct {
	Name   string
	Notes  string
	Price  int64
	Active bool
}

func clubRow(c club) Row {
	return Row{
		{Header: "Nombre", Value: c.Name},
		{Header: "Notas", Value: c.Notes},
		{Header: "Precio por turno", Value: Currency(c.Price)},
		{Header: "Estado", Value: ActiveLabel(c.Active)},
	}
}

var exportDay = time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC)

func TestRecords_CSVRoundTrip(t *testing.T) {
	clubs := []club{
		{Name: "Padel Norte, Sede 1", Notes: `dice "hola"`, Price: 3000000, Active: true},
		{Name: "Sur", Notes: "línea 1\nlínea 2", Price: 1250},
		{Name: "Oeste", Price: 0, Active: true},
	}
	sink := &MemorySink{}

	file, err := Records(clubs, clubRow, Options{Format: CSV, FilenameBase: "clubes", Now: exportDay}, sink)
	require.NoError(t, err)
	require.Len(t, sink.Files, 1)
	assert.Equal(t, "clubes_2025-03-07.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, 3, file.Rows)

	parsed, err := csv.NewReader(bytes.NewReader(sink.Files[0].Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(clubs)+1)
	assert.Equal(t, []string{"Nombre", "Notas", "Precio por turno", "Estado"}, parsed[0])
	assert.Equal(t, []string{"Padel Norte, Sede 1", `dice "hola"`, "$30.000", "Activo"}, parsed[1])
	assert.Equal(t, []string{"Sur", "línea 1\nlínea 2", "$12,5", "Inactivo"}, parsed[2])
	assert.Equal(t, "$0", parsed[3][2])
}

func TestRecords_CSVDelimiter(t *testing.T) {
	sink := &MemorySink{}
	_, err := Records([]club{{Name: "Uno; Dos", Price: 100}}, clubRow, Options{Format: CSV, FilenameBase: "reservas", Delimiter: ';', Now: exportDay}, sink)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(sink.Files[0].Data))
	r.Comma = ';'
	parsed, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Uno; Dos", parsed[1][0])
	assert.Contains(t, string(sink.Files[0].Data), `"Uno; Dos"`)
}

func TestRecords_Empty(t *testing.T) {
	called := false
	sink := SinkFunc(func(File) error {
		called = true
		return nil
	})

	_, err := Records([]club{}, clubRow, Options{Format: XLSX, FilenameBase: "clubes"}, sink)

	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.False(t, called)
}

func TestRecords_XLSX(t *testing.T) {
	long := "Un nombre de club exageradamente largo que supera el ancho máximo de columna"
	clubs := []club{{Name: long, Price: 3000000, Active: true}, {Name: "Sur"}}
	sink := &MemorySink{}

	file, err := Records(clubs, clubRow, Options{Format: XLSX, FilenameBase: "clubes", Now: exportDay}, sink)
	require.NoError(t, err)
	assert.Equal(t, "clubes_2025-03-07.xlsx", file.Name)
	assert.Equal(t, xlsxContentType, file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{defaultSheet}, sheets)
	rows, err := f.GetRows(defaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Precio por turno", rows[0][2])
	assert.Equal(t, "$30.000", rows[1][2])

	nameWidth, err := f.GetColWidth(defaultSheet, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(50), nameWidth)
	statusWidth, err := f.GetColWidth(defaultSheet, "D")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Inactivo")+2), statusWidth)
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := &DirSink{Dir: dir}

	_, err := Records([]club{{Name: "Norte"}}, clubRow, Options{FilenameBase: "clubes", Now: exportDay}, sink)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "clubes_2025-03-07.csv"), sink.Path)
	data, err := os.ReadFile(sink.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Norte")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestCurrency_Fraction(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1250, "$12,5"},
		{1205, "$12,05"},
		{1299, "$12,99"},
		{1200, "$12"},
		{5, "$0,05"},
		{150000050, "$1.500.000,5"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.cents))
		})
	}
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 8, ColumnWidth(6))
	assert.Equal(t, 50, ColumnWidth(48))
	assert.Equal(t, 50, ColumnWidth(200))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$30.000", Currency(3000000))
	assert.Equal(t, "$1.234.567", Currency(123456700))
	assert.Equal(t, "$-50", Currency(-5000))
	assert.Equal(t, "7/3/2025", Date("2025-03-07"))
	assert.Equal(t, "7/3/2025, 18:30:00", DateTime("2025-03-07T18:30:00"))
	assert.Equal(t, "7/3/2025, 18:30:05", DateTime("2025-03-07T18:30:05Z"))
	assert.Equal(t, "mañana", Date("mañana"))
	assert.Equal(t, "", Date(""))
	assert.Equal(t, "Sí", YesNo(true))
	assert.Equal(t, "Inactivo", ActiveLabel(false))
	assert.Equal(t, "a, c", Join([]string{"a", "", "c"}, func(s string) string { return s }))
	assert.Equal(t, "", Optional(nil))
}
