package sheetwriter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSection_Layout(t *testing.T) {
	wb := New()
	defer wb.Close()

	sh, err := wb.AddSheet("Б1")
	require.NoError(t, err)

	fill := FillStyle("#aabbcc")
	p, err := sh.WriteSection(&Section{
		Row:        1,
		Columns:    []Column{{Header: "Программа ПЭ:", Span: 5}, {Header: "Количество тракторов"}},
		ShowHeader: true,
		Rows:       [][]interface{}{{"Насос", 2}, {"Фильтр", 1}},
		CellStyle: func(_, col int, _ interface{}) *Style {
			if col == 0 {
				return &fill
			}
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, p.HeaderRow)
	assert.Equal(t, 2, p.FirstDataRow)
	assert.Equal(t, 3, p.LastDataRow)
	assert.Equal(t, 4, p.NextRow)
	assert.Equal(t, []int{1, 6}, p.ColumnStart)

	rows, err := sh.Rows()
	require.NoError(t, err)
	assert.Equal(t, "Программа ПЭ:", rows[0][0])
	assert.Equal(t, "Количество тракторов", rows[0][5])
	assert.Equal(t, "Насос", rows[1][0])
	assert.Equal(t, "2", rows[1][5])

	merged, err := wb.File().GetMergeCells("Б1")
	require.NoError(t, err)
	assert.Len(t, merged, 3)

	// header style and one fill style
	assert.Equal(t, 2, wb.StyleCount())
}

func TestWriteSection_TitleAndEmpty(t *testing.T) {
	wb := New()
	defer wb.Close()
	sh, err := wb.AddSheet("S")
	require.NoError(t, err)

	p, err := sh.WriteSection(&Section{
		Row: 3, Col: 2, Title: "Итого",
		Columns:    []Column{{Header: "a"}, {Header: "b"}},
		ShowHeader: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.TitleRow)
	assert.Equal(t, 4, p.HeaderRow)
	assert.Equal(t, 5, p.FirstDataRow)
	assert.Equal(t, 4, p.LastDataRow)

	r := p.DataRange("S", 1)
	assert.Equal(t, "'S'!$C$5:$C$4", r.String())
}

func TestAddSheet_ReusesDefaultSheet(t *testing.T) {
	wb := New()
	defer wb.Close()

	_, err := wb.AddSheet("Статистика")
	require.NoError(t, err)
	_, err = wb.AddSheet("Б1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Статистика", "Б1"}, wb.File().GetSheetList())
	assert.Equal(t, []string{"Статистика", "Б1"}, wb.SheetNames())

	_, err = wb.AddSheet("bad/name")
	assert.Error(t, err)
}

func TestChartsAndBarsSurviveSave(t *testing.T) {
	wb := New()
	sh, err := wb.AddSheet("Статистика")
	require.NoError(t, err)

	p, err := sh.WriteSection(&Section{
		Columns:    []Column{{Header: "Бюро"}, {Header: "Число опытных узлов"}},
		ShowHeader: true,
		Rows:       [][]interface{}{{"Б1", 3}, {"Б2", 5}},
	})
	require.NoError(t, err)

	require.NoError(t, sh.AddPieChart(PieChart{
		Anchor:     "E2",
		Title:      "Опытные узлы по бюро",
		Name:       Range{Sheet: "Статистика", FromCol: 2, FromRow: p.HeaderRow},
		Categories: p.DataRange("Статистика", 0),
		Values:     p.DataRange("Статистика", 1),
	}))
	require.NoError(t, sh.AddDataBar(p.DataRange("Статистика", 1), "#638EC6"))
	require.NoError(t, sh.SetColumnWidths(56, 24))

	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())
	require.NoError(t, wb.Close())
	assert.ErrorIs(t, wb.SaveAs(path), ErrClosed)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := f.GetColWidth("Статистика", "A")
	require.NoError(t, err)
	assert.Equal(t, 56.0, w)

	formats, err := f.GetConditionalFormats("Статистика")
	require.NoError(t, err)
	assert.Contains(t, formats, "B2:B3")
}

func TestRangeString(t *testing.T) {
	r := Range{Sheet: "Статистика", FromCol: 1, FromRow: 5, ToCol: 1, ToRow: 7}
	assert.Equal(t, "'Статистика'!$A$5:$A$7", r.String())
	assert.Equal(t, "A5:A7", r.Cells())
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, 1250.5, Numeric("1250.5"))
	assert.Equal(t, -3.0, Numeric("-3"))
	assert.Equal(t, "00123", Numeric("00123"))
	assert.Equal(t, "T1", Numeric("T1"))
	assert.Equal(t, "NaN", Numeric("NaN"))
	assert.Equal(t, "", Numeric(""))
}

func TestStyleBuilder(t *testing.T) {
	s := NewStyleBuilder().Bold().Fill("#ffeeaa").Align("center").Border().NumberFormat("0.0").Build()
	es := s.toExcelize()
	require.NotNil(t, es.Font)
	assert.True(t, es.Font.Bold)
	assert.Equal(t, []string{"ffeeaa"}, es.Fill.Color)
	assert.Len(t, es.Border, 4)
	require.NotNil(t, es.CustomNumFmt)
	assert.Equal(t, "0.0", *es.CustomNumFmt)
	assert.Equal(t, s, From(s).Build())
}
