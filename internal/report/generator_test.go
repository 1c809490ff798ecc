package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var webHeader = []string{
	"Модель трактора", "№ трактора", "Опытный узел", "ПЭ: дата время", "Наработка, м/ч",
	"ПЭ: наработка м/ч", "ПЭ: Комментарий", "Граничная дата гарантии", "Бюро",
}

func shippedConfig(t *testing.T) *config.ReportConfig {
	t.Helper()
	cfg, err := config.LoadReportConfig(filepath.Join("..", "..", "report_config.yaml"))
	require.NoError(t, err)
	return cfg
}

func openRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func sheetList(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func TestMergeReportGenerator_EndToEnd(t *testing.T) {
	cfg := shippedConfig(t)
	dir := t.TempDir()

	bitrix := frame.FromRecords([]string{"Название", "Описание", "Теги", "Примечание"}, [][]string{
		{"ПЭ: Насос", "", "Б1, Б2", "2000 м/ч"},
		{"ПЭ: Сиденье", "", "Б3", "100 м/ч"},
	})
	web := frame.FromRecords(webHeader, [][]string{
		{"Беларус-3522", "T1", "Насос", "01.02.2025 10:00", "100", "", "", "2027-01-01", "Б1"},
		{"Беларус-3522", "T2", "Насос", "03.02.2025 12:00", "150", "140", "течь", "2027-01-01", "Б1"},
	})

	res, err := NewMergeReportGenerator(cfg, bitrix, web, Output{Folder: dir, LinkPrefix: "/download?link="}).
		Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ReportCreatedMessage, res.Message)
	name := filepath.Base(res.Path)
	assert.True(t, strings.HasPrefix(name, "результат_"))
	assert.Equal(t, "/download?link="+name, res.DownloadLink)

	assert.Equal(t, []string{StatsSheet, "Б1", ConflictsSheet}, sheetList(t, res.Path))

	b1 := openRows(t, res.Path, "Б1")
	assert.Equal(t, headerProgram, b1[0][0])
	assert.Equal(t, headerTractors, b1[0][5])
	assert.Equal(t, "Насос", b1[1][0])
	assert.Equal(t, "2", b1[1][5])
	// detail table after a two-row gap, without the bureau column
	require.Len(t, b1, 7)
	assert.Equal(t, "Опытный узел", b1[4][2])
	assert.Len(t, b1[4], 9)
	assert.NotContains(t, b1[4], "Бюро")
	assert.Equal(t, "T1", b1[5][1])
	assert.Equal(t, "течь", b1[6][7])
	assert.Equal(t, "-", b1[5][7])

	stats := openRows(t, res.Path, StatsSheet)
	assert.Equal(t, []string{statComponents, statTractors, statPrograms, statActivePrograms, statLinkedTractors}, stats[0])
	assert.Equal(t, []string{"1", "2", "2", "1", "2"}, stats[1])
	assert.Equal(t, []string{statBureau, statComponents, statTractors}, stats[3])
	assert.Equal(t, []string{"Б1", "1", "2"}, stats[4])

	conflicts := openRows(t, res.Path, ConflictsSheet)
	require.Len(t, conflicts, 2)
	assert.Contains(t, conflicts[1], "Сиденье")
	assert.Contains(t, conflicts[1], "только bitrix")
}

func TestMergeReportGenerator_BureauColumnsColoredConsistently(t *testing.T) {
	cfg := shippedConfig(t)
	bitrix := frame.FromRecords([]string{"Название", "Описание", "Теги", "Примечание"}, [][]string{
		{"ПЭ: Насос", "", "Б1", "2000"},
	})
	web := frame.FromRecords(webHeader, [][]string{
		{"М", "T1", "Насос", "", "100", "", "", "", "Б1"},
	})
	res, err := NewMergeReportGenerator(cfg, bitrix, web, Output{Folder: t.TempDir()}).Generate(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()

	headerStyle, err := f.GetCellStyle("Б1", "A2")
	require.NoError(t, err)
	detailStyle, err := f.GetCellStyle("Б1", "C6")
	require.NoError(t, err)
	assert.NotZero(t, headerStyle)
	assert.Equal(t, headerStyle, detailStyle)

	progress, err := f.GetCellValue("Б1", "H2")
	require.NoError(t, err)
	assert.Equal(t, "5", progress)
}

func TestMergeReportGenerator_SchemaMismatch(t *testing.T) {
	cfg := shippedConfig(t)
	dir := t.TempDir()
	bitrix := frame.FromRecords([]string{"Название"}, nil)
	web := frame.FromRecords(webHeader, nil)

	_, err := NewMergeReportGenerator(cfg, bitrix, web, Output{Folder: dir}).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
	assert.Equal(t, 400, domain.ErrorCode(err))

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageContentMerged, se.Stage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMergeReportGenerator_SaveFailure(t *testing.T) {
	cfg := shippedConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	bitrix := frame.FromRecords([]string{"Название", "Описание", "Теги", "Примечание"}, nil)
	web := frame.FromRecords(webHeader, [][]string{{"М", "T1", "Насос", "", "", "", "", "", "Б1"}})

	_, err := NewMergeReportGenerator(cfg, bitrix, web, Output{Folder: filepath.Join(blocker, "out")}).
		Generate(context.Background())
	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageSaved, se.Stage)
	assert.Equal(t, 500, domain.ErrorCode(err))
}

func TestFormatReportGenerator(t *testing.T) {
	cfg := shippedConfig(t)
	merged := frame.FromRecords(cfg.ReportColumnMap.Names(), [][]string{
		{"М", "T1", "Насос", "", "2000 м/ч", "100", "", "-", "", "Б1"},
		{"М", "T2", "Фильтр", "", "500", "250", "", "-", "", "Б2"},
	})

	res, err := NewFormatReportGenerator(cfg, merged, Output{Folder: t.TempDir()}).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{StatsSheet, "Б1", "Б2"}, sheetList(t, res.Path))

	stats := openRows(t, res.Path, StatsSheet)
	assert.Equal(t, []string{statComponents, statTractors}, stats[0])

	b2 := openRows(t, res.Path, "Б2")
	assert.Equal(t, "Фильтр", b2[1][0])
	assert.Equal(t, "50", b2[1][7])
}

func TestFormatReportGenerator_NumericComponentColoredConsistently(t *testing.T) {
	cfg := shippedConfig(t)
	merged := frame.FromRecords(cfg.ReportColumnMap.Names(), [][]string{
		{"М", "T1", "1000000", "", "2000", "100", "", "-", "", "Б1"},
	})
	res, err := NewFormatReportGenerator(cfg, merged, Output{Folder: t.TempDir()}).Generate(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()

	fillOf := func(cell string) []string {
		idx, err := f.GetCellStyle("Б1", cell)
		require.NoError(t, err)
		style, err := f.GetStyle(idx)
		require.NoError(t, err)
		return style.Fill.Color
	}
	header, detail := fillOf("A2"), fillOf("C6")
	assert.NotEmpty(t, header)
	assert.Equal(t, header, detail)
}

func TestFormatReportGenerator_SchemaMismatch(t *testing.T) {
	cfg := shippedConfig(t)
	merged := frame.FromRecords([]string{"Опытный узел"}, nil)
	_, err := NewFormatReportGenerator(cfg, merged, Output{Folder: t.TempDir()}).Generate(context.Background())

	var sm *domain.SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Equal(t, SourceNameFormat, sm.Source)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "WorkbookComposed", StageWorkbookComposed.String())
	err := &StageError{Stage: StageColumnsRemapped, Err: errors.New("x")}
	assert.Equal(t, "report stage ColumnsRemapped: x", err.Error())
}
