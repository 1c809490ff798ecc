package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	web := filepath.Join(dir, "web.xlsx")
	bitrix := filepath.Join(dir, "bitrix.xlsx")
	out := filepath.Join(dir, "out")

	writeWorkbook(t, web, []string{
		"Модель трактора", "№ трактора", "Опытный узел", "ПЭ: дата время", "Наработка, м/ч",
		"ПЭ: наработка м/ч", "ПЭ: Комментарий", "Граничная дата гарантии", "Бюро",
	}, [][]string{
		{"Беларус-3522", "T1", "Насос", "", "100", "", "", "", "Б1"},
	})
	writeWorkbook(t, bitrix, []string{"Название", "Описание", "Теги", "Примечание"}, [][]string{
		{"ПЭ: Насос", "", "Б1", "2000 м/ч"},
	})

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{
		"merge", "--web", web, "--bitrix", bitrix, "--out", out,
		"--config", filepath.Join("..", "..", "report_config.yaml"),
	})
	require.NoError(t, rootCmd.Execute())

	assert.True(t, strings.HasPrefix(stdout.String(), "Отчет создан: "))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "результат_"))
}

func TestFormatCommand_MissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{
		"format", "--file", filepath.Join(t.TempDir(), "absent.xlsx"),
		"--config", filepath.Join("..", "..", "report_config.yaml"),
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[400]")
}
