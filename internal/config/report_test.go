package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReportConfig_ShippedFile(t *testing.T) {
	cfg, err := LoadReportConfig(filepath.Join("..", "..", "report_config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, JoinRight, cfg.JoinPolicy)
	assert.True(t, cfg.FillGaps())
	assert.Len(t, cfg.ReportColumnMap, 10)
	assert.Equal(t, "Модель трактора", cfg.ReportColumnMap[0].Name)
	assert.Equal(t, "Бюро", cfg.ReportColumnMap[9].Name)

	comp, ok := cfg.ReportColumnMap.Lookup("Опытный узел")
	require.True(t, ok)
	assert.Equal(t, 2, comp.Position)

	target, ok := cfg.ReportColumnMap.Lookup("Продолжительность контроля, м/ч")
	require.True(t, ok)
	assert.Equal(t, "Примечание", target.Source)

	// format map falls back to the identity over report columns
	assert.Equal(t, cfg.ReportColumnMap.Names(), cfg.FormatColumnMap.Names())
	assert.Equal(t, cfg.ReportColumnMap.Names(), cfg.FormatColumnMap.Sources())
}

func TestParseReportConfig_SortsByPosition(t *testing.T) {
	raw := []byte(`
bitrix_columns: [Название]
web_columns: [Опытный узел]
report_column_map:
  c: [2, C]
  a: [0, A]
  b: [1, B]
`)
	cfg, err := ParseReportConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.ReportColumnMap.Names())
	assert.Equal(t, []string{"A", "B", "C"}, cfg.ReportColumnMap.Sources())
	assert.Equal(t, "ПЭ: ", cfg.NamePrefix)
	assert.Equal(t, "_bitrix", cfg.CollisionSuffix)
}

func TestParseReportConfig_AcceptsJSON(t *testing.T) {
	raw := []byte(`{"bitrix_columns": ["Название"], "web_columns": ["Опытный узел"],
		"report_column_map": {"Опытный узел": [0, "Опытный узел"]}, "gap_fill": false, "join_policy": "left"}`)
	cfg, err := ParseReportConfig(raw)
	require.NoError(t, err)
	assert.False(t, cfg.FillGaps())
	assert.Equal(t, JoinLeft, cfg.JoinPolicy)
}

func TestParseReportConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "unknown policy",
			raw:  "bitrix_columns: [a]\nweb_columns: [b]\nreport_column_map: {x: [0, a]}\njoin_policy: cross\n",
			want: "unknown join_policy",
		},
		{
			name: "duplicate position",
			raw:  "bitrix_columns: [a]\nweb_columns: [b]\nreport_column_map: {x: [0, a], y: [0, b]}\n",
			want: "share position 0",
		},
		{
			name: "empty columns",
			raw:  "report_column_map: {x: [0, a]}\n",
			want: "bitrix_columns is empty",
		},
		{
			name: "malformed mapping",
			raw:  "bitrix_columns: [a]\nweb_columns: [b]\nreport_column_map: {x: [0]}\n",
			want: "[position, source_column]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportConfig([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnvConfig_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("FILE_MAX_LIFETIME", "120")
	t.Setenv("CLEAN_INTERVAL", "5m")

	cfg, err := LoadEnvConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.APP_PORT)
	assert.Equal(t, 120*time.Second, cfg.FILE_MAX_LIFETIME)
	assert.Equal(t, 5*time.Minute, cfg.CLEAN_INTERVAL)
	assert.Equal(t, "uploads", cfg.UPLOAD_FOLDER)
}

func TestLoadEnvConfig_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("UPLOAD_FOLDER=/srv/uploads\n"), 0o644))
	t.Setenv("UPLOAD_FOLDER", "")
	os.Unsetenv("UPLOAD_FOLDER")

	cfg, err := LoadEnvConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/uploads", cfg.UPLOAD_FOLDER)
}
