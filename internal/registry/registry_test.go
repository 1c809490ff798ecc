package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Relations(t *testing.T) {
	reg := New()
	reg.AddProgram("Насос", "")
	reg.AddProgram("Насос", "2000 м/ч")
	reg.AddProgram("Насос", "500")
	reg.AddTractor("T1", "Беларус-3522", "2027-01-01")
	reg.AddDepartment("Б1")

	require.NoError(t, reg.LinkTractor("Насос", "T1"))
	require.NoError(t, reg.LinkTractor("Насос", "T1"))
	require.NoError(t, reg.LinkDepartment("Насос", "Б1"))

	p, ok := reg.Program("Насос")
	require.True(t, ok)
	assert.Equal(t, "2000 м/ч", p.ObservationTarget)
	assert.True(t, p.Active)
	assert.Equal(t, []string{"T1"}, p.Tractors)
	assert.Equal(t, []string{"Б1"}, p.Departments)

	tr, ok := reg.Tractor("T1")
	require.True(t, ok)
	assert.Equal(t, []string{"Насос"}, tr.Programs)
	assert.Equal(t, []string{"Насос"}, reg.ProgramsOfDepartment("Б1"))

	err := reg.LinkTractor("Фильтр", "T1")
	assert.True(t, errors.Is(err, ErrNotFound))
	err = reg.LinkDepartment("Насос", "Б9")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_SnapshotsAreCopies(t *testing.T) {
	reg := New()
	reg.AddProgram("Насос", "")
	reg.AddTractor("T1", "", "")
	require.NoError(t, reg.LinkTractor("Насос", "T1"))

	p, _ := reg.Program("Насос")
	p.Tractors[0] = "changed"

	again, _ := reg.Program("Насос")
	assert.Equal(t, "T1", again.Tractors[0])
}

func TestRegistry_ConcurrentWrites(t *testing.T) {
	reg := New()
	reg.AddProgram("Насос", "")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.AddReport(domain.FieldReport{Program: "Насос"})
		}()
	}
	wg.Wait()
	assert.Len(t, reg.ReportsOfProgram("Насос"), 50)
	assert.Equal(t, 50, reg.Stats().Reports)
}

func TestLoad(t *testing.T) {
	cfg, err := config.ParseReportConfig([]byte(`
bitrix_columns: [Название, Описание, Теги, Примечание]
web_columns: [№ трактора, Опытный узел]
report_column_map: {Опытный узел: [0, Опытный узел]}
`))
	require.NoError(t, err)

	bitrix := frame.FromRecords([]string{"Название", "Теги", "Примечание"}, [][]string{
		{"Насос", "Б1", "2000 м/ч"},
		{"Насос", "Б2", "2000 м/ч"},
		{"Фильтр", "Б2", "500"},
	})
	web := frame.FromRecords([]string{"№ трактора", "Опытный узел", "Модель трактора", "ПЭ: Комментарий", "Наработка, м/ч"}, [][]string{
		{"T1", "Насос", "Б-3522", "-", "100"},
		{"T2", "Насос", "Б-3522", "течь", "150"},
		{"T3", "Неизвестный", "Б-82", "-", "10"},
		{"", "Насос", "", "", ""},
	})

	reg := New()
	Load(context.Background(), reg, bitrix, web, cfg)

	s := reg.Stats()
	assert.Equal(t, domain.RegistryStats{
		Programs:             2,
		ActivePrograms:       1,
		Tractors:             3,
		TractorsWithPrograms: 2,
		Departments:          2,
		Reports:              3,
	}, s)

	assert.Equal(t, []string{"Насос", "Фильтр"}, reg.ProgramsOfDepartment("Б2"))
	reports := reg.ReportsOfProgram("Насос")
	require.Len(t, reports, 2)
	assert.Equal(t, "течь", reports[1].Comment)
	assert.Equal(t, "150", reports[1].OperatingHours)

	active := reg.ActivePrograms()
	require.Len(t, active, 1)
	assert.Equal(t, []string{"T1", "T2"}, active[0].Tractors)
}
