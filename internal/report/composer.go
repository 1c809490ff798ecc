package report

import (
	"context"
	"fmt"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/pkg/colorhash"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/locvowork/trial_report/pkg/sheetwriter"
)

const (
	headerProgram  = "Программа ПЭ:"
	headerTractors = "Количество тракторов"
	headerAvgHours = "Средняя наработка, м/ч"
	headerProgress = "Прогресс, %"

	statComponents       = "Число опытных узлов"
	statTractors         = "Число тракторов"
	statPrograms         = "Число программ ПЭ"
	statActivePrograms   = "Программ с отчетами"
	statLinkedTractors   = "Тракторов с программами"
	statBureau           = "Бюро"
	chartTitle           = "Опытные узлы по бюро"
	progressBarColor     = "#638EC6"
	programHeaderColumns = 5
	detailGapRows        = 2
)

var (
	bureauColumnWidths = []float64{16, 20, 56, 18, 24, 12, 20, 104, 18}
	statsColumnWidths  = []float64{56, 24, 24, 24, 24}
)

// Content is everything a workbook is composed from.
type Content struct {
	// Report is the remapped table, one row per field report.
	Report *frame.Frame
	// Conflicts adds the conflict sheet when not nil.
	Conflicts *frame.Frame
	// Programs is the number of distinct task-tracker programs, or -1 when unknown.
	Programs int
	// Registry adds registry statistics when not nil.
	Registry *domain.RegistryStats
}

// Composer lays out the statistics, bureau and conflict sheets.
type Composer struct {
	keys    config.ReportKeys
	palette *colorhash.Palette
}

// NewComposer creates a composer aggregating on cfg's report keys.
func NewComposer(cfg *config.ReportConfig) *Composer {
	return &Composer{keys: cfg.ReportKeys, palette: colorhash.NewPalette()}
}

// Compose writes every sheet of content into wb.
func (c *Composer) Compose(ctx context.Context, wb *sheetwriter.Workbook, content Content) error {
	groups := content.Report.GroupBy(c.keys.Bureau)

	if err := c.writeStats(wb, content, groups); err != nil {
		return fmt.Errorf("sheet %s: %w", StatsSheet, err)
	}

	namer := NewSheetNamer(StatsSheet, ConflictsSheet)
	for _, g := range groups {
		name, renamed := namer.Name(g.Key)
		if renamed {
			logger.WarnLog(ctx, "sheet name collision for bureau %q, using %q", g.Key, name)
		}
		if err := c.writeBureau(ctx, wb, name, g.Frame); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	if content.Conflicts != nil {
		if err := c.writeConflicts(wb, content.Conflicts); err != nil {
			return fmt.Errorf("sheet %s: %w", ConflictsSheet, err)
		}
	}
	logger.InfoLog(ctx, "composed workbook with %d bureau sheets", len(groups))
	return nil
}

func (c *Composer) writeStats(wb *sheetwriter.Workbook, content Content, groups []frame.Group) error {
	sh, err := wb.AddSheet(StatsSheet)
	if err != nil {
		return err
	}

	cols := []sheetwriter.Column{{Header: statComponents}, {Header: statTractors}}
	values := []interface{}{content.Report.NUnique(c.keys.Component), content.Report.NUnique(c.keys.Tractor)}
	if content.Programs >= 0 {
		cols = append(cols, sheetwriter.Column{Header: statPrograms})
		values = append(values, content.Programs)
	}
	if rs := content.Registry; rs != nil {
		cols = append(cols, sheetwriter.Column{Header: statActivePrograms}, sheetwriter.Column{Header: statLinkedTractors})
		values = append(values, rs.ActivePrograms, rs.TractorsWithPrograms)
	}
	total, err := sh.WriteSection(&sheetwriter.Section{
		Columns:    cols,
		ShowHeader: true,
		Rows:       [][]interface{}{values},
	})
	if err != nil {
		return err
	}

	rows := make([][]interface{}, len(groups))
	for i, g := range groups {
		rows[i] = []interface{}{g.Key, g.Frame.NUnique(c.keys.Component), g.Frame.NUnique(c.keys.Tractor)}
	}
	byBureau, err := sh.WriteSection(&sheetwriter.Section{
		Row:        total.NextRow + 1,
		Columns:    []sheetwriter.Column{{Header: statBureau}, {Header: statComponents}, {Header: statTractors}},
		ShowHeader: true,
		Rows:       rows,
	})
	if err != nil {
		return err
	}

	anchor := fmt.Sprintf("E%d", byBureau.HeaderRow)
	if err := sh.AddPieChart(sheetwriter.PieChart{
		Anchor:     anchor,
		Title:      chartTitle,
		Name:       sheetwriter.Range{Sheet: StatsSheet, FromCol: 2, FromRow: byBureau.HeaderRow},
		Categories: byBureau.DataRange(StatsSheet, 0),
		Values:     byBureau.DataRange(StatsSheet, 1),
	}); err != nil {
		return err
	}
	return sh.SetColumnWidths(statsColumnWidths...)
}

func (c *Composer) writeBureau(ctx context.Context, wb *sheetwriter.Workbook, name string, group *frame.Frame) error {
	sh, err := wb.AddSheet(name)
	if err != nil {
		return err
	}

	summary := Summarize(group, c.keys)
	if summary.Skipped > 0 {
		logger.DebugLog(ctx, "bureau %s: %d unparsable hours or target cells skipped", name, summary.Skipped)
	}
	headerRows := make([][]interface{}, len(summary.Components))
	for i, cs := range summary.Components {
		headerRows[i] = []interface{}{cs.Component, cs.Tractors, floatOrBlank(cs.AvgHours), floatOrBlank(cs.Progress)}
	}
	header, err := sh.WriteSection(&sheetwriter.Section{
		Columns: []sheetwriter.Column{
			{Header: headerProgram, Span: programHeaderColumns},
			{Header: headerTractors},
			{Header: headerAvgHours},
			{Header: headerProgress},
		},
		ShowHeader: true,
		Rows:       headerRows,
		CellStyle: func(row, col int, _ interface{}) *sheetwriter.Style {
			if col != 0 {
				return nil
			}
			return c.fill(summary.Components[row].Component)
		},
	})
	if err != nil {
		return err
	}
	if err := sh.AddDataBar(header.DataRange(name, 3), progressBarColor); err != nil {
		return err
	}

	detail := group.Drop(c.keys.Bureau)
	colored := detail.ColumnIndex(c.keys.Component)
	if _, err := sh.WriteSection(&sheetwriter.Section{
		Row:        header.NextRow + detailGapRows,
		Columns:    headers(detail),
		ShowHeader: true,
		Rows:       cells(detail),
		CellStyle: func(row, col int, _ interface{}) *sheetwriter.Style {
			if col != colored {
				return nil
			}
			return c.fill(detail.Value(row, c.keys.Component).String())
		},
	}); err != nil {
		return err
	}
	return sh.SetColumnWidths(bureauColumnWidths...)
}

func (c *Composer) writeConflicts(wb *sheetwriter.Workbook, conflicts *frame.Frame) error {
	sh, err := wb.AddSheet(ConflictsSheet)
	if err != nil {
		return err
	}
	if len(conflicts.Columns()) == 0 {
		return nil
	}
	if _, err := sh.WriteSection(&sheetwriter.Section{
		Columns:    headers(conflicts),
		ShowHeader: true,
		Rows:       cells(conflicts),
	}); err != nil {
		return err
	}
	widths := make([]float64, len(conflicts.Columns()))
	for i := range widths {
		widths[i] = 24
	}
	return sh.SetColumnWidths(widths...)
}

// fill colors a component cell from its record text; blank cells stay unstyled.
func (c *Composer) fill(component string) *sheetwriter.Style {
	if component == "" {
		return nil
	}
	style := sheetwriter.FillStyle(c.palette.Color(component))
	return &style
}

func headers(f *frame.Frame) []sheetwriter.Column {
	cols := make([]sheetwriter.Column, 0, len(f.Columns()))
	for _, name := range f.Columns() {
		cols = append(cols, sheetwriter.Column{Header: name})
	}
	return cols
}

func cells(f *frame.Frame) [][]interface{} {
	out := make([][]interface{}, 0, f.Len())
	for _, rec := range f.Records() {
		row := make([]interface{}, len(rec))
		for i, v := range rec {
			row[i] = sheetwriter.Numeric(v)
		}
		out = append(out, row)
	}
	return out
}
