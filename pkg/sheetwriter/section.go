package sheetwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Column defines one column of a section.
type Column struct {
	Header string
	// Span is the number of sheet columns the cells occupy (merged); 0 means 1.
	Span int
}

func (c Column) span() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// Section is a block with an optional title row, a header row and data rows.
type Section struct {
	// Row and Col are the top-left corner, 1-based. Zero means 1.
	Row, Col    int
	Title       string
	Columns     []Column
	ShowHeader  bool
	Rows        [][]interface{}
	TitleStyle  *Style
	HeaderStyle *Style
	DataStyle   *Style
	// CellStyle overrides the data style per cell; nil keeps DataStyle.
	CellStyle func(row, col int, v interface{}) *Style
}

// Placement records where a section landed.
type Placement struct {
	TitleRow     int
	HeaderRow    int
	FirstDataRow int
	LastDataRow  int
	// ColumnStart maps a section column index to its first sheet column.
	ColumnStart []int
	// NextRow is the first row below the section.
	NextRow int
}

// DataRange returns the data cells of section column idx.
func (p Placement) DataRange(sheet string, idx int) Range {
	c := p.ColumnStart[idx]
	return Range{Sheet: sheet, FromCol: c, FromRow: p.FirstDataRow, ToCol: c, ToRow: p.LastDataRow}
}

// WriteSection renders sec and reports its placement. An empty section still writes
// its title and header; LastDataRow is then FirstDataRow-1.
func (s *Sheet) WriteSection(sec *Section) (Placement, error) {
	row, col := sec.Row, sec.Col
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}

	starts := make([]int, len(sec.Columns))
	width := 0
	for i, c := range sec.Columns {
		starts[i] = col + width
		width += c.span()
	}
	if width == 0 {
		width = 1
	}
	p := Placement{ColumnStart: starts}

	if sec.Title != "" {
		p.TitleRow = row
		if err := s.Merge(col, row, col+width-1, row, sec.Title, orDefault(sec.TitleStyle, HeaderStyle())); err != nil {
			return p, fmt.Errorf("section title: %w", err)
		}
		row++
	}

	if sec.ShowHeader {
		p.HeaderRow = row
		headerStyle := orDefault(sec.HeaderStyle, HeaderStyle())
		for i, c := range sec.Columns {
			if err := s.Merge(starts[i], row, starts[i]+c.span()-1, row, c.Header, headerStyle); err != nil {
				return p, fmt.Errorf("section header %q: %w", c.Header, err)
			}
		}
		row++
	}

	p.FirstDataRow = row
	for r, values := range sec.Rows {
		for i, c := range sec.Columns {
			var v interface{}
			if i < len(values) {
				v = values[i]
			}
			style := sec.DataStyle
			if sec.CellStyle != nil {
				if cs := sec.CellStyle(r, i, v); cs != nil {
					style = cs
				}
			}
			if err := s.Merge(starts[i], row, starts[i]+c.span()-1, row, v, style); err != nil {
				return p, fmt.Errorf("section row %d: %w", r, err)
			}
		}
		row++
	}
	p.LastDataRow = row - 1
	p.NextRow = row
	return p, nil
}

func orDefault(s *Style, def Style) *Style {
	if s != nil {
		return s
	}
	return &def
}

// AddDataBar adds a 0..100 data bar over r.
func (s *Sheet) AddDataBar(r Range, color string) error {
	if r.ToRow < r.FromRow {
		return nil
	}
	return s.wb.f.SetConditionalFormat(s.name, r.Cells(), []excelize.ConditionalFormatOptions{{
		Type:     "data_bar",
		Criteria: "=",
		MinType:  "num",
		MinValue: "0",
		MaxType:  "num",
		MaxValue: "100",
		BarColor: color,
	}})
}

// PieChart describes a pie chart bound to cell ranges.
type PieChart struct {
	Anchor     string
	Title      string
	Name       Range
	Categories Range
	Values     Range
}

// AddPieChart inserts a pie chart whose series reference the given ranges.
func (s *Sheet) AddPieChart(c PieChart) error {
	if c.Values.ToRow < c.Values.FromRow {
		return nil
	}
	name, _ := excelize.CoordinatesToCellName(c.Name.FromCol, c.Name.FromRow, true)
	chart := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       quoteSheet(c.Name.Sheet) + "!" + name,
			Categories: c.Categories.String(),
			Values:     c.Values.String(),
		}},
		Format: excelize.GraphicOptions{
			OffsetX: 15,
			OffsetY: 10,
		},
		Legend:   excelize.ChartLegend{Position: "right"},
		PlotArea: excelize.ChartPlotArea{ShowPercent: true},
	}
	if c.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: c.Title}}
	}
	if err := s.wb.f.AddChart(s.name, c.Anchor, chart); err != nil {
		return fmt.Errorf("add pie chart: %w", err)
	}
	return nil
}
