package sheetwriter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the spreadsheet-format limit on sheet names.
const MaxSheetNameLength = 31

// ErrClosed is returned by operations on a closed workbook.
var ErrClosed = errors.New("sheetwriter: workbook is closed")

// Workbook wraps an excelize file with a style cache.
type Workbook struct {
	f       *excelize.File
	styles  map[Style]int
	sheets  []string
	initial string
	closed  bool
}

// New creates an empty workbook. The default sheet is reused by the first AddSheet.
func New() *Workbook {
	f := excelize.NewFile()
	return &Workbook{
		f:       f,
		styles:  make(map[Style]int),
		initial: f.GetSheetName(0),
	}
}

// File exposes the underlying excelize file.
func (w *Workbook) File() *excelize.File { return w.f }

// SheetNames returns the names of the sheets added so far, in order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheets...)
}

// AddSheet creates a sheet named name. The name must already be valid.
func (w *Workbook) AddSheet(name string) (*Sheet, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if len(w.sheets) == 0 {
		if err := w.f.SetSheetName(w.initial, name); err != nil {
			return nil, fmt.Errorf("rename default sheet to %q: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	w.sheets = append(w.sheets, name)
	return &Sheet{wb: w, name: name}, nil
}

// style returns the cached excelize style ID for s.
func (w *Workbook) style(s Style) (int, error) {
	if id, ok := w.styles[s]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(s.toExcelize())
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	w.styles[s] = id
	return id, nil
}

// StyleCount returns the number of distinct styles created.
func (w *Workbook) StyleCount() int { return len(w.styles) }

// SaveAs writes the workbook to path, creating the parent directory.
func (w *Workbook) SaveAs(path string) error {
	if w.closed {
		return ErrClosed
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	if len(w.sheets) > 0 {
		if idx, err := w.f.GetSheetIndex(w.sheets[0]); err == nil && idx >= 0 {
			w.f.SetActiveSheet(idx)
		}
	}
	return w.f.SaveAs(path)
}

// Close releases the workbook. It is safe to call more than once.
func (w *Workbook) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// Sheet is a handle to one worksheet. Coordinates are 1-based.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// SetCell writes v at (col, row) with an optional style.
func (s *Sheet) SetCell(col, row int, v interface{}, style *Style) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.wb.f.SetCellValue(s.name, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", s.name, cell, err)
	}
	if style == nil {
		return nil
	}
	return s.applyStyle(cell, cell, *style)
}

// Merge merges the rectangle and writes v into it.
func (s *Sheet) Merge(col1, row1, col2, row2 int, v interface{}, style *Style) error {
	start, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return err
	}
	if err := s.wb.f.SetCellValue(s.name, start, v); err != nil {
		return err
	}
	if col1 != col2 || row1 != row2 {
		if err := s.wb.f.MergeCell(s.name, start, end); err != nil {
			return fmt.Errorf("merge %s:%s: %w", start, end, err)
		}
	}
	if style == nil {
		return nil
	}
	return s.applyStyle(start, end, *style)
}

func (s *Sheet) applyStyle(start, end string, style Style) error {
	id, err := s.wb.style(style)
	if err != nil {
		return err
	}
	return s.wb.f.SetCellStyle(s.name, start, end, id)
}

// SetColumnWidths sets widths from column A onwards. Zero widths are skipped.
func (s *Sheet) SetColumnWidths(widths ...float64) error {
	for i, w := range widths {
		if w <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := s.wb.f.SetColWidth(s.name, name, name, w); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns the sheet contents as text.
func (s *Sheet) Rows() ([][]string, error) {
	return s.wb.f.GetRows(s.name)
}

// Range is a rectangular cell reference on a named sheet.
type Range struct {
	Sheet            string
	FromCol, FromRow int
	ToCol, ToRow     int
}

// String renders the absolute reference, e.g. 'Статистика'!$A$5:$A$7.
func (r Range) String() string {
	from, _ := excelize.CoordinatesToCellName(r.FromCol, r.FromRow, true)
	to, _ := excelize.CoordinatesToCellName(r.ToCol, r.ToRow, true)
	return quoteSheet(r.Sheet) + "!" + from + ":" + to
}

// Cells renders the relative reference without the sheet, e.g. G2:G5.
func (r Range) Cells() string {
	from, _ := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	to, _ := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	return from + ":" + to
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// Numeric converts decimal text to float64 so it is stored as a number.
// Identifiers with leading zeros stay text.
func Numeric(v string) interface{} {
	t := strings.TrimSpace(v)
	if !decimalText.MatchString(t) {
		return v
	}
	if len(t) > 1 && t[0] == '0' && t[1] != '.' {
		return v
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return v
}

var decimalText = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
