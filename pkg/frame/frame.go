package frame

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Value is a nullable cell of a Frame.
type Value struct {
	s     string
	valid bool
}

// String returns a non-null value.
func String(s string) Value {
	return Value{s: s, valid: true}
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Cell converts raw spreadsheet text into a Value. Blank text is null.
func Cell(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Null()
	}
	return String(s)
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.valid }

// String returns the text of the value, or "" when null.
func (v Value) String() string { return v.s }

// Frame is an ordered table with named columns and nullable string cells.
// Every transform returns a new Frame and leaves the receiver untouched.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New creates an empty frame with the given columns. Duplicate names keep the first position.
func New(columns ...string) *Frame {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := f.index[c]; ok {
			continue
		}
		f.index[c] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	return f
}

// FromRecords builds a frame from raw text rows, padding short rows with nulls.
func FromRecords(columns []string, records [][]string) *Frame {
	f := New(columns...)
	for _, rec := range records {
		row := make([]Value, len(f.columns))
		for i := range row {
			if i < len(rec) {
				row[i] = Cell(rec[i])
			}
		}
		f.rows = append(f.rows, row)
	}
	return f
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Has reports whether the frame has the column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// ColumnIndex returns the position of col, or -1.
func (f *Frame) ColumnIndex(col string) int {
	if i, ok := f.index[col]; ok {
		return i
	}
	return -1
}

// Append adds a row. The number of values must match the number of columns.
func (f *Frame) Append(values ...Value) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("append: got %d values for %d columns", len(values), len(f.columns))
	}
	row := make([]Value, len(values))
	copy(row, values)
	f.rows = append(f.rows, row)
	return nil
}

// AppendMap adds a row from a column->text map; absent columns are null.
func (f *Frame) AppendMap(values map[string]string) {
	row := make([]Value, len(f.columns))
	for col, s := range values {
		if i, ok := f.index[col]; ok {
			row[i] = Cell(s)
		}
	}
	f.rows = append(f.rows, row)
}

// Value returns the cell at row i, column col. Unknown columns yield null.
func (f *Frame) Value(i int, col string) Value {
	j, ok := f.index[col]
	if !ok || i < 0 || i >= len(f.rows) {
		return Null()
	}
	return f.rows[i][j]
}

// Row returns a view of row i.
func (f *Frame) Row(i int) Row { return Row{f: f, i: i} }

// Rows returns views of every row in order.
func (f *Frame) Rows() []Row {
	out := make([]Row, len(f.rows))
	for i := range f.rows {
		out[i] = Row{f: f, i: i}
	}
	return out
}

// Column returns a copy of the values of col.
func (f *Frame) Column(col string) []Value {
	j, ok := f.index[col]
	if !ok {
		return nil
	}
	out := make([]Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := New(f.columns...)
	out.rows = make([][]Value, len(f.rows))
	for i, row := range f.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Select returns a frame restricted to cols, in that order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	idx := make([]int, len(cols))
	for k, c := range cols {
		j, ok := f.index[c]
		if !ok {
			return nil, fmt.Errorf("select: unknown column %q", c)
		}
		idx[k] = j
	}
	out := New(cols...)
	out.rows = make([][]Value, len(f.rows))
	for i, row := range f.rows {
		nr := make([]Value, len(idx))
		for k, j := range idx {
			nr[k] = row[j]
		}
		out.rows[i] = nr
	}
	return out, nil
}

// Rename returns a frame with columns renamed per mapping. Unmapped columns keep their names.
func (f *Frame) Rename(mapping map[string]string) *Frame {
	cols := make([]string, len(f.columns))
	for i, c := range f.columns {
		if n, ok := mapping[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	out := f.Clone()
	out.columns = cols
	out.index = make(map[string]int, len(cols))
	for i, c := range cols {
		if _, ok := out.index[c]; !ok {
			out.index[c] = i
		}
	}
	return out
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(cols ...string) *Frame {
	skip := make(map[string]bool, len(cols))
	for _, c := range cols {
		skip[c] = true
	}
	keep := make([]string, 0, len(f.columns))
	for _, c := range f.columns {
		if !skip[c] {
			keep = append(keep, c)
		}
	}
	out, _ := f.Select(keep...)
	return out
}

// WithColumn returns a frame with col appended, or replaced when it already exists,
// using fn to compute each row's value.
func (f *Frame) WithColumn(col string, fn func(r Row) Value) *Frame {
	out := f.Clone()
	j, ok := out.index[col]
	if !ok {
		j = len(out.columns)
		out.columns = append(out.columns, col)
		out.index[col] = j
		for i := range out.rows {
			out.rows[i] = append(out.rows[i], Null())
		}
	}
	for i := range out.rows {
		out.rows[i][j] = fn(Row{f: f, i: i})
	}
	return out
}

// Explode splits col with split and emits one row per non-empty trimmed fragment,
// copying the rest of the row. Null cells, and cells without fragments, keep a single
// row with a null in col.
func (f *Frame) Explode(col string, split func(string) []string) *Frame {
	j, ok := f.index[col]
	if !ok {
		return f.Clone()
	}
	out := New(f.columns...)
	for _, row := range f.rows {
		var parts []string
		if !row[j].IsNull() {
			for _, p := range split(row[j].String()) {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
		}
		if len(parts) == 0 {
			nr := append([]Value(nil), row...)
			nr[j] = Null()
			out.rows = append(out.rows, nr)
			continue
		}
		for _, p := range parts {
			nr := append([]Value(nil), row...)
			nr[j] = String(p)
			out.rows = append(out.rows, nr)
		}
	}
	return out
}

// SplitOn returns a splitter on a literal separator.
func SplitOn(sep string) func(string) []string {
	return func(s string) []string { return strings.Split(s, sep) }
}

// SplitPattern returns a splitter on a regular expression.
func SplitPattern(re *regexp.Regexp) func(string) []string {
	return func(s string) []string { return re.Split(s, -1) }
}

// ForwardFill propagates the last non-null value down into null cells of cols, in row order.
// With no cols every column is filled.
func (f *Frame) ForwardFill(cols ...string) *Frame {
	out := f.Clone()
	for _, j := range out.targets(cols) {
		last := Null()
		for i := range out.rows {
			if out.rows[i][j].IsNull() {
				out.rows[i][j] = last
			} else {
				last = out.rows[i][j]
			}
		}
	}
	return out
}

// BackwardFill propagates the next non-null value up into null cells of cols.
func (f *Frame) BackwardFill(cols ...string) *Frame {
	out := f.Clone()
	for _, j := range out.targets(cols) {
		next := Null()
		for i := len(out.rows) - 1; i >= 0; i-- {
			if out.rows[i][j].IsNull() {
				out.rows[i][j] = next
			} else {
				next = out.rows[i][j]
			}
		}
	}
	return out
}

// FillNull replaces nulls in col with v.
func (f *Frame) FillNull(col string, v Value) *Frame {
	out := f.Clone()
	j, ok := out.index[col]
	if !ok {
		return out
	}
	for i := range out.rows {
		if out.rows[i][j].IsNull() {
			out.rows[i][j] = v
		}
	}
	return out
}

// Map returns a frame where col is replaced by fn applied to each row.
func (f *Frame) Map(col string, fn func(r Row) Value) *Frame {
	if !f.Has(col) {
		return f.Clone()
	}
	return f.WithColumn(col, fn)
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(r Row) bool) *Frame {
	out := New(f.columns...)
	for i, row := range f.rows {
		if keep(Row{f: f, i: i}) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

// Concat appends the rows of other, aligning columns by name. Columns missing on either
// side are null.
func (f *Frame) Concat(other *Frame) *Frame {
	cols := f.Columns()
	for _, c := range other.columns {
		if !f.Has(c) {
			cols = append(cols, c)
		}
	}
	out := New(cols...)
	for _, src := range []*Frame{f, other} {
		for i := range src.rows {
			nr := make([]Value, len(cols))
			for k, c := range cols {
				nr[k] = src.Value(i, c)
			}
			out.rows = append(out.rows, nr)
		}
	}
	return out
}

// Group is a partition of a frame sharing one key value.
type Group struct {
	Key   string
	Frame *Frame
}

// GroupBy partitions rows by col. Groups are ordered by key; rows with a null key are skipped.
func (f *Frame) GroupBy(col string) []Group {
	j, ok := f.index[col]
	if !ok {
		return nil
	}
	byKey := make(map[string]*Frame)
	for _, row := range f.rows {
		if row[j].IsNull() {
			continue
		}
		k := row[j].String()
		g, ok := byKey[k]
		if !ok {
			g = New(f.columns...)
			byKey[k] = g
		}
		g.rows = append(g.rows, append([]Value(nil), row...))
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Group, len(keys))
	for i, k := range keys {
		out[i] = Group{Key: k, Frame: byKey[k]}
	}
	return out
}

// Unique returns the distinct non-null values of col in first-appearance order.
func (f *Frame) Unique(col string) []string {
	j, ok := f.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range f.rows {
		if row[j].IsNull() || seen[row[j].String()] {
			continue
		}
		seen[row[j].String()] = true
		out = append(out, row[j].String())
	}
	return out
}

// NUnique counts the distinct non-null values of col.
func (f *Frame) NUnique(col string) int {
	return len(f.Unique(col))
}

// DropEmptyColumns removes columns whose every cell is null.
func (f *Frame) DropEmptyColumns() *Frame {
	var empty []string
	for j, c := range f.columns {
		allNull := true
		for _, row := range f.rows {
			if !row[j].IsNull() {
				allNull = false
				break
			}
		}
		if allNull {
			empty = append(empty, c)
		}
	}
	return f.Drop(empty...)
}

// Records returns the frame as text rows; nulls become "".
func (f *Frame) Records() [][]string {
	out := make([][]string, len(f.rows))
	for i, row := range f.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}

func (f *Frame) targets(cols []string) []int {
	if len(cols) == 0 {
		idx := make([]int, len(f.columns))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	var idx []int
	for _, c := range cols {
		if j, ok := f.index[c]; ok {
			idx = append(idx, j)
		}
	}
	return idx
}

// Row is a read-only view of one frame row.
type Row struct {
	f *Frame
	i int
}

// Get returns the value of col in this row.
func (r Row) Get(col string) Value { return r.f.Value(r.i, col) }

// Index returns the row position inside its frame.
func (r Row) Index() int { return r.i }

// Values returns a copy of the row cells in column order.
func (r Row) Values() []Value { return append([]Value(nil), r.f.rows[r.i]...) }
