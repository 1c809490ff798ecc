package reconcile

import (
	"github.com/locvowork/trial_report/pkg/frame"
)

// Indicator column and its values on the conflict table.
const (
	SourceColumn = "Источник"
	SourceWeb    = "только web"
	SourceBitrix = "только bitrix"
)

// ConflictSpec names the keys compared by Conflicts.
type ConflictSpec struct {
	// Component is the key column of the reconciled table.
	Component string
	// Name is the key column of the normalized task-tracker table.
	Name   string
	Suffix string
}

// Conflicts outer-joins reconciled and bitrix (deduplicated by name) on
// component == name and keeps only the rows present on one side, tagged in SourceColumn.
// sides holds the Side of every reconciled row: SideRight rows are web-only, and a program
// counts as matched only through a SideBoth row. Reconciled rows come first, in order, then
// task-tracker rows. All-null columns are dropped.
func Conflicts(reconciled, bitrix *frame.Frame, sides []Side, spec ConflictSpec) *frame.Frame {
	names := make(map[string]bool)
	programs := frame.New(bitrix.Columns()...)
	for _, r := range bitrix.Rows() {
		name := r.Get(spec.Name)
		if name.IsNull() || names[name.String()] {
			continue
		}
		names[name.String()] = true
		_ = programs.Append(r.Values()...)
	}

	matched := reconciled.Filter(func(r frame.Row) bool { return sides[r.Index()] == SideBoth })
	components := make(map[string]bool)
	for _, c := range matched.Unique(spec.Component) {
		components[c] = true
	}

	rename := make(map[string]string)
	for _, c := range programs.Columns() {
		if reconciled.Has(c) {
			rename[c] = c + spec.Suffix
		}
	}
	programs = programs.Rename(rename)

	webOnly := reconciled.
		Filter(func(r frame.Row) bool { return sides[r.Index()] == SideRight }).
		WithColumn(SourceColumn, func(frame.Row) frame.Value { return frame.String(SourceWeb) })

	bitrixOnly := programs.
		Filter(func(r frame.Row) bool { return !components[r.Get(nameColumn(spec, rename)).String()] }).
		WithColumn(SourceColumn, func(frame.Row) frame.Value { return frame.String(SourceBitrix) })

	return webOnly.Concat(bitrixOnly).DropEmptyColumns()
}

func nameColumn(spec ConflictSpec, rename map[string]string) string {
	if n, ok := rename[spec.Name]; ok {
		return n
	}
	return spec.Name
}
