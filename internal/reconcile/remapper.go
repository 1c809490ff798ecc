package reconcile

import (
	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/pkg/frame"
)

// Remap projects f onto the output schema cm: referenced source columns renamed to their
// output names and ordered by position. Sources absent from f are omitted.
func Remap(f *frame.Frame, cm config.ColumnMap) *frame.Frame {
	var present config.ColumnMap
	for _, mc := range cm {
		if f.Has(mc.Source) {
			present = append(present, mc)
		}
	}

	out := frame.New(present.Names()...)
	for _, r := range f.Rows() {
		row := make([]frame.Value, len(present))
		for k, mc := range present {
			row[k] = r.Get(mc.Source)
		}
		_ = out.Append(row...)
	}
	return out
}
