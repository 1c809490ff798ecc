package reconcile

import (
	"fmt"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/pkg/frame"
)

// JoinSpec describes how the normalized tables are joined.
type JoinSpec struct {
	Policy string
	// LeftKey and RightKey are the matched columns: program name and component.
	LeftKey, RightKey string
	// LeftBureau and RightBureau disambiguate a name shared by several left rows.
	LeftBureau, RightBureau string
	Suffix                  string
	GapFill                 bool
}

// JoinSpecFrom derives the join of the task-tracker and field tables from cfg.
func JoinSpecFrom(cfg *config.ReportConfig) JoinSpec {
	return JoinSpec{
		Policy:      cfg.JoinPolicy,
		LeftKey:     cfg.BitrixKeys.Name,
		RightKey:    cfg.WebKeys.Component,
		LeftBureau:  cfg.BitrixKeys.Tags,
		RightBureau: cfg.WebKeys.Bureau,
		Suffix:      cfg.CollisionSuffix,
		GapFill:     cfg.FillGaps(),
	}
}

// Side tells which inputs contributed to a joined row.
type Side uint8

const (
	SideBoth Side = iota
	SideLeft
	SideRight
)

// Merge joins left and right under spec.Policy. Each right row matches at most one left
// row, so the right policy yields exactly one output row per right row, in right order.
// Left columns sharing a name with a right column are suffixed and then dropped.
func Merge(left, right *frame.Frame, spec JoinSpec) (*frame.Frame, error) {
	out, _, err := MergeSides(left, right, spec)
	return out, err
}

// MergeSides is Merge that also reports the Side of every output row.
// Left-only rows carry their name and bureau in the right key columns and are never
// gap filled.
func MergeSides(left, right *frame.Frame, spec JoinSpec) (*frame.Frame, []Side, error) {
	if !left.Has(spec.LeftKey) {
		return nil, nil, fmt.Errorf("merge: left key %q not found", spec.LeftKey)
	}
	if !right.Has(spec.RightKey) {
		return nil, nil, fmt.Errorf("merge: right key %q not found", spec.RightKey)
	}

	leftCols, suffixed := leftColumns(left, right, spec.Suffix)
	cols := append(append([]string(nil), leftCols...), right.Columns()...)
	out := frame.New(cols...)
	var sides []Side

	match := matchRows(left, right, spec)
	emit := func(li, ri int) {
		row := make([]frame.Value, 0, len(cols))
		for _, c := range left.Columns() {
			row = append(row, left.Value(li, c))
		}
		for _, c := range right.Columns() {
			v := right.Value(ri, c)
			if ri < 0 {
				v = coalesceKey(left, li, c, spec)
			}
			row = append(row, v)
		}
		_ = out.Append(row...)

		switch {
		case li < 0:
			sides = append(sides, SideRight)
		case ri < 0:
			sides = append(sides, SideLeft)
		default:
			sides = append(sides, SideBoth)
		}
	}

	switch spec.Policy {
	case config.JoinRight, "":
		for ri := 0; ri < right.Len(); ri++ {
			emit(match[ri], ri)
		}
	case config.JoinInner:
		for ri := 0; ri < right.Len(); ri++ {
			if match[ri] >= 0 {
				emit(match[ri], ri)
			}
		}
	case config.JoinLeft, config.JoinOuter:
		byLeft := make(map[int][]int)
		matchedNames := make(map[string]bool)
		for ri, li := range match {
			if li >= 0 {
				byLeft[li] = append(byLeft[li], ri)
				matchedNames[left.Value(li, spec.LeftKey).String()] = true
			}
		}
		for li := 0; li < left.Len(); li++ {
			if rs, ok := byLeft[li]; ok {
				for _, ri := range rs {
					emit(li, ri)
				}
				continue
			}
			if !matchedNames[left.Value(li, spec.LeftKey).String()] {
				emit(li, -1)
			}
		}
		if spec.Policy == config.JoinOuter {
			for ri, li := range match {
				if li < 0 {
					emit(-1, ri)
				}
			}
		}
	default:
		return nil, nil, fmt.Errorf("merge: unknown join policy %q", spec.Policy)
	}

	if spec.GapFill {
		out = fillGaps(out, sides)
	}
	return out.Drop(suffixed...), sides, nil
}

// coalesceKey is the value of right column c on a left-only row.
func coalesceKey(left *frame.Frame, li int, c string, spec JoinSpec) frame.Value {
	switch {
	case c == spec.RightKey:
		return left.Value(li, spec.LeftKey)
	case c == spec.RightBureau && spec.LeftBureau != "" && left.Has(spec.LeftBureau):
		return left.Value(li, spec.LeftBureau)
	}
	return frame.Null()
}

// fillGaps forward then backward fills every row that has a right side.
func fillGaps(f *frame.Frame, sides []Side) *frame.Frame {
	body := f.Filter(func(r frame.Row) bool { return sides[r.Index()] != SideLeft }).
		ForwardFill().
		BackwardFill()

	out := frame.New(f.Columns()...)
	k := 0
	for i := 0; i < f.Len(); i++ {
		if sides[i] == SideLeft {
			_ = out.Append(f.Row(i).Values()...)
			continue
		}
		_ = out.Append(body.Row(k).Values()...)
		k++
	}
	return out
}

// leftColumns returns the left column names after collision suffixing and the suffixed ones.
func leftColumns(left, right *frame.Frame, suffix string) ([]string, []string) {
	var cols, suffixed []string
	for _, c := range left.Columns() {
		if right.Has(c) {
			c += suffix
			suffixed = append(suffixed, c)
		}
		cols = append(cols, c)
	}
	return cols, suffixed
}

// matchRows returns, per right row, the index of its left row or -1.
func matchRows(left, right *frame.Frame, spec JoinSpec) []int {
	byName := make(map[string][]int)
	for li := 0; li < left.Len(); li++ {
		name := left.Value(li, spec.LeftKey)
		if name.IsNull() {
			continue
		}
		byName[name.String()] = append(byName[name.String()], li)
	}

	match := make([]int, right.Len())
	for ri := range match {
		match[ri] = -1
		key := right.Value(ri, spec.RightKey)
		if key.IsNull() {
			continue
		}
		candidates := byName[key.String()]
		if len(candidates) == 0 {
			continue
		}
		match[ri] = candidates[0]
		bureau := right.Value(ri, spec.RightBureau)
		if bureau.IsNull() {
			continue
		}
		for _, li := range candidates {
			if lb := left.Value(li, spec.LeftBureau); !lb.IsNull() && lb.String() == bureau.String() {
				match[ri] = li
				break
			}
		}
	}
	return match
}
