package report

import (
	"regexp"
	"strings"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	leadingNumber = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)`)
	numberSpaces  = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".")
)

// ComponentSummary is one header-block row of a bureau sheet.
type ComponentSummary struct {
	Component string
	Tractors  int
	// AvgHours and Progress are nil when no value could be computed.
	AvgHours *decimal.Decimal
	Progress *decimal.Decimal
}

// Summary aggregates one bureau.
type Summary struct {
	Components []ComponentSummary
	// Skipped counts cells excluded because they did not parse.
	Skipped int
}

// Summarize computes, per component in key order, the distinct tractor count, the average
// over tractors of each tractor's max operating hours and the progress against the target.
func Summarize(f *frame.Frame, keys config.ReportKeys) Summary {
	var s Summary
	for _, g := range f.GroupBy(keys.Component) {
		cs := ComponentSummary{Component: g.Key, Tractors: g.Frame.NUnique(keys.Tractor)}

		maxByTractor := make(map[string]decimal.Decimal)
		var order []string
		var target *decimal.Decimal
		for _, r := range g.Frame.Rows() {
			if tv := r.Get(keys.Target); target == nil && !tv.IsNull() {
				if t, ok := ParseTarget(tv.String()); ok {
					target = &t
				} else {
					s.Skipped++
				}
			}

			tractor, hv := r.Get(keys.Tractor), r.Get(keys.Hours)
			if tractor.IsNull() || hv.IsNull() {
				continue
			}
			h, ok := ParseNumber(hv.String())
			if !ok {
				s.Skipped++
				continue
			}
			cur, seen := maxByTractor[tractor.String()]
			if !seen {
				order = append(order, tractor.String())
			}
			if !seen || h.GreaterThan(cur) {
				maxByTractor[tractor.String()] = h
			}
		}

		if len(order) > 0 {
			sum := decimal.Zero
			for _, t := range order {
				sum = sum.Add(maxByTractor[t])
			}
			avg := sum.Div(decimal.NewFromInt(int64(len(order)))).Round(1)
			cs.AvgHours = &avg
			if target != nil {
				progress := avg.Div(*target).Mul(hundred).Round(1)
				cs.Progress = &progress
			}
		}
		s.Components = append(s.Components, cs)
	}
	return s
}

// ParseNumber reads a decimal written with optional digit grouping and a comma or dot.
func ParseNumber(s string) (decimal.Decimal, bool) {
	t := numberSpaces.Replace(strings.TrimSpace(s))
	if t == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseTarget reads the leading positive number of an observation target such as "2000 м/ч".
func ParseTarget(s string) (decimal.Decimal, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// floatOrBlank renders an optional decimal as a number cell or an empty cell.
func floatOrBlank(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
