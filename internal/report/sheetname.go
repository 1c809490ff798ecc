package report

import (
	"fmt"
	"strings"

	"github.com/locvowork/trial_report/pkg/sheetwriter"
)

// Fixed sheet names.
const (
	StatsSheet     = "Статистика"
	ConflictsSheet = "Конфликты"
	fallbackSheet  = "Бюро"
)

var forbiddenSheetChars = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

// SanitizeSheetName strips characters forbidden in sheet names, trims apostrophes and
// whitespace at the ends and truncates to the format limit.
func SanitizeSheetName(name string) string {
	s := forbiddenSheetChars.Replace(name)
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "'"))
	s = truncateRunes(s, sheetwriter.MaxSheetNameLength)
	s = strings.TrimRight(s, " '")
	if s == "" {
		return fallbackSheet
	}
	return s
}

// SheetNamer hands out unique sheet names. Names are compared case-insensitively;
// a taken name gets " (2)", " (3)", ... within the length limit.
type SheetNamer struct {
	used map[string]bool
}

// NewSheetNamer creates a namer with reserved names already taken.
func NewSheetNamer(reserved ...string) *SheetNamer {
	n := &SheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

// Name returns a unique sanitized name for raw and whether it had to be disambiguated.
func (n *SheetNamer) Name(raw string) (string, bool) {
	base := SanitizeSheetName(raw)
	if !n.used[strings.ToLower(base)] {
		n.used[strings.ToLower(base)] = true
		return base, false
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate := truncateRunes(base, sheetwriter.MaxSheetNameLength-len([]rune(suffix))) + suffix
		if !n.used[strings.ToLower(candidate)] {
			n.used[strings.ToLower(candidate)] = true
			return candidate, true
		}
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
