package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Б1", "Б1"},
		{"КБ: трансмиссии/мосты", "КБ трансмиссиимосты"},
		{"'Бюро [2]?*'", "Бюро 2"},
		{`a\b`, "ab"},
		{"::", "Бюро"},
		{strings.Repeat("я", 40), strings.Repeat("я", 31)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSheetName(tt.in))
		})
	}
}

func TestSheetNamer_Collisions(t *testing.T) {
	n := NewSheetNamer(StatsSheet, ConflictsSheet)

	name, renamed := n.Name("Б1")
	assert.Equal(t, "Б1", name)
	assert.False(t, renamed)

	name, renamed = n.Name("Б:1")
	assert.Equal(t, "Б1 (2)", name)
	assert.True(t, renamed)

	name, _ = n.Name("б1")
	assert.Equal(t, "б1 (3)", name)

	name, renamed = n.Name("Статистика")
	assert.Equal(t, "Статистика (2)", name)
	assert.True(t, renamed)

	long := strings.Repeat("Ж", 35)
	first, _ := n.Name(long)
	second, _ := n.Name(long + "x")
	assert.Equal(t, strings.Repeat("Ж", 31), first)
	assert.Equal(t, strings.Repeat("Ж", 27)+" (2)", second)
	assert.Equal(t, 31, utf8.RuneCountInString(second))
}
