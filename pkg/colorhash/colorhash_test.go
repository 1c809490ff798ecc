package colorhash

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestColor_Deterministic(t *testing.T) {
	for _, v := range []string{"", "Насос", "Гидроцилиндр ЦС-100", "A"} {
		assert.Equal(t, Color(v), Color(v), v)
	}
}

func TestColor_FormatAndRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		c := Color("component-" + strconv.Itoa(i))
		if !hexColor.MatchString(c) {
			t.Fatalf("unexpected color format %q", c)
		}
		for _, ch := range []string{c[1:3], c[3:5], c[5:7]} {
			n, err := strconv.ParseUint(ch, 16, 8)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, n, uint64(Base))
			assert.LessOrEqual(t, n, uint64(255))
		}
	}
}

func TestColor_UsuallyDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[Color("unit-"+strconv.Itoa(i))] = true
	}
	assert.Greater(t, len(seen), 40)
}

func TestPalette_MatchesColor(t *testing.T) {
	p := NewPalette()
	assert.Equal(t, Color("Насос"), p.Color("Насос"))
	assert.Equal(t, p.Color("Насос"), p.Color("Насос"))
}
