// Package colorhash maps arbitrary strings to stable pastel colors.
package colorhash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	// Base is the lowest value of every channel; it keeps text on the fill legible.
	Base = 150
	// Span is the number of distinct values a channel can take above Base.
	Span = 101
)

// Color returns a "#rrggbb" color derived from value. The same value always yields the
// same color, across runs and processes.
func Color(value string) string {
	r, g, b := RGB(value)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGB returns the channels Color is built from. Each channel is in [Base, 255].
func RGB(value string) (r, g, b uint8) {
	h := xxhash.Sum64String(value)
	return channel(h), channel(h / 100), channel(h / 10000)
}

func channel(h uint64) uint8 {
	v := Base + h%Span
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Palette memoizes colors for one report so repeated lookups do not rehash.
type Palette struct {
	colors map[string]string
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{colors: make(map[string]string)}
}

// Color returns the memoized color of value.
func (p *Palette) Color(value string) string {
	if c, ok := p.colors[value]; ok {
		return c
	}
	c := Color(value)
	p.colors[value] = c
	return c
}
