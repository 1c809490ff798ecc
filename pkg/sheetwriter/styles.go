package sheetwriter

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Style is a flat, comparable cell style. Equal styles share one excelize style ID.
type Style struct {
	Bold       bool
	FontColor  string
	FillColor  string
	Horizontal string
	Vertical   string
	WrapText   bool
	Border     bool
	NumFmt     string
}

// StyleBuilder provides a fluent API for building cell styles
type StyleBuilder struct {
	style Style
}

// NewStyleBuilder creates a builder with vertical centering.
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{style: Style{Vertical: "center"}}
}

// From starts a builder from an existing style.
func From(s Style) *StyleBuilder {
	return &StyleBuilder{style: s}
}

// Bold sets the font to bold
func (b *StyleBuilder) Bold() *StyleBuilder {
	b.style.Bold = true
	return b
}

// FontColor sets the font color (hex format)
func (b *StyleBuilder) FontColor(color string) *StyleBuilder {
	b.style.FontColor = color
	return b
}

// Fill sets the cell background color
func (b *StyleBuilder) Fill(color string) *StyleBuilder {
	b.style.FillColor = color
	return b
}

// Align sets the horizontal alignment
func (b *StyleBuilder) Align(alignment string) *StyleBuilder {
	b.style.Horizontal = alignment
	return b
}

// VAlign sets the vertical alignment
func (b *StyleBuilder) VAlign(alignment string) *StyleBuilder {
	b.style.Vertical = alignment
	return b
}

// Border draws a thin black border on every side.
func (b *StyleBuilder) Border() *StyleBuilder {
	b.style.Border = true
	return b
}

// WrapText enables text wrapping
func (b *StyleBuilder) WrapText() *StyleBuilder {
	b.style.WrapText = true
	return b
}

// NumberFormat sets a custom number format
func (b *StyleBuilder) NumberFormat(format string) *StyleBuilder {
	b.style.NumFmt = format
	return b
}

// Build returns the built style
func (b *StyleBuilder) Build() Style {
	return b.style
}

// HeaderStyle is the bold, centered, bordered, wrapped header look.
func HeaderStyle() Style {
	return NewStyleBuilder().Bold().Align("center").Border().WrapText().Build()
}

// FillStyle is a plain background fill.
func FillStyle(color string) Style {
	return NewStyleBuilder().Fill(color).Build()
}

func (s Style) toExcelize() *excelize.Style {
	style := &excelize.Style{}
	if s.Bold || s.FontColor != "" {
		style.Font = &excelize.Font{
			Bold:  s.Bold,
			Color: strings.TrimPrefix(s.FontColor, "#"),
		}
	}
	if s.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(s.FillColor, "#")},
			Pattern: 1,
		}
	}
	if s.Horizontal != "" || s.Vertical != "" || s.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: s.Horizontal,
			Vertical:   s.Vertical,
			WrapText:   s.WrapText,
		}
	}
	if s.Border {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: "000000", Style: 1})
		}
	}
	if s.NumFmt != "" {
		numFmt := s.NumFmt
		style.CustomNumFmt = &numFmt
	}
	return style
}
