package printing

import (
	"fmt"
	"strconv"
	"strings"
)

// ptToMM converts typographic points to millimetres
const ptToMM = 25.4 / 72

// Color is an RGB colour with 0-255 components
type Color struct {
	R, G, B int
}

// HexColor parses a "#rrggbb" string; it panics on malformed input and is
// meant for package-level constants only.
func HexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHexColor parses a "#rrggbb" or "rrggbb" string
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Palette holds the brand colours used by the invoice layout
type Palette struct {
	BrandDark     Color
	BrandPrimary  Color
	BrandAccent   Color
	Highlight     Color
	TableHeaderBG Color
	TableAltRow   Color
	LightGray     Color
	Muted         Color
	White         Color
}

// DefaultPalette returns the Guide Booker brand colours
func DefaultPalette() Palette {
	return Palette{
		BrandDark:     HexColor("#1a1a2e"),
		BrandPrimary:  HexColor("#16213e"),
		BrandAccent:   HexColor("#9f9f9f"),
		Highlight:     HexColor("#e94560"),
		TableHeaderBG: HexColor("#9f9f9f"),
		TableAltRow:   HexColor("#f4f6fb"),
		LightGray:     HexColor("#e0e0e0"),
		Muted:         HexColor("#808080"),
		White:         HexColor("#ffffff"),
	}
}

// Align is a horizontal text alignment
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextStyle describes how a run of text is set. Sizes and leading are in
// points, spacing in millimetres.
type TextStyle struct {
	Name        string
	Family      string
	Bold        bool
	Italic      bool
	Size        float64
	Leading     float64
	Color       Color
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
}

// LineHeight returns the leading in millimetres
func (s TextStyle) LineHeight() float64 {
	return s.Leading * ptToMM
}

// WithAlign returns a copy of the style with a different alignment
func (s TextStyle) WithAlign(a Align) TextStyle {
	s.Align = a
	return s
}

// WithColor returns a copy of the style with a different colour
func (s TextStyle) WithColor(c Color) TextStyle {
	s.Color = c
	return s
}

// fontStyle returns the gofpdf style string for this style combined with
// span-level emphasis.
func (s TextStyle) fontStyle(bold, italic bool) string {
	var b strings.Builder
	if s.Bold || bold {
		b.WriteByte('B')
	}
	if s.Italic || italic {
		b.WriteByte('I')
	}
	return b.String()
}

// StyleSheet is the immutable set of named text styles used by the layout.
// It is built once and passed by value into layout calls.
type StyleSheet struct {
	Palette       Palette
	Title         TextStyle
	InvoiceNumber TextStyle
	Normal        TextStyle
	Bold          TextStyle
	TableHeader   TextStyle
	TotalValue    TextStyle
	Notes         TextStyle
	Footer        TextStyle
}

// DefaultStyleSheet builds the invoice styles from the default palette
func DefaultStyleSheet() StyleSheet {
	p := DefaultPalette()
	base := TextStyle{
		Family:  "Helvetica",
		Size:    10,
		Leading: 14,
		Color:   p.BrandDark,
		Align:   AlignLeft,
	}

	normal := base
	normal.Name = "normal"

	bold := base
	bold.Name = "bold"
	bold.Bold = true

	title := base
	title.Name = "title"
	title.Bold = true
	title.Size = 28
	title.Leading = 32
	title.SpaceAfter = 2

	invoiceNumber := bold
	invoiceNumber.Name = "invoiceNumber"
	invoiceNumber.Size = 14
	invoiceNumber.Leading = 20
	invoiceNumber.Align = AlignRight
	invoiceNumber.Color = p.Highlight

	header := bold
	header.Name = "tableHeader"
	header.Color = p.White

	total := bold
	total.Name = "totalValue"
	total.Size = 13
	total.Leading = 16
	total.Color = p.Highlight
	total.Align = AlignRight

	notes := base
	notes.Name = "notes"
	notes.Italic = true
	notes.Size = 9
	notes.Leading = 13
	notes.Color = p.Muted
	notes.SpaceBefore = 4

	footer := base
	footer.Name = "footer"
	footer.Size = 8
	footer.Leading = 11
	footer.Color = p.Muted
	footer.Align = AlignCenter

	return StyleSheet{
		Palette:       p,
		Title:         title,
		InvoiceNumber: invoiceNumber,
		Normal:        normal,
		Bold:          bold,
		TableHeader:   header,
		TotalValue:    total,
		Notes:         notes,
		Footer:        footer,
	}
}
