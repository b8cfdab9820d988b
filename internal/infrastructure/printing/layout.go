package printing

import (
	"strconv"
	"strings"

	"github.com/guidebooker/invoice-service/internal/domain/invoice"
)

// RegionName identifies a region of the invoice layout
type RegionName string

const (
	RegionHeader RegionName = "header"
	RegionInfo   RegionName = "info"
	RegionItems  RegionName = "items"
	RegionTotals RegionName = "totals"
	RegionNotes  RegionName = "notes"
	RegionFooter RegionName = "footer"
)

// Region spacing in millimetres, applied above a region unless it starts a page
const (
	spaceAfterHeader = 6.0
	spaceAfterInfo   = 8.0
	spaceAfterItems  = 6.0
	spaceBeforeNotes = 4.0
	spaceBeforeFoot  = 12.0
)

// Brand carries the issuer identity printed on every invoice
type Brand struct {
	Name       string
	Tagline    string
	Disclaimer string
}

// DefaultBrand returns the Guide Booker identity
func DefaultBrand() Brand {
	return Brand{
		Name:       "Guide Booker",
		Tagline:    "Guide Booker · Professional Tour Guide Services · guidebooker.com",
		Disclaimer: "This is a computer-generated invoice. No signature required.",
	}
}

// Span is a run of text inside a line. Adjacent spans are separated by a
// single space when set.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is a block of text in one style. Each entry of Lines is an
// explicit line; long lines wrap to the available width.
type Paragraph struct {
	Style TextStyle
	Lines [][]Span
}

// Text returns the paragraph content with explicit lines joined by newlines
func (p *Paragraph) Text() string {
	lines := make([]string, 0, len(p.Lines))
	for _, spans := range p.Lines {
		parts := make([]string, 0, len(spans))
		for _, s := range spans {
			parts = append(parts, s.Text)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

// Rule is a horizontal line drawn along a table row edge. Width is in points.
type Rule struct {
	Width   float64
	Color   Color
	FromCol int
}

// Cell is a single table cell
type Cell struct {
	Content Paragraph
}

// TableRow is a row of cells with optional decoration
type TableRow struct {
	Cells     []Cell
	Fill      *Color
	RuleAbove *Rule
	RuleBelow *Rule
}

// VAlign is the vertical placement of cell content
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
)

// Padding is cell padding in points
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Table is a grid whose columns are fractions of the flow width.
// Only splittable tables may break across pages; RepeatHeader rows are drawn
// again at the top of each continuation page.
type Table struct {
	Columns      []float64
	Rows         []TableRow
	RepeatHeader int
	Splittable   bool
	Grid         *Rule
	Padding      Padding
	VAlign       VAlign
}

// Block is the content of a region: *Table or *Paragraph
type Block interface {
	block()
}

func (*Table) block()     {}
func (*Paragraph) block() {}

// Region is one self-contained block of the page flow
type Region struct {
	Name        RegionName
	SpaceBefore float64
	Block       Block
}

// Document is the ordered region flow of one invoice
type Document struct {
	Title   string
	Author  string
	Regions []Region
}

// Region returns the named region
func (d *Document) Region(name RegionName) (Region, bool) {
	for _, r := range d.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// Names returns region names in flow order
func (d *Document) Names() []RegionName {
	names := make([]RegionName, 0, len(d.Regions))
	for _, r := range d.Regions {
		names = append(names, r.Name)
	}
	return names
}

// BuildDocument translates a record into the invoice region flow.
// It performs no validation and no drawing.
func BuildDocument(rec *invoice.Record, styles StyleSheet, brand Brand) *Document {
	prefix := rec.CurrencyPrefix()
	totals := rec.Totals()

	doc := &Document{
		Title:  "Invoice " + rec.InvoiceNumber,
		Author: brand.Name,
	}
	doc.Regions = append(doc.Regions,
		Region{Name: RegionHeader, Block: headerBand(rec, styles, brand)},
		Region{Name: RegionInfo, SpaceBefore: spaceAfterHeader, Block: infoBand(rec, styles)},
		Region{Name: RegionItems, SpaceBefore: spaceAfterInfo, Block: itemTable(rec, styles, prefix)},
		Region{Name: RegionTotals, SpaceBefore: spaceAfterItems, Block: totalsBlock(rec, totals, styles, prefix)},
	)
	if rec.HasNotes() {
		doc.Regions = append(doc.Regions, Region{
			Name:        RegionNotes,
			SpaceBefore: spaceBeforeNotes,
			Block: &Paragraph{
				Style: styles.Notes,
				Lines: [][]Span{{{Text: "Notes: " + *rec.Notes}}},
			},
		})
	}
	doc.Regions = append(doc.Regions, Region{
		Name:        RegionFooter,
		SpaceBefore: spaceBeforeFoot,
		Block: &Paragraph{
			Style: styles.Footer,
			Lines: [][]Span{{{Text: brand.Tagline}}, {{Text: brand.Disclaimer}}},
		},
	})
	return doc
}

func text(style TextStyle, lines ...string) Paragraph {
	p := Paragraph{Style: style}
	for _, l := range lines {
		p.Lines = append(p.Lines, []Span{{Text: l}})
	}
	return p
}

func headerBand(rec *invoice.Record, styles StyleSheet, brand Brand) *Table {
	return &Table{
		Columns: []float64{0.60, 0.40},
		Padding: Padding{Top: 3, Right: 6, Bottom: 8, Left: 6},
		VAlign:  VAlignTop,
		Rows: []TableRow{{
			Cells: []Cell{
				{Content: text(styles.Title, brand.Name)},
				{Content: text(styles.InvoiceNumber, "INVOICE", rec.InvoiceNumber)},
			},
			RuleBelow: &Rule{Width: 1.5, Color: styles.Palette.Highlight},
		}},
	}
}

func infoBand(rec *invoice.Record, styles StyleSheet) *Table {
	billTo := Paragraph{
		Style: styles.Normal,
		Lines: [][]Span{
			{{Text: "Bill To:", Bold: true}},
			{{Text: rec.CustomerName}},
			{{Text: rec.CustomerEmail}},
			{{Text: rec.CustomerAddress}},
		},
	}
	details := Paragraph{
		Style: styles.Normal,
		Lines: [][]Span{
			{{Text: "Booking Date:", Bold: true}, {Text: invoice.FormatDate(rec.BookingDate)}},
			{{Text: "Due Date:", Bold: true}, {Text: invoice.FormatDate(rec.DueDate)}},
			{{Text: "Guide Name:", Bold: true}, {Text: rec.GuideName}},
		},
	}
	return &Table{
		Columns: []float64{0.55, 0.45},
		Padding: Padding{Top: 3, Right: 6, Bottom: 3, Left: 6},
		VAlign:  VAlignTop,
		Rows:    []TableRow{{Cells: []Cell{{Content: billTo}, {Content: details}}}},
	}
}

func itemTable(rec *invoice.Record, styles StyleSheet, prefix string) *Table {
	headerFill := styles.Palette.TableHeaderBG
	altFill := styles.Palette.TableAltRow

	header := TableRow{Fill: &headerFill}
	for _, h := range []string{"#", "Description", "Qty", "Unit Price", "Amount"} {
		header.Cells = append(header.Cells, Cell{Content: text(styles.TableHeader, h)})
	}

	rows := make([]TableRow, 0, len(rec.Items)+1)
	rows = append(rows, header)
	for i, item := range rec.Items {
		n := i + 1
		row := TableRow{Cells: []Cell{
			{Content: text(styles.Normal, strconv.Itoa(n))},
			{Content: text(styles.Normal, item.Description)},
			{Content: text(styles.Normal, strconv.Itoa(item.Quantity))},
			{Content: text(styles.Normal, invoice.FormatMoney(item.UnitPrice, prefix))},
			{Content: text(styles.Normal, invoice.FormatMoney(item.Amount(), prefix))},
		}}
		if n%2 == 0 {
			row.Fill = &altFill
		}
		rows = append(rows, row)
	}

	return &Table{
		Columns:      []float64{0.08, 0.47, 0.12, 0.15, 0.18},
		Rows:         rows,
		RepeatHeader: 1,
		Splittable:   true,
		Grid:         &Rule{Width: 0.5, Color: styles.Palette.LightGray},
		Padding:      Padding{Top: 6, Right: 6, Bottom: 6, Left: 6},
		VAlign:       VAlignMiddle,
	}
}

func totalsBlock(rec *invoice.Record, totals invoice.Totals, styles StyleSheet, prefix string) *Table {
	label := styles.Bold.WithAlign(AlignRight)
	value := styles.Normal.WithAlign(AlignRight)

	line := func(name, amount string) TableRow {
		return TableRow{Cells: []Cell{
			{},
			{Content: text(label, name)},
			{Content: text(value, amount)},
		}}
	}

	total := TableRow{
		Cells: []Cell{
			{},
			{Content: text(styles.TotalValue, "TOTAL")},
			{Content: text(styles.TotalValue, invoice.FormatMoney(totals.Total, prefix))},
		},
		RuleAbove: &Rule{Width: 1.5, Color: styles.Palette.Highlight, FromCol: 1},
	}

	return &Table{
		Columns: []float64{0.52, 0.28, 0.20},
		Padding: Padding{Top: 4, Right: 6, Bottom: 4, Left: 6},
		VAlign:  VAlignMiddle,
		Rows: []TableRow{
			line("Subtotal", invoice.FormatMoney(totals.Subtotal, prefix)),
			line("Tax ("+invoice.FormatTaxRate(rec.TaxRate)+"%)", invoice.FormatMoney(totals.TaxAmount, prefix)),
			line("Discount", "−"+invoice.FormatMoney(totals.Discount, prefix)),
			total,
		},
	}
}
