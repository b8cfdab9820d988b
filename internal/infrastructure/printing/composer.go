package printing

import (
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// epsilon absorbs floating point noise in fit checks
const epsilon = 1e-6

// Placement records where a piece of a region landed
type Placement struct {
	Region RegionName
	Page   int
	// Row is the table row index, or -1 for paragraph lines
	Row    int
	Header bool
	Top    float64
	Bottom float64
}

// LayoutReport describes the pagination of a composed document
type LayoutReport struct {
	Pages      int
	Regions    []RegionName
	Placements []Placement
}

// PagesOf returns the distinct pages a region touches, in order
func (r *LayoutReport) PagesOf(name RegionName) []int {
	var pages []int
	for _, p := range r.Placements {
		if p.Region != name {
			continue
		}
		if len(pages) == 0 || pages[len(pages)-1] != p.Page {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// fragment is a run of same-font text on one visual line
type fragment struct {
	text      string
	fontStyle string
	width     float64
}

type visualLine struct {
	frags []fragment
	width float64
}

func (l *visualLine) add(text, fontStyle string, width float64) {
	if n := len(l.frags); n > 0 && l.frags[n-1].fontStyle == fontStyle {
		l.frags[n-1].text += text
		l.frags[n-1].width += width
	} else {
		l.frags = append(l.frags, fragment{text: text, fontStyle: fontStyle, width: width})
	}
	l.width += width
}

type token struct {
	text      string
	fontStyle string
}

type cellLayout struct {
	style TextStyle
	lines []visualLine
}

func (c cellLayout) height() float64 {
	return float64(len(c.lines)) * c.style.LineHeight()
}

type rowLayout struct {
	index     int
	header    bool
	fill      *Color
	ruleAbove *Rule
	ruleBelow *Rule
	cells     []cellLayout
	height    float64
}

// composer paints a Document onto a gofpdf page sequence. It owns the
// cursor and performs all page breaking itself.
type composer struct {
	pdf    *gofpdf.Fpdf
	pageW  float64
	pageH  float64
	left   float64
	top    float64
	right  float64
	bottom float64
	y      float64
	atTop  bool
	report LayoutReport
}

func newComposer(pdf *gofpdf.Fpdf, pageW, pageH, left, top, right, bottom float64) *composer {
	return &composer{
		pdf:    pdf,
		pageW:  pageW,
		pageH:  pageH,
		left:   left,
		top:    top,
		right:  right,
		bottom: bottom,
	}
}

func (c *composer) flowWidth() float64  { return c.pageW - c.left - c.right }
func (c *composer) bodyHeight() float64 { return c.pageH - c.top - c.bottom }
func (c *composer) remaining() float64  { return c.pageH - c.bottom - c.y }

func (c *composer) fits(h float64) bool { return h <= c.remaining()+epsilon }

func (c *composer) newPage() {
	c.pdf.AddPage()
	c.y = c.top
	c.atTop = true
	c.report.Pages = c.pdf.PageNo()
}

func (c *composer) place(p Placement) {
	p.Page = c.pdf.PageNo()
	c.report.Placements = append(c.report.Placements, p)
	c.atTop = false
}

func overflow(format string, args ...any) *RenderError {
	return NewRenderError(ErrCodeLayoutOverflow, fmt.Sprintf(format, args...), nil)
}

func (c *composer) compose(doc *Document) error {
	if c.flowWidth() <= 0 {
		return overflow("flow width %.2fmm leaves no room for content", c.flowWidth())
	}
	if c.bodyHeight() <= 0 {
		return overflow("page body height %.2fmm leaves no room for content", c.bodyHeight())
	}

	c.report.Regions = doc.Names()
	c.newPage()
	for _, r := range doc.Regions {
		if !c.atTop {
			c.y += r.SpaceBefore
		}
		var err error
		switch b := r.Block.(type) {
		case *Table:
			err = c.placeTable(r.Name, b)
		case *Paragraph:
			err = c.placeParagraph(r.Name, b)
		default:
			err = NewRenderError(ErrCodeRenderFailed, fmt.Sprintf("unsupported block %T in region %s", r.Block, r.Name), nil)
		}
		if err != nil {
			return err
		}
		if c.pdf.Err() {
			return NewRenderError(ErrCodeRenderFailed, "failed to draw region "+string(r.Name), c.pdf.Error())
		}
	}
	return nil
}

// Paragraphs

func (c *composer) placeParagraph(name RegionName, p *Paragraph) error {
	lines, err := c.wrap(p, c.flowWidth())
	if err != nil {
		return err
	}
	lh := p.Style.LineHeight()
	if len(lines) > 0 && lh > c.bodyHeight()+epsilon {
		return overflow("line height %.2fmm of region %s exceeds page body", lh, name)
	}

	total := p.Style.SpaceBefore + float64(len(lines))*lh + p.Style.SpaceAfter
	if !c.fits(total) && !c.atTop {
		// Whole paragraphs move to the next page; only paragraphs taller
		// than a page body flow line by line.
		if total <= c.bodyHeight()+epsilon {
			c.newPage()
		}
	}
	if !c.atTop {
		c.y += p.Style.SpaceBefore
	}
	for _, line := range lines {
		if !c.fits(lh) {
			c.newPage()
		}
		c.drawLine(line, p.Style, c.left, c.y, c.flowWidth())
		c.place(Placement{Region: name, Row: -1, Top: c.y, Bottom: c.y + lh})
		c.y += lh
	}
	c.y += p.Style.SpaceAfter
	return nil
}

// Tables

func (c *composer) columnEdges(t *Table) (xs, ws []float64, err error) {
	var sum float64
	x := c.left
	for i, frac := range t.Columns {
		w := frac * c.flowWidth()
		inner := w - (t.Padding.Left+t.Padding.Right)*ptToMM
		if inner <= 0 {
			return nil, nil, overflow("column %d is %.2fmm wide and cannot host text", i, w)
		}
		xs = append(xs, x)
		ws = append(ws, w)
		x += w
		sum += frac
	}
	if sum > 1+epsilon {
		return nil, nil, overflow("table columns span %.0f%% of the flow width", sum*100)
	}
	return xs, ws, nil
}

func (c *composer) measureRow(t *Table, idx int, row TableRow, ws []float64) (*rowLayout, error) {
	rl := &rowLayout{
		index:     idx,
		header:    idx < t.RepeatHeader,
		fill:      row.Fill,
		ruleAbove: row.RuleAbove,
		ruleBelow: row.RuleBelow,
	}
	padX := (t.Padding.Left + t.Padding.Right) * ptToMM
	var content float64
	for i := range ws {
		var cell Cell
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}
		lines, err := c.wrap(&cell.Content, ws[i]-padX)
		if err != nil {
			return nil, err
		}
		cl := cellLayout{style: cell.Content.Style, lines: lines}
		content = math.Max(content, cl.height())
		rl.cells = append(rl.cells, cl)
	}
	rl.height = content + (t.Padding.Top+t.Padding.Bottom)*ptToMM
	return rl, nil
}

func (c *composer) placeTable(name RegionName, t *Table) error {
	xs, ws, err := c.columnEdges(t)
	if err != nil {
		return err
	}

	rows := make([]*rowLayout, 0, len(t.Rows))
	var total float64
	for i, row := range t.Rows {
		rl, err := c.measureRow(t, i, row, ws)
		if err != nil {
			return err
		}
		rows = append(rows, rl)
		total += rl.height
	}

	// Unsplittable tables move as a unit when they fit a page body
	if !t.Splittable && total <= c.bodyHeight()+epsilon {
		if !c.fits(total) && !c.atTop {
			c.newPage()
		}
		for _, rl := range rows {
			c.drawRow(name, t, xs, ws, rl)
		}
		return nil
	}

	headerCount := t.RepeatHeader
	if headerCount > len(rows) {
		headerCount = len(rows)
	}
	headers := rows[:headerCount]
	var headerH float64
	for _, h := range headers {
		headerH += h.height
	}
	if headerH > c.bodyHeight()+epsilon {
		return overflow("header of region %s is taller than the page body", name)
	}

	// Keep the header together with the first body row
	lead := headerH
	if len(rows) > headerCount {
		lead += rows[headerCount].height
	}
	if !c.fits(lead) && !c.atTop && lead <= c.bodyHeight()+epsilon {
		c.newPage()
	}

	for _, rl := range headers {
		c.drawRow(name, t, xs, ws, rl)
	}

	continuation := func() {
		c.newPage()
		for _, h := range headers {
			c.drawRow(name, t, xs, ws, h)
		}
	}

	for _, rl := range rows[headerCount:] {
		pending := rl
		fresh := false
		for pending != nil {
			if c.fits(pending.height) {
				c.drawRow(name, t, xs, ws, pending)
				break
			}
			if !fresh && pending.height <= c.bodyHeight()-headerH+epsilon {
				continuation()
				fresh = true
				continue
			}
			head, tail, err := c.splitRow(t, pending, c.remaining())
			if err != nil {
				return err
			}
			if head == nil {
				if fresh {
					return overflow("row %d of region %s cannot be placed on an empty page", pending.index, name)
				}
				continuation()
				fresh = true
				continue
			}
			c.drawRow(name, t, xs, ws, head)
			continuation()
			fresh = true
			pending = tail
		}
	}
	return nil
}

// splitRow divides a row so that the head fits in avail millimetres.
// A nil head means not even one line of every non-empty cell fits.
func (c *composer) splitRow(t *Table, rl *rowLayout, avail float64) (head, tail *rowLayout, err error) {
	padY := (t.Padding.Top + t.Padding.Bottom) * ptToMM
	room := avail - padY

	head = &rowLayout{index: rl.index, fill: rl.fill, ruleAbove: rl.ruleAbove}
	tail = &rowLayout{index: rl.index, fill: rl.fill, ruleBelow: rl.ruleBelow}
	var headH, tailH float64
	moved := false
	for _, cl := range rl.cells {
		lh := cl.style.LineHeight()
		n := len(cl.lines)
		if lh > 0 {
			if lh > c.bodyHeight()+epsilon {
				return nil, nil, overflow("line height %.2fmm exceeds page body", lh)
			}
			n = int(math.Floor((room + epsilon) / lh))
		}
		if n < 0 {
			n = 0
		}
		if n > len(cl.lines) {
			n = len(cl.lines)
		}
		if n > 0 {
			moved = true
		}
		hc := cellLayout{style: cl.style, lines: cl.lines[:n]}
		tc := cellLayout{style: cl.style, lines: cl.lines[n:]}
		head.cells = append(head.cells, hc)
		tail.cells = append(tail.cells, tc)
		headH = math.Max(headH, hc.height())
		tailH = math.Max(tailH, tc.height())
	}
	if !moved {
		return nil, nil, nil
	}
	head.height = headH + padY
	tail.height = tailH + padY
	return head, tail, nil
}

func (c *composer) drawRow(name RegionName, t *Table, xs, ws []float64, rl *rowLayout) {
	y := c.y
	h := rl.height
	width := c.flowWidth()

	if rl.fill != nil {
		c.pdf.SetFillColor(rl.fill.R, rl.fill.G, rl.fill.B)
		c.pdf.Rect(c.left, y, width, h, "F")
	}

	padTop := t.Padding.Top * ptToMM
	padBottom := t.Padding.Bottom * ptToMM
	padLeft := t.Padding.Left * ptToMM
	padRight := t.Padding.Right * ptToMM
	for i, cl := range rl.cells {
		ty := y + padTop
		if t.VAlign == VAlignMiddle {
			ty += (h - padTop - padBottom - cl.height()) / 2
		}
		for _, line := range cl.lines {
			c.drawLine(line, cl.style, xs[i]+padLeft, ty, ws[i]-padLeft-padRight)
			ty += cl.style.LineHeight()
		}
	}

	if t.Grid != nil {
		c.setStroke(t.Grid)
		for i := range xs {
			c.pdf.Rect(xs[i], y, ws[i], h, "D")
		}
	}
	if rl.ruleAbove != nil {
		c.drawRule(rl.ruleAbove, xs, y)
	}
	if rl.ruleBelow != nil {
		c.drawRule(rl.ruleBelow, xs, y+h)
	}

	c.place(Placement{Region: name, Row: rl.index, Header: rl.header, Top: y, Bottom: y + h})
	c.y += h
}

func (c *composer) setStroke(r *Rule) {
	c.pdf.SetDrawColor(r.Color.R, r.Color.G, r.Color.B)
	c.pdf.SetLineWidth(r.Width * ptToMM)
}

func (c *composer) drawRule(r *Rule, xs []float64, y float64) {
	from := c.left
	if r.FromCol > 0 && r.FromCol < len(xs) {
		from = xs[r.FromCol]
	}
	c.setStroke(r)
	c.pdf.Line(from, y, c.left+c.flowWidth(), y)
}

// Text

func (c *composer) setFont(style TextStyle, fontStyle string) {
	c.pdf.SetFont(style.Family, fontStyle, style.Size)
}

func (c *composer) drawLine(line visualLine, style TextStyle, x, y, width float64) {
	switch style.Align {
	case AlignRight:
		x += width - line.width
	case AlignCenter:
		x += (width - line.width) / 2
	}
	c.pdf.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
	for _, f := range line.frags {
		c.setFont(style, f.fontStyle)
		c.pdf.SetXY(x, y)
		c.pdf.CellFormat(f.width, style.LineHeight(), f.text, "", 0, "LM", false, 0, "")
		x += f.width
	}
}

func tokenize(style TextStyle, spans []Span) []token {
	var tokens []token
	for _, s := range spans {
		fs := style.fontStyle(s.Bold, s.Italic)
		for _, word := range strings.Fields(s.Text) {
			tokens = append(tokens, token{text: encodeText(word), fontStyle: fs})
		}
	}
	return tokens
}

// wrap breaks every explicit line of p into visual lines no wider than
// maxWidth. Words longer than a line are broken between characters.
func (c *composer) wrap(p *Paragraph, maxWidth float64) ([]visualLine, error) {
	var out []visualLine
	for _, spans := range p.Lines {
		tokens := tokenize(p.Style, spans)
		var line visualLine
		for _, tok := range tokens {
			c.setFont(p.Style, tok.fontStyle)
			w := c.pdf.GetStringWidth(tok.text)
			if len(line.frags) > 0 {
				space := c.pdf.GetStringWidth(" ")
				if line.width+space+w <= maxWidth+epsilon {
					line.add(" "+tok.text, tok.fontStyle, space+w)
					continue
				}
				out = append(out, line)
				line = visualLine{}
			}
			if w <= maxWidth+epsilon {
				line.add(tok.text, tok.fontStyle, w)
				continue
			}
			pieces, err := c.breakWord(tok, maxWidth)
			if err != nil {
				return nil, err
			}
			for _, piece := range pieces[:len(pieces)-1] {
				out = append(out, piece)
			}
			line = pieces[len(pieces)-1]
		}
		out = append(out, line)
	}
	return out, nil
}

// breakWord splits a single over-long word into lines. The current font
// must already be set for the token.
func (c *composer) breakWord(tok token, maxWidth float64) ([]visualLine, error) {
	var lines []visualLine
	var cur strings.Builder
	var curW float64
	for i := 0; i < len(tok.text); i++ {
		ch := tok.text[i : i+1]
		w := c.pdf.GetStringWidth(ch)
		if w > maxWidth+epsilon {
			return nil, overflow("character %q is wider than the %.2fmm available", ch, maxWidth)
		}
		if curW+w > maxWidth+epsilon {
			var l visualLine
			l.add(cur.String(), tok.fontStyle, curW)
			lines = append(lines, l)
			cur.Reset()
			curW = 0
		}
		cur.WriteString(ch)
		curW += w
	}
	var l visualLine
	l.add(cur.String(), tok.fontStyle, curW)
	return append(lines, l), nil
}
