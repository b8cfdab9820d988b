package printing

import (
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer() *composer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCellMargin(0)
	return newComposer(pdf, 210, 297, 20, 20, 20, 20)
}

func lineText(l visualLine) string {
	var b strings.Builder
	for _, f := range l.frags {
		b.WriteString(f.text)
	}
	return b.String()
}

func TestComposer_WrapKeepsShortLines(t *testing.T) {
	c := newTestComposer()
	p := &Paragraph{
		Style: DefaultStyleSheet().Normal,
		Lines: [][]Span{
			{{Text: "Booking Date:", Bold: true}, {Text: "February 17, 2026"}},
			{},
		},
	}

	lines, err := c.wrap(p, 170)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Booking Date: February 17, 2026", lineText(lines[0]))
	require.Len(t, lines[0].frags, 2)
	assert.Equal(t, "B", lines[0].frags[0].fontStyle)
	assert.Equal(t, "", lines[0].frags[1].fontStyle)
	assert.Empty(t, lines[1].frags)
}

func TestComposer_WrapBreaksAtWidth(t *testing.T) {
	c := newTestComposer()
	p := &Paragraph{
		Style: DefaultStyleSheet().Normal,
		Lines: [][]Span{{{Text: strings.Repeat("walking tour ", 50)}}},
	}

	lines, err := c.wrap(p, 40)
	require.NoError(t, err)
	require.Greater(t, len(lines), 1)

	var words []string
	for _, l := range lines {
		assert.LessOrEqual(t, l.width, 40+epsilon)
		words = append(words, strings.Fields(lineText(l))...)
	}
	assert.Len(t, words, 100)
}

func TestComposer_WrapBreaksLongWords(t *testing.T) {
	c := newTestComposer()
	p := &Paragraph{
		Style: DefaultStyleSheet().Normal,
		Lines: [][]Span{{{Text: "start " + strings.Repeat("W", 80) + " end"}}},
	}

	lines, err := c.wrap(p, 30)
	require.NoError(t, err)

	var joined strings.Builder
	for _, l := range lines {
		assert.LessOrEqual(t, l.width, 30+epsilon)
		joined.WriteString(lineText(l))
	}
	assert.Equal(t, 80, strings.Count(joined.String(), "W"))
	assert.Equal(t, "start", lineText(lines[0]))
	assert.True(t, strings.HasSuffix(lineText(lines[len(lines)-1]), "end"))
}

func TestComposer_WrapRejectsNarrowWidth(t *testing.T) {
	c := newTestComposer()
	p := &Paragraph{
		Style: DefaultStyleSheet().Normal,
		Lines: [][]Span{{{Text: "W"}}},
	}

	_, err := c.wrap(p, 0.5)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeLayoutOverflow, renderErr.Code)
}

func TestComposer_SplitRow(t *testing.T) {
	c := newTestComposer()
	style := DefaultStyleSheet().Normal
	tbl := &Table{Padding: Padding{Top: 6, Bottom: 6}}

	mk := func(n int) []visualLine {
		lines := make([]visualLine, n)
		for i := range lines {
			lines[i].add("x", "", 1)
		}
		return lines
	}
	row := &rowLayout{
		index:     3,
		ruleAbove: &Rule{Width: 1},
		ruleBelow: &Rule{Width: 2},
		cells: []cellLayout{
			{style: style, lines: mk(10)},
			{style: style, lines: mk(2)},
			{},
		},
	}
	lh := style.LineHeight()
	pad := 12 * ptToMM
	row.height = 10*lh + pad

	head, tail, err := c.splitRow(tbl, row, pad+4*lh+0.1)
	require.NoError(t, err)
	require.NotNil(t, head)

	assert.Len(t, head.cells[0].lines, 4)
	assert.Len(t, head.cells[1].lines, 2)
	assert.Len(t, tail.cells[0].lines, 6)
	assert.Empty(t, tail.cells[1].lines)
	assert.InDelta(t, 4*lh+pad, head.height, epsilon)
	assert.InDelta(t, 6*lh+pad, tail.height, epsilon)
	assert.NotNil(t, head.ruleAbove)
	assert.Nil(t, head.ruleBelow)
	assert.Nil(t, tail.ruleAbove)
	assert.NotNil(t, tail.ruleBelow)
	assert.Equal(t, 3, tail.index)

	head, tail, err = c.splitRow(tbl, row, pad+lh/2)
	require.NoError(t, err)
	assert.Nil(t, head)
	assert.Nil(t, tail)
}
