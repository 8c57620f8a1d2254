package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

func (a TextAlign) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// fontSizeMult is the height of one line box relative to the font size
// before lineHeight is applied.
const fontSizeMult = 1.13

type fontSet struct {
	regular, bold, italic, boldItalic *sfnt.Font
}

func mustParseFont(data []byte) *sfnt.Font {
	f, err := sfnt.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

// Go fonts stand in for every family; fontFamily is carried through
// records untouched.
var fonts = sync.OnceValue(func() fontSet {
	return fontSet{
		regular:    mustParseFont(goregular.TTF),
		bold:       mustParseFont(gobold.TTF),
		italic:     mustParseFont(goitalic.TTF),
		boldItalic: mustParseFont(gobolditalic.TTF),
	}
})

// Text is a block of one or more lines. Its box is measured from the
// text and font settings, so width and height cannot be set directly.
type Text struct {
	Object
	text       string
	fontSize   float64
	fontFamily string
	fontWeight string
	fontStyle  string
	textAlign  TextAlign
	lineHeight float64
}

func NewText(text string, opts ...Option) *Text {
	t := &Text{}
	t.init(t, TypeText)
	t.setDefaults()
	t.text = text
	t.measure()
	t.apply(opts)
	return t
}

func (t *Text) setDefaults() {
	t.fontSize = 40
	t.fontFamily = "Times New Roman"
	t.fontWeight = "normal"
	t.textAlign = AlignLeft
	t.lineHeight = 1.16
}

func (t *Text) Text() string           { return t.text }
func (t *Text) FontSize() float64      { return t.fontSize }
func (t *Text) FontFamily() string     { return t.fontFamily }
func (t *Text) FontWeight() string     { return t.fontWeight }
func (t *Text) FontStyle() string      { return t.fontStyle }
func (t *Text) TextAlign() TextAlign   { return t.textAlign }
func (t *Text) LineHeight() float64    { return t.lineHeight }
func (t *Text) Lines() []string        { return strings.Split(t.text, "\n") }
func (t *Text) Complexity() int        { return 1 }
func (t *Text) Outline() []PathCommand { return boxOutline(t.t.Width, t.t.Height) }

func (t *Text) SetText(s string) {
	t.text = s
	t.remeasure()
}

func (t *Text) SetFontSize(v float64) error {
	if v <= 0 {
		return fmt.Errorf("font size %v: %w", v, ErrInvalidSize)
	}
	t.fontSize = v
	t.remeasure()
	return nil
}

func (t *Text) SetFontFamily(v string) {
	t.fontFamily = v
	t.changed()
}

// SetFontWeight accepts "normal", "bold" or a CSS numeric weight.
func (t *Text) SetFontWeight(v string) {
	t.fontWeight = v
	t.remeasure()
}

// SetFontStyle accepts "", "normal", "italic" or "oblique".
func (t *Text) SetFontStyle(v string) {
	t.fontStyle = v
	t.remeasure()
}

func (t *Text) SetTextAlign(a TextAlign) error {
	if !a.Valid() {
		return fmt.Errorf("text align %q: %w", a, ErrMalformed)
	}
	t.textAlign = a
	t.changed()
	return nil
}

func (t *Text) SetLineHeight(v float64) error {
	if v <= 0 {
		return fmt.Errorf("line height %v: %w", v, ErrInvalidSize)
	}
	t.lineHeight = v
	t.remeasure()
	return nil
}

// constrainSize ignores the requested size; the text decides it.
func (t *Text) constrainSize(_, _ float64, _ bool) (float64, float64) {
	return t.t.Width, t.t.Height
}

func (t *Text) remeasure() {
	t.measure()
	t.changed()
}

func (t *Text) face() *sfnt.Font {
	fs := fonts()
	bold := t.fontWeight == "bold" || t.fontWeight == "bolder"
	if n, err := strconv.Atoi(t.fontWeight); err == nil {
		bold = n >= 600
	}
	italic := t.fontStyle == "italic" || t.fontStyle == "oblique"
	switch {
	case bold && italic:
		return fs.boldItalic
	case bold:
		return fs.bold
	case italic:
		return fs.italic
	}
	return fs.regular
}

func (t *Text) ppem() fixed.Int26_6 {
	return fixed.Int26_6(math.Round(t.fontSize * 64))
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

// glyphIndex falls back to '?' for runes the font lacks.
func glyphIndex(f *sfnt.Font, buf *sfnt.Buffer, r rune) sfnt.GlyphIndex {
	gi, err := f.GlyphIndex(buf, r)
	if err != nil || gi == 0 {
		gi, _ = f.GlyphIndex(buf, '?')
	}
	return gi
}

// lineWidth is the advance of line including kerning.
func lineWidth(f *sfnt.Font, buf *sfnt.Buffer, ppem fixed.Int26_6, line string) float64 {
	var w fixed.Int26_6
	var prev sfnt.GlyphIndex
	first := true
	for _, r := range line {
		gi := glyphIndex(f, buf, r)
		if !first {
			if k, err := f.Kern(buf, prev, gi, ppem, font.HintingNone); err == nil {
				w += k
			}
		}
		if adv, err := f.GlyphAdvance(buf, gi, ppem, font.HintingNone); err == nil {
			w += adv
		}
		prev, first = gi, false
	}
	return fromFixed(w)
}

func (t *Text) lineAdvance() float64 {
	return t.fontSize * fontSizeMult * t.lineHeight
}

// measure sets the box from the widest line and the line count. The last
// line does not add its lineHeight spacing.
func (t *Text) measure() {
	f, ppem := t.face(), t.ppem()
	var buf sfnt.Buffer
	lines := t.Lines()
	var w float64
	for _, line := range lines {
		w = math.Max(w, lineWidth(f, &buf, ppem, line))
	}
	t.t.Width = w
	t.t.Height = t.lineAdvance()*float64(len(lines)-1) + t.fontSize*fontSizeMult
}

// Glyphs returns the outlines of every glyph in local box coordinates,
// laid out by line and alignment. Fill them with the nonzero rule.
func (t *Text) Glyphs() []PathCommand {
	f, ppem := t.face(), t.ppem()
	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil
	}
	ascent, descent := fromFixed(m.Ascent), fromFixed(m.Descent)
	lineBox := t.fontSize * fontSizeMult

	lines := t.Lines()
	var out []PathCommand
	for i, line := range lines {
		lw := lineWidth(f, &buf, ppem, line)
		x, gap := 0.0, 0.0
		switch t.textAlign {
		case AlignCenter:
			x = (t.t.Width - lw) / 2
		case AlignRight:
			x = t.t.Width - lw
		case AlignJustify:
			if n := strings.Count(line, " "); n > 0 && i < len(lines)-1 {
				gap = (t.t.Width - lw) / float64(n)
			}
		}
		baseline := float64(i)*t.lineAdvance() + (lineBox-(ascent+descent))/2 + ascent
		out = t.appendLine(out, f, &buf, ppem, line, x, baseline, gap)
	}
	return out
}

func (t *Text) appendLine(out []PathCommand, f *sfnt.Font, buf *sfnt.Buffer, ppem fixed.Int26_6, line string, x, y, gap float64) []PathCommand {
	pt := func(p fixed.Point26_6) (float64, float64) {
		return x + fromFixed(p.X), y + fromFixed(p.Y)
	}
	var prev sfnt.GlyphIndex
	first := true
	for _, r := range line {
		gi := glyphIndex(f, buf, r)
		if !first {
			if k, err := f.Kern(buf, prev, gi, ppem, font.HintingNone); err == nil {
				x += fromFixed(k)
			}
		}
		prev, first = gi, false

		segs, err := f.LoadGlyph(buf, gi, ppem, nil)
		if err == nil {
			open := false
			for _, s := range segs {
				switch s.Op {
				case sfnt.SegmentOpMoveTo:
					if open {
						out = append(out, cmd("Z"))
					}
					px, py := pt(s.Args[0])
					out = append(out, cmd("M", px, py))
					open = true
				case sfnt.SegmentOpLineTo:
					px, py := pt(s.Args[0])
					out = append(out, cmd("L", px, py))
				case sfnt.SegmentOpQuadTo:
					cx, cy := pt(s.Args[0])
					px, py := pt(s.Args[1])
					out = append(out, cmd("Q", cx, cy, px, py))
				case sfnt.SegmentOpCubeTo:
					c1x, c1y := pt(s.Args[0])
					c2x, c2y := pt(s.Args[1])
					px, py := pt(s.Args[2])
					out = append(out, cmd("C", c1x, c1y, c2x, c2y, px, py))
				}
			}
			if open {
				out = append(out, cmd("Z"))
			}
		}

		if adv, err := f.GlyphAdvance(buf, gi, ppem, font.HintingNone); err == nil {
			x += fromFixed(adv)
		}
		if r == ' ' {
			x += gap
		}
	}
	return out
}

func (t *Text) ToObject(include ...Field) Record {
	rec := t.baseRecord(include)
	rec["text"] = t.text
	rec["fontSize"] = t.fontSize
	rec["fontFamily"] = t.fontFamily
	rec["fontWeight"] = t.fontWeight
	rec["fontStyle"] = t.fontStyle
	rec["textAlign"] = string(t.textAlign)
	rec["lineHeight"] = t.lineHeight
	return rec
}

func textFromObject(rd *recordReader) (Shape, error) {
	t := &Text{}
	t.init(t, TypeText)
	t.setDefaults()
	t.decodeBase(rd)

	var align string
	rd.str("text", &t.text)
	rd.float("fontSize", &t.fontSize)
	rd.str("fontFamily", &t.fontFamily)
	rd.str("fontWeight", &t.fontWeight)
	rd.str("fontStyle", &t.fontStyle)
	rd.str("textAlign", &align)
	rd.float("lineHeight", &t.lineHeight)
	if align != "" {
		t.textAlign = TextAlign(align)
		if !t.textAlign.Valid() {
			rd.fail("textAlign", fmt.Errorf("%q: %w", align, ErrMalformed))
		}
	}
	if rd.err == nil && t.fontSize <= 0 {
		rd.fail("fontSize", fmt.Errorf("%v: %w", t.fontSize, ErrInvalidSize))
	}
	if rd.err == nil && t.lineHeight <= 0 {
		rd.fail("lineHeight", fmt.Errorf("%v: %w", t.lineHeight, ErrInvalidSize))
	}
	if rd.err != nil {
		return nil, rd.err
	}
	t.measure()
	t.finish()
	return t, nil
}
