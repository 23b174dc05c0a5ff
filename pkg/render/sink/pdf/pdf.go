// Package pdf renders a planned resume as a fixed-layout US Letter PDF.
//
// The print target mirrors the word-processor layout with a simpler visual
// vocabulary: a centered name and contact block, a thin divider, then the
// planned sections, each heading followed by its own divider. Skins select
// the core font family, the heading color and the bullet glyph. Content
// that overflows the page continues on a new page.
//
// Text is encoded as Windows-1252. Bullet glyphs outside that code page are
// drawn as small filled shapes instead.
package pdf

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/vitae/pkg/errors"
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// ContentType is the media type of a rendered document.
const ContentType = "application/pdf"

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	title      string
	author     string
	created    time.Time
	uncompress bool
}

// WithTitle sets the document title.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithAuthor sets the document author.
func WithAuthor(s string) Option { return func(r *renderer) { r.author = s } }

// WithCreationDate fixes the creation timestamp, making output reproducible.
func WithCreationDate(t time.Time) Option { return func(r *renderer) { r.created = t } }

// WithoutCompression leaves page content streams uncompressed.
func WithoutCompression() Option { return func(r *renderer) { r.uncompress = true } }

// Render returns the PDF bytes for d rendered with s.
func Render(d *plan.Document, s *skin.Skin, opts ...Option) ([]byte, error) {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	f := gofpdf.New("P", "pt", "Letter", "")
	f.SetMargins(pagePadding, pagePadding, pagePadding)
	f.SetAutoPageBreak(true, pagePadding)
	f.SetCreator("vitae", true)
	f.SetCatalogSort(true)
	f.SetCompression(!r.uncompress)
	if r.title != "" {
		f.SetTitle(r.title, true)
	}
	if r.author != "" {
		f.SetAuthor(r.author, true)
	}
	if !r.created.IsZero() {
		f.SetCreationDate(r.created)
	}
	f.AddPage()

	p := newPainter(f, s)
	for _, n := range layout(d, s) {
		p.paint(n)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}

type painter struct {
	f      *gofpdf.Fpdf
	family string
	glyph  string
	tr     func(string) string
	shape  bool // draw the bullet glyph as a shape
	fill   rgb  // shape glyph color
	width  float64
	limit  float64 // lowest y a line may end at
}

func newPainter(f *gofpdf.Fpdf, s *skin.Skin) *painter {
	w, h := f.GetPageSize()
	tr := f.UnicodeTranslatorFromDescriptor("")
	return &painter{
		f:      f,
		family: s.PDFFont,
		glyph:  s.Bullet,
		tr:     tr,
		shape:  s.Bullet != "." && tr(s.Bullet) == ".",
		fill:   hexRGB(s.BulletColor()),
		width:  w - 2*pagePadding,
		limit:  h - pagePadding,
	}
}

func (p *painter) font(st fontStyle, size float64, c rgb) {
	p.f.SetFont(p.family, string(st), size)
	p.f.SetTextColor(c.r, c.g, c.b)
}

func (p *painter) paint(n node) {
	f := p.f
	if n.top > 0 {
		f.Ln(n.top)
	}
	lh := n.size * lineHeight

	switch n.kind {
	case nodeText:
		p.font(n.style, n.size, n.color)
		align := "L"
		if n.center {
			align = "C"
		}
		f.SetX(pagePadding)
		f.MultiCell(p.width, lh, p.tr(n.text), "", align, false)

	case nodeRow:
		p.row(n, lh)

	case nodeBullet:
		p.bullet(n, lh)

	case nodeRule:
		f.SetDrawColor(n.color.r, n.color.g, n.color.b)
		f.SetLineWidth(dividerWidth)
		y := f.GetY()
		f.Line(pagePadding, y, pagePadding+p.width, y)
	}

	if n.bottom > 0 {
		f.Ln(n.bottom)
	}
}

// row draws left segments flush left and the right text flush right on the
// first baseline. Left text wraps before it would reach the right text.
func (p *painter) row(n node, lh float64) {
	f := p.f
	avail := p.width
	var right string
	var rw float64
	if n.right != "" {
		p.font(styleRegular, n.size, n.color)
		right = p.tr(n.right)
		rw = f.GetStringWidth(right)
		avail -= rw + rowGap
	}

	lines := p.rowLines(n.left, n.size, avail)
	if len(lines) == 0 {
		lines = [][]segment{nil}
	}
	for i, line := range lines {
		if f.GetY()+lh > p.limit {
			f.AddPage()
		}
		y := f.GetY()
		x := pagePadding
		for _, s := range line {
			p.font(s.style, n.size, n.color)
			txt := p.tr(s.text)
			w := f.GetStringWidth(txt)
			f.SetXY(x, y)
			f.CellFormat(w, lh, txt, "", 0, "L", false, 0, "")
			x += w
		}
		if i == 0 && right != "" {
			p.font(styleRegular, n.size, n.color)
			f.SetXY(pagePadding+p.width-rw, y)
			f.CellFormat(rw, lh, right, "", 0, "R", false, 0, "")
		}
		f.SetXY(pagePadding, y+lh)
	}
}

// rowLines wraps segs at size into lines no wider than avail.
func (p *painter) rowLines(segs []segment, size, avail float64) [][]segment {
	return wrapRow(segs, avail, func(s segment) float64 {
		p.f.SetFont(p.family, string(s.style), size)
		return p.f.GetStringWidth(p.tr(s.text))
	})
}

// wrapRow breaks segs into lines no wider than avail, splitting only at
// spaces. A single word wider than avail gets a line of its own.
func wrapRow(segs []segment, avail float64, width func(segment) float64) [][]segment {
	var (
		lines [][]segment
		line  []segment
		used  float64
	)
	for _, s := range segs {
		for _, tok := range strings.SplitAfter(s.text, " ") {
			if tok == "" {
				continue
			}
			t := segment{text: tok, style: s.style}
			ink := width(segment{text: strings.TrimRight(tok, " "), style: s.style})
			if len(line) > 0 && used+ink > avail {
				lines = append(lines, line)
				line, used = nil, 0
				t.text = strings.TrimLeft(tok, " ")
				if t.text == "" {
					continue
				}
			}
			line = appendSegment(line, t)
			used += width(t)
		}
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func appendSegment(line []segment, s segment) []segment {
	if n := len(line); n > 0 && line[n-1].style == s.style {
		line[n-1].text += s.text
		return line
	}
	return append(line, s)
}

func (p *painter) bullet(n node, lh float64) {
	f := p.f
	p.font(styleRegular, n.size, n.color)
	x := pagePadding + bulletIndent

	if !p.shape {
		f.SetX(x)
		f.MultiCell(p.width-bulletIndent, lh, p.tr(p.glyph+" "+n.text), "", "L", false)
		return
	}

	marker := f.GetStringWidth("- ")
	if f.GetY()+lh > p.limit {
		f.AddPage()
	}
	p.shapeGlyph(x, f.GetY()+lh/2, n.size*0.3)
	f.SetX(x + marker)
	f.MultiCell(p.width-bulletIndent-marker, lh, p.tr(n.text), "", "L", false)
}

// shapeGlyph draws a filled marker centered vertically at cy.
func (p *painter) shapeGlyph(x, cy, r float64) {
	f := p.f
	f.SetFillColor(p.fill.r, p.fill.g, p.fill.b)
	var pts []gofpdf.PointType
	switch p.glyph {
	case "▸", "▶", "►":
		pts = []gofpdf.PointType{{X: x, Y: cy - r}, {X: x + 2*r, Y: cy}, {X: x, Y: cy + r}}
	default:
		pts = []gofpdf.PointType{{X: x, Y: cy - r}, {X: x + 2*r, Y: cy - r}, {X: x + 2*r, Y: cy + r}, {X: x, Y: cy + r}}
	}
	f.Polygon(pts, "F")
}
