package pdf

import (
	"strings"

	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// Print metrics in points.
const (
	pagePadding   = 36.0
	bodySize      = 10.0
	nameSize      = 14.0
	headingSize   = 11.0
	lineHeight    = 1.3
	nameGapAfter  = 2.0
	dividerWidth  = 0.5
	dividerTop    = 6.0
	dividerBottom = 4.0
	headingTop    = 8.0
	headingBottom = 2.0
	rowTop        = 3.0
	rowGap        = 12.0 // minimum space between wrapped left text and right text
	bulletIndent  = 12.0
	bulletTop     = 1.0
)

type nodeKind int

const (
	nodeText   nodeKind = iota // one full-width text element
	nodeRow                    // left segments and right text sharing one row
	nodeBullet                 // indented glyph + text
	nodeRule                   // horizontal divider
)

type fontStyle string

const (
	styleRegular fontStyle = ""
	styleBold    fontStyle = "B"
	styleItalic  fontStyle = "I"
)

type segment struct {
	text  string
	style fontStyle
}

type rgb struct{ r, g, b int }

var (
	black   = rgb{0, 0, 0}
	contact = rgb{0x33, 0x33, 0x33}
)

// node is one element of the print tree.
type node struct {
	kind   nodeKind
	text   string
	style  fontStyle
	size   float64
	color  rgb
	center bool
	top    float64 // space before
	bottom float64 // space after

	left  []segment
	right string
}

// layout lowers a plan into print nodes. Headings are always followed by a
// divider here, and a later role is one shared row while the first role's
// title stands alone.
func layout(d *plan.Document, s *skin.Skin) []node {
	headingColor := headingRGB(s)
	var out []node
	for _, b := range d.Blocks {
		switch b.Kind {
		case plan.KindName:
			out = append(out, node{kind: nodeText, text: b.Text, style: styleBold, size: nameSize, color: black, center: true, bottom: nameGapAfter})
		case plan.KindContact:
			out = append(out, node{kind: nodeText, text: b.Text, size: bodySize, color: contact, center: true})
		case plan.KindDivider:
			out = append(out, ruleNode())
		case plan.KindHeading:
			out = append(out,
				node{kind: nodeText, text: strings.ToUpper(b.Text), style: styleBold, size: headingSize, color: headingColor, top: headingTop, bottom: headingBottom},
				ruleNode(),
			)
		case plan.KindEducation, plan.KindEntry, plan.KindRole:
			out = append(out, rowNode(b))
		case plan.KindDegree, plan.KindRoleTitle:
			out = append(out, node{kind: nodeText, text: b.Text, style: styleItalic, size: bodySize, color: black})
		case plan.KindBullet:
			out = append(out, node{kind: nodeBullet, text: b.Text, size: bodySize, color: black, top: bulletTop})
		}
	}
	return out
}

func ruleNode() node {
	return node{kind: nodeRule, color: black, top: dividerTop, bottom: dividerBottom}
}

func rowNode(b plan.Block) node {
	segs := make([]segment, len(b.Left))
	for i, r := range b.Left {
		st := styleRegular
		switch {
		case r.Bold:
			st = styleBold
		case r.Italic:
			st = styleItalic
		}
		segs[i] = segment{text: r.Text, style: st}
	}
	return node{kind: nodeRow, left: segs, right: b.Right, size: bodySize, color: black, top: rowTop}
}

// headingRGB picks the heading text color. Banded headings are drawn in
// the accent color since there is no band behind them on paper.
func headingRGB(s *skin.Skin) rgb {
	hex := s.Heading.Color
	if s.Heading.Decoration == skin.DecorationBand {
		hex = s.Accent
	}
	return hexRGB(hex)
}

// hexRGB parses a skin color, falling back to black.
func hexRGB(hex string) rgb {
	if hex == "" {
		return black
	}
	r, g, b, err := skin.ParseHex(hex)
	if err != nil {
		return black
	}
	return rgb{r, g, b}
}
