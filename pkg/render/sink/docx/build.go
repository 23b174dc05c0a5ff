package docx

import (
	"strings"

	"github.com/matzehuels/vitae/pkg/render/geometry"
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// bulletNumID is the single numbering instance every bullet paragraph uses.
const bulletNumID = 1

// Paragraph spacing in twips.
const (
	spaceRuleAfter  geometry.Twips = 40
	spaceHeader     geometry.Twips = 40 // education and entry header lines
	spaceLaterRole  geometry.Twips = 20
	spaceBarBefore  geometry.Twips = 60
	barRunSize                     = 4 // half-points
	ruleBorderSize                 = 1
	ruleBorderSpace                = 1
)

type builder struct {
	skin *skin.Skin
	page geometry.Page
	out  []wParagraph
}

func newBuilder(s *skin.Skin) *builder {
	return &builder{skin: s, page: s.Page()}
}

func (b *builder) add(p wParagraph) {
	b.out = append(b.out, p)
}

// lower converts every planned block into one or more paragraphs.
func (b *builder) lower(d *plan.Document) []wParagraph {
	for _, blk := range d.Blocks {
		switch blk.Kind {
		case plan.KindName:
			b.name(blk.Text)
		case plan.KindContact:
			b.contact(blk.Text)
		case plan.KindDivider:
			b.divider()
		case plan.KindHeading:
			b.heading(blk.Text)
		case plan.KindEducation, plan.KindEntry:
			b.twoColumn(blk, spaceHeader)
		case plan.KindRole:
			b.twoColumn(blk, spaceLaterRole)
		case plan.KindDegree:
			b.add(b.line(b.run(blk.Text, runStyle{italic: true})))
		case plan.KindRoleTitle:
			st := runStyle{italic: true}
			if b.skin.RoleTitleAccent {
				st.color = b.skin.Accent
			}
			b.add(b.line(b.run(blk.Text, st)))
		case plan.KindBullet:
			b.bullet(blk.Text)
		}
	}
	return b.out
}

// ====================================================================
// Runs
// ====================================================================

type runStyle struct {
	size   geometry.HalfPoints
	bold   bool
	italic bool
	caps   bool
	color  string
	font   string
}

func (b *builder) run(text string, st runStyle) wRun {
	r := wRun{Props: b.runProps(st)}
	if text != "" {
		r.Text = newText(text)
	}
	return r
}

func (b *builder) runProps(st runStyle) *wRPr {
	if st.size == 0 {
		st.size = b.skin.Sizes.Body
	}
	if st.font == "" {
		st.font = b.skin.Font
	}
	p := &wRPr{
		Fonts:  fonts(st.font),
		Size:   &wInt{Val: int(st.size)},
		SizeCs: &wInt{Val: int(st.size)},
	}
	if st.bold {
		p.Bold = &wEmpty{}
	}
	if st.italic {
		p.Italic = &wEmpty{}
	}
	if st.caps {
		p.Caps = &wEmpty{}
	}
	if st.color != "" {
		p.Color = &wVal{Val: strings.ToUpper(st.color)}
	}
	return p
}

func fonts(name string) *wFonts {
	return &wFonts{ASCII: name, HAnsi: name, CS: name, EastAsia: name}
}

func newText(s string) *wText {
	t := &wText{Value: s}
	if strings.TrimSpace(s) != s {
		t.Space = "preserve"
	}
	return t
}

// ====================================================================
// Paragraphs
// ====================================================================

func spacing(before, after geometry.Twips) *wSpacing {
	return &wSpacing{Before: before, After: after}
}

// line is a plain paragraph with zero spacing.
func (b *builder) line(runs ...wRun) wParagraph {
	return wParagraph{Props: &wPPr{Spacing: spacing(0, 0)}, Runs: runs}
}

func (b *builder) centered(text string, st runStyle) {
	b.add(wParagraph{
		Props: &wPPr{Spacing: spacing(0, 0), Justify: &wVal{Val: "center"}},
		Runs:  []wRun{b.run(text, st)},
	})
}

func (b *builder) name(text string) {
	b.centered(text, runStyle{size: b.skin.Sizes.Name, bold: b.skin.NameBold})
}

func (b *builder) contact(text string) {
	b.centered(text, runStyle{size: b.skin.Sizes.Contact, color: b.skin.ContactColor})
}

func (b *builder) rule(color string) {
	if color == "" {
		color = "000000"
	}
	b.add(wParagraph{Props: &wPPr{
		Border: &wPBdr{Bottom: &wBorder{
			Val:   "single",
			Size:  ruleBorderSize,
			Space: ruleBorderSpace,
			Color: strings.ToUpper(color),
		}},
		Spacing: spacing(0, spaceRuleAfter),
	}})
}

func solid(color string) *wShd {
	c := strings.ToUpper(color)
	return &wShd{Val: "solid", Color: c, Fill: c}
}

func (b *builder) divider() {
	d := b.skin.Divider
	switch d.Style {
	case skin.DividerRule:
		b.rule(d.Color)
	case skin.DividerBar:
		b.add(wParagraph{
			Props: &wPPr{Shading: solid(d.Color), Spacing: spacing(spaceBarBefore, 0)},
			Runs:  []wRun{b.run(" ", runStyle{size: barRunSize})},
		})
	}
}

func (b *builder) heading(title string) {
	h := b.skin.Heading
	st := runStyle{
		size:  b.skin.Sizes.Section,
		bold:  h.Bold,
		caps:  h.Caps && h.Decoration != skin.DecorationSpaced,
		color: h.Color,
	}
	props := &wPPr{Spacing: spacing(h.SpaceBefore, h.SpaceAfter)}
	if h.Decoration == skin.DecorationBand {
		props.Shading = solid(b.skin.Accent)
	}
	b.add(wParagraph{Props: props, Runs: []wRun{b.run(b.skin.HeadingText(title), st)}})

	if h.Decoration == skin.DecorationRule {
		b.rule(b.skin.Accent)
	}
}

// twoColumn writes left runs, a tab and the right text against a single
// right-aligned tab stop at the content width.
func (b *builder) twoColumn(blk plan.Block, before geometry.Twips) {
	runs := make([]wRun, 0, len(blk.Left)+1)
	for _, l := range blk.Left {
		runs = append(runs, b.run(l.Text, runStyle{bold: l.Bold, italic: l.Italic}))
	}
	right := wRun{Props: b.runProps(runStyle{}), Tab: &wEmpty{}}
	if blk.Right != "" {
		right.Text = newText(blk.Right)
	}
	runs = append(runs, right)

	b.add(wParagraph{
		Props: &wPPr{
			Tabs:    &wTabs{Tabs: []wTab{{Val: "right", Pos: b.page.RightTab()}}},
			Spacing: spacing(before, 0),
		},
		Runs: runs,
	})
}

func (b *builder) bullet(text string) {
	b.add(wParagraph{
		Props: &wPPr{
			Numbering: &wNumPr{Level: wInt{Val: 0}, NumID: wInt{Val: bulletNumID}},
			Spacing:   spacing(0, 0),
		},
		Runs: []wRun{b.run(text, runStyle{})},
	})
}

// ====================================================================
// Document-level parts
// ====================================================================

func (b *builder) document(paragraphs []wParagraph) wDocument {
	m := b.page.Margin
	return wDocument{
		NSW: nsW,
		NSR: nsR,
		Body: wBody{
			Paragraphs: paragraphs,
			Section: wSectPr{
				PageSize:   wPgSz{W: b.page.Width, H: b.page.Height},
				PageMargin: wPgMar{Top: m, Right: m, Bottom: m, Left: m},
			},
		},
	}
}

func (b *builder) styles() wStyles {
	return wStyles{
		NSW: nsW,
		Defaults: wDocDefault{
			Run: wRPrDefault{Props: wRPr{
				Fonts:  fonts(b.skin.Font),
				Size:   &wInt{Val: int(b.skin.Sizes.Body)},
				SizeCs: &wInt{Val: int(b.skin.Sizes.Body)},
			}},
			Paragraph: wPPrDefault{Props: wPPr{Spacing: spacing(0, 0)}},
		},
		Styles: []wStyle{{
			Type:    "paragraph",
			Default: 1,
			ID:      "Normal",
			Name:    wVal{Val: "Normal"},
			QFormat: &wEmpty{},
		}},
	}
}

// numbering declares the one bullet definition shared by the document.
func (b *builder) numbering() wNumbering {
	ind := geometry.BulletIndent()
	rpr := *b.runProps(runStyle{font: b.skin.BulletRunFont(), color: b.skin.BulletColor()})
	return wNumbering{
		NSW: nsW,
		Abstract: []wAbstractNum{{
			ID:        0,
			MultiType: wVal{Val: "singleLevel"},
			Levels: []wLvl{{
				Level:   0,
				Start:   wInt{Val: 1},
				Format:  wVal{Val: "bullet"},
				Text:    wVal{Val: b.skin.Bullet},
				Justify: wVal{Val: "left"},
				PPr:     wPPr{Indent: &wInd{Left: ind.Left, Hanging: ind.Hanging}},
				RPr:     rpr,
			}},
		}},
		Nums: []wNum{{ID: bulletNumID, Abstract: wInt{Val: 0}}},
	}
}
