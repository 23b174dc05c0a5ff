// Package preview builds the on-screen resume layout and its tailoring
// overlay.
//
// # Overview
//
// [Build] lowers a planned resume into a [Tree]: header fields plus one
// [Section] per planned heading, each holding items in plan order. The tree
// is an in-process value consumed directly by a UI; [RenderHTML] and
// [RenderTerminal] are two such consumers.
//
// When there is no resume, the tree is empty and renderers show a neutral
// placeholder ([EmptyText]) instead of a blank page.
//
// # Tailoring
//
// A job-match [Overlay] (score badge and keyword chips) is drawn on top of
// the tree. It is never merged into the resume. [State] holds the current
// resume and overlay for a live session and exposes the transitions that
// change them.
package preview

import (
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// EmptyText is shown in place of the document when there is no resume.
const EmptyText = "Your resume will appear here as you chat."

// AdditionalTitle is the preview's label for the trailing free-form section.
const AdditionalTitle = "Additional Information"

// Tree is the preview layout for one resume.
type Tree struct {
	Empty bool `json:"empty"`

	Template string `json:"template,omitempty"`
	Font     string `json:"font,omitempty"`
	Accent   string `json:"accent,omitempty"`
	Bullet   string `json:"bullet,omitempty"`

	HeadingDecoration skin.Decoration `json:"headingDecoration,omitempty"`
	HeadingColor      string          `json:"headingColor,omitempty"`

	Name     string    `json:"name,omitempty"`
	Contacts []string  `json:"contacts,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is one headed group of items.
type Section struct {
	Kind  plan.Section `json:"kind"`
	Title string       `json:"title"`
	Items []Item       `json:"items"`
}

// Item is a line inside a section. Two-column kinds use Left and Right;
// the others use Text.
type Item struct {
	Kind  plan.Kind  `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Left  []plan.Run `json:"left,omitempty"`
	Right string     `json:"right,omitempty"`
}

// TwoColumn reports whether the item has a right-aligned column.
func (it Item) TwoColumn() bool {
	return plan.Block{Kind: it.Kind}.TwoColumn()
}

// Build lowers d into a preview tree styled by s. A nil or empty document
// yields an empty tree.
func Build(d *plan.Document, s *skin.Skin) *Tree {
	if d == nil || len(d.Blocks) == 0 {
		return &Tree{Empty: true}
	}

	t := &Tree{
		Template: s.ID,
		Font:     s.Font,
		Accent:   s.Accent,
		Bullet:   s.Bullet,

		HeadingDecoration: s.Heading.Decoration,
		HeadingColor:      s.Heading.Color,
	}
	if t.HeadingDecoration == "" {
		t.HeadingDecoration = skin.DecorationRule
	}
	if t.HeadingColor == "" {
		t.HeadingColor = "000000"
	}
	cur := -1
	for _, b := range d.Blocks {
		switch b.Kind {
		case plan.KindName:
			t.Name = b.Text
		case plan.KindContact:
			t.Contacts = append(t.Contacts, b.Text)
		case plan.KindDivider:
		case plan.KindHeading:
			title := b.Text
			if b.Section == plan.SectionAdditional {
				title = AdditionalTitle
			}
			t.Sections = append(t.Sections, Section{Kind: b.Section, Title: title})
			cur = len(t.Sections) - 1
		default:
			if cur < 0 {
				continue
			}
			t.Sections[cur].Items = append(t.Sections[cur].Items, Item{Kind: b.Kind, Text: b.Text, Left: b.Left, Right: b.Right})
		}
	}
	return t
}

// Titles returns the section titles in display order.
func (t *Tree) Titles() []string {
	out := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		out[i] = s.Title
	}
	return out
}
