// Package plan walks a resume and decides which blocks to emit, in which
// order, and which sections to suppress.
//
// # Overview
//
// The planner is the only place that knows resume structure. It produces a
// [Document]: a flat, ordered list of semantic [Block] values (name, contact
// lines, divider, headings, two-column lines, text lines, bullets). Every
// renderer lowers the same Document with its own primitives, so ordering,
// suppression and role grouping cannot drift between targets.
//
// The planner never sees a skin. Skins only change how a block looks.
//
// # Order
//
//	Name → Contact(s) → Divider
//	→ Education (if any)
//	→ each experience section with entries, in data order
//	→ Additional (if any)
//
// # Role Grouping
//
// For each experience entry the first role is merged into the company
// header ([KindEntry]: company, note and location on the left, the first
// role's date on the right) and followed by a title-only [KindRoleTitle]
// line. Every later role becomes a [KindRole] two-column line (title left,
// date right). Each role's bullets follow it in original order.
package plan

import (
	"strings"

	"github.com/matzehuels/vitae/pkg/resume"
)

// Kind identifies what a block represents.
type Kind string

// Block kinds.
const (
	KindName      Kind = "name"
	KindContact   Kind = "contact"
	KindDivider   Kind = "divider"
	KindHeading   Kind = "heading"
	KindEducation Kind = "education"  // two-column: institution, location | date
	KindDegree    Kind = "degree"     // degree line with optional GPA
	KindEntry     Kind = "entry"      // two-column: company (note), location | first role date
	KindRoleTitle Kind = "role_title" // title of the first role, on its own line
	KindRole      Kind = "role"       // two-column: title | date, for every later role
	KindBullet    Kind = "bullet"
)

// Section identifies which resume section a block belongs to.
type Section string

// Sections, in the order they are planned.
const (
	SectionNone       Section = ""
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionAdditional Section = "additional"
)

// Heading titles for the fixed sections.
const (
	EducationTitle  = "Education"
	AdditionalTitle = "Additional"
)

// Run is a styled fragment of a two-column line's left side.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Block is one semantic layout unit.
type Block struct {
	Kind    Kind    `json:"kind"`
	Section Section `json:"section,omitempty"`

	// Text holds the content of single-column blocks and headings.
	Text string `json:"text,omitempty"`

	// Left and Right hold the two columns of education, entry and role lines.
	Left  []Run  `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// TwoColumn reports whether the block is laid out as left runs plus a
// right-aligned column.
func (b Block) TwoColumn() bool {
	switch b.Kind {
	case KindEducation, KindEntry, KindRole:
		return true
	}
	return false
}

// LeftText concatenates the left runs.
func (b Block) LeftText() string {
	var sb strings.Builder
	for _, r := range b.Left {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Document is the ordered block list for one resume.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Count returns the number of blocks of kind k.
func (d *Document) Count(k Kind) int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == k {
			n++
		}
	}
	return n
}

// Headings returns the heading titles in order.
func (d *Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

// Sections returns the section of each heading in order.
func (d *Document) Sections() []Section {
	var out []Section
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			out = append(out, b.Section)
		}
	}
	return out
}

// Plan lowers a resume into its block list. It never fails: nil lists are
// treated as empty, and r is only read.
func Plan(r *resume.Resume) *Document {
	p := planner{}
	if r == nil {
		return &Document{}
	}

	p.header(r)
	p.education(r.Education)
	for _, s := range r.ExperienceSections {
		p.experience(s)
	}
	p.additional(r.AdditionalInfo)

	return &Document{Blocks: p.blocks}
}

type planner struct {
	blocks []Block
}

func (p *planner) emit(b Block) {
	p.blocks = append(p.blocks, b)
}

func (p *planner) header(r *resume.Resume) {
	p.emit(Block{Kind: KindName, Text: r.Name})
	if r.ContactLine1 != "" {
		p.emit(Block{Kind: KindContact, Text: r.ContactLine1})
	}
	if r.ContactLine2 != "" {
		p.emit(Block{Kind: KindContact, Text: r.ContactLine2})
	}
	p.emit(Block{Kind: KindDivider})
}

func (p *planner) heading(sec Section, title string) {
	p.emit(Block{Kind: KindHeading, Section: sec, Text: title})
}

func (p *planner) bullets(sec Section, items []string) {
	for _, it := range items {
		p.emit(Block{Kind: KindBullet, Section: sec, Text: it})
	}
}

func (p *planner) education(list []resume.Education) {
	if len(list) == 0 {
		return
	}
	p.heading(SectionEducation, EducationTitle)
	for _, e := range list {
		p.emit(Block{
			Kind:    KindEducation,
			Section: SectionEducation,
			Left:    placeRuns(e.Institution, "", e.Location),
			Right:   e.Date,
		})
		p.emit(Block{Kind: KindDegree, Section: SectionEducation, Text: e.DegreeLine()})
		p.bullets(SectionEducation, e.Details)
	}
}

func (p *planner) experience(s resume.ExperienceSection) {
	if len(s.Entries) == 0 {
		return
	}
	p.heading(SectionExperience, s.Heading)
	for _, entry := range s.Entries {
		p.entry(entry)
	}
}

func (p *planner) entry(e resume.ExperienceEntry) {
	left := placeRuns(e.Company, e.CompanyNote, e.Location)
	if len(e.Roles) == 0 {
		p.emit(Block{Kind: KindEntry, Section: SectionExperience, Left: left})
		return
	}

	for i, role := range e.Roles {
		if i == 0 {
			p.emit(Block{Kind: KindEntry, Section: SectionExperience, Left: left, Right: role.Date})
			p.emit(Block{Kind: KindRoleTitle, Section: SectionExperience, Text: role.Title})
		} else {
			p.emit(Block{
				Kind:    KindRole,
				Section: SectionExperience,
				Left:    []Run{{Text: role.Title, Italic: true}},
				Right:   role.Date,
			})
		}
		p.bullets(SectionExperience, role.Bullets)
	}
}

func (p *planner) additional(items []string) {
	if len(items) == 0 {
		return
	}
	p.heading(SectionAdditional, AdditionalTitle)
	p.bullets(SectionAdditional, items)
}

// placeRuns builds "<bold name> (note), location".
func placeRuns(name, note, location string) []Run {
	runs := []Run{{Text: name, Bold: true}}
	if note != "" {
		runs = append(runs, Run{Text: " (" + note + ")"})
	}
	runs = append(runs, Run{Text: ", " + location})
	return runs
}
