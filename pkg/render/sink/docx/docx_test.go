package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
	"github.com/matzehuels/vitae/pkg/resume"
)

func sample() *resume.Resume {
	return &resume.Resume{
		Name:         "John Smith",
		ContactLine1: "john@test.com | 555-0000",
		ContactLine2: "linkedin.com/in/jsmith",
		Education: []resume.Education{{
			Institution: "MIT",
			Location:    "Cambridge, MA",
			Degree:      "B.S. Computer Science",
			Date:        "May 2024",
			GPA:         "3.9",
			Details:     []string{"Dean's List"},
		}},
		ExperienceSections: []resume.ExperienceSection{{
			Heading: "Experience",
			Entries: []resume.ExperienceEntry{{
				Company:     "BigCo",
				CompanyNote: "acquired by MegaCo",
				Location:    "New York, NY",
				Roles: []resume.Role{
					{Title: "Senior Engineer", Date: "Jan 2024 - Present", Bullets: []string{"Led architecture redesign"}},
					{Title: "Engineer", Date: "Jun 2022 - Dec 2023", Bullets: []string{"Built core API"}},
				},
			}},
		}},
		AdditionalInfo: []string{"Languages: Go, Python"},
	}
}

func render(t *testing.T, r *resume.Resume, id string, opts ...Option) []byte {
	t.Helper()
	s, err := skin.Default().Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", id, err)
	}
	out, err := Render(plan.Plan(r), s, opts...)
	if err != nil {
		t.Fatalf("Render(%s): %v", id, err)
	}
	return out
}

func readPart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

// countElements counts elements with the given local name.
func countElements(t *testing.T, doc, local string) int {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	n := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return n
		}
		if err != nil {
			t.Fatalf("parse xml: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == local {
			n++
		}
	}
}

func TestHeaderInvariant(t *testing.T) {
	inputs := map[string]*resume.Resume{
		"full":    sample(),
		"minimal": {Name: "Jane Doe", ContactLine1: "jane@example.com"},
		"nil lists": {
			Name: "Jane Doe",
		},
	}

	for _, id := range skin.Default().IDs() {
		for name, r := range inputs {
			t.Run(id+"/"+name, func(t *testing.T) {
				out := render(t, r, id)
				if len(out) < 4 {
					t.Fatalf("output too short: %d bytes", len(out))
				}
				if !bytes.Equal(out[:4], []byte{0x50, 0x4B, 0x03, 0x04}) {
					t.Errorf("header = % x, want 50 4b 03 04", out[:4])
				}
			})
		}
	}
}

func TestPackageParts(t *testing.T) {
	out := render(t, sample(), "classic")
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}

	want := []string{
		partContentTypes, partRootRels, partDocument, partDocumentRels,
		partStyles, partNumbering, partCore, partApp,
	}
	if len(zr.File) != len(want) {
		t.Fatalf("parts = %d, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("part[%d] = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestTabStopAtContentWidth(t *testing.T) {
	tests := []struct {
		id  string
		pos string
	}{
		{"classic", `w:pos="10800"`},
		{"minimal", `w:pos="10512"`},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc := readPart(t, render(t, sample(), tt.id), partDocument)
			// education line, entry header, one later role
			if got := strings.Count(doc, tt.pos); got != 3 {
				t.Errorf("tab stops at %s = %d, want 3", tt.pos, got)
			}
			if got := countElements(t, doc, "tabs"); got != 3 {
				t.Errorf("tab stop sets = %d, want 3", got)
			}
		})
	}
}

func TestPageGeometry(t *testing.T) {
	doc := readPart(t, render(t, sample(), "minimal"), partDocument)
	for _, want := range []string{
		`w:w="12240"`, `w:h="15840"`,
		`w:top="864"`, `w:left="864"`, `w:header="0"`, `w:footer="0"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func TestSingleBulletDefinition(t *testing.T) {
	for _, id := range skin.Default().IDs() {
		t.Run(id, func(t *testing.T) {
			s, _ := skin.Default().Lookup(id)
			out := render(t, sample(), id)
			num := readPart(t, out, partNumbering)

			if got := countElements(t, num, "abstractNum"); got != 1 {
				t.Errorf("abstractNum = %d, want 1", got)
			}
			if got := countElements(t, num, "num"); got != 1 {
				t.Errorf("num = %d, want 1", got)
			}
			if !strings.Contains(num, `w:val="`+s.Bullet+`"`) {
				t.Errorf("numbering missing glyph %q", s.Bullet)
			}
			if !strings.Contains(num, `w:left="360"`) || !strings.Contains(num, `w:hanging="216"`) {
				t.Error("numbering missing hanging indent 360/216")
			}

			doc := readPart(t, out, partDocument)
			// Dean's List, two role bullets, one additional item
			if got := countElements(t, doc, "numPr"); got != 4 {
				t.Errorf("bullet paragraphs = %d, want 4", got)
			}
		})
	}
}

func TestBulletRunFont(t *testing.T) {
	num := readPart(t, render(t, sample(), "minimal"), partNumbering)
	if !strings.Contains(num, `w:ascii="Arial"`) {
		t.Error("minimal bullets should use Arial")
	}
	num = readPart(t, render(t, sample(), "creative"), partNumbering)
	if !strings.Contains(num, `w:val="059669"`) {
		t.Error("creative bullets should use the accent color")
	}
}

func TestContent(t *testing.T) {
	doc := readPart(t, render(t, sample(), "classic"), partDocument)

	for _, want := range []string{
		"John Smith",
		"B.S. Computer Science; GPA: 3.9",
		" (acquired by MegaCo)",
		", New York, NY",
		"Jan 2024 - Present",
		"Engineer",
		"Languages: Go, Python",
		"Additional",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	if strings.Index(doc, "Education") > strings.Index(doc, "Experience") {
		t.Error("Education should precede Experience")
	}
}

func TestSuppressedSections(t *testing.T) {
	r := &resume.Resume{Name: "Jane Doe", ContactLine1: "jane@example.com"}
	for _, id := range skin.Default().IDs() {
		t.Run(id, func(t *testing.T) {
			doc := readPart(t, render(t, r, id), partDocument)
			for _, title := range []string{"Education", "E D U C A T I O N", "Additional", "A D D I T I O N A L"} {
				if strings.Contains(doc, title) {
					t.Errorf("document.xml contains %q for an empty resume", title)
				}
			}
			if got := countElements(t, doc, "numPr"); got != 0 {
				t.Errorf("bullets = %d, want 0", got)
			}
		})
	}
}

func TestHeadingDecorations(t *testing.T) {
	tests := []struct {
		id      string
		want    []string
		notWant []string
	}{
		{"classic", []string{"<w:caps>", `w:val="single"`}, []string{`w:val="solid"`}},
		{"creative", []string{`w:fill="059669"`, "  Education  ", `w:val="FFFFFF"`}, []string{`w:val="single"`}},
		{"minimal", []string{"E D U C A T I O N", `w:val="555555"`}, []string{`w:val="single"`, `w:val="solid"`, "<w:caps>"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc := readPart(t, render(t, sample(), tt.id), partDocument)
			for _, s := range tt.want {
				if !strings.Contains(doc, s) {
					t.Errorf("missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(doc, s) {
					t.Errorf("unexpected %q", s)
				}
			}
		})
	}
}

func TestDeterministicStructure(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-7d0b-4a9e-9a51-2b3c4d5e6f70")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	a := render(t, sample(), "modern", WithIdentifier(id), WithModified(at))
	b := render(t, sample(), "modern", WithIdentifier(id), WithModified(at))
	if !bytes.Equal(a, b) {
		t.Error("renders with fixed metadata should be byte-identical")
	}

	c := render(t, sample(), "modern")
	if readPart(t, a, partDocument) != readPart(t, c, partDocument) {
		t.Error("document.xml should not depend on package metadata")
	}
}

func TestCoreProperties(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-7d0b-4a9e-9a51-2b3c4d5e6f70")
	out := render(t, sample(), "classic",
		WithTitle("John Smith"), WithCreator("vitae"), WithIdentifier(id),
		WithModified(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))

	core := readPart(t, out, partCore)
	for _, want := range []string{
		"<dc:title>John Smith</dc:title>",
		"urn:uuid:6f1c2a4e-7d0b-4a9e-9a51-2b3c4d5e6f70",
		"2025-01-02T03:04:05Z",
	} {
		if !strings.Contains(core, want) {
			t.Errorf("core.xml missing %q", want)
		}
	}
}

func TestEscaping(t *testing.T) {
	r := &resume.Resume{Name: "A & B <Consulting>", AdditionalInfo: []string{`"quoted" & <tagged>`}}
	doc := readPart(t, render(t, r, "classic"), partDocument)
	if strings.Contains(doc, "<Consulting>") {
		t.Error("text must be escaped")
	}
	if got := countElements(t, doc, "p"); got == 0 {
		t.Error("document should parse and contain paragraphs")
	}
}
