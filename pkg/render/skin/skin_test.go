package skin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/vitae/pkg/errors"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	want := []string{"classic", "modern", "creative", "minimal"}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuiltinParameters(t *testing.T) {
	tests := []struct {
		id         string
		font       string
		nameSize   int
		bullet     string
		decoration Decoration
		divider    DividerStyle
		tier       Tier
		content    int
	}{
		{"classic", "Times New Roman", 28, "•", DecorationRule, DividerRule, TierFree, 10800},
		{"modern", "Calibri", 30, "▪", DecorationRule, DividerRule, TierPro, 10800},
		{"creative", "Georgia", 32, "▸", DecorationBand, DividerBar, TierPro, 10800},
		{"minimal", "Helvetica Neue", 30, "–", DecorationSpaced, DividerNone, TierPro, 10512},
	}

	reg := Default()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := reg.Lookup(tt.id)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if s.Font != tt.font {
				t.Errorf("Font = %q, want %q", s.Font, tt.font)
			}
			if int(s.Sizes.Name) != tt.nameSize {
				t.Errorf("Sizes.Name = %d, want %d", s.Sizes.Name, tt.nameSize)
			}
			if s.Sizes.Body != 20 {
				t.Errorf("Sizes.Body = %d, want 20", s.Sizes.Body)
			}
			if s.Bullet != tt.bullet {
				t.Errorf("Bullet = %q, want %q", s.Bullet, tt.bullet)
			}
			if s.Heading.Decoration != tt.decoration {
				t.Errorf("Decoration = %q, want %q", s.Heading.Decoration, tt.decoration)
			}
			if s.Divider.Style != tt.divider {
				t.Errorf("Divider = %q, want %q", s.Divider.Style, tt.divider)
			}
			if s.Tier != tt.tier {
				t.Errorf("Tier = %q, want %q", s.Tier, tt.tier)
			}
			if got := int(s.Page().ContentWidth()); got != tt.content {
				t.Errorf("ContentWidth = %d, want %d", got, tt.content)
			}
		})
	}
}

func TestMinimalBulletFont(t *testing.T) {
	s, _ := Default().Lookup("minimal")
	if s.BulletRunFont() != "Arial" {
		t.Errorf("BulletRunFont() = %q, want Arial", s.BulletRunFont())
	}
	c, _ := Default().Lookup("classic")
	if c.BulletRunFont() != "Times New Roman" {
		t.Errorf("classic BulletRunFont() = %q", c.BulletRunFont())
	}
	if c.BulletColor() != "" {
		t.Errorf("classic BulletColor() = %q, want empty", c.BulletColor())
	}
	m, _ := Default().Lookup("modern")
	if m.BulletColor() != "2563EB" {
		t.Errorf("modern BulletColor() = %q", m.BulletColor())
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("fancy")
	if !errors.Is(err, errors.ErrCodeUnknownTemplate) {
		t.Errorf("Lookup(fancy) error = %v, want UNKNOWN_TEMPLATE", err)
	}
}

func TestTierAllows(t *testing.T) {
	tests := []struct {
		have, need Tier
		want       bool
	}{
		{TierFree, TierFree, true},
		{TierFree, TierPro, false},
		{TierPro, TierFree, true},
		{TierPro, TierPro, true},
		{TierCareer, TierPro, true},
		{Tier("GOLD"), TierFree, false},
	}
	for _, tt := range tests {
		if got := tt.have.Allows(tt.need); got != tt.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
	for tier, want := range map[Tier]bool{TierFree: false, TierPro: true, TierCareer: true} {
		if got := tier.AllowsPDF(); got != want {
			t.Errorf("%s.AllowsPDF() = %v, want %v", tier, got, want)
		}
	}
}

func TestParseTier(t *testing.T) {
	if tier, err := ParseTier(" pro "); err != nil || tier != TierPro {
		t.Errorf("ParseTier(pro) = %q, %v", tier, err)
	}
	if _, err := ParseTier("enterprise"); err == nil {
		t.Error("ParseTier(enterprise) should fail")
	}
}

func TestHeadingText(t *testing.T) {
	reg := Default()
	tests := []struct {
		id, title, want string
	}{
		{"classic", "Education", "Education"},
		{"creative", "Education", "  Education  "},
		{"minimal", "Education", "E D U C A T I O N"},
	}
	for _, tt := range tests {
		s, _ := reg.Lookup(tt.id)
		if got := s.HeadingText(tt.title); got != tt.want {
			t.Errorf("%s.HeadingText(%q) = %q, want %q", tt.id, tt.title, got, tt.want)
		}
	}
}

func TestSpaced(t *testing.T) {
	if got := Spaced("ab c"); got != "A B   C" {
		t.Errorf("Spaced = %q", got)
	}
	if got := Spaced(""); got != "" {
		t.Errorf("Spaced(\"\") = %q", got)
	}
}

func TestParseHex(t *testing.T) {
	r, g, b, err := ParseHex("2563EB")
	if err != nil || r != 0x25 || g != 0x63 || b != 0xEB {
		t.Errorf("ParseHex = %d %d %d %v", r, g, b, err)
	}
	if _, _, _, err := ParseHex("#fff"); err == nil {
		t.Error("short hex should fail")
	}
	if _, _, _, err := ParseHex("zzzzzz"); err == nil {
		t.Error("non-hex should fail")
	}
}

func TestValidateRejects(t *testing.T) {
	base, _ := Default().Lookup("classic")

	tests := []struct {
		name   string
		mutate func(*Skin)
	}{
		{"no id", func(s *Skin) { s.ID = "" }},
		{"no font", func(s *Skin) { s.Font = "" }},
		{"bad tier", func(s *Skin) { s.Tier = "GOLD" }},
		{"zero size", func(s *Skin) { s.Sizes.Body = 0 }},
		{"long bullet", func(s *Skin) { s.Bullet = "->" }},
		{"bad decoration", func(s *Skin) { s.Heading.Decoration = "wavy" }},
		{"bad divider", func(s *Skin) { s.Divider.Style = "dots" }},
		{"bad pdf font", func(s *Skin) { s.PDFFont = "Comic Sans" }},
		{"bad accent", func(s *Skin) { s.Accent = "blue" }},
		{"huge margin", func(s *Skin) { s.MarginIn = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *base
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestNewRegistryDuplicate(t *testing.T) {
	s, _ := Default().Lookup("classic")
	if _, err := NewRegistry(*s, *s); err == nil {
		t.Error("duplicate ids should fail")
	}
	if _, err := NewRegistry(); err == nil {
		t.Error("empty registry should fail")
	}
}

func TestLoadFile(t *testing.T) {
	doc := `
[[skins]]
id = "mono"
tier = "FREE"
font = "Courier New"
pdf_font = "Courier"
bullet = "*"
  [skins.sizes]
  name = 24
  contact = 20
  section = 22
  body = 20
  [skins.heading]
  decoration = "rule"
  [skins.divider]
  style = "rule"
`
	path := filepath.Join(t.TempDir(), "skins.toml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	s, err := reg.Lookup("mono")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Page().Margin != 720 {
		t.Errorf("default margin = %d, want 720", s.Page().Margin)
	}
	if len(reg.List()) != 1 {
		t.Errorf("List() = %d skins, want 1", len(reg.List()))
	}
}

func TestFingerprint(t *testing.T) {
	classic, err := Default().Lookup("classic")
	if err != nil {
		t.Fatal(err)
	}
	copied := *classic
	if classic.Fingerprint() != copied.Fingerprint() {
		t.Error("equal skins should share a fingerprint")
	}
	if len(classic.Fingerprint()) != 64 {
		t.Errorf("len(Fingerprint) = %d, want 64", len(classic.Fingerprint()))
	}

	changes := map[string]func(*Skin){
		"font":       func(s *Skin) { s.Font = "Courier New" },
		"accent":     func(s *Skin) { s.Accent = "FF0000" },
		"margin":     func(s *Skin) { s.MarginIn = 1 },
		"decoration": func(s *Skin) { s.Heading.Decoration = DecorationBand },
	}
	for name, change := range changes {
		s := *classic
		change(&s)
		if s.Fingerprint() == classic.Fingerprint() {
			t.Errorf("%s change kept the fingerprint", name)
		}
	}
}
