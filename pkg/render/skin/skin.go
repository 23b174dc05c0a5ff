// Package skin defines template skins: pure parameter records that control
// how a planned resume looks, never what it contains.
//
// # Overview
//
// A [Skin] carries fonts, sizes, colors, the bullet glyph, the heading
// decoration and the page margin. Renderers read these values while lowering
// a plan; the planner itself never sees a skin, so two skins can only ever
// differ visually.
//
// Skins are declared in TOML. The built-in set ships as an embedded
// skins.toml and is exposed through [Default]; callers that need different
// tables build their own [Registry] with [Parse] or [LoadFile] and inject it.
//
// # Heading Decorations
//
//   - [DecorationRule]: bold caps with a thin rule beneath (classic)
//   - [DecorationBand]: caps on a solid accent band (creative)
//   - [DecorationSpaced]: letter-spaced uppercase, no rule (minimal)
package skin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/vitae/pkg/render/geometry"
)

// Decoration selects how section headings are drawn.
type Decoration string

// Heading decorations.
const (
	DecorationRule   Decoration = "rule"
	DecorationBand   Decoration = "band"
	DecorationSpaced Decoration = "spaced"
)

// DividerStyle selects what follows the contact block.
type DividerStyle string

// Divider styles.
const (
	DividerRule DividerStyle = "rule"
	DividerBar  DividerStyle = "bar"
	DividerNone DividerStyle = "none"
)

// Tier is a subscription level. Skins declare the lowest tier allowed to use them.
type Tier string

// Subscription tiers, lowest first.
const (
	TierFree   Tier = "FREE"
	TierPro    Tier = "PRO"
	TierCareer Tier = "CAREER"
)

var tierRank = map[Tier]int{TierFree: 0, TierPro: 1, TierCareer: 2}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Allows reports whether a caller at tier t may use something requiring required.
func (t Tier) Allows(required Tier) bool {
	have, ok := tierRank[t]
	if !ok {
		return false
	}
	return have >= tierRank[required]
}

// AllowsPDF reports whether t may download the print format.
func (t Tier) AllowsPDF() bool {
	return t.Allows(TierPro)
}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier: %q", s)
	}
	return t, nil
}

// Sizes are font sizes in half-points.
type Sizes struct {
	Name    geometry.HalfPoints `toml:"name"`
	Contact geometry.HalfPoints `toml:"contact"`
	Section geometry.HalfPoints `toml:"section"`
	Body    geometry.HalfPoints `toml:"body"`
}

// Heading describes section heading appearance.
type Heading struct {
	Decoration  Decoration     `toml:"decoration"`
	Color       string         `toml:"color"` // text color; empty means black
	Bold        bool           `toml:"bold"`
	Caps        bool           `toml:"caps"`
	SpaceBefore geometry.Twips `toml:"space_before"`
	SpaceAfter  geometry.Twips `toml:"space_after"`
}

// Divider describes the separator after the contact block.
type Divider struct {
	Style DividerStyle `toml:"style"`
	Color string       `toml:"color"`
}

// Skin is the complete parameter set for one template.
type Skin struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Tier        Tier   `toml:"tier"`

	Font       string `toml:"font"`
	BulletFont string `toml:"bullet_font"` // run font for the bullet glyph; defaults to Font
	PDFFont    string `toml:"pdf_font"`    // core PDF family: Times, Helvetica or Courier

	Sizes        Sizes  `toml:"sizes"`
	NameBold     bool   `toml:"name_bold"`
	ContactColor string `toml:"contact_color"`
	Accent       string `toml:"accent"`

	Bullet       string `toml:"bullet"`
	BulletAccent bool   `toml:"bullet_accent"` // draw the glyph in the accent color

	Heading         Heading `toml:"heading"`
	Divider         Divider `toml:"divider"`
	RoleTitleAccent bool    `toml:"role_title_accent"` // first role title in the accent color

	MarginIn float64 `toml:"margin"`
}

// Page returns the page geometry for this skin.
func (s *Skin) Page() geometry.Page {
	return geometry.Letter(s.MarginIn)
}

// Fingerprint returns a stable digest of every parameter of s. Two skins
// sharing an ID but differing in any value have different fingerprints.
func (s *Skin) Fingerprint() string {
	data, _ := json.Marshal(s)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BulletRunFont returns the font used for the bullet glyph.
func (s *Skin) BulletRunFont() string {
	if s.BulletFont != "" {
		return s.BulletFont
	}
	return s.Font
}

// BulletColor returns the glyph color, or "" for the body color.
func (s *Skin) BulletColor() string {
	if s.BulletAccent {
		return s.Accent
	}
	return ""
}

// HeadingText returns the heading label as drawn by this skin.
// Case is left to the renderer unless the decoration implies it.
func (s *Skin) HeadingText(title string) string {
	switch s.Heading.Decoration {
	case DecorationSpaced:
		return Spaced(title)
	case DecorationBand:
		return "  " + title + "  "
	default:
		return title
	}
}

// Spaced upper-cases text and puts a space between every character.
func Spaced(text string) string {
	upper := []rune(strings.ToUpper(text))
	var b strings.Builder
	for i, r := range upper {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate checks that every parameter is usable by the renderers.
func (s *Skin) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skin id is required")
	}
	if s.Font == "" {
		return fmt.Errorf("skin %s: font is required", s.ID)
	}
	if !s.Tier.Valid() {
		return fmt.Errorf("skin %s: invalid tier %q", s.ID, s.Tier)
	}
	if s.Sizes.Name <= 0 || s.Sizes.Contact <= 0 || s.Sizes.Section <= 0 || s.Sizes.Body <= 0 {
		return fmt.Errorf("skin %s: all sizes must be positive", s.ID)
	}
	if utf8.RuneCountInString(s.Bullet) != 1 {
		return fmt.Errorf("skin %s: bullet must be a single character, got %q", s.ID, s.Bullet)
	}
	switch s.Heading.Decoration {
	case DecorationRule, DecorationBand, DecorationSpaced:
	default:
		return fmt.Errorf("skin %s: unknown heading decoration %q", s.ID, s.Heading.Decoration)
	}
	switch s.Divider.Style {
	case DividerRule, DividerBar, DividerNone:
	default:
		return fmt.Errorf("skin %s: unknown divider style %q", s.ID, s.Divider.Style)
	}
	switch s.PDFFont {
	case "Times", "Helvetica", "Courier":
	default:
		return fmt.Errorf("skin %s: pdf_font must be Times, Helvetica or Courier", s.ID)
	}
	for field, c := range map[string]string{
		"accent":        s.Accent,
		"contact_color": s.ContactColor,
		"heading.color": s.Heading.Color,
		"divider.color": s.Divider.Color,
	} {
		if c == "" {
			continue
		}
		if _, _, _, err := ParseHex(c); err != nil {
			return fmt.Errorf("skin %s: %s: %w", s.ID, field, err)
		}
	}
	if s.MarginIn < 0 || s.MarginIn >= geometry.LetterWidthIn/2 {
		return fmt.Errorf("skin %s: margin %.2fin out of range", s.ID, s.MarginIn)
	}
	return nil
}

// ParseHex parses an "RRGGBB" color.
func ParseHex(hex string) (r, g, b int, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
