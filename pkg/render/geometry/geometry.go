// Package geometry holds the page arithmetic shared by every renderer.
//
// # Units
//
// The word-processor target measures in twips (1/20 of a point, 1440 per
// inch); font sizes are half-points. The print target measures in points
// (72 per inch). All conversions go through this package so both targets
// agree on page size, margins, and content width.
//
// # Two-Column Lines
//
// Left-aligned runs and a right-aligned date share one paragraph: the left
// content is followed by a single tab character and the paragraph declares
// one right-aligned tab stop at exactly the content width ([Page.RightTab]).
// This replaces table layout and lines up every date on the right margin.
//
// # Bullets
//
// Every bullet paragraph uses the same hanging indent ([BulletIndent]),
// regardless of where it appears. Bullets are always level 0.
package geometry

import "math"

// Twips is a length in 1/20 of a point.
type Twips int

// HalfPoints is a font size in 1/2 of a point.
type HalfPoints int

// Unit ratios.
const (
	TwipsPerInch  = 1440
	TwipsPerPoint = 20
	PointsPerInch = 72
)

// US Letter in inches.
const (
	LetterWidthIn  = 8.5
	LetterHeightIn = 11.0
)

// DefaultMarginIn is the page margin used when a skin does not override it.
const DefaultMarginIn = 0.5

// Bullet indentation in inches.
const (
	BulletLeftIn    = 0.25
	BulletHangingIn = 0.15
)

// InchesToTwips converts inches to twips, rounding to the nearest twip.
func InchesToTwips(in float64) Twips {
	return Twips(math.Round(in * TwipsPerInch))
}

// PointsToTwips converts points to twips.
func PointsToTwips(pt float64) Twips {
	return Twips(math.Round(pt * TwipsPerPoint))
}

// InchesToPoints converts inches to points.
func InchesToPoints(in float64) float64 {
	return in * PointsPerInch
}

// Points returns the length in points.
func (t Twips) Points() float64 {
	return float64(t) / TwipsPerPoint
}

// Inches returns the length in inches.
func (t Twips) Inches() float64 {
	return float64(t) / TwipsPerInch
}

// Points returns the font size in points.
func (h HalfPoints) Points() float64 {
	return float64(h) / 2
}

// Page is a page size with uniform margins.
type Page struct {
	Width  Twips
	Height Twips
	Margin Twips
}

// Letter returns a US Letter page with the given margin in inches.
// A non-positive margin selects [DefaultMarginIn].
func Letter(marginIn float64) Page {
	if marginIn <= 0 {
		marginIn = DefaultMarginIn
	}
	return Page{
		Width:  InchesToTwips(LetterWidthIn),
		Height: InchesToTwips(LetterHeightIn),
		Margin: InchesToTwips(marginIn),
	}
}

// ContentWidth is the usable width between the left and right margins.
func (p Page) ContentWidth() Twips {
	return p.Width - 2*p.Margin
}

// RightTab is the position of the right-aligned tab stop used by
// two-column lines. It sits exactly at the content width.
func (p Page) RightTab() Twips {
	return p.ContentWidth()
}

// Indent is a paragraph indentation.
type Indent struct {
	Left    Twips
	Hanging Twips
}

// BulletIndent returns the hanging indent applied to every bullet line.
func BulletIndent() Indent {
	return Indent{
		Left:    InchesToTwips(BulletLeftIn),
		Hanging: InchesToTwips(BulletHangingIn),
	}
}
