// Package docx writes a planned resume as a WordprocessingML package.
//
// # Overview
//
// [Render] lowers a [plan.Document] with a [skin.Skin] into the bytes of a
// .docx file: a ZIP container holding the document, style, numbering and
// property parts. Output always begins with the ZIP local file header
// (PK\x03\x04), for every skin.
//
// # Layout
//
// Dates are aligned with a single right tab stop at the content width
// (see [geometry.Page.RightTab]); there are no tables. All bullets share one
// numbering definition at level 0 with the skin's glyph and a fixed hanging
// indent. The page is US Letter with the skin's margin on all four sides.
//
// # Failure
//
// Rendering either returns the complete package or an error with code
// RENDER_FAILED; no partial bytes are ever returned.
package docx

import (
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"

	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

// ContentType is the media type of a rendered package.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	title    string
	creator  string
	version  string
	id       uuid.UUID
	modified time.Time
	level    int
}

// WithTitle sets the dc:title document property.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithCreator sets the dc:creator document property.
func WithCreator(s string) Option { return func(r *renderer) { r.creator = s } }

// WithAppVersion records the generating application's version.
func WithAppVersion(v string) Option { return func(r *renderer) { r.version = v } }

// WithIdentifier fixes the document identifier. A random UUID is used otherwise.
func WithIdentifier(id uuid.UUID) Option { return func(r *renderer) { r.id = id } }

// WithModified fixes the timestamp written to the package and its properties.
func WithModified(t time.Time) Option { return func(r *renderer) { r.modified = t } }

// WithCompression sets the deflate level (flate.NoCompression..flate.BestCompression).
func WithCompression(level int) Option { return func(r *renderer) { r.level = level } }

// Render returns the .docx bytes for d rendered with s.
// It does not retain or modify d or s and is safe to call concurrently.
func Render(d *plan.Document, s *skin.Skin, opts ...Option) ([]byte, error) {
	r := renderer{level: flate.DefaultCompression}
	for _, opt := range opts {
		opt(&r)
	}
	if r.id == uuid.Nil {
		r.id = uuid.New()
	}
	if r.modified.IsZero() {
		r.modified = time.Now()
	}

	b := newBuilder(s)
	body := b.lower(d)

	parts := []part{
		{partContentTypes, contentTypes()},
		{partRootRels, rootRels()},
		{partDocument, b.document(body)},
		{partDocumentRels, documentRels()},
		{partStyles, b.styles()},
		{partNumbering, b.numbering()},
		{partCore, core(r.title, r.creator, "urn:uuid:"+r.id.String(), r.modified)},
		{partApp, app(r.version)},
	}
	return pack(parts, r.modified, r.level)
}
