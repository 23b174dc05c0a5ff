// Package pipeline runs the resume rendering pipeline shared by the CLI and
// the HTTP server.
//
// # Stages
//
//  1. Validate: enforce the input contract on the resume
//  2. Plan: build the skin-independent block plan once
//  3. Render: lower the plan into every requested format, concurrently
//
// Artifacts are cached by content: the key covers the canonical resume JSON,
// the template and the format, so an unchanged resume is served from cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(skin.Default(), cache, nil, logger)
//	result, err := runner.Execute(ctx, r, pipeline.Options{
//	    Template: "modern",
//	    Formats:  []string{pipeline.FormatDOCX, pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	docx := result.Artifacts[pipeline.FormatDOCX]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vitae/pkg/buildinfo"
	"github.com/matzehuels/vitae/pkg/cache"
	"github.com/matzehuels/vitae/pkg/errors"
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
	"github.com/matzehuels/vitae/pkg/render/sink/docx"
	"github.com/matzehuels/vitae/pkg/render/sink/pdf"
	"github.com/matzehuels/vitae/pkg/resume"
)

// =============================================================================
// Defaults
// =============================================================================

// DefaultTemplate is used when Options.Template is empty.
const DefaultTemplate = "classic"

// Output formats.
const (
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatJSON = "json"
)

// ValidFormats lists the supported formats in their canonical order.
var ValidFormats = []string{FormatDOCX, FormatPDF, FormatHTML, FormatJSON}

// ContentTypes maps each format to its media type.
var ContentTypes = map[string]string{
	FormatDOCX: docx.ContentType,
	FormatPDF:  pdf.ContentType,
	FormatHTML: "text/html; charset=utf-8",
	FormatJSON: "application/json",
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Template string   `json:"template,omitempty"`
	Formats  []string `json:"formats,omitempty"`

	// Tailoring is drawn over the html output only.
	Tailoring *resume.Tailoring `json:"tailoring,omitempty"`

	// Refresh bypasses cache reads. Fresh artifacts are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	// Plan is the block plan every format was rendered from.
	Plan *plan.Document

	// ResumeHash is the content hash of the canonical resume.
	ResumeHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Blocks     int
	Sections   int
	PlanTime   time.Duration
	RenderTime time.Duration
	Sizes      map[string]int
}

// CacheInfo records which artifacts came from the cache.
type CacheInfo struct {
	Hits      map[string]bool
	RenderHit bool // every requested artifact was a hit
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, dropping blanks and
// duplicates while keeping order.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Template == "" {
		o.Template = DefaultTemplate
	}
	if err := errors.ValidateTemplateID(o.Template); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOCX}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := resume.ValidateTailoring(o.Tailoring); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Cacheable reports whether format's artifact may be cached. An html page
// with an overlay depends on more than the resume and template.
func (o *Options) Cacheable(format string) bool {
	return !(format == FormatHTML && o.Tailoring != nil)
}

// ArtifactKeyOpts returns the cache key options for format rendered with s.
func (o *Options) ArtifactKeyOpts(format string, s *skin.Skin) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Template: o.Template,
		Format:   format,
		Skin:     s.Fingerprint(),
		Version:  buildinfo.Version,
	}
}
