package pipeline

import (
	"fmt"

	"github.com/matzehuels/vitae/pkg/buildinfo"
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/sink/docx"
	"github.com/matzehuels/vitae/pkg/render/sink/pdf"
	"github.com/matzehuels/vitae/pkg/render/sink/preview"
	"github.com/matzehuels/vitae/pkg/render/skin"
	"github.com/matzehuels/vitae/pkg/resume"
)

// RenderFormat lowers d into a single format.
func RenderFormat(d *plan.Document, s *skin.Skin, format string, r *resume.Resume, opts Options) ([]byte, error) {
	switch format {
	case FormatDOCX:
		return docx.Render(d, s,
			docx.WithTitle(r.Name),
			docx.WithCreator(r.Name),
			docx.WithAppVersion(buildinfo.Version))
	case FormatPDF:
		return pdf.Render(d, s,
			pdf.WithTitle(r.Name),
			pdf.WithAuthor(r.Name))
	case FormatHTML:
		return preview.RenderHTML(preview.Build(d, s), preview.NewOverlay(opts.Tailoring))
	case FormatJSON:
		return plan.RenderJSON(d, s.ID)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Render lowers d into every format in opts.Formats, sequentially.
func Render(d *plan.Document, s *skin.Skin, r *resume.Resume, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := RenderFormat(d, s, f, r, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
