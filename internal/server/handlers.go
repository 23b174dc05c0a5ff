package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/vitae/pkg/errors"
	"github.com/matzehuels/vitae/pkg/pipeline"
	"github.com/matzehuels/vitae/pkg/render/sink/preview"
	"github.com/matzehuels/vitae/pkg/render/skin"
	"github.com/matzehuels/vitae/pkg/resume"
)

// Client-facing messages.
const (
	msgInvalidJSON  = "Invalid JSON in request body"
	msgMissingName  = "Missing or empty 'name' field"
	msgRateLimited  = "Download rate limit exceeded. Please try again later."
	msgDocxFailed   = "Failed to generate resume document"
	msgPDFFailed    = "Failed to generate PDF"
	msgPreviewError = "Failed to render preview"
)

var downloads = map[string]struct {
	filename string
	failure  string
}{
	pipeline.FormatDOCX: {"resume.docx", msgDocxFailed},
	pipeline.FormatPDF:  {"resume.pdf", msgPDFFailed},
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// templateInfo is one entry of GET /api/templates.
type templateInfo struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tier        skin.Tier `json:"tier"`
	Allowed     bool      `json:"allowed"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	tier := TierFromContext(r.Context())
	list := s.runner.Registry.List()
	out := make([]templateInfo, 0, len(list))
	for _, sk := range list {
		out = append(out, templateInfo{
			Slug:        sk.ID,
			Name:        sk.Name,
			Description: sk.Description,
			Tier:        sk.Tier,
			Allowed:     tier.Allows(sk.Tier),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"tier": tier, "templates": out})
}

// handleDownload renders one downloadable format.
func (s *Server) handleDownload(format string) http.HandlerFunc {
	d := downloads[format]
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		res, err := decodeResume(body)
		if err != nil {
			s.writeError(w, err)
			return
		}

		tier := TierFromContext(r.Context())
		id, err := s.authorize(r, tier)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if format == pipeline.FormatPDF && !tier.AllowsPDF() {
			s.writeError(w, errors.New(errors.ErrCodeTemplateForbidden, "PDF download requires the %s tier", skin.TierPro))
			return
		}

		result, err := s.runner.Execute(r.Context(), res, pipeline.Options{
			Template: id,
			Formats:  []string{format},
		})
		if err != nil {
			if errors.HTTPStatus(err) >= http.StatusInternalServerError {
				s.logger.Error("generation failed", "id", RequestID(r.Context()), "format", format, "template", id, "err", err)
				s.errorResponse(w, http.StatusInternalServerError, d.failure)
				return
			}
			s.writeError(w, err)
			return
		}

		data := result.Artifacts[format]
		w.Header().Set("Content-Type", pipeline.ContentTypes[format])
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.filename))
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// previewRequest is the body of POST /api/preview.
type previewRequest struct {
	Resume    json.RawMessage   `json:"resume"`
	Tailoring *resume.Tailoring `json:"tailoring"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if len(req.Resume) == 0 || string(req.Resume) == "null" {
		s.htmlResponse(w, r, nil, nil)
		return
	}
	res, err := decodeResume(req.Resume)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := s.templateID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), res, pipeline.Options{
		Template:  id,
		Formats:   []string{pipeline.FormatHTML},
		Tailoring: req.Tailoring,
	})
	if err != nil {
		if errors.HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("preview failed", "id", RequestID(r.Context()), "template", id, "err", err)
			s.errorResponse(w, http.StatusInternalServerError, msgPreviewError)
			return
		}
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatHTML])
	_, _ = w.Write(result.Artifacts[pipeline.FormatHTML])
}

// htmlResponse writes the empty-state page.
func (s *Server) htmlResponse(w http.ResponseWriter, r *http.Request, t *preview.Tree, o *preview.Overlay) {
	page, err := preview.RenderHTML(t, o)
	if err != nil {
		s.logger.Error("preview failed", "id", RequestID(r.Context()), "err", err)
		s.errorResponse(w, http.StatusInternalServerError, msgPreviewError)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatHTML])
	_, _ = w.Write(page)
}

// templateID reads ?template=, falling back to the server default.
func (s *Server) templateID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("template"))
	if id == "" {
		id = s.opts.DefaultTemplate
	}
	if err := errors.ValidateTemplateID(id); err != nil {
		return "", err
	}
	if _, err := s.runner.Registry.Lookup(id); err != nil {
		return "", err
	}
	return id, nil
}

// authorize resolves the template and checks the caller may use it.
func (s *Server) authorize(r *http.Request, tier skin.Tier) (string, error) {
	id, err := s.templateID(r)
	if err != nil {
		return "", err
	}
	sk, _ := s.runner.Registry.Lookup(id)
	if !tier.Allows(sk.Tier) {
		return "", errors.New(errors.ErrCodeTemplateForbidden,
			"Template %q requires the %s tier", id, sk.Tier)
	}
	return id, nil
}

// decodeResume applies the boundary checks in order: well-formed JSON, a
// non-empty string name, then the schema.
func decodeResume(body []byte) (*resume.Resume, error) {
	if !json.Valid(body) {
		return nil, errors.New(errors.ErrCodeInvalidInput, msgInvalidJSON)
	}
	var probe struct {
		Name any `json:"name"`
	}
	_ = json.Unmarshal(body, &probe)
	name, ok := probe.Name.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.ErrCodeInvalidResume, msgMissingName)
	}
	if err := resume.ValidateJSON(body); err != nil {
		return nil, err
	}
	res, err := resume.Unmarshal(body, resume.FormatJSON)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, msgInvalidJSON)
	}
	return res, nil
}

// writeError maps a coded error to its status and user message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "Internal server error"
	}
	s.errorResponse(w, status, msg)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
