package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vitae/internal/server/ratelimit"
	"github.com/matzehuels/vitae/pkg/pipeline"
	"github.com/matzehuels/vitae/pkg/render/skin"
)

const testSecret = "test-secret"

const resumeJSON = `{
  "name": "John Smith",
  "contactLine1": "john@test.com | 555-0000",
  "education": [{"institution": "MIT", "location": "Cambridge, MA", "degree": "B.S. Computer Science", "date": "May 2024"}],
  "experienceSections": [{"heading": "Experience", "entries": [{"company": "BigCo", "location": "New York, NY",
    "roles": [{"title": "Engineer", "date": "2022", "bullets": ["Built API"]}]}]}],
  "additionalInfo": ["Languages: Go"]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(skin.Default(), nil, nil, logger)
	rl := ratelimit.DefaultConfig()
	rl.CleanupInterval = 0
	s := New(runner, logger, Options{
		JWTSecret:  testSecret,
		TrustProxy: true,
		RateLimit:  rl,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func token(t *testing.T, tier skin.Tier) string {
	t.Helper()
	tok, err := NewTokenVerifier(testSecret).Issue(tier, time.Hour)
	require.NoError(t, err)
	return tok
}

type reqOpt func(*http.Request)

func withBearer(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func fromIP(ip string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func do(s *Server, method, target, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)
	id := "3f2c1a8e-9b4d-4c6e-8a1f-2b3c4d5e6f70"
	w := do(s, http.MethodGet, "/healthz", "", func(r *http.Request) { r.Header.Set(RequestIDHeader, id) })
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = do(s, http.MethodGet, "/healthz", "", func(r *http.Request) { r.Header.Set(RequestIDHeader, "<script>") })
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestTemplates(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		opts    []reqOpt
		tier    skin.Tier
		allowed map[string]bool
	}{
		{
			name:    "anonymous is free",
			tier:    skin.TierFree,
			allowed: map[string]bool{"classic": true, "modern": false, "creative": false, "minimal": false},
		},
		{
			name:    "pro token",
			opts:    []reqOpt{withBearer(token(t, skin.TierPro))},
			tier:    skin.TierPro,
			allowed: map[string]bool{"classic": true, "modern": true, "creative": true, "minimal": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodGet, "/api/templates", "", tt.opts...)
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Tier      skin.Tier      `json:"tier"`
				Templates []templateInfo `json:"templates"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.tier, body.Tier)
			require.Len(t, body.Templates, len(tt.allowed))
			for _, info := range body.Templates {
				assert.Equal(t, tt.allowed[info.Slug], info.Allowed, info.Slug)
				assert.NotEmpty(t, info.Name)
			}
		})
	}
}

func TestGenerateDocx(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodPost, "/api/generate-docx", resumeJSON, fromIP("1.1.1.1"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pipeline.ContentTypes[pipeline.FormatDOCX], w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="resume.docx"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "docx should be a zip archive")
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestGeneratePDF(t *testing.T) {
	s := newTestServer(t)

	t.Run("free tier forbidden", func(t *testing.T) {
		w := do(s, http.MethodPost, "/api/generate-pdf", resumeJSON, fromIP("2.2.2.1"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("pro tier", func(t *testing.T) {
		w := do(s, http.MethodPost, "/api/generate-pdf?template=modern", resumeJSON,
			fromIP("2.2.2.2"), withBearer(token(t, skin.TierPro)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="resume.pdf"`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})
}

func TestDownloadErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		body    string
		opts    []reqOpt
		status  int
		message string
	}{
		{"invalid json", "/api/generate-docx", `{"name":`, nil, http.StatusBadRequest, msgInvalidJSON},
		{"missing name", "/api/generate-docx", `{"contactLine1":"x"}`, nil, http.StatusBadRequest, msgMissingName},
		{"blank name", "/api/generate-docx", `{"name":"   "}`, nil, http.StatusBadRequest, msgMissingName},
		{"non-string name", "/api/generate-docx", `{"name":42}`, nil, http.StatusBadRequest, msgMissingName},
		{"unknown template", "/api/generate-docx?template=nope", resumeJSON, nil, http.StatusBadRequest, ""},
		{"malformed template", "/api/generate-docx?template=Bad!", resumeJSON, nil, http.StatusBadRequest, ""},
		{"premium template", "/api/generate-docx?template=modern", resumeJSON, nil, http.StatusForbidden, ""},
		{"invalid token", "/api/generate-docx", resumeJSON, []reqOpt{withBearer("garbage")}, http.StatusUnauthorized, "Invalid or expired token"},
		{"bad auth scheme", "/api/generate-docx", resumeJSON,
			[]reqOpt{func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
			http.StatusUnauthorized, "Invalid authorization header"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]reqOpt{fromIP(fmt.Sprintf("10.0.0.%d", i+1))}, tt.opts...)
			w := do(s, http.MethodPost, tt.target, tt.body, opts...)
			assert.Equal(t, tt.status, w.Code)
			msg := errorBody(t, w)
			if tt.message != "" {
				assert.Equal(t, tt.message, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		w := do(s, http.MethodPost, "/api/generate-docx", resumeJSON, fromIP("5.5.5.5"))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := do(s, http.MethodPost, "/api/generate-docx", resumeJSON, fromIP("5.5.5.5"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, msgRateLimited, errorBody(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// budgets are per route and per client
	w = do(s, http.MethodPost, "/api/generate-docx", resumeJSON, fromIP("6.6.6.6"))
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(s, http.MethodPost, "/api/generate-pdf", resumeJSON, fromIP("5.5.5.5"), withBearer(token(t, skin.TierPro)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitBeforeParsing(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 5; i++ {
		w := do(s, http.MethodPost, "/api/generate-docx", `not json`, fromIP("7.7.7.7"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
	w := do(s, http.MethodPost, "/api/generate-docx", resumeJSON, fromIP("7.7.7.7"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)

	t.Run("with overlay", func(t *testing.T) {
		body := `{"resume": ` + resumeJSON + `, "tailoring": {"matchScore": 72, "keywords": {"found": ["Go"], "missing": ["Rust"]}}}`
		w := do(s, http.MethodPost, "/api/preview", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		page := w.Body.String()
		assert.Contains(t, page, "John Smith")
		assert.Contains(t, page, "tone-amber")
		assert.Contains(t, page, "Rust")
	})

	t.Run("null resume", func(t *testing.T) {
		w := do(s, http.MethodPost, "/api/preview", `{"resume": null}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Your resume will appear here as you chat.")
	})

	t.Run("not tier gated", func(t *testing.T) {
		w := do(s, http.MethodPost, "/api/preview?template=creative", `{"resume": `+resumeJSON+`}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-template="creative"`)
	})

	t.Run("bad tailoring", func(t *testing.T) {
		body := `{"resume": ` + resumeJSON + `, "tailoring": {"matchScore": 150}}`
		w := do(s, http.MethodPost, "/api/preview", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := do(s, http.MethodPost, "/api/preview", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgInvalidJSON, errorBody(t, w))
	})
}

func TestTokenVerifier(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	tok, err := v.Issue(skin.TierCareer, time.Hour)
	require.NoError(t, err)

	tier, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, skin.TierCareer, tier)

	_, err = NewTokenVerifier("other").Verify(tok)
	assert.Error(t, err)

	expired, err := v.Issue(skin.TierPro, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.Error(t, err)

	_, err = NewTokenVerifier("").Verify(tok)
	assert.Error(t, err)
	_, err = NewTokenVerifier("").Issue(skin.TierPro, time.Hour)
	assert.Error(t, err)
}
