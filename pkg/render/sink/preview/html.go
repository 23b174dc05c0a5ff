package preview

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/matzehuels/vitae/pkg/render/plan"
)

const previewCSS = `
    body { margin: 0; background: #ededed; font-family: system-ui, sans-serif; }
    .empty-state { display: flex; height: 100vh; align-items: center; justify-content: center; color: #6b7280; font-size: 14px; }
    .paper { position: relative; max-width: 8.5in; min-height: 11in; margin: 24px auto; background: #fff; box-shadow: 0 1px 3px rgba(0,0,0,.12); }
    .resume { padding: 48px; color: #000; }
    header { text-align: center; margin-bottom: .4em; }
    h1.name { font-size: 1.17rem; margin: 0; line-height: 1.2; }
    p.contact { font-size: .83rem; margin: .15em 0 0; line-height: 1.3; }
    h2 { font-size: .92rem; text-transform: uppercase; letter-spacing: .04em; margin: .55em 0 .2em; color: var(--heading); }
    h2.heading-rule { padding-bottom: .15em; border-bottom: 1px solid var(--accent); }
    h2.heading-band { background: var(--accent); padding: .2em .5em; }
    h2.heading-spaced { letter-spacing: .25em; font-weight: 500; }
    .row { display: flex; justify-content: space-between; font-size: .83rem; }
    .row .right { flex-shrink: 0; text-align: right; }
    .text { font-size: .83rem; }
    .italic { font-style: italic; }
    ul { list-style: none; margin: 0; padding: 0; }
    li.bullet { position: relative; padding-left: 1.1em; font-size: .83rem; line-height: 1.3; }
    li.bullet .glyph { position: absolute; left: 0; }
    .overlay { position: absolute; right: 16px; top: 16px; max-width: 220px; display: flex; flex-direction: column; align-items: flex-end; gap: 8px; font-size: 12px; }
    .badge { color: #fff; border-radius: 9999px; padding: 4px 12px; font-weight: 600; }
    .badge.tone-emerald { background: #059669; }
    .badge.tone-amber { background: #f59e0b; }
    .badge.tone-red { background: #ef4444; }
    .chips { display: flex; flex-wrap: wrap; justify-content: flex-end; gap: 4px; }
    .chip { border-radius: 6px; padding: 1px 6px; border: 1px solid; }
    .chip.found { background: #ecfdf5; color: #047857; border-color: #a7f3d0; }
    .chip.missing { background: #fef2f2; color: #dc2626; border-color: #fecaca; }`

const previewHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Tree.Empty}}Resume preview{{else}}{{.Tree.Name}}{{end}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{- if .Tree.Empty}}
<div class="empty-state"><p>{{.EmptyText}}</p></div>
{{- else}}
<div class="paper" data-template="{{.Tree.Template}}" style="--accent: #{{.Tree.Accent}}; --heading: #{{.Tree.HeadingColor}}">
{{- with .Overlay}}
<aside class="overlay">
<div class="badge tone-{{.Badge.Tone}}"><span>Match</span> <span class="score">{{.Badge.Score}}%</span></div>
{{- if .Chips}}
<div class="chips">{{range .Chips}}<span class="chip {{if .Found}}found{{else}}missing{{end}}">{{.Text}}</span>{{end}}</div>
{{- end}}
</aside>
{{- end}}
<article class="resume" style="font-family: {{.FontStack}}">
<header>
<h1 class="name">{{.Tree.Name}}</h1>
{{- range .Tree.Contacts}}
<p class="contact">{{.}}</p>
{{- end}}
</header>
{{- range .Tree.Sections}}
<section data-section="{{.Kind}}">
<h2 class="heading-{{$.Tree.HeadingDecoration}}">{{.Title}}</h2>
{{- range .Items}}
{{- if .TwoColumn}}
<div class="row" data-kind="{{.Kind}}"><span class="left">{{range .Left}}{{if .Bold}}<strong>{{.Text}}</strong>{{else if .Italic}}<em>{{.Text}}</em>{{else}}{{.Text}}{{end}}{{end}}</span><span class="right">{{.Right}}</span></div>
{{- else if isBullet .Kind}}
<ul><li class="bullet"><span class="glyph" aria-hidden="true">{{$.Tree.Bullet}}</span>{{.Text}}</li></ul>
{{- else}}
<div class="text italic" data-kind="{{.Kind}}">{{.Text}}</div>
{{- end}}
{{- end}}
</section>
{{- end}}
</article>
</div>
{{- end}}
</body>
</html>
`

var previewTmpl = template.Must(template.New("preview").Funcs(template.FuncMap{
	"isBullet": func(k plan.Kind) bool { return k == plan.KindBullet },
}).Parse(previewHTML))

type htmlData struct {
	Tree      *Tree
	Overlay   *Overlay
	CSS       template.CSS
	EmptyText string
	FontStack template.CSS
}

// WriteHTML writes a standalone HTML page for t with an optional overlay.
func WriteHTML(w io.Writer, t *Tree, o *Overlay) error {
	if t == nil {
		t = &Tree{Empty: true}
	}
	return previewTmpl.Execute(w, htmlData{
		Tree:      t,
		Overlay:   o,
		CSS:       template.CSS(previewCSS),
		EmptyText: EmptyText,
		FontStack: fontStack(t.Font),
	})
}

// RenderHTML returns the page produced by [WriteHTML].
func RenderHTML(t *Tree, o *Overlay) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, t, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fontStack builds a CSS font-family value from a skin font name.
func fontStack(font string) template.CSS {
	serif := map[string]bool{"Times New Roman": true, "Georgia": true}
	generic := "sans-serif"
	if serif[font] {
		generic = "serif"
	}
	if font == "" {
		return template.CSS(generic)
	}
	clean := strings.Map(func(r rune) rune {
		if r == '\'' || r == ';' || r == '<' || r == '>' {
			return -1
		}
		return r
	}, font)
	return template.CSS("'" + clean + "', " + generic)
}
