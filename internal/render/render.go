package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Renderer turns pipeline output into self-contained HTML documents
type Renderer struct {
	tmpl *template.Template
}

// New parses the built-in templates
func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("pages").Parse(pageTemplates)),
	}
}

// ArticleView is a fully resolved article ready to render
type ArticleView struct {
	Title        string
	ImageURL     string
	Paragraphs   []string
	Summary      []string
	ReadingTime  int
	Sentiment    string
	CanonicalURL string
	FromCache    bool
}

// ListingItem is one row of a listing page
type ListingItem struct {
	Title     string
	Href      string
	Source    string
	Published time.Time
}

// ListingView is an aggregated or single-source listing page
type ListingView struct {
	Title string
	Items []ListingItem
}

// PortalLine is one translated headline with its internal link
type PortalLine struct {
	Text  string
	Href  string
	Depth int
}

// PortalView is a portal page of translated headlines
type PortalView struct {
	Title string
	Lines []PortalLine
}

// DiagnosticView carries the failure context rendered instead of an
// opaque error page
type DiagnosticView struct {
	Message     string
	Prompt      string
	RawResponse string
}

// Article renders an article page
func (r *Renderer) Article(view *ArticleView) ([]byte, error) {
	return r.execute("article", view)
}

// Listing renders a feed listing page
func (r *Renderer) Listing(view *ListingView) ([]byte, error) {
	return r.execute("listing", view)
}

// Portal renders a translated portal page
func (r *Renderer) Portal(view *PortalView) ([]byte, error) {
	return r.execute("portal", view)
}

// Diagnostic renders the failure page. Empty prompt or response show
// an explicit "none" marker rather than vanishing.
func (r *Renderer) Diagnostic(view *DiagnosticView) ([]byte, error) {
	if view.Prompt == "" {
		view.Prompt = "none"
	}
	if view.RawResponse == "" {
		view.RawResponse = "none"
	}
	return r.execute("diagnostic", view)
}

func (r *Renderer) execute(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:Georgia,serif;max-width:680px;margin:0 auto;padding:1rem;line-height:1.6;color:#222}
a{color:#0645ad;text-decoration:none}
a:hover{text-decoration:underline}
img{max-width:100%;height:auto}
.summary{background:#f6f6ef;border-left:3px solid #b58900;padding:.5rem 1rem;margin:1rem 0}
.meta{color:#777;font-size:.85rem}
pre{white-space:pre-wrap;background:#f4f4f4;padding:.75rem;overflow-x:auto}
</style>
</head>
<body>{{end}}

{{define "article"}}{{template "head" .}}
<h1>{{.Title}}</h1>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="">{{end}}
{{if .Summary}}<div class="summary">
<ul>{{range .Summary}}<li>{{.}}</li>{{end}}</ul>
{{if .ReadingTime}}<p class="meta">{{.ReadingTime}} min read{{if .Sentiment}} &middot; {{.Sentiment}}{{end}}</p>{{end}}
</div>{{end}}
{{range .Paragraphs}}<p>{{.}}</p>{{end}}
<p class="meta"><a href="{{.CanonicalURL}}" rel="noreferrer">original</a></p>
</body>
</html>{{end}}

{{define "listing"}}{{template "head" .}}
<h1>{{.Title}}</h1>
<ul>
{{range .Items}}<li><a href="{{.Href}}">{{.Title}}</a> <span class="meta">{{.Source}}{{if not .Published.IsZero}} &middot; {{.Published.Format "Jan 2 15:04"}}{{end}}</span></li>
{{end}}</ul>
</body>
</html>{{end}}

{{define "portal"}}{{template "head" .}}
<h1>{{.Title}}</h1>
<ul>
{{range .Lines}}<li style="margin-left:{{.Depth}}em">{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</li>
{{end}}</ul>
</body>
</html>{{end}}

{{define "diagnostic"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>pipeline failure</title></head>
<body>
<h1>Pipeline failure</h1>
<p>{{.Message}}</p>
<h2>Last prompt</h2>
<pre>{{.Prompt}}</pre>
<h2>Last model response</h2>
<pre>{{.RawResponse}}</pre>
</body>
</html>{{end}}
`
