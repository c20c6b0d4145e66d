package docs

import (
	"embed"
	"fmt"
	"net/http"
	"strings"

	"localscope/app"
)

//go:embed *.md
var docsFS embed.FS

// Document represents a documentation page
type Document struct {
	Slug        string // URL slug (e.g., "configuration")
	Filename    string // Original filename (e.g., "CONFIGURATION.md")
	Title       string
	Description string
}

var catalog = []Document{
	{Slug: "about", Filename: "ABOUT.md", Title: "About LocalScope", Description: "What LocalScope does"},
	{Slug: "configuration", Filename: "CONFIGURATION.md", Title: "Configuration", Description: "Flags and environment variables"},
}

// Handler serves the /docs endpoint
func Handler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/docs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		renderIndex(w, r)
		return
	}

	var doc *Document
	for i := range catalog {
		if catalog[i].Slug == path {
			doc = &catalog[i]
			break
		}
	}
	if doc == nil {
		app.NotFound(w, r)
		return
	}

	serveDoc(w, r, *doc)
}

// AboutHandler serves the /about page (shortcut to /docs/about)
func AboutHandler(w http.ResponseWriter, r *http.Request) {
	serveDoc(w, r, catalog[0])
}

func serveDoc(w http.ResponseWriter, r *http.Request, doc Document) {
	content, err := docsFS.ReadFile(doc.Filename)
	if err != nil {
		app.NotFound(w, r)
		return
	}

	rendered := app.Render(content)

	html := fmt.Sprintf(`<div class="docs">
<div class="docs-nav">
<a href="/docs">← All Docs</a>
</div>
<div class="docs-content">%s</div>
</div>`, string(rendered))

	app.Respond(w, r, app.Response{Title: doc.Title, Description: doc.Description, HTML: html})
}

// renderIndex shows the documentation index
func renderIndex(w http.ResponseWriter, r *http.Request) {
	var content strings.Builder
	content.WriteString(`<p>Documentation for running LocalScope.</p><div class="docs-grid">`)
	for _, doc := range catalog {
		content.WriteString(fmt.Sprintf(`<a href="/docs/%s" class="docs-card">
<h4>%s</h4>
<p>%s</p>
</a>`, doc.Slug, doc.Title, doc.Description))
	}
	content.WriteString(`</div>`)

	app.Respond(w, r, app.Response{Title: "Documentation", Description: "LocalScope documentation", HTML: content.String()})
}
