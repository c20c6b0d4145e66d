package app

import (
	"embed"
	"fmt"
	"html"
	"io/fs"
	"log"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed html/*
var htmlFiles embed.FS

var Template = `<!DOCTYPE html>
<html>
  <head>
    <title>%s | LocalScope</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="description" content="%s">
    <meta name="referrer" content="no-referrer"/>
    <link rel="stylesheet" href="/localscope.css">
    <script src="/localscope.js" defer></script>
  </head>
  <body>
    <div id="head">
      <div id="brand">
        <a href="/">LocalScope</a>
      </div>
      <div id="nav">
        <a href="/places">Search</a>
        <a href="/about">About</a>
        <a href="/api">API</a>
        <a href="/status">Status</a>
      </div>
    </div>
    <div id="container">
      <div id="content">%s</div>
    </div>
  </body>
</html>
`

// Render a markdown document as html
func Render(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := mdhtml.CommonFlags | mdhtml.HrefTargetBlank
	opts := mdhtml.RendererOptions{Flags: htmlFlags}
	renderer := mdhtml.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

// RenderHTML renders the given html in a template
func RenderHTML(title, desc, body string) string {
	return fmt.Sprintf(Template, html.EscapeString(title), html.EscapeString(desc), body)
}

// RenderString renders a markdown string as html
func RenderString(v string) string {
	return string(Render([]byte(v)))
}

func ServeHTML(page string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	})
}

// Serve serves the static content in app/html
func Serve() http.Handler {
	htmlContent, err := fs.Sub(fs.FS(htmlFiles), "html")
	if err != nil {
		log.Fatal(err)
	}

	return http.FileServer(http.FS(htmlContent))
}
