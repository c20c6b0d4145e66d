package docs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCatalogFilesExist(t *testing.T) {
	for _, d := range catalog {
		if _, err := docsFS.ReadFile(d.Filename); err != nil {
			t.Errorf("%s: %v", d.Filename, err)
		}
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		path   string
		status int
		h1     string
	}{
		{"/docs/configuration", http.StatusOK, "Configuration"},
		{"/about", http.StatusOK, "About LocalScope"},
		{"/docs/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.path == "/about" {
			AboutHandler(rec, req)
		} else {
			Handler(rec, req)
		}
		if rec.Code != tt.status {
			t.Errorf("%s: status %d, want %d", tt.path, rec.Code, tt.status)
			continue
		}
		if tt.h1 == "" {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		if err != nil {
			t.Fatal(err)
		}
		if got := doc.Find(".docs-content h1").First().Text(); got != tt.h1 {
			t.Errorf("%s: h1 = %q, want %q", tt.path, got, tt.h1)
		}
	}

	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	doc, _ := goquery.NewDocumentFromReader(rec.Body)
	if n := doc.Find(".docs-card").Length(); n != len(catalog) {
		t.Errorf("index lists %d docs, want %d", n, len(catalog))
	}
}
