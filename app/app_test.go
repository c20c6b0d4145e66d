package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func TestRingKeepsNewest(t *testing.T) {
	r := &ring[int]{max: 3}
	for i := 1; i <= 5; i++ {
		r.add(i)
	}
	got := r.newest()
	if len(got) != 3 || got[0] != 5 || got[2] != 3 {
		t.Errorf("newest = %v, want [5 4 3]", got)
	}
}

func TestLogAndAPILog(t *testing.T) {
	Log("test", "hello %d", 42)
	entries := GetSysLog()
	if len(entries) == 0 || entries[0].Package != "test" || entries[0].Message != "hello 42" {
		t.Fatalf("unexpected syslog head: %+v", entries)
	}

	RecordAPICall("places", "GET", "http://example.com", 429, time.Second, errors.New("limited"))
	calls := GetAPILog()
	if len(calls) == 0 || calls[0].Status != 429 || calls[0].Error != "limited" {
		t.Errorf("unexpected api log head: %+v", calls)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PLACES_API_URL", "http://places.test/api")
	t.Setenv("PLACES_API_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("LOCALSCOPE_ENV", "")
	t.Setenv("MAX_SESSIONS", "-4")

	cfg := LoadConfig()
	if cfg.PlacesURL != "http://places.test/api" {
		t.Errorf("PlacesURL = %q", cfg.PlacesURL)
	}
	if cfg.PlacesTimeout != 3*time.Second {
		t.Errorf("PlacesTimeout = %s", cfg.PlacesTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("invalid SESSION_TTL should fall back, got %s", cfg.SessionTTL)
	}
	if cfg.MaxSessions != 10000 {
		t.Errorf("invalid MAX_SESSIONS should fall back, got %d", cfg.MaxSessions)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
}

func TestRoute(t *testing.T) {
	h := Route(RouteOpts{
		Methods: []string{http.MethodGet},
		HTML:    func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("html")) },
		JSON:    func(w http.ResponseWriter, r *http.Request) { RespondJSON(w, map[string]string{"kind": "json"}) },
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "html" {
		t.Errorf("browser request got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	h(rec, req)
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["kind"] != "json" {
		t.Errorf("json request got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST got %d, want 405", rec.Code)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderString("# Title\n\n[link](https://example.com)")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("h1").Text() != "Title" {
		t.Errorf("heading not rendered: %s", out)
	}
	if target, _ := doc.Find("a").Attr("target"); target != "_blank" {
		t.Errorf("links should open in a new tab: %s", out)
	}
}

func TestStatusHandler(t *testing.T) {
	RegisterStatus(StatusCheck{Name: "Places API", Status: true, Details: "http://places.test"})
	StatusSessionsFunc = func() int { return 4 }
	defer func() { StatusSessionsFunc = nil }()

	rec := httptest.NewRecorder()
	StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/status?format=json", nil))

	var status StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Sessions != 4 || len(status.Checks) == 0 {
		t.Errorf("unexpected status: %+v", status)
	}

	rec = httptest.NewRecorder()
	StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find(".status-section").Length() < 3 {
		t.Error("status page should render its sections")
	}
	if !strings.Contains(doc.Find(".status-item").Text(), "Places API") {
		t.Error("registered check should be listed")
	}
}

func TestRespondErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x?format=json", nil)
	BadRequest(rec, req, "nope")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"error":"nope"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "text-error") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}
