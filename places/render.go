package places

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"localscope/app"
)

const (
	mapZoom        = 14
	noResultsText  = "No places found in this area."
	missingName    = "N/A"
	missingAddress = "No address available"
	originTitle    = "Search Location"
	placeIconURL   = "https://maps.gstatic.com/mapfiles/place_api/icons/v1/png_71/generic_business-71.png"
)

// Renderer owns the result list and the map overlays of one page. Every
// Render replaces the previous set wholesale.
type Renderer struct {
	mu       sync.Mutex
	m        Map
	items    []string
	overlays []Overlay
	result   *SearchResult
}

// NewRenderer returns a Renderer drawing on m.
func NewRenderer(m Map) *Renderer {
	return &Renderer{m: m}
}

// Clear removes every list item and overlay and hides the map.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Renderer) clearLocked() {
	for _, o := range r.overlays {
		o.Remove()
	}
	r.overlays = nil
	r.items = nil
	r.result = nil
	r.m.Hide()
}

// Render draws res as cards and map markers around the search centre. An
// empty result shows the no-results placeholder and leaves the map alone.
func (r *Renderer) Render(lat, lon float64, radius int, res *SearchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked()
	r.result = res

	if res == nil || len(res.Places) == 0 {
		r.items = []string{app.Empty("no-results", noResultsText)}
		return
	}

	for _, p := range res.Places {
		r.items = append(r.items, renderPlaceCard(p))
	}

	center := LatLng{Lat: lat, Lng: lon}
	r.m.Show()
	r.m.SetView(center, mapZoom)
	r.overlays = append(r.overlays, r.m.AddMarker(MarkerOptions{
		Position: center,
		Title:    originTitle,
		Origin:   true,
	}))
	r.overlays = append(r.overlays, r.m.AddCircle(center, radius))

	for _, p := range res.Places {
		r.overlays = append(r.overlays, r.m.AddMarker(MarkerOptions{
			Position: LatLng{Lat: p.Latitude, Lng: p.Longitude},
			Title:    displayName(p),
			Popup:    placePopupHTML(p),
		}))
	}
}

// Items returns the rendered list nodes.
func (r *Renderer) Items() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]string, len(r.items))
	copy(items, r.items)
	return items
}

// Result returns the result currently on screen, if any.
func (r *Renderer) Result() *SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Markers returns the number of overlays currently owned.
func (r *Renderer) Markers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.overlays)
}

// renderPlaceCard renders a single place card
func renderPlaceCard(p *Place) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="place-card-image" style="background-image: url('%s')"></div>`, placeIconURL))
	sb.WriteString(`<div class="place-card-content">`)
	sb.WriteString(`<h3>` + html.EscapeString(displayName(p)) + `</h3>`)
	sb.WriteString(`<p class="place-address">` + html.EscapeString(address(p)) + `</p>`)
	sb.WriteString(placeDetailsHTML(p))
	sb.WriteString(`</div>`)
	return app.CardDivClass("place-card", sb.String())
}

// placePopupHTML builds the info popup shown when a marker is clicked.
func placePopupHTML(p *Place) string {
	return `<div class="info-window"><h3>` + html.EscapeString(displayName(p)) + `</h3>` +
		`<p>` + html.EscapeString(address(p)) + `</p>` +
		placeDetailsHTML(p) + `</div>`
}

// placeDetailsHTML renders the optional rating, type and website lines.
func placeDetailsHTML(p *Place) string {
	var sb strings.Builder
	if p.Rating != nil {
		sb.WriteString(`<p class="rating">Rating: ` + strconv.FormatFloat(*p.Rating, 'f', -1, 64) + ` ⭐</p>`)
	}
	if p.PrimaryType != "" {
		sb.WriteString(`<p class="place-type">Type: ` + html.EscapeString(p.PrimaryType) + `</p>`)
	}
	if link := safeURL(p.WebsiteURI); link != "" {
		sb.WriteString(`<p class="place-website">` + app.ExternalLink(link, "Website") + `</p>`)
	}
	return sb.String()
}

// safeURL returns u when it is an absolute http(s) URL.
func safeURL(u string) string {
	if u == "" {
		return ""
	}
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}
	return u
}
