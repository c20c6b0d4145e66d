package places

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"localscope/app"
)

// Handler serves the search page and its form endpoints.
type Handler struct {
	sessions *Sessions
	now      func() time.Time
}

// NewHandler serves pages out of the given session store.
func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions, now: time.Now}
}

// Register mounts the places routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/places", app.Route(app.RouteOpts{
		Methods: []string{http.MethodGet},
		HTML:    h.page,
		JSON:    h.view,
	}))
	mux.HandleFunc("/places/search", app.Route(app.RouteOpts{
		Methods: []string{http.MethodGet, http.MethodPost},
		HTML:    h.search,
		JSON:    h.search,
	}))
	mux.HandleFunc("/places/locate", app.Route(app.RouteOpts{
		Methods: []string{http.MethodPost},
		HTML:    h.locate,
		JSON:    h.locate,
	}))
	mux.HandleFunc("/places/view", app.Route(app.RouteOpts{
		Methods: []string{http.MethodGet},
		JSON:    h.view,
		HTML:    h.view,
	}))
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	v, banners, script := emptyView(), (*Banners)(nil), ""
	if sess, ok := h.sessions.Lookup(r); ok {
		v, banners, script = sess.Controller.View(), sess.Banners, sess.Map.Script()
	}
	app.Respond(w, r, app.Response{
		Title:       "Places",
		Description: "Find places near a location",
		HTML:        renderPage(v, banners, script, h.now()),
	})
}

// view reports the visitor's page. Visitors without a session see the
// blank page and are not given one until they search or locate.
func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Lookup(r); ok {
		app.RespondJSON(w, sess.Controller.View())
		return
	}
	app.RespondJSON(w, emptyView())
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.BadRequest(w, r, "Invalid form")
		return
	}
	form := Form{
		Latitude:  r.Form.Get("latitude"),
		Longitude: r.Form.Get("longitude"),
		Radius:    r.Form.Get("radius"),
	}

	sess := h.sessions.Get(w, r)
	if err := sess.Submit(r.Context(), form); err != nil {
		h.abandoned(w, r, "Search", err)
		return
	}
	h.done(w, r, sess)
}

func (h *Handler) locate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.BadRequest(w, r, "Invalid form")
		return
	}

	sess := h.sessions.Get(w, r)
	if err := sess.Locate(r.Context(), ParseReport(r.PostForm), pageForm(r.PostForm)); err != nil {
		h.abandoned(w, r, "Locate", err)
		return
	}
	h.done(w, r, sess)
}

// pageForm reads the search fields the browser copied into the locate
// form. It returns nil when the post carries none of them.
func pageForm(v url.Values) *Form {
	_, lat := v["field_latitude"]
	_, lon := v["field_longitude"]
	_, rad := v["field_radius"]
	if !lat && !lon && !rad {
		return nil
	}
	return &Form{
		Latitude:  v.Get("field_latitude"),
		Longitude: v.Get("field_longitude"),
		Radius:    v.Get("field_radius"),
	}
}

func (h *Handler) abandoned(w http.ResponseWriter, r *http.Request, what string, err error) {
	app.Log("places", "%s abandoned: %v", what, err)
	if errors.Is(err, ErrStopped) {
		app.Unavailable(w, r, "Session ended, reload the page")
	}
}

// done answers a form post: JSON clients get the view, browsers are sent
// back to the page.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, sess *Session) {
	if app.WantsJSON(r) {
		app.RespondJSON(w, sess.Controller.View())
		return
	}
	http.Redirect(w, r, "/places", http.StatusSeeOther)
}

func emptyView() View {
	return View{State: StateIdle.String(), Items: []string{}}
}

// renderPage draws the search page. banners may be nil.
func renderPage(v View, banners *Banners, script string, now time.Time) string {
	var sb strings.Builder

	if banners != nil {
		if b, ok := banners.Current(BannerError); ok {
			sb.WriteString(bannerHTML(b, now))
		}
	}

	sb.WriteString(`<form id="search-form" class="search-form" method="POST" action="/places/search">`)
	sb.WriteString(inputHTML("latitude", "Latitude", v.Form.Latitude))
	sb.WriteString(inputHTML("longitude", "Longitude", v.Form.Longitude))
	sb.WriteString(inputHTML("radius", "Radius (meters)", v.Form.Radius))
	sb.WriteString(`<button type="submit">Search</button>`)
	sb.WriteString(`<button type="button" id="current-location">Use current location</button>`)
	sb.WriteString(`</form>`)

	sb.WriteString(`<form id="locate-form" class="hidden" method="POST" action="/places/locate">` +
		`<input type="hidden" name="supported"><input type="hidden" name="code">` +
		`<input type="hidden" name="latitude"><input type="hidden" name="longitude">` +
		`<input type="hidden" name="field_latitude"><input type="hidden" name="field_longitude">` +
		`<input type="hidden" name="field_radius"></form>`)

	sb.WriteString(fmt.Sprintf(`<div id="loader" class="%s">Loading...</div>`, app.Hidden("loader", !v.Busy)))

	if banners != nil {
		if b, ok := banners.Current(BannerRateLimit); ok {
			sb.WriteString(bannerHTML(b, now))
		}
	}

	sb.WriteString(`<div id="results-section">`)
	sb.WriteString(`<div id="places-list">`)
	for _, item := range v.Items {
		sb.WriteString(item)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(`<div id="%s" class="%s"></div>`, mapContainer, app.Hidden("map", !v.MapVisible)))
	sb.WriteString(`</div>`)

	sb.WriteString(script)
	return sb.String()
}

func inputHTML(name, label, value string) string {
	return fmt.Sprintf(`<label for="%s">%s</label><input type="text" id="%s" name="%s" value="%s" inputmode="decimal">`,
		name, label, name, name, html.EscapeString(value))
}
