package places

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// LatLng is a map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MarkerOptions describes one marker. Popup is HTML shown on click; Origin
// draws the marker as the search-origin symbol.
type MarkerOptions struct {
	Position LatLng
	Title    string
	Popup    string
	Origin   bool
}

// Overlay is something drawn on a map that can be taken off again.
type Overlay interface {
	Remove()
}

// Map is the drawing surface of the mapping library.
type Map interface {
	SetView(center LatLng, zoom int)
	AddCircle(center LatLng, radiusMeters int) Overlay
	AddMarker(opts MarkerOptions) Overlay
	Show()
	Hide()
	Visible() bool
}

// LeafletMap implements Map by collecting drawing calls and emitting them
// as a Leaflet script for the page.
type LeafletMap struct {
	mu          sync.Mutex
	container   string
	center      LatLng
	zoom        int
	initialized bool
	visible     bool
	overlays    []*leafletOverlay
}

type leafletOverlay struct {
	m  *LeafletMap
	js string
}

func (o *leafletOverlay) Remove() {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	for i, ov := range o.m.overlays {
		if ov == o {
			o.m.overlays = append(o.m.overlays[:i], o.m.overlays[i+1:]...)
			return
		}
	}
}

// NewLeafletMap returns a map drawn into the element with the given id.
func NewLeafletMap(container string) *LeafletMap {
	return &LeafletMap{container: container}
}

func (m *LeafletMap) SetView(center LatLng, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = center
	m.zoom = zoom
	m.initialized = true
}

func (m *LeafletMap) AddCircle(center LatLng, radiusMeters int) Overlay {
	js := fmt.Sprintf(
		`L.circle([%f,%f],{radius:%d,color:'#3498db',opacity:0.8,weight:2,fillColor:'#3498db',fillOpacity:0.1}).addTo(map);`,
		center.Lat, center.Lng, radiusMeters,
	)
	return m.add(js)
}

func (m *LeafletMap) AddMarker(opts MarkerOptions) Overlay {
	var js string
	if opts.Origin {
		js = fmt.Sprintf(
			`L.circleMarker([%f,%f],{radius:10,color:'#2980b9',weight:1,fillColor:'#3498db',fillOpacity:0.5}).addTo(map).bindTooltip(%s);`,
			opts.Position.Lat, opts.Position.Lng, jsonStr(opts.Title),
		)
	} else {
		js = fmt.Sprintf(
			`L.marker([%f,%f],{title:%s}).addTo(map)`,
			opts.Position.Lat, opts.Position.Lng, jsonStr(opts.Title),
		)
		if opts.Popup != "" {
			js += fmt.Sprintf(`.bindPopup(%s)`, jsonStr(opts.Popup))
		}
		js += ";"
	}
	return m.add(js)
}

func (m *LeafletMap) add(js string) Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := &leafletOverlay{m: m, js: js}
	m.overlays = append(m.overlays, o)
	return o
}

func (m *LeafletMap) Show() {
	m.mu.Lock()
	m.visible = true
	m.mu.Unlock()
}

func (m *LeafletMap) Hide() {
	m.mu.Lock()
	m.visible = false
	m.mu.Unlock()
}

func (m *LeafletMap) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Overlays returns how many overlays are currently drawn.
func (m *LeafletMap) Overlays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overlays)
}

// Script returns the Leaflet includes and drawing script, or "" when the
// map is hidden or was never centred.
func (m *LeafletMap) Script() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible || !m.initialized {
		return ""
	}

	var overlays strings.Builder
	for _, o := range m.overlays {
		overlays.WriteString("\n  ")
		overlays.WriteString(o.js)
	}

	return fmt.Sprintf(`<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" integrity="sha256-p4NxAoJBhIIN+hmNHrzRCf9tD/miZyoHS5obTRR9BMY=" crossorigin="">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js" integrity="sha256-20nQCchB9co0qIjJZRGuk2/Z9VM+kNiyxNV/XN/WPeE=" crossorigin=""></script>
<script>
(function() {
  var map = L.map(%s).setView([%f,%f],%d);
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png',{maxZoom:19,attribution:'&copy; <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a>'}).addTo(map);%s
})();
</script>`, jsonStr(m.container), m.center.Lat, m.center.Lng, m.zoom, overlays.String())
}

// jsonStr returns a JSON-encoded string for use in JavaScript
func jsonStr(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
