package app

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"
)

// Response is a page to render inside the site template.
type Response struct {
	Title       string
	Description string
	HTML        string
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.URL.Query().Get("format") == "json"
}

// SendsJSON reports whether the request body is JSON.
func SendsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// Respond writes a full HTML page.
func Respond(w http.ResponseWriter, r *http.Request, resp Response) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderHTML(resp.Title, resp.Description, resp.HTML)))
}

// RespondJSON writes v as a 200 JSON response.
func RespondJSON(w http.ResponseWriter, v interface{}) {
	RespondJSONStatus(w, http.StatusOK, v)
}

// RespondJSONStatus writes v as JSON with the given status code.
func RespondJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log("app", "json encode failed: %v", err)
	}
}

// RespondError writes {"error": message} with the given status code.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSONStatus(w, status, map[string]string{"error": message})
}

func respondStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	if WantsJSON(r) {
		RespondError(w, status, message)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(RenderHTML(http.StatusText(status), message,
		`<p class="text-error">`+html.EscapeString(message)+`</p>`)))
}

// BadRequest responds with 400.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	respondStatus(w, r, http.StatusBadRequest, message)
}

// NotFound responds with 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, r, http.StatusNotFound, "Not found")
}

// Unavailable responds with 503.
func Unavailable(w http.ResponseWriter, r *http.Request, message string) {
	respondStatus(w, r, http.StatusServiceUnavailable, message)
}

// MethodNotAllowed responds with 405.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
