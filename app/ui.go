package app

import (
	"html"
	"strings"
)

// UI layout helpers for consistent rendering.
// Use these wrappers + localscope.css classes.

// Empty renders an empty state message
func Empty(class, message string) string {
	if class == "" {
		class = "empty"
	}
	return `<p class="` + class + `">` + html.EscapeString(message) + `</p>`
}

// CardDivClass wraps content in a card with additional classes
func CardDivClass(class, content string) string {
	return `<div class="card ` + class + `">` + content + `</div>`
}

// ExternalLink renders a link that opens in a new tab
func ExternalLink(href, label string) string {
	return `<a href="` + html.EscapeString(href) + `" target="_blank" rel="noopener">` + html.EscapeString(label) + `</a>`
}

// Hidden returns the hidden class when cond holds
func Hidden(class string, cond bool) string {
	if cond {
		return strings.TrimSpace(class + " hidden")
	}
	return class
}

// Section wraps content in a titled status-style section
func Section(title, content string) string {
	return `<div class="status-section"><h3>` + html.EscapeString(title) + `</h3>` + content + `</div>`
}
