package places

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Place is a point of interest returned by the places backend.
type Place struct {
	ID               string   `json:"id,omitempty"`
	DisplayName      string   `json:"displayName,omitempty"`
	FormattedAddress string   `json:"formattedAddress,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	PrimaryType      string   `json:"primaryType,omitempty"`
	WebsiteURI       string   `json:"websiteUri,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
}

// RateLimitInfo carries the server's remaining request counters. It is
// advisory only and never gates a search.
type RateLimitInfo struct {
	RemainingIPRequests     *int `json:"remainingIpRequests,omitempty"`
	RemainingGlobalRequests *int `json:"remainingGlobalRequests,omitempty"`
}

// SearchQuery is a validated search centre and radius.
type SearchQuery struct {
	Latitude  float64 `json:"latitude" validate:"finite"`
	Longitude float64 `json:"longitude" validate:"finite"`
	Radius    int     `json:"radius" validate:"gte=0"`
}

// SearchResult is what one search hands to the renderer and the banners.
type SearchResult struct {
	Places        []*Place       `json:"places"`
	RateLimitInfo *RateLimitInfo `json:"rateLimitInfo,omitempty"`
}

// Form holds the raw text of the three search inputs.
type Form struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Radius    string `json:"radius"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	})
	return v
}

// ParseQuery turns the form text into a SearchQuery. Latitude and longitude
// must parse as floats in full. Radius is read from its leading integer, so
// "1000.5" and "12m" give 1000 and 12.
func ParseQuery(f Form) (SearchQuery, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(f.Latitude), 64)
	if err != nil {
		return SearchQuery{}, &ValidationError{Field: "latitude", Err: err}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(f.Longitude), 64)
	if err != nil {
		return SearchQuery{}, &ValidationError{Field: "longitude", Err: err}
	}
	radius, err := leadingInt(f.Radius)
	if err != nil {
		return SearchQuery{}, &ValidationError{Field: "radius", Err: err}
	}

	q := SearchQuery{Latitude: lat, Longitude: lon, Radius: radius}
	if err := validate.Struct(q); err != nil {
		field := ""
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		return SearchQuery{}, &ValidationError{Field: field, Err: err}
	}
	return q, nil
}

var intPrefix = regexp.MustCompile(`^[+-]?[0-9]+`)

func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	digits := intPrefix.FindString(s)
	if digits == "" {
		return 0, &strconv.NumError{Func: "Atoi", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.Atoi(digits)
}

// formatCoord prints a coordinate the way a number input shows it.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// displayName returns the place's name or the N/A placeholder.
func displayName(p *Place) string {
	if p.DisplayName == "" {
		return missingName
	}
	return p.DisplayName
}

// address returns the place's address or its placeholder.
func address(p *Place) string {
	if p.FormattedAddress == "" {
		return missingAddress
	}
	return p.FormattedAddress
}
