package places

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Browser geolocation error codes.
const (
	codePermissionDenied    = 1
	codePositionUnavailable = 2
	codeTimeout             = 3
)

// Position is a resolved location.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator answers "where am I" once per call.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// ReportedPosition is the browser's answer to getCurrentPosition, posted
// back by the page. Code is zero on success.
type ReportedPosition struct {
	Supported bool
	Code      int
	Latitude  float64
	Longitude float64
}

// ParseReport reads a geolocation report from a submitted form.
func ParseReport(form url.Values) ReportedPosition {
	rep := ReportedPosition{
		Supported: form.Get("supported") == "1" || strings.EqualFold(form.Get("supported"), "true"),
	}
	rep.Code, _ = strconv.Atoi(form.Get("code"))

	lat, latErr := strconv.ParseFloat(form.Get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(form.Get("longitude"), 64)
	if rep.Supported && rep.Code == 0 && (latErr != nil || lonErr != nil) {
		rep.Code = codePositionUnavailable
	}
	rep.Latitude, rep.Longitude = lat, lon
	return rep
}

func (p ReportedPosition) CurrentPosition(ctx context.Context) (Position, error) {
	if !p.Supported {
		return Position{}, &GeolocationError{Reason: GeoUnsupported}
	}
	if p.Code != 0 {
		return Position{}, &GeolocationError{Reason: reasonForCode(p.Code)}
	}
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) || math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return Position{}, &GeolocationError{Reason: GeoPositionUnavailable}
	}
	return Position{Latitude: p.Latitude, Longitude: p.Longitude}, nil
}

func reasonForCode(code int) GeoReason {
	switch code {
	case codePermissionDenied:
		return GeoPermissionDenied
	case codePositionUnavailable:
		return GeoPositionUnavailable
	case codeTimeout:
		return GeoTimeout
	default:
		return GeoUnknown
	}
}

// Locate makes a single attempt to get the current position. A nil locator
// means the platform has no geolocation at all.
func Locate(ctx context.Context, l Locator) (Position, error) {
	if l == nil {
		return Position{}, &GeolocationError{Reason: GeoUnsupported}
	}

	pos, err := l.CurrentPosition(ctx)
	if err == nil {
		return pos, nil
	}

	var geoErr *GeolocationError
	switch {
	case errors.As(err, &geoErr):
		return Position{}, geoErr
	case errors.Is(err, context.DeadlineExceeded):
		return Position{}, &GeolocationError{Reason: GeoTimeout}
	default:
		return Position{}, &GeolocationError{Reason: GeoUnknown}
	}
}
