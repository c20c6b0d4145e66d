package places

import (
	"errors"
	"fmt"
)

const (
	validationMessage  = "Please enter valid values for latitude, longitude, and radius."
	rateLimitFallback  = "Too many requests. Please try again later."
	searchErrorPrefix  = "Error fetching places: "
	rateLimitPrefix    = "Rate limit exceeded: "
	unsupportedMessage = "Geolocation is not supported by your browser."
)

// ErrUnrecognizedShape marks a 2xx body that is neither the envelope nor a
// bare list. The search degrades to an empty result.
var ErrUnrecognizedShape = errors.New("unrecognized places response shape")

// ValidationError is returned before any network call when the form input
// does not parse.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return validationMessage }

func (e *ValidationError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response other than 429.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Server responded with status: %d", e.StatusCode)
}

// RateLimitError is a 429 response. Message is the server's explanation.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = rateLimitFallback
	}
	return rateLimitPrefix + msg
}

// DecodeError is a 2xx body that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid places response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GeoReason is why a geolocation request failed.
type GeoReason int

const (
	GeoUnknown GeoReason = iota
	GeoPermissionDenied
	GeoPositionUnavailable
	GeoTimeout
	GeoUnsupported
)

func (r GeoReason) String() string {
	switch r {
	case GeoPermissionDenied:
		return "permission-denied"
	case GeoPositionUnavailable:
		return "position-unavailable"
	case GeoTimeout:
		return "timeout"
	case GeoUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// GeolocationError is a failed or impossible position lookup.
type GeolocationError struct {
	Reason GeoReason
}

func (e *GeolocationError) Error() string {
	switch e.Reason {
	case GeoPermissionDenied:
		return "User denied the request for Geolocation."
	case GeoPositionUnavailable:
		return "Location information is unavailable."
	case GeoTimeout:
		return "The request to get user location timed out."
	case GeoUnsupported:
		return unsupportedMessage
	default:
		return "An unknown error occurred."
	}
}
