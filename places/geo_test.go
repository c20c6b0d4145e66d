package places

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

type locatorFunc func(ctx context.Context) (Position, error)

func (f locatorFunc) CurrentPosition(ctx context.Context) (Position, error) { return f(ctx) }

func TestParseReport(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want ReportedPosition
	}{
		{
			"success",
			url.Values{"supported": {"1"}, "latitude": {"51.5"}, "longitude": {"-0.12"}},
			ReportedPosition{Supported: true, Latitude: 51.5, Longitude: -0.12},
		},
		{
			"denied",
			url.Values{"supported": {"true"}, "code": {"1"}},
			ReportedPosition{Supported: true, Code: codePermissionDenied},
		},
		{
			"missing coordinates",
			url.Values{"supported": {"1"}},
			ReportedPosition{Supported: true, Code: codePositionUnavailable},
		},
		{
			"unsupported",
			url.Values{"supported": {"0"}},
			ReportedPosition{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseReport(tt.form); got != tt.want {
				t.Errorf("ParseReport = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReportedPositionErrors(t *testing.T) {
	tests := []struct {
		rep  ReportedPosition
		want string
	}{
		{ReportedPosition{Supported: false}, "Geolocation is not supported by your browser."},
		{ReportedPosition{Supported: true, Code: 1}, "User denied the request for Geolocation."},
		{ReportedPosition{Supported: true, Code: 2}, "Location information is unavailable."},
		{ReportedPosition{Supported: true, Code: 3}, "The request to get user location timed out."},
		{ReportedPosition{Supported: true, Code: 9}, "An unknown error occurred."},
	}
	for _, tt := range tests {
		_, err := Locate(context.Background(), tt.rep)
		if err == nil || err.Error() != tt.want {
			t.Errorf("Locate(%+v) error = %v, want %q", tt.rep, err, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	pos, err := Locate(context.Background(), ReportedPosition{Supported: true, Latitude: 1.5, Longitude: 2.25})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos != (Position{Latitude: 1.5, Longitude: 2.25}) {
		t.Errorf("position = %+v", pos)
	}

	var geoErr *GeolocationError
	if _, err := Locate(context.Background(), nil); !errors.As(err, &geoErr) || geoErr.Reason != GeoUnsupported {
		t.Errorf("nil locator: got %v, want unsupported", err)
	}

	timeout := locatorFunc(func(ctx context.Context) (Position, error) {
		return Position{}, context.DeadlineExceeded
	})
	if _, err := Locate(context.Background(), timeout); !errors.As(err, &geoErr) || geoErr.Reason != GeoTimeout {
		t.Errorf("deadline: got %v, want timeout", err)
	}

	broken := locatorFunc(func(ctx context.Context) (Position, error) {
		return Position{}, errors.New("sensor on fire")
	})
	if _, err := Locate(context.Background(), broken); !errors.As(err, &geoErr) || geoErr.Reason != GeoUnknown {
		t.Errorf("other failure: got %v, want unknown", err)
	}
}
