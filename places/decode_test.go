package places

import (
	"errors"
	"testing"
)

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		shape  responseShape
		places int
		err    error
	}{
		{"envelope", `{"places": [{"displayName": "A"}], "rateLimitInfo": {"remainingIpRequests": 1}}`, shapeEnvelope, 1, nil},
		{"envelope empty", `{"places": []}`, shapeEnvelope, 0, nil},
		{"list", ` [{"displayName": "A"}, {"displayName": "B"}] `, shapeList, 2, nil},
		{"list with null", `[null, {"displayName": "A"}]`, shapeList, 1, nil},
		{"empty list", `[]`, shapeList, 0, nil},
		{"object without places", `{"data": []}`, shapeUnrecognized, 0, ErrUnrecognizedShape},
		{"places null", `{"places": null}`, shapeUnrecognized, 0, ErrUnrecognizedShape},
		{"scalar", `true`, shapeUnrecognized, 0, ErrUnrecognizedShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, shape, err := decodeResult([]byte(tt.body))
			if shape != tt.shape {
				t.Errorf("shape = %s, want %s", shape, tt.shape)
			}
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Places) != tt.places {
				t.Errorf("places = %d, want %d", len(res.Places), tt.places)
			}
		})
	}
}

func TestDecodeResultKeepsOptionalFields(t *testing.T) {
	res, _, err := decodeResult([]byte(`[{"id": "p1", "displayName": "A", "rating": 4.2, "websiteUri": "https://a.example", "latitude": 1.5, "longitude": -2}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := res.Places[0]
	if p.ID != "p1" || p.Rating == nil || *p.Rating != 4.2 || p.WebsiteURI != "https://a.example" || p.Latitude != 1.5 || p.Longitude != -2 {
		t.Errorf("unexpected place: %+v", p)
	}
	if p.FormattedAddress != "" || p.PrimaryType != "" {
		t.Errorf("absent fields should stay empty: %+v", p)
	}
}

func TestDecodeResultInvalid(t *testing.T) {
	for _, body := range []string{``, `{`, `[{"latitude": "north"}]`} {
		_, _, err := decodeResult([]byte(body))
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Errorf("%q: expected DecodeError, got %v", body, err)
		}
	}
}

func TestRateLimitMessageBody(t *testing.T) {
	if got := rateLimitMessage([]byte(`{"message": "slow down"}`)); got != "slow down" {
		t.Errorf("got %q", got)
	}
	if got := rateLimitMessage([]byte(`<html>`)); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
