package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

var testQuery = SearchQuery{Latitude: 51.5, Longitude: -0.12, Radius: 500}

func TestSearchEnvelope(t *testing.T) {
	srv, queries := newUpstream(t, http.StatusOK, `{
		"places": [{"displayName": "A", "latitude": 1, "longitude": 2}, {"displayName": "B", "latitude": 3, "longitude": 4}],
		"count": 2,
		"rateLimitInfo": {"remainingIpRequests": 3, "remainingGlobalRequests": 40}
	}`)

	res, err := NewClient(srv.URL).Search(context.Background(), testQuery)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Places) != 2 || res.Places[1].DisplayName != "B" {
		t.Fatalf("unexpected places: %+v", res.Places)
	}
	if res.RateLimitInfo == nil || *res.RateLimitInfo.RemainingIPRequests != 3 || *res.RateLimitInfo.RemainingGlobalRequests != 40 {
		t.Errorf("unexpected rate limit info: %+v", res.RateLimitInfo)
	}
	if len(*queries) != 1 || (*queries)[0] != "longitude=-0.12&latitude=51.5&radius=500" {
		t.Errorf("query = %v", *queries)
	}
}

func TestSearchBareList(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, `[{"displayName": "A", "latitude": 1, "longitude": 2}]`)

	res, err := NewClient(srv.URL).Search(context.Background(), testQuery)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Places) != 1 {
		t.Errorf("expected 1 place, got %d", len(res.Places))
	}
	if res.RateLimitInfo != nil {
		t.Errorf("bare list carries no rate limit info, got %+v", res.RateLimitInfo)
	}
}

func TestSearchRateLimited(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with message", `{"message": "slow down"}`, "Rate limit exceeded: slow down"},
		{"without message", `{}`, "Rate limit exceeded: Too many requests. Please try again later."},
		{"not json", `too many`, "Rate limit exceeded: Too many requests. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusTooManyRequests, tt.body)

			_, err := NewClient(srv.URL).Search(context.Background(), testQuery)
			var rlErr *RateLimitError
			if !errors.As(err, &rlErr) {
				t.Fatalf("expected RateLimitError, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusInternalServerError, `oops`)

	_, err := NewClient(srv.URL).Search(context.Background(), testQuery)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
	if err.Error() != "Server responded with status: 500" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestSearchUnrecognizedShape(t *testing.T) {
	for _, body := range []string{`{"results": []}`, `{"places": {}}`, `"nope"`, `42`} {
		srv, _ := newUpstream(t, http.StatusOK, body)

		res, err := NewClient(srv.URL).Search(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", body, err)
		}
		if len(res.Places) != 0 || res.RateLimitInfo != nil {
			t.Errorf("%s: expected empty result, got %+v", body, res)
		}
	}
}

func TestSearchInvalidJSON(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, `{"places": [`)

	_, err := NewClient(srv.URL).Search(context.Background(), testQuery)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestSearchTransportError(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusOK, `[]`)
	srv.Close()

	_, err := NewClient(srv.URL, WithTimeout(time.Second)).Search(context.Background(), testQuery)
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
}

func TestSearchURLExistingQuery(t *testing.T) {
	c := NewClient("http://example.com/api/places?key=1")
	got := c.searchURL(SearchQuery{Latitude: 1.25, Longitude: -3, Radius: 0})
	want := "http://example.com/api/places?key=1&longitude=-3&latitude=1.25&radius=0"
	if got != want {
		t.Errorf("searchURL = %q, want %q", got, want)
	}
}

func TestSearchRecordsUpstreamMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ok, _ := newUpstream(t, http.StatusOK, `[]`)
	limited, _ := newUpstream(t, http.StatusTooManyRequests, `{}`)

	NewClient(ok.URL, WithMetrics(m)).Search(context.Background(), testQuery)
	NewClient(limited.URL, WithMetrics(m)).Search(context.Background(), testQuery)

	if n := testutil.CollectAndCount(m.UpstreamDuration); n != 2 {
		t.Errorf("expected 2 status series, got %d", n)
	}
}
