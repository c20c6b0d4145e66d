package api

import (
	"fmt"
)

type Endpoint struct {
	Name        string
	Path        string
	Method      string
	Params      []*Param
	Response    []*Value
	Description string
}

type Param struct {
	Name        string
	Value       string
	Description string
}

type Value struct {
	Type   string
	Params []*Param
}

var searchParams = []*Param{
	{
		Name:        "latitude",
		Value:       "number",
		Description: "Latitude of the search centre",
	},
	{
		Name:        "longitude",
		Value:       "number",
		Description: "Longitude of the search centre",
	},
	{
		Name:        "radius",
		Value:       "number",
		Description: "Search radius in meters (whole number, 0 or more)",
	},
}

var viewResponse = []*Value{
	{
		Type: "JSON",
		Params: []*Param{
			{
				Name:        "state",
				Value:       "string",
				Description: "Controller state: idle, validating, loading, displaying or error",
			},
			{
				Name:        "busy",
				Value:       "boolean",
				Description: "Whether a search or location lookup is in flight",
			},
			{
				Name:        "form",
				Value:       "object",
				Description: "The current latitude, longitude and radius field values",
			},
			{
				Name:        "items",
				Value:       "array",
				Description: "Rendered result cards (HTML), or the no-results placeholder",
			},
			{
				Name:        "result",
				Value:       "object",
				Description: "The places and rateLimitInfo currently on screen",
			},
			{
				Name:        "mapVisible",
				Value:       "boolean",
				Description: "Whether the map is shown",
			},
			{
				Name:        "banners",
				Value:       "array",
				Description: "Live banners with id, kind (error or rate-limit), message, shown and ttl",
			},
		},
	},
}

var Endpoints = []*Endpoint{{
	Name:        "Search Places",
	Path:        "/places/search",
	Method:      "POST",
	Description: "Search for places around a location. Browsers are redirected back to /places; send Accept: application/json for the view.",
	Params:      searchParams,
	Response:    viewResponse,
}, {
	Name:        "Search Places (query)",
	Path:        "/places/search?latitude={lat}&longitude={lon}&radius={meters}",
	Method:      "GET",
	Description: "Same as the form search, for links and scripts",
	Response:    viewResponse,
}, {
	Name:        "Use Current Location",
	Path:        "/places/locate",
	Method:      "POST",
	Description: "Report the browser's geolocation answer. Fills the coordinate fields only; it does not search.",
	Params: []*Param{
		{
			Name:        "supported",
			Value:       "boolean",
			Description: "Whether the browser offers geolocation at all",
		},
		{
			Name:        "code",
			Value:       "number",
			Description: "Geolocation error code: 1 permission denied, 2 position unavailable, 3 timeout; empty on success",
		},
		{
			Name:        "latitude",
			Value:       "number",
			Description: "Reported latitude",
		},
		{
			Name:        "longitude",
			Value:       "number",
			Description: "Reported longitude",
		},
	},
	Response: viewResponse,
}, {
	Name:        "View",
	Path:        "/places/view",
	Method:      "GET",
	Description: "The current page state for this session",
	Response:    viewResponse,
}, {
	Name:        "Status",
	Path:        "/status?format=json",
	Method:      "GET",
	Description: "Server status, configuration checks and recent upstream calls",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "healthy",
					Value:       "boolean",
					Description: "Whether every check passes",
				},
				{
					Name:        "uptime",
					Value:       "string",
					Description: "Time since start",
				},
				{
					Name:        "sessions",
					Value:       "number",
					Description: "Active visitor sessions",
				},
				{
					Name:        "checks",
					Value:       "array",
					Description: "Configuration checks with name, status, details",
				},
			},
		},
	},
}, {
	Name:        "Metrics",
	Path:        "/metrics",
	Method:      "GET",
	Description: "Prometheus metrics",
	Response: []*Value{
		{
			Type: "Text",
			Params: []*Param{
				{
					Name:        "localscope_searches_total",
					Value:       "counter",
					Description: "Searches by outcome: ok, empty, invalid, rate_limited, http_error, failed",
				},
				{
					Name:        "localscope_upstream_request_duration_seconds",
					Value:       "histogram",
					Description: "Places endpoint latency by status code",
				},
				{
					Name:        "localscope_sessions_active",
					Value:       "gauge",
					Description: "Visitor sessions in memory",
				},
			},
		},
	},
}}

// Register an endpoint
func Register(ep *Endpoint) {
	Endpoints = append(Endpoints, ep)
}

// Markdown API document
func Markdown() string {
	var data string

	data += "# API Documentation\n\n"
	data += "## Sessions\n\n"
	data += "Each visitor gets a `localscope_session` cookie on first request. Searches, banners and\n"
	data += "the map belong to that session, so send the cookie back on every call.\n\n"
	data += "Example:\n"
	data += "```bash\n"
	data += "curl -c jar -b jar -H \"Accept: application/json\" \\\n"
	data += "     \"http://localhost:8080/places/search?latitude=51.5&longitude=-0.12&radius=500\"\n"
	data += "```\n\n"
	data += "---\n\n"
	data += "## Endpoints\n\n"

	for _, endpoint := range Endpoints {
		data += "## " + endpoint.Name
		data += fmt.Sprintln()
		data += fmt.Sprintln()
		data += fmt.Sprintln(endpoint.Description)
		data += fmt.Sprintln()
		data += fmt.Sprintf("```%s %s```", endpoint.Method, endpoint.Path)
		data += fmt.Sprintln()

		if endpoint.Params != nil {
			data += fmt.Sprintln("#### Request")
			data += fmt.Sprintln()
			data += fmt.Sprintln("Format: form or query string")
			data += fmt.Sprintln()
			data += "| Field | Type | Description |"
			data += fmt.Sprintln()
			data += "| ----- | ---- | ----------- |"
			data += fmt.Sprintln()

			for _, param := range endpoint.Params {
				data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
				data += fmt.Sprintln()
			}
			data += fmt.Sprintln()
		}

		if endpoint.Response != nil {
			data += fmt.Sprintln("#### Response")
			data += fmt.Sprintln()
			for _, resp := range endpoint.Response {
				data += fmt.Sprintln()
				data += fmt.Sprintf("Format: %s", resp.Type)
				data += fmt.Sprintln()
				data += "| Field | Type | Description |"
				data += fmt.Sprintln()
				data += "| ----- | ---- | ----------- |"
				data += fmt.Sprintln()
				for _, param := range resp.Params {
					data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
					data += fmt.Sprintln()
				}
			}
			data += fmt.Sprintln()
		}

		data += fmt.Sprintln()
	}

	return data
}
