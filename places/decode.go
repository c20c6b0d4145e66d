package places

import (
	"bytes"
	"encoding/json"
)

// responseShape tags the two body layouts the places endpoint may return.
type responseShape int

const (
	shapeUnrecognized responseShape = iota
	shapeEnvelope                   // {"places": [...], "rateLimitInfo": {...}}
	shapeList                       // [...]
)

func (s responseShape) String() string {
	switch s {
	case shapeEnvelope:
		return "envelope"
	case shapeList:
		return "list"
	default:
		return "unrecognized"
	}
}

type envelope struct {
	Places        json.RawMessage `json:"places"`
	RateLimitInfo *RateLimitInfo  `json:"rateLimitInfo"`
}

// decodeResult decodes a 2xx body. The envelope is tried first, then the
// bare list; anything else returns ErrUnrecognizedShape.
func decodeResult(body []byte) (*SearchResult, responseShape, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		var v interface{}
		err := json.Unmarshal(trimmed, &v)
		return nil, shapeUnrecognized, &DecodeError{Err: err}
	}

	switch trimmed[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, shapeUnrecognized, &DecodeError{Err: err}
		}
		raw := bytes.TrimSpace(env.Places)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, shapeUnrecognized, ErrUnrecognizedShape
		}
		list, err := decodeList(raw)
		if err != nil {
			return nil, shapeUnrecognized, err
		}
		return &SearchResult{Places: list, RateLimitInfo: env.RateLimitInfo}, shapeEnvelope, nil
	case '[':
		list, err := decodeList(trimmed)
		if err != nil {
			return nil, shapeUnrecognized, err
		}
		return &SearchResult{Places: list}, shapeList, nil
	}

	return nil, shapeUnrecognized, ErrUnrecognizedShape
}

func decodeList(raw []byte) ([]*Place, error) {
	var list []*Place
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	places := make([]*Place, 0, len(list))
	for _, p := range list {
		if p != nil {
			places = append(places, p)
		}
	}
	return places, nil
}

// rateLimitMessage pulls the optional message out of a 429 body.
func rateLimitMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return ""
	}
	return payload.Message
}
