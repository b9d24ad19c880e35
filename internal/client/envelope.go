package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvelopeKind names the wrapper a backend put around its payload.
type EnvelopeKind int

const (
	// EnvelopeEmpty is a body with no payload at all.
	EnvelopeEmpty EnvelopeKind = iota
	// EnvelopeBare is the payload itself: an array, an object or a scalar.
	EnvelopeBare
	// EnvelopeData is {"data": payload}.
	EnvelopeData
	// EnvelopeContent is {"content": [...]}, the paged list shape.
	EnvelopeContent
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeEmpty:
		return "empty"
	case EnvelopeBare:
		return "bare"
	case EnvelopeData:
		return "data"
	case EnvelopeContent:
		return "content"
	default:
		return fmt.Sprintf("EnvelopeKind(%d)", int(k))
	}
}

// Envelope is a backend response body with its wrapper resolved. Payload is
// the unwrapped JSON.
type Envelope struct {
	Kind    EnvelopeKind
	Payload json.RawMessage
}

// ParseEnvelope works out which wrapper body uses. Wrappers nest at most one
// level deep, as in {"data": {"content": [...]}}.
func ParseEnvelope(body []byte) (Envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Envelope{Kind: EnvelopeEmpty}, nil
	}
	if !json.Valid(body) {
		return Envelope{}, fmt.Errorf("response is not valid JSON")
	}
	if body[0] != '{' {
		return Envelope{Kind: EnvelopeBare, Payload: body}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Envelope{}, fmt.Errorf("decode response object: %w", err)
	}
	if content, ok := fields["content"]; ok && isArray(content) {
		return Envelope{Kind: EnvelopeContent, Payload: content}, nil
	}
	if data, ok := fields["data"]; ok {
		inner, err := ParseEnvelope(data)
		if err != nil {
			return Envelope{}, err
		}
		if inner.Kind == EnvelopeContent {
			return Envelope{Kind: EnvelopeContent, Payload: inner.Payload}, nil
		}
		return Envelope{Kind: EnvelopeData, Payload: bytes.TrimSpace(data)}, nil
	}
	return Envelope{Kind: EnvelopeBare, Payload: body}, nil
}

// DecodeList decodes a list payload into out, a pointer to a slice. An empty
// body leaves out untouched.
func (e Envelope) DecodeList(out interface{}) error {
	if e.Kind == EnvelopeEmpty || bytes.Equal(e.Payload, []byte("null")) {
		return nil
	}
	if !isArray(e.Payload) {
		return fmt.Errorf("expected a list in %s envelope", e.Kind)
	}
	return json.Unmarshal(e.Payload, out)
}

// DecodeOne decodes a single-object payload into out. It reports false when
// the body carried nothing.
func (e Envelope) DecodeOne(out interface{}) (bool, error) {
	if e.Kind == EnvelopeEmpty || bytes.Equal(e.Payload, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return false, err
	}
	return true, nil
}

// DecodeCount reads a count answered as a bare number, {"data": n} or
// {"count": n}.
func (e Envelope) DecodeCount() (int64, error) {
	if e.Kind == EnvelopeEmpty {
		return 0, nil
	}
	var n int64
	if err := json.Unmarshal(e.Payload, &n); err == nil {
		return n, nil
	}
	var wrapped struct {
		Count *int64 `json:"count"`
		Total *int64 `json:"total"`
	}
	if err := json.Unmarshal(e.Payload, &wrapped); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	switch {
	case wrapped.Count != nil:
		return *wrapped.Count, nil
	case wrapped.Total != nil:
		return *wrapped.Total, nil
	}
	return 0, fmt.Errorf("decode count: no count in %s envelope", e.Kind)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
