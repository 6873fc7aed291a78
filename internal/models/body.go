package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type BodyKind int

const (
	BodyText BodyKind = iota
	BodyJSON
)

// Body is either a JSON document or raw text. JSON is kept as raw bytes so
// relayed upstream documents keep their key order and number precision.
type Body struct {
	Kind BodyKind
	JSON json.RawMessage
	Text string
}

// ParseBody interprets raw bytes as JSON when they form a valid document,
// otherwise as text.
func ParseBody(raw []byte) Body {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return Body{Kind: BodyJSON, JSON: json.RawMessage(trimmed)}
	}
	return Body{Kind: BodyText, Text: string(raw)}
}

func TextBody(text string) Body {
	return Body{Kind: BodyText, Text: text}
}

func JSONBody(v any) (Body, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("failed to marshal body: %w", err)
	}
	return Body{Kind: BodyJSON, JSON: raw}, nil
}

// MustJSONBody is JSONBody for values known to marshal, such as the
// response structs in this package.
func MustJSONBody(v any) Body {
	body, err := JSONBody(v)
	if err != nil {
		panic(err)
	}
	return body
}

func (b Body) IsJSON() bool {
	return b.Kind == BodyJSON
}

// Object decodes a JSON object body into a map. Any other body yields false.
func (b Body) Object() (map[string]any, bool) {
	if !b.IsJSON() || len(b.JSON) == 0 || b.JSON[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(b.JSON, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// String returns the body as the caller would see it on the wire.
func (b Body) String() string {
	if b.IsJSON() {
		return string(b.JSON)
	}
	return b.Text
}
