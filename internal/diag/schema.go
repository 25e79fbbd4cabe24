package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Schema version for the JSON encoding of a diagnostic batch. Consumers
// (conformance harness, golden tests) pin to this string the same way the
// teacher's schema package pins "ailang.error/v1".
const SchemaV1 = "tscheck.diagnostics/v1"

// Encoded is the wire shape of one diagnostic, produced by EncodeBatch.
type Encoded struct {
	Schema   string        `json:"schema"`
	Code     int           `json:"code"`
	Category string        `json:"category"`
	Message  string        `json:"message"`
	File     string        `json:"file"`
	Start    int           `json:"start"`
	Length   int           `json:"length"`
	Related  []RelatedInfo `json:"related,omitempty"`
}

// EncodeBatch converts a slice of Diagnostics into their wire shape.
func EncodeBatch(diags []Diagnostic) []Encoded {
	out := make([]Encoded, 0, len(diags))
	for _, d := range diags {
		out = append(out, Encoded{
			Schema:   SchemaV1,
			Code:     d.Code,
			Category: d.Category.String(),
			Message:  d.Message,
			File:     d.File,
			Start:    d.Start,
			Length:   d.Length,
			Related:  d.Related,
		})
	}
	return out
}

// MarshalDeterministic marshals v to JSON with map keys sorted, so the same
// logical value always produces byte-identical output (needed for golden
// file comparisons and the conformance harness's diff mode).
func MarshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return data, nil
	}
	return marshalSorted(generic)
}

func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil

	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemJSON, err := marshalSorted(elem)
			if err != nil {
				return nil, err
			}
			buf.Write(elemJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	default:
		return json.Marshal(val)
	}
}

// FormatJSON pretty-prints already-marshaled compact JSON with two-space
// indentation, matching the teacher's FormatJSON helper.
func FormatJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
