package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// Ensure JSONRenderer implements the interface.
var _ driven.Renderer = (*JSONRenderer)(nil)

// FormatJSON is the JSON format identifier.
const FormatJSON = "json"

// JSONRenderer writes bindings as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Format returns "json".
func (r *JSONRenderer) Format() string {
	return FormatJSON
}

// jsonDocument mirrors document with JSON field names.
type jsonDocument struct {
	Binding  string        `json:"binding"`
	Template string        `json:"template,omitempty"`
	Created  time.Time     `json:"created"`
	Missing  []string      `json:"missing"`
	HTML     []string      `json:"html"`
	Values   orderedValues `json:"values"`
}

// orderedValues marshals as an object preserving entry order.
type orderedValues []entry

func (o orderedValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, e.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, e.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON encodes v without HTML escaping.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// Render writes binding to w.
func (r *JSONRenderer) Render(ctx context.Context, w io.Writer, binding *domain.Binding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := newDocument(binding)
	if err != nil {
		return err
	}

	out := jsonDocument{
		Binding:  doc.binding,
		Template: doc.template,
		Created:  doc.created,
		Missing:  nonNil(doc.missing),
		HTML:     nonNil(doc.html),
		Values:   orderedValues(doc.values),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
