package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// Ensure YAMLRenderer implements the interface.
var _ driven.Renderer = (*YAMLRenderer)(nil)

// FormatYAML is the YAML format identifier.
const FormatYAML = "yaml"

// YAMLRenderer writes bindings as YAML.
type YAMLRenderer struct{}

// NewYAMLRenderer creates a YAML renderer.
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

// Format returns "yaml".
func (r *YAMLRenderer) Format() string {
	return FormatYAML
}

// Render writes binding to w. Multi-line values use literal block style.
func (r *YAMLRenderer) Render(ctx context.Context, w io.Writer, binding *domain.Binding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := newDocument(binding)
	if err != nil {
		return err
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	addPair(root, "binding", stringNode(doc.binding))
	if doc.template != "" {
		addPair(root, "template", stringNode(doc.template))
	}
	addPair(root, "created", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: doc.created.Format(time.RFC3339)})
	addPair(root, "missing", sequenceNode(doc.missing))
	addPair(root, "html", sequenceNode(doc.html))

	values := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range doc.values {
		switch v := e.value.(type) {
		case int64:
			addPair(values, e.key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)})
		case string:
			addPair(values, e.key, stringNode(v))
		}
	}
	addPair(root, "values", values)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func addPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, stringNode(key), value)
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func sequenceNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range items {
		n.Content = append(n.Content, stringNode(item))
	}
	return n
}
