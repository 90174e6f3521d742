package richtext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

// renderNode is html.Render; tests replace it to exercise render failures.
var renderNode = html.Render

// errorPrefix starts the diagnostic that replaces a field whose markup
// could not be processed.
const errorPrefix = "Error converting HTML text: "

// Options controls a Normaliser.
type Options struct {
	// InlineResources replaces remote image references with data URIs.
	InlineResources bool

	// NormalizeFont strips StripAttributes from every element and removes
	// line breaks nested in paragraphs.
	NormalizeFont bool

	// StripAttributes lists the attributes removed by NormalizeFont.
	// Defaults to "style".
	StripAttributes []string

	// CollapseTags lists elements replaced by their text content.
	CollapseTags []string

	// Sanitize drops markup that cannot be embedded before processing.
	Sanitize bool

	// Concurrency bounds concurrent image fetches. Values below 1 mean 1.
	Concurrency int
}

// OptionsFromSettings derives normaliser options from render settings.
func OptionsFromSettings(s domain.RenderSettings) Options {
	return Options{
		InlineResources: s.InlineImages,
		NormalizeFont:   s.NormalizeFont,
		StripAttributes: s.StripAttributes,
		CollapseTags:    s.CollapseTags,
		Sanitize:        s.Sanitize,
		Concurrency:     s.ImageConcurrency,
	}
}

// Report describes what happened while normalising one value.
type Report struct {
	// Images holds one result per <img> element, in document order.
	Images []ImageResult

	// Err is set when the whole value degraded to a diagnostic.
	Err error
}

// Normaliser rewrites HTML for embedding. It is safe for concurrent use.
type Normaliser struct {
	opts Options
}

// New creates a normaliser.
func New(opts Options) *Normaliser {
	if len(opts.StripAttributes) == 0 {
		opts.StripAttributes = []string{"style"}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Normaliser{opts: opts}
}

// Options returns the normaliser's effective options.
func (n *Normaliser) Options() Options {
	return n.opts
}

// Normalise returns content rewritten for embedding.
// resolver may be nil, in which case no image is inlined.
func (n *Normaliser) Normalise(ctx context.Context, content string, resolver Resolver) string {
	out, _ := n.NormaliseWithReport(ctx, content, resolver)
	return out
}

// NormaliseWithReport is Normalise that also returns what happened to each image.
func (n *Normaliser) NormaliseWithReport(
	ctx context.Context, content string, resolver Resolver,
) (out string, report Report) {
	defer func() {
		if r := recover(); r != nil {
			report.Err = fmt.Errorf("%v", r)
			logger.Error("unable to generate embeddable html: %v", r)
			out = errorPrefix + report.Err.Error()
		}
	}()

	root, err := parseFragment(content)
	if err == nil && n.opts.Sanitize {
		root, err = sanitizeTree(root)
	}
	if err != nil {
		report.Err = err
		logger.Error("unable to parse html: %v", err)
		return errorPrefix + err.Error(), report
	}

	if n.opts.InlineResources && resolver != nil {
		report.Images = n.inlineImages(ctx, root, resolver)
	}

	if n.opts.NormalizeFont {
		for _, name := range n.opts.StripAttributes {
			removeAttribute(root, name)
		}
		removeNested(root, atom.P, atom.Br)
	}

	for _, tag := range n.opts.CollapseTags {
		collapseElements(root, tag)
	}

	out, err = renderChildren(root)
	if err != nil {
		report.Err = err
		logger.Error("unable to render html: %v", err)
		return errorPrefix + err.Error(), report
	}
	return out, report
}

// Text returns the visible text of content with all markup removed.
// Script and style bodies are not visible text and are dropped.
func Text(content string) string {
	root, err := parseFragment(content)
	if err != nil {
		logger.Warn("unable to parse html for text projection: %v", err)
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			sb.WriteString(node.Data)
			return
		case node.Type == html.ElementNode && (node.DataAtom == atom.Script || node.DataAtom == atom.Style):
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String()
}

// parseFragment parses content as the body of a document and returns a
// detached <body> element holding the parsed nodes.
func parseFragment(content string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), root)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for _, node := range nodes {
		root.AppendChild(node)
	}
	return root, nil
}

func renderChildren(root *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := renderNode(&buf, c); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}
