package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func findElements(root *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == a {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func getAttr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(node *html.Node, key, val string) {
	for i, a := range node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
}

// removeAttribute deletes key from every element under root.
func removeAttribute(root *html.Node, key string) {
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && len(node.Attr) > 0 {
			kept := node.Attr[:0]
			for _, a := range node.Attr {
				if !strings.EqualFold(a.Key, key) {
					kept = append(kept, a)
				}
			}
			node.Attr = kept
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// removeNested deletes every child element found anywhere inside a parent element.
func removeNested(root *html.Node, parent, child atom.Atom) {
	for _, p := range findElements(root, parent) {
		for _, c := range findElements(p, child) {
			if c.Parent != nil {
				c.Parent.RemoveChild(c)
			}
		}
	}
}

// collapseElements replaces every element named tag with its text content.
func collapseElements(root *html.Node, tag string) {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && strings.EqualFold(node.Data, tag) {
			matches = append(matches, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, node := range matches {
		var sb strings.Builder
		collectText(node, &sb)
		text := &html.Node{Type: html.TextNode, Data: sb.String()}
		node.Parent.InsertBefore(text, node)
		node.Parent.RemoveChild(node)
	}
}

func collectText(node *html.Node, sb *strings.Builder) {
	if node.Type == html.TextNode {
		sb.WriteString(node.Data)
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
