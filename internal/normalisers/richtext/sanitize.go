package richtext

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// srcPlaceholder stands in for image sources while the policy runs. Image
// references are only ever inlined or left as they were, so the policy's
// URL checks must not drop them.
const srcPlaceholder = "https://docket.invalid/img/"

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// embedPolicy allows user-generated markup plus inline styles and base64
// image data URIs of any image type, so a normalised value sanitises to
// itself.
func embedPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("style").Globally()
		p.AllowURLSchemeWithCustomPolicy("data", func(u *url.URL) bool {
			opaque := strings.ToLower(u.Opaque)
			return strings.HasPrefix(opaque, "image/") && strings.Contains(opaque, ";base64,")
		})
		policy = p
	})
	return policy
}

// sanitizeTree runs the embed policy over root and returns the cleaned
// tree. Every <img> that survives keeps its original src.
func sanitizeTree(root *html.Node) (*html.Node, error) {
	var held []string
	for _, img := range findElements(root, atom.Img) {
		if src, ok := getAttr(img, "src"); ok {
			setAttr(img, "src", srcPlaceholder+strconv.Itoa(len(held)))
			held = append(held, src)
		}
	}

	content, err := renderChildren(root)
	if err != nil {
		return nil, err
	}
	clean, err := parseFragment(embedPolicy().Sanitize(content))
	if err != nil {
		return nil, err
	}

	for _, img := range findElements(clean, atom.Img) {
		src, _ := getAttr(img, "src")
		i, err := strconv.Atoi(strings.TrimPrefix(src, srcPlaceholder))
		if err != nil || !strings.HasPrefix(src, srcPlaceholder) || i < 0 || i >= len(held) {
			continue
		}
		setAttr(img, "src", held[i])
	}
	return clean, nil
}
