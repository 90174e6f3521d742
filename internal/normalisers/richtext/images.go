package richtext

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

// ImageStatus is the outcome of inlining one image.
type ImageStatus int

const (
	// ImageInlined means the reference was replaced by a data URI.
	ImageInlined ImageStatus = iota
	// ImageAlreadyInline means the reference was already a data URI.
	ImageAlreadyInline
	// ImageNoSource means the element had no src attribute.
	ImageNoSource
	// ImageUnmatched means no resolver step recognised the reference.
	ImageUnmatched
	// ImageFailed means resolving or fetching the reference failed.
	ImageFailed
)

func (s ImageStatus) String() string {
	switch s {
	case ImageInlined:
		return "inlined"
	case ImageAlreadyInline:
		return "already-inline"
	case ImageNoSource:
		return "no-source"
	case ImageUnmatched:
		return "unmatched"
	case ImageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageResult records what happened to one <img> element.
type ImageResult struct {
	Src    string
	Status ImageStatus
	Err    error

	dataURI string
}

func (n *Normaliser) inlineImages(ctx context.Context, root *html.Node, resolver Resolver) []ImageResult {
	images := findElements(root, atom.Img)
	results := make([]ImageResult, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.opts.Concurrency)
	for i, img := range images {
		src, ok := getAttr(img, "src")
		results[i].Src = src
		switch {
		case !ok || strings.TrimSpace(src) == "":
			results[i].Status = ImageNoSource
			continue
		case isInline(src):
			results[i].Status = ImageAlreadyInline
			continue
		}
		g.Go(func() error {
			results[i] = resolveImage(gctx, resolver, src)
			return nil
		})
	}
	_ = g.Wait()

	for i, img := range images {
		res := results[i]
		switch res.Status {
		case ImageInlined:
			setAttr(img, "src", res.dataURI)
			logger.Debug("inlined image %s", res.Src)
		case ImageAlreadyInline:
			logger.Debug("image already inline, skipping")
		case ImageUnmatched:
			logger.Warn("unable to embed image with url: %s", res.Src)
		case ImageFailed:
			logger.Error("unable to embed image with url %s: %v", res.Src, res.Err)
		}
	}
	return results
}

// resolveImage never panics and never returns an error; failures are
// reported through the result so that one image cannot affect the others.
func resolveImage(ctx context.Context, resolver Resolver, src string) (result ImageResult) {
	result.Src = src
	defer func() {
		if r := recover(); r != nil {
			result.Status = ImageFailed
			result.Err = fmt.Errorf("resolver panic: %v", r)
		}
	}()

	res, err := resolver.Resolve(ctx, src)
	switch {
	case errors.Is(err, domain.ErrNoPatternMatch):
		result.Status = ImageUnmatched
		return result
	case err != nil:
		result.Status = ImageFailed
		result.Err = err
		return result
	case res == nil || len(res.Data) == 0:
		result.Status = ImageFailed
		result.Err = errors.New("empty resource")
		return result
	}

	result.Status = ImageInlined
	result.dataURI = DataURI(res)
	return result
}

// DataURI encodes res as a base64 image data URI.
func DataURI(res *domain.Resource) string {
	return "data:image/" + imageSubtype(res) + ";base64," + base64.StdEncoding.EncodeToString(res.Data)
}

// imageSubtype maps the resource extension to a MIME subtype, falling back
// to sniffing the content when the extension is missing.
func imageSubtype(res *domain.Resource) string {
	ext := strings.ToLower(strings.TrimPrefix(res.Extension, "."))
	if ext != "" {
		if sub, ok := subtypeOf(mime.TypeByExtension("." + ext)); ok {
			return sub
		}
		return ext
	}
	if sub, ok := subtypeOf(http.DetectContentType(res.Data)); ok {
		return sub
	}
	return "png"
}

func subtypeOf(mediaType string) (string, bool) {
	mediaType, _, _ = strings.Cut(mediaType, ";")
	sub, ok := strings.CutPrefix(strings.TrimSpace(mediaType), "image/")
	return sub, ok && sub != ""
}

func isInline(src string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:")
}
