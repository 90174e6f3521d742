package richtext

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

// Resolver fetches the resource an image reference points at.
type Resolver interface {
	// Resolve returns the resource behind src.
	// Returns domain.ErrNoPatternMatch when src is not a reference the
	// resolver knows how to fetch.
	Resolve(ctx context.Context, src string) (*domain.Resource, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, src string) (*domain.Resource, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, src string) (*domain.Resource, error) {
	return f(ctx, src)
}

var attachmentPattern = regexp.MustCompile(`(?i)FileID=(?P<id>\d*)`)

// DefaultURLPatterns are the tracker-hosted attachment URL shapes tried when
// a tracker does not declare its own.
var DefaultURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)_apis/wit/attachments/(?P<fileId>[^?]*)\?fileName=(?P<fileName>[^&]*)`),
	regexp.MustCompile(`(?i)FileNameGuid=(?P<fileId>[^&]*).*fileName=(?P<fileName>[^&]*)`),
}

// TrackerResolver resolves image references against a tracker in three
// steps: record attachments by FileID, then tracker URL shapes, then no match.
type TrackerResolver struct {
	tracker  driven.Tracker
	record   *domain.Record
	patterns []*regexp.Regexp
}

// NewTrackerResolver creates a resolver for images in record's fields.
func NewTrackerResolver(tracker driven.Tracker, record *domain.Record) *TrackerResolver {
	patterns := tracker.URLPatterns()
	if patterns == nil {
		patterns = DefaultURLPatterns
	}
	return &TrackerResolver{tracker: tracker, record: record, patterns: patterns}
}

// Resolve implements Resolver.
func (r *TrackerResolver) Resolve(ctx context.Context, src string) (*domain.Resource, error) {
	if m := attachmentPattern.FindStringSubmatch(src); m != nil {
		return r.attachment(ctx, m[attachmentPattern.SubexpIndex("id")])
	}

	for _, p := range r.patterns {
		m := p.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		fileID := group(p, m, "fileId")
		fileName := group(p, m, "fileName")

		var data []byte
		var err error
		if r.tracker.Authenticated() {
			data, err = r.tracker.Download(ctx, src)
		} else {
			data, err = r.tracker.Content(ctx, r.record, fileID, fileName)
		}
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		return &domain.Resource{Data: data, Extension: trimDot(path.Ext(fileName))}, nil
	}

	return nil, domain.ErrNoPatternMatch
}

func (r *TrackerResolver) attachment(ctx context.Context, id string) (*domain.Resource, error) {
	if r.record == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAttachmentNotFound, id)
	}
	att, ok := r.record.Attachment(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAttachmentNotFound, id)
	}
	data, err := r.tracker.AttachmentContent(ctx, r.record, att)
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %s: %w", id, err)
	}
	return &domain.Resource{Data: data, Extension: att.Extension()}, nil
}

func group(p *regexp.Regexp, m []string, name string) string {
	i := p.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

// CachedResolver serves resources from a cache before asking the wrapped
// resolver, and stores what the wrapped resolver returns.
type CachedResolver struct {
	inner Resolver
	cache driven.ResourceCache
}

// NewCachedResolver wraps inner with cache. A nil cache returns inner as is.
func NewCachedResolver(inner Resolver, cache driven.ResourceCache) Resolver {
	if cache == nil {
		return inner
	}
	return &CachedResolver{inner: inner, cache: cache}
}

// Resolve implements Resolver.
func (r *CachedResolver) Resolve(ctx context.Context, src string) (*domain.Resource, error) {
	res, err := r.cache.Get(ctx, src)
	if err == nil {
		logger.Debug("resource cache hit: %s", src)
		return res, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("resource cache read failed: %v", err)
	}

	res, err = r.inner.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Put(ctx, src, res); err != nil {
		logger.Warn("resource cache write failed: %v", err)
	}
	return res, nil
}
