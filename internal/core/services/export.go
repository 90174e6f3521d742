package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docket-cli/internal/connectors/github"
	"github.com/custodia-labs/docket-cli/internal/connectors/recordfile"
	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docket-cli/internal/logger"
	"github.com/custodia-labs/docket-cli/internal/normalisers/richtext"
	"github.com/custodia-labs/docket-cli/internal/normalisers/workitem"
	"github.com/custodia-labs/docket-cli/internal/template"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// DefaultChildPrefix is used for children declared without a prefix.
const DefaultChildPrefix = "child."

// ExportService binds tracker records to templates.
type ExportService struct {
	settings  driving.SettingsService
	trackers  *TrackerRegistry
	cache     driven.ResourceCache
	renderers map[string]driven.Renderer

	newID func() string
	now   func() time.Time
}

// NewExportService creates an export service. cache may be nil; it is only
// used when cache.enabled is set.
func NewExportService(
	settings driving.SettingsService,
	trackers *TrackerRegistry,
	cache driven.ResourceCache,
	renderers ...driven.Renderer,
) *ExportService {
	s := &ExportService{
		settings:  settings,
		trackers:  trackers,
		cache:     cache,
		renderers: make(map[string]driven.Renderer, len(renderers)),
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
	for _, r := range renderers {
		s.renderers[r.Format()] = r
	}
	return s
}

// Export fetches the main record and its children, assembles one dictionary
// and checks it against the template's declared parameters.
func (s *ExportService) Export(ctx context.Context, req driving.ExportRequest) (*domain.Binding, error) {
	if strings.TrimSpace(req.Ref) == "" {
		return nil, fmt.Errorf("record reference: %w", domain.ErrInvalidInput)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var tmpl *domain.Template
	if req.TemplatePath != "" {
		tmpl, err = template.ParseFile(req.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("parse template: %w", err)
		}
	}

	trackerType := req.Tracker
	if trackerType == "" {
		trackerType = DetectTracker(req.Ref)
	}
	tracker, err := s.trackers.Create(trackerType, settings)
	if err != nil {
		return nil, err
	}

	opts := workitem.Options{
		SkipHTMLFields: req.SkipHTMLFields,
		DateLayout:     settings.Render.DateLayout,
	}
	if settings.Cache.Enabled && s.cache != nil {
		opts.Cache = s.cache
	}
	assembler := workitem.NewAssembler(tracker, richtext.New(richtext.OptionsFromSettings(settings.Render)), opts)

	dict := domain.NewDictionary()
	if err := s.bind(ctx, tracker, assembler, dict, req.Ref, req.Prefix); err != nil {
		return nil, err
	}
	for _, child := range req.Children {
		prefix := child.Prefix
		if prefix == "" {
			prefix = DefaultChildPrefix
		}
		if err := s.bind(ctx, tracker, assembler, dict, child.Ref, prefix); err != nil {
			return nil, err
		}
	}

	binding := &domain.Binding{
		ID:         s.newID(),
		Template:   tmpl,
		Dictionary: dict,
		CreatedAt:  s.now(),
	}
	if tmpl != nil {
		binding.Missing = tmpl.MissingParameters(dict)
	}

	logger.Info("binding %s: %d values from %s", binding.ID, dict.Len(), req.Ref)
	return binding, nil
}

func (s *ExportService) bind(
	ctx context.Context,
	tracker driven.Tracker,
	assembler *workitem.Assembler,
	dict *domain.Dictionary,
	ref, prefix string,
) error {
	logger.Section("record " + ref)
	logger.Debug("fetching %s record %s", tracker.Type(), ref)

	record, err := tracker.Record(ctx, ref)
	if err != nil {
		return fmt.Errorf("fetch record %s: %w", ref, err)
	}
	return assembler.AssembleInto(ctx, dict, record, prefix)
}

// Render writes binding with the renderer registered for format.
func (s *ExportService) Render(ctx context.Context, binding *domain.Binding, format string, w io.Writer) error {
	r, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, format)
	}
	return r.Render(ctx, w, binding)
}

// DetectTracker picks the tracker type for a reference: YAML paths are
// record files, anything else is GitHub.
func DetectTracker(ref string) string {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return recordfile.TrackerType
	default:
		return github.TrackerType
	}
}
