package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docket-cli/internal/connectors/github"
	"github.com/custodia-labs/docket-cli/internal/connectors/recordfile"
	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// TrackerFactory builds a tracker from the current settings.
type TrackerFactory func(settings *domain.AppSettings) (driven.Tracker, error)

// TrackerType describes a registered tracker.
type TrackerType struct {
	ID          string
	Name        string
	Description string
	AuthMethod  domain.AuthMethod
	RefExample  string
}

// TrackerRegistry maps tracker type identifiers to factories.
type TrackerRegistry struct {
	mu        sync.RWMutex
	types     map[string]TrackerType
	factories map[string]TrackerFactory
}

// NewTrackerRegistry creates a registry with the built-in trackers.
// tokenProvider authenticates GitHub requests and may be nil.
func NewTrackerRegistry(tokenProvider driven.TokenProvider) *TrackerRegistry {
	r := &TrackerRegistry{
		types:     make(map[string]TrackerType),
		factories: make(map[string]TrackerFactory),
	}
	r.registerGitHub(tokenProvider)
	r.registerRecordFile()
	return r
}

func (r *TrackerRegistry) registerGitHub(tokenProvider driven.TokenProvider) {
	r.Register(TrackerType{
		ID:          github.TrackerType,
		Name:        "GitHub Issues",
		Description: "Issues and pull requests with comments and timeline",
		AuthMethod:  domain.AuthMethodPAT,
		RefExample:  "owner/repo#123",
	}, func(settings *domain.AppSettings) (driven.Tracker, error) {
		return github.New(tokenProvider, github.ConfigFromSettings(settings.GitHub)), nil
	})
}

func (r *TrackerRegistry) registerRecordFile() {
	r.Register(TrackerType{
		ID:          recordfile.TrackerType,
		Name:        "Record File",
		Description: "A record exported to YAML with local attachments",
		AuthMethod:  domain.AuthMethodNone,
		RefExample:  "./records/42.yaml",
	}, func(*domain.AppSettings) (driven.Tracker, error) {
		return recordfile.New(""), nil
	})
}

// Register adds or replaces a tracker type.
func (r *TrackerRegistry) Register(t TrackerType, factory TrackerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.ID] = t
	r.factories[t.ID] = factory
}

// Create builds a tracker of the given type.
func (r *TrackerRegistry) Create(id string, settings *domain.AppSettings) (driven.Tracker, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: tracker %q", domain.ErrUnsupportedType, id)
	}
	if settings == nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	tracker, err := factory(settings)
	if err != nil {
		return nil, fmt.Errorf("create %s tracker: %w", id, err)
	}
	return tracker, nil
}

// List returns the registered tracker types ordered by ID.
func (r *TrackerRegistry) List() []TrackerType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TrackerType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
