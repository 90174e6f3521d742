package recordfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// Ensure Tracker implements the interface.
var _ driven.Tracker = (*Tracker)(nil)

// TrackerType is the tracker type identifier.
const TrackerType = "file"

// Tracker reads records from YAML files.
type Tracker struct {
	assetsDir string

	mu      sync.RWMutex
	records map[string]*loaded // record id -> file contents
}

// New creates a file tracker. assetsDir holds images referenced by tracker
// URL; empty means the directory of each record file.
func New(assetsDir string) *Tracker {
	return &Tracker{assetsDir: assetsDir, records: make(map[string]*loaded)}
}

// Type returns the tracker type identifier.
func (t *Tracker) Type() string {
	return TrackerType
}

// Authenticated is always false: files carry no session.
func (t *Tracker) Authenticated() bool {
	return false
}

// URLPatterns returns nil so the default tracker URL shapes apply.
func (t *Tracker) URLPatterns() []*regexp.Regexp {
	return nil
}

// Record loads the record file at ref.
func (t *Tracker) Record(ctx context.Context, ref string) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := load(ref)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.records[l.record.ID] = l
	t.mu.Unlock()

	return l.record, nil
}

// Comments returns the comments of a record previously loaded by Record.
func (t *Tracker) Comments(_ context.Context, record *domain.Record) ([]domain.Comment, error) {
	l, err := t.lookup(record)
	if err != nil {
		return nil, err
	}
	return l.comments, nil
}

// AttachmentContent reads an attachment file of the record.
func (t *Tracker) AttachmentContent(_ context.Context, record *domain.Record, attachment domain.Attachment) ([]byte, error) {
	l, err := t.lookup(record)
	if err != nil {
		return nil, err
	}
	path, ok := l.paths[attachment.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAttachmentNotFound, attachment.ID)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", attachment.ID, err)
	}
	return data, nil
}

// Download is not supported: file records have no session.
func (t *Tracker) Download(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("file tracker download: %w", domain.ErrNotImplemented)
}

// Content reads <assets>/<resourceID>, or <assets>/<resourceID>/<fileName>
// when the former is a directory. Without an assets directory, <assets> is
// the directory of record's file.
func (t *Tracker) Content(_ context.Context, record *domain.Record, resourceID, fileName string) ([]byte, error) {
	if resourceID == "" || strings.Contains(resourceID, "..") || strings.ContainsAny(resourceID, `/\`) {
		return nil, fmt.Errorf("resource id %q: %w", resourceID, domain.ErrInvalidInput)
	}

	dir := t.assetsDir
	if dir == "" {
		l, err := t.lookup(record)
		if err != nil {
			return nil, err
		}
		dir = l.dir
	}

	path := filepath.Join(dir, resourceID)
	if info, err := os.Stat(path); err == nil && info.IsDir() && fileName != "" {
		path = filepath.Join(path, filepath.Base(fileName))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource %s: %w", resourceID, err)
	}
	return data, nil
}

func (t *Tracker) lookup(record *domain.Record) (*loaded, error) {
	if record == nil {
		return nil, fmt.Errorf("record: %w", domain.ErrInvalidInput)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	l, ok := t.records[record.ID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", record.ID, domain.ErrNotFound)
	}
	return l, nil
}
