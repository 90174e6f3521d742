package driven

import (
	"context"
	"regexp"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// Tracker is the external tracking store records are read from.
// Each tracker type (github, file) implements this interface.
//
// Every method may fail. Record and Comments failures abort the export of
// that record; content failures only degrade the image being inlined.
type Tracker interface {
	// Type returns the tracker type identifier.
	Type() string

	// Record fetches a record with its fields, revisions and attachments.
	// The reference format is tracker specific (e.g. "owner/repo#12").
	Record(ctx context.Context, ref string) (*domain.Record, error)

	// Comments fetches the record's comment thread in thread order.
	Comments(ctx context.Context, record *domain.Record) ([]domain.Comment, error)

	// AttachmentContent fetches the bytes of an attachment of the record.
	AttachmentContent(ctx context.Context, record *domain.Record, attachment domain.Attachment) ([]byte, error)

	// Download fetches a tracker-hosted URL using the session credentials.
	Download(ctx context.Context, rawURL string) ([]byte, error)

	// Content fetches a tracker-hosted file referenced from record by
	// resource identifier, without session credentials.
	Content(ctx context.Context, record *domain.Record, resourceID, fileName string) ([]byte, error)

	// Authenticated reports whether session credentials are available.
	Authenticated() bool

	// URLPatterns returns the shapes of tracker-hosted attachment URLs, tried
	// in order. Each pattern must define a "fileId" group and may define a
	// "fileName" group. Nil means the default shapes apply.
	URLPatterns() []*regexp.Regexp
}
