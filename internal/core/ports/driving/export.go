package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// ChildRef embeds another record's fields under a key prefix.
type ChildRef struct {
	// Ref is the tracker reference of the child record.
	Ref string

	// Prefix is prepended to every key of the child (e.g. "child.").
	Prefix string
}

// ExportRequest describes one record-to-template binding.
type ExportRequest struct {
	// Tracker selects the tracker type ("github", "file").
	Tracker string

	// Ref is the tracker reference of the main record.
	Ref string

	// Prefix is prepended to every key of the main record.
	Prefix string

	// Children are additional records embedded under their own prefixes.
	Children []ChildRef

	// TemplatePath is the template document declaring parameters. Optional.
	TemplatePath string

	// SkipHTMLFields asks for plain text instead of rich text where the
	// target cannot embed HTML.
	SkipHTMLFields bool
}

// ExportService binds tracker records to templates.
type ExportService interface {
	// Export assembles the substitution dictionary for req.
	Export(ctx context.Context, req ExportRequest) (*domain.Binding, error)

	// Render writes a binding using the renderer registered for format.
	Render(ctx context.Context, binding *domain.Binding, format string, w io.Writer) error
}

