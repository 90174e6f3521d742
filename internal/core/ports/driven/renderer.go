package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// Renderer merges a binding into an output document.
type Renderer interface {
	// Format returns the output format identifier (e.g. "yaml").
	Format() string

	// Render writes the binding to w.
	Render(ctx context.Context, w io.Writer, binding *domain.Binding) error
}
