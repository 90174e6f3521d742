package workitem

import (
	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// Options controls extraction.
type Options struct {
	// SkipHTMLFields surfaces the plain-text projection of description and
	// comments instead of their rich-text form.
	SkipHTMLFields bool

	// DateLayout formats date values. Defaults to domain.DefaultDateLayout.
	DateLayout string

	// Cache, when set, stores images fetched while normalising rich text.
	Cache driven.ResourceCache
}

func (o Options) dateLayout() string {
	if o.DateLayout == "" {
		return domain.DefaultDateLayout
	}
	return o.DateLayout
}
